package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(area, system, equipment string, score Score) Record {
	return Record{Area: area, System: system, Equipment: equipment, EquipScore: score}
}

func TestAggregate_WorstWins(t *testing.T) {
	v := DefaultVocabulary()
	records := []Record{
		scored("North", "Cooling", "Pump A", ScoreGood),
		scored("North", "Cooling", "Pump B", ScoreFair),
		scored("North", "Power", "Gen 1", ScoreBad),
		scored("South", "Cooling", "Pump C", ScoreGood),
	}

	agg := Aggregate(records, v)

	want := Aggregates{
		Areas: []AreaScore{
			{Area: "North", Score: ScoreBad, Status: StatusRed, Systems: 2},
			{Area: "South", Score: ScoreGood, Status: StatusGreen, Systems: 1},
		},
		Systems: []SystemScore{
			{Area: "North", System: "Cooling", Score: ScoreFair, Status: StatusAmber, Records: 2},
			{Area: "North", System: "Power", Score: ScoreBad, Status: StatusRed, Records: 1},
			{Area: "South", System: "Cooling", Score: ScoreGood, Status: StatusGreen, Records: 1},
		},
		Equipment: []EquipmentScore{
			{Area: "North", System: "Cooling", Equipment: "Pump A", Score: ScoreGood, Status: StatusGreen, Records: 1},
			{Area: "North", System: "Cooling", Equipment: "Pump B", Score: ScoreFair, Status: StatusAmber, Records: 1},
			{Area: "North", System: "Power", Equipment: "Gen 1", Score: ScoreBad, Status: StatusRed, Records: 1},
			{Area: "South", System: "Cooling", Equipment: "Pump C", Score: ScoreGood, Status: StatusGreen, Records: 1},
		},
	}
	if diff := cmp.Diff(want, agg); diff != "" {
		t.Errorf("Aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_AreaTakesWorstSystem(t *testing.T) {
	records := []Record{
		scored("A", "S1", "E1", ScoreBad),
		scored("A", "S2", "E2", ScoreGood),
	}
	agg := Aggregate(records, DefaultVocabulary())

	area, ok := agg.Area("A")
	require.True(t, ok)
	assert.Equal(t, ScoreBad, area.Score)

	for _, s := range agg.Systems {
		assert.LessOrEqual(t, area.Score, s.Score, "area must never be better than a system")
	}
}

func TestAggregate_SameSystemNameInTwoAreasStaysDistinct(t *testing.T) {
	records := []Record{
		scored("North", "Cooling", "Pump A", ScoreBad),
		scored("South", "Cooling", "Pump A", ScoreGood),
	}
	agg := Aggregate(records, DefaultVocabulary())

	require.Len(t, agg.Systems, 2)
	north, ok := agg.System("North", "Cooling")
	require.True(t, ok)
	south, ok := agg.System("South", "Cooling")
	require.True(t, ok)
	assert.Equal(t, ScoreBad, north.Score)
	assert.Equal(t, ScoreGood, south.Score)
	assert.Len(t, agg.Equipment, 2)
}

func TestAggregate_UnknownScoresSkipped(t *testing.T) {
	records := []Record{
		scored("A", "S1", "E1", ScoreUnknown),
		scored("A", "S1", "E2", ScoreFair),
		scored("A", "S2", "E3", ScoreUnknown),
	}
	agg := Aggregate(records, DefaultVocabulary())

	s1, _ := agg.System("A", "S1")
	assert.Equal(t, ScoreFair, s1.Score)

	s2, _ := agg.System("A", "S2")
	assert.Equal(t, ScoreUnknown, s2.Score)
	assert.Equal(t, StatusUnknown, s2.Status)

	area, _ := agg.Area("A")
	assert.Equal(t, ScoreFair, area.Score, "an all-unknown system must not drag the area down")
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil, DefaultVocabulary())

	assert.True(t, agg.Empty())
	assert.NotNil(t, agg.Areas)
	assert.NotNil(t, agg.Systems)
	assert.NotNil(t, agg.Equipment)
	assert.Empty(t, agg.Areas)
	assert.Empty(t, agg.Systems)
	_, ok := agg.Area("anything")
	assert.False(t, ok)
}

func TestAggregates_Scores(t *testing.T) {
	agg := Aggregate([]Record{
		scored("A", "S", "E1", ScoreBad),
		scored("A", "S", "E1", ScoreGood),
		scored("A", "S", "E2", ScoreGood),
	}, DefaultVocabulary())

	assert.Equal(t, []Score{ScoreBad, ScoreGood}, agg.Scores())
}
