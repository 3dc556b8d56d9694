package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
	"github.com/couchcryptid/equipment-health-etl/internal/pipeline"
)

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		State: pipeline.StateOK,
		Aggregates: domain.Aggregates{
			Areas: []domain.AreaScore{
				{Area: "North", Score: domain.ScoreBad, Status: domain.StatusRed, Systems: 2},
			},
			Systems: []domain.SystemScore{
				{Area: "North", System: "Cooling", Score: domain.ScoreBad, Status: domain.StatusRed, Records: 3},
				{Area: "North", System: "Power", Score: domain.ScoreGood, Status: domain.StatusGreen, Records: 1},
			},
		},
		Distribution: []domain.StatusCount{
			{Status: domain.StatusRed, Count: 1},
			{Status: domain.StatusAmber, Count: 0},
			{Status: domain.StatusGreen, Count: 2},
			{Status: domain.StatusUnknown, Count: 0},
		},
		Unknown: 1,
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ASCII},
		{"ascii", ASCII},
		{"markdown", Markdown},
		{"md", Markdown},
		{"html", ASCII},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMode(tt.in))
		})
	}
}

func TestSummary_ASCII(t *testing.T) {
	out := Summary(sampleResult(), ASCII)

	for _, want := range []string{"Area health", "System health", "Equipment by status", "North", "Cooling", "Power", "RED", "GREEN"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "1 record(s) without a usable score")
}

func TestSummary_Markdown(t *testing.T) {
	out := Summary(sampleResult(), Markdown)

	assert.Contains(t, out, "| North |")
	assert.Contains(t, out, "| Cooling |")
	assert.NotContains(t, out, "Area health", "markdown tables carry no title")
}

func TestSummary_EmptyStates(t *testing.T) {
	tests := []struct {
		state pipeline.State
		want  string
	}{
		{pipeline.StateNoData, "No inspection data loaded."},
		{pipeline.StateEmptyResult, "No records match the selected filters."},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			out := Summary(&pipeline.Result{State: tt.state}, ASCII)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestDistribution_Total(t *testing.T) {
	out := Distribution(sampleResult().Distribution, Markdown)
	assert.Contains(t, out, "| Total | 3 |")
}

func TestTrend(t *testing.T) {
	entity := domain.Entity{Level: domain.LevelEquipment, Area: "North", Name: "Pump A"}
	points := []domain.Record{
		{Equipment: "Pump A", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), EquipScore: domain.ScoreFair, EquipStatus: domain.StatusAmber},
		{Equipment: "Pump A", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), EquipScore: domain.ScoreBad, EquipStatus: domain.StatusRed, Finding: "leak"},
	}

	out := Trend(entity, points, Markdown)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4, "header, separator and two rows")
	assert.Contains(t, out, "| 02-01-2024 |")
	assert.Contains(t, out, "| 05-01-2024 |")
	assert.Contains(t, out, "leak")

	assert.Equal(t,
		"No trend data available for Pump A in the selected date range.\n",
		Trend(entity, nil, ASCII))
}

func TestDetail(t *testing.T) {
	entity := domain.Entity{Level: domain.LevelSystem, Area: "North", Name: "Cooling"}
	rec := domain.Record{
		Area: "North", System: "Cooling", Equipment: "Pump A",
		Date:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EquipScore: domain.ScoreBad, EquipStatus: domain.StatusRed,
		Finding: "bearing noise",
	}

	out := Detail(entity, rec, ASCII)
	heading, _, _ := strings.Cut(out, "\n")
	assert.Equal(t, "Details for Cooling on 02-01-2024", heading, "heading stays on one line")
	assert.Contains(t, out, "bearing noise")
	assert.Contains(t, out, "N/A", "empty fields render as N/A")

	assert.Equal(t, "No data for Cooling on 03-01-2024.\n",
		NoDataOn(entity, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))
}

func TestTitleWiderThanTable(t *testing.T) {
	entity := domain.Entity{Level: domain.LevelEquipment, Name: "Stator Cooling Water Pump 2"}
	rec := domain.Record{Equipment: "Stator Cooling Water Pump 2", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}

	out := Detail(entity, rec, ASCII)
	heading, body, _ := strings.Cut(out, "\n")
	assert.Equal(t, "Details for Stator Cooling Water Pump 2 on 02-01-2024", heading)
	assert.NotContains(t, body, "Details for", "title is not repeated inside the box")

	md := Detail(entity, rec, Markdown)
	assert.NotContains(t, md, "Details for", "markdown tables carry no title")
}

func TestLegend(t *testing.T) {
	out := Legend(domain.DefaultVocabulary().Legend(), Markdown)

	assert.Contains(t, out, "| 1 | RED |")
	assert.Contains(t, out, "| 3 | GREEN |")
	assert.Contains(t, out, "| N/A | UNKNOWN |")
}
