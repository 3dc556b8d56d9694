package domain

import (
	"cmp"
	"slices"
)

// EquipmentScore is the worst score of one equipment across the records in scope.
type EquipmentScore struct {
	Area      string `json:"area"`
	System    string `json:"system"`
	Equipment string `json:"equipment"`
	Score     Score  `json:"score"`
	Status    Status `json:"status"`
	Records   int    `json:"records"`
}

// SystemScore is the worst equipment score within one (area, system).
type SystemScore struct {
	Area    string `json:"area"`
	System  string `json:"system"`
	Score   Score  `json:"score"`
	Status  Status `json:"status"`
	Records int    `json:"records"`
}

// AreaScore is the worst system score within one area.
type AreaScore struct {
	Area    string `json:"area"`
	Score   Score  `json:"score"`
	Status  Status `json:"status"`
	Systems int    `json:"systems"`
}

// Aggregates holds the three rollup levels, each sorted by its key.
type Aggregates struct {
	Areas     []AreaScore      `json:"areas"`
	Systems   []SystemScore    `json:"systems"`
	Equipment []EquipmentScore `json:"equipment"`
}

// Empty reports whether there is nothing to display.
func (a Aggregates) Empty() bool {
	return len(a.Areas) == 0 && len(a.Systems) == 0 && len(a.Equipment) == 0
}

// Area looks up an area rollup by name.
func (a Aggregates) Area(area string) (AreaScore, bool) {
	for _, s := range a.Areas {
		if s.Area == area {
			return s, true
		}
	}
	return AreaScore{}, false
}

// System looks up a system rollup by its (area, system) key.
func (a Aggregates) System(area, system string) (SystemScore, bool) {
	for _, s := range a.Systems {
		if s.Area == area && s.System == system {
			return s, true
		}
	}
	return SystemScore{}, false
}

type systemKey struct {
	area, system string
}

type equipmentKey struct {
	area, system, equipment string
}

// Aggregate rolls scored records up to equipment, system and area level
// using the worst-wins rule. Unknown equipment scores never lower a parent;
// a group whose records are all unknown is still listed, as unknown.
// An empty input yields empty, non-nil slices.
func Aggregate(records []Record, v Vocabulary) Aggregates {
	if len(records) == 0 {
		return Aggregates{Areas: []AreaScore{}, Systems: []SystemScore{}, Equipment: []EquipmentScore{}}
	}

	equipment := make(map[equipmentKey]*EquipmentScore)
	systems := make(map[systemKey]*SystemScore)

	for i := range records {
		rec := &records[i]

		ek := equipmentKey{rec.Area, rec.System, rec.Equipment}
		e, ok := equipment[ek]
		if !ok {
			e = &EquipmentScore{Area: rec.Area, System: rec.System, Equipment: rec.Equipment}
			equipment[ek] = e
		}
		e.Records++
		e.Score = minScore(e.Score, rec.EquipScore)

		sk := systemKey{rec.Area, rec.System}
		s, ok := systems[sk]
		if !ok {
			s = &SystemScore{Area: rec.Area, System: rec.System}
			systems[sk] = s
		}
		s.Records++
		s.Score = minScore(s.Score, rec.EquipScore)
	}

	areas := make(map[string]*AreaScore)
	for _, s := range systems {
		a, ok := areas[s.Area]
		if !ok {
			a = &AreaScore{Area: s.Area}
			areas[s.Area] = a
		}
		a.Systems++
		a.Score = minScore(a.Score, s.Score)
	}

	out := Aggregates{
		Areas:     make([]AreaScore, 0, len(areas)),
		Systems:   make([]SystemScore, 0, len(systems)),
		Equipment: make([]EquipmentScore, 0, len(equipment)),
	}
	for _, a := range areas {
		a.Status = v.Status(a.Score)
		out.Areas = append(out.Areas, *a)
	}
	for _, s := range systems {
		s.Status = v.Status(s.Score)
		out.Systems = append(out.Systems, *s)
	}
	for _, e := range equipment {
		e.Status = v.Status(e.Score)
		out.Equipment = append(out.Equipment, *e)
	}

	slices.SortFunc(out.Areas, func(a, b AreaScore) int {
		return cmp.Compare(a.Area, b.Area)
	})
	slices.SortFunc(out.Systems, func(a, b SystemScore) int {
		return cmp.Or(cmp.Compare(a.Area, b.Area), cmp.Compare(a.System, b.System))
	})
	slices.SortFunc(out.Equipment, func(a, b EquipmentScore) int {
		return cmp.Or(
			cmp.Compare(a.Area, b.Area),
			cmp.Compare(a.System, b.System),
			cmp.Compare(a.Equipment, b.Equipment),
		)
	})
	return out
}

// Scores extracts the equipment-level scores, e.g. for a distribution.
func (a Aggregates) Scores() []Score {
	out := make([]Score, len(a.Equipment))
	for i, e := range a.Equipment {
		out[i] = e.Score
	}
	return out
}
