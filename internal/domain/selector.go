package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Level selects which hierarchy key an Entity names.
type Level int

const (
	LevelEquipment Level = iota
	LevelSystem
)

func (l Level) String() string {
	switch l {
	case LevelEquipment:
		return "equipment"
	case LevelSystem:
		return "system"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel accepts "equipment" or "system", case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equipment", "":
		return LevelEquipment, nil
	case "system":
		return LevelSystem, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}

// Entity identifies an equipment or a system. Area is optional; when set it
// disambiguates names that appear under more than one area.
type Entity struct {
	Level Level
	Area  string
	Name  string
}

func (e Entity) matches(r *Record) bool {
	if e.Area != "" && r.Area != e.Area {
		return false
	}
	switch e.Level {
	case LevelSystem:
		return r.System == e.Name
	default:
		return r.Equipment == e.Name
	}
}

// worse reports whether candidate should replace current as the
// representative record. Strict comparison keeps the earlier record on ties.
func worse(candidate, current *Record) bool {
	if !candidate.EquipScore.Valid() {
		return false
	}
	return !current.EquipScore.Valid() || candidate.EquipScore < current.EquipScore
}

// SelectOnDate returns the record in effect for e on the calendar day of
// date: the worst-scored match, the earliest in input order on ties. If no
// match carries a score the first match is returned. The boolean is false
// when nothing matches.
func SelectOnDate(records []Record, e Entity, date time.Time) (Record, bool) {
	day := DateOnly(date)
	if day.IsZero() {
		return Record{}, false
	}

	var best *Record
	for i := range records {
		r := &records[i]
		if !e.matches(r) || !DateOnly(r.Date).Equal(day) {
			continue
		}
		if best == nil || worse(r, best) {
			best = r
		}
	}
	if best == nil {
		return Record{}, false
	}
	return *best, true
}

// Trend reduces the records of e to one representative per calendar day,
// chosen as in SelectOnDate, sorted by date. Records without a date are
// skipped.
func Trend(records []Record, e Entity) []Record {
	byDay := make(map[time.Time]*Record)
	for i := range records {
		r := &records[i]
		if r.Date.IsZero() || !e.matches(r) {
			continue
		}
		day := DateOnly(r.Date)
		if best, ok := byDay[day]; !ok || worse(r, best) {
			byDay[day] = r
		}
	}

	out := make([]Record, 0, len(byDay))
	for _, r := range byDay {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b Record) int {
		return DateOnly(a.Date).Compare(DateOnly(b.Date))
	})
	return out
}
