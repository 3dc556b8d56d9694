// Package validate re-derives scores and rollups of a dataset independently
// and reports every place where the engine output disagrees.
package validate

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
)

// maxErrorsPerPhase caps the detail kept for one phase.
const maxErrorsPerPhase = 50

// Phase tracks pass/fail for one group of checks.
type Phase struct {
	Name    string
	Errors  []string
	Skipped int
}

func (p *Phase) errorf(format string, args ...any) {
	if len(p.Errors) >= maxErrorsPerPhase {
		p.Skipped++
		return
	}
	p.Errors = append(p.Errors, fmt.Sprintf(format, args...))
}

// Passed reports whether the phase found no violations.
func (p *Phase) Passed() bool { return len(p.Errors) == 0 && p.Skipped == 0 }

// Report is the outcome of Run.
type Report struct {
	Source  string
	Records int
	Phases  []*Phase
}

// Passed reports whether every phase passed.
func (r *Report) Passed() bool {
	for _, p := range r.Phases {
		if !p.Passed() {
			return false
		}
	}
	return true
}

// Run scores ds with v and checks the result.
func Run(ds domain.Dataset, v domain.Vocabulary) *Report {
	scored := domain.ScoreRecords(ds.Records, v)
	agg := domain.Aggregate(scored, v)

	return &Report{
		Source:  ds.Source,
		Records: len(ds.Records),
		Phases: []*Phase{
			checkRowScores(ds.Records, scored, v),
			checkScoreRange(scored, agg),
			checkRollups(scored, agg),
			checkStatuses(scored, agg, v),
			checkIdempotence(scored, v),
			checkFilterCommutativity(ds.Records),
			checkSelector(scored),
		},
	}
}

// checkRowScores recomputes each record score from its raw cells.
func checkRowScores(raw, scored []domain.Record, v domain.Vocabulary) *Phase {
	p := &Phase{Name: "Row score is worst component"}
	for i := range raw {
		want := domain.ScoreUnknown
		for _, cell := range raw[i].Components() {
			s := v.Coerce(cell)
			if s.Valid() && (!want.Valid() || s < want) {
				want = s
			}
		}
		if !want.Valid() {
			want = v.Coerce(raw[i].ConditionScore)
		}
		if got := scored[i].EquipScore; got != want {
			p.errorf("row %d (%s): score %d, want %d", raw[i].Row, raw[i].Equipment, got, want)
		}
	}
	return p
}

func checkScoreRange(scored []domain.Record, agg domain.Aggregates) *Phase {
	p := &Phase{Name: "Scores within 1..3 or unknown"}
	ok := func(s domain.Score) bool { return s == domain.ScoreUnknown || s.Valid() }
	for _, r := range scored {
		if !ok(r.EquipScore) {
			p.errorf("row %d: score %d out of range", r.Row, r.EquipScore)
		}
	}
	for _, s := range agg.Systems {
		if !ok(s.Score) {
			p.errorf("system %s/%s: score %d out of range", s.Area, s.System, s.Score)
		}
	}
	for _, a := range agg.Areas {
		if !ok(a.Score) {
			p.errorf("area %s: score %d out of range", a.Area, a.Score)
		}
	}
	return p
}

// checkRollups verifies that no system is better than its worst record and
// no area is better than its worst system.
func checkRollups(scored []domain.Record, agg domain.Aggregates) *Phase {
	p := &Phase{Name: "Rollups are worst-wins"}

	type key struct{ area, system string }
	systemWant := make(map[key]domain.Score)
	for _, r := range scored {
		k := key{r.Area, r.System}
		systemWant[k] = worst(systemWant[k], r.EquipScore)
	}

	areaWant := make(map[string]domain.Score)
	for _, s := range agg.Systems {
		want, found := systemWant[key{s.Area, s.System}]
		if !found {
			p.errorf("system %s/%s has no records", s.Area, s.System)
			continue
		}
		if s.Score != want {
			p.errorf("system %s/%s: score %d, want %d", s.Area, s.System, s.Score, want)
		}
		areaWant[s.Area] = worst(areaWant[s.Area], s.Score)
	}
	if len(agg.Systems) != len(systemWant) {
		p.errorf("%d systems aggregated, %d present in records", len(agg.Systems), len(systemWant))
	}

	for _, a := range agg.Areas {
		if want := areaWant[a.Area]; a.Score != want {
			p.errorf("area %s: score %d, want %d", a.Area, a.Score, want)
		}
	}
	return p
}

func checkStatuses(scored []domain.Record, agg domain.Aggregates, v domain.Vocabulary) *Phase {
	p := &Phase{Name: "Status follows score"}
	for _, r := range scored {
		if want := v.Status(r.EquipScore); r.EquipStatus != want {
			p.errorf("row %d: status %s for score %d, want %s", r.Row, r.EquipStatus, r.EquipScore, want)
		}
	}
	for _, s := range agg.Systems {
		if want := v.Status(s.Score); s.Status != want {
			p.errorf("system %s/%s: status %s, want %s", s.Area, s.System, s.Status, want)
		}
	}
	for _, a := range agg.Areas {
		if want := v.Status(a.Score); a.Status != want {
			p.errorf("area %s: status %s, want %s", a.Area, a.Status, want)
		}
	}
	return p
}

func checkIdempotence(scored []domain.Record, v domain.Vocabulary) *Phase {
	p := &Phase{Name: "Rescoring is idempotent"}
	for _, r := range scored {
		if again := domain.ScoreRecord(r, v); again.EquipScore != r.EquipScore {
			p.errorf("row %d: rescored %d, was %d", r.Row, again.EquipScore, r.EquipScore)
		}
	}
	return p
}

// checkFilterCommutativity applies, for every area, the area restriction and
// the middle half of the date span in both orders.
func checkFilterCommutativity(records []domain.Record) *Phase {
	p := &Phase{Name: "Filter order does not matter"}

	dates := domain.DateRange{}
	var days []time.Time
	for _, r := range records {
		if !r.Date.IsZero() {
			days = append(days, domain.DateOnly(r.Date))
		}
	}
	if len(days) > 0 {
		slices.SortFunc(days, time.Time.Compare)
		dates = domain.DateRange{From: days[len(days)/4], To: days[len(days)*3/4]}
	}

	areas := make(map[string]struct{})
	for _, r := range records {
		areas[r.Area] = struct{}{}
	}
	for area := range areas {
		c := domain.Categories{Areas: domain.NewAllowSet(area)}
		dateFirst := domain.ApplyCategories(domain.ApplyDateRange(records, dates), c)
		catFirst := domain.ApplyDateRange(domain.ApplyCategories(records, c), dates)
		combined := domain.Filter{Dates: dates, Categories: c}.Apply(records)
		if !sameRows(dateFirst, catFirst) || !sameRows(dateFirst, combined) {
			p.errorf("area %s: %d rows date-first, %d category-first, %d combined",
				area, len(dateFirst), len(catFirst), len(combined))
		}
	}
	return p
}

// checkSelector confirms that each (equipment, day) drill-down is stable and
// returns the worst record of the day.
func checkSelector(scored []domain.Record) *Phase {
	p := &Phase{Name: "Drill-down is deterministic"}
	type key struct {
		area, equipment string
		day             time.Time
	}
	worstOf := make(map[key]domain.Score)
	for _, r := range scored {
		if r.Date.IsZero() {
			continue
		}
		k := key{r.Area, r.Equipment, domain.DateOnly(r.Date)}
		worstOf[k] = worst(worstOf[k], r.EquipScore)
	}
	for k, want := range worstOf {
		e := domain.Entity{Level: domain.LevelEquipment, Area: k.area, Name: k.equipment}
		first, ok1 := domain.SelectOnDate(scored, e, k.day)
		second, ok2 := domain.SelectOnDate(scored, e, k.day)
		switch {
		case !ok1 || !ok2:
			p.errorf("%s/%s on %s: no record selected", k.area, k.equipment, k.day.Format(time.DateOnly))
		case first.Row != second.Row:
			p.errorf("%s/%s on %s: rows %d and %d on repeated calls", k.area, k.equipment, k.day.Format(time.DateOnly), first.Row, second.Row)
		case first.EquipScore != want:
			p.errorf("%s/%s on %s: selected score %d, want %d", k.area, k.equipment, k.day.Format(time.DateOnly), first.EquipScore, want)
		}
	}
	return p
}

// worst is min over valid scores; unknown never wins.
func worst(a, b domain.Score) domain.Score {
	switch {
	case !a.Valid():
		return b
	case !b.Valid():
		return a
	case b < a:
		return b
	default:
		return a
	}
}

func sameRows(a, b []domain.Record) bool {
	return slices.EqualFunc(a, b, func(x, y domain.Record) bool { return x.Row == y.Row })
}

// Print writes the phase summary followed by the detail of failing phases.
func (r *Report) Print(w io.Writer, color bool) {
	pass, fail := "PASS", "FAIL"
	paint := func(c text.Colors, s string) string {
		if color {
			return c.Sprint(s)
		}
		return s
	}

	fmt.Fprintf(w, "=== Equipment Health Validation: %s ===\n\n", r.Source)
	for _, p := range r.Phases {
		status := paint(text.Colors{text.FgGreen}, pass)
		if !p.Passed() {
			status = paint(text.Colors{text.FgRed}, fmt.Sprintf("%s (%d errors)", fail, len(p.Errors)+p.Skipped))
		}
		fmt.Fprintf(w, "  %-36s %s\n", p.Name, status)
	}
	fmt.Fprintf(w, "\nRecords: %d\n", r.Records)

	for _, p := range r.Phases {
		if p.Passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.Name)
		for i, e := range p.Errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		if p.Skipped > 0 {
			fmt.Fprintf(w, "  ... and %d more\n", p.Skipped)
		}
	}

	if r.Passed() {
		fmt.Fprintln(w, "\nAll validations passed.")
		return
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
}
