package domain

import (
	"slices"
	"strings"
	"time"
)

// DateRange is an inclusive range of calendar days. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Active reports whether either bound is set.
func (r DateRange) Active() bool {
	return !r.From.IsZero() || !r.To.IsZero()
}

// Contains compares date-only values. Once any bound is set, a missing
// date is never contained.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Active() {
		return true
	}
	if t.IsZero() {
		return false
	}
	day := DateOnly(t)
	if !r.From.IsZero() && day.Before(DateOnly(r.From)) {
		return false
	}
	if !r.To.IsZero() && day.After(DateOnly(r.To)) {
		return false
	}
	return true
}

// AllowSet restricts one categorical dimension. A nil set leaves the
// dimension unrestricted; a non-nil empty set admits nothing.
type AllowSet map[string]struct{}

// NewAllowSet always returns a non-nil set, even with no values.
func NewAllowSet(values ...string) AllowSet {
	s := make(AllowSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Allows reports whether v passes the set.
func (s AllowSet) Allows(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}

// key renders the set canonically: "*" for unrestricted, sorted values otherwise.
func (s AllowSet) key() string {
	if s == nil {
		return "*"
	}
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	slices.Sort(values)
	return "[" + strings.Join(values, "\x1f") + "]"
}

// Categories holds the Area, System and Equipment allow-sets.
type Categories struct {
	Areas     AllowSet
	Systems   AllowSet
	Equipment AllowSet
}

// Match reports whether every restricted dimension admits r.
func (c Categories) Match(r *Record) bool {
	return c.Areas.Allows(r.Area) && c.Systems.Allows(r.System) && c.Equipment.Allows(r.Equipment)
}

// Filter is the full working-set restriction applied before scoring.
type Filter struct {
	Dates DateRange
	Categories
}

// Match is the AND of the date range and every category restriction.
func (f Filter) Match(r *Record) bool {
	return f.Dates.Contains(r.Date) && f.Categories.Match(r)
}

// Apply returns the records admitted by f, in input order. Because Match is
// a conjunction of independent predicates the result does not depend on
// which restriction is applied first.
func (f Filter) Apply(records []Record) []Record {
	return keep(records, f.Match)
}

// Key is a canonical rendering of f suitable for cache keys.
func (f Filter) Key() string {
	var b strings.Builder
	b.WriteString(formatDay(f.Dates.From))
	b.WriteByte('|')
	b.WriteString(formatDay(f.Dates.To))
	b.WriteByte('|')
	b.WriteString(f.Areas.key())
	b.WriteByte('|')
	b.WriteString(f.Systems.key())
	b.WriteByte('|')
	b.WriteString(f.Equipment.key())
	return b.String()
}

// ApplyDateRange keeps the records whose date lies in r.
func ApplyDateRange(records []Record, r DateRange) []Record {
	return keep(records, func(rec *Record) bool { return r.Contains(rec.Date) })
}

// ApplyCategories keeps the records admitted by every restricted dimension of c.
func ApplyCategories(records []Record, c Categories) []Record {
	return keep(records, c.Match)
}

func keep(records []Record, pred func(*Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for i := range records {
		if pred(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return DateOnly(t).Format(time.DateOnly)
}
