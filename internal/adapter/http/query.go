package http

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
	"github.com/couchcryptid/equipment-health-etl/internal/ingest"
)

// parseFilter reads from, to, area, system and equipment. Category
// parameters repeat to list several values; each value is one whole name, so
// names containing commas match as written. A parameter that is present but
// empty restricts its dimension to nothing.
func parseFilter(q url.Values) (domain.Filter, error) {
	var f domain.Filter
	var err error

	if f.Dates.From, err = parseDate("from", q.Get("from")); err != nil {
		return f, err
	}
	if f.Dates.To, err = parseDate("to", q.Get("to")); err != nil {
		return f, err
	}
	if !f.Dates.From.IsZero() && !f.Dates.To.IsZero() && f.Dates.From.After(f.Dates.To) {
		return f, errors.New("from is after to")
	}

	f.Areas = allowSet(q, "area")
	f.Systems = allowSet(q, "system")
	f.Equipment = allowSet(q, "equipment")
	return f, nil
}

func allowSet(q url.Values, key string) domain.AllowSet {
	raw, ok := q[key]
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return domain.NewAllowSet(values...)
}

// parseEntity reads level, name and the optional in_area qualifier.
func parseEntity(q url.Values) (domain.Entity, error) {
	level, err := domain.ParseLevel(q.Get("level"))
	if err != nil {
		return domain.Entity{}, err
	}
	name := strings.TrimSpace(q.Get("name"))
	if name == "" {
		return domain.Entity{}, errors.New("name is required")
	}
	return domain.Entity{Level: level, Area: strings.TrimSpace(q.Get("in_area")), Name: name}, nil
}

func parseDate(param, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, ok := ingest.ParseDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid %s date %q", param, s)
	}
	return t, nil
}
