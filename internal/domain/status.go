package domain

import (
	"errors"
	"fmt"
)

// Status is the display label derived one-to-one from a Score.
type Status string

const (
	StatusRed     Status = "RED"
	StatusAmber   Status = "AMBER"
	StatusGreen   Status = "GREEN"
	StatusUnknown Status = "UNKNOWN"
)

// Vocabulary is the single source of truth for score labels. Deployments
// that report in a different vocabulary (e.g. "BAD/FAIR/GOOD") configure
// one instead of forking the scoring code.
type Vocabulary struct {
	Worst   Status
	Mid     Status
	Best    Status
	Unknown Status

	// Aliases extends the built-in label table. Keys are matched the same
	// way built-in labels are: trimmed, caseless, accent-insensitive.
	Aliases map[string]Score
}

// DefaultVocabulary returns the RED/AMBER/GREEN vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Worst:   StatusRed,
		Mid:     StatusAmber,
		Best:    StatusGreen,
		Unknown: StatusUnknown,
	}
}

// WithAliases returns a copy of v whose alias keys are normalized.
func (v Vocabulary) WithAliases(aliases map[string]Score) Vocabulary {
	v.Aliases = make(map[string]Score, len(aliases))
	for label, score := range aliases {
		v.Aliases[normalizeLabel(label)] = score
	}
	return v
}

// Validate checks that the four labels are set and distinct and that every
// alias maps to a real score.
func (v Vocabulary) Validate() error {
	labels := []Status{v.Worst, v.Mid, v.Best, v.Unknown}
	seen := make(map[Status]bool, len(labels))
	for _, l := range labels {
		if l == "" {
			return errors.New("vocabulary labels must not be empty")
		}
		if seen[l] {
			return fmt.Errorf("vocabulary label %q used twice", l)
		}
		seen[l] = true
	}
	for label, score := range v.Aliases {
		if !score.Valid() {
			return fmt.Errorf("alias %q maps to invalid score %d", label, score)
		}
	}
	return nil
}

// Coerce converts a raw cell into a Score, consulting the vocabulary's
// aliases before the built-in label table.
func (v Vocabulary) Coerce(raw string) Score {
	return coerce(raw, v.Aliases)
}

// Status maps a score to its label. Anything outside 1..3 is Unknown.
func (v Vocabulary) Status(s Score) Status {
	switch s {
	case ScoreBad:
		return v.Worst
	case ScoreFair:
		return v.Mid
	case ScoreGood:
		return v.Best
	default:
		return v.Unknown
	}
}

// LegendEntry pairs a score with its label.
type LegendEntry struct {
	Score  Score  `json:"score"`
	Status Status `json:"status"`
}

// Legend lists every label worst first, unknown last. Colour tables and
// distribution summaries are built from it.
func (v Vocabulary) Legend() []LegendEntry {
	return []LegendEntry{
		{Score: ScoreBad, Status: v.Status(ScoreBad)},
		{Score: ScoreFair, Status: v.Status(ScoreFair)},
		{Score: ScoreGood, Status: v.Status(ScoreGood)},
		{Score: ScoreUnknown, Status: v.Status(ScoreUnknown)},
	}
}

// StatusCount is one bucket of a status distribution.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// Distribution counts scores per status in legend order. Every label is
// present, including zero buckets.
func (v Vocabulary) Distribution(scores []Score) []StatusCount {
	legend := v.Legend()
	out := make([]StatusCount, len(legend))
	index := make(map[Score]int, len(legend))
	for i, e := range legend {
		out[i] = StatusCount{Status: e.Status}
		index[e.Score] = i
	}
	for _, s := range scores {
		if !s.Valid() {
			s = ScoreUnknown
		}
		out[index[s]].Count++
	}
	return out
}
