package domain

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Score is the ordinal health of a piece of equipment: 1 is worst, 3 is best.
// The zero value is ScoreUnknown.
type Score int

const (
	ScoreUnknown Score = 0
	ScoreBad     Score = 1
	ScoreFair    Score = 2
	ScoreGood    Score = 3
)

// Valid reports whether s is one of 1, 2 or 3.
func (s Score) Valid() bool {
	return s >= ScoreBad && s <= ScoreGood
}

func (s Score) String() string {
	if !s.Valid() {
		return ""
	}
	return strconv.Itoa(int(s))
}

// scoreLabels is the built-in label table. Keys are in normalized form.
// Digits are listed for forms that only read as numbers after
// normalization, such as full-width "３".
var scoreLabels = map[string]Score{
	"1": ScoreBad, "2": ScoreFair, "3": ScoreGood,

	"good": ScoreGood, "normal": ScoreGood, "ok": ScoreGood, "green": ScoreGood,
	"pass": ScoreGood, "low risk": ScoreGood, "baik": ScoreGood,

	"fair": ScoreFair, "medium": ScoreFair, "moderate": ScoreFair, "yellow": ScoreFair,
	"alert": ScoreFair, "cukup": ScoreFair,

	"bad": ScoreBad, "poor": ScoreBad, "fail": ScoreBad, "red": ScoreBad,
	"critical": ScoreBad, "buruk": ScoreBad, "need action": ScoreBad, "action": ScoreBad,
}

// Coerce converts a raw cell into a Score using the built-in label table.
// Empty or unreadable input yields ScoreUnknown.
func Coerce(raw string) Score {
	return coerce(raw, nil)
}

func coerce(raw string, aliases map[string]Score) Score {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ScoreUnknown
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return clampScore(v)
	}

	key := normalizeLabel(s)
	if score, ok := aliases[key]; ok {
		return score
	}
	if score, ok := scoreLabels[key]; ok {
		return score
	}
	// Full-width and other compatibility digits only parse once normalized.
	if v, err := strconv.ParseFloat(key, 64); err == nil {
		return clampScore(v)
	}
	return ScoreUnknown
}

// clampScore rounds half away from zero and clamps into 1..3.
// NaN and infinities are unreadable.
func clampScore(v float64) Score {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ScoreUnknown
	}
	r := math.Round(v)
	switch {
	case r < float64(ScoreBad):
		return ScoreBad
	case r > float64(ScoreGood):
		return ScoreGood
	default:
		return Score(r)
	}
}

// normalizeLabel folds case, strips diacritics and collapses inner
// whitespace, so "  Need   Action " and "need action" compare equal.
// Casers are stateful, so one is made per call.
func normalizeLabel(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(cases.Fold().String(b.String())), " ")
}

// minScore returns the worse of a and b, ignoring unknown operands.
func minScore(a, b Score) Score {
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
