package domain

// ScoreRecord derives the equipment score and status of a single record:
// the minimum of its readable component scores, else the coerced overall
// score, else unknown. Only EquipScore and EquipStatus are written, so
// scoring an already scored record yields the same result.
func ScoreRecord(rec Record, v Vocabulary) Record {
	score := ScoreUnknown
	for _, cell := range rec.Components() {
		score = minScore(score, v.Coerce(cell))
	}
	if !score.Valid() {
		score = v.Coerce(rec.ConditionScore)
	}
	rec.EquipScore = score
	rec.EquipStatus = v.Status(score)
	return rec
}

// ScoreRecords scores every record into a fresh slice, preserving order.
func ScoreRecords(records []Record, v Vocabulary) []Record {
	out := make([]Record, len(records))
	for i := range records {
		out[i] = ScoreRecord(records[i], v)
	}
	return out
}

// CountUnknown returns how many records carry no usable score.
func CountUnknown(records []Record) int {
	n := 0
	for i := range records {
		if !records[i].EquipScore.Valid() {
			n++
		}
	}
	return n
}
