// Package domain models condition-monitoring inspection records for plant
// equipment and the worst-wins health rollup computed over them.
//
// # Data Source
//
// Inspection logs are spreadsheets exported by maintenance crews. Each row is
// one inspection of one piece of equipment on one day. Rows are read by the
// ingest package, which locates the header row, normalizes column names to
// uppercase and hands immutable [Record] values to this package.
//
// # Hierarchy
//
//	Area → System → Equipment
//
// Every equipment belongs to exactly one (area, system) pair. A system name
// that appears under two areas is treated as two unrelated systems.
//
// # Score Encoding
//
// Component readings (VIBRATION, OIL ANALYSIS, TEMPERATURE, OTHER INSPECTION)
// and the overall CONDITION MONITORING SCORE arrive in mixed encodings:
//
//	Numeric:     "1", "2.0", "4.6", "0"  → rounded, then clamped into 1..3
//	English:     "good", "fair", "critical", "need action"
//	Indonesian:  "baik" (good), "cukup" (fair), "buruk" (bad)
//	Colour:      "green", "yellow", "red"
//
// Scores are ordinal: 1 is worst, 3 is best. Anything that cannot be read
// resolves to [ScoreUnknown]; a bad cell never fails the pipeline.
//
// # Equipment Score
//
// The equipment score of a record is the minimum of its readable component
// scores. When none of the four components can be read the overall score
// column is used instead. See [ScoreRecord].
//
// # Rollup
//
// System score is the minimum equipment score within (area, system); area
// score is the minimum system score within the area. Unknown scores never
// take part in a minimum. See [Aggregate].
//
// # Drill-down
//
// "What was the status of X on day D" is answered by [SelectOnDate]: the
// worst-scored record for the entity on that calendar day, ties going to the
// earliest record in input order. [Trend] applies the same rule to every day.
package domain
