package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Column names as they appear after header normalization.
const (
	ColArea            = "AREA"
	ColSystem          = "SYSTEM"
	ColEquipment       = "EQUIPMENT DESCRIPTION"
	ColDate            = "DATE"
	ColConditionScore  = "CONDITION MONITORING SCORE"
	ColVibration       = "VIBRATION"
	ColOilAnalysis     = "OIL ANALYSIS"
	ColTemperature     = "TEMPERATURE"
	ColOtherInspection = "OTHER INSPECTION"
	ColFinding         = "FINDING"
	ColActionPlan      = "ACTION PLAN"
	ColReportedBy      = "REPORTED BY"
	ColPartNeeded      = "PART NEEDED"
)

// DefaultRequiredColumns is the column set an inspection log must carry
// before any scoring is attempted.
var DefaultRequiredColumns = []string{
	ColArea,
	ColSystem,
	ColEquipment,
	ColDate,
	ColConditionScore,
	ColVibration,
	ColOilAnalysis,
	ColTemperature,
	ColOtherInspection,
}

// OptionalColumns are passthrough metadata columns surfaced at drill-down.
var OptionalColumns = []string{ColFinding, ColActionPlan, ColReportedBy, ColPartNeeded}

var (
	// ErrMissingRequiredColumn is wrapped by MissingColumnError.
	ErrMissingRequiredColumn = errors.New("missing required column")

	// ErrNoRecords is returned when an input carries no usable data rows at all.
	ErrNoRecords = errors.New("no records")
)

// MissingColumnError lists the required columns absent from an input.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredColumn, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingRequiredColumn }

// Record is one inspection entry. Raw cells are kept verbatim; an empty
// string means the cell was absent.
type Record struct {
	Row       int       `json:"row"`
	Area      string    `json:"area"`
	System    string    `json:"system"`
	Equipment string    `json:"equipment"`
	Date      time.Time `json:"date"`

	Vibration       string `json:"vibration,omitempty"`
	OilAnalysis     string `json:"oil_analysis,omitempty"`
	Temperature     string `json:"temperature,omitempty"`
	OtherInspection string `json:"other_inspection,omitempty"`
	ConditionScore  string `json:"condition_score,omitempty"`

	EquipScore  Score  `json:"equip_score"`
	EquipStatus Status `json:"equip_status"`

	Finding    string `json:"finding,omitempty"`
	ActionPlan string `json:"action_plan,omitempty"`
	ReportedBy string `json:"reported_by,omitempty"`
	PartNeeded string `json:"part_needed,omitempty"`
}

// Components returns the four component cells in a fixed order.
func (r Record) Components() [4]string {
	return [4]string{r.Vibration, r.OilAnalysis, r.Temperature, r.OtherInspection}
}

// Dataset is an ingested inspection log: its normalized header, the records
// that survived cleaning, and a content fingerprint used as a cache key.
type Dataset struct {
	Source      string
	Columns     []string
	Records     []Record
	Fingerprint string
}

// RequireColumns reports a *MissingColumnError naming every column in
// required that the dataset header lacks.
func (d Dataset) RequireColumns(required []string) error {
	var missing []string
	for _, col := range required {
		if !slices.Contains(d.Columns, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnError{Columns: missing}
	}
	return nil
}

// DateOnly drops the time-of-day component, keeping the calendar date as
// written in t's own location. The zero time stays zero.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
