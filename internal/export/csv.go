// Package export writes scored records and rollup tables as CSV.
//
// Column order is fixed; downstream spreadsheets key on it.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
)

// RecordHeader is the column order of WriteRecords.
var RecordHeader = []string{
	domain.ColArea,
	domain.ColSystem,
	domain.ColEquipment,
	domain.ColDate,
	domain.ColVibration,
	domain.ColOilAnalysis,
	domain.ColTemperature,
	domain.ColOtherInspection,
	domain.ColConditionScore,
	"EQUIP SCORE",
	"EQUIP STATUS",
	domain.ColFinding,
	domain.ColActionPlan,
	domain.ColReportedBy,
	domain.ColPartNeeded,
}

// AreaHeader is the column order of WriteAreas.
var AreaHeader = []string{domain.ColArea, "SCORE", "STATUS"}

// SystemHeader is the column order of WriteSystems.
var SystemHeader = []string{domain.ColArea, domain.ColSystem, "SCORE", "STATUS"}

// WriteRecords writes scored records. Dates are YYYY-MM-DD; an unknown
// score is an empty cell.
func WriteRecords(w io.Writer, records []domain.Record) error {
	return write(w, RecordHeader, len(records), func(i int) []string {
		r := records[i]
		return []string{
			r.Area,
			r.System,
			r.Equipment,
			formatDate(r.Date),
			r.Vibration,
			r.OilAnalysis,
			r.Temperature,
			r.OtherInspection,
			r.ConditionScore,
			r.EquipScore.String(),
			string(r.EquipStatus),
			r.Finding,
			r.ActionPlan,
			r.ReportedBy,
			r.PartNeeded,
		}
	})
}

// WriteAreas writes the area rollup table.
func WriteAreas(w io.Writer, areas []domain.AreaScore) error {
	return write(w, AreaHeader, len(areas), func(i int) []string {
		a := areas[i]
		return []string{a.Area, a.Score.String(), string(a.Status)}
	})
}

// WriteSystems writes the system rollup table.
func WriteSystems(w io.Writer, systems []domain.SystemScore) error {
	return write(w, SystemHeader, len(systems), func(i int) []string {
		s := systems[i]
		return []string{s.Area, s.System, s.Score.String(), string(s.Status)}
	})
}

func write(w io.Writer, header []string, n int, row func(int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range n {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
