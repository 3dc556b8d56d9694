package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
	"github.com/couchcryptid/equipment-health-etl/internal/pipeline"
)

const dateLayout = "02-01-2006"

// Summary renders the area, system and status-distribution tables of res.
// Empty states render a one-line notice instead of empty tables.
func Summary(res *pipeline.Result, m Mode) string {
	switch res.State {
	case pipeline.StateNoData:
		return "No inspection data loaded.\n"
	case pipeline.StateEmptyResult:
		return "No records match the selected filters.\n"
	}

	var b strings.Builder
	b.WriteString(Areas(res.Aggregates.Areas, m))
	b.WriteString("\n\n")
	b.WriteString(Systems(res.Aggregates.Systems, m))
	b.WriteString("\n\n")
	b.WriteString(Distribution(res.Distribution, m))
	b.WriteString("\n")
	if res.Unknown > 0 {
		fmt.Fprintf(&b, "\n%d record(s) without a usable score were left out of the rollup.\n", res.Unknown)
	}
	return b.String()
}

// Areas renders the area rollup.
func Areas(areas []domain.AreaScore, m Mode) string {
	t := newTable(m, "Area health")
	t.header("Area", "Score", "Status", "Systems")
	for _, a := range areas {
		t.row(a.Area, a.Score.String(), a.Status, a.Systems)
	}
	t.alignRight(2, 4)
	return t.String()
}

// Systems renders the system rollup.
func Systems(systems []domain.SystemScore, m Mode) string {
	t := newTable(m, "System health")
	t.header("Area", "System", "Score", "Status", "Records")
	for _, s := range systems {
		t.row(s.Area, s.System, s.Score.String(), s.Status, s.Records)
	}
	t.alignRight(3, 5)
	return t.String()
}

// Distribution renders equipment counts per status.
func Distribution(counts []domain.StatusCount, m Mode) string {
	t := newTable(m, "Equipment by status")
	t.header("Status", "Equipment")
	total := 0
	for _, c := range counts {
		t.row(c.Status, c.Count)
		total += c.Count
	}
	t.footer("Total", total)
	t.alignRight(2)
	return t.String()
}

// Legend renders the score to status mapping.
func Legend(entries []domain.LegendEntry, m Mode) string {
	t := newTable(m, "Legend")
	t.header("Score", "Status")
	for _, e := range entries {
		t.row(orNA(e.Score.String()), e.Status)
	}
	return t.String()
}

// Trend renders one row per day for an entity.
func Trend(entity domain.Entity, points []domain.Record, m Mode) string {
	if len(points) == 0 {
		return fmt.Sprintf("No trend data available for %s in the selected date range.\n", entity.Name)
	}
	t := newTable(m, fmt.Sprintf("Trend for %s", entity.Name))
	t.header("Date", "Equipment", "Score", "Status", "Finding")
	for _, p := range points {
		t.row(formatDate(p.Date), p.Equipment, p.EquipScore.String(), p.EquipStatus, p.Finding)
	}
	t.alignRight(3)
	return t.String()
}

// Detail renders the drill-down card for a selected record.
func Detail(entity domain.Entity, rec domain.Record, m Mode) string {
	t := newTable(m, fmt.Sprintf("Details for %s on %s", entity.Name, formatDate(rec.Date)))
	t.header("Field", "Value")
	t.row("Area", rec.Area)
	t.row("System", rec.System)
	t.row("Equipment", rec.Equipment)
	t.row("Score", orNA(rec.EquipScore.String()))
	t.row("Status", rec.EquipStatus)
	t.row("Finding", orNA(rec.Finding))
	t.row("Action Plan", orNA(rec.ActionPlan))
	t.row("Reported By", orNA(rec.ReportedBy))
	t.row("Part Needed", orNA(rec.PartNeeded))
	return t.String()
}

// NoDataOn is the drill-down notice when nothing was recorded on a date.
func NoDataOn(entity domain.Entity, date time.Time) string {
	return fmt.Sprintf("No data for %s on %s.\n", entity.Name, formatDate(date))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(dateLayout)
}
