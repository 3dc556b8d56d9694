// Package ingest reads inspection logs into a domain.Dataset.
//
// Spreadsheet exports often carry title or notes rows above the real header,
// so the header is the first row within the search window that contains
// every required column. Column names are normalized to uppercase with
// collapsed whitespace before matching.
package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
)

// Drop reasons reported in Report.Dropped.
const (
	DropMissingKey  = "missing_key"
	DropInvalidDate = "invalid_date"
)

const defaultHeaderSearchRows = 20

// Options controls header detection and validation.
type Options struct {
	// RequiredColumns defaults to domain.DefaultRequiredColumns.
	RequiredColumns []string
	// HeaderSearchRows bounds how many leading rows may precede the header.
	HeaderSearchRows int
	Logger           *slog.Logger
}

// Report summarizes one ingestion.
type Report struct {
	HeaderRow int            `json:"header_row"`
	DataRows  int            `json:"data_rows"`
	Kept      int            `json:"kept"`
	Dropped   map[string]int `json:"dropped"`
}

// ReadFile ingests the CSV file at path.
func ReadFile(path string, opts Options) (domain.Dataset, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Dataset{}, Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, path, opts)
}

// Read ingests CSV content. Per-row problems drop the row and are counted in
// the report; a missing required column or an input without any usable row
// is returned as an error.
func Read(r io.Reader, source string, opts Options) (domain.Dataset, Report, error) {
	opts = withDefaults(opts)
	report := Report{Dropped: make(map[string]int)}

	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Dataset{}, report, fmt.Errorf("read %s: %w", source, err)
	}
	sum := sha256.Sum256(data)
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return domain.Dataset{}, report, fmt.Errorf("parse %s: %w", source, err)
	}
	if len(rows) == 0 {
		return domain.Dataset{}, report, fmt.Errorf("%s: %w", source, domain.ErrNoRecords)
	}

	headerIdx, header, err := findHeader(rows, opts.RequiredColumns, opts.HeaderSearchRows)
	if err != nil {
		return domain.Dataset{}, report, fmt.Errorf("%s: %w", source, err)
	}
	report.HeaderRow = headerIdx + 1

	index := make(map[string]int, len(header))
	for i, col := range header {
		if _, dup := index[col]; !dup && col != "" {
			index[col] = i
		}
	}
	_, hasDate := index[domain.ColDate]

	records := make([]domain.Record, 0, len(rows)-headerIdx-1)
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		report.DataRows++

		cell := func(col string) string {
			j, ok := index[col]
			if !ok || j >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[j])
		}

		rec := domain.Record{
			Row:             i + 1,
			Area:            cell(domain.ColArea),
			System:          cell(domain.ColSystem),
			Equipment:       cell(domain.ColEquipment),
			Vibration:       cell(domain.ColVibration),
			OilAnalysis:     cell(domain.ColOilAnalysis),
			Temperature:     cell(domain.ColTemperature),
			OtherInspection: cell(domain.ColOtherInspection),
			ConditionScore:  cell(domain.ColConditionScore),
			Finding:         cell(domain.ColFinding),
			ActionPlan:      cell(domain.ColActionPlan),
			ReportedBy:      cell(domain.ColReportedBy),
			PartNeeded:      cell(domain.ColPartNeeded),
		}

		if rec.Area == "" || rec.System == "" || rec.Equipment == "" {
			report.Dropped[DropMissingKey]++
			opts.Logger.Debug("dropping row without hierarchy key", "source", source, "row", rec.Row)
			continue
		}

		if hasDate {
			date, ok := ParseDate(cell(domain.ColDate))
			if !ok {
				report.Dropped[DropInvalidDate]++
				opts.Logger.Debug("dropping row with unparseable date",
					"source", source, "row", rec.Row, "value", cell(domain.ColDate))
				continue
			}
			rec.Date = date
		}

		records = append(records, rec)
	}
	report.Kept = len(records)

	if dropped := report.DataRows - report.Kept; dropped > 0 {
		opts.Logger.Warn("rows dropped during ingestion",
			"source", source,
			"dropped", dropped,
			"missing_key", report.Dropped[DropMissingKey],
			"invalid_date", report.Dropped[DropInvalidDate],
		)
	}
	if len(records) == 0 {
		return domain.Dataset{}, report, fmt.Errorf("%s: %w", source, domain.ErrNoRecords)
	}

	return domain.Dataset{
		Source:      source,
		Columns:     header,
		Records:     records,
		Fingerprint: hex.EncodeToString(sum[:]),
	}, report, nil
}

func withDefaults(opts Options) Options {
	if len(opts.RequiredColumns) == 0 {
		opts.RequiredColumns = domain.DefaultRequiredColumns
	}
	if opts.HeaderSearchRows <= 0 {
		opts.HeaderSearchRows = defaultHeaderSearchRows
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return opts
}

// findHeader returns the index and normalized cells of the first row within
// limit that carries every required column. When none does, the error names
// the columns missing from the closest candidate.
func findHeader(rows [][]string, required []string, limit int) (int, []string, error) {
	var closest []string
	for i := 0; i < len(rows) && i < limit; i++ {
		header := normalizeHeader(rows[i])
		candidate := domain.Dataset{Columns: header}
		err := candidate.RequireColumns(required)
		if err == nil {
			return i, header, nil
		}
		var mce *domain.MissingColumnError
		if errors.As(err, &mce) && (closest == nil || len(mce.Columns) < len(closest)) {
			closest = mce.Columns
		}
	}
	if closest == nil {
		closest = required
	}
	return 0, nil, &domain.MissingColumnError{Columns: closest}
}

// normalizeHeader uppercases header cells and collapses inner whitespace,
// so "Equipment  Description\n" matches "EQUIPMENT DESCRIPTION".
func normalizeHeader(row []string) []string {
	upper := cases.Upper(language.Und)
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = upper.String(strings.Join(strings.Fields(cell), " "))
	}
	return out
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
