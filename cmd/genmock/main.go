// Command genmock writes a synthetic equipment inspection log for demos and
// load tests. Output is deterministic for a given seed and mirrors the mess
// of real plant spreadsheets: title rows above the header, day-first and
// ISO dates, spreadsheet serial dates, numeric and worded scores, blanks,
// and a few rows that ingestion must drop.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/inspections.csv -days 30 -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
)

var baseDate = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

// plant is area -> system -> equipment.
var plant = []struct {
	area    string
	systems map[string][]string
}{
	{"Boiler House", map[string][]string{
		"Feed Water": {"Feed Pump 1", "Feed Pump 2", "Deaerator"},
		"Combustion": {"FD Fan", "ID Fan"},
	}},
	{"Cooling Tower", map[string][]string{
		"Circulation": {"CW Pump A", "CW Pump B"},
		"Fans":        {"Cell 1 Fan", "Cell 2 Fan"},
	}},
	{"Turbine Hall", map[string][]string{
		"Lube Oil":  {"Main Oil Pump", "Oil Cooler"},
		"Generator": {"Exciter", "Stator Cooling Pump"},
	}},
}

// Worded and numeric readings, roughly weighted towards healthy.
var readings = []string{
	"3", "3", "3", "Good", "normal", "OK", "Baik", "2.6",
	"2", "Fair", "moderate", "Cukup", "1.5",
	"1", "Bad", "BURUK", "Need Action", "0",
	"", "", "", "n/a", "4",
}

var findings = []string{"", "", "bearing noise", "oil darkened", "hot spot on casing", "seal weeping", "loose coupling guard"}
var actions = []string{"", "", "monitor", "replace bearing", "oil change", "tighten guard", "schedule overhaul"}
var reporters = []string{"Budi", "Sari", "Andre", "Dewi"}
var parts = []string{"", "", "", "SKF 6205", "seal kit", "ISO VG 46"}

type options struct {
	days int
	seed uint64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path (required)")
	days := flag.Int("days", 30, "number of inspection days")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *out == "" || *days <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	n, err := generate(f, options{days: *days, seed: *seed})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	log.Printf("wrote %d inspection rows to %s", n, *out)
	return nil
}

// generate writes the log and returns the number of data rows.
func generate(w io.Writer, opts options) (int, error) {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	cw := csv.NewWriter(w)

	header := []string{
		domain.ColArea, domain.ColSystem, domain.ColEquipment, domain.ColDate,
		domain.ColConditionScore, domain.ColVibration, domain.ColOilAnalysis,
		domain.ColTemperature, domain.ColOtherInspection,
		domain.ColFinding, domain.ColActionPlan, domain.ColReportedBy, domain.ColPartNeeded,
	}
	preamble := [][]string{
		pad([]string{"MONTHLY CONDITION MONITORING REPORT"}, len(header)),
		pad([]string{"Generated by genmock", "seed " + strconv.FormatUint(opts.seed, 10)}, len(header)),
		header,
	}
	if err := cw.WriteAll(preamble); err != nil {
		return 0, err
	}

	rows := 0
	for d := range opts.days {
		day := baseDate.AddDate(0, 0, d)
		for _, a := range plant {
			for _, system := range sortedKeys(a.systems) {
				for _, eq := range a.systems[system] {
					// Not every piece of equipment is inspected every day.
					if rng.IntN(3) == 0 {
						continue
					}
					row := []string{
						a.area, system, eq, formatDate(rng, day),
						pick(rng, readings),
						pick(rng, readings), pick(rng, readings), pick(rng, readings), pick(rng, readings),
						pick(rng, findings), pick(rng, actions), pick(rng, reporters), pick(rng, parts),
					}
					corrupt(rng, row)
					if err := cw.Write(row); err != nil {
						return rows, err
					}
					rows++
				}
			}
		}
	}
	cw.Flush()
	return rows, cw.Error()
}

// formatDate mixes the date encodings seen in exported spreadsheets.
func formatDate(rng *rand.Rand, day time.Time) string {
	switch rng.IntN(4) {
	case 0:
		return day.Format(time.DateOnly)
	case 1:
		serial := int(day.Sub(time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)).Hours() / 24)
		return strconv.Itoa(serial)
	case 2:
		return day.Format("2-1-2006")
	default:
		return day.Format("02/01/2006")
	}
}

// corrupt damages about one row in fifty so ingestion has something to drop.
func corrupt(rng *rand.Rand, row []string) {
	switch rng.IntN(100) {
	case 0:
		row[0] = ""
	case 1:
		row[3] = "TBC"
	}
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

func pad(row []string, n int) []string {
	out := make([]string, n)
	copy(out, row)
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
