// healthctl scores an equipment inspection log from the command line.
//
// Usage:
//
//	healthctl report    -f inspections.csv [--from 01-03-2024] [--to 31-03-2024] [--area North]
//	healthctl drilldown -f inspections.csv --name "Pump A" --date 02-03-2024
//	healthctl trend     -f inspections.csv --level system --name Cooling
//	healthctl export    -f inspections.csv --table systems -o systems.csv
//	healthctl publish   -f inspections.csv
//	healthctl validate  -f inspections.csv
//
// The data file defaults to $DATA_FILE. Vocabulary, required columns and
// Kafka settings come from the same environment variables as the service.
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
