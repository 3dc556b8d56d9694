package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/equipment-health-etl/internal/export"
)

func newExportCmd(g *globalFlags) *cobra.Command {
	var table, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write scored records or a rollup table as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			res, err := s.engine.Compute(s.dataset, s.filter)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			switch table {
			case "records":
				err = export.WriteRecords(w, res.Records)
			case "areas":
				err = export.WriteAreas(w, res.Aggregates.Areas)
			case "systems":
				err = export.WriteSystems(w, res.Aggregates.Systems)
			default:
				return fmt.Errorf("unknown table %q: want records, areas or systems", table)
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", table, err)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&table, "table", "records", "What to export: records, areas or systems")
	f.StringVarP(&output, "output", "o", "-", "Output file; - for stdout")
	return cmd
}
