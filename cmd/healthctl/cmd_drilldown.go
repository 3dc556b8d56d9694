package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/equipment-health-etl/internal/report"
)

func newDrilldownCmd(g *globalFlags) *cobra.Command {
	var (
		ef   entityFlags
		date string
	)

	cmd := &cobra.Command{
		Use:   "drilldown",
		Short: "Show the record behind an equipment or system status on one day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entity, err := ef.entity()
			if err != nil {
				return err
			}
			day, err := parseDateFlag("date", date)
			if err != nil {
				return err
			}
			if day.IsZero() {
				return errors.New("--date is required")
			}

			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			rec, ok, err := s.engine.Drilldown(s.dataset, s.filter, entity, day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprint(out, report.NoDataOn(entity, day))
				return nil
			}
			fmt.Fprintln(out, report.Detail(entity, rec, s.mode))
			return nil
		},
	}
	ef.register(cmd)
	cmd.Flags().StringVar(&date, "date", "", "Inspection day (required)")
	return cmd
}
