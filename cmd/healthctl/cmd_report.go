package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/equipment-health-etl/internal/report"
)

func newReportCmd(g *globalFlags) *cobra.Command {
	var legend bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print area and system health with the status distribution",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			res, err := s.engine.Compute(s.dataset, s.filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, report.Summary(res, s.mode))
			if legend {
				fmt.Fprintln(out)
				fmt.Fprintln(out, report.Legend(s.engine.Vocabulary().Legend(), s.mode))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&legend, "legend", false, "Also print the score to status legend")
	return cmd
}
