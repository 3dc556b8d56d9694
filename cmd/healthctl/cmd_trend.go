package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/equipment-health-etl/internal/report"
)

func newTrendCmd(g *globalFlags) *cobra.Command {
	var ef entityFlags

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show one score per day for an equipment or system",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entity, err := ef.entity()
			if err != nil {
				return err
			}
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			points, err := s.engine.Trend(s.dataset, s.filter, entity)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Trend(entity, points, s.mode))
			return nil
		},
	}
	ef.register(cmd)
	return cmd
}
