package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
	"github.com/couchcryptid/equipment-health-etl/internal/validate"
)

func newValidateCmd(g *globalFlags) *cobra.Command {
	var color bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check scores, rollups, filters and drill-down over a data file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			ds := domain.Dataset{Source: s.dataset.Source, Records: s.filter.Apply(s.dataset.Records)}
			rep := validate.Run(ds, s.engine.Vocabulary())
			rep.Print(cmd.OutOrStdout(), color)
			if !rep.Passed() {
				return errors.New("validation failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&color, "color", true, "Colour PASS/FAIL markers")
	return cmd
}
