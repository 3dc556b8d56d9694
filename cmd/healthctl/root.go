package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/equipment-health-etl/internal/config"
	"github.com/couchcryptid/equipment-health-etl/internal/domain"
	"github.com/couchcryptid/equipment-health-etl/internal/ingest"
	"github.com/couchcryptid/equipment-health-etl/internal/observability"
	"github.com/couchcryptid/equipment-health-etl/internal/pipeline"
	"github.com/couchcryptid/equipment-health-etl/internal/report"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	file      string
	format    string
	from      string
	to        string
	areas     []string
	systems   []string
	equipment []string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "healthctl",
		Short: "Score equipment inspection logs",
		Long: "healthctl rolls equipment inspection scores up to systems and areas,\n" +
			"worst score wins, and drills down to the record behind a status.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}

	f := root.PersistentFlags()
	f.StringVarP(&g.file, "file", "f", os.Getenv("DATA_FILE"), "Inspection CSV (default $DATA_FILE)")
	f.StringVar(&g.format, "format", "ascii", "Table format: ascii or markdown")
	f.StringVar(&g.from, "from", "", "First day of the date range (inclusive)")
	f.StringVar(&g.to, "to", "", "Last day of the date range (inclusive)")
	f.StringSliceVar(&g.areas, "area", nil, "Restrict to these areas (repeatable, comma-separated)")
	f.StringSliceVar(&g.systems, "system", nil, "Restrict to these systems")
	f.StringSliceVar(&g.equipment, "equipment", nil, "Restrict to these equipment")

	root.AddCommand(
		newReportCmd(g),
		newDrilldownCmd(g),
		newTrendCmd(g),
		newExportCmd(g),
		newPublishCmd(g),
		newValidateCmd(g),
	)
	return root
}

// session is everything a subcommand needs after loading the data file.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	engine  *pipeline.Engine
	dataset domain.Dataset
	filter  domain.Filter
	mode    report.Mode
}

func (g *globalFlags) open(cmd *cobra.Command) (*session, error) {
	if g.file == "" {
		return nil, errors.New("no data file: pass --file or set DATA_FILE")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewUnregisteredMetrics()

	f, err := g.filter(cmd)
	if err != nil {
		return nil, err
	}

	ds, rep, err := ingest.ReadFile(g.file, ingest.Options{
		RequiredColumns:  cfg.RequiredColumns,
		HeaderSearchRows: cfg.HeaderSearchRows,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveIngest(rep.Kept, rep.Dropped)

	engine := pipeline.NewEngine(cfg.Vocabulary, logger, metrics,
		pipeline.WithCacheSize(cfg.CacheSize),
		pipeline.WithRequiredColumns(cfg.RequiredColumns),
	)
	return &session{
		cfg:     cfg,
		logger:  logger,
		engine:  engine,
		dataset: ds,
		filter:  f,
		mode:    report.ParseMode(g.format),
	}, nil
}

// filter builds the working-set filter. A category flag given with an empty
// value restricts that dimension to nothing.
func (g *globalFlags) filter(cmd *cobra.Command) (domain.Filter, error) {
	var f domain.Filter
	var err error
	if f.Dates.From, err = parseDateFlag("from", g.from); err != nil {
		return f, err
	}
	if f.Dates.To, err = parseDateFlag("to", g.to); err != nil {
		return f, err
	}

	flags := cmd.Flags()
	if flags.Changed("area") {
		f.Areas = domain.NewAllowSet(g.areas...)
	}
	if flags.Changed("system") {
		f.Systems = domain.NewAllowSet(g.systems...)
	}
	if flags.Changed("equipment") {
		f.Equipment = domain.NewAllowSet(g.equipment...)
	}
	return f, nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, ok := ingest.ParseDate(value)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --%s date %q", name, value)
	}
	return t, nil
}

// entityFlags identify the equipment or system for drilldown and trend.
type entityFlags struct {
	level  string
	name   string
	inArea string
}

func (e *entityFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&e.level, "level", "equipment", "Entity level: equipment or system")
	f.StringVar(&e.name, "name", "", "Equipment description or system name (required)")
	f.StringVar(&e.inArea, "in-area", "", "Area the entity belongs to, when the name is ambiguous")
	_ = cmd.MarkFlagRequired("name")
}

func (e *entityFlags) entity() (domain.Entity, error) {
	level, err := domain.ParseLevel(e.level)
	if err != nil {
		return domain.Entity{}, err
	}
	return domain.Entity{Level: level, Area: e.inArea, Name: e.name}, nil
}
