package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
	"github.com/couchcryptid/equipment-health-etl/internal/observability"
)

// State distinguishes "nothing loaded" from "filters matched nothing".
type State string

const (
	StateOK          State = "ok"
	StateNoData      State = "no_data"
	StateEmptyResult State = "empty_result"
)

// Result is the output of one filter, score and aggregate pass. Results may
// be served from cache and shared between callers; treat them as read-only.
type Result struct {
	State        State                `json:"state"`
	GeneratedAt  time.Time            `json:"generated_at"`
	Fingerprint  string               `json:"fingerprint"`
	FilterKey    string               `json:"filter"`
	Records      []domain.Record      `json:"records"`
	Aggregates   domain.Aggregates    `json:"aggregates"`
	Distribution []domain.StatusCount `json:"distribution"`
	Unknown      int                  `json:"unknown"`
}

// SnapshotPublisher ships a computed result to a downstream consumer.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, res *Result) error
}

// Engine runs the scoring pipeline over a dataset and filter supplied per
// call. It keeps no dataset of its own; the only state is the result cache.
type Engine struct {
	vocab    domain.Vocabulary
	required []string
	cache    *resultCache
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source for Result.GeneratedAt.
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithCacheSize bounds the result cache. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(e *Engine) { e.cache = newResultCache(n) }
}

// WithRequiredColumns overrides domain.DefaultRequiredColumns.
func WithRequiredColumns(cols []string) Option {
	return func(e *Engine) {
		if len(cols) > 0 {
			e.required = cols
		}
	}
}

// NewEngine creates an Engine scoring with vocab.
func NewEngine(vocab domain.Vocabulary, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Engine {
	e := &Engine{
		vocab:    vocab,
		required: domain.DefaultRequiredColumns,
		cache:    newResultCache(128),
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Vocabulary returns the vocabulary results are labelled with.
func (e *Engine) Vocabulary() domain.Vocabulary {
	return e.vocab
}

// CheckReadiness returns nil once the engine has produced at least one result.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("engine has not computed any result yet")
	}
	return nil
}

// Compute filters, scores and aggregates ds. A dataset lacking a required
// column is refused with a *domain.MissingColumnError before any scoring.
// Identical (dataset, filter) pairs are answered from cache.
func (e *Engine) Compute(ds domain.Dataset, f domain.Filter) (*Result, error) {
	if err := ds.RequireColumns(e.required); err != nil {
		return nil, fmt.Errorf("compute %s: %w", ds.Source, err)
	}

	if res, ok := e.cache.get(ds.Fingerprint, f.Key()); ok {
		e.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return res, nil
	}
	e.metrics.CacheLookups.WithLabelValues("miss").Inc()

	start := time.Now()
	res := e.compute(ds, f)
	e.metrics.ComputeDuration.Observe(time.Since(start).Seconds())
	e.metrics.Recomputations.Inc()
	e.metrics.UnknownScores.Add(float64(res.Unknown))

	e.logger.Debug("computed aggregates",
		"source", ds.Source,
		"filter", res.FilterKey,
		"state", res.State,
		"records", len(res.Records),
		"areas", len(res.Aggregates.Areas),
		"systems", len(res.Aggregates.Systems),
		"unknown", res.Unknown,
	)

	if e.cache.put(res) {
		e.metrics.CacheEvictions.WithLabelValues("capacity").Inc()
	}
	e.ready.Store(true)
	return res, nil
}

// Retire drops cached results for a dataset that is no longer served.
func (e *Engine) Retire(fingerprint string) {
	n := e.cache.evictDataset(fingerprint)
	if n == 0 {
		return
	}
	e.metrics.CacheEvictions.WithLabelValues("retired").Add(float64(n))
	e.logger.Debug("retired cached results", "fingerprint", fingerprint, "results", n)
}

func (e *Engine) compute(ds domain.Dataset, f domain.Filter) *Result {
	res := &Result{
		GeneratedAt: e.clock.Now().UTC(),
		Fingerprint: ds.Fingerprint,
		FilterKey:   f.Key(),
	}

	if len(ds.Records) == 0 {
		res.State = StateNoData
		res.Records = []domain.Record{}
		res.Aggregates = domain.Aggregate(nil, e.vocab)
		res.Distribution = e.vocab.Distribution(nil)
		return res
	}

	filtered := f.Apply(ds.Records)
	res.Records = domain.ScoreRecords(filtered, e.vocab)
	res.Aggregates = domain.Aggregate(res.Records, e.vocab)
	res.Distribution = e.vocab.Distribution(res.Aggregates.Scores())
	res.Unknown = domain.CountUnknown(res.Records)

	res.State = StateOK
	if len(filtered) == 0 {
		res.State = StateEmptyResult
	}
	return res
}

// Drilldown returns the record in effect for entity on date within the
// filtered working set. The boolean is false when no record matches.
func (e *Engine) Drilldown(ds domain.Dataset, f domain.Filter, entity domain.Entity, date time.Time) (domain.Record, bool, error) {
	res, err := e.Compute(ds, f)
	if err != nil {
		return domain.Record{}, false, err
	}
	rec, ok := domain.SelectOnDate(res.Records, entity, date)
	return rec, ok, nil
}

// Trend returns one representative record per day for entity within the
// filtered working set.
func (e *Engine) Trend(ds domain.Dataset, f domain.Filter, entity domain.Entity) ([]domain.Record, error) {
	res, err := e.Compute(ds, f)
	if err != nil {
		return nil, err
	}
	return domain.Trend(res.Records, entity), nil
}

// Publish computes ds under f and hands the result to pub.
func (e *Engine) Publish(ctx context.Context, pub SnapshotPublisher, ds domain.Dataset, f domain.Filter) (*Result, error) {
	res, err := e.Compute(ds, f)
	if err != nil {
		return nil, err
	}
	if res.State != StateOK {
		e.logger.Info("nothing to publish", "state", res.State)
		return res, nil
	}
	if err := pub.PublishSnapshot(ctx, res); err != nil {
		return res, fmt.Errorf("publish snapshot: %w", err)
	}
	e.metrics.SnapshotsPublished.Inc()
	e.logger.Info("snapshot published",
		"areas", len(res.Aggregates.Areas),
		"systems", len(res.Aggregates.Systems),
	)
	return res, nil
}
