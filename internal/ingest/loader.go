package ingest

import (
	"io"
	"sync/atomic"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
	"github.com/couchcryptid/equipment-health-etl/internal/observability"
)

// Loader holds the dataset currently being served. A failed load leaves the
// previous dataset in place.
type Loader struct {
	opts      Options
	metrics   *observability.Metrics
	current   atomic.Pointer[domain.Dataset]
	onReplace func(previous domain.Dataset)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// OnReplace registers fn to run after a successful load displaces a dataset
// with different content. It is not called for the first load.
func OnReplace(fn func(previous domain.Dataset)) LoaderOption {
	return func(l *Loader) { l.onReplace = fn }
}

// NewLoader creates a Loader with no dataset. Dataset returns an empty
// dataset until a load succeeds.
func NewLoader(opts Options, metrics *observability.Metrics, lopts ...LoaderOption) *Loader {
	l := &Loader{opts: withDefaults(opts), metrics: metrics}
	for _, opt := range lopts {
		opt(l)
	}
	return l
}

// LoadFile replaces the current dataset with the contents of path.
func (l *Loader) LoadFile(path string) (Report, error) {
	ds, report, err := ReadFile(path, l.opts)
	return l.swap(ds, report, err)
}

// Load replaces the current dataset with CSV content read from r.
func (l *Loader) Load(r io.Reader, source string) (Report, error) {
	ds, report, err := Read(r, source, l.opts)
	return l.swap(ds, report, err)
}

func (l *Loader) swap(ds domain.Dataset, report Report, err error) (Report, error) {
	if err != nil {
		return report, err
	}
	l.metrics.ObserveIngest(report.Kept, report.Dropped)
	prev := l.current.Swap(&ds)
	l.opts.Logger.Info("dataset loaded",
		"source", ds.Source,
		"records", len(ds.Records),
		"header_row", report.HeaderRow,
		"fingerprint", ds.Fingerprint,
	)
	if prev != nil && prev.Fingerprint != ds.Fingerprint && l.onReplace != nil {
		l.onReplace(*prev)
	}
	return report, nil
}

// Dataset returns the current dataset.
func (l *Loader) Dataset() domain.Dataset {
	if ds := l.current.Load(); ds != nil {
		return *ds
	}
	return domain.Dataset{Columns: l.opts.RequiredColumns}
}
