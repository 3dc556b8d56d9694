package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
	"github.com/couchcryptid/equipment-health-etl/internal/export"
	"github.com/couchcryptid/equipment-health-etl/internal/ingest"
	"github.com/couchcryptid/equipment-health-etl/internal/pipeline"
)

// maxUploadBytes bounds a dataset upload.
const maxUploadBytes = 32 << 20

// DatasetStore serves the current dataset and accepts replacements.
type DatasetStore interface {
	Dataset() domain.Dataset
	Load(r io.Reader, source string) (ingest.Report, error)
}

// Server exposes the scoring API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	engine     *pipeline.Engine
	store      DatasetStore
	logger     *slog.Logger
}

// NewServer creates an HTTP server. Readiness is delegated to ready.
func NewServer(addr string, engine *pipeline.Engine, store DatasetStore, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine: engine,
		store:  store,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/areas", s.handleResult(func(r *pipeline.Result) any { return r.Aggregates.Areas }))
	mux.HandleFunc("GET /v1/systems", s.handleResult(func(r *pipeline.Result) any { return r.Aggregates.Systems }))
	mux.HandleFunc("GET /v1/equipment", s.handleResult(func(r *pipeline.Result) any { return r.Aggregates.Equipment }))
	mux.HandleFunc("GET /v1/records", s.handleResult(func(r *pipeline.Result) any { return r.Records }))
	mux.HandleFunc("GET /v1/distribution", s.handleResult(func(r *pipeline.Result) any { return r.Distribution }))
	mux.HandleFunc("GET /v1/legend", s.handleLegend)
	mux.HandleFunc("GET /v1/trend", s.handleTrend)
	mux.HandleFunc("GET /v1/drilldown", s.handleDrilldown)
	mux.HandleFunc("GET /v1/export.csv", s.handleExport)
	mux.HandleFunc("POST /v1/dataset", s.handleUpload)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// envelope wraps every /v1 JSON response.
type envelope struct {
	State       pipeline.State `json:"state"`
	GeneratedAt time.Time      `json:"generated_at"`
	Data        any            `json:"data"`
}

// compute parses the filter from the query and runs the engine. It writes
// the error response itself and returns nil when the request cannot proceed.
func (s *Server) compute(w http.ResponseWriter, r *http.Request) *pipeline.Result {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil
	}
	res, err := s.engine.Compute(s.store.Dataset(), f)
	if err != nil {
		if errors.Is(err, domain.ErrMissingRequiredColumn) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return nil
		}
		s.logger.Error("compute failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return nil
	}
	return res
}

func (s *Server) handleResult(project func(*pipeline.Result) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := s.compute(w, r)
		if res == nil {
			return
		}
		writeJSON(w, http.StatusOK, envelope{State: res.State, GeneratedAt: res.GeneratedAt, Data: project(res)})
	}
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Vocabulary().Legend())
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	entity, err := parseEntity(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res := s.compute(w, r)
	if res == nil {
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		State:       res.State,
		GeneratedAt: res.GeneratedAt,
		Data:        domain.Trend(res.Records, entity),
	})
}

func (s *Server) handleDrilldown(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entity, err := parseEntity(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	date, err := parseDate("date", q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if date.IsZero() {
		writeError(w, http.StatusBadRequest, errors.New("date is required"))
		return
	}
	res := s.compute(w, r)
	if res == nil {
		return
	}
	rec, ok := domain.SelectOnDate(res.Records, entity, date)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "no data for this date"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{State: res.State, GeneratedAt: res.GeneratedAt, Data: rec})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res := s.compute(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="equipment-health.csv"`)
	if err := export.WriteRecords(w, res.Records); err != nil {
		s.logger.Error("csv export failed", "error", err)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("name")
	if source == "" {
		source = "upload.csv"
	}
	report, err := s.store.Load(http.MaxBytesReader(w, r.Body, maxUploadBytes), source)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrMissingRequiredColumn) || errors.Is(err, domain.ErrNoRecords) {
			status = http.StatusUnprocessableEntity
		}
		s.logger.Warn("dataset upload rejected", "source", source, "error", err)
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // headers already sent
}
