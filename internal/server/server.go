// Package server exposes the render pipeline over HTTP.
//
// Every request is one configuration snapshot: the server's base
// configuration overlaid with the request's query parameters. Nothing is
// stored between requests.
//
//	GET /diagram.{svg,png,json}   ?highlight=&dim=&randomness=&seed=&gradient=&captions=
//	GET /swatches.{svg,png}
//	GET /logotype.{svg,png}       ?text=&layers=
//	GET /palette.json
//	GET /healthz
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/fontparts/partsmap/pkg/buildinfo"
	"github.com/fontparts/partsmap/pkg/config"
	"github.com/fontparts/partsmap/pkg/errors"
	"github.com/fontparts/partsmap/pkg/model"
	"github.com/fontparts/partsmap/pkg/observability"
	"github.com/fontparts/partsmap/pkg/pipeline"
)

// RequestIDHeader carries the per-request UUID.
const RequestIDHeader = "X-Request-ID"

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

// Server renders diagrams, swatch sheets and logotypes on demand.
type Server struct {
	base   config.Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New returns a server rendering from base. A nil runner uses one that
// logs to logger.
func New(base config.Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(logger)
	}
	s := &Server{base: base, runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Get("/palette.json", s.palette)
	r.Get("/diagram.{format}", s.diagram)
	r.Get("/swatches.{format}", s.swatches)
	r.Get("/logotype.{format}", s.logotype)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey struct{}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the ID assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		s.logger.Info("request",
			"id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

type health struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, health{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) palette(w http.ResponseWriter, r *http.Request) {
	p, err := s.base.Scheme.Derive(model.FontParts())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p.Entries())
}

func (s *Server) diagram(w http.ResponseWriter, r *http.Request) {
	format, ok := s.format(w, r, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatJSON)
	if !ok {
		return
	}
	opts, err := s.diagramOptions(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{format}
	res, err := s.runner.Diagram(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeArtifact(w, format, res.Artifacts[format])
}

func (s *Server) swatches(w http.ResponseWriter, r *http.Request) {
	format, ok := s.format(w, r, pipeline.FormatSVG, pipeline.FormatPNG)
	if !ok {
		return
	}
	res, err := s.runner.Swatches(r.Context(), pipeline.Options{Config: s.base, Formats: []string{format}})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeArtifact(w, format, res.Artifacts[format])
}

func (s *Server) logotype(w http.ResponseWriter, r *http.Request) {
	format, ok := s.format(w, r, pipeline.FormatSVG, pipeline.FormatPNG)
	if !ok {
		return
	}
	cfg := s.base
	q := r.URL.Query()
	if text := q.Get("text"); text != "" {
		cfg.Logotype.Text = text
	}
	if q.Has("layers") {
		cfg.Logotype.Layers = nodeTypes(q.Get("layers"))
	}
	res, err := s.runner.Logotype(r.Context(), pipeline.LogotypeOptions{Config: cfg, Formats: []string{format}})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeArtifact(w, format, res.Artifacts[format])
}

// format returns the {format} URL parameter when it is one of allowed,
// and answers 404 otherwise.
func (s *Server) format(w http.ResponseWriter, r *http.Request, allowed ...string) (string, bool) {
	format := chi.URLParam(r, "format")
	for _, a := range allowed {
		if format == a {
			return format, true
		}
	}
	http.NotFound(w, r)
	return "", false
}

// diagramOptions overlays the query parameters onto the base snapshot.
func (s *Server) diagramOptions(q url.Values) (pipeline.Options, error) {
	get := q.Get
	opts := pipeline.Options{Config: s.base}
	opts.Highlight = model.NodeType(get("highlight"))
	opts.Dim = nodeTypes(get("dim"))

	if v := get("randomness"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, invalidParam("randomness", v, err)
		}
		opts.Config.Layout.Randomness = n
	}
	if v := get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, invalidParam("seed", v, err)
		}
		opts.Seed = n
	}
	if v := get("fan"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, invalidParam("fan", v, err)
		}
		opts.FanSpan = f
	}
	for _, b := range []struct {
		key string
		dst *bool
	}{
		{"gradient", &opts.Config.Render.LinesGradient},
		{"captions", &opts.Config.Render.Steps.Captions},
		{"reduced", &opts.Reduced},
	} {
		if v := get(b.key); v != "" {
			on, err := strconv.ParseBool(v)
			if err != nil {
				return opts, invalidParam(b.key, v, err)
			}
			*b.dst = on
		}
	}
	return opts, nil
}

func invalidParam(key, value string, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s=%q", key, value).In(errors.PhaseConfig, "")
}

// nodeTypes splits a comma-separated list, dropping empty items.
func nodeTypes(list string) []model.NodeType {
	var out []model.NodeType
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, model.NodeType(s))
		}
	}
	return out
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "id", RequestID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorResponse{
		Code:      string(errors.GetCode(err)),
		Message:   errors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	})
}

// statusOf maps an error to an HTTP status: bad snapshots are the
// client's fault, everything else is ours.
func statusOf(err error) int {
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.IsConfigError(err), errors.IsDataError(err),
		errors.Is(err, errors.ErrCodeInvalidInput),
		errors.Is(err, errors.ErrCodeInvalidFormat),
		errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
