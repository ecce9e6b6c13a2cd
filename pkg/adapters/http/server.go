package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/soundboard/internal/compiler"
	"github.com/aretw0/soundboard/internal/logging"
	"github.com/aretw0/soundboard/internal/presentation/graph"
	"github.com/aretw0/soundboard/internal/validator"
	"github.com/aretw0/soundboard/pkg/adapters/file"
	"github.com/aretw0/soundboard/pkg/cache"
	"github.com/aretw0/soundboard/pkg/console"
	"github.com/aretw0/soundboard/pkg/domain"
	"github.com/aretw0/soundboard/pkg/observability"
	"github.com/aretw0/soundboard/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CacheHeader reports whether /compile was served from the artifact store.
const CacheHeader = "X-Soundboard-Cache"

// Compiler is the compile core used by the server.
type Compiler interface {
	Compile(ctx context.Context, sb *domain.Soundboard) (*compiler.Result, error)
}

// Server serves compilation over HTTP.
type Server struct {
	compiler Compiler
	limits   console.Limits
	store    ports.ArtifactStore
	locker   ports.Locker
	cache    *cache.Manager
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	version  string
}

// Option configures the Server.
type Option func(*Server)

// WithStore caches compiled artifacts, keyed by the SHA-256 of the source.
func WithStore(store ports.ArtifactStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLocker serializes compilation of identical sources.
func WithLocker(locker ports.Locker) Option {
	return func(s *Server) {
		s.locker = locker
	}
}

// WithMetrics records cache lookups and exposes gatherer on /metrics.
func WithMetrics(m *observability.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithLimits sets the limits used by /validate. They should match the compiler's.
func WithLimits(l console.Limits) Option {
	return func(s *Server) {
		s.limits = l
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewHandler creates the HTTP handler for the compile service.
func NewHandler(c Compiler, opts ...Option) http.Handler {
	s := &Server{
		compiler: c,
		limits:   console.DefaultLimits(),
		logger:   logging.NewNop(),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store != nil {
		cacheOpts := []cache.Option{cache.WithLogger(s.logger)}
		if s.locker != nil {
			cacheOpts = append(cacheOpts, cache.WithLocker(s.locker))
		}
		if s.metrics != nil {
			cacheOpts = append(cacheOpts, cache.WithLookupHook(s.metrics.CacheLookup))
		}
		s.cache = cache.NewManager(s.store, cacheOpts...)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Post("/compile", s.Compile)
	r.Post("/validate", s.Validate)
	r.Post("/graph", s.Graph)
	r.Get("/artifacts", s.ListArtifacts)
	r.Get("/artifacts/{key}", s.GetArtifact)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Path  string `json:"path,omitempty"`
	Line  int    `json:"line,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// ValidateResponse is the body of /validate.
type ValidateResponse struct {
	Valid    bool              `json:"valid"`
	Report   *validator.Report `json:"report,omitempty"`
	Problems []ErrorResponse   `json:"problems,omitempty"`
}

// Compile handles POST /compile. The body is a soundboard source, the
// response the compiled program.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readSource(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	key := Digest(data)

	artifact, hit, err := s.compileCached(ctx, key, data)
	if err != nil {
		s.writeCompileError(w, err)
		return
	}

	cache := "miss"
	if hit {
		cache = "hit"
	}
	w.Header().Set(CacheHeader, cache)
	w.Header().Set("ETag", `"`+key+`"`)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, artifact.Program); err != nil {
		s.logger.Error("Compile response write failed", "err", err)
	}
}

// compileCached returns the artifact for data, compiling it on a cache miss.
func (s *Server) compileCached(ctx context.Context, key string, data []byte) (*domain.Artifact, bool, error) {
	if s.cache == nil {
		artifact, err := s.compile(ctx, key, data)
		return artifact, false, err
	}
	return s.cache.GetOrBuild(ctx, key, func(ctx context.Context) (*domain.Artifact, error) {
		return s.compile(ctx, key, data)
	})
}

func (s *Server) compile(ctx context.Context, key string, data []byte) (*domain.Artifact, error) {
	sb, err := file.ParseContext(ctx, data)
	if err != nil {
		return nil, err
	}
	res, err := s.compiler.Compile(ctx, sb)
	if err != nil {
		return nil, err
	}
	return &domain.Artifact{
		Key:        key,
		Program:    res.Program.String(),
		Stats:      res.Stats,
		CompiledAt: time.Now().UTC(),
	}, nil
}

// Validate handles POST /validate, reporting every problem in the source.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readSource(w, r)
	if !ok {
		return
	}

	sb, err := file.ParseContext(r.Context(), data)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Problems: []ErrorResponse{errorResponse(err)}})
		return
	}
	report, err := validator.Validate(r.Context(), sb, s.limits)
	if err != nil {
		var problems []ErrorResponse
		for _, p := range domain.Problems(err) {
			problems = append(problems, errorResponse(p))
		}
		writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Problems: problems})
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Report: report})
}

// Graph handles POST /graph. It answers with a Mermaid diagram, or the
// markdown outline when ?format=markdown.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readSource(w, r)
	if !ok {
		return
	}
	sb, err := file.ParseContext(r.Context(), data)
	if err != nil {
		s.writeCompileError(w, err)
		return
	}

	var out string
	switch format := r.URL.Query().Get("format"); format {
	case "", "mermaid":
		out = graph.GenerateMermaid(sb, nil)
	case "markdown":
		out = graph.GenerateMarkdown(sb, s.limits)
	default:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("unknown format %q", format)})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

// ListArtifacts handles GET /artifacts.
func (s *Server) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "artifact cache is disabled"})
		return
	}
	keys, err := s.cache.List(r.Context())
	if err != nil {
		s.logger.Error("List artifacts failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to list artifacts"})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"keys": keys})
}

// GetArtifact handles GET /artifacts/{key}.
func (s *Server) GetArtifact(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "artifact cache is disabled"})
		return
	}
	key := chi.URLParam(r, "key")
	artifact, err := s.cache.Load(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		s.logger.Error("Load artifact failed", "key", key, "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to load artifact"})
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":        "soundboard-http",
		"version":    strings.TrimSpace(s.version),
		"cache":      s.cache != nil,
		"max_source": file.MaxSourceSize(),
	})
}

// readSource reads the request body within the source size limit.
func (s *Server) readSource(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	limit := file.MaxSourceSize()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, int64(limit)))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: fmt.Sprintf("%v: limit=%d", file.ErrSourceTooLarge, limit)})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}
	if err := file.CheckSource(data); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, file.ErrSourceTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return data, true
}

func (s *Server) writeCompileError(w http.ResponseWriter, err error) {
	var ce *domain.CompileError
	if errors.As(err, &ce) || errors.Is(err, file.ErrSyntax) {
		s.logger.Debug("Rejected source", "err", err)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse(err))
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	s.logger.Error("Compile failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func errorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}
	var ce *domain.CompileError
	if errors.As(err, &ce) {
		resp.Path = ce.Path.Dotted()
		resp.Line = ce.Line
		resp.Kind = string(ce.Kind())
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}

// Digest is the artifact key of a source: the hex SHA-256 of its bytes.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
