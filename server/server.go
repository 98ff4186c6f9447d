package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"repo_analyzer/analyzer"
	"repo_analyzer/apperr"
	"repo_analyzer/exporter"
	"repo_analyzer/generator"
	"repo_analyzer/github"
)

//go:embed web
var embeddedStatic embed.FS

// Runner runs one analysis; *analyzer.Coordinator satisfies it.
type Runner interface {
	Run(ctx context.Context, url string, progress func(analyzer.Step)) (*exporter.Bundle, error)
}

type Options struct {
	Timeout time.Duration
	Verbose bool
	Logger  *log.Logger
}

type Server struct {
	runner   Runner
	exporter *exporter.Exporter
	store    *analysisStore
	staticFS http.Handler
	opts     Options
}

type analysis struct {
	bundle *exporter.Bundle
	steps  []analyzer.Step
}

type analysisStore struct {
	mu       sync.Mutex
	analyses map[string]*analysis
}

func newStore() *analysisStore {
	return &analysisStore{analyses: make(map[string]*analysis)}
}

func (s *analysisStore) set(id string, a *analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[id] = a
}

func (s *analysisStore) get(id string) (*analysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.analyses[id]
	return a, ok
}

func New(runner Runner, exp *exporter.Exporter, opts Options) (*Server, error) {
	if runner == nil {
		return nil, errors.New("analysis runner required")
	}
	if exp == nil {
		return nil, errors.New("exporter required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		return nil, err
	}

	return &Server{
		runner:   runner,
		exporter: exp,
		store:    newStore(),
		staticFS: http.FileServer(http.FS(sub)),
		opts:     opts,
	}, nil
}

func (s *Server) infof(format string, args ...interface{}) {
	if !s.opts.Verbose {
		return
	}
	s.opts.Logger.Printf("[INFO] "+format, args...)
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyses", s.handleAnalysisCreate)
	mux.HandleFunc("GET /api/analyses/{id}", s.handleAnalysisGet)
	mux.HandleFunc("GET /api/analyses/{id}/pdf", s.handleAnalysisPDF)
	mux.HandleFunc("GET /api/analyses/{id}/html", s.handleAnalysisHTML)
	mux.Handle("GET /", s.staticFS)
	return s.logMiddleware(mux)
}

// --- Handlers ---

// maxRequestBody caps the create request; it only carries a repository URL.
const maxRequestBody = 64 << 10

type analysisCreateReq struct {
	URL string `json:"url"`
}

type analysisResp struct {
	ID        string                          `json:"id"`
	Repo      github.RepoInfo                 `json:"repo"`
	Reports   map[generator.ReportKind]string `json:"reports"`
	Steps     []analyzer.Step                 `json:"steps"`
	CreatedAt time.Time                       `json:"created_at"`
}

func (s *Server) handleAnalysisCreate(w http.ResponseWriter, r *http.Request) {
	var req analysisCreateReq
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.Timeout)
	defer cancel()
	a := &analysis{}
	bundle, err := s.runner.Run(ctx, req.URL, func(st analyzer.Step) {
		s.infof("[step %d/%d] %s", st.Index, st.Total, st.Message)
		a.steps = append(a.steps, st)
	})
	if err != nil {
		s.opts.Logger.Printf("[WARN] analysis of %q failed: %v", req.URL, err)
		writeError(w, statusFor(err), err)
		return
	}
	a.bundle = bundle

	id := uuid.NewString()
	s.store.set(id, a)
	writeJSON(w, http.StatusCreated, toResp(id, a))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*analysis, bool) {
	a, ok := s.store.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("analysis not found"))
		return nil, false
	}
	return a, true
}

func (s *Server) handleAnalysisGet(w http.ResponseWriter, r *http.Request) {
	a, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toResp(r.PathValue("id"), a))
}

func (s *Server) handleAnalysisPDF(w http.ResponseWriter, r *http.Request) {
	a, ok := s.lookup(w, r)
	if !ok {
		return
	}
	// Render fully before writing so a failure can still set the status.
	var buf bytes.Buffer
	if err := s.exporter.Export(a.bundle, &buf); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exporter.FileName(a.bundle.Repo)+`"`)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleAnalysisHTML(w http.ResponseWriter, r *http.Request) {
	a, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.exporter.RenderHTML(a.bundle, &buf); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// --- Helpers ---

func toResp(id string, a *analysis) analysisResp {
	reports := make(map[generator.ReportKind]string, len(a.bundle.Reports))
	for kind, rep := range a.bundle.Reports {
		reports[kind] = rep.HTML
	}
	return analysisResp{
		ID:        id,
		Repo:      a.bundle.Repo,
		Reports:   reports,
		Steps:     a.steps,
		CreatedAt: a.bundle.CreatedAt,
	}
}

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrMissingData):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, apperr.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.opts.Logger.Printf("[http] %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
