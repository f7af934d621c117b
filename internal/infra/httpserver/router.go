package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/safetylens/safetylens/internal/application/analysis"
	appreport "github.com/safetylens/safetylens/internal/application/report"
	domain "github.com/safetylens/safetylens/internal/domain/analysis"
	"github.com/safetylens/safetylens/internal/infra/report"
	"github.com/safetylens/safetylens/internal/middleware"
)

type Router struct {
	analysisSvc *appanalysis.Service
	reportSvc   *appreport.Service
	log         *zap.Logger
}

// Options carries the router's middleware knobs.
type Options struct {
	RateLimitCapacity   int
	RateLimitRefillRate int
	HealthCheckers      map[string]middleware.HealthChecker
}

func NewRouter(analysisSvc *appanalysis.Service, reportSvc *appreport.Service, log *zap.Logger, opts Options) http.Handler {
	r := &Router{analysisSvc: analysisSvc, reportSvc: reportSvc, log: log}
	mux := chi.NewRouter()

	mux.Use(middleware.Logging(log))
	mux.Use(middleware.MetricsMiddleware)
	// The PWA runs on a separate origin during development
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if opts.RateLimitCapacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(opts.RateLimitCapacity, opts.RateLimitRefillRate))
	}

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/report", r.wrap(r.handleReport))
		rt.Get("/analyses", r.wrap(r.handleAnalysesList))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// httpError carries an explicit status and user-facing message.
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

// wrap maps pipeline errors onto the status codes and error bodies the
// client categorizes on. The message strings are load-bearing: the client
// matches on "API key", "quota" and "network" substrings.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var herr *httpError
		if errors.As(err, &herr) {
			writeError(w, herr.status, herr.msg)
			return
		}

		switch {
		case errors.Is(err, domain.ErrNoImage):
			writeError(w, http.StatusBadRequest, "No image provided")
		case errors.Is(err, domain.ErrMissingAPIKey):
			writeError(w, http.StatusInternalServerError, "OpenAI API key not configured")
		case errors.Is(err, domain.ErrInvalidAPIKey):
			writeError(w, http.StatusUnauthorized, "Invalid API key")
		case errors.Is(err, domain.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, "API quota exceeded")
		case errors.Is(err, domain.ErrEmptyModelResponse):
			writeError(w, http.StatusInternalServerError, "No response from AI model")
		case errors.Is(err, domain.ErrUnparsableResponse):
			writeError(w, http.StatusInternalServerError, "Failed to parse AI response")
		case errors.Is(err, domain.ErrBadResponseShape):
			writeError(w, http.StatusInternalServerError, "Invalid response format from AI")
		default:
			r.log.Error("analyze pipeline error", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error during analysis")
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// POST /api/analyze
// Body: {"base64Image": "<data URI>", "photoName": "<optional>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Base64Image string `json:"base64Image"`
		PhotoName   string `json:"photoName"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}

	result, err := r.analysisSvc.Analyze(req.Context(), body.Base64Image, body.PhotoName)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.IncrementAnalyses()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(result)
}

// POST /api/report
// Body: {"analysisResults": {...}, "photoName": "...", "analysisDate": "...", "photoBase64": "..."}
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		AnalysisResults *domain.Result `json:"analysisResults"`
		PhotoName       string         `json:"photoName"`
		AnalysisDate    string         `json:"analysisDate"`
		PhotoBase64     string         `json:"photoBase64"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.AnalysisResults == nil {
		return &httpError{http.StatusBadRequest, "No analysis results provided"}
	}

	opts := domain.ReportOptions{
		Result:      *body.AnalysisResults,
		PhotoName:   body.PhotoName,
		PhotoBase64: body.PhotoBase64,
	}
	if body.AnalysisDate != "" {
		if ts, err := time.Parse(time.RFC3339, body.AnalysisDate); err == nil {
			opts.AnalysisDate = ts
		}
	}

	pdf, url, err := r.reportSvc.Generate(req.Context(), opts)
	if err != nil {
		return &httpError{http.StatusInternalServerError, "Failed to generate PDF report"}
	}
	middleware.IncrementReports()

	if url != "" {
		w.Header().Set("X-Report-URL", url)
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename(opts.PhotoName)+`"`)
	_, err = w.Write(pdf)
	return err
}

// GET /api/analyses?page=&page_size=
func (r *Router) handleAnalysesList(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.analysisSvc.ListRecords(req.Context(), page, size)
	if err != nil {
		return &httpError{http.StatusInternalServerError, "Failed to list analyses"}
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}
