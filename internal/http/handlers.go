package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"symptom-checker/internal/core"
	"symptom-checker/pkg"
)

const maxBodyBytes = 1 << 20

// Diagnoser is the core operation the HTTP layer exposes.
type Diagnoser interface {
	Diagnose(symptoms []string) (*pkg.DiagnosisResult, error)
}

// Catalog lists what the reference data knows about.
type Catalog interface {
	Vocabulary() []string
	Conditions() []string
}

// Server bundles together the dependencies required by HTTP handlers.  It
// implements http.Handler so it can be mounted on an http.Server.
type Server struct {
	Diagnoser     Diagnoser
	Catalog       Catalog
	AllowedOrigin string
	Log           *zap.Logger
}

// NewServer constructs a Server.  An empty origin defaults to "*".  A nil
// catalog serves empty listings.
func NewServer(d Diagnoser, c Catalog, allowedOrigin string, log *zap.Logger) *Server {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{Diagnoser: d, Catalog: c, AllowedOrigin: allowedOrigin, Log: log}
}

// ServeHTTP dispatches incoming requests based on the URL path.  Every response
// carries CORS headers and an X-Request-ID.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := uuid.NewString()
	log := s.Log.With(zap.String("request_id", reqID))
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	h := rec.Header()
	h.Set("X-Request-ID", reqID)
	h.Set("Access-Control-Allow-Origin", s.AllowedOrigin)
	h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

	path := r.URL.Path
	switch {
	// CORS preflight
	case r.Method == http.MethodOptions:
		rec.WriteHeader(http.StatusNoContent)
	case path == "/predict" && r.Method == http.MethodPost:
		s.handlePredict(rec, r, log)
	case path == "/" && r.Method == http.MethodGet:
		writeJSON(rec, http.StatusOK, pkg.MessageResponse{Message: "Disease Prediction API is running!"})
	case path == "/welcome" && r.Method == http.MethodGet:
		writeJSON(rec, http.StatusOK, pkg.MessageResponse{Message: "Welcome to the Disease Prediction API!"})
	case path == "/symptoms" && r.Method == http.MethodGet:
		writeJSON(rec, http.StatusOK, pkg.SymptomsResponse{Symptoms: s.list(Catalog.Vocabulary)})
	case path == "/conditions" && r.Method == http.MethodGet:
		writeJSON(rec, http.StatusOK, pkg.ConditionsResponse{Conditions: s.list(Catalog.Conditions)})
	case path == "/predict":
		h.Set("Allow", "POST, OPTIONS")
		writeError(rec, http.StatusMethodNotAllowed, "Method not allowed")
	case path == "/" || path == "/welcome" || path == "/symptoms" || path == "/conditions":
		h.Set("Allow", "GET, OPTIONS")
		writeError(rec, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeError(rec, http.StatusNotFound, "Not found")
	}

	log.Info("request",
		zap.String("method", r.Method),
		zap.String("path", path),
		zap.Int("status", rec.status),
		zap.Duration("elapsed", time.Since(start)))
}

// handlePredict decodes {"symptoms": [...]} and returns the diagnosis.
// Client mistakes map to 400, missing reference data and anything unexpected
// to 500 without internal detail.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request, log *zap.Logger) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req pkg.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "No data provided")
			return
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if len(req.Symptoms) == 0 {
		writeError(w, http.StatusBadRequest, "Symptoms array is required")
		return
	}

	res, err := s.Diagnoser.Diagnose(req.Symptoms)
	if err != nil {
		var verr *core.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Msg)
		case errors.Is(err, core.ErrNoReferenceData):
			log.Error("diagnosis without reference data", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Reference data unavailable")
		default:
			log.Error("diagnosis failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	log.Debug("prediction", zap.Strings("symptoms", req.Symptoms), zap.String("disease", res.Disease))
	writeJSON(w, http.StatusOK, res)
}

// list calls fn on the catalog and never returns nil, so listings encode as [].
func (s *Server) list(fn func(Catalog) []string) []string {
	if s.Catalog == nil {
		return []string{}
	}
	if out := fn(s.Catalog); out != nil {
		return out
	}
	return []string{}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, pkg.ErrorResponse{Error: msg})
}

// statusRecorder remembers the status code written for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
