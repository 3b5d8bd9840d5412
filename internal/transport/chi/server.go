package chi

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	router "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/query"
	"github.com/intavia/visualquery/internal/domain/widget"
	logpkg "github.com/intavia/visualquery/internal/logger"
	healthuc "github.com/intavia/visualquery/internal/usecase/health"
	sessionuc "github.com/intavia/visualquery/internal/usecase/session"
)

// Default widget area when the client omits a size.
const (
	defaultWidgetWidth  = 240.0
	defaultWidgetHeight = 240.0
)

// Server serves the visual query API.
type Server struct {
	sessions *sessionuc.Service
	health   *healthuc.Service
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(sessions *sessionuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{sessions: sessions, health: health, logger: logger}
}

// Routes registers the API on r.
func (s *Server) Routes(r router.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/constraints", s.ListConstraints)

	r.Route("/sessions", func(r router.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{session}", func(r router.Router) {
			r.Use(sessionLogger)
			r.Get("/", s.GetSession)
			r.Delete("/", s.CloseSession)
			r.Get("/layout", s.GetLayout)
			r.Post("/apply", s.Apply)

			r.Post("/constraints", s.AddConstraint)
			r.Delete("/constraints", s.ClearConstraints)
			r.Route("/constraints/{constraint}", func(r router.Router) {
				r.Delete("/", s.RemoveConstraint)
				r.Put("/value", s.SetConstraintValue)
				r.Post("/toggle", s.ToggleConstraint)
				r.Post("/gesture", s.Gesture)
				r.Get("/widget", s.GetWidget)
			})
		})
	})
}

// ListConstraints handles GET /constraints.
func (s *Server) ListConstraints(w http.ResponseWriter, _ *http.Request) {
	defs := constraint.Definitions()
	items := make([]DefinitionResponse, len(defs))
	for i, d := range defs {
		items[i] = definitionToResponse(d)
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 {
		if !s.decode(w, r, &req) {
			return
		}
	}

	cs, err := constraintsFromInput(req.Constraints)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	snap, err := s.sessions.Create(cs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusCreated, snap)
}

// GetSession handles GET /sessions/{session}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Get(sessionID(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusOK, snap)
}

// CloseSession handles DELETE /sessions/{session}.
func (s *Server) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Close(sessionID(r)); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddConstraint handles POST /sessions/{session}/constraints.
func (s *Server) AddConstraint(w http.ResponseWriter, r *http.Request) {
	var req AddConstraintRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, query.Add{ID: constraint.ID(req.ID)})
}

// ClearConstraints handles DELETE /sessions/{session}/constraints.
func (s *Server) ClearConstraints(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, query.Clear{})
}

// RemoveConstraint handles DELETE /sessions/{session}/constraints/{constraint}.
func (s *Server) RemoveConstraint(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, query.Remove{ID: constraintID(r)})
}

// SetConstraintValue handles PUT /sessions/{session}/constraints/{constraint}/value.
func (s *Server) SetConstraintValue(w http.ResponseWriter, r *http.Request) {
	var req SetValueRequest
	if !s.decode(w, r, &req) {
		return
	}
	id := constraintID(r)
	v, err := decodeValue(id, req.Value)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.dispatch(w, r, query.SetValue{ID: id, Value: v})
}

// ToggleConstraint handles POST /sessions/{session}/constraints/{constraint}/toggle.
func (s *Server) ToggleConstraint(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, query.Toggle{ID: constraintID(r)})
}

// Gesture handles POST /sessions/{session}/constraints/{constraint}/gesture.
func (s *Server) Gesture(w http.ResponseWriter, r *http.Request) {
	var req GestureRequest
	if !s.decode(w, r, &req) {
		return
	}
	g, err := gestureFromRequest(req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	snap, err := s.sessions.Gesture(r.Context(), sessionID(r), constraintID(r), g)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusOK, snap)
}

// GetWidget handles GET /sessions/{session}/constraints/{constraint}/widget.
func (s *Server) GetWidget(w http.ResponseWriter, r *http.Request) {
	width, err := floatParam(r, "width", defaultWidgetWidth)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	height, err := floatParam(r, "height", defaultWidgetHeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	view, err := s.sessions.Widget(r.Context(), sessionID(r), constraintID(r),
		widget.Size{Width: width, Height: height})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetLayout handles GET /sessions/{session}/layout.
func (s *Server) GetLayout(w http.ResponseWriter, r *http.Request) {
	width, err := floatParam(r, "width", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	height, err := floatParam(r, "height", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	view, err := s.sessions.View(r.Context(), sessionID(r), width, height)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Apply handles POST /sessions/{session}/apply.
func (s *Server) Apply(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	nav, err := s.sessions.Apply(r.Context(), sessionID(r), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nav)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, a query.Action) {
	snap, err := s.sessions.Dispatch(sessionID(r), a)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusOK, snap)
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, snap sessionuc.Snapshot) {
	resp, err := sessionToResponse(snap)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, status, resp)
}

// decode reads and validates a JSON body. It writes the error response and
// returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return false
	}
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

// requestLogger prefers the per-request logger set by the request middleware.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if l, ok := logpkg.Lookup(r.Context()); ok {
		return l
	}
	return s.logger
}

// sessionLogger tags the request logger with the session ID.
func sessionLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := logpkg.Lookup(r.Context()); ok {
			r = r.WithContext(logpkg.With(r.Context(), zap.String("session", sessionID(r))))
		}
		next.ServeHTTP(w, r)
	})
}

func sessionID(r *http.Request) string { return router.URLParam(r, "session") }

func constraintID(r *http.Request) constraint.ID {
	return constraint.ID(router.URLParam(r, "constraint"))
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a finite non-negative number", name)
	}
	return f, nil
}
