// Package httpadapter serves the dashboard API alongside the health,
// readiness and metrics endpoints.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/dashboard"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/domain"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionHeader identifies the caller's dashboard session.
const SessionHeader = "X-Session-ID"

const maxBodyBytes = 1 << 20

// Dashboard is the session store behind the API.
type Dashboard interface {
	Session(ctx context.Context, id string) (*dashboard.Session, error)
	FilterOptions() dashboard.FilterOptions
}

// Server exposes the dashboard API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	logger     *slog.Logger
}

// NewServer creates an HTTP server. allowedOrigins feeds the CORS policy;
// an empty list allows any origin.
func NewServer(addr string, dash Dashboard, ready sharedobs.ReadinessChecker, allowedOrigins []string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      withCORS(mux, allowedOrigins),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:   dash,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/options", s.handleOptions)
	mux.HandleFunc("GET /api/v1/dashboard", s.withSession(s.handleDashboard))
	mux.HandleFunc("PUT /api/v1/staged/counties", s.withSession(s.handleStageCounties))
	mux.HandleFunc("PUT /api/v1/staged/years", s.withSession(s.handleStageYears))
	mux.HandleFunc("PUT /api/v1/staged/incidents", s.withSession(s.handleStageIncidents))
	mux.HandleFunc("POST /api/v1/submit", s.withSession(s.handleSubmit))
	mux.HandleFunc("POST /api/v1/reset", s.withSession(s.handleReset))
	mux.HandleFunc("POST /api/v1/map/selection", s.withSession(s.handleMapSelection))
	mux.HandleFunc("GET /api/v1/map", s.withSession(s.handleMap))

	return s
}

func withCORS(h http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", SessionHeader},
		MaxAge:         300,
	})(h)
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

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *dashboard.Session)

func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.dash.Session(r.Context(), r.Header.Get(SessionHeader))
		if err != nil {
			s.logger.Error("open session", "error", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		next(w, r, sess)
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.FilterOptions())
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request, sess *dashboard.Session) {
	writeJSON(w, http.StatusOK, sess.State())
}

type valuesRequest struct {
	Values []string `json:"values"`
}

func (s *Server) handleStageCounties(w http.ResponseWriter, r *http.Request, sess *dashboard.Session) {
	var req valuesRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, sess.SelectCounties(req.Values))
}

func (s *Server) handleStageIncidents(w http.ResponseWriter, r *http.Request, sess *dashboard.Session) {
	var req valuesRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, sess.SelectIncidentNames(req.Values))
}

type yearsRequest struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

func (s *Server) handleStageYears(w http.ResponseWriter, r *http.Request, sess *dashboard.Session) {
	var req yearsRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Min == nil || req.Max == nil {
		writeError(w, http.StatusBadRequest, errors.New("min and max are required"))
		return
	}
	writeJSON(w, http.StatusOK, sess.SelectYearRange(*req.Min, *req.Max))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, sess *dashboard.Session) {
	state, err := sess.Submit(r.Context())
	s.writeCycle(w, state, err)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sess *dashboard.Session) {
	state, err := sess.Reset(r.Context())
	s.writeCycle(w, state, err)
}

type selectionRequest struct {
	Points []domain.SelectionPoint `json:"points"`
}

func (s *Server) handleMapSelection(w http.ResponseWriter, r *http.Request, sess *dashboard.Session) {
	var req selectionRequest
	if !decode(w, r, &req) {
		return
	}
	state, err := sess.MapSelectionChanged(r.Context(), req.Points)
	s.writeCycle(w, state, err)
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request, sess *dashboard.Session) {
	snap := sess.Snapshot()
	if snap == nil || len(snap.Map) == 0 {
		writeError(w, http.StatusNotFound, errors.New("no map available"))
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(snap.Map) //nolint:errcheck // client went away
}

// writeCycle reports a cycle outcome. A failed cycle still returns the
// state the session kept, alongside the error.
func (s *Server) writeCycle(w http.ResponseWriter, state dashboard.State, err error) {
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, struct {
			Error string          `json:"error"`
			State dashboard.State `json:"state"`
		}{err.Error(), state})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON encodes v before writing the header, so an unencodable value
// becomes a 500 instead of a truncated response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		body, _ = json.Marshal(map[string]string{"error": fmt.Sprintf("encode response: %v", err)})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n')) //nolint:errcheck // client went away
}
