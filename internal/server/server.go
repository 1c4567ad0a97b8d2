// Package server exposes the session engine over HTTP. It is the surface the
// interactive UI talks to: every drag, click, and menu action arrives here as
// one discrete intent and leaves as a fresh layout.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gitscape/pkg/errors"
	"github.com/matzehuels/gitscape/pkg/session"
)

// Server wires the session manager into a chi router.
type Server struct {
	manager *session.Manager
	logger  *log.Logger
}

// New creates a server around the given session manager.
func New(manager *session.Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{manager: manager, logger: logger}
}

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/layout", s.handleLayout)
			r.Get("/svg", s.handleSVG)
			r.Post("/commits", s.intentHandler(func(body intentBody) session.Intent {
				return session.Intent{Op: session.OpAddCommit, Branch: body.Branch}
			}))
			r.Post("/branches", s.intentHandler(func(body intentBody) session.Intent {
				return session.Intent{Op: session.OpCreateBranch, Commit: body.Commit, Name: body.Name}
			}))
			r.Post("/custom", s.intentHandler(func(body intentBody) session.Intent {
				return session.Intent{Op: session.OpAddCustom, Commit: body.Commit, Count: body.Count}
			}))
			r.Post("/move", s.intentHandler(func(body intentBody) session.Intent {
				return session.Intent{Op: session.OpMoveCommit, Commit: body.Commit, NewParent: body.NewParent}
			}))
			r.Post("/merge", s.intentHandler(func(body intentBody) session.Intent {
				return session.Intent{Op: session.OpMergeBranch, Target: body.Target, Source: body.Source}
			}))
		})
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// statusFor maps error codes to HTTP statuses. ALREADY_MERGED is handled
// separately as a 200 notice before this mapping applies.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnknownBranch, errors.ErrCodeUnknownCommit, errors.ErrCodeMissingHead:
		return http.StatusNotFound
	case errors.ErrCodeSelfParent, errors.ErrCodeSameBranch, errors.ErrCodeInvalidName, errors.ErrCodeCycleDetected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorBody{Code: string(code), Message: errors.UserMessage(err)})
}
