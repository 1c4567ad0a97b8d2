package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gitscape/pkg/errors"
	"github.com/matzehuels/gitscape/pkg/graph"
	"github.com/matzehuels/gitscape/pkg/layout"
	"github.com/matzehuels/gitscape/pkg/render"
	"github.com/matzehuels/gitscape/pkg/session"
)

// intentBody is the union request body for all mutation endpoints; each
// endpoint picks the fields it needs.
type intentBody struct {
	Branch    string `json:"branch,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Name      string `json:"name,omitempty"`
	Count     int    `json:"count,omitempty"`
	NewParent string `json:"new_parent,omitempty"`
	Target    string `json:"target,omitempty"`
	Source    string `json:"source,omitempty"`
}

// intentResponse is returned by every mutation endpoint. Notice carries the
// informational ALREADY_MERGED message; Layout is the fresh layout after a
// successful mutation (or the unchanged one for a notice).
type intentResponse struct {
	SessionID string       `json:"session_id"`
	Notice    string       `json:"notice,omitempty"`
	Layout    graph.Layout `json:"layout"`
}

type sessionResponse struct {
	SessionID string      `json:"session_id"`
	Hash      string      `json:"hash"`
	Graph     graph.Graph `json:"graph"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Create(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("session created", "id", sess.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sess.ID, Hash: sess.Hash(), Graph: sess.Graph})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Hash: sess.Hash(), Graph: sess.Graph})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.manager.Layout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	store, err := graph.ToStore(sess.Graph)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "decode session graph"))
		return
	}
	res := layout.Compute(store)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("ETag", `"`+sess.Hash()+`"`)
	_, _ = w.Write(render.SVG(res, store))
}

// intentHandler adapts a body-to-intent mapping into an HTTP handler. All
// mutation endpoints share the same shape: decode, apply, return the new
// layout. The ALREADY_MERGED no-op comes back as 200 with a notice because it
// is information for the user, not a failure.
func (s *Server) intentHandler(toIntent func(intentBody) session.Intent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var body intentBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid JSON body"})
			return
		}

		intent := toIntent(body)
		sess, err := s.manager.Apply(r.Context(), id, intent)
		if err != nil {
			if errors.Informational(err) {
				l, lerr := s.manager.Layout(r.Context(), id)
				if lerr != nil {
					s.writeError(w, lerr)
					return
				}
				writeJSON(w, http.StatusOK, intentResponse{SessionID: id, Notice: errors.UserMessage(err), Layout: l})
				return
			}
			s.writeError(w, err)
			return
		}

		l, err := s.manager.Layout(r.Context(), sess.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.logger.Debug("intent applied", "session", id, "op", intent.Op)
		writeJSON(w, http.StatusOK, intentResponse{SessionID: sess.ID, Layout: l})
	}
}
