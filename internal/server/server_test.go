package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitscape/pkg/dag"
	"github.com/matzehuels/gitscape/pkg/graph"
	"github.com/matzehuels/gitscape/pkg/session"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	manager := session.NewManager(session.NewMemoryStore(), time.Hour)
	return New(manager, log.New(io.Discard)).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/sessions/", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", rec.Code)
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("missing session_id in create response")
	}
	return resp.SessionID
}

func TestCreateAndGetSession(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/sessions/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}

	var resp struct {
		Hash  string      `json:"hash"`
		Graph graph.Graph `json:"graph"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Graph.Commits) != 1 {
		t.Errorf("commits = %d, want seeded 1", len(resp.Graph.Commits))
	}
	if resp.Hash == "" {
		t.Error("missing graph hash")
	}
}

func TestGetUnknownSession(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/sessions/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "SESSION_NOT_FOUND" {
		t.Errorf("code = %s, want SESSION_NOT_FOUND", body.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodDelete, "/api/sessions/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/sessions/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestAddCommitEndpoint(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/commits", map[string]string{"branch": dag.DefaultBranch})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Layout graph.Layout `json:"layout"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Layout.Commits) != 2 {
		t.Errorf("layout commits = %d, want 2", len(resp.Layout.Commits))
	}
	if len(resp.Layout.Edges) != 1 {
		t.Errorf("layout edges = %d, want 1", len(resp.Layout.Edges))
	}
}

func TestIntentErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "UnknownBranch",
			path:       "/commits",
			body:       map[string]any{"branch": "nope"},
			wantStatus: http.StatusNotFound,
			wantCode:   "UNKNOWN_BRANCH",
		},
		{
			name:       "UnknownCommit",
			path:       "/branches",
			body:       map[string]any{"commit": "c99", "name": "x"},
			wantStatus: http.StatusNotFound,
			wantCode:   "UNKNOWN_COMMIT",
		},
		{
			name:       "InvalidName",
			path:       "/branches",
			body:       map[string]any{"commit": "c0", "name": "bad name"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_NAME",
		},
		{
			name:       "SelfParent",
			path:       "/move",
			body:       map[string]any{"commit": "c0", "new_parent": "c0"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "SELF_PARENT",
		},
		{
			name:       "SameBranch",
			path:       "/merge",
			body:       map[string]any{"target": dag.DefaultBranch, "source": dag.DefaultBranch},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "SAME_BRANCH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t)
			id := createSession(t, h)

			rec := doJSON(t, h, http.MethodPost, "/api/sessions/"+id+tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var body struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
		})
	}
}

func TestCycleRejection(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)

	// Grow master to c0 <- c1, then try to move c0 under c1.
	rec := doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/commits", map[string]string{"branch": dag.DefaultBranch})
	if rec.Code != http.StatusOK {
		t.Fatalf("add commit: %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/move", map[string]string{"commit": "c0", "new_parent": "c1"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "CYCLE_DETECTED") {
		t.Errorf("body = %s, want CYCLE_DETECTED", rec.Body.String())
	}
}

func TestMergeNoticeIs200(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/branches", map[string]string{"commit": "c0", "name": "feature"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create branch: %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/merge", map[string]string{"target": dag.DefaultBranch, "source": "feature"})
	if rec.Code != http.StatusOK {
		t.Fatalf("first merge: %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/sessions/"+id+"/merge", map[string]string{"target": dag.DefaultBranch, "source": "feature"})
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat merge status = %d, want 200", rec.Code)
	}
	var resp struct {
		Notice string       `json:"notice"`
		Layout graph.Layout `json:"layout"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Notice == "" {
		t.Error("repeated merge should carry a notice")
	}
	if len(resp.Layout.Commits) == 0 {
		t.Error("notice response should still include the layout")
	}
}

func TestBadJSONBody(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/commits", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/sessions/"+id+"/layout", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var l graph.Layout
	if err := json.Unmarshal(rec.Body.Bytes(), &l); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(l.Commits) != 1 {
		t.Errorf("commits = %d, want 1", len(l.Commits))
	}
	if l.Width < 600 || l.Height < 400 {
		t.Errorf("canvas = (%v, %v), want at least minimums", l.Width, l.Height)
	}
}

func TestSVGEndpoint(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/sessions/"+id+"/svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("content type = %s, want image/svg+xml", got)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag header")
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Error("body is not an SVG document")
	}
}
