package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chess_chat/internal/chat"

	"github.com/gin-gonic/gin"
)

func newTestRouter(hub *chat.Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewServerHandler(hub, "./static")

	r := gin.New()
	r.GET("/count", h.Count)
	r.GET("/check-username/:name", h.CheckUsername)
	r.GET("/sessions", h.Sessions)
	r.GET("/healthz", h.Liveness)
	return r
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s = %d: %s", path, w.Code, w.Body.String())
	}
	return w
}

func TestCount(t *testing.T) {
	hub := chat.NewHub(nil)
	r := newTestRouter(hub)

	if body := get(t, r, "/count").Body.String(); body != "Visitors: 0" {
		t.Fatalf("body = %q; want %q", body, "Visitors: 0")
	}

	hub.Connect(hub.NextSessionID(), "Alice", make(chan chat.Message, 8))

	if body := get(t, r, "/count").Body.String(); body != "Visitors: 1" {
		t.Fatalf("body = %q; want %q", body, "Visitors: 1")
	}
}

func TestCheckUsername(t *testing.T) {
	hub := chat.NewHub(nil)
	hub.Connect(hub.NextSessionID(), "Alice", make(chan chat.Message, 8))
	r := newTestRouter(hub)

	var resp struct {
		Username  string `json:"username"`
		Available bool   `json:"available"`
	}

	w := get(t, r, "/check-username/Alice")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Username != "Alice" || resp.Available {
		t.Fatalf("resp = %+v; want taken Alice", resp)
	}

	w = get(t, r, "/check-username/Bob")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Available {
		t.Fatalf("resp = %+v; want Bob available", resp)
	}
}

func TestSessions(t *testing.T) {
	hub := chat.NewHub(nil)
	id := hub.NextSessionID()
	hub.Connect(id, "Alice", make(chan chat.Message, 8))
	r := newTestRouter(hub)

	var profiles []chat.SessionProfile
	w := get(t, r, "/sessions")
	if err := json.Unmarshal(w.Body.Bytes(), &profiles); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("profiles = %v; want one entry", profiles)
	}
	p := profiles[0]
	if p.Username != "Alice" || p.Room != chat.RoomMain || p.Game != chat.GameNone || p.ID != id {
		t.Fatalf("profile = %+v", p)
	}
}

func TestLiveness(t *testing.T) {
	hub := chat.NewHub(nil)
	r := newTestRouter(hub)

	var resp map[string]string
	w := get(t, r, "/healthz")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("status = %q; want ok", resp["status"])
	}
}
