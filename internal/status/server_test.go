package status

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Dragon-GCS/lolhelper/internal/event"
	"github.com/Dragon-GCS/lolhelper/internal/state"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestServer(t *testing.T, store *state.Store, save SaveFunc) (*httptest.Server, *Broadcaster) {
	t.Helper()
	b := NewBroadcaster(store, time.Hour, quietLogger())
	srv := httptest.NewServer(NewServer(store, b, save, quietLogger()))
	t.Cleanup(srv.Close)
	return srv, b
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	securityHeaders(inner).ServeHTTP(rec, req)

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"X-XSS-Protection":        "1; mode=block",
		"Content-Security-Policy": "default-src 'self'",
	}

	for header, expected := range want {
		if got := rec.Header().Get(header); got != expected {
			t.Errorf("header %s = %q, want %q", header, got, expected)
		}
	}
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:3000", true},
		{"http://127.0.0.1", true},
		{"http://[::1]:8080", true},
		{"http://status.local:8765", true}, // same as request host
		{"https://evil.example", false},
		{"not a url", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://status.local:8765/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := checkOrigin(req); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestGetState(t *testing.T) {
	store := state.NewStore(state.Preferences{AcceptDelaySeconds: 2})
	store.SetPhase(event.PhaseChampSelect)
	store.SetGameMode("ARAM")
	srv, _ := newTestServer(t, store, nil)

	resp, err := http.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var got struct {
		Phase              string `json:"phase"`
		GameMode           string `json:"gameMode"`
		AcceptDelaySeconds int    `json:"acceptDelaySeconds"`
		Picked             string `json:"picked"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Phase != "ChampSelect" || got.GameMode != "ARAM" || got.AcceptDelaySeconds != 2 || got.Picked != "not_started" {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestPutAutoPick(t *testing.T) {
	store := state.NewStore(state.Preferences{})
	var saved []state.Preferences
	srv, _ := newTestServer(t, store, func(p state.Preferences) error {
		saved = append(saved, p)
		return nil
	})

	body := `{"selected":[{"id":103,"name":"Ahri"}],"unselected":[{"id":1,"name":"Annie"}],"enabled":true}`
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/autopick", strings.NewReader(body))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	cfg := store.AutoPick()
	if !cfg.Enabled || len(cfg.Selected) != 1 || cfg.Selected[0].ID != 103 {
		t.Errorf("AutoPick() = %+v", cfg)
	}
	if len(saved) != 1 || !saved[0].AutoPick.Enabled {
		t.Errorf("saved = %+v, want one save with the new config", saved)
	}

	resp, err = http.Get(srv.URL + "/api/autopick")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got state.AutoPickConfig
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Unselected) != 1 || got.Unselected[0].Name != "Annie" {
		t.Errorf("GET /api/autopick = %+v", got)
	}
}

func TestPutAutoPickRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{"selected":`, http.StatusBadRequest},
		{"unknown field", `{"selected":[],"bogus":1}`, http.StatusBadRequest},
		{"zero id", `{"selected":[{"id":0,"name":"x"}]}`, http.StatusBadRequest},
		{"duplicate", `{"selected":[{"id":5,"name":"x"}],"unselected":[{"id":5,"name":"x"}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := state.NewStore(state.Preferences{})
			srv, _ := newTestServer(t, store, nil)

			req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/autopick", strings.NewReader(tt.body))
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if len(store.AutoPick().Selected) != 0 {
				t.Error("rejected config was stored")
			}
		})
	}
}

func TestPutAutoPickSaveFailure(t *testing.T) {
	store := state.NewStore(state.Preferences{})
	srv, _ := newTestServer(t, store, func(state.Preferences) error { return errors.New("disk full") })

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/autopick", strings.NewReader(`{"enabled":true}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, state.NewStore(state.Preferences{}), nil)
	resp, err := http.Post(srv.URL+"/api/state", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func readSnapshot(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg struct {
		Type    MessageType    `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if msg.Type != MsgSnapshot {
		t.Fatalf("message type = %q, want snapshot", msg.Type)
	}
	return msg.Payload
}

func TestWebSocketSnapshots(t *testing.T) {
	store := state.NewStore(state.Preferences{})
	srv, b := newTestServer(t, store, nil)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer conn.Close()

	if got := readSnapshot(t, conn)["phase"]; got != "None" {
		t.Errorf("initial phase = %v, want None", got)
	}

	store.SetPhase(event.PhaseLobby)
	b.Broadcast()
	if got := readSnapshot(t, conn)["phase"]; got != "Lobby" {
		t.Errorf("broadcast phase = %v, want Lobby", got)
	}
	if b.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", b.ClientCount())
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	srv, b := newTestServer(t, state.NewStore(state.Preferences{}), nil)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("Dial() with a foreign origin should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
	if b.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", b.ClientCount())
	}
}
