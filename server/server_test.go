package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"keynotes/keymap"
	"keynotes/notes"
)

type poisonedStore struct{}

func (poisonedStore) Snapshot() (notes.Snapshot, error) { return notes.Snapshot{}, notes.ErrPoisoned }
func (poisonedStore) ClearNotes() error                 { return notes.ErrPoisoned }

func seededCell(t *testing.T, keys ...keymap.Key) *notes.Cell {
	t.Helper()
	c := notes.New()
	for _, k := range keys {
		if _, err := c.Mutate(keymap.Classify(k)); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleStateReturnsSnapshot(t *testing.T) {
	c := seededCell(t,
		keymap.KeyF9, keymap.KeyH, keymap.KeyI, keymap.KeyF9,
		keymap.KeyF9, keymap.KeyY, keymap.KeyO,
	)
	w := do(t, New(c).Handler(), http.MethodGet, "/state")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var resp notes.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Recording || resp.CurrentNote != "yo" || !slices.Equal(resp.Notes, []string{"hi"}) {
		t.Errorf("unexpected snapshot: %+v", resp)
	}
}

func TestHandleStateFieldNames(t *testing.T) {
	w := do(t, New(notes.New()).Handler(), http.MethodGet, "/state")

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"recording", "current_note", "notes"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("response missing %q: %s", key, w.Body.String())
		}
	}
	if got := string(raw["notes"]); got != "[]" {
		t.Errorf("empty notes encoded as %s, want []", got)
	}
}

func TestHandleClear(t *testing.T) {
	c := seededCell(t,
		keymap.KeyF9, keymap.KeyA, keymap.KeyF9,
		keymap.KeyF9, keymap.KeyB, keymap.KeyF9,
		keymap.KeyF9, keymap.KeyC,
	)
	h := New(c).Handler()

	w := do(t, h, http.MethodPost, "/clear")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}

	snap, err := c.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Notes) != 0 || !snap.Recording || snap.CurrentNote != "c" {
		t.Errorf("unexpected state after clear: %+v", snap)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := New(notes.New()).Handler()
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/state"},
		{http.MethodGet, "/clear"},
		{http.MethodDelete, "/"},
	} {
		if w := do(t, h, tc.method, tc.path); w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: got %d, want 405", tc.method, tc.path, w.Code)
		}
	}
}

func TestUnknownPathNotFound(t *testing.T) {
	if w := do(t, New(notes.New()).Handler(), http.MethodGet, "/nope"); w.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404", w.Code)
	}
}

func TestIndexServesHTML(t *testing.T) {
	w := do(t, New(notes.New()).Handler(), http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "/state") {
		t.Error("index page does not reference /state")
	}
}

func TestPoisonedStoreReturns500(t *testing.T) {
	h := New(poisonedStore{}).Handler()
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/state"},
		{http.MethodPost, "/clear"},
	} {
		w := do(t, h, tc.method, tc.path)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s %s: got %d, want 500", tc.method, tc.path, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
			t.Errorf("%s %s: expected JSON error body, got %q", tc.method, tc.path, w.Body.String())
		}
	}
}

func TestResolveAddr(t *testing.T) {
	t.Setenv(envAddr, "")
	if got := ResolveAddr(""); got != DefaultAddr {
		t.Errorf("default = %q", got)
	}
	t.Setenv(envAddr, "127.0.0.1:9000")
	if got := ResolveAddr(""); got != "127.0.0.1:9000" {
		t.Errorf("env = %q", got)
	}
	if got := ResolveAddr("localhost:1234"); got != "localhost:1234" {
		t.Errorf("flag = %q", got)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv := New(notes.New())
	if err := srv.Listen("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	resp, err := http.Get("http://" + srv.Addr() + "/state")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("live server returned %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServeBeforeListen(t *testing.T) {
	if err := New(notes.New()).Serve(context.Background()); err == nil {
		t.Error("expected error")
	}
}
