package httputil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCORSHeadersOnEveryResponse(t *testing.T) {
	r := NewRouter(testLogger(), "*")
	r.Get("/ping", func(w http.ResponseWriter, req *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	paths := []string{"/ping", "/no-such-path"}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("%s: expected Access-Control-Allow-Origin=*, got %q", path, got)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
			t.Errorf("%s: expected Access-Control-Allow-Methods header", path)
		}
	}
}

func TestCORSConfigurableOrigin(t *testing.T) {
	r := NewRouter(testLogger(), "https://mail.example.com")
	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://mail.example.com" {
		t.Errorf("expected configured origin, got %q", got)
	}
}

func TestOptionsSucceedsOnAnyPath(t *testing.T) {
	r := NewRouter(testLogger(), "*")
	r.Post("/summarize-email", func(w http.ResponseWriter, req *http.Request) {})

	for _, path := range []string{"/", "/summarize-email", "/definitely/not/registered"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("OPTIONS %s: expected 200, got %d", path, w.Code)
		}
		var body map[string]any
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("OPTIONS %s: decode body: %v", path, err)
		}
		if body["status"] != "ok" {
			t.Errorf("OPTIONS %s: expected status ok, got %v", path, body["status"])
		}
	}
}

func TestNotFoundIsStructuredJSON(t *testing.T) {
	r := NewRouter(testLogger(), "*")
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == nil || body["error"] == "" {
		t.Error("expected error key in 404 body")
	}
}

func TestRecovererReturnsJSON500(t *testing.T) {
	r := NewRouter(testLogger(), "*")
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == nil {
		t.Error("expected error key in 500 body")
	}
}

func TestFailWritesErrorJSON(t *testing.T) {
	w := httptest.NewRecorder()
	Fail(testLogger(), w, "No email content provided", nil, http.StatusBadRequest)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "No email content provided" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestValidatorRequired(t *testing.T) {
	type payload struct {
		Content string `json:"content" validate:"required"`
	}

	if err := Validator.Struct(&payload{}); err == nil {
		t.Error("expected validation error for missing content")
	}
	if err := Validator.Struct(&payload{Content: "hi"}); err != nil {
		t.Errorf("expected valid payload, got %v", err)
	}
}
