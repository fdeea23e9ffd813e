package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/generate" {
			t.Errorf("expected /api/generate, got %s", r.URL.Path)
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "llama3.2:1b" {
			t.Errorf("model: got %q, want %q", req.Model, "llama3.2:1b")
		}
		if req.Stream {
			t.Error("expected stream=false")
		}
		if req.Prompt == "" {
			t.Error("expected non-empty prompt")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(generateResponse{
			Model:    req.Model,
			Response: "  Meeting moved to Friday.  \n",
			Done:     true,
		})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, 5*time.Second)
	got, err := c.Generate(context.Background(), "llama3.2:1b", "Summarize this")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Meeting moved to Friday." {
		t.Errorf("got %q, want trimmed response", got)
	}
}

func TestOllamaGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, 5*time.Second)
	_, err := c.Generate(context.Background(), "llama3.2:1b", "hello")
	if err == nil {
		t.Error("expected error on 500 response, got nil")
	}
	if errors.Is(err, ErrUnreachable) {
		t.Error("500 response should not map to ErrUnreachable")
	}
}

func TestOllamaGenerateUnreachable(t *testing.T) {
	c := NewOllamaClient("http://127.0.0.1:1", 1*time.Second)
	_, err := c.Generate(context.Background(), "llama3.2:1b", "hello")
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

func TestOllamaGenerateContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Generate(ctx, "llama3.2:1b", "hello"); err == nil {
		t.Error("expected error on cancelled context, got nil")
	}
}

func TestOllamaCheckModel(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(*testing.T, error)
	}{
		{
			name: "model present",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/tags" {
					t.Errorf("expected /api/tags, got %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(tagsResponse{Models: []tagModel{
					{Name: "mistral:7b"},
					{Name: "Llama3.2:1B"},
				}})
			},
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Errorf("expected healthy, got %v", err)
				}
			},
		},
		{
			name: "model missing",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(tagsResponse{Models: []tagModel{{Name: "mistral:7b"}}})
			},
			check: func(t *testing.T, err error) {
				var missing *ModelMissingError
				if !errors.As(err, &missing) {
					t.Fatalf("expected ModelMissingError, got %v", err)
				}
				if missing.Model != "llama3.2:1b" {
					t.Errorf("expected missing model named, got %q", missing.Model)
				}
			},
		},
		{
			name: "bad status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			check: func(t *testing.T, err error) {
				var status *StatusError
				if !errors.As(err, &status) {
					t.Fatalf("expected StatusError, got %v", err)
				}
				if status.Code != http.StatusBadGateway {
					t.Errorf("expected code 502, got %d", status.Code)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewOllamaClient(srv.URL, 5*time.Second)
			tt.check(t, c.CheckModel(context.Background(), "llama3.2:1b"))
		})
	}
}

func TestOllamaCheckModelUnreachable(t *testing.T) {
	c := NewOllamaClient("http://127.0.0.1:1", 1*time.Second)
	err := c.CheckModel(context.Background(), "llama3.2:1b")
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

func TestProbe(t *testing.T) {
	m := new(MockClient)
	m.On("CheckModel", context.Background(), "llama3.2:1b").Return(nil).Once()

	st := Probe(context.Background(), m, "llama3.2:1b")
	if !st.Running || st.Error != "" {
		t.Errorf("expected running status, got %+v", st)
	}

	m.On("CheckModel", context.Background(), "llama3.2:1b").Return(&ModelMissingError{Model: "llama3.2:1b"}).Once()
	st = Probe(context.Background(), m, "llama3.2:1b")
	if st.Running {
		t.Error("expected not running")
	}
	if st.Error == "" {
		t.Error("expected error message in status")
	}
	m.AssertExpectations(t)
}
