package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"mail-relay/internal/app"
	"mail-relay/internal/cache"
	"mail-relay/internal/compose"
	"mail-relay/internal/httputil"
	"mail-relay/internal/llm"
	"mail-relay/internal/metrics"
)

type summarizeRequest struct {
	Content string `json:"content" validate:"required"`
	Model   string `json:"model"`
}

type replyRequest struct {
	EmailContent   string `json:"emailContent" validate:"required"`
	EmailSubject   string `json:"emailSubject"`
	Sender         string `json:"sender"`
	UserEmail      string `json:"userEmail"`
	RecipientName  string `json:"recipientName"`
	RecipientEmail string `json:"recipientEmail"`
	Model          string `json:"model"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	// One informational probe at startup; handlers re-probe on every request.
	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if st := probeBackend(startupCtx, deps); st.Running {
		deps.Log.Info("backend healthy at startup", "model", deps.Config.Model)
	} else {
		deps.Log.Warn("backend unhealthy at startup", "err", st.Error)
	}
	cancel()

	r := httputil.NewRouter(deps.Log, deps.Config.CORSOrigin)

	r.Post("/summarize-email", summarizeHandler(deps))
	r.Post("/generate-reply", replyHandler(deps))
	r.Get("/", healthHandler(deps))
	r.Get("/ollama-status", statusHandler(deps))
	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	g, ctx := errgroup.WithContext(context.Background())

	// Run HTTP server
	g.Go(func() error {
		deps.Log.Info("relay listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Shut down cleanly on SIGINT/SIGTERM
	g.Go(func() error {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		select {
		case <-ctx.Done():
			return nil
		case sig := <-stop:
			deps.Log.Info("shutting down", "signal", sig.String())
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
	if err := deps.Cache.Close(); err != nil {
		deps.Log.Warn("cache close failed", "err", err)
	}
}

// probeBackend checks backend reachability and required-model presence,
// updating the availability gauge as a side effect.
func probeBackend(ctx context.Context, deps app.Deps) llm.Status {
	st := llm.Probe(ctx, deps.LLM, deps.Config.Model)
	if st.Running {
		metrics.BackendUp.Set(1)
	} else {
		metrics.BackendUp.Set(0)
	}
	return st
}

func summarizeHandler(deps app.Deps) http.HandlerFunc {
	cacheTTL := time.Duration(deps.Config.CacheTTL) * time.Second

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req summarizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "No email content provided", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.Fail(deps.Log, w, "No email content provided", err, http.StatusBadRequest)
			return
		}
		model := req.Model
		if model == "" {
			model = deps.Config.Model
		}

		if st := probeBackend(ctx, deps); !st.Running {
			httputil.Fail(deps.Log, w, st.Error, nil, http.StatusServiceUnavailable)
			return
		}

		key := cache.Key(model, req.Content)
		if cached, err := deps.Cache.GetSummary(ctx, key); err == nil && cached != "" {
			metrics.CacheHits.Inc()
			httputil.WriteJSON(w, http.StatusOK, map[string]any{"summary": cached})
			return
		}

		start := time.Now()
		summary, err := deps.LLM.Generate(ctx, model, compose.SummaryPrompt(req.Content))
		metrics.GenerationDuration.WithLabelValues(model, "summarize").Observe(time.Since(start).Seconds())
		if err != nil {
			failGeneration(deps, w, "Error summarizing email", err)
			return
		}

		if err := deps.Cache.SetSummary(ctx, key, summary, cacheTTL); err != nil {
			// Cache write failure must not fail the request.
			deps.Log.Warn("failed to cache summary", "err", err)
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{"summary": summary})
	}
}

func replyHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req replyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "No email content provided", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.Fail(deps.Log, w, "No email content provided", err, http.StatusBadRequest)
			return
		}
		if req.UserEmail == "" {
			req.UserEmail = "user@example.com"
		}
		model := req.Model
		if model == "" {
			model = deps.Config.Model
		}

		if st := probeBackend(ctx, deps); !st.Running {
			httputil.Fail(deps.Log, w, st.Error, nil, http.StatusServiceUnavailable)
			return
		}

		prompt := compose.ReplyPrompt(compose.ReplyParams{
			Subject:        req.EmailSubject,
			Content:        req.EmailContent,
			Sender:         req.Sender,
			UserEmail:      req.UserEmail,
			RecipientName:  req.RecipientName,
			RecipientEmail: req.RecipientEmail,
		})

		start := time.Now()
		reply, err := deps.LLM.Generate(ctx, model, prompt)
		metrics.GenerationDuration.WithLabelValues(model, "reply").Observe(time.Since(start).Seconds())
		if err != nil {
			failGeneration(deps, w, "Error generating reply", err)
			return
		}

		name := compose.RecipientName(req.RecipientName, req.Sender)
		reply = compose.EnsureGreeting(reply, name)
		reply = compose.EnsureSignoff(reply, compose.SignerName(req.UserEmail))

		httputil.WriteJSON(w, http.StatusOK, map[string]any{"reply": reply})
	}
}

// failGeneration maps backend call failures: unreachable backend is a 503
// with the remediation message, anything else a 500 carrying the error text.
func failGeneration(deps app.Deps, w http.ResponseWriter, action string, err error) {
	if errors.Is(err, llm.ErrUnreachable) {
		httputil.Fail(deps.Log, w, llm.ErrUnreachable.Error(), err, http.StatusServiceUnavailable)
		return
	}
	httputil.Fail(deps.Log, w, fmt.Sprintf("%s: %v", action, err), err, http.StatusInternalServerError)
}

// healthHandler reports the server as up regardless of backend state; backend
// trouble downgrades the payload to a warning but never the status code.
func healthHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := probeBackend(r.Context(), deps)
		if st.Running {
			httputil.WriteJSON(w, http.StatusOK, map[string]any{
				"status":        "ok",
				"message":       "Server is running",
				"ollama_status": "running",
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":        "warning",
			"message":       "Server is running, but Ollama has issues",
			"ollama_status": "error",
			"ollama_error":  st.Error,
		})
	}
}

func statusHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := probeBackend(r.Context(), deps)
		if st.Running {
			httputil.WriteJSON(w, http.StatusOK, map[string]any{
				"status":  "ok",
				"message": fmt.Sprintf("Ollama is running and %s model is available", deps.Config.Model),
			})
			return
		}
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "error",
			"message": st.Error,
		})
	}
}
