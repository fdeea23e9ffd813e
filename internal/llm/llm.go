package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	// Generate sends a prompt to the backend and returns the trimmed completion.
	Generate(ctx context.Context, model, prompt string) (string, error)

	// CheckModel probes the backend and verifies the model is registered.
	// A nil return means the backend is reachable and the model is available.
	CheckModel(ctx context.Context, model string) error
}

// ErrUnreachable indicates the backend process could not be contacted at all.
// Its text is surfaced to API callers, matching the remediation message style
// of the status endpoints.
var ErrUnreachable = errors.New("Cannot connect to Ollama. Please make sure Ollama is running")

// ModelMissingError is returned by CheckModel when the backend is up but the
// required model has not been pulled.
type ModelMissingError struct {
	Model string
}

func (e *ModelMissingError) Error() string {
	return fmt.Sprintf("%s model is not available. Please run 'ollama pull %s'", e.Model, e.Model)
}

// StatusError is returned by CheckModel when the model-listing endpoint
// answers with a non-200 status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Ollama returned status code %d", e.Code)
}

// Status is the health view derived from CheckModel, exposed by the
// health endpoints. It is computed per call and never cached.
type Status struct {
	Running bool
	Error   string
}

// Probe runs CheckModel and folds the result into a Status.
func Probe(ctx context.Context, c Client, model string) Status {
	if err := c.CheckModel(ctx, model); err != nil {
		return Status{Running: false, Error: err.Error()}
	}
	return Status{Running: true}
}
