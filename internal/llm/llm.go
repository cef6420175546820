// Package llm defines the generation contract shared by the model providers and
// the helpers that turn free-form model output into a single JSON object.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrExtraction means the output contained no brace-delimited object.
	ErrExtraction = errors.New("no JSON object found in model output")
	// ErrMalformedPayload means the output could not be decoded into a single valid result.
	ErrMalformedPayload = errors.New("malformed model payload")
	// ErrTimeout means the generation deadline expired.
	ErrTimeout = errors.New("model call timed out")
)

// Generator is implemented by each model provider.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (Response, error)
}

type Request struct {
	Prompt string
	// Schema, when set, asks the provider for structured output matching it.
	Schema      map[string]any
	SchemaName  string
	Temperature *float64
}

type Response struct {
	Text         string
	Model        string
	PromptTokens int64
	OutputTokens int64
}

// Float returns a pointer to v, for Request.Temperature.
func Float(v float64) *float64 {
	return &v
}
