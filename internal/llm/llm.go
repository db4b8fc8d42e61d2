// Package llm is the gateway to the generative text model.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("empty response from model")

// Generator turns a prompt into raw model text.
// Implementations make exactly one attempt per call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
