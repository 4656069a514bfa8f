// Package llm abstracts the hosted language-model inference service behind a
// single-shot text completion call so pipeline stages can swap backends.
package llm

import "context"

type Client interface {
	// Generate sends one prompt and returns the model's raw text response.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name identifies the backing provider for logging and responses.
	Name() string
}
