package interfaces

import (
	"context"
	"errors"
)

// ErrEmptyCompletion reports a backend response without usable text.
var ErrEmptyCompletion = errors.New("textgen: empty completion")

// CompletionRequest is a single chat-completion call against a text backend.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	// TopP is the nucleus sampling cutoff. Zero leaves the backend default.
	TopP float32
}

// CompletionResponse carries the generated text.
type CompletionResponse struct {
	Text         string
	Model        string
	FinishReason string
}

// TextGenerator is the language-model backend consumed by the content generator.
// Implementations make at most one outbound call per Complete and never retry.
type TextGenerator interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}
