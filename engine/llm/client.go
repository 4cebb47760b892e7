package llm

import "context"

// StreamFunc receives partial text as it arrives from the model.
type StreamFunc func(ctx context.Context, chunk []byte) error

// GenerateOptions are the generation knobs passed through to the provider.
type GenerateOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
	StopWords   []string
	// StreamFunc, when set, is invoked with partial text as it arrives.
	// The final text is still returned in full.
	StreamFunc StreamFunc
}

// Client is the narrow inference contract the composition core consumes:
// given a prompt and generation options, asynchronously produce text,
// optionally reporting partial text, and return the final text.
type Client interface {
	Generate(ctx context.Context, prompt string, opts *GenerateOptions) (string, error)
	Close() error
}
