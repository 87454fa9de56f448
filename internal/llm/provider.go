package llm

import "context"

// Roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tune a single call.
type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
	// JSON asks the model for a JSON document instead of prose.
	JSON bool
}

// Option mutates Options.
type Option func(*Options)

func WithTemperature(temp float64) Option {
	return func(o *Options) { o.Temperature = temp }
}

func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n }
}

// WithJSON requests JSON formatted output.
func WithJSON() Option {
	return func(o *Options) { o.JSON = true }
}

// Provider is a generative text backend.
type Provider interface {
	// Chat sends the history and returns the assistant reply.
	Chat(ctx context.Context, history []Message, opts ...Option) (string, error)
	// Generate sends a single user prompt.
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
}
