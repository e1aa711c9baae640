// Package llm provides a unified interface for reply-generation providers.
//
// A provider receives the ordered conversation history for a session and
// returns the model's next reply as text. The caller owns history
// ordering: the newest user message must already be part of the history
// when GenerateReply is called, and the model's reply is recorded by the
// caller only after a successful return.
//
// Gemini is the default backend; an OpenAI-compatible backend is available
// as an alternate.
package llm

import "context"

// Role identifies the author of a message.
type Role string

const (
	// RoleUser marks a message spoken by the human.
	RoleUser Role = "user"

	// RoleModel marks a message generated by the model.
	RoleModel Role = "model"
)

// Message is one entry of the conversation history sent upstream.
type Message struct {
	Role    Role
	Content string
}

// Provider defines the reply-generation provider interface.
type Provider interface {
	// GenerateReply produces the next model reply for the given history.
	// The history must be ordered oldest first and end with a user message.
	// Returns ErrEmptyReply when the upstream answers with no text.
	GenerateReply(ctx context.Context, history []Message) (string, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}
