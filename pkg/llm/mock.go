package llm

import (
	"context"
	"sync"
)

// Mock implements Provider for testing.
// All methods can be customized via function fields.
type Mock struct {
	// GenerateReplyFunc is called when GenerateReply is invoked.
	// If nil, returns ErrEmptyReply.
	GenerateReplyFunc func(ctx context.Context, history []Message) (string, error)

	// HealthFunc is called when Health is invoked.
	// If nil, returns nil (healthy).
	HealthFunc func(ctx context.Context) error

	// Tracking
	mu        sync.Mutex
	histories [][]Message
}

// NewMock creates a mock provider returning a fixed reply.
func NewMock(reply string) *Mock {
	return &Mock{
		GenerateReplyFunc: func(ctx context.Context, history []Message) (string, error) {
			return reply, nil
		},
	}
}

// WithError returns a mock whose calls all fail with err.
func WithError(err error) *Mock {
	return &Mock{
		GenerateReplyFunc: func(ctx context.Context, history []Message) (string, error) {
			return "", err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// GenerateReply calls GenerateReplyFunc and records the history it saw.
func (m *Mock) GenerateReply(ctx context.Context, history []Message) (string, error) {
	m.mu.Lock()
	snapshot := make([]Message, len(history))
	copy(snapshot, history)
	m.histories = append(m.histories, snapshot)
	m.mu.Unlock()

	if m.GenerateReplyFunc != nil {
		return m.GenerateReplyFunc(ctx, history)
	}
	return "", WrapError("mock", ErrEmptyReply)
}

// Health calls HealthFunc.
func (m *Mock) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close returns nil.
func (m *Mock) Close() error {
	return nil
}

// Histories returns a copy of every history GenerateReply received,
// in call order. Tests use this to verify turn ordering.
func (m *Mock) Histories() [][]Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([][]Message, len(m.histories))
	copy(result, m.histories)
	return result
}

// CallCount returns the number of GenerateReply invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.histories)
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
