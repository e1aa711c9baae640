// Package conversation holds per-session chat history for the voice agent.
//
// A session is identified by an opaque, client-chosen string. Each session
// owns an ordered sequence of turns, alternating user/model when clients
// behave. Turns are immutable once appended. History lives in process
// memory only: no eviction, no cap, no persistence.
package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a turn.
type Role string

const (
	// RoleUser marks a turn transcribed from the human's audio.
	RoleUser Role = "user"

	// RoleModel marks a turn generated by the language model.
	RoleModel Role = "model"
)

// Turn is one utterance in a session's history.
type Turn struct {
	// ID is assigned by the store on append. Diagnostic only.
	ID string `json:"id"`

	// Role is "user" or "model".
	Role Role `json:"role"`

	// Content is the turn's text.
	Content string `json:"content"`

	// Timestamp is when the turn was appended.
	Timestamp time.Time `json:"timestamp"`
}

// NewTurn creates a turn with a fresh ID and timestamp.
func NewTurn(role Role, content string) Turn {
	return Turn{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}
