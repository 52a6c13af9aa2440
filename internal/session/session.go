// Package session persists per-conversation routing state and transcripts.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/rivertown-concierge/internal/intent"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrSessionNotFound is returned when a session id has no stored state.
var ErrSessionNotFound = errors.New("session: not found")

// Message is one transcript entry. Kind mirrors intent.Response kinds so
// html replies can be re-rendered.
type Message struct {
	Role      string      `json:"role"`
	Kind      intent.Kind `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

type Session struct {
	ID        string                   `json:"id"`
	State     intent.ConversationState `json:"state"`
	Messages  []Message                `json:"messages"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// Store loads and saves sessions.
type Store interface {
	Load(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Reset(ctx context.Context, id string) error
}

// New opens a session whose transcript starts with the welcome message.
func New(id, welcome string, now time.Time) Session {
	now = now.UTC()
	s := Session{ID: id, CreatedAt: now, UpdatedAt: now}
	if welcome != "" {
		s.Messages = []Message{{Role: RoleAssistant, Kind: intent.KindText, Content: welcome, Timestamp: now}}
	}
	return s
}

// Append records a message and bumps UpdatedAt.
func (s *Session) Append(role string, resp intent.Response, at time.Time) {
	at = at.UTC()
	s.Messages = append(s.Messages, Message{Role: role, Kind: resp.Kind, Content: resp.Content, Timestamp: at})
	s.UpdatedAt = at
}

func (s Session) clone() Session {
	s.Messages = append([]Message(nil), s.Messages...)
	return s
}
