// Package chat hosts conversations: it loads session state, routes each
// utterance and persists the transcript.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moby/locker"
	"github.com/wolfman30/rivertown-concierge/internal/intent"
	"github.com/wolfman30/rivertown-concierge/internal/session"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

// ErrEmptyMessage is returned when an utterance is blank.
var ErrEmptyMessage = errors.New("chat: message text is required")

// Router is the subset of intent.Router used by the service.
type Router interface {
	RouteTurn(ctx context.Context, utterance string, state intent.ConversationState) intent.Turn
	RequestCallback(ctx context.Context, phone string, state intent.ConversationState) (intent.Response, intent.ConversationState)
}

// Metrics records per-turn observations. *metrics.RouterMetrics satisfies it.
type Metrics interface {
	ObserveTurnLatency(intent string, seconds float64)
	ObserveSessionStarted()
}

// Reply is the outcome of one turn.
type Reply struct {
	SessionID string          `json:"session_id"`
	Intent    intent.Intent   `json:"intent"`
	Response  intent.Response `json:"response"`
}

type ServiceConfig struct {
	Welcome string
	Metrics Metrics
	Logger  *logging.Logger
}

// Service runs turns against stored sessions. Turns for the same session are
// applied one at a time; different sessions proceed concurrently. The lock is
// held in process only, so several API instances sharing a RedisStore can
// still interleave turns for one session and drop an update.
type Service struct {
	router  Router
	store   session.Store
	welcome string
	metrics Metrics
	logger  *logging.Logger
	locks   *locker.Locker

	now   func() time.Time
	newID func() string
}

func NewService(router Router, store session.Store, cfg ServiceConfig) *Service {
	if router == nil || store == nil {
		panic("chat: router and session store are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		router:  router,
		store:   store,
		welcome: cfg.Welcome,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		locks:   locker.New(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Start opens a new session seeded with the welcome message.
func (s *Service) Start(ctx context.Context) (session.Session, error) {
	sess := session.New(s.newID(), s.welcome, s.now())
	if err := s.store.Save(ctx, sess); err != nil {
		return session.Session{}, fmt.Errorf("chat: start session: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveSessionStarted()
	}
	s.logger.Info("chat: session started", "session_id", sess.ID)
	return sess, nil
}

// Send routes one utterance within a session.
func (s *Service) Send(ctx context.Context, sessionID, utterance string) (Reply, error) {
	if strings.TrimSpace(utterance) == "" {
		return Reply{}, ErrEmptyMessage
	}
	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Reply{}, err
	}

	s.logger.Debug("chat: utterance received", "session_id", sessionID, "text", logging.ScrubPII(utterance))

	start := s.now()
	sess.Append(session.RoleUser, intent.Text(utterance), start)
	turn := s.router.RouteTurn(ctx, utterance, sess.State)
	sess.State = turn.State
	sess.Append(session.RoleAssistant, turn.Response, s.now())

	if err := s.store.Save(ctx, sess); err != nil {
		return Reply{}, fmt.Errorf("chat: save session: %w", err)
	}
	s.observe(turn.Intent, start)

	s.logger.Info("chat: turn complete",
		"session_id", sessionID,
		"intent", turn.Intent,
		"kind", turn.Response.Kind,
	)
	return Reply{SessionID: sessionID, Intent: turn.Intent, Response: turn.Response}, nil
}

// Callback asks for a call to an explicitly supplied number.
func (s *Service) Callback(ctx context.Context, sessionID, phone string) (Reply, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Reply{}, err
	}

	start := s.now()
	resp, state := s.router.RequestCallback(ctx, phone, sess.State)
	sess.State = state
	sess.Append(session.RoleAssistant, resp, s.now())

	if err := s.store.Save(ctx, sess); err != nil {
		return Reply{}, fmt.Errorf("chat: save session: %w", err)
	}
	s.observe(intent.IntentCallback, start)
	return Reply{SessionID: sessionID, Intent: intent.IntentCallback, Response: resp}, nil
}

// History returns the stored session.
func (s *Service) History(ctx context.Context, sessionID string) (session.Session, error) {
	return s.store.Load(ctx, sessionID)
}

// Reset clears a session's transcript and state while keeping its id.
func (s *Service) Reset(ctx context.Context, sessionID string) (session.Session, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	if _, err := s.store.Load(ctx, sessionID); err != nil {
		return session.Session{}, err
	}
	sess := session.New(sessionID, s.welcome, s.now())
	if err := s.store.Save(ctx, sess); err != nil {
		return session.Session{}, fmt.Errorf("chat: reset session: %w", err)
	}
	return sess, nil
}

// End deletes a session.
func (s *Service) End(ctx context.Context, sessionID string) error {
	unlock := s.lockSession(sessionID)
	defer unlock()
	return s.store.Reset(ctx, sessionID)
}

func (s *Service) lockSession(sessionID string) func() {
	s.locks.Lock(sessionID)
	return func() { _ = s.locks.Unlock(sessionID) }
}

func (s *Service) observe(in intent.Intent, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveTurnLatency(string(in), s.now().Sub(start).Seconds())
	}
}
