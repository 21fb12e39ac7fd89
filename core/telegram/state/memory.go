package state

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/ticketbot/core/logger"
	tghelpers "github.com/m3rciful/ticketbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Manager is an in-memory, mutex-guarded session table keyed by Telegram user id.
type Manager[T any] struct {
	mu       sync.RWMutex
	sessions map[int64]Session[T]
	handlers map[State]Handler[T]
	fallback Handler[T]
	now      func() time.Time
}

// NewManager constructs an empty Manager.
func NewManager[T any]() *Manager[T] {
	return &Manager[T]{
		sessions: make(map[int64]Session[T]),
		handlers: make(map[State]Handler[T]),
		now:      time.Now,
	}
}

// Start opens a new conversation for the user, replacing any previous one.
func (m *Manager[T]) Start(userID int64, st State, data T) Session[T] {
	s := Session[T]{
		ConversationID: uuid.NewString(),
		State:          st,
		Data:           data,
		UpdatedAt:      m.now(),
	}
	m.mu.Lock()
	m.sessions[userID] = s
	m.mu.Unlock()
	return s
}

// Get returns the user's session and whether one exists.
func (m *Manager[T]) Get(userID int64) (Session[T], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Put stores the session as the user's current one. An idle session clears it.
func (m *Manager[T]) Put(userID int64, s Session[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !s.Active() {
		delete(m.sessions, userID)
		return
	}
	s.UpdatedAt = m.now()
	m.sessions[userID] = s
}

// Clear removes the user's session.
func (m *Manager[T]) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// GetState returns the user's current state, or StateIdle.
func (m *Manager[T]) GetState(userID int64) State {
	s, _ := m.Get(userID)
	return s.State
}

// InProgress reports whether the user currently has an active conversation.
func (m *Manager[T]) InProgress(userID int64) bool {
	return m.GetState(userID) != StateIdle
}

// Len returns the number of active sessions.
func (m *Manager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Expire drops sessions untouched for longer than ttl and returns how many were removed.
func (m *Manager[T]) Expire(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Handle registers the handler for a state.
func (m *Manager[T]) Handle(st State, h Handler[T]) {
	if h == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[st] = h
}

// HandleDefault registers the handler used for active states without their own handler.
func (m *Manager[T]) HandleDefault(h Handler[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = h
}

// ManagerHandler executes the handler registered for the user's current state, if any.
func (m *Manager[T]) ManagerHandler(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	s, ok := m.Get(user.ID)
	if !ok {
		return nil
	}

	ctx := tghelpers.WithConversation(c, s.ConversationID)
	logger.Debug(ctx, "tg", "fsm.manager",
		slog.String("status", "ok"),
		slog.String("state", string(s.State)),
	)

	m.mu.RLock()
	h, found := m.handlers[s.State]
	if !found {
		h = m.fallback
	}
	m.mu.RUnlock()
	if h == nil {
		return nil
	}
	return h(c, s)
}
