package state

import (
	"time"

	tele "gopkg.in/telebot.v4"
)

// State identifies a finite-state-machine step used in conversations.
type State string

// StateIdle indicates there is no active conversation with the user.
const StateIdle State = ""

// Session stores conversation state and its payload for a user.
type Session[T any] struct {
	ConversationID string
	State          State
	Data           T
	UpdatedAt      time.Time
}

// Active reports whether the session is inside a conversation.
func (s Session[T]) Active() bool {
	return s.State != StateIdle
}

// Handler processes an update for a user whose session is in a registered state.
// The session is a copy; persist changes through Manager.Put.
type Handler[T any] func(c tele.Context, s Session[T]) error
