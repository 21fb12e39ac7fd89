// Package bot connects the booking dialog to Telegram: it turns updates into
// booking events, runs them through the machine and performs the effects.
package bot

import (
	"strconv"
	"time"

	"github.com/m3rciful/ticketbot/core/telegram/state"
	"github.com/m3rciful/ticketbot/internal/booking"
)

// Bot owns the per-user sessions and the booking store.
type Bot struct {
	store    booking.Store
	machine  *booking.Machine
	sessions *state.Manager[booking.Draft]
	now      func() time.Time
}

// Option customises a Bot.
type Option func(*Bot)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Bot) {
		if now != nil {
			b.now = now
		}
	}
}

// New builds a bot persisting to store and offering airlines.
func New(store booking.Store, airlines []string, opts ...Option) *Bot {
	b := &Bot{
		store:    store,
		machine:  booking.NewMachine(airlines),
		sessions: state.NewManager[booking.Draft](),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.sessions.HandleDefault(b.onConversationText)
	return b
}

// Sessions exposes the conversation table for routing and housekeeping.
func (b *Bot) Sessions() *state.Manager[booking.Draft] {
	return b.sessions
}

func userKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
