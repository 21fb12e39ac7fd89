package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/ticketbot/core/logger"
	"github.com/m3rciful/ticketbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/ticketbot/core/telegram/helpers"
	"github.com/m3rciful/ticketbot/core/telegram/state"
	"github.com/m3rciful/ticketbot/internal/booking"

	tele "gopkg.in/telebot.v4"
)

// errPersist marks a failed EffectPersist; the effects after it are skipped.
var errPersist = errors.New("persist booking")

// HandleStart opens a new conversation, dropping any unfinished one.
func (b *Bot) HandleStart(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	s := b.sessions.Start(user.ID, state.StateIdle, booking.Draft{})
	return b.advance(c, s, booking.Event{Kind: booking.EventStart})
}

// HandleCancel ends the user's conversation. Without one it does nothing.
func (b *Bot) HandleCancel(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	s, _ := b.sessions.Get(user.ID)
	return b.advance(c, s, booking.Event{Kind: booking.EventCancel})
}

// HandleCalendar processes DAY_, PREV_, NEXT_ and IGNORE presses.
func (b *Bot) HandleCalendar(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	s, _ := b.sessions.Get(user.ID)
	return b.advance(c, s, booking.Event{Kind: booking.EventCallback, Token: callbacks.Key(c)})
}

// onConversationText receives free text while a conversation is active.
func (b *Bot) onConversationText(c tele.Context, s state.Session[booking.Draft]) error {
	text := c.Text()
	if strings.HasPrefix(text, "/") {
		return tghelpers.SendText(c, booking.MsgUnknownCommand)
	}
	return b.advance(c, s, booking.Event{Kind: booking.EventText, Text: text})
}

// advance runs one event through the machine, performs its effects and stores the outcome.
func (b *Bot) advance(c tele.Context, s state.Session[booking.Draft], ev booking.Event) error {
	start := time.Now()
	user := c.Sender()
	if ev.Now.IsZero() {
		ev.Now = b.now()
	}
	ctx := tghelpers.WithConversation(c, s.ConversationID)

	from := booking.State(s.State)
	tr, stepErr := b.machine.Step(from, ev, s.Data)
	applyErr := b.apply(ctx, c, user.ID, tr.Effects)

	switch {
	case errors.Is(applyErr, errPersist):
		b.sessions.Clear(user.ID)
		_ = tghelpers.SendText(c, booking.MsgFailure, markupFor(&booking.Keyboard{Remove: true}))
	case tr.Ended():
		b.sessions.Clear(user.ID)
	default:
		s.State = state.State(tr.Next)
		s.Data = tr.Draft
		b.sessions.Put(user.ID, s)
	}

	err := errors.Join(stepErr, applyErr)
	status := "ok"
	if err != nil {
		status = "fail"
	}
	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("cause", ev.Kind.String()),
		slog.String("from", string(from)),
		slog.String("to", string(tr.Next)),
		slog.Int("effects", len(tr.Effects)),
		slog.Duration("duration", time.Since(start)),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	logger.LogEvent(ctx, logger.Booking, slog.LevelDebug, "booking.step", attrs...)

	if err != nil {
		return fmt.Errorf("booking %s: %w", ev.Kind, err)
	}
	return nil
}

// apply performs effects in order. A persistence failure stops the run so the
// confirmation is never sent for a booking that was not stored.
func (b *Bot) apply(ctx context.Context, c tele.Context, userID int64, effects []booking.Effect) error {
	var errs []error
	for _, e := range effects {
		switch e.Kind {
		case booking.EffectReply:
			errs = append(errs, tghelpers.SendText(c, e.Text, markupFor(e.Keyboard)))
		case booking.EffectEditText:
			errs = append(errs, tghelpers.EditText(c, e.Text, markupFor(e.Keyboard)))
		case booking.EffectEditMarkup:
			errs = append(errs, tghelpers.EditMarkup(c, markupFor(e.Keyboard)))
		case booking.EffectAnswer:
			errs = append(errs, c.Respond())
		case booking.EffectPersist:
			if e.Record == nil {
				continue
			}
			if err := b.store.Append(ctx, userKey(userID), *e.Record); err != nil {
				logger.LogEvent(ctx, logger.Booking, slog.LevelError, "booking.confirmed",
					slog.String("status", "fail"),
					slog.String("ref", e.Record.Ref),
					slog.String("err", err.Error()),
				)
				return fmt.Errorf("%w: %w", errPersist, err)
			}
			logger.LogEvent(ctx, logger.Booking, slog.LevelInfo, "booking.confirmed",
				slog.String("status", "ok"),
				slog.String("ref", e.Record.Ref),
				slog.String("airline", e.Record.Airline),
			)
		}
	}
	return errors.Join(errs...)
}
