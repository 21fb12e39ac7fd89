package bot

import (
	"fmt"
	"log/slog"

	"github.com/m3rciful/ticketbot/core/logger"
	"github.com/m3rciful/ticketbot/core/telegram/callbacks"
	"github.com/m3rciful/ticketbot/core/telegram/format"
	tghelpers "github.com/m3rciful/ticketbot/core/telegram/helpers"
	"github.com/m3rciful/ticketbot/core/telegram/keyboard"
	"github.com/m3rciful/ticketbot/internal/booking"

	tele "gopkg.in/telebot.v4"
)

// HandleList sends each of the caller's bookings as its own message with a Remove button.
func (b *Bot) HandleList(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	recs, err := b.store.List(ctx, userKey(user.ID))
	if err != nil {
		_ = tghelpers.SendText(c, booking.MsgFailure)
		return fmt.Errorf("list bookings: %w", err)
	}
	if len(recs) == 0 {
		return tghelpers.SendText(c, booking.MsgNoBookings)
	}
	for i, r := range recs {
		markup := keyboard.InlineButtons([]keyboard.InlineBtn{
			{Text: booking.MsgRemoveLabel, Data: booking.RemoveToken(r.Ref)},
		})
		if err := tghelpers.SendText(c, booking.Listing(i+1, r), markup); err != nil {
			return err
		}
	}
	return nil
}

// HandleRemove deletes the booking named by a REMOVE_<ref> press and rewrites the message.
func (b *Bot) HandleRemove(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	_ = c.Respond()

	tok, err := booking.ParseToken(callbacks.Key(c))
	if err != nil {
		return err
	}

	ctx := tghelpers.BuildContext(c)
	n, err := b.store.Remove(ctx, userKey(user.ID), tok.Ref)
	if err != nil {
		_ = tghelpers.SendText(c, booking.MsgFailure)
		return fmt.Errorf("remove booking %s: %w", tok.Ref, err)
	}
	status := "ok"
	if n == 0 {
		status = "skip"
	}
	logger.LogEvent(ctx, logger.Booking, slog.LevelInfo, "booking.removed",
		slog.String("status", status),
		slog.String("ref", tok.Ref),
		slog.Int("count", n),
	)
	return tghelpers.EditText(c, booking.Removed(tok.Ref, n), nil)
}

// HandleStats reports store totals to the admin.
func (b *Bot) HandleStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	all, err := b.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	text := fmt.Sprintf("*Stats*\n%s\n%s\n%s",
		format.MustEscapeV2(fmt.Sprintf("Users: %d", len(all.Users()))),
		format.MustEscapeV2(fmt.Sprintf("Bookings: %d", all.Count())),
		format.MustEscapeV2(fmt.Sprintf("Active conversations: %d", b.sessions.Len())),
	)
	return tghelpers.SendMDV2(c, text)
}
