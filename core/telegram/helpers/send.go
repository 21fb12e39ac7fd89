package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/ticketbot/core/logger"
	"github.com/m3rciful/ticketbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := globalDispatcher.Load()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendText sends raw text (no parse mode) with an optional reply markup.
func SendText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	var rm *tele.ReplyMarkup
	if len(markup) > 0 {
		rm = markup[0]
	}
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if rm != nil {
			return c.Send(text, rm)
		}
		return c.Send(text)
	})
}

// SendMDV2 sends a message with MarkdownV2 parse mode and optional reply markup.
func SendMDV2(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	var rm *tele.ReplyMarkup
	if len(markup) > 0 {
		rm = markup[0]
	}
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdownV2, ReplyMarkup: rm}
	return sendAsync(c, "send.mdv2", "sendMessage", func() error {
		return c.Send(text, opts)
	})
}

// EditText replaces the text of the message the callback came from.
// A nil markup drops the inline keyboard.
func EditText(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	return sendAsync(c, "edit.text", "editMessageText", func() error {
		if markup != nil {
			return c.Edit(text, markup)
		}
		return c.Edit(text)
	})
}

// EditMarkup swaps the inline keyboard of the message the callback came from.
func EditMarkup(c tele.Context, markup *tele.ReplyMarkup) error {
	return sendAsync(c, "edit.markup", "editMessageReplyMarkup", func() error {
		return c.Edit(markup)
	})
}
