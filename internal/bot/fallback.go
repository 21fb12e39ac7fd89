package bot

import (
	"strings"

	tghelpers "github.com/m3rciful/ticketbot/core/telegram/helpers"
	"github.com/m3rciful/ticketbot/core/telegram/ui"
	"github.com/m3rciful/ticketbot/internal/booking"

	tele "gopkg.in/telebot.v4"
)

// Fallbacks answers updates nothing else claimed.
type Fallbacks struct{}

var _ ui.FallbackProvider = Fallbacks{}

// UnknownText nudges users toward /start, or flags an unknown command.
func (Fallbacks) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		if strings.HasPrefix(c.Text(), "/") {
			return tghelpers.SendText(c, booking.MsgUnknownCommand)
		}
		return tghelpers.SendText(c, booking.MsgStartFirst)
	}
}

// UnknownDocument rejects files and media.
func (Fallbacks) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, booking.MsgTextOnly)
	}
}

// UnknownCallback acknowledges presses on buttons nobody handles.
func (Fallbacks) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: booking.MsgStartFirst})
	}
}

// RateLimited tells the user to slow down.
func (Fallbacks) RateLimited() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, booking.MsgRateLimited)
	}
}

// AdminRejected hides admin commands from everyone else.
func (Fallbacks) AdminRejected() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, booking.MsgUnknownCommand)
	}
}
