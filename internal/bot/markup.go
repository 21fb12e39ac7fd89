package bot

import (
	"github.com/m3rciful/ticketbot/core/telegram/keyboard"
	"github.com/m3rciful/ticketbot/internal/booking"

	tele "gopkg.in/telebot.v4"
)

// markupFor converts a transport-neutral keyboard into telebot markup.
func markupFor(kb *booking.Keyboard) *tele.ReplyMarkup {
	switch {
	case kb == nil:
		return nil
	case kb.Remove:
		return keyboard.RemoveKeyboard()
	case len(kb.Inline) > 0:
		return inlineMarkup(kb.Inline)
	case len(kb.Reply) > 0:
		if kb.OneTime {
			return keyboard.OneTimeButtons(kb.Reply...)
		}
		return keyboard.ReplyButtons(kb.Reply...)
	}
	return nil
}

func inlineMarkup(rows [][]booking.Button) *tele.ReplyMarkup {
	out := make([][]keyboard.InlineBtn, len(rows))
	for i, row := range rows {
		out[i] = make([]keyboard.InlineBtn, len(row))
		for j, btn := range row {
			out[i][j] = keyboard.InlineBtn{Text: btn.Label, Data: btn.Token}
		}
	}
	return keyboard.InlineButtonsRows(out...)
}
