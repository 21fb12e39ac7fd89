package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Parse splits callback data into key and payload.
// Buttons built with a unique name arrive with cb.Unique already set by telebot;
// raw tokens such as "DAY_2025-06-15" arrive whole in cb.Data and become the key.
func Parse(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	key, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(key), payload
}

// Key returns the routing key of the current callback.
func Key(c tele.Context) string {
	key, _ := Parse(c.Callback())
	return key
}

// Payload returns the part after '|' for unique-style callbacks.
func Payload(c tele.Context) string {
	_, payload := Parse(c.Callback())
	return payload
}

// Data returns the raw callback data with surrounding whitespace removed.
func Data(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		if cb.Data == "" {
			return cb.Unique
		}
		return cb.Unique + "|" + cb.Data
	}
	return strings.TrimSpace(strings.TrimPrefix(cb.Data, "\f"))
}
