package router

import (
	"log/slog"
	"time"

	tg "github.com/m3rciful/ticketbot/core/telegram"
	"github.com/m3rciful/ticketbot/core/telegram/callbacks"
	"github.com/m3rciful/ticketbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
	// Answer acknowledges every callback before dispatch so the client stops its spinner.
	// Handlers that need a custom answer text leave it false and respond themselves.
	Answer bool
}

// CallbackRoute returns a handler that routes callbacks through the registry.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		key, _ := callbacks.Parse(c.Callback())
		name := "callback." + normalizeHandlerName(callbackFamily(key))
		extras := []slog.Attr{slog.String("cb_key", key)}

		if opts.Answer {
			_ = c.Respond()
		}

		cbHandler, ok := reg.GetCallback(key)
		if !ok || cbHandler == nil {
			fallback := reg.CallbackNotFound()
			if fallback == nil {
				fallback = opts.NotFound
			}
			return handleWithSummary(c, name, start, "skip", "", func() error {
				if fallback != nil {
					return fallback(c)
				}
				return nil
			}, extras...)
		}

		return handleWithSummary(c, name, start, "", "", func() error {
			return cbHandler(c)
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

// callbackFamily trims the variable part of prefixed tokens ("DAY_2025-06-15" -> "DAY")
// so handler names stay low-cardinality.
func callbackFamily(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == '_' {
			return key[:i]
		}
	}
	return key
}
