package middleware

import (
	"log/slog"
	"time"

	"github.com/m3rciful/ticketbot/core/logger"
	"github.com/m3rciful/ticketbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/ticketbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// LoggerMiddleware stores the update context (rid, ids, logger) and logs one
// sampled update.received line. The bot-wide chain and the per-route wrappers
// both use it; only the first pass for an update does any work.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if _, seen := tghelpers.ContextFrom(c); seen {
			return next(c)
		}

		upd := c.Update()
		var chatID, userID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		user := c.Sender()
		if user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())

		ctx := logger.WithRID(logger.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		tghelpers.StoreContext(c, ctx)

		if logger.ShouldSampleDebug() {
			logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", receiptAttrs(c, upd, user)...)
		}
		return next(c)
	}
}

func receiptAttrs(c tele.Context, upd tele.Update, user *tele.User) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("status", "ok"),
		slog.String("kind", UpdateKind(upd)),
	}
	if user != nil && user.LanguageCode != "" {
		attrs = append(attrs, slog.String("lang", user.LanguageCode))
	}
	switch {
	case upd.Callback != nil:
		key, payload := callbacks.Parse(upd.Callback)
		if key != "" {
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
		}
		if payload != "" {
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
		}
	case upd.Message != nil:
		// Free text is never logged verbatim.
		if t := c.Text(); t != "" {
			attrs = append(attrs, slog.Int("text_len", len([]rune(t))))
		}
	}
	return attrs
}
