package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/ticketbot/core/logger"
	coretelegram "github.com/m3rciful/ticketbot/core/telegram"
	"github.com/m3rciful/ticketbot/core/telegram/commands"
	"github.com/m3rciful/ticketbot/core/telegram/router"
	"github.com/m3rciful/ticketbot/internal/app"
	"github.com/m3rciful/ticketbot/internal/booking"
)

// sweepEvery is how often idle conversations are expired when a TTL is set.
const sweepEvery = time.Minute

// App wires the booking bot into the Telegram runtime.
type App struct {
	cfg       *app.Config
	bot       *Bot
	fallbacks Fallbacks
}

// NewApp builds the application around store.
func NewApp(cfg *app.Config, store booking.Store, opts ...Option) *App {
	return &App{
		cfg: cfg,
		bot: New(store, cfg.Booking.Airlines, opts...),
	}
}

// Registry declares commands and callback routes.
func (a *App) Registry() *coretelegram.Registry {
	reg := coretelegram.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.bot.HandleStart,
		Description: "Start a new booking",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.bot.HandleCancel,
		Description: "Cancel the current booking",
	})
	reg.RegisterCommand("/booking", commands.Command{
		Handler:     a.bot.HandleList,
		Description: "Show your bookings",
		Aliases:     []string{"bookings"},
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.bot.HandleStats,
		Description: "Booking totals",
		AdminOnly:   true,
		Hidden:      true,
	})

	for _, action := range []booking.Action{booking.ActionDay, booking.ActionPrev, booking.ActionNext} {
		_ = reg.RegisterCallbackPrefix(booking.Prefix(action), a.bot.HandleCalendar)
	}
	_ = reg.RegisterCallback(booking.TokenIgnore, a.bot.HandleCalendar)
	_ = reg.RegisterCallbackPrefix(booking.Prefix(booking.ActionRemove), a.bot.HandleRemove)
	reg.SetCallbackNotFound(a.fallbacks.UnknownCallback())
	return reg
}

// TelegramRunOptions assembles routes, middlewares and lifecycle hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := a.cfg.CoreConfig()
	reg := a.Registry()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       core.Telegram.AdminID,
		OnAdminReject: a.fallbacks.AdminRejected(),
	})
	routes = append(routes, router.TextRoutes(a.bot.Sessions(), reg, router.TextOptions{
		UnknownText:     a.fallbacks.UnknownText(),
		UnknownDocument: a.fallbacks.UnknownDocument(),
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: a.fallbacks.UnknownCallback(),
	}))

	return coretelegram.RunOptions{
		Config:         core,
		Registry:       reg,
		Middlewares:    coretelegram.DefaultMiddlewares(core, a.fallbacks.RateLimited()),
		Routes:         routes,
		AllowedUpdates: []string{"message", "callback_query"},
		OnStart:        a.onStart,
	}, nil
}

func (a *App) onStart(ctx context.Context, _ coretelegram.Runtime) error {
	ttl := a.cfg.SessionTTL()
	if ttl <= 0 {
		return nil
	}
	go a.sweepSessions(ctx, ttl)
	return nil
}

// sweepSessions expires idle conversations until ctx is done.
func (a *App) sweepSessions(ctx context.Context, ttl time.Duration) {
	ticker := time.NewTicker(min(ttl, sweepEvery))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.bot.Sessions().Expire(ttl); n > 0 {
				logger.LogEvent(ctx, logger.Booking, slog.LevelInfo, "booking.expired",
					slog.String("status", "ok"),
					slog.Int("count", n),
					slog.Duration("ttl", ttl),
				)
			}
		}
	}
}
