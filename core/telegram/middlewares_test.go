package telegram

import (
	"testing"

	coreconfig "github.com/m3rciful/ticketbot/core/config"
)

func middlewareNames(mws []Middleware) []string {
	out := make([]string, 0, len(mws))
	for _, m := range mws {
		out = append(out, m.Name)
	}
	return out
}

func TestDefaultMiddlewaresWithoutRateLimit(t *testing.T) {
	got := middlewareNames(DefaultMiddlewares(&coreconfig.Config{}, nil))
	if len(got) != 3 || got[0] != "recover" || got[1] != "logger" || got[2] != "metrics" {
		t.Fatalf("chain = %v", got)
	}
}

func TestDefaultMiddlewaresWithRateLimit(t *testing.T) {
	cfg := &coreconfig.Config{}
	cfg.RateLimit.IntervalMS = 500
	got := middlewareNames(DefaultMiddlewares(cfg, nil))
	if len(got) != 4 || got[1] != "rate_limit" {
		t.Fatalf("chain = %v", got)
	}
}
