package netutil

import (
	"context"
	"errors"
	"net"
	"net/url"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func TestShouldRetry(t *testing.T) {
	dial := &net.OpError{Op: "dial", Err: errors.New("refused")}
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("bad request"), false},
		{"dial", dial, true},
		{"wrapped dial", &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: dial}, true},
		{"flood", tele.FloodError{RetryAfter: 3}, true},
		{"deadline", context.DeadlineExceeded, true},
	}
	for _, tc := range cases {
		if got := ShouldRetry(tc.err); got != tc.want {
			t.Fatalf("%s: ShouldRetry = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestBackoff(t *testing.T) {
	if got := Backoff(errors.New("x"), time.Second, 3); got != 3*time.Second {
		t.Fatalf("Backoff linear = %v", got)
	}
	if got := Backoff(tele.FloodError{RetryAfter: 7}, time.Second, 1); got != 7*time.Second {
		t.Fatalf("Backoff flood = %v", got)
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("Sleep err = %v", err)
	}
}
