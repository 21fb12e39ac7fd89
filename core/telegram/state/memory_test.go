package state

import (
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

type draft struct{ City string }

type ctxStub struct {
	tele.Context
	store map[string]any
}

func (c *ctxStub) Sender() *tele.User { return &tele.User{ID: 1} }
func (c *ctxStub) Chat() *tele.Chat { return &tele.Chat{ID: 1} }
func (c *ctxStub) Update() tele.Update { return tele.Update{ID: 1} }
func (c *ctxStub) Get(k string) any { return c.store[k] }
func (c *ctxStub) Set(k string, v any) { c.store[k] = v }

func TestManagerLifecycle(t *testing.T) {
	m := NewManager[draft]()
	if m.InProgress(1) {
		t.Fatal("fresh manager should be idle")
	}
	s := m.Start(1, "DEPARTURE", draft{})
	if s.ConversationID == "" {
		t.Fatal("expected conversation id")
	}
	s.Data.City = "Paris"
	s.State = "ARRIVAL"
	m.Put(1, s)

	got, ok := m.Get(1)
	if !ok || got.State != "ARRIVAL" || got.Data.City != "Paris" {
		t.Fatalf("session = %+v", got)
	}
	if got.ConversationID != s.ConversationID {
		t.Fatal("conversation id changed")
	}

	got.State = StateIdle
	m.Put(1, got)
	if m.InProgress(1) || m.Len() != 0 {
		t.Fatal("idle put should clear the session")
	}
}

func TestManagerRestartReplacesConversation(t *testing.T) {
	m := NewManager[draft]()
	first := m.Start(1, "DEPARTURE", draft{City: "x"})
	second := m.Start(1, "DEPARTURE", draft{})
	if first.ConversationID == second.ConversationID {
		t.Fatal("expected a fresh conversation id")
	}
	got, _ := m.Get(1)
	if got.Data.City != "" {
		t.Fatalf("draft not reset: %+v", got.Data)
	}
}

func TestManagerExpire(t *testing.T) {
	m := NewManager[draft]()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	m.Start(1, "DEPARTURE", draft{})
	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	m.Start(2, "DEPARTURE", draft{})
	if n := m.Expire(time.Hour); n != 1 {
		t.Fatalf("expired %d", n)
	}
	if m.InProgress(1) || !m.InProgress(2) {
		t.Fatal("wrong session expired")
	}
}

func TestManagerHandlerDispatchesByState(t *testing.T) {
	m := NewManager[draft]()
	var seen []State
	m.Handle("DEPARTURE", func(_ tele.Context, s Session[draft]) error {
		seen = append(seen, s.State)
		return nil
	})
	m.HandleDefault(func(_ tele.Context, s Session[draft]) error {
		seen = append(seen, "default:"+s.State)
		return nil
	})
	c := &ctxStub{store: map[string]any{}}

	if err := m.ManagerHandler(c); err != nil {
		t.Fatalf("idle: %v", err)
	}
	m.Start(1, "DEPARTURE", draft{})
	_ = m.ManagerHandler(c)
	m.Start(1, "CONFIRM", draft{})
	_ = m.ManagerHandler(c)

	if len(seen) != 2 || seen[0] != "DEPARTURE" || seen[1] != "default:CONFIRM" {
		t.Fatalf("seen = %v", seen)
	}
}
