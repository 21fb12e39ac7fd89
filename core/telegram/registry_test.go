package telegram

import (
	"testing"

	"github.com/m3rciful/ticketbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryCallbackPrefixMatching(t *testing.T) {
	reg := NewRegistry()
	hits := map[string]int{}
	mk := func(name string) tele.HandlerFunc {
		return func(tele.Context) error { hits[name]++; return nil }
	}
	if err := reg.RegisterCallback("IGNORE", mk("ignore")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallbackPrefix("DAY_", mk("day")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallbackPrefix("D", mk("short")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallbackPrefix("DAY_", noop); err == nil {
		t.Fatal("expected duplicate prefix error")
	}

	for _, key := range []string{"IGNORE", "DAY_2025-06-15", "DONE"} {
		h, ok := reg.GetCallback(key)
		if !ok {
			t.Fatalf("no handler for %s", key)
		}
		_ = h(nil)
	}
	if hits["ignore"] != 1 || hits["day"] != 1 || hits["short"] != 1 {
		t.Fatalf("hits = %v", hits)
	}
	if _, ok := reg.GetCallback("REMOVE_1"); ok {
		t.Fatal("unexpected match")
	}

	got := reg.ListCallbacks()
	want := []string{"D*", "DAY_*", "IGNORE"}
	if len(got) != len(want) {
		t.Fatalf("ListCallbacks = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ListCallbacks = %v", got)
		}
	}
}

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start booking"})
	reg.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "Stats", AdminOnly: true, Hidden: true})
	reg.RegisterCommand("/booking", commands.Command{Handler: noop, Description: "List bookings", Aliases: []string{"bookings"}})
	reg.RegisterCommand("nope", commands.Command{Handler: noop, Description: "x"})

	if len(reg.Commands()) != 3 {
		t.Fatalf("commands = %d", len(reg.Commands()))
	}
	visible := reg.ListCommands(true)
	if len(visible) != 2 || visible[0].Text != "/booking" || visible[1].Text != "/start" {
		t.Fatalf("visible = %+v", visible)
	}
	key, _, ok := reg.LookupCommand("bookings")
	if !ok || key != "/booking" {
		t.Fatalf("LookupCommand alias = %q %v", key, ok)
	}
}

type commandRecorder struct{ got []tele.Command }

func (r *commandRecorder) SetCommands(opts ...any) error {
	for _, o := range opts {
		if cmds, ok := o.([]tele.Command); ok {
			r.got = append(r.got, cmds...)
		}
	}
	return nil
}

func TestInitBotCommandsPublishesVisible(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/cancel", commands.Command{Handler: noop, Description: "Cancel"})
	reg.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "Stats", AdminOnly: true})
	rec := &commandRecorder{}
	InitBotCommands(rec, reg)
	if len(rec.got) != 1 || rec.got[0].Text != "/cancel" {
		t.Fatalf("published = %+v", rec.got)
	}
}
