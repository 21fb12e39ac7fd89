package bot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ticketbot/core/telegram/state"
	"github.com/m3rciful/ticketbot/internal/app"
	"github.com/m3rciful/ticketbot/internal/booking"

	tele "gopkg.in/telebot.v4"
)

type sent struct {
	text   string
	markup *tele.ReplyMarkup
	opts   *tele.SendOptions
}

type fakeContext struct {
	tele.Context
	user      *tele.User
	text      string
	cb        *tele.Callback
	store     map[string]any
	sends     []sent
	edits     []sent
	responses int
}

func newContext(userID int64) *fakeContext {
	return &fakeContext{user: &tele.User{ID: userID}, store: map[string]any{}}
}

func (f *fakeContext) withText(text string) *fakeContext {
	f.text, f.cb = text, nil
	return f
}

func (f *fakeContext) withCallback(data string) *fakeContext {
	f.text, f.cb = "", &tele.Callback{Data: data}
	return f
}

func (f *fakeContext) Sender() *tele.User        { return f.user }
func (f *fakeContext) Chat() *tele.Chat          { return &tele.Chat{ID: f.user.ID} }
func (f *fakeContext) Text() string              { return f.text }
func (f *fakeContext) Callback() *tele.Callback  { return f.cb }
func (f *fakeContext) Update() tele.Update       { return tele.Update{ID: 1, Callback: f.cb} }
func (f *fakeContext) Get(key string) any        { return f.store[key] }
func (f *fakeContext) Set(key string, value any) { f.store[key] = value }

func (f *fakeContext) Respond(...*tele.CallbackResponse) error {
	f.responses++
	return nil
}

func (f *fakeContext) Send(what any, opts ...any) error {
	f.sends = append(f.sends, record(what, opts))
	return nil
}

func (f *fakeContext) Edit(what any, opts ...any) error {
	f.edits = append(f.edits, record(what, opts))
	return nil
}

func record(what any, opts []any) sent {
	var s sent
	switch v := what.(type) {
	case string:
		s.text = v
	case *tele.ReplyMarkup:
		s.markup = v
	}
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.ReplyMarkup:
			s.markup = v
		case *tele.SendOptions:
			s.opts = v
		}
	}
	return s
}

func (f *fakeContext) lastSend(t *testing.T) sent {
	t.Helper()
	require.NotEmpty(t, f.sends)
	return f.sends[len(f.sends)-1]
}

type failingStore struct {
	booking.Store
}

func (failingStore) Append(context.Context, string, booking.Record) error {
	return errors.New("disk full")
}

var fixedNow = time.Date(2025, time.June, 1, 9, 30, 15, 0, time.UTC)

func newTestBot(t *testing.T, store booking.Store) *Bot {
	t.Helper()
	if store == nil {
		store = booking.NewFileStore(filepath.Join(t.TempDir(), "bookings.json"))
	}
	return New(store, nil, WithClock(func() time.Time { return fixedNow }))
}

func say(t *testing.T, b *Bot, c *fakeContext, text string) {
	t.Helper()
	require.NoError(t, b.Sessions().ManagerHandler(c.withText(text)))
}

func TestConversationBooksTicket(t *testing.T) {
	store := booking.NewFileStore(filepath.Join(t.TempDir(), "bookings.json"))
	b := newTestBot(t, store)
	c := newContext(42)

	require.NoError(t, b.HandleStart(c.withText("/start")))
	assert.Equal(t, booking.MsgWelcome, c.lastSend(t).text)
	assert.True(t, c.lastSend(t).markup.RemoveKeyboard)

	say(t, b, c, "Paris")
	say(t, b, c, "Tokyo")
	cal := c.lastSend(t)
	assert.Equal(t, booking.MsgAskDate, cal.text)
	require.NotNil(t, cal.markup)
	assert.Equal(t, "June 2025", cal.markup.InlineKeyboard[0][0].Text)

	require.NoError(t, b.HandleCalendar(c.withCallback("DAY_2025-06-15")))
	assert.Equal(t, 1, c.responses)
	require.Len(t, c.edits, 1)
	assert.Equal(t, "Selected date: 2025-06-15", c.edits[0].text)
	assert.Nil(t, c.edits[0].markup)
	airlines := c.lastSend(t)
	assert.True(t, airlines.markup.OneTimeKeyboard)
	assert.Len(t, airlines.markup.ReplyKeyboard, len(booking.DefaultAirlines))

	say(t, b, c, "Emirates")
	assert.Contains(t, c.lastSend(t).text, "Airline: Emirates")
	say(t, b, c, "yes")
	assert.Equal(t, booking.Confirmed("20250601093015"), c.lastSend(t).text)

	assert.Equal(t, state.StateIdle, b.Sessions().GetState(42))
	recs, err := store.List(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, []booking.Record{{
		Ref: "20250601093015", Departure: "Paris", Arrival: "Tokyo", Date: "2025-06-15", Airline: "Emirates",
	}}, recs)
}

func TestConversationDeclineStoresNothing(t *testing.T) {
	store := booking.NewFileStore(filepath.Join(t.TempDir(), "bookings.json"))
	b := newTestBot(t, store)
	c := newContext(7)

	require.NoError(t, b.HandleStart(c))
	say(t, b, c, "A")
	say(t, b, c, "B")
	require.NoError(t, b.HandleCalendar(c.withCallback("DAY_2025-06-20")))
	say(t, b, c, "Qatar Airways")
	say(t, b, c, "no")

	assert.Equal(t, booking.MsgCancelled, c.lastSend(t).text)
	all, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, all.Count())
}

func TestPersistFailureSkipsConfirmation(t *testing.T) {
	b := newTestBot(t, failingStore{})
	c := newContext(9)
	b.Sessions().Put(9, state.Session[booking.Draft]{
		ConversationID: "conv",
		State:          state.State(booking.StateConfirm),
		Data:           booking.Draft{Departure: "A", Arrival: "B", Date: "2025-06-15", Airline: "X"},
	})

	err := b.Sessions().ManagerHandler(c.withText("Yes"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errPersist)
	assert.Contains(t, err.Error(), "disk full")

	require.Len(t, c.sends, 1)
	assert.Equal(t, booking.MsgFailure, c.sends[0].text)
	assert.False(t, b.Sessions().InProgress(9))
}

func TestCancelEndsConversation(t *testing.T) {
	b := newTestBot(t, nil)
	c := newContext(3)

	require.NoError(t, b.HandleCancel(c.withText("/cancel")))
	assert.Empty(t, c.sends, "cancel without a conversation is silent")

	require.NoError(t, b.HandleStart(c))
	say(t, b, c, "Paris")
	require.NoError(t, b.HandleCancel(c.withText("/cancel")))
	assert.Equal(t, booking.MsgCancelled, c.lastSend(t).text)
	assert.False(t, b.Sessions().InProgress(3))
}

func TestMalformedCalendarTokenKeepsState(t *testing.T) {
	b := newTestBot(t, nil)
	c := newContext(5)
	require.NoError(t, b.HandleStart(c))
	say(t, b, c, "A")
	say(t, b, c, "B")

	err := b.HandleCalendar(c.withCallback("NEXT_2025_x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, booking.ErrMalformedToken)
	assert.Equal(t, 1, c.responses)
	assert.Equal(t, state.State(booking.StateDate), b.Sessions().GetState(5))

	require.NoError(t, b.HandleCalendar(c.withCallback("NEXT_2025_7")))
	require.Len(t, c.edits, 1)
	assert.Equal(t, "July 2025", c.edits[0].markup.InlineKeyboard[0][0].Text)
}

func TestSlashTextInsideConversationIsNotInput(t *testing.T) {
	b := newTestBot(t, nil)
	c := newContext(6)
	require.NoError(t, b.HandleStart(c))

	say(t, b, c, "/unknown")
	assert.Equal(t, booking.MsgUnknownCommand, c.lastSend(t).text)
	assert.Equal(t, state.State(booking.StateDeparture), b.Sessions().GetState(6))
}

func TestListAndRemoveBookings(t *testing.T) {
	ctx := context.Background()
	store := booking.NewFileStore(filepath.Join(t.TempDir(), "bookings.json"))
	require.NoError(t, store.Append(ctx, "8", booking.Record{Ref: "20250101000001", Departure: "A", Arrival: "B"}))
	require.NoError(t, store.Append(ctx, "8", booking.Record{Ref: "20250101000002", Departure: "C", Arrival: "D"}))
	b := newTestBot(t, store)
	c := newContext(8)

	require.NoError(t, b.HandleList(c.withText("/booking")))
	require.Len(t, c.sends, 2)
	assert.Contains(t, c.sends[1].text, "Booking #2 (Ref: 20250101000002)")
	btn := c.sends[0].markup.InlineKeyboard[0][0]
	assert.Equal(t, booking.MsgRemoveLabel, btn.Text)
	assert.Equal(t, "REMOVE_20250101000001", btn.Data)

	require.NoError(t, b.HandleRemove(c.withCallback(btn.Data)))
	require.Len(t, c.edits, 1)
	assert.Equal(t, booking.Removed("20250101000001", 1), c.edits[0].text)

	require.NoError(t, b.HandleRemove(c.withCallback(btn.Data)))
	assert.Equal(t, booking.Removed("20250101000001", 0), c.edits[1].text)

	recs, err := store.List(ctx, "8")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "20250101000002", recs[0].Ref)
}

func TestListWithoutBookings(t *testing.T) {
	b := newTestBot(t, nil)
	c := newContext(1)
	require.NoError(t, b.HandleList(c.withText("/booking")))
	assert.Equal(t, booking.MsgNoBookings, c.lastSend(t).text)
}

func TestStatsUsesMarkdownV2(t *testing.T) {
	ctx := context.Background()
	store := booking.NewFileStore(filepath.Join(t.TempDir(), "bookings.json"))
	require.NoError(t, store.Append(ctx, "1", booking.Record{Ref: "r"}))
	b := newTestBot(t, store)
	c := newContext(1)

	require.NoError(t, b.HandleStats(c))
	msg := c.lastSend(t)
	require.NotNil(t, msg.opts)
	assert.Equal(t, tele.ModeMarkdownV2, msg.opts.ParseMode)
	assert.Equal(t, "*Stats*\nUsers: 1\nBookings: 1\nActive conversations: 0", msg.text)
}

func TestRegistryRoutesTokens(t *testing.T) {
	a := NewApp(&app.Config{}, booking.NewFileStore(filepath.Join(t.TempDir(), "b.json")))
	reg := a.Registry()

	for _, key := range []string{"DAY_2025-06-15", "PREV_2025_6", "NEXT_2025_8", "IGNORE", "REMOVE_1"} {
		h, ok := reg.GetCallback(key)
		assert.True(t, ok, key)
		assert.NotNil(t, h, key)
	}
	_, ok := reg.GetCallback("BOGUS")
	assert.False(t, ok)

	var listed []string
	for _, cmd := range reg.ListCommands(true) {
		listed = append(listed, cmd.Text)
	}
	assert.Equal(t, []string{"/booking", "/cancel", "/start"}, listed)
}

func TestTelegramRunOptions(t *testing.T) {
	cfg := &app.Config{}
	cfg.Telegram.Token = "1:x"
	cfg.RateLimit.IntervalMS = 500
	opts, err := NewApp(cfg, booking.NewFileStore(filepath.Join(t.TempDir(), "b.json"))).TelegramRunOptions()
	require.NoError(t, err)

	assert.Same(t, &cfg.Config, opts.Config)
	assert.Equal(t, []string{"message", "callback_query"}, opts.AllowedUpdates)
	// 4 commands, text and document, callbacks.
	assert.Len(t, opts.Routes, 7)
	var names []string
	for _, mw := range opts.Middlewares {
		names = append(names, mw.Name)
	}
	assert.Equal(t, []string{"recover", "rate_limit", "logger", "metrics"}, names)
	assert.NotNil(t, opts.OnStart)
}
