package booking

import (
	"fmt"
	"strings"
	"time"
)

// State is a step of the booking conversation. The zero value means no conversation.
type State string

// Conversation states in dialog order.
const (
	StateIdle      State = ""
	StateDeparture State = "DEPARTURE"
	StateArrival   State = "ARRIVAL"
	StateDate      State = "DATE"
	StateAirline   State = "AIRLINE"
	StateConfirm   State = "CONFIRM"
	StateEnd       State = "END"
)

// Draft is what the conversation has collected so far.
type Draft struct {
	Departure string
	Arrival   string
	Date      string
	Airline   string
}

// Record turns the draft into a booking; missing fields stay empty.
func (d Draft) Record(ref string) Record {
	return Record{Ref: ref, Departure: d.Departure, Arrival: d.Arrival, Date: d.Date, Airline: d.Airline}
}

// EventKind distinguishes inbound events.
type EventKind int

// Event kinds.
const (
	EventStart EventKind = iota + 1
	EventCancel
	EventText
	EventCallback
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventCancel:
		return "cancel"
	case EventText:
		return "text"
	case EventCallback:
		return "callback"
	}
	return "unknown"
}

// Event is one user input. Now is the wall clock at receipt.
type Event struct {
	Kind  EventKind
	Text  string
	Token string
	Now   time.Time
}

// EffectKind names a side effect the adapter must perform.
type EffectKind int

const (
	// EffectReply sends a new message.
	EffectReply EffectKind = iota + 1
	// EffectEditText replaces the text of the message the callback came from.
	EffectEditText
	// EffectEditMarkup replaces only its inline keyboard.
	EffectEditMarkup
	// EffectAnswer acknowledges the callback.
	EffectAnswer
	// EffectPersist appends Record to the store. Effects after it run only if it succeeds.
	EffectPersist
)

// Keyboard describes an attachment without tying it to a transport.
type Keyboard struct {
	Inline  [][]Button
	Reply   [][]string
	OneTime bool
	Remove  bool
}

// Effect is one output of a transition.
type Effect struct {
	Kind     EffectKind
	Text     string
	Keyboard *Keyboard
	Record   *Record
}

// Transition is the result of Step.
type Transition struct {
	Next    State
	Draft   Draft
	Effects []Effect
}

// Ended reports whether the conversation is over after this transition.
func (t Transition) Ended() bool {
	return t.Next == StateEnd || t.Next == StateIdle
}

// Machine is the booking dialog. It holds configuration only; Step is pure.
type Machine struct {
	Airlines []string
}

// NewMachine builds a machine offering airlines, or DefaultAirlines when empty.
func NewMachine(airlines []string) *Machine {
	if len(airlines) == 0 {
		airlines = DefaultAirlines
	}
	return &Machine{Airlines: append([]string(nil), airlines...)}
}

func reply(text string, kb *Keyboard) Effect { return Effect{Kind: EffectReply, Text: text, Keyboard: kb} }

func answer() Effect { return Effect{Kind: EffectAnswer} }

var removeKeyboard = &Keyboard{Remove: true}

func stay(st State, d Draft, effects ...Effect) Transition {
	return Transition{Next: st, Draft: d, Effects: effects}
}

// Step computes the next state, the updated draft and the effects for ev.
// A malformed callback token fails the event and leaves the conversation unchanged.
func (m *Machine) Step(st State, ev Event, d Draft) (Transition, error) {
	switch ev.Kind {
	case EventStart:
		return stay(StateDeparture, Draft{}, reply(MsgWelcome, removeKeyboard)), nil
	case EventCancel:
		if st == StateIdle {
			return stay(StateIdle, Draft{}), nil
		}
		return stay(StateEnd, d, reply(MsgCancelled, removeKeyboard)), nil
	case EventCallback:
		return m.onCallback(st, ev, d)
	case EventText:
		return m.onText(st, ev, d), nil
	}
	return stay(st, d), fmt.Errorf("unknown event kind %d", ev.Kind)
}

func (m *Machine) onText(st State, ev Event, d Draft) Transition {
	text := strings.TrimSpace(ev.Text)
	switch st {
	case StateDeparture:
		d.Departure = text
		return stay(StateArrival, d, reply(MsgAskArrival, nil))
	case StateArrival:
		d.Arrival = text
		cal := CalendarWithNavigation(ev.Now.Year(), ev.Now.Month(), ev.Now)
		return stay(StateDate, d, reply(MsgAskDate, &Keyboard{Inline: cal}))
	case StateDate:
		return stay(StateDate, d, reply(MsgPickFromCal, nil))
	case StateAirline:
		d.Airline = text
		return stay(StateConfirm, d, reply(Summary(d), &Keyboard{Reply: [][]string{{Yes, No}}, OneTime: true}))
	case StateConfirm:
		if !strings.EqualFold(text, Yes) {
			return stay(StateEnd, d, reply(MsgCancelled, removeKeyboard))
		}
		rec := d.Record(NewRef(ev.Now))
		return stay(StateEnd, d,
			Effect{Kind: EffectPersist, Record: &rec},
			reply(Confirmed(rec.Ref), removeKeyboard),
		)
	}
	return stay(st, d)
}

func (m *Machine) onCallback(st State, ev Event, d Draft) (Transition, error) {
	tok, err := ParseToken(ev.Token)
	if err != nil {
		return stay(st, d, answer()), err
	}
	if st != StateDate {
		return stay(st, d, answer()), nil
	}

	switch tok.Action {
	case ActionPrev, ActionNext:
		cal := CalendarWithNavigation(tok.Year, tok.Month, ev.Now)
		return stay(StateDate, d, answer(), Effect{Kind: EffectEditMarkup, Keyboard: &Keyboard{Inline: cal}}), nil
	case ActionDay:
		d.Date = tok.Date
		rows := make([][]string, 0, len(m.Airlines))
		for _, a := range m.Airlines {
			rows = append(rows, []string{a})
		}
		return stay(StateAirline, d,
			answer(),
			Effect{Kind: EffectEditText, Text: SelectedDate(tok.Date)},
			reply(MsgAskAirline, &Keyboard{Reply: rows, OneTime: true}),
		), nil
	}
	return stay(StateDate, d, answer()), nil
}
