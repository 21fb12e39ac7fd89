package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Action names what a callback token asks for.
type Action string

// Token actions.
const (
	ActionDay    Action = "DAY"
	ActionPrev   Action = "PREV"
	ActionNext   Action = "NEXT"
	ActionRemove Action = "REMOVE"
	ActionIgnore Action = "IGNORE"
)

// TokenIgnore is sent by buttons that only decorate the keyboard.
const TokenIgnore = string(ActionIgnore)

const (
	dayPrefix    = "DAY_"
	prevPrefix   = "PREV_"
	nextPrefix   = "NEXT_"
	removePrefix = "REMOVE_"
)

// Prefix returns the token prefix used by action, e.g. "DAY_".
func Prefix(a Action) string { return string(a) + "_" }

// DateLayout is the format of DAY_ payloads and stored booking dates.
const DateLayout = "2006-01-02"

type codedError struct{ code, msg string }

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() string  { return e.code }

// ErrMalformedToken reports a PREV_/NEXT_ token whose payload is not <year>_<month>.
var ErrMalformedToken error = codedError{code: "MALFORMED_TOKEN", msg: "malformed callback token"}

// Token is a parsed callback token. Only the fields relevant to Action are set.
type Token struct {
	Action Action
	Date   string
	Year   int
	Month  time.Month
	Ref    string
}

// DayToken encodes a date selection.
func DayToken(day time.Time) string { return dayPrefix + day.Format(DateLayout) }

// PrevToken encodes a request to show the calendar starting at (year, month).
func PrevToken(year int, month time.Month) string {
	return fmt.Sprintf("%s%d_%d", prevPrefix, year, int(month))
}

// NextToken encodes a request to show the calendar starting at (year, month).
func NextToken(year int, month time.Month) string {
	return fmt.Sprintf("%s%d_%d", nextPrefix, year, int(month))
}

// RemoveToken encodes a request to delete the booking with ref.
func RemoveToken(ref string) string { return removePrefix + ref }

// ParseToken decodes a callback token. Unknown tokens, IGNORE included, come back
// with the raw token as their action and no payload.
func ParseToken(raw string) (Token, error) {
	switch {
	case strings.HasPrefix(raw, dayPrefix):
		return Token{Action: ActionDay, Date: raw[len(dayPrefix):]}, nil
	case strings.HasPrefix(raw, prevPrefix):
		return parseMonthToken(ActionPrev, raw)
	case strings.HasPrefix(raw, nextPrefix):
		return parseMonthToken(ActionNext, raw)
	case strings.HasPrefix(raw, removePrefix):
		return Token{Action: ActionRemove, Ref: raw[len(removePrefix):]}, nil
	}
	return Token{Action: Action(raw)}, nil
}

func parseMonthToken(action Action, raw string) (Token, error) {
	parts := strings.Split(raw, "_")
	if len(parts) != 3 {
		return Token{}, fmt.Errorf("%w: %q", ErrMalformedToken, raw)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return Token{}, fmt.Errorf("%w: %q: year: %v", ErrMalformedToken, raw, err)
	}
	month, err := strconv.Atoi(parts[2])
	if err != nil {
		return Token{}, fmt.Errorf("%w: %q: month: %v", ErrMalformedToken, raw, err)
	}
	if month < 1 || month > 12 {
		return Token{}, fmt.Errorf("%w: %q: month out of range", ErrMalformedToken, raw)
	}
	return Token{Action: action, Year: year, Month: time.Month(month)}, nil
}
