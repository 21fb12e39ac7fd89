package booking

import (
	"fmt"
	"strings"
)

// User-facing texts.
const (
	MsgWelcome        = "Welcome to the Ticket Booking Bot! 🎫\nPlease enter your departure city:"
	MsgAskArrival     = "Please enter your arrival city:"
	MsgAskDate        = "Please select your travel date:"
	MsgPickFromCal    = "Please pick a date from the calendar above."
	MsgAskAirline     = "Please select your airline:"
	MsgCancelled      = "Booking cancelled. Type /start to begin a new booking."
	MsgNoBookings     = "You have no bookings."
	MsgStartFirst     = "Type /start to begin a new booking."
	MsgFailure        = "Something went wrong. Please try again later."
	MsgRateLimited    = "Too many requests, please slow down."
	MsgUnknownCommand = "I did not understand that. Type /start to book a ticket or /booking to see your bookings."
	MsgTextOnly       = "Please send text messages only."
	MsgRemoveLabel    = "Remove"
)

// Yes and No label the confirmation keyboard.
const (
	Yes = "Yes"
	No  = "No"
)

// DefaultAirlines is offered when no airline list is configured.
var DefaultAirlines = []string{"All Airlines", "Qatar Airways", "Emirates", "Turkish Airlines", "Air India"}

// SelectedDate is the text the calendar message is replaced with after a pick.
func SelectedDate(date string) string {
	return "Selected date: " + date
}

// Summary renders the draft for confirmation.
func Summary(d Draft) string {
	var b strings.Builder
	b.WriteString("📋 Booking Summary:\n")
	fmt.Fprintf(&b, "From: %s\nTo: %s\nDate: %s\nAirline: %s\n\n", d.Departure, d.Arrival, d.Date, d.Airline)
	b.WriteString("Would you like to confirm this booking? (Yes/No)")
	return b.String()
}

// Confirmed tells the user their reference.
func Confirmed(ref string) string {
	return "✅ Booking confirmed!\nYour booking reference number: #" + ref
}

// Listing renders the n-th (1-based) booking of a user.
func Listing(n int, r Record) string {
	return fmt.Sprintf("📋 Booking #%d (Ref: %s)\nFrom: %s\nTo: %s\nDate: %s\nAirline: %s",
		n, r.Ref, r.Departure, r.Arrival, r.Date, r.Airline)
}

// Removed reports the outcome of a remove request.
func Removed(ref string, n int) string {
	if n == 0 {
		return "Booking with reference #" + ref + " was not found."
	}
	return "Booking with reference #" + ref + " has been removed."
}
