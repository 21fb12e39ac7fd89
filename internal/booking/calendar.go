package booking

import (
	"fmt"
	"strconv"
	"time"
)

// MonthsShown is how many consecutive months one calendar keyboard carries.
const MonthsShown = 3

var weekdayLabels = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Button is a platform-neutral inline button: a label and the callback token it sends.
type Button struct {
	Label string
	Token string
}

func blank() Button { return Button{Label: " ", Token: TokenIgnore} }

// DaysIn returns the number of days in the month: day 28 plus four days always
// lands in the next month, and stepping back by that date's day-of-month
// lands on the last day of the original one.
func DaysIn(year int, month time.Month) int {
	probe := time.Date(year, month, 28, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 4)
	return probe.AddDate(0, 0, -probe.Day()).Day()
}

// addMonths shifts (year, month) by n months with year rollover.
func addMonths(year int, month time.Month, n int) (int, time.Month) {
	idx := year*12 + int(month) - 1 + n
	return idx / 12, time.Month(idx%12 + 1)
}

// Calendar renders MonthsShown months starting at (year, month), stacked vertically.
// Every month contributes a header row, a weekday row and day rows of exactly seven cells.
func Calendar(year int, month time.Month) [][]Button {
	var rows [][]Button
	for i := 0; i < MonthsShown; i++ {
		y, m := addMonths(year, month, i)
		rows = append(rows, monthRows(y, m)...)
	}
	return rows
}

// CalendarFor renders the calendar starting at the month containing now.
func CalendarFor(now time.Time) [][]Button {
	return Calendar(now.Year(), now.Month())
}

func monthRows(year int, month time.Month) [][]Button {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	rows := [][]Button{
		{{Label: fmt.Sprintf("%s %d", month, year), Token: TokenIgnore}},
	}

	header := make([]Button, 0, 7)
	for _, wd := range weekdayLabels {
		header = append(header, Button{Label: wd, Token: TokenIgnore})
	}
	rows = append(rows, header)

	// Monday is column zero.
	row := make([]Button, 0, 7)
	for i := 0; i < (int(first.Weekday())+6)%7; i++ {
		row = append(row, blank())
	}
	for day := 1; day <= DaysIn(year, month); day++ {
		row = append(row, Button{
			Label: strconv.Itoa(day),
			Token: DayToken(time.Date(year, month, day, 0, 0, 0, 0, time.UTC)),
		})
		if len(row) == 7 {
			rows = append(rows, row)
			row = make([]Button, 0, 7)
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, blank())
		}
		rows = append(rows, row)
	}
	return rows
}

// NavigationRow returns the « / » paging row for a calendar starting at (year, month).
// Paging moves the window by one month; « is inert when the window already starts
// at the month containing now.
func NavigationRow(year int, month time.Month, now time.Time) []Button {
	prev := Button{Label: " ", Token: TokenIgnore}
	if year*12+int(month) > now.Year()*12+int(now.Month()) {
		py, pm := addMonths(year, month, -1)
		prev = Button{Label: "«", Token: PrevToken(py, pm)}
	}
	ny, nm := addMonths(year, month, 1)
	return []Button{prev, {Label: "»", Token: NextToken(ny, nm)}}
}

// CalendarWithNavigation is Calendar followed by its NavigationRow.
func CalendarWithNavigation(year int, month time.Month, now time.Time) [][]Button {
	return append(Calendar(year, month), NavigationRow(year, month, now))
}
