package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayTokens(rows [][]Button) []string {
	var out []string
	for _, row := range rows {
		for _, b := range row {
			if len(b.Token) > len(dayPrefix) && b.Token[:len(dayPrefix)] == dayPrefix {
				out = append(out, b.Token)
			}
		}
	}
	return out
}

func TestDaysIn(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2025, time.April, 30},
		{2025, time.January, 31},
		{2025, time.December, 31},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DaysIn(tc.year, tc.month), "%d-%02d", tc.year, tc.month)
	}
}

func TestCalendarShape(t *testing.T) {
	rows := Calendar(2024, time.February)

	headers := 0
	for _, row := range rows {
		switch len(row) {
		case 1:
			headers++
			assert.Equal(t, TokenIgnore, row[0].Token)
		case 7:
		default:
			t.Fatalf("row with %d cells: %+v", len(row), row)
		}
	}
	assert.Equal(t, MonthsShown, headers)
	assert.Equal(t, "February 2024", rows[0][0].Label)
	assert.Equal(t, "Mo", rows[1][0].Label)
	assert.Equal(t, "Su", rows[1][6].Label)

	// Feb + Mar + Apr 2024.
	assert.Len(t, dayTokens(rows), 29+31+30)
}

func TestCalendarYearRollover(t *testing.T) {
	rows := Calendar(2024, time.November)
	var titles []string
	for _, row := range rows {
		if len(row) == 1 {
			titles = append(titles, row[0].Label)
		}
	}
	assert.Equal(t, []string{"November 2024", "December 2024", "January 2025"}, titles)
	tokens := dayTokens(rows)
	assert.Equal(t, "DAY_2025-01-31", tokens[len(tokens)-1])
}

func TestCalendarMondayAlignment(t *testing.T) {
	// 1 June 2025 is a Sunday; 1 September 2025 is a Monday.
	june := Calendar(2025, time.June)
	require.Len(t, june[2], 7)
	for i := 0; i < 6; i++ {
		assert.Equal(t, " ", june[2][i].Label)
		assert.Equal(t, TokenIgnore, june[2][i].Token)
	}
	assert.Equal(t, "1", june[2][6].Label)
	assert.Equal(t, "DAY_2025-06-01", june[2][6].Token)

	sept := Calendar(2025, time.September)
	assert.Equal(t, "DAY_2025-09-01", sept[2][0].Token)
}

func TestCalendarTrailingPadding(t *testing.T) {
	rows := Calendar(2023, time.February)
	// Feb 2023 starts on Wednesday: 2 blanks + 28 days = 30 cells, 5 rows, 5 trailing blanks.
	last := rows[2+4]
	assert.Equal(t, "27", last[0].Label)
	assert.Equal(t, "28", last[1].Label)
	for _, b := range last[2:] {
		assert.Equal(t, TokenIgnore, b.Token)
	}
}

func TestCalendarFor(t *testing.T) {
	now := time.Date(2025, time.June, 10, 15, 0, 0, 0, time.Local)
	assert.Equal(t, Calendar(2025, time.June), CalendarFor(now))
}

func TestNavigationRow(t *testing.T) {
	now := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	row := NavigationRow(2025, time.June, now)
	require.Len(t, row, 2)
	assert.Equal(t, TokenIgnore, row[0].Token)
	assert.Equal(t, "NEXT_2025_7", row[1].Token)

	row = NavigationRow(2025, time.December, now)
	assert.Equal(t, "PREV_2025_11", row[0].Token)
	assert.Equal(t, "NEXT_2026_1", row[1].Token)

	row = NavigationRow(2026, time.January, now)
	assert.Equal(t, "PREV_2025_12", row[0].Token)
}

func TestDayTokensRoundTrip(t *testing.T) {
	for _, tokStr := range dayTokens(Calendar(2024, time.December)) {
		tok, err := ParseToken(tokStr)
		require.NoError(t, err)
		assert.Equal(t, ActionDay, tok.Action)
		_, err = time.Parse(DateLayout, tok.Date)
		assert.NoError(t, err, tok.Date)
	}
}
