package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	cases := []struct {
		in   string
		want Token
	}{
		{"DAY_2025-06-15", Token{Action: ActionDay, Date: "2025-06-15"}},
		{"PREV_2024_3", Token{Action: ActionPrev, Year: 2024, Month: time.March}},
		{"NEXT_2023_12", Token{Action: ActionNext, Year: 2023, Month: time.December}},
		{"IGNORE", Token{Action: ActionIgnore}},
		{"REMOVE_20250615103000", Token{Action: ActionRemove, Ref: "20250615103000"}},
		{"SOMETHING", Token{Action: "SOMETHING"}},
		{"", Token{}},
	}
	for _, tc := range cases {
		got, err := ParseToken(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseTokenMalformed(t *testing.T) {
	for _, in := range []string{"PREV_2024", "NEXT_2024_1_2", "PREV_x_3", "NEXT_2024_y", "PREV_2024_13", "NEXT_2024_0"} {
		_, err := ParseToken(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrMalformedToken), in)
	}
}

func TestTokenBuilders(t *testing.T) {
	assert.Equal(t, "DAY_2025-06-05", DayToken(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "PREV_2024_3", PrevToken(2024, time.March))
	assert.Equal(t, "NEXT_2023_12", NextToken(2023, time.December))
	assert.Equal(t, "REMOVE_abc", RemoveToken("abc"))

	var coded interface{ Code() string }
	require.True(t, errors.As(ErrMalformedToken, &coded))
	assert.Equal(t, "MALFORMED_TOKEN", coded.Code())
}
