package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokyo = time.FixedZone("JST", 9*60*60)

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		input    string
		expected time.Time
	}{
		{"2024-03-12T09:30:00Z", time.Date(2024, 3, 12, 18, 30, 0, 0, tokyo)},
		{"2024-03-12T09:30:00+09:00", time.Date(2024, 3, 12, 9, 30, 0, 0, tokyo)},
		{"2024-03-12T09:30", time.Date(2024, 3, 12, 9, 30, 0, 0, tokyo)},
		{"2024-03-12", time.Date(2024, 3, 12, 0, 0, 0, 0, tokyo)},
		{" 2024-03-12 ", time.Date(2024, 3, 12, 0, 0, 0, 0, tokyo)},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			parsed, err := ParseTimestamp(tc.input, tokyo)
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(parsed), "expected %s, got %s", tc.expected, parsed)
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, input := range []string{"", "tomorrow", "2024-13-01", "12/03/2024"} {
		_, err := ParseTimestamp(input, tokyo)
		assert.Error(t, err, input)
	}
}

func TestParseOptionalTimestamp(t *testing.T) {
	empty, err := ParseOptionalTimestamp("", tokyo)
	require.NoError(t, err)
	assert.Nil(t, empty)

	parsed, err := ParseOptionalTimestamp("2024-03-12", tokyo)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, 12, parsed.Day())
}

func TestToday(t *testing.T) {
	clock := &MockClock{}
	clock.SetNow(time.Date(2024, 3, 11, 20, 0, 0, 0, time.UTC))

	today := Today(clock, tokyo)

	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, tokyo), today)
}
