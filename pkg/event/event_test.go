package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationConfig_Validate_CustomRange(t *testing.T) {
	testCases := []struct {
		name  string
		value int
		unit  NotificationUnit
		valid bool
	}{
		{"one week", 1, UnitWeek, true},
		{"a year of weeks", 52, UnitWeek, true},
		{"just over a year of weeks", 53, UnitWeek, false},
		{"centuries of weeks", 16000, UnitWeek, false},
		{"a year of days", 366, UnitDay, true},
		{"too many days", 367, UnitDay, false},
		{"too many hours", 366*24 + 1, UnitHour, false},
		{"minutes overflowing a duration", 1 << 40, UnitMinute, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NotificationConfig{Type: NotifyCustom, CustomValue: tc.value, CustomUnit: tc.unit, ReferenceTime: ReferenceStart}

			err := cfg.Validate()

			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidEvent)
			}
		})
	}
}
