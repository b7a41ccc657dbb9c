package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatTimeLeft(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		endTime  time.Time
		expected string
	}{
		{
			name:     "expired",
			endTime:  now.Add(-time.Second),
			expected: "Subasta finalizada",
		},
		{
			name:     "exactly_now",
			endTime:  now,
			expected: "Subasta finalizada",
		},
		{
			name:     "full_breakdown",
			endTime:  now.Add(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second),
			expected: "2d 3h 4m 5s",
		},
		{
			name:     "zero_hours_omitted",
			endTime:  now.Add(2*24*time.Hour + 4*time.Minute + 5*time.Second),
			expected: "2d 4m 5s",
		},
		{
			name:     "seconds_only",
			endTime:  now.Add(45 * time.Second),
			expected: "45s",
		},
		{
			name:     "zero_seconds_still_shown",
			endTime:  now.Add(time.Hour),
			expected: "1h 0s",
		},
		{
			name:     "minutes_and_seconds",
			endTime:  now.Add(90 * time.Second),
			expected: "1m 30s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatTimeLeft(tt.endTime, now))
		})
	}
}
