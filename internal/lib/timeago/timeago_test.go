package timeago

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSince(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		created  time.Time
		expected string
	}{
		{
			name:     "несколько дней назад",
			created:  now.Add(-72 * time.Hour),
			expected: "3 days ago",
		},
		{
			name:     "ровно один день",
			created:  now.Add(-25 * time.Hour),
			expected: "1 day ago",
		},
		{
			name:     "несколько часов назад",
			created:  now.Add(-5 * time.Hour),
			expected: "5 hours ago",
		},
		{
			name:     "один час",
			created:  now.Add(-90 * time.Minute),
			expected: "1 hour ago",
		},
		{
			name:     "несколько минут назад",
			created:  now.Add(-10 * time.Minute),
			expected: "10 minutes ago",
		},
		{
			name:     "одна минута",
			created:  now.Add(-1 * time.Minute),
			expected: "1 minute ago",
		},
		{
			name:     "только что",
			created:  now,
			expected: "0 minutes ago",
		},
		{
			name:     "момент в будущем не ломает формат",
			created:  now.Add(time.Minute),
			expected: "0 minutes ago",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Since(now, tt.created))
		})
	}
}
