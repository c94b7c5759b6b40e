package common

import (
	"fmt"
	"testing"
	"time"

	"reiatsu/service"

	"github.com/stretchr/testify/assert"
)

func TestFormatPoints(t *testing.T) {
	tests := []struct {
		points   int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPoints(tt.points))
		})
	}
}

func TestFormatPointsCompact(t *testing.T) {
	tests := []struct {
		name     string
		points   int64
		expected string
	}{
		{"Less than 1k", 999, "999"},
		{"Exactly 1k", 1000, "1k"},
		{"1.5k", 1500, "1.5k"},
		{"213.9k", 213901, "213.9k"},
		{"1M", 1000000, "1M"},
		{"1.5B", 1500000000, "1.5B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPointsCompact(tt.points))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{45 * time.Second, "45s"},
		{3*time.Minute + 20*time.Second, "3m 20s"},
		{5 * time.Minute, "5m"},
		{2 * time.Hour, "2h"},
		{23*time.Hour + 59*time.Minute + 59*time.Second, "23h 59m"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.d))
		})
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", ProgressBar(50, 100, 10))
	assert.Equal(t, "██████████", ProgressBar(150, 100, 10))
	assert.Equal(t, "", ProgressBar(1, 0, 10))
}

func TestUserMessage(t *testing.T) {
	message, ok := UserMessage(fmt.Errorf("steal failed: %w", service.ErrTargetShielded))
	assert.True(t, ok)
	assert.Contains(t, message, "shield")

	message, ok = UserMessage(&service.CooldownError{Action: "Steal", Remaining: 90 * time.Minute})
	assert.True(t, ok)
	assert.Equal(t, "Steal is on cooldown for another 1h 30m.", message)

	message, ok = UserMessage(NewUserError("Nope."))
	assert.True(t, ok)
	assert.Equal(t, "Nope.", message)

	_, ok = UserMessage(fmt.Errorf("connection reset"))
	assert.False(t, ok)
}

func TestSessions(t *testing.T) {
	sessions := NewSessions[int](time.Hour)
	id := sessions.Add(42)
	assert.Len(t, id, 8)

	value, ok := sessions.Get(id)
	assert.True(t, ok)
	assert.Equal(t, 42, value)

	sessions.Delete(id)
	_, ok = sessions.Get(id)
	assert.False(t, ok)

	expired := NewSessions[string](-time.Second)
	expired.Add("gone")
	assert.Equal(t, 1, expired.Cleanup())
	assert.Zero(t, expired.Len())
}
