package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlayer_Cooldowns(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &Player{}

	assert.True(t, p.StealReadyAt(24*time.Hour).IsZero())

	last := now.Add(-time.Hour)
	p.LastStealAt = &last
	assert.Equal(t, now.Add(23*time.Hour), p.StealReadyAt(24*time.Hour))
}

func TestPlayer_HasShield(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &Player{}
	assert.False(t, p.HasShield(now))

	until := now.Add(time.Minute)
	p.ShieldUntil = &until
	assert.True(t, p.HasShield(now))
	assert.False(t, p.HasShield(until))
}

func TestPlayer_Quest(t *testing.T) {
	p := &Player{}
	p.Quest("absorb_10").Progress = 3

	assert.Equal(t, 3, p.Quest("absorb_10").Progress)
	assert.False(t, p.Quest("steal_3").Completed)
}

func TestPlayerClass_IsValid(t *testing.T) {
	assert.True(t, ClassThief.IsValid())
	assert.False(t, ClassNone.IsValid())
	assert.False(t, PlayerClass("paladin").IsValid())
}

func TestRPGPlayer_Unlock(t *testing.T) {
	p := &RPGPlayer{UnlockedZones: []string{"karakura"}}

	assert.False(t, p.Unlock("karakura"))
	assert.True(t, p.Unlock("soul_society"))
	assert.True(t, p.HasUnlocked("soul_society"))
}
