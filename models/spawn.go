package models

import (
	"fmt"
	"time"
)

// SpawnSpeed controls how often Reiatsu appears in a guild
type SpawnSpeed string

const (
	SpawnSpeedFast   SpawnSpeed = "fast"
	SpawnSpeedNormal SpawnSpeed = "normal"
	SpawnSpeedSlow   SpawnSpeed = "slow"
)

// DelayRange returns the bounds of the random delay between two spawns
func (s SpawnSpeed) DelayRange() (time.Duration, time.Duration) {
	switch s {
	case SpawnSpeedFast:
		return 1 * time.Minute, 5 * time.Minute
	case SpawnSpeedSlow:
		return 30 * time.Minute, 90 * time.Minute
	default:
		return 10 * time.Minute, 40 * time.Minute
	}
}

// ParseSpawnSpeed validates a speed name
func ParseSpawnSpeed(raw string) (SpawnSpeed, error) {
	switch speed := SpawnSpeed(raw); speed {
	case SpawnSpeedFast, SpawnSpeedNormal, SpawnSpeedSlow:
		return speed, nil
	default:
		return "", fmt.Errorf("unknown spawn speed %q", raw)
	}
}

// SpawnKind distinguishes regular, super and illusionist spawns
type SpawnKind string

const (
	SpawnKindNormal SpawnKind = "normal"
	SpawnKindSuper  SpawnKind = "super"
	SpawnKindFake   SpawnKind = "fake"
)

// SpawnConfig is the per-guild spawner state
type SpawnConfig struct {
	GuildID     int64         `db:"guild_id"`
	ChannelID   *int64        `db:"channel_id"`
	Speed       SpawnSpeed    `db:"speed"`
	LastSpawnAt time.Time     `db:"last_spawn_at"`
	NextDelay   time.Duration `db:"next_delay_seconds"`
	IsSpawn     bool          `db:"is_spawn"`
	MessageID   *int64        `db:"message_id"`
	Kind        SpawnKind     `db:"kind"`
	SpawnedBy   *int64        `db:"spawned_by"`
	SpawnedAt   *time.Time    `db:"spawned_at"`
}

// IsDue reports whether a new spawn should be posted at now
func (c *SpawnConfig) IsDue(now time.Time) bool {
	if c.ChannelID == nil || c.IsSpawn {
		return false
	}
	return now.Sub(c.LastSpawnAt) >= c.NextDelay
}

// NextSpawnAt returns the earliest time the next spawn can appear
func (c *SpawnConfig) NextSpawnAt() time.Time {
	return c.LastSpawnAt.Add(c.NextDelay)
}

// ClaimedSpawn is what a winning claimer took
type ClaimedSpawn struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
	Kind      SpawnKind
	SpawnedBy *int64
}
