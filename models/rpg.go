package models

import (
	"slices"
	"time"
)

// RPGClass is a combat archetype
type RPGClass string

const (
	RPGClassShinigami   RPGClass = "shinigami"
	RPGClassQuincy      RPGClass = "quincy"
	RPGClassArrancar    RPGClass = "arrancar"
	RPGClassFullbringer RPGClass = "fullbringer"
)

// RPG cooldown keys
const (
	CooldownFight = "fight"
	CooldownHeal  = "heal"
)

// RPGStats are the fighter attributes stored as JSON
type RPGStats struct {
	Level   int `json:"level"`
	XP      int `json:"xp"`
	HP      int `json:"hp"`
	MaxHP   int `json:"max_hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
}

// XPToNext returns the experience needed to leave the current level
func (s RPGStats) XPToNext() int {
	return s.Level * 100
}

// DefaultRPGStats returns the stats of a fresh character
func DefaultRPGStats() RPGStats {
	return RPGStats{Level: 1, HP: 100, MaxHP: 100, Attack: 12, Defense: 6, Speed: 10}
}

// RPGPlayer is a character profile
type RPGPlayer struct {
	GuildID       int64                `db:"guild_id"`
	DiscordID     int64                `db:"discord_id"`
	Username      string               `db:"username"`
	Class         RPGClass             `db:"class"`
	Zone          string               `db:"zone"`
	Stats         RPGStats             `db:"stats"`
	Cooldowns     map[string]time.Time `db:"cooldowns"`
	UnlockedZones []string             `db:"unlocked_zones"`
	CreatedAt     time.Time            `db:"created_at"`
	UpdatedAt     time.Time            `db:"updated_at"`
}

// HasUnlocked reports whether the zone is open for the player
func (p *RPGPlayer) HasUnlocked(zone string) bool {
	return slices.Contains(p.UnlockedZones, zone)
}

// Unlock adds zone to the unlocked list, reporting whether it was new
func (p *RPGPlayer) Unlock(zone string) bool {
	if p.HasUnlocked(zone) {
		return false
	}
	p.UnlockedZones = append(p.UnlockedZones, zone)
	return true
}

// ReadyAt returns when the action's cooldown expires
func (p *RPGPlayer) ReadyAt(action string) time.Time {
	return p.Cooldowns[action]
}

// StartCooldown sets the action's cooldown to end at until
func (p *RPGPlayer) StartCooldown(action string, until time.Time) {
	if p.Cooldowns == nil {
		p.Cooldowns = make(map[string]time.Time)
	}
	p.Cooldowns[action] = until
}
