package models

import (
	"time"
)

// PlayerClass is the Reiatsu class a player picked
type PlayerClass string

const (
	ClassNone        PlayerClass = ""
	ClassThief       PlayerClass = "thief"
	ClassAbsorber    PlayerClass = "absorber"
	ClassIllusionist PlayerClass = "illusionist"
	ClassGambler     PlayerClass = "gambler"
)

// AllClasses lists the selectable classes in display order
var AllClasses = []PlayerClass{ClassThief, ClassAbsorber, ClassIllusionist, ClassGambler}

// IsValid reports whether c is a selectable class
func (c PlayerClass) IsValid() bool {
	for _, known := range AllClasses {
		if c == known {
			return true
		}
	}
	return false
}

// QuestProgress tracks one quest for one player
type QuestProgress struct {
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Player is a Reiatsu profile in a guild
type Player struct {
	GuildID     int64                     `db:"guild_id"`
	DiscordID   int64                     `db:"discord_id"`
	Username    string                    `db:"username"`
	Points      int64                     `db:"points"`
	Class       PlayerClass               `db:"class"`
	Level       int                       `db:"level"`
	LastStealAt *time.Time                `db:"last_steal_at"`
	LastSkillAt *time.Time                `db:"last_skill_at"`
	SkillArmed  bool                      `db:"skill_armed"`
	ShieldUntil *time.Time                `db:"shield_until"`
	Title       string                    `db:"title"`
	Quests      map[string]*QuestProgress `db:"quests"`
	CreatedAt   time.Time                 `db:"created_at"`
	UpdatedAt   time.Time                 `db:"updated_at"`
}

// HasClass reports whether the player picked a class
func (p *Player) HasClass() bool {
	return p.Class != ClassNone
}

// CanAfford reports whether the player holds at least amount points
func (p *Player) CanAfford(amount int64) bool {
	return p.Points >= amount
}

// HasShield reports whether steals against the player are blocked at now
func (p *Player) HasShield(now time.Time) bool {
	return p.ShieldUntil != nil && now.Before(*p.ShieldUntil)
}

// StealReadyAt returns when the player may attempt the next steal
func (p *Player) StealReadyAt(cooldown time.Duration) time.Time {
	if p.LastStealAt == nil {
		return time.Time{}
	}
	return p.LastStealAt.Add(cooldown)
}

// SkillReadyAt returns when the player's class skill is available again
func (p *Player) SkillReadyAt(cooldown time.Duration) time.Time {
	if p.LastSkillAt == nil {
		return time.Time{}
	}
	return p.LastSkillAt.Add(cooldown)
}

// Quest returns the progress for questID, creating an empty entry if needed
func (p *Player) Quest(questID string) *QuestProgress {
	if p.Quests == nil {
		p.Quests = make(map[string]*QuestProgress)
	}
	progress, ok := p.Quests[questID]
	if !ok {
		progress = &QuestProgress{}
		p.Quests[questID] = progress
	}
	return progress
}
