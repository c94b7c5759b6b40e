package models

import (
	"time"
)

// GardenSize is the number of plots in a 3x3 garden
const GardenSize = 9

// GardenPlot is one plot; an empty Crop means fallow
type GardenPlot struct {
	Crop      string     `json:"crop,omitempty"`
	PlantedAt *time.Time `json:"planted_at,omitempty"`
}

// IsEmpty reports whether nothing grows on the plot
func (p GardenPlot) IsEmpty() bool {
	return p.Crop == ""
}

// Garden is a player's farming minigame state
type Garden struct {
	GuildID   int64          `db:"guild_id"`
	DiscordID int64          `db:"discord_id"`
	Grid      []GardenPlot   `db:"garden_grid"`
	Inventory map[string]int `db:"inventory"`
	Money     int64          `db:"money"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// NewGarden returns an empty garden with starting money
func NewGarden(guildID, discordID, money int64) *Garden {
	return &Garden{
		GuildID:   guildID,
		DiscordID: discordID,
		Grid:      make([]GardenPlot, GardenSize),
		Inventory: make(map[string]int),
		Money:     money,
	}
}
