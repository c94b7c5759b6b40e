package testutil

import (
	"time"

	"reiatsu/models"
)

// CreateTestPlayer creates a test player with default values
func CreateTestPlayer(guildID, discordID int64, username string) *models.Player {
	now := time.Now()
	return &models.Player{
		GuildID:   guildID,
		DiscordID: discordID,
		Username:  username,
		Level:     1,
		Quests:    map[string]*models.QuestProgress{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestPointsHistory creates a test points history entry
func CreateTestPointsHistory(discordID int64, transactionType models.TransactionType) *models.PointsHistory {
	return &models.PointsHistory{
		DiscordID:       discordID,
		PointsBefore:    100,
		PointsAfter:     90,
		ChangeAmount:    -10,
		TransactionType: transactionType,
		Metadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestRPGPlayer creates a fresh character in the starting zone
func CreateTestRPGPlayer(discordID int64, username string, class models.RPGClass) *models.RPGPlayer {
	return &models.RPGPlayer{
		DiscordID:     discordID,
		Username:      username,
		Class:         class,
		Zone:          "karakura",
		Stats:         models.DefaultRPGStats(),
		Cooldowns:     map[string]time.Time{},
		UnlockedZones: []string{"karakura"},
	}
}
