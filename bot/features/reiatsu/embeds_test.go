package reiatsu

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"reiatsu/catalog"
	"reiatsu/models"
	"reiatsu/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProfileEmbed(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	shield := now.Add(time.Hour)
	player := &models.Player{
		DiscordID:   1,
		Points:      12345,
		Class:       models.ClassThief,
		Level:       3,
		SkillArmed:  true,
		ShieldUntil: &shield,
		Title:       "Captain",
	}
	class := &catalog.ClassDef{ID: models.ClassThief, Name: "Thief", Emoji: "🗡️"}

	embed := buildProfileEmbed(player, 2, class, "Ichigo", now)

	assert.Equal(t, "Ichigo · Captain", embed.Title)
	require.Len(t, embed.Fields, 6)
	assert.Contains(t, embed.Fields[0].Value, "12,345")
	assert.Equal(t, "#2", embed.Fields[1].Value)
	assert.Equal(t, "🗡️ Thief", embed.Fields[3].Value)
	assert.Equal(t, "Skill", embed.Fields[4].Name)
	assert.Equal(t, "Shield", embed.Fields[5].Name)
}

func TestBuildProfileEmbedWithoutClass(t *testing.T) {
	now := time.Now()
	expired := now.Add(-time.Minute)
	player := &models.Player{Points: 0, Level: 1, ShieldUntil: &expired}

	embed := buildProfileEmbed(player, 1, nil, "Rukia", now)

	assert.Equal(t, "Rukia", embed.Title)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "None", embed.Fields[3].Value)
}

func TestBuildLeaderboardEmbed(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		embed := buildLeaderboardEmbed(nil)
		assert.Equal(t, "Nobody has any Reiatsu yet.", embed.Description)
	})

	t.Run("medals for the top three", func(t *testing.T) {
		entries := []LeaderboardEntry{
			{Rank: 1, Name: "a", Points: 300},
			{Rank: 2, Name: "b", Points: 200},
			{Rank: 3, Name: "c", Points: 100},
			{Rank: 4, Name: "d", Points: 50},
		}
		embed := buildLeaderboardEmbed(entries)
		assert.Contains(t, embed.Description, "🥇 **a** · 300")
		assert.Contains(t, embed.Description, "🥉 **c**")
		assert.Contains(t, embed.Description, "`#4` **d** · 50")
	})
}

func TestBuildHistoryEmbed(t *testing.T) {
	entries := []*models.PointsHistory{
		{ChangeAmount: 25, PointsAfter: 125, TransactionType: models.TransactionTypeSpawnAbsorb, CreatedAt: time.Now()},
		{ChangeAmount: -10, PointsAfter: 100, TransactionType: models.TransactionTypeStealOut, CreatedAt: time.Now()},
	}

	embed := buildHistoryEmbed(entries)

	assert.Contains(t, embed.Description, "`+25` spawn absorb → **125**")
	assert.Contains(t, embed.Description, "`-10` steal out → **100**")
	assert.Equal(t, "No history yet.", buildHistoryEmbed(nil).Description)
}

func TestBuildQuestsEmbed(t *testing.T) {
	statuses := []service.QuestStatus{
		{
			Quest:    catalog.Quest{ID: "absorb_5", Name: "Sponge", Description: "Absorb 5 spawns", Target: 5, Reward: 50},
			Progress: models.QuestProgress{Progress: 2},
		},
		{
			Quest:    catalog.Quest{ID: "steal_1", Name: "Pickpocket", Description: "Steal once", Target: 1, Reward: 20},
			Progress: models.QuestProgress{Progress: 1, Completed: true},
		},
	}

	embed := buildQuestsEmbed(statuses)

	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Sponge", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "2/5")
	assert.Equal(t, "✅ Pickpocket", embed.Fields[1].Name)
}

func TestLeaderboardImage(t *testing.T) {
	entries := []LeaderboardEntry{
		{Rank: 1, Name: "Kenpachi Zaraki the Eleventh", Points: 1_500_000, Class: "thief", Level: 9},
		{Rank: 2, Name: "Byakuya", Points: 9_000, Class: "absorber", Level: 4},
		{Rank: 3, Name: "Renji", Points: 800, Level: 1},
		{Rank: 4, Name: "Orihime", Points: 10, Class: "gambler", Level: 1},
	}

	data, err := NewLeaderboardImageGenerator().Generate(entries)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 420, img.Bounds().Dx())
	assert.Equal(t, 180, img.Bounds().Dy())
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", truncateName("short", 10))
	assert.Equal(t, "abcd…", truncateName("abcdefgh", 5))
	assert.Equal(t, "ééé…", truncateName("éééééé", 4))
}
