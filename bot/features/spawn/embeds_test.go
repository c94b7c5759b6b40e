package spawn

import (
	"testing"
	"time"

	"reiatsu/bot/common"
	"reiatsu/models"
	"reiatsu/service"

	"github.com/stretchr/testify/assert"
)

func TestSpawnEmbedHidesIllusions(t *testing.T) {
	assert.Equal(t, buildSpawnEmbed(models.SpawnKindNormal), buildSpawnEmbed(models.SpawnKindFake))
	assert.Equal(t, common.ColorSuper, buildSpawnEmbed(models.SpawnKindSuper).Color)
}

func TestBuildClaimedEmbed(t *testing.T) {
	illusionist := int64(7)

	tests := []struct {
		name        string
		result      *service.ClaimResult
		title       string
		description string
	}{
		{
			name:        "normal",
			result:      &service.ClaimResult{Kind: models.SpawnKindNormal, Gain: 1, Points: 11},
			title:       "✅ Reiatsu absorbed",
			description: "<@42> absorbed **1 Reiatsu**.",
		},
		{
			name:        "super",
			result:      &service.ClaimResult{Kind: models.SpawnKindSuper, Gain: 100, Points: 100},
			title:       "🌟 Super Reiatsu absorbed",
			description: "<@42> absorbed **100 Reiatsu**.",
		},
		{
			name:        "overflow",
			result:      &service.ClaimResult{Kind: models.SpawnKindNormal, Gain: 100, Overflow: true},
			title:       "💥 Overflow!",
			description: "<@42> absorbed **100 Reiatsu**.",
		},
		{
			name:        "gambler got nothing",
			result:      &service.ClaimResult{Kind: models.SpawnKindNormal},
			title:       "✅ Reiatsu absorbed",
			description: "<@42> gambled on the spawn and got nothing.",
		},
		{
			name:        "illusion penalty",
			result:      &service.ClaimResult{Kind: models.SpawnKindFake, Penalty: 10, IllusionistID: &illusionist},
			title:       "🎭 It was an illusion!",
			description: "<@42> lost **10 Reiatsu** to <@7>.",
		},
		{
			name:        "illusion with empty pockets",
			result:      &service.ClaimResult{Kind: models.SpawnKindFake, IllusionistID: &illusionist},
			title:       "🎭 It was an illusion!",
			description: "<@42> fell for it, but had nothing to lose.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := buildClaimedEmbed(tt.result, 42)
			assert.Equal(t, tt.title, embed.Title)
			assert.Equal(t, tt.description, embed.Description)
		})
	}

	t.Run("own illusion", func(t *testing.T) {
		embed := buildClaimedEmbed(&service.ClaimResult{Kind: models.SpawnKindFake, IllusionistID: &illusionist}, 7)
		assert.Equal(t, "<@7> dispelled their own illusion.", embed.Description)
	})
}

func TestBuildStatusEmbed(t *testing.T) {
	channel := int64(99)
	config := &models.SpawnConfig{
		ChannelID:   &channel,
		Speed:       models.SpawnSpeedFast,
		LastSpawnAt: time.Unix(1000, 0),
		NextDelay:   time.Minute,
	}

	embed := buildStatusEmbed(config)
	assert.Equal(t, "<#99>", embed.Fields[0].Value)
	assert.Equal(t, "fast", embed.Fields[1].Value)
	assert.Equal(t, "<t:1060:R>", embed.Fields[2].Value)

	config.IsSpawn = true
	assert.Equal(t, "A spawn is waiting to be absorbed", buildStatusEmbed(config).Fields[2].Value)

	assert.Equal(t, "Disabled", buildStatusEmbed(&models.SpawnConfig{Speed: models.SpawnSpeedNormal}).Fields[0].Value)
}
