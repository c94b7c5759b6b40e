package collection

import (
	"testing"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDrawEmbed(t *testing.T) {
	embed := buildDrawEmbed(&catalog.Car{ID: "hypercar", Name: "Hypercar", Rarity: "legendary"}, 50)

	assert.Equal(t, common.ColorSuper, embed.Color)
	assert.Equal(t, "🟡 **Hypercar** (legendary)", embed.Description)
	assert.Equal(t, "Draw cost: 50 Reiatsu", embed.Footer.Text)

	unknown := buildDrawEmbed(&catalog.Car{Name: "Bike", Rarity: "mythic"}, 1)
	assert.Equal(t, common.ColorPrimary, unknown.Color)
}

func TestBuildGarageEmbed(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		embed := buildGarageEmbed("Ichigo", nil, cat)
		assert.Contains(t, embed.Description, "No cars yet")
		assert.Nil(t, embed.Footer)
	})

	t.Run("grouped", func(t *testing.T) {
		owned := []*models.OwnedCar{
			{CarID: "roadster", Rarity: "rare"},
			{CarID: "kei_car", Rarity: "common"},
			{CarID: "roadster", Rarity: "rare"},
		}
		embed := buildGarageEmbed("Ichigo", owned, cat)

		assert.Equal(t, "🏁 Garage of Ichigo", embed.Title)
		assert.Equal(t, "⚪ **Kei car**\n🔵 **Roadster** ×2\n", embed.Description)
		assert.Equal(t, "3 cars · 2/5 models", embed.Footer.Text)
	})
}
