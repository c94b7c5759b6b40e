package service

import (
	"context"
	"testing"
	"time"

	"reiatsu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newGardenFixture(t *testing.T, garden *models.Garden) (*GardenService, *MockGardenRepository, *ledgerMocks) {
	t.Helper()
	l := newLedgerMocks()
	gardens := new(MockGardenRepository)
	if garden != nil {
		gardens.On("GetForUpdate", mock.Anything, garden.DiscordID).Return(garden, nil)
		gardens.On("Update", mock.Anything, garden).Return(nil).Maybe()
	}
	return NewGardenService(gardens, l.players, l.history, l.publisher, testCatalog(t), fixedClock{testNow}), gardens, l
}

func TestGardenService_Garden(t *testing.T) {
	ctx := context.Background()
	svc, gardens, _ := newGardenFixture(t, nil)
	gardens.On("GetForUpdate", ctx, int64(1)).Return(nil, nil)
	gardens.On("Create", ctx, mock.AnythingOfType("*models.Garden")).Return(nil)

	garden, err := svc.Garden(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), garden.Money)
	assert.Len(t, garden.Grid, models.GardenSize)
}

func TestGardenService_Plant(t *testing.T) {
	ctx := context.Background()

	t.Run("plants and pays the seed", func(t *testing.T) {
		garden := models.NewGarden(0, 1, 50)
		svc, _, _ := newGardenFixture(t, garden)

		_, err := svc.Plant(ctx, 1, 5, "tomato")
		require.NoError(t, err)
		assert.Equal(t, int64(40), garden.Money)
		assert.Equal(t, "tomato", garden.Grid[4].Crop)
		assert.Equal(t, testNow.Add(30*time.Minute), svc.ReadyAt(garden.Grid[4]))
	})

	t.Run("validation", func(t *testing.T) {
		garden := models.NewGarden(0, 1, 15)
		garden.Grid[0] = models.GardenPlot{Crop: "radish", PlantedAt: &testNow}
		svc, _, _ := newGardenFixture(t, garden)

		_, err := svc.Plant(ctx, 1, 0, "radish")
		assert.ErrorIs(t, err, ErrInvalidPlot)
		_, err = svc.Plant(ctx, 1, 10, "radish")
		assert.ErrorIs(t, err, ErrInvalidPlot)
		_, err = svc.Plant(ctx, 1, 2, "mandrake")
		assert.ErrorIs(t, err, ErrUnknownCrop)
		_, err = svc.Plant(ctx, 1, 1, "radish")
		assert.ErrorIs(t, err, ErrPlotOccupied)
		_, err = svc.Plant(ctx, 1, 2, "rice")
		assert.ErrorIs(t, err, ErrInsufficientMoney)
	})
}

func TestGardenService_HarvestSellExchange(t *testing.T) {
	ctx := context.Background()
	ripe := testNow.Add(-time.Hour)
	growing := testNow.Add(-time.Minute)

	garden := models.NewGarden(0, 1, 0)
	garden.Grid[0] = models.GardenPlot{Crop: "radish", PlantedAt: &ripe}
	garden.Grid[1] = models.GardenPlot{Crop: "tomato", PlantedAt: &ripe}
	garden.Grid[2] = models.GardenPlot{Crop: "rice", PlantedAt: &growing}
	svc, _, l := newGardenFixture(t, garden)

	harvested, err := svc.Harvest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"radish": 1, "tomato": 1}, harvested)
	assert.True(t, garden.Grid[0].IsEmpty())
	assert.Equal(t, "rice", garden.Grid[2].Crop)

	earned, err := svc.Sell(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(29), earned)
	assert.Empty(t, garden.Inventory)

	_, err = svc.Sell(ctx, 1)
	assert.ErrorIs(t, err, ErrNothingToSell)

	_, err = svc.Exchange(ctx, 1, "hanataro", 5)
	assert.ErrorIs(t, err, ErrExchangeTooSmall)

	l.players.On("GetForUpdate", ctx, int64(1)).Return(&models.Player{DiscordID: 1}, nil)
	l.expectChange(1, 2, 2)
	points, err := svc.Exchange(ctx, 1, "hanataro", 29)
	require.NoError(t, err)
	assert.Equal(t, int64(2), points)
	assert.Equal(t, int64(9), garden.Money)
	l.assertExpectations(t)

	_, err = svc.Harvest(ctx, 1)
	assert.ErrorIs(t, err, ErrNothingReady)
}
