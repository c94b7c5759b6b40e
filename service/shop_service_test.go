package service

import (
	"context"
	"testing"
	"time"

	"reiatsu/events"
	"reiatsu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newShopFixture(t *testing.T, player *models.Player) (*ShopService, *ledgerMocks, *MockSteamKeyRepository) {
	t.Helper()
	l := newLedgerMocks()
	keys := new(MockSteamKeyRepository)
	l.players.On("GetForUpdate", mock.Anything, player.DiscordID).Return(player, nil)
	l.players.On("Update", mock.Anything, player).Return(nil).Maybe()
	return NewShopService(l.players, l.history, keys, l.publisher, testCatalog(t), fixedClock{testNow}), l, keys
}

func TestShopService_Buy(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown item", func(t *testing.T) {
		svc, _, _ := newShopFixture(t, &models.Player{DiscordID: 1})
		_, err := svc.Buy(ctx, 1, "chad", "zanpakuto")
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("cannot afford", func(t *testing.T) {
		svc, l, _ := newShopFixture(t, &models.Player{DiscordID: 1, Points: 39})
		_, err := svc.Buy(ctx, 1, "chad", "shield")
		assert.ErrorIs(t, err, ErrInsufficientPoints)
		l.players.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("shield starts now", func(t *testing.T) {
		player := &models.Player{DiscordID: 1, Points: 50}
		svc, l, _ := newShopFixture(t, player)
		l.expectChange(1, -40, 10)

		purchase, err := svc.Buy(ctx, 1, "chad", "shield")
		require.NoError(t, err)
		assert.Equal(t, int64(10), purchase.Player.Points)
		require.NotNil(t, player.ShieldUntil)
		assert.Equal(t, testNow.Add(24*time.Hour), *player.ShieldUntil)

		bought := published[events.ItemPurchasedEvent](l.publisher)
		require.Len(t, bought, 1)
		assert.Equal(t, "shield", bought[0].ItemID)
	})

	t.Run("shield stacks on an active one", func(t *testing.T) {
		until := testNow.Add(5 * time.Hour)
		player := &models.Player{DiscordID: 1, Points: 50, ShieldUntil: &until}
		svc, l, _ := newShopFixture(t, player)
		l.expectChange(1, -40, 10)

		_, err := svc.Buy(ctx, 1, "chad", "shield")
		require.NoError(t, err)
		assert.Equal(t, testNow.Add(29*time.Hour), *player.ShieldUntil)
	})

	t.Run("title", func(t *testing.T) {
		player := &models.Player{DiscordID: 1, Points: 150}
		svc, l, _ := newShopFixture(t, player)
		l.expectChange(1, -150, 0)

		_, err := svc.Buy(ctx, 1, "chad", "title_captain")
		require.NoError(t, err)
		assert.Equal(t, "Captain", player.Title)
	})

	t.Run("class reset needs a class", func(t *testing.T) {
		svc, _, _ := newShopFixture(t, &models.Player{DiscordID: 1, Points: 100})
		_, err := svc.Buy(ctx, 1, "chad", "class_reset")
		assert.ErrorIs(t, err, ErrNoClass)
	})

	t.Run("steam key out of stock charges nothing", func(t *testing.T) {
		svc, l, keys := newShopFixture(t, &models.Player{DiscordID: 1, Points: 2000})
		keys.On("ClaimRandom", ctx, int64(1)).Return(nil, nil)

		_, err := svc.Buy(ctx, 1, "chad", "steam_key")
		assert.ErrorIs(t, err, ErrOutOfStock)
		l.players.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("steam key delivered", func(t *testing.T) {
		svc, l, keys := newShopFixture(t, &models.Player{DiscordID: 1, Points: 2000})
		key := &models.SteamKey{ID: 3, GameName: "Hollow Knight", KeyCode: "AAAA-BBBB"}
		keys.On("ClaimRandom", ctx, int64(1)).Return(key, nil)
		l.expectChange(1, -1000, 1000)

		purchase, err := svc.Buy(ctx, 1, "chad", "steam_key")
		require.NoError(t, err)
		assert.Same(t, key, purchase.Key)
	})
}
