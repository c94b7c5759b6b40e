package service

import (
	"context"
	"testing"

	"reiatsu/events"
	"reiatsu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlayerService_EnsureProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("existing player", func(t *testing.T) {
		l := newLedgerMocks()
		svc := NewPlayerService(l.players, l.history, l.publisher, testCatalog(t), 50)

		existing := &models.Player{DiscordID: 1, Username: "ichigo", Points: 12}
		l.players.On("Get", ctx, int64(1)).Return(existing, nil)

		player, err := svc.EnsureProfile(ctx, 1, "ichigo")
		require.NoError(t, err)
		assert.Same(t, existing, player)
		l.players.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("creates player with zero points", func(t *testing.T) {
		l := newLedgerMocks()
		svc := NewPlayerService(l.players, l.history, l.publisher, testCatalog(t), 50)

		created := &models.Player{GuildID: 9, DiscordID: 1, Username: "ichigo"}
		l.players.On("Get", ctx, int64(1)).Return(nil, nil)
		l.players.On("GetForUpdate", ctx, int64(1)).Return(nil, nil)
		l.players.On("Create", ctx, int64(1), "ichigo").Return(created, nil)

		player, err := svc.EnsureProfile(ctx, 1, "ichigo")
		require.NoError(t, err)
		assert.Equal(t, int64(0), player.Points)

		l.history.AssertCalled(t, "Record", ctx, mock.MatchedBy(func(h *models.PointsHistory) bool {
			return h.TransactionType == models.TransactionTypeInitial && h.ChangeAmount == 0
		}))
		created2 := published[events.PlayerCreatedEvent](l.publisher)
		require.Len(t, created2, 1)
		assert.Equal(t, int64(9), created2[0].GuildID)
	})
}

func TestPlayerService_Give(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects invalid amounts and self transfers", func(t *testing.T) {
		l := newLedgerMocks()
		svc := NewPlayerService(l.players, l.history, l.publisher, testCatalog(t), 50)

		assert.ErrorIs(t, svc.Give(ctx, 1, "a", 2, "b", 0), ErrInvalidAmount)
		assert.ErrorIs(t, svc.Give(ctx, 1, "a", 1, "a", 5), ErrSelfTarget)
	})

	t.Run("moves points between players", func(t *testing.T) {
		l := newLedgerMocks()
		svc := NewPlayerService(l.players, l.history, l.publisher, testCatalog(t), 50)

		l.players.On("GetForUpdate", ctx, int64(1)).Return(&models.Player{DiscordID: 1, Points: 30}, nil)
		l.players.On("GetForUpdate", ctx, int64(2)).Return(&models.Player{DiscordID: 2, Points: 5}, nil)
		l.expectChange(1, -10, 20)
		l.expectChange(2, 10, 15)

		require.NoError(t, svc.Give(ctx, 1, "rukia", 2, "renji", 10))
		l.assertExpectations(t)

		changes := published[events.PointsChangedEvent](l.publisher)
		require.Len(t, changes, 2)
		assert.Equal(t, models.TransactionTypeTransferOut, changes[0].TransactionType)
		assert.Equal(t, int64(30), changes[0].OldPoints)
		assert.Equal(t, models.TransactionTypeTransferIn, changes[1].TransactionType)
	})

	t.Run("insufficient points", func(t *testing.T) {
		l := newLedgerMocks()
		svc := NewPlayerService(l.players, l.history, l.publisher, testCatalog(t), 50)

		l.players.On("GetForUpdate", ctx, int64(1)).Return(&models.Player{DiscordID: 1, Points: 3}, nil)
		l.players.On("GetForUpdate", ctx, int64(2)).Return(&models.Player{DiscordID: 2}, nil)
		l.players.On("AddPoints", ctx, int64(1), int64(-10)).Return(int64(0), ErrInsufficientPoints)

		err := svc.Give(ctx, 1, "rukia", 2, "renji", 10)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
	})
}

func TestPlayerService_ChooseClass(t *testing.T) {
	ctx := context.Background()

	t.Run("first pick is free", func(t *testing.T) {
		l := newLedgerMocks()
		svc := NewPlayerService(l.players, l.history, l.publisher, testCatalog(t), 50)

		l.players.On("GetForUpdate", ctx, int64(1)).Return(&models.Player{DiscordID: 1, Points: 3}, nil)
		l.players.On("Update", ctx, mock.Anything).Return(nil)

		player, charged, err := svc.ChooseClass(ctx, 1, "ichigo", models.ClassThief)
		require.NoError(t, err)
		assert.False(t, charged)
		assert.Equal(t, models.ClassThief, player.Class)
		l.players.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("changing costs points and disarms the skill", func(t *testing.T) {
		l := newLedgerMocks()
		svc := NewPlayerService(l.players, l.history, l.publisher, testCatalog(t), 50)

		l.players.On("GetForUpdate", ctx, int64(1)).Return(&models.Player{DiscordID: 1, Points: 80, Class: models.ClassThief, SkillArmed: true}, nil)
		l.expectChange(1, -50, 30)
		l.players.On("Update", ctx, mock.Anything).Return(nil)

		player, charged, err := svc.ChooseClass(ctx, 1, "ichigo", models.ClassGambler)
		require.NoError(t, err)
		assert.True(t, charged)
		assert.Equal(t, int64(30), player.Points)
		assert.False(t, player.SkillArmed)
	})

	t.Run("change needs enough points", func(t *testing.T) {
		l := newLedgerMocks()
		svc := NewPlayerService(l.players, l.history, l.publisher, testCatalog(t), 50)

		l.players.On("GetForUpdate", ctx, int64(1)).Return(&models.Player{DiscordID: 1, Points: 10, Class: models.ClassThief}, nil)

		_, _, err := svc.ChooseClass(ctx, 1, "ichigo", models.ClassAbsorber)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
	})

	t.Run("same class and unknown class", func(t *testing.T) {
		l := newLedgerMocks()
		svc := NewPlayerService(l.players, l.history, l.publisher, testCatalog(t), 50)

		l.players.On("GetForUpdate", ctx, int64(1)).Return(&models.Player{DiscordID: 1, Class: models.ClassThief}, nil)

		_, _, err := svc.ChooseClass(ctx, 1, "ichigo", models.ClassThief)
		assert.ErrorIs(t, err, ErrSameClass)

		_, _, err = svc.ChooseClass(ctx, 1, "ichigo", "paladin")
		assert.ErrorIs(t, err, ErrUnknownClass)
	})
}

func TestPlayerService_SetPoints(t *testing.T) {
	ctx := context.Background()
	l := newLedgerMocks()
	svc := NewPlayerService(l.players, l.history, l.publisher, testCatalog(t), 50)

	l.players.On("GetForUpdate", ctx, int64(4)).Return(&models.Player{DiscordID: 4, Points: 7}, nil)
	l.players.On("SetPoints", ctx, int64(4), int64(100)).Return(int64(7), nil)

	before, err := svc.SetPoints(ctx, 4, "kon", 100, "event prize")
	require.NoError(t, err)
	assert.Equal(t, int64(7), before)

	l.history.AssertCalled(t, "Record", ctx, mock.MatchedBy(func(h *models.PointsHistory) bool {
		return h.TransactionType == models.TransactionTypeAdminAdjustment && h.ChangeAmount == 93
	}))

	_, err = svc.SetPoints(ctx, 4, "kon", -1, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPlayerService_Champion(t *testing.T) {
	ctx := context.Background()
	l := newLedgerMocks()
	svc := NewPlayerService(l.players, l.history, l.publisher, testCatalog(t), 50)

	l.players.On("Top", ctx, 1).Return([]*models.Player{{DiscordID: 3, Points: 0}}, nil).Once()
	champion, err := svc.Champion(ctx)
	require.NoError(t, err)
	assert.Nil(t, champion)

	l.players.On("Top", ctx, 1).Return([]*models.Player{{DiscordID: 3, Points: 40}}, nil).Once()
	champion, err = svc.Champion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), champion.DiscordID)
}
