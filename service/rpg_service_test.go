package service

import (
	"context"
	"testing"
	"time"

	"reiatsu/events"
	"reiatsu/game/combat"
	"reiatsu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRPGFixture(t *testing.T, character *models.RPGPlayer) (*RPGService, *MockRPGRepository, *ledgerMocks) {
	t.Helper()
	l := newLedgerMocks()
	characters := new(MockRPGRepository)
	if character != nil {
		characters.On("GetForUpdate", mock.Anything, character.DiscordID).Return(character, nil)
		characters.On("Update", mock.Anything, character).Return(nil).Maybe()
	}
	svc := NewRPGService(characters, l.players, l.history, l.publisher, testCatalog(t), fixedClock{testNow}, &stubRandom{},
		5*time.Minute, 30*time.Minute)
	return svc, characters, l
}

func freshCharacter(class models.RPGClass) *models.RPGPlayer {
	return &models.RPGPlayer{
		DiscordID:     1,
		Class:         class,
		Zone:          "karakura",
		Stats:         models.DefaultRPGStats(),
		UnlockedZones: []string{"karakura"},
	}
}

func TestRPGService_EnsureCharacter(t *testing.T) {
	ctx := context.Background()
	svc, characters, _ := newRPGFixture(t, nil)
	characters.On("GetForUpdate", ctx, int64(1)).Return(nil, nil)
	characters.On("Create", ctx, mock.AnythingOfType("*models.RPGPlayer")).Return(nil)

	character, err := svc.EnsureCharacter(ctx, 1, "rukia")
	require.NoError(t, err)
	assert.Equal(t, "karakura", character.Zone)
	assert.Equal(t, []string{"karakura"}, character.UnlockedZones)
	assert.Equal(t, models.DefaultRPGStats(), character.Stats)
}

func TestRPGService_ChooseClass(t *testing.T) {
	ctx := context.Background()

	svc, _, _ := newRPGFixture(t, freshCharacter(""))
	character, err := svc.ChooseClass(ctx, 1, "rukia", models.RPGClassQuincy)
	require.NoError(t, err)
	assert.Equal(t, models.RPGClassQuincy, character.Class)

	_, err = svc.ChooseClass(ctx, 1, "rukia", models.RPGClassArrancar)
	assert.ErrorIs(t, err, ErrRPGClassChosen)

	_, err = svc.ChooseClass(ctx, 1, "rukia", "vizard")
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestRPGService_Travel(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newRPGFixture(t, freshCharacter(models.RPGClassShinigami))

	_, err := svc.Travel(ctx, 1, "rukia", "las_noches")
	assert.ErrorIs(t, err, ErrZoneLocked)

	_, err = svc.Travel(ctx, 1, "rukia", "dangai")
	assert.ErrorIs(t, err, ErrUnknownZone)
}

func TestRPGService_Heal(t *testing.T) {
	ctx := context.Background()

	t.Run("full health", func(t *testing.T) {
		svc, _, _ := newRPGFixture(t, freshCharacter(models.RPGClassShinigami))
		_, err := svc.Heal(ctx, 1, "rukia")
		assert.ErrorIs(t, err, ErrFullHealth)
	})

	t.Run("heals and starts the cooldown", func(t *testing.T) {
		character := freshCharacter(models.RPGClassShinigami)
		character.Stats.HP = 20
		svc, _, _ := newRPGFixture(t, character)

		_, err := svc.Heal(ctx, 1, "rukia")
		require.NoError(t, err)
		assert.Equal(t, character.Stats.MaxHP, character.Stats.HP)
		assert.Equal(t, testNow.Add(30*time.Minute), character.ReadyAt(models.CooldownHeal))

		character.Stats.HP = 20
		_, err = svc.Heal(ctx, 1, "rukia")
		_, ok := AsCooldown(err)
		assert.True(t, ok)
	})
}

func TestRPGService_Fight(t *testing.T) {
	ctx := context.Background()

	t.Run("needs a class", func(t *testing.T) {
		svc, _, _ := newRPGFixture(t, freshCharacter(""))
		_, err := svc.Fight(ctx, 1, "rukia", "")
		assert.ErrorIs(t, err, ErrNoRPGClass)
	})

	t.Run("unknown enemy", func(t *testing.T) {
		svc, _, _ := newRPGFixture(t, freshCharacter(models.RPGClassShinigami))
		_, err := svc.Fight(ctx, 1, "rukia", "espada")
		assert.ErrorIs(t, err, ErrUnknownEnemy)
	})

	t.Run("win levels up and pays", func(t *testing.T) {
		character := freshCharacter(models.RPGClassShinigami)
		character.Stats.XP = 90
		svc, _, l := newRPGFixture(t, character)
		l.players.On("GetForUpdate", ctx, int64(1)).Return(&models.Player{DiscordID: 1, Points: 0}, nil)
		l.expectChange(1, 2, 2)

		result, err := svc.Fight(ctx, 1, "rukia", "small_hollow")
		require.NoError(t, err)
		assert.Equal(t, combat.OutcomeWin, result.Combat.Outcome)
		assert.Equal(t, 20, result.XPGained)
		assert.Equal(t, 1, result.LevelsUp)
		assert.Equal(t, int64(2), result.Reward)

		assert.Equal(t, 2, character.Stats.Level)
		assert.Equal(t, 10, character.Stats.XP)
		assert.Equal(t, 110, character.Stats.MaxHP)
		assert.Equal(t, 110, character.Stats.HP)
		assert.Equal(t, testNow.Add(5*time.Minute), character.ReadyAt(models.CooldownFight))
		l.assertExpectations(t)

		finished := published[events.CombatFinishedEvent](l.publisher)
		require.Len(t, finished, 1)
		assert.Equal(t, "win", finished[0].Outcome)
	})

	t.Run("cooldown", func(t *testing.T) {
		character := freshCharacter(models.RPGClassShinigami)
		character.StartCooldown(models.CooldownFight, testNow.Add(time.Minute))
		svc, _, _ := newRPGFixture(t, character)

		_, err := svc.Fight(ctx, 1, "rukia", "")
		cd, ok := AsCooldown(err)
		require.True(t, ok)
		assert.Equal(t, time.Minute, cd.Remaining)
	})

	t.Run("knocked out", func(t *testing.T) {
		character := freshCharacter(models.RPGClassShinigami)
		character.Stats.HP = 0
		svc, _, _ := newRPGFixture(t, character)

		_, err := svc.Fight(ctx, 1, "rukia", "")
		assert.ErrorIs(t, err, ErrKnockedOut)
	})
}

func TestGainXP(t *testing.T) {
	stats := models.DefaultRPGStats()
	stats.HP = 30

	levels := gainXP(&stats, 350)

	// 100 to reach level 2, 200 to reach level 3, 50 left over
	assert.Equal(t, 2, levels)
	assert.Equal(t, 3, stats.Level)
	assert.Equal(t, 50, stats.XP)
	assert.Equal(t, 120, stats.MaxHP)
	assert.Equal(t, 120, stats.HP)
	assert.Equal(t, 16, stats.Attack)
	assert.Equal(t, 8, stats.Defense)
	assert.Equal(t, 12, stats.Speed)

	stats.HP = 40
	assert.Zero(t, gainXP(&stats, 10))
	assert.Equal(t, 40, stats.HP)
}
