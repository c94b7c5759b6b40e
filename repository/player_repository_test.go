package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"reiatsu/models"
	"reiatsu/repository/testutil"
	"reiatsu/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGuildID int64 = 4242

func TestPlayerRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := newPlayerRepository(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	t.Run("player not found", func(t *testing.T) {
		player, err := repo.Get(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, player)
	})

	t.Run("created with zero points and no class", func(t *testing.T) {
		created, err := repo.Create(ctx, 123456, "ichigo")
		require.NoError(t, err)
		assert.Equal(t, testGuildID, created.GuildID)
		assert.Zero(t, created.Points)
		assert.Equal(t, models.ClassNone, created.Class)
		assert.Equal(t, 1, created.Level)
		assert.NotNil(t, created.Quests)

		player, err := repo.Get(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, player)
		assert.Equal(t, "ichigo", player.Username)
	})

	t.Run("creating twice keeps the row", func(t *testing.T) {
		_, err := repo.AddPoints(ctx, 123456, 7)
		require.NoError(t, err)

		again, err := repo.Create(ctx, 123456, "kurosaki")
		require.NoError(t, err)
		assert.Equal(t, int64(7), again.Points)
		assert.Equal(t, "kurosaki", again.Username)
	})

	t.Run("profiles are per guild", func(t *testing.T) {
		other := newPlayerRepository(testDB.DB.Pool, testGuildID+1)
		player, err := other.Get(ctx, 123456)
		require.NoError(t, err)
		assert.Nil(t, player)
	})
}

func TestPlayerRepository_AddPoints(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := newPlayerRepository(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, "renji")
	require.NoError(t, err)

	points, err := repo.AddPoints(ctx, 1, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(25), points)

	points, err = repo.AddPoints(ctx, 1, -25)
	require.NoError(t, err)
	assert.Zero(t, points)

	_, err = repo.AddPoints(ctx, 1, -1)
	assert.ErrorIs(t, err, service.ErrInsufficientPoints)

	_, err = repo.AddPoints(ctx, 2, 5)
	assert.ErrorIs(t, err, service.ErrPlayerNotFound)
}

func TestPlayerRepository_ConcurrentAddPoints(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := newPlayerRepository(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, "byakuya")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddPoints(ctx, 1, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	player, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(20), player.Points)
}

func TestPlayerRepository_UpdateAndSetPoints(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := newPlayerRepository(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	player, err := repo.Create(ctx, 1, "rukia")
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	player.Class = models.ClassIllusionist
	player.LastStealAt = &now
	player.ShieldUntil = &now
	player.SkillArmed = true
	player.Title = "Captain"
	player.Level = 3
	player.Quest("steal_3").Progress = 2
	require.NoError(t, repo.Update(ctx, player))

	loaded, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ClassIllusionist, loaded.Class)
	assert.True(t, loaded.SkillArmed)
	assert.Equal(t, "Captain", loaded.Title)
	assert.Equal(t, 3, loaded.Level)
	assert.True(t, now.Equal(*loaded.LastStealAt))
	assert.Equal(t, 2, loaded.Quests["steal_3"].Progress)

	before, err := repo.SetPoints(ctx, 1, 500)
	require.NoError(t, err)
	assert.Zero(t, before)

	before, err = repo.SetPoints(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(500), before)

	player.Class = models.ClassNone
	require.NoError(t, repo.Update(ctx, player))
	loaded, err = repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ClassNone, loaded.Class)
	assert.Equal(t, int64(10), loaded.Points, "Update must not touch points")
}

func TestPlayerRepository_TopAndRank(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := newPlayerRepository(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	for id, points := range map[int64]int64{1: 10, 2: 30, 3: 30, 4: 0} {
		_, err := repo.Create(ctx, id, "player")
		require.NoError(t, err)
		if points > 0 {
			_, err = repo.AddPoints(ctx, id, points)
			require.NoError(t, err)
		}
	}

	top, err := repo.Top(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{top[0].DiscordID, top[1].DiscordID, top[2].DiscordID})

	rank, err := repo.Rank(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, rank)

	rank, err = repo.Rank(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, rank)

	_, err = repo.Rank(ctx, 99)
	assert.ErrorIs(t, err, service.ErrPlayerNotFound)
}
