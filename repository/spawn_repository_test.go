package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"reiatsu/models"
	"reiatsu/repository/testutil"
	"reiatsu/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnRepository_Lifecycle(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := newSpawnRepository(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	config, err := repo.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, testGuildID, config.GuildID)
	assert.Nil(t, config.ChannelID)
	assert.Equal(t, models.SpawnSpeedNormal, config.Speed)
	assert.False(t, config.IsSpawn)

	channel := int64(77)
	config.ChannelID = &channel
	config.Speed = models.SpawnSpeedFast
	require.NoError(t, repo.Update(ctx, config))

	start := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.ScheduleNext(ctx, start, 3*time.Minute))

	due, err := repo.ListDueGuilds(ctx, start.Add(time.Minute), start.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = repo.ListDueGuilds(ctx, start.Add(3*time.Minute), start.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []int64{testGuildID}, due)

	illusionist := int64(5)
	require.NoError(t, repo.MarkSpawned(ctx, 900, models.SpawnKindFake, &illusionist, start))
	assert.ErrorIs(t, repo.MarkSpawned(ctx, 901, models.SpawnKindNormal, nil, start), service.ErrSpawnActive)

	// an active spawn is only due again once stale
	due, err = repo.ListDueGuilds(ctx, start.Add(time.Hour), start.Add(-time.Minute))
	require.NoError(t, err)
	assert.Empty(t, due)
	due, err = repo.ListDueGuilds(ctx, start.Add(3*time.Hour), start.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []int64{testGuildID}, due)

	missed, err := repo.Claim(ctx, 123)
	require.NoError(t, err)
	assert.Nil(t, missed)

	claimed, err := repo.Claim(ctx, 900)
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, models.SpawnKindFake, claimed.Kind)
	assert.Equal(t, channel, claimed.ChannelID)
	require.NotNil(t, claimed.SpawnedBy)
	assert.Equal(t, illusionist, *claimed.SpawnedBy)

	again, err := repo.Claim(ctx, 900)
	require.NoError(t, err)
	assert.Nil(t, again)

	config, err = repo.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.False(t, config.IsSpawn)
	assert.Nil(t, config.MessageID)
	assert.Equal(t, models.SpawnSpeedFast, config.Speed)
}

func TestSpawnRepository_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := newSpawnRepository(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	config, err := repo.GetOrCreate(ctx)
	require.NoError(t, err)
	channel := int64(77)
	config.ChannelID = &channel
	require.NoError(t, repo.Update(ctx, config))
	require.NoError(t, repo.MarkSpawned(ctx, 900, models.SpawnKindNormal, nil, time.Now()))

	var winners atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := repo.Claim(ctx, 900)
			assert.NoError(t, err)
			if claimed != nil {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}
