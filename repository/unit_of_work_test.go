package repository

import (
	"context"
	"sync"
	"testing"

	"reiatsu/events"
	"reiatsu/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	var mu sync.Mutex
	var received []events.Event
	bus.SubscribeAll(func(_ context.Context, e events.Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	t.Run("rollback discards writes and events", func(t *testing.T) {
		uow := factory.CreateForGuild(testGuildID)
		require.NoError(t, uow.Begin(ctx))

		_, err := uow.PlayerRepository().Create(ctx, 1, "hiyori")
		require.NoError(t, err)
		uow.EventBus().Publish(events.PlayerCreatedEvent{GuildID: testGuildID, DiscordID: 1})
		require.NoError(t, uow.Rollback())
		bus.Wait()

		player, err := newPlayerRepository(testDB.DB.Pool, testGuildID).Get(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, player)

		mu.Lock()
		assert.Empty(t, received)
		mu.Unlock()
	})

	t.Run("commit persists and flushes events", func(t *testing.T) {
		uow := factory.CreateForGuild(testGuildID)
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		_, err := uow.PlayerRepository().Create(ctx, 1, "hiyori")
		require.NoError(t, err)
		uow.EventBus().Publish(events.PlayerCreatedEvent{GuildID: testGuildID, DiscordID: 1})
		require.NoError(t, uow.Commit())
		bus.Wait()

		player, err := newPlayerRepository(testDB.DB.Pool, testGuildID).Get(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, player)

		mu.Lock()
		assert.Len(t, received, 1)
		mu.Unlock()
	})

	t.Run("repositories need Begin", func(t *testing.T) {
		uow := factory.CreateForGuild(testGuildID)
		assert.Panics(t, func() { uow.PlayerRepository() })
		assert.Error(t, uow.Commit())
		assert.NoError(t, uow.Rollback())
	})
}
