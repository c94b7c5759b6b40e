package bot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"reiatsu/bot/common"
	"reiatsu/bot/features/spawn"
	"reiatsu/config"
	"reiatsu/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// unavailableUnitOfWork fails every transaction so a spawn poll returns early
type unavailableUnitOfWork struct {
	service.UnitOfWork
}

func (unavailableUnitOfWork) Begin(context.Context) error {
	return errors.New("database unavailable")
}

type countingFactory struct {
	calls atomic.Int32
}

func (f *countingFactory) CreateForGuild(int64) service.UnitOfWork {
	f.calls.Add(1)
	return unavailableUnitOfWork{}
}

func newWorkerBot(factory service.UnitOfWorkFactory) *Bot {
	cfg := config.NewTestConfig()
	cfg.SpawnPollInterval = 10 * time.Millisecond
	deps := &common.Deps{UowFactory: factory, Config: cfg}
	return &Bot{deps: deps, spawn: spawn.New(deps)}
}

func TestSpawnWorker(t *testing.T) {
	t.Run("stop waits for the poll loop", func(t *testing.T) {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

		factory := &countingFactory{}
		stop := newWorkerBot(factory).StartSpawnWorker(context.Background())

		require.Eventually(t, func() bool { return factory.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
		stop()

		polled := factory.calls.Load()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, polled, factory.calls.Load(), "worker kept polling after stop")
	})

	t.Run("exits when the parent context is cancelled", func(t *testing.T) {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

		ctx, cancel := context.WithCancel(context.Background())
		factory := &countingFactory{}
		stop := newWorkerBot(factory).StartSpawnWorker(ctx)

		require.Eventually(t, func() bool { return factory.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
		cancel()

		stopped := make(chan struct{})
		go func() {
			stop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("stop did not return after cancel")
		}
	})
}

func TestSessionCleanupWorker_Stop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	stop := (&Bot{}).StartSessionCleanupWorker(context.Background())
	stop()
}
