package bot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

const sessionCleanupInterval = 5 * time.Minute

// StartSpawnWorker polls the spawn timers of every guild.
// Returns a cleanup function to stop the worker gracefully
func (b *Bot) StartSpawnWorker(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)
	ticker := time.NewTicker(b.deps.Config.SpawnPollInterval)
	done := make(chan struct{})

	go func() {
		defer close(done)
		log.Infof("Spawn worker started, polling every %s", b.deps.Config.SpawnPollInterval)

		for {
			select {
			case <-ctx.Done():
				log.Info("Spawn worker shutting down...")
				return
			case <-ticker.C:
				b.spawn.RunDue(ctx, b.session)
			}
		}
	}()

	// Return cleanup function
	return func() {
		ticker.Stop()
		cancel()
		<-done
	}
}

// StartSessionCleanupWorker drops abandoned memory boards and quiz rounds
func (b *Bot) StartSessionCleanupWorker(ctx context.Context) func() {
	ticker := time.NewTicker(sessionCleanupInterval)
	stopChan := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopChan:
				return
			case <-ticker.C:
				if removed := b.games.CleanupSessions(); removed > 0 {
					log.WithField("removed", removed).Debug("Cleaned up game sessions")
				}
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
		<-done
	}
}
