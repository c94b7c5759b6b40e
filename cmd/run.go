package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reiatsu/admin"
	"reiatsu/bot"
	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/config"
	"reiatsu/database"
	"reiatsu/events"
	"reiatsu/infrastructure"
	"reiatsu/infrastructure/observability"
	"reiatsu/repository"
	"reiatsu/service"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const catalogDebounce = 500 * time.Millisecond

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	logs := setupLogging(cfg)
	log.Infof("Starting reiatsu bot in %s mode...", cfg.Environment)

	databaseURL := cfg.GetDatabaseURL()
	log.Info("Applying database migrations...")
	if err := database.RunMigrationsWithURL(databaseURL); err != nil {
		return err
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	store, err := catalog.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Failed to flush metrics")
		}
	}()

	eventBus := events.NewBus()
	metrics.Observe(eventBus)

	if cfg.NatsURL != "" {
		publisher := infrastructure.NewNATSPublisher(cfg.NatsURL, metrics)
		if err := publisher.Connect(ctx); err != nil {
			return err
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				log.WithError(err).Warn("Failed to close NATS publisher")
			}
		}()
		publisher.Attach(eventBus)
	}

	deps := &common.Deps{
		UowFactory: repository.NewUnitOfWorkFactory(db, eventBus),
		Catalog:    store,
		Config:     cfg,
		Clock:      service.SystemClock(),
		Random:     service.NewRandom(),
	}

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(deps, eventBus, metrics)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	defer func() {
		if err := discordBot.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord bot")
		}
		eventBus.Wait()
	}()

	group, ctx := errgroup.WithContext(ctx)

	if store.Dir() != "" {
		watcher, err := catalog.NewWatcher(store, catalogDebounce)
		if err != nil {
			return err
		}
		watcher.OnReload(func(*catalog.Catalog) {
			log.Info("Catalog reloaded from disk")
		})
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	if cfg.AdminEnabled() {
		panel, err := admin.NewServer(admin.Config{
			Addr:       cfg.AdminAddr,
			Password:   cfg.AdminPassword,
			JWTSecret:  cfg.AdminJWTSecret,
			SessionTTL: cfg.AdminSessionTTL,
		}, repository.NewAdminRepository(db), &adminActions{deps: deps, bot: discordBot}, logs)
		if err != nil {
			return fmt.Errorf("failed to create admin panel: %w", err)
		}
		group.Go(func() error {
			return panel.Run(ctx)
		})
	}

	group.Go(func() error {
		<-ctx.Done()
		return nil
	})

	log.Info("Bot is running")
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("Shutting down...")
	return nil
}

// adminActions carries out the panel's write operations
type adminActions struct {
	deps *common.Deps
	bot  *bot.Bot
}

func (a *adminActions) SetPoints(ctx context.Context, guildID, discordID, points int64) error {
	return setPoints(ctx, a.deps, guildID, discordID, points, "set from admin panel")
}

func (a *adminActions) ForceSpawn(ctx context.Context, guildID int64) error {
	return a.bot.ForceSpawn(ctx, guildID)
}

func (a *adminActions) ReloadCatalog() error {
	return a.deps.Catalog.Reload()
}

func setPoints(ctx context.Context, deps *common.Deps, guildID, discordID, points int64, reason string) error {
	return deps.InGuild(ctx, guildID, func(svc *common.Services) error {
		before, err := svc.Players().SetPoints(ctx, discordID, "", points, reason)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"guildID":   guildID,
			"discordID": discordID,
			"before":    before,
			"after":     points,
		}).Info("Points set")
		return nil
	})
}
