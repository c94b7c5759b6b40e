package repository

import (
	"context"
	"errors"
	"fmt"

	"reiatsu/database"
	"reiatsu/events"
	"reiatsu/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                *database.DB
	tx                pgx.Tx
	ctx               context.Context
	guildID           int64
	transactionalBus  *events.TransactionalBus
	playerRepo        service.PlayerRepository
	pointsHistoryRepo service.PointsHistoryRepository
	spawnRepo         service.SpawnRepository
	rpgRepo           service.RPGRepository
	gardenRepo        service.GardenRepository
	steamKeyRepo      service.SteamKeyRepository
	foundWordRepo     service.FoundWordRepository
	carRepo           service.CarRepository
	guildSettingsRepo service.GuildSettingsRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// CreateForGuild creates a unit of work whose repositories are scoped to guildID
func (f *unitOfWorkFactory) CreateForGuild(guildID int64) service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		guildID:          guildID,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.playerRepo = newPlayerRepository(tx, u.guildID)
	u.pointsHistoryRepo = newPointsHistoryRepository(tx, u.guildID)
	u.spawnRepo = newSpawnRepository(tx, u.guildID)
	u.rpgRepo = newRPGRepository(tx, u.guildID)
	u.gardenRepo = newGardenRepository(tx, u.guildID)
	u.steamKeyRepo = newSteamKeyRepository(tx, u.guildID)
	u.foundWordRepo = newFoundWordRepository(tx, u.guildID)
	u.carRepo = newCarRepository(tx, u.guildID)
	u.guildSettingsRepo = newGuildSettingsRepository(tx, u.guildID)

	return nil
}

// Commit commits the transaction and releases the queued events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		if err := u.transactionalBus.Flush(u.ctx); err != nil {
			return fmt.Errorf("failed to flush events: %w", err)
		}
	}

	return nil
}

// Rollback rolls back the transaction and drops the queued events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// PlayerRepository returns the player repository for this unit of work
func (u *unitOfWork) PlayerRepository() service.PlayerRepository {
	if u.playerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.playerRepo
}

// PointsHistoryRepository returns the points history repository for this unit of work
func (u *unitOfWork) PointsHistoryRepository() service.PointsHistoryRepository {
	if u.pointsHistoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.pointsHistoryRepo
}

// SpawnRepository returns the spawn repository for this unit of work
func (u *unitOfWork) SpawnRepository() service.SpawnRepository {
	if u.spawnRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.spawnRepo
}

// RPGRepository returns the RPG repository for this unit of work
func (u *unitOfWork) RPGRepository() service.RPGRepository {
	if u.rpgRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.rpgRepo
}

// GardenRepository returns the garden repository for this unit of work
func (u *unitOfWork) GardenRepository() service.GardenRepository {
	if u.gardenRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gardenRepo
}

// SteamKeyRepository returns the Steam key repository for this unit of work
func (u *unitOfWork) SteamKeyRepository() service.SteamKeyRepository {
	if u.steamKeyRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.steamKeyRepo
}

// FoundWordRepository returns the found word repository for this unit of work
func (u *unitOfWork) FoundWordRepository() service.FoundWordRepository {
	if u.foundWordRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.foundWordRepo
}

// CarRepository returns the car repository for this unit of work
func (u *unitOfWork) CarRepository() service.CarRepository {
	if u.carRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.carRepo
}

// GuildSettingsRepository returns the guild settings repository for this unit of work
func (u *unitOfWork) GuildSettingsRepository() service.GuildSettingsRepository {
	if u.guildSettingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.guildSettingsRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
