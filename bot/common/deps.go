package common

import (
	"context"
	"fmt"

	"reiatsu/catalog"
	"reiatsu/config"
	"reiatsu/service"
)

// Deps are the shared dependencies every feature needs
type Deps struct {
	UowFactory service.UnitOfWorkFactory
	Catalog    *catalog.Store
	Config     *config.Config
	Clock      service.Clock
	Random     service.Random
}

// Services builds the services of one unit of work
type Services struct {
	uow  service.UnitOfWork
	deps *Deps
	cat  *catalog.Catalog
}

// InGuild runs fn inside a guild-scoped unit of work and commits when fn
// succeeds. Events published by fn are released after the commit.
func (d *Deps) InGuild(ctx context.Context, guildID int64, fn func(svc *Services) error) error {
	uow := d.UowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(&Services{uow: uow, deps: d, cat: d.Catalog.Get()}); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Catalog returns the catalog snapshot used by this unit of work
func (s *Services) Catalog() *catalog.Catalog {
	return s.cat
}

// Players returns the profile service
func (s *Services) Players() *service.PlayerService {
	return service.NewPlayerService(
		s.uow.PlayerRepository(),
		s.uow.PointsHistoryRepository(),
		s.uow.EventBus(),
		s.cat,
		s.deps.Config.ClassChangeCost,
	)
}

// Steal returns the steal service
func (s *Services) Steal() *service.StealService {
	return service.NewStealService(
		s.uow.PlayerRepository(),
		s.uow.PointsHistoryRepository(),
		s.uow.EventBus(),
		s.cat,
		s.deps.Clock,
		s.deps.Random,
		s.deps.Config.StealCooldown,
	)
}

// Skills returns the class skill service
func (s *Services) Skills() *service.SkillService {
	return service.NewSkillService(
		s.uow.PlayerRepository(),
		s.uow.PointsHistoryRepository(),
		s.uow.SpawnRepository(),
		s.uow.EventBus(),
		s.cat,
		s.deps.Clock,
		s.deps.Random,
	)
}

// Spawns returns the spawner service
func (s *Services) Spawns() *service.SpawnService {
	return service.NewSpawnService(
		s.uow.SpawnRepository(),
		s.uow.PlayerRepository(),
		s.uow.PointsHistoryRepository(),
		s.uow.EventBus(),
		s.cat,
		s.deps.Clock,
		s.deps.Random,
	)
}

// Shop returns the shop service
func (s *Services) Shop() *service.ShopService {
	return service.NewShopService(
		s.uow.PlayerRepository(),
		s.uow.PointsHistoryRepository(),
		s.uow.SteamKeyRepository(),
		s.uow.EventBus(),
		s.cat,
		s.deps.Clock,
	)
}

// Quests returns the quest service
func (s *Services) Quests() *service.QuestService {
	return service.NewQuestService(
		s.uow.PlayerRepository(),
		s.uow.PointsHistoryRepository(),
		s.uow.EventBus(),
		s.cat,
		s.deps.Clock,
	)
}

// RPG returns the RPG service
func (s *Services) RPG() *service.RPGService {
	return service.NewRPGService(
		s.uow.RPGRepository(),
		s.uow.PlayerRepository(),
		s.uow.PointsHistoryRepository(),
		s.uow.EventBus(),
		s.cat,
		s.deps.Clock,
		s.deps.Random,
		s.deps.Config.FightCooldown,
		s.deps.Config.HealCooldown,
	)
}

// Garden returns the garden service
func (s *Services) Garden() *service.GardenService {
	return service.NewGardenService(
		s.uow.GardenRepository(),
		s.uow.PlayerRepository(),
		s.uow.PointsHistoryRepository(),
		s.uow.EventBus(),
		s.cat,
		s.deps.Clock,
	)
}

// Collection returns the car collection service
func (s *Services) Collection() *service.CollectionService {
	return service.NewCollectionService(
		s.uow.CarRepository(),
		s.uow.PlayerRepository(),
		s.uow.PointsHistoryRepository(),
		s.uow.EventBus(),
		s.cat,
		s.deps.Random,
	)
}

// Minigames returns the minigame reward service
func (s *Services) Minigames() *service.MinigameService {
	return service.NewMinigameService(
		s.uow.FoundWordRepository(),
		s.uow.PlayerRepository(),
		s.uow.PointsHistoryRepository(),
		s.uow.EventBus(),
		s.cat,
	)
}

// Settings returns the guild settings service
func (s *Services) Settings() *service.GuildSettingsService {
	return service.NewGuildSettingsService(s.uow.GuildSettingsRepository())
}
