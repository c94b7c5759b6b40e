package service

import (
	"context"
	"fmt"
	"time"

	"reiatsu/catalog"
	"reiatsu/models"
)

// SkillResult describes what activating a class skill did
type SkillResult struct {
	Class   models.PlayerClass
	Skill   string
	Armed   bool
	ReadyAt time.Time

	// Illusionist: the caller must post a fake spawn in FakeSpawnChannelID
	// and record it with SpawnService.RecordPosted inside the same unit of work.
	FakeSpawnChannelID int64

	// Gambler
	Cost   int64
	Payout int64
	Points int64
}

// SkillService activates class skills
type SkillService struct {
	ledger  pointsLedger
	spawns  SpawnRepository
	catalog *catalog.Catalog
	clock   Clock
	rng     Random
}

// NewSkillService creates a skill service bound to one unit of work
func NewSkillService(players PlayerRepository, history PointsHistoryRepository, spawns SpawnRepository, publisher EventPublisher,
	cat *catalog.Catalog, clock Clock, rng Random) *SkillService {
	return &SkillService{
		ledger:  pointsLedger{players: players, history: history, publisher: publisher},
		spawns:  spawns,
		catalog: cat,
		clock:   clock,
		rng:     rng,
	}
}

// Activate triggers the class skill of a player
func (s *SkillService) Activate(ctx context.Context, discordID int64, username string) (*SkillResult, error) {
	player, err := s.ledger.ensurePlayer(ctx, discordID, username)
	if err != nil {
		return nil, err
	}
	if !player.HasClass() {
		return nil, ErrNoClass
	}
	def, ok := s.catalog.Class(player.Class)
	if !ok {
		return nil, ErrUnknownClass
	}

	now := s.clock.Now()
	if err := checkCooldown(def.SkillName, player.SkillReadyAt(def.SkillCooldown), now); err != nil {
		return nil, err
	}

	result := &SkillResult{Class: player.Class, Skill: def.SkillName, ReadyAt: now.Add(def.SkillCooldown), Points: player.Points}

	switch player.Class {
	case models.ClassThief, models.ClassAbsorber:
		if player.SkillArmed {
			return nil, ErrSkillAlreadyArmed
		}
		player.SkillArmed = true
		result.Armed = true

	case models.ClassIllusionist:
		config, err := s.spawns.GetOrCreate(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get spawn config: %w", err)
		}
		if config.ChannelID == nil {
			return nil, ErrNoSpawnChannel
		}
		if config.IsSpawn {
			return nil, ErrSpawnActive
		}
		result.FakeSpawnChannelID = *config.ChannelID

	case models.ClassGambler:
		if err := s.gamble(ctx, player, result); err != nil {
			return nil, err
		}
	}

	player.LastSkillAt = &now
	if err := s.ledger.players.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	return result, nil
}

// gamble pays the stake then rolls 0, 50 or 100 with 60/30/10 odds
func (s *SkillService) gamble(ctx context.Context, player *models.Player, result *SkillResult) error {
	cost := s.catalog.Economy.GambleCost
	if !player.CanAfford(cost) {
		return ErrInsufficientPoints
	}

	after, err := s.ledger.change(ctx, player.DiscordID, -cost, models.TransactionTypeSkillGamble, map[string]any{"stake": cost})
	if err != nil {
		return err
	}

	roll := s.rng.Float64()
	var payout int64
	switch {
	case roll < 0.6:
		payout = 0
	case roll < 0.9:
		payout = 50
	default:
		payout = 100
	}

	if payout > 0 {
		after, err = s.ledger.change(ctx, player.DiscordID, payout, models.TransactionTypeSkillGamble, map[string]any{"payout": payout})
		if err != nil {
			return err
		}
	}

	player.Points = after
	result.Cost = cost
	result.Payout = payout
	result.Points = after
	return nil
}
