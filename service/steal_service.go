package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"reiatsu/catalog"
	"reiatsu/events"
	"reiatsu/models"
)

// StealResult describes the outcome of a steal attempt
type StealResult struct {
	Success     bool
	Dodged      bool
	Doubled     bool
	Guaranteed  bool
	Amount      int64
	ThiefPoints int64
	NextStealAt time.Time
}

// StealService resolves steals between two players of a guild
type StealService struct {
	ledger          pointsLedger
	catalog         *catalog.Catalog
	clock           Clock
	rng             Random
	defaultCooldown time.Duration
}

// NewStealService creates a steal service bound to one unit of work
func NewStealService(players PlayerRepository, history PointsHistoryRepository, publisher EventPublisher,
	cat *catalog.Catalog, clock Clock, rng Random, defaultCooldown time.Duration) *StealService {
	return &StealService{
		ledger:          pointsLedger{players: players, history: history, publisher: publisher},
		catalog:         cat,
		clock:           clock,
		rng:             rng,
		defaultCooldown: defaultCooldown,
	}
}

// Cooldown returns the steal cooldown for a class
func (s *StealService) Cooldown(class models.PlayerClass) time.Duration {
	if def, ok := s.catalog.Class(class); ok && def.StealCooldown > 0 {
		return def.StealCooldown
	}
	return s.defaultCooldown
}

func (s *StealService) chance(class models.PlayerClass) float64 {
	if def, ok := s.catalog.Class(class); ok && def.StealChance > 0 {
		return def.StealChance
	}
	return s.catalog.Economy.BaseStealChance
}

// Steal makes thiefID try to take a share of targetID's points.
// Both rows stay locked for the whole attempt so concurrent steals serialize.
func (s *StealService) Steal(ctx context.Context, thiefID int64, thiefName string, targetID int64) (*StealResult, error) {
	if thiefID == targetID {
		return nil, ErrSelfTarget
	}

	thief, target, err := s.lockPair(ctx, thiefID, thiefName, targetID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	cooldown := s.Cooldown(thief.Class)
	if err := checkCooldown("steal", thief.StealReadyAt(cooldown), now); err != nil {
		return nil, err
	}
	if target.HasShield(now) {
		return nil, ErrTargetShielded
	}
	if target.Points <= 0 {
		return nil, ErrTargetEmpty
	}

	result := &StealResult{NextStealAt: now.Add(cooldown), ThiefPoints: thief.Points}

	if thief.Class == models.ClassThief && thief.SkillArmed {
		result.Guaranteed = true
		thief.SkillArmed = false
	}
	result.Success = result.Guaranteed || s.rng.Float64() < s.chance(thief.Class)

	if result.Success && target.Class == models.ClassIllusionist && s.rng.Float64() < s.catalog.Economy.IllusionistDodgeChance {
		result.Success = false
		result.Dodged = true
	}

	if result.Success {
		amount := int64(math.Floor(float64(target.Points) * s.catalog.Economy.StealFraction))
		if amount < 1 {
			amount = 1
		}
		if thief.Class == models.ClassThief && s.rng.Float64() < s.catalog.Economy.ThiefDoubleChance {
			amount *= 2
			result.Doubled = true
		}
		if amount > target.Points {
			amount = target.Points
		}
		result.Amount = amount

		if _, err := s.ledger.change(ctx, targetID, -amount, models.TransactionTypeStealOut, map[string]any{
			"thief_discord_id": thiefID,
		}); err != nil {
			return nil, err
		}
		after, err := s.ledger.change(ctx, thiefID, amount, models.TransactionTypeStealIn, map[string]any{
			"target_discord_id": targetID,
			"doubled":           result.Doubled,
		})
		if err != nil {
			return nil, err
		}
		result.ThiefPoints = after
	}

	thief.LastStealAt = &now
	if err := s.ledger.players.Update(ctx, thief); err != nil {
		return nil, fmt.Errorf("failed to update thief: %w", err)
	}

	s.ledger.publisher.Publish(events.StealAttemptedEvent{
		GuildID:  thief.GuildID,
		ThiefID:  thiefID,
		TargetID: targetID,
		Success:  result.Success,
		Dodged:   result.Dodged,
		Amount:   result.Amount,
	})
	return result, nil
}

// lockPair locks both rows in ascending id order to avoid deadlocks
func (s *StealService) lockPair(ctx context.Context, thiefID int64, thiefName string, targetID int64) (*models.Player, *models.Player, error) {
	lockTarget := func() (*models.Player, error) {
		target, err := s.ledger.players.GetForUpdate(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("failed to get target: %w", err)
		}
		if target == nil {
			return nil, ErrPlayerNotFound
		}
		return target, nil
	}

	var thief, target *models.Player
	var err error
	if thiefID < targetID {
		if thief, err = s.ledger.ensurePlayer(ctx, thiefID, thiefName); err != nil {
			return nil, nil, err
		}
		if target, err = lockTarget(); err != nil {
			return nil, nil, err
		}
	} else {
		if target, err = lockTarget(); err != nil {
			return nil, nil, err
		}
		if thief, err = s.ledger.ensurePlayer(ctx, thiefID, thiefName); err != nil {
			return nil, nil, err
		}
	}
	return thief, target, nil
}
