package service

import (
	"context"
	"fmt"

	"reiatsu/catalog"
	"reiatsu/models"
)

// PlayerService covers Reiatsu profiles, transfers and classes
type PlayerService struct {
	ledger          pointsLedger
	catalog         *catalog.Catalog
	classChangeCost int64
}

// NewPlayerService creates a player service bound to one unit of work
func NewPlayerService(players PlayerRepository, history PointsHistoryRepository, publisher EventPublisher,
	cat *catalog.Catalog, classChangeCost int64) *PlayerService {
	return &PlayerService{
		ledger:          pointsLedger{players: players, history: history, publisher: publisher},
		catalog:         cat,
		classChangeCost: classChangeCost,
	}
}

// EnsureProfile returns the player's profile, creating it with zero points on first use
func (s *PlayerService) EnsureProfile(ctx context.Context, discordID int64, username string) (*models.Player, error) {
	player, err := s.ledger.players.Get(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing player: %w", err)
	}
	if player != nil {
		return player, nil
	}
	return s.ledger.ensurePlayer(ctx, discordID, username)
}

// GetProfile returns an existing profile or ErrPlayerNotFound
func (s *PlayerService) GetProfile(ctx context.Context, discordID int64) (*models.Player, error) {
	player, err := s.ledger.players.Get(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// Rank returns the leaderboard position of a player
func (s *PlayerService) Rank(ctx context.Context, discordID int64) (int, error) {
	return s.ledger.players.Rank(ctx, discordID)
}

// Leaderboard returns the top players by points
func (s *PlayerService) Leaderboard(ctx context.Context, limit int) ([]*models.Player, error) {
	if limit <= 0 {
		limit = 10
	}
	players, err := s.ledger.players.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return players, nil
}

// Champion returns the richest player with points, nil when nobody has any
func (s *PlayerService) Champion(ctx context.Context) (*models.Player, error) {
	top, err := s.Leaderboard(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 || top[0].Points == 0 {
		return nil, nil
	}
	return top[0], nil
}

// History returns the latest points changes of a player
func (s *PlayerService) History(ctx context.Context, discordID int64, limit int) ([]*models.PointsHistory, error) {
	return s.ledger.history.GetByUser(ctx, discordID, limit)
}

// Give transfers points from one player to another
func (s *PlayerService) Give(ctx context.Context, fromID int64, fromName string, toID int64, toName string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if fromID == toID {
		return ErrSelfTarget
	}

	first, second := fromID, toID
	firstName, secondName := fromName, toName
	if second < first {
		first, second = second, first
		firstName, secondName = secondName, firstName
	}
	if _, err := s.ledger.ensurePlayer(ctx, first, firstName); err != nil {
		return err
	}
	if _, err := s.ledger.ensurePlayer(ctx, second, secondName); err != nil {
		return err
	}

	if _, err := s.ledger.change(ctx, fromID, -amount, models.TransactionTypeTransferOut, map[string]any{
		"recipient_discord_id": toID,
		"recipient_username":   toName,
	}); err != nil {
		return err
	}
	if _, err := s.ledger.change(ctx, toID, amount, models.TransactionTypeTransferIn, map[string]any{
		"sender_discord_id": fromID,
		"sender_username":   fromName,
	}); err != nil {
		return err
	}
	return nil
}

// SetPoints overwrites a player's points, recording an admin adjustment
func (s *PlayerService) SetPoints(ctx context.Context, discordID int64, username string, points int64, reason string) (int64, error) {
	if points < 0 {
		return 0, ErrInvalidAmount
	}
	if _, err := s.ledger.ensurePlayer(ctx, discordID, username); err != nil {
		return 0, err
	}

	before, err := s.ledger.players.SetPoints(ctx, discordID, points)
	if err != nil {
		return 0, fmt.Errorf("failed to set points: %w", err)
	}
	if err := s.ledger.record(ctx, discordID, before, points, models.TransactionTypeAdminAdjustment, map[string]any{
		"reason": reason,
	}); err != nil {
		return 0, err
	}
	return before, nil
}

// ChooseClass sets the player's class. The first pick is free, later
// changes cost classChangeCost points. Reports whether points were charged.
func (s *PlayerService) ChooseClass(ctx context.Context, discordID int64, username string, class models.PlayerClass) (*models.Player, bool, error) {
	if _, ok := s.catalog.Class(class); !ok {
		return nil, false, ErrUnknownClass
	}

	player, err := s.ledger.ensurePlayer(ctx, discordID, username)
	if err != nil {
		return nil, false, err
	}
	if player.Class == class {
		return nil, false, ErrSameClass
	}

	charged := false
	if player.HasClass() {
		if !player.CanAfford(s.classChangeCost) {
			return nil, false, ErrInsufficientPoints
		}
		after, err := s.ledger.change(ctx, discordID, -s.classChangeCost, models.TransactionTypeClassChange, map[string]any{
			"from": string(player.Class),
			"to":   string(class),
		})
		if err != nil {
			return nil, false, err
		}
		player.Points = after
		charged = true
	}

	player.Class = class
	player.SkillArmed = false
	if err := s.ledger.players.Update(ctx, player); err != nil {
		return nil, false, fmt.Errorf("failed to update class: %w", err)
	}
	return player, charged, nil
}
