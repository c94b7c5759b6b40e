package service

import (
	"context"
	"fmt"

	"reiatsu/events"
	"reiatsu/models"
)

// pointsLedger bundles what every points change touches
type pointsLedger struct {
	players   PlayerRepository
	history   PointsHistoryRepository
	publisher EventPublisher
}

func (l pointsLedger) change(ctx context.Context, discordID int64, delta int64, txType models.TransactionType, metadata map[string]any) (int64, error) {
	after, err := l.players.AddPoints(ctx, discordID, delta)
	if err != nil {
		return 0, fmt.Errorf("failed to apply %s of %d to %d: %w", txType, delta, discordID, err)
	}

	return after, l.record(ctx, discordID, after-delta, after, txType, metadata)
}

func (l pointsLedger) record(ctx context.Context, discordID, before, after int64, txType models.TransactionType, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	entry := &models.PointsHistory{
		DiscordID:       discordID,
		PointsBefore:    before,
		PointsAfter:     after,
		ChangeAmount:    after - before,
		TransactionType: txType,
		Metadata:        metadata,
	}
	if err := l.history.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record points history: %w", err)
	}

	l.publisher.Publish(events.PointsChangedEvent{
		GuildID:         entry.GuildID,
		DiscordID:       discordID,
		OldPoints:       before,
		NewPoints:       after,
		ChangeAmount:    entry.ChangeAmount,
		TransactionType: txType,
	})
	return nil
}

// ensurePlayer returns the locked profile of discordID, creating it first if needed
func (l pointsLedger) ensurePlayer(ctx context.Context, discordID int64, username string) (*models.Player, error) {
	player, err := l.players.GetForUpdate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player != nil {
		return player, nil
	}

	player, err = l.players.Create(ctx, discordID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	if err := l.record(ctx, discordID, 0, 0, models.TransactionTypeInitial, map[string]any{"username": username}); err != nil {
		return nil, err
	}
	l.publisher.Publish(events.PlayerCreatedEvent{GuildID: player.GuildID, DiscordID: discordID, Username: username})
	return player, nil
}
