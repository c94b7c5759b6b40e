package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"reiatsu/models"
)

// PointsHistoryRepository implements the PointsHistoryRepository interface
type PointsHistoryRepository struct {
	q       Queryable
	guildID int64
}

func newPointsHistoryRepository(tx Queryable, guildID int64) *PointsHistoryRepository {
	return &PointsHistoryRepository{q: tx, guildID: guildID}
}

// Record creates a new points history entry
func (r *PointsHistoryRepository) Record(ctx context.Context, history *models.PointsHistory) error {
	metadataJSON, err := json.Marshal(history.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal history metadata: %w", err)
	}
	if history.Metadata == nil {
		metadataJSON = []byte("{}")
	}

	query := `
		INSERT INTO points_history
		(guild_id, discord_id, points_before, points_after, change_amount, transaction_type, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		r.guildID,
		history.DiscordID,
		history.PointsBefore,
		history.PointsAfter,
		history.ChangeAmount,
		history.TransactionType,
		metadataJSON,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record points history for user %d: %w", history.DiscordID, err)
	}

	// Update the history object with the guild ID that was actually inserted
	history.GuildID = r.guildID
	return nil
}

// GetByUser returns the latest entries for a user, newest first
func (r *PointsHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.PointsHistory, error) {
	query := `
		SELECT id, guild_id, discord_id, points_before, points_after, change_amount,
		       transaction_type, metadata, created_at
		FROM points_history
		WHERE guild_id = $1 AND discord_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, r.guildID, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query points history: %w", err)
	}
	defer rows.Close()

	var entries []*models.PointsHistory
	for rows.Next() {
		var entry models.PointsHistory
		var metadataJSON []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.GuildID,
			&entry.DiscordID,
			&entry.PointsBefore,
			&entry.PointsAfter,
			&entry.ChangeAmount,
			&entry.TransactionType,
			&metadataJSON,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan points history: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal history metadata: %w", err)
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating points history: %w", err)
	}
	return entries, nil
}
