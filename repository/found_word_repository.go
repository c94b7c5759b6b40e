package repository

import (
	"context"
	"fmt"
)

// FoundWordRepository implements the FoundWordRepository interface
type FoundWordRepository struct {
	q       Queryable
	guildID int64
}

func newFoundWordRepository(tx Queryable, guildID int64) *FoundWordRepository {
	return &FoundWordRepository{q: tx, guildID: guildID}
}

// Add records the word, reporting false when the user already found it
func (r *FoundWordRepository) Add(ctx context.Context, discordID int64, word string) (bool, error) {
	result, err := r.q.Exec(ctx, `
		INSERT INTO found_words (guild_id, discord_id, word)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, discord_id, word) DO NOTHING
	`, r.guildID, discordID, word)
	if err != nil {
		return false, fmt.Errorf("failed to record word for %d: %w", discordID, err)
	}
	return result.RowsAffected() == 1, nil
}

// CountByUser returns how many distinct words the user found
func (r *FoundWordRepository) CountByUser(ctx context.Context, discordID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM found_words WHERE guild_id = $1 AND discord_id = $2`,
		r.guildID, discordID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count words of %d: %w", discordID, err)
	}
	return count, nil
}
