package repository

import (
	"context"
	"errors"
	"fmt"

	"reiatsu/models"

	"github.com/jackc/pgx/v5"
)

// SteamKeyRepository implements the SteamKeyRepository interface.
// The vault is shared by all guilds; guild_id records where a key was claimed.
type SteamKeyRepository struct {
	q       Queryable
	guildID int64
}

func newSteamKeyRepository(tx Queryable, guildID int64) *SteamKeyRepository {
	return &SteamKeyRepository{q: tx, guildID: guildID}
}

// ClaimRandom assigns an available key to the user, nil when none is left.
// Concurrent buyers skip keys locked by each other.
func (r *SteamKeyRepository) ClaimRandom(ctx context.Context, discordID int64) (*models.SteamKey, error) {
	query := `
		UPDATE steam_keys
		SET claimed_by = $2, guild_id = $1, claimed_at = NOW()
		WHERE id = (
			SELECT id FROM steam_keys
			WHERE claimed_by IS NULL
			ORDER BY random()
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, game_name, key_code, claimed_by, guild_id, claimed_at, created_at
	`

	var key models.SteamKey
	err := r.q.QueryRow(ctx, query, r.guildID, discordID).Scan(
		&key.ID,
		&key.GameName,
		&key.KeyCode,
		&key.ClaimedBy,
		&key.GuildID,
		&key.ClaimedAt,
		&key.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim steam key: %w", err)
	}
	return &key, nil
}

// Add stores a new key in the vault
func (r *SteamKeyRepository) Add(ctx context.Context, gameName, keyCode string) error {
	if _, err := r.q.Exec(ctx,
		`INSERT INTO steam_keys (game_name, key_code) VALUES ($1, $2)`,
		gameName, keyCode,
	); err != nil {
		return fmt.Errorf("failed to add steam key for %s: %w", gameName, err)
	}
	return nil
}

// CountAvailable returns the number of unclaimed keys
func (r *SteamKeyRepository) CountAvailable(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM steam_keys WHERE claimed_by IS NULL`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count steam keys: %w", err)
	}
	return count, nil
}
