package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"reiatsu/models"
	"reiatsu/service"

	"github.com/jackc/pgx/v5"
)

const playerColumns = `guild_id, discord_id, username, points, COALESCE(class, ''), level,
	last_steal_at, last_skill_at, skill_armed, shield_until, COALESCE(title, ''), quests,
	created_at, updated_at`

// PlayerRepository implements the PlayerRepository interface
type PlayerRepository struct {
	q       Queryable
	guildID int64
}

// newPlayerRepository creates a guild scoped player repository on a transaction
func newPlayerRepository(tx Queryable, guildID int64) *PlayerRepository {
	return &PlayerRepository{q: tx, guildID: guildID}
}

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var player models.Player
	var class string
	var questsJSON []byte
	err := row.Scan(
		&player.GuildID,
		&player.DiscordID,
		&player.Username,
		&player.Points,
		&class,
		&player.Level,
		&player.LastStealAt,
		&player.LastSkillAt,
		&player.SkillArmed,
		&player.ShieldUntil,
		&player.Title,
		&questsJSON,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	player.Class = models.PlayerClass(class)

	player.Quests = make(map[string]*models.QuestProgress)
	if len(questsJSON) > 0 {
		if err := json.Unmarshal(questsJSON, &player.Quests); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quests: %w", err)
		}
	}
	return &player, nil
}

// Get retrieves a profile, returning nil when it does not exist
func (r *PlayerRepository) Get(ctx context.Context, discordID int64) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM reiatsu_players WHERE guild_id = $1 AND discord_id = $2`

	player, err := scanPlayer(r.q.QueryRow(ctx, query, r.guildID, discordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", discordID, err)
	}
	return player, nil
}

// GetForUpdate retrieves a profile and locks its row until the transaction ends
func (r *PlayerRepository) GetForUpdate(ctx context.Context, discordID int64) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM reiatsu_players WHERE guild_id = $1 AND discord_id = $2 FOR UPDATE`

	player, err := scanPlayer(r.q.QueryRow(ctx, query, r.guildID, discordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock player %d: %w", discordID, err)
	}
	return player, nil
}

// Create creates a profile with zero points. A concurrent creation of the
// same profile resolves to the existing row, locked for this transaction.
func (r *PlayerRepository) Create(ctx context.Context, discordID int64, username string) (*models.Player, error) {
	query := `
		INSERT INTO reiatsu_players (guild_id, discord_id, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, discord_id) DO UPDATE SET username = EXCLUDED.username
		RETURNING ` + playerColumns

	player, err := scanPlayer(r.q.QueryRow(ctx, query, r.guildID, discordID, username))
	if err != nil {
		return nil, fmt.Errorf("failed to create player %d: %w", discordID, err)
	}
	return player, nil
}

// AddPoints applies delta atomically and returns the new total
func (r *PlayerRepository) AddPoints(ctx context.Context, discordID int64, delta int64) (int64, error) {
	query := `
		UPDATE reiatsu_players
		SET points = points + $3, updated_at = NOW()
		WHERE guild_id = $1 AND discord_id = $2 AND points + $3 >= 0
		RETURNING points
	`

	var points int64
	err := r.q.QueryRow(ctx, query, r.guildID, discordID, delta).Scan(&points)
	if errors.Is(err, pgx.ErrNoRows) {
		exists, existsErr := r.exists(ctx, discordID)
		if existsErr != nil {
			return 0, existsErr
		}
		if !exists {
			return 0, service.ErrPlayerNotFound
		}
		return 0, service.ErrInsufficientPoints
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add %d points to player %d: %w", delta, discordID, err)
	}
	return points, nil
}

// SetPoints overwrites the total and returns the previous one
func (r *PlayerRepository) SetPoints(ctx context.Context, discordID int64, points int64) (int64, error) {
	query := `
		UPDATE reiatsu_players p
		SET points = $3, updated_at = NOW()
		FROM (
			SELECT points FROM reiatsu_players
			WHERE guild_id = $1 AND discord_id = $2
			FOR UPDATE
		) old
		WHERE p.guild_id = $1 AND p.discord_id = $2
		RETURNING old.points
	`

	var before int64
	err := r.q.QueryRow(ctx, query, r.guildID, discordID, points).Scan(&before)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, service.ErrPlayerNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to set points of player %d: %w", discordID, err)
	}
	return before, nil
}

// Update persists everything except points
func (r *PlayerRepository) Update(ctx context.Context, player *models.Player) error {
	questsJSON, err := json.Marshal(player.Quests)
	if err != nil {
		return fmt.Errorf("failed to marshal quests: %w", err)
	}
	if player.Quests == nil {
		questsJSON = []byte("{}")
	}

	query := `
		UPDATE reiatsu_players
		SET username = $3,
		    class = NULLIF($4, ''),
		    level = $5,
		    last_steal_at = $6,
		    last_skill_at = $7,
		    skill_armed = $8,
		    shield_until = $9,
		    title = NULLIF($10, ''),
		    quests = $11,
		    updated_at = NOW()
		WHERE guild_id = $1 AND discord_id = $2
		RETURNING updated_at
	`

	err = r.q.QueryRow(ctx, query,
		r.guildID,
		player.DiscordID,
		player.Username,
		string(player.Class),
		player.Level,
		player.LastStealAt,
		player.LastSkillAt,
		player.SkillArmed,
		player.ShieldUntil,
		player.Title,
		questsJSON,
	).Scan(&player.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return service.ErrPlayerNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update player %d: %w", player.DiscordID, err)
	}
	return nil
}

// Top returns the richest profiles, ties broken by discord id
func (r *PlayerRepository) Top(ctx context.Context, limit int) ([]*models.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM reiatsu_players
		WHERE guild_id = $1
		ORDER BY points DESC, discord_id ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}
	return players, nil
}

// Rank returns the 1-based leaderboard position of a profile
func (r *PlayerRepository) Rank(ctx context.Context, discordID int64) (int, error) {
	query := `
		SELECT COUNT(*) + 1
		FROM reiatsu_players other, reiatsu_players me
		WHERE me.guild_id = $1 AND me.discord_id = $2
		  AND other.guild_id = $1
		  AND (other.points > me.points OR (other.points = me.points AND other.discord_id < me.discord_id))
	`

	exists, err := r.exists(ctx, discordID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, service.ErrPlayerNotFound
	}

	var rank int
	if err := r.q.QueryRow(ctx, query, r.guildID, discordID).Scan(&rank); err != nil {
		return 0, fmt.Errorf("failed to rank player %d: %w", discordID, err)
	}
	return rank, nil
}

func (r *PlayerRepository) exists(ctx context.Context, discordID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reiatsu_players WHERE guild_id = $1 AND discord_id = $2)`,
		r.guildID, discordID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check player %d: %w", discordID, err)
	}
	return exists, nil
}
