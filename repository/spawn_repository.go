package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reiatsu/models"
	"reiatsu/service"

	"github.com/jackc/pgx/v5"
)

// SpawnRepository implements the SpawnRepository interface
type SpawnRepository struct {
	q       Queryable
	guildID int64
}

func newSpawnRepository(tx Queryable, guildID int64) *SpawnRepository {
	return &SpawnRepository{q: tx, guildID: guildID}
}

// GetOrCreate returns the guild's spawn config, creating a disabled one
func (r *SpawnRepository) GetOrCreate(ctx context.Context) (*models.SpawnConfig, error) {
	if _, err := r.q.Exec(ctx,
		`INSERT INTO reiatsu_spawns (guild_id) VALUES ($1) ON CONFLICT (guild_id) DO NOTHING`,
		r.guildID,
	); err != nil {
		return nil, fmt.Errorf("failed to create spawn config for guild %d: %w", r.guildID, err)
	}

	query := `
		SELECT guild_id, channel_id, speed, last_spawn_at, next_delay_seconds,
		       is_spawn, message_id, kind, spawned_by, spawned_at
		FROM reiatsu_spawns
		WHERE guild_id = $1
	`

	var config models.SpawnConfig
	var speed, kind string
	var delaySeconds int
	err := r.q.QueryRow(ctx, query, r.guildID).Scan(
		&config.GuildID,
		&config.ChannelID,
		&speed,
		&config.LastSpawnAt,
		&delaySeconds,
		&config.IsSpawn,
		&config.MessageID,
		&kind,
		&config.SpawnedBy,
		&config.SpawnedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get spawn config for guild %d: %w", r.guildID, err)
	}
	config.Speed = models.SpawnSpeed(speed)
	config.Kind = models.SpawnKind(kind)
	config.NextDelay = time.Duration(delaySeconds) * time.Second
	return &config, nil
}

// Update persists channel and speed settings and the active spawn fields
func (r *SpawnRepository) Update(ctx context.Context, config *models.SpawnConfig) error {
	query := `
		UPDATE reiatsu_spawns
		SET channel_id = $2,
		    speed = $3,
		    is_spawn = $4,
		    message_id = $5,
		    kind = $6,
		    spawned_by = $7,
		    spawned_at = $8
		WHERE guild_id = $1
	`

	kind := config.Kind
	if kind == "" {
		kind = models.SpawnKindNormal
	}
	speed := config.Speed
	if speed == "" {
		speed = models.SpawnSpeedNormal
	}

	result, err := r.q.Exec(ctx, query,
		r.guildID,
		config.ChannelID,
		string(speed),
		config.IsSpawn,
		config.MessageID,
		string(kind),
		config.SpawnedBy,
		config.SpawnedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update spawn config for guild %d: %w", r.guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("spawn config for guild %d not found", r.guildID)
	}
	return nil
}

// ListDueGuilds returns every guild needing a new spawn at now, including
// guilds whose active spawn was posted before staleBefore. Not guild scoped.
func (r *SpawnRepository) ListDueGuilds(ctx context.Context, now, staleBefore time.Time) ([]int64, error) {
	query := `
		SELECT guild_id
		FROM reiatsu_spawns
		WHERE channel_id IS NOT NULL
		  AND (
		    (NOT is_spawn AND last_spawn_at + make_interval(secs => next_delay_seconds) <= $1)
		    OR (is_spawn AND spawned_at <= $2)
		  )
		ORDER BY guild_id
	`

	rows, err := r.q.Query(ctx, query, now, staleBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to query due guilds: %w", err)
	}
	defer rows.Close()

	var guilds []int64
	for rows.Next() {
		var guildID int64
		if err := rows.Scan(&guildID); err != nil {
			return nil, fmt.Errorf("failed to scan guild id: %w", err)
		}
		guilds = append(guilds, guildID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due guilds: %w", err)
	}
	return guilds, nil
}

// MarkSpawned records a posted spawn
func (r *SpawnRepository) MarkSpawned(ctx context.Context, messageID int64, kind models.SpawnKind, spawnedBy *int64, at time.Time) error {
	query := `
		UPDATE reiatsu_spawns
		SET is_spawn = TRUE, message_id = $2, kind = $3, spawned_by = $4, spawned_at = $5
		WHERE guild_id = $1 AND NOT is_spawn
	`

	result, err := r.q.Exec(ctx, query, r.guildID, messageID, string(kind), spawnedBy, at)
	if err != nil {
		return fmt.Errorf("failed to mark spawn for guild %d: %w", r.guildID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrSpawnActive
	}
	return nil
}

// Claim atomically deactivates the spawn posted as messageID. The first
// claimer's UPDATE wins; everyone else gets nil. kind and spawned_by are
// left in place until the next MarkSpawned overwrites them.
func (r *SpawnRepository) Claim(ctx context.Context, messageID int64) (*models.ClaimedSpawn, error) {
	query := `
		UPDATE reiatsu_spawns
		SET is_spawn = FALSE, message_id = NULL
		WHERE guild_id = $1 AND is_spawn AND message_id = $2
		RETURNING guild_id, COALESCE(channel_id, 0), kind, spawned_by
	`

	claimed := models.ClaimedSpawn{MessageID: messageID}
	var kind string
	err := r.q.QueryRow(ctx, query, r.guildID, messageID).Scan(
		&claimed.GuildID,
		&claimed.ChannelID,
		&kind,
		&claimed.SpawnedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim spawn %d: %w", messageID, err)
	}
	claimed.Kind = models.SpawnKind(kind)
	return &claimed, nil
}

// ScheduleNext restarts the spawn timer
func (r *SpawnRepository) ScheduleNext(ctx context.Context, at time.Time, delay time.Duration) error {
	query := `
		UPDATE reiatsu_spawns
		SET last_spawn_at = $2, next_delay_seconds = $3
		WHERE guild_id = $1
	`

	if _, err := r.q.Exec(ctx, query, r.guildID, at, int(delay/time.Second)); err != nil {
		return fmt.Errorf("failed to schedule next spawn for guild %d: %w", r.guildID, err)
	}
	return nil
}
