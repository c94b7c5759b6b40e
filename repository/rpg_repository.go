package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reiatsu/models"

	"github.com/jackc/pgx/v5"
)

const rpgColumns = `guild_id, discord_id, username, COALESCE(class, ''), zone, stats, cooldowns, unlocked_zones, created_at, updated_at`

// RPGRepository implements the RPGRepository interface
type RPGRepository struct {
	q       Queryable
	guildID int64
}

func newRPGRepository(tx Queryable, guildID int64) *RPGRepository {
	return &RPGRepository{q: tx, guildID: guildID}
}

func scanRPGPlayer(row pgx.Row) (*models.RPGPlayer, error) {
	var player models.RPGPlayer
	var class string
	var statsJSON, cooldownsJSON, zonesJSON []byte
	if err := row.Scan(
		&player.GuildID,
		&player.DiscordID,
		&player.Username,
		&class,
		&player.Zone,
		&statsJSON,
		&cooldownsJSON,
		&zonesJSON,
		&player.CreatedAt,
		&player.UpdatedAt,
	); err != nil {
		return nil, err
	}
	player.Class = models.RPGClass(class)

	if err := json.Unmarshal(statsJSON, &player.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	player.Cooldowns = make(map[string]time.Time)
	if err := json.Unmarshal(cooldownsJSON, &player.Cooldowns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cooldowns: %w", err)
	}
	if err := json.Unmarshal(zonesJSON, &player.UnlockedZones); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unlocked zones: %w", err)
	}
	return &player, nil
}

func marshalRPGPlayer(player *models.RPGPlayer) (stats, cooldowns, zones []byte, err error) {
	if stats, err = json.Marshal(player.Stats); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal stats: %w", err)
	}
	cd := player.Cooldowns
	if cd == nil {
		cd = map[string]time.Time{}
	}
	if cooldowns, err = json.Marshal(cd); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal cooldowns: %w", err)
	}
	unlocked := player.UnlockedZones
	if unlocked == nil {
		unlocked = []string{}
	}
	if zones, err = json.Marshal(unlocked); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal unlocked zones: %w", err)
	}
	return stats, cooldowns, zones, nil
}

// Get retrieves a character, nil when it does not exist
func (r *RPGRepository) Get(ctx context.Context, discordID int64) (*models.RPGPlayer, error) {
	return r.get(ctx, discordID, "")
}

// GetForUpdate retrieves a character and locks its row
func (r *RPGRepository) GetForUpdate(ctx context.Context, discordID int64) (*models.RPGPlayer, error) {
	return r.get(ctx, discordID, " FOR UPDATE")
}

func (r *RPGRepository) get(ctx context.Context, discordID int64, lock string) (*models.RPGPlayer, error) {
	query := `SELECT ` + rpgColumns + ` FROM rpg_players WHERE guild_id = $1 AND discord_id = $2` + lock

	player, err := scanRPGPlayer(r.q.QueryRow(ctx, query, r.guildID, discordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character %d: %w", discordID, err)
	}
	return player, nil
}

// Create inserts a new character
func (r *RPGRepository) Create(ctx context.Context, player *models.RPGPlayer) error {
	stats, cooldowns, zones, err := marshalRPGPlayer(player)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rpg_players (guild_id, discord_id, username, class, zone, stats, cooldowns, unlocked_zones)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err = r.q.QueryRow(ctx, query,
		r.guildID,
		player.DiscordID,
		player.Username,
		string(player.Class),
		player.Zone,
		stats,
		cooldowns,
		zones,
	).Scan(&player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create character %d: %w", player.DiscordID, err)
	}
	player.GuildID = r.guildID
	return nil
}

// Update persists a character
func (r *RPGRepository) Update(ctx context.Context, player *models.RPGPlayer) error {
	stats, cooldowns, zones, err := marshalRPGPlayer(player)
	if err != nil {
		return err
	}

	query := `
		UPDATE rpg_players
		SET username = $3, class = NULLIF($4, ''), zone = $5, stats = $6,
		    cooldowns = $7, unlocked_zones = $8, updated_at = NOW()
		WHERE guild_id = $1 AND discord_id = $2
	`

	result, err := r.q.Exec(ctx, query,
		r.guildID,
		player.DiscordID,
		player.Username,
		string(player.Class),
		player.Zone,
		stats,
		cooldowns,
		zones,
	)
	if err != nil {
		return fmt.Errorf("failed to update character %d: %w", player.DiscordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("character %d not found", player.DiscordID)
	}
	return nil
}
