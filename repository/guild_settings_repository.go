package repository

import (
	"context"
	"fmt"

	"reiatsu/models"
)

// GuildSettingsRepository implements the GuildSettingsRepository interface
type GuildSettingsRepository struct {
	q       Queryable
	guildID int64
}

func newGuildSettingsRepository(tx Queryable, guildID int64) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: tx, guildID: guildID}
}

// GetOrCreate retrieves the guild settings or creates empty ones if not found
func (r *GuildSettingsRepository) GetOrCreate(ctx context.Context) (*models.GuildSettings, error) {
	query := `
		INSERT INTO guild_settings (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING guild_id, champion_role_id, log_channel_id
	`

	var settings models.GuildSettings
	err := r.q.QueryRow(ctx, query, r.guildID).Scan(
		&settings.GuildID,
		&settings.ChampionRoleID,
		&settings.LogChannelID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings for guild %d: %w", r.guildID, err)
	}
	return &settings, nil
}

// Update updates guild settings
func (r *GuildSettingsRepository) Update(ctx context.Context, settings *models.GuildSettings) error {
	query := `
		UPDATE guild_settings
		SET champion_role_id = $2,
		    log_channel_id = $3,
		    updated_at = NOW()
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query, r.guildID, settings.ChampionRoleID, settings.LogChannelID)
	if err != nil {
		return fmt.Errorf("failed to update guild settings for guild %d: %w", r.guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild settings for guild %d not found", r.guildID)
	}
	return nil
}
