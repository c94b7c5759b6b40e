package service

import (
	"context"
	"fmt"

	"reiatsu/models"
)

// GuildSettingsService reads and updates per-guild settings
type GuildSettingsService struct {
	settings GuildSettingsRepository
}

// NewGuildSettingsService creates a guild settings service
func NewGuildSettingsService(settings GuildSettingsRepository) *GuildSettingsService {
	return &GuildSettingsService{settings: settings}
}

// Get returns the guild's settings, creating defaults on first use
func (s *GuildSettingsService) Get(ctx context.Context) (*models.GuildSettings, error) {
	settings, err := s.settings.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	return settings, nil
}

// SetChampionRole sets or clears (nil) the role given to the top player
func (s *GuildSettingsService) SetChampionRole(ctx context.Context, roleID *int64) error {
	settings, err := s.Get(ctx)
	if err != nil {
		return err
	}
	settings.ChampionRoleID = roleID
	if err := s.settings.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update champion role: %w", err)
	}
	return nil
}

// SetLogChannel sets or clears (nil) the channel receiving economy announcements
func (s *GuildSettingsService) SetLogChannel(ctx context.Context, channelID *int64) error {
	settings, err := s.Get(ctx)
	if err != nil {
		return err
	}
	settings.LogChannelID = channelID
	if err := s.settings.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update log channel: %w", err)
	}
	return nil
}
