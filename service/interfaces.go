package service

import (
	"context"
	"time"

	"reiatsu/events"
	"reiatsu/models"
)

// PlayerRepository defines data access for Reiatsu profiles
type PlayerRepository interface {
	// Get retrieves a profile, returning nil when it does not exist
	Get(ctx context.Context, discordID int64) (*models.Player, error)

	// GetForUpdate retrieves a profile and locks its row until the transaction ends
	GetForUpdate(ctx context.Context, discordID int64) (*models.Player, error)

	// Create creates a profile with zero points
	Create(ctx context.Context, discordID int64, username string) (*models.Player, error)

	// AddPoints applies delta atomically and returns the new total.
	// Fails with ErrInsufficientPoints when the total would go negative.
	AddPoints(ctx context.Context, discordID int64, delta int64) (int64, error)

	// SetPoints overwrites the total and returns the previous one
	SetPoints(ctx context.Context, discordID int64, points int64) (int64, error)

	// Update persists everything except points
	Update(ctx context.Context, player *models.Player) error

	// Top returns the richest profiles
	Top(ctx context.Context, limit int) ([]*models.Player, error)

	// Rank returns the 1-based leaderboard position of a profile
	Rank(ctx context.Context, discordID int64) (int, error)
}

// PointsHistoryRepository defines the interface for points history tracking
type PointsHistoryRepository interface {
	// Record creates a new history entry and sets its ID, guild and timestamp
	Record(ctx context.Context, history *models.PointsHistory) error

	// GetByUser returns the latest entries for a user
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.PointsHistory, error)
}

// SpawnRepository defines data access for the per-guild spawner state
type SpawnRepository interface {
	// GetOrCreate returns the guild's spawn config, creating a disabled one
	GetOrCreate(ctx context.Context) (*models.SpawnConfig, error)

	// Update persists channel and speed settings and the active spawn fields
	Update(ctx context.Context, config *models.SpawnConfig) error

	// ListDueGuilds returns guilds (any guild) needing a new spawn at now,
	// including guilds whose active spawn was posted before staleBefore
	ListDueGuilds(ctx context.Context, now, staleBefore time.Time) ([]int64, error)

	// MarkSpawned records a posted spawn. Fails with ErrSpawnActive if one is already active.
	MarkSpawned(ctx context.Context, messageID int64, kind models.SpawnKind, spawnedBy *int64, at time.Time) error

	// Claim atomically deactivates the spawn posted as messageID.
	// Returns nil when the spawn is gone or someone else won it.
	Claim(ctx context.Context, messageID int64) (*models.ClaimedSpawn, error)

	// ScheduleNext restarts the spawn timer
	ScheduleNext(ctx context.Context, at time.Time, delay time.Duration) error
}

// RPGRepository defines data access for RPG characters
type RPGRepository interface {
	Get(ctx context.Context, discordID int64) (*models.RPGPlayer, error)
	GetForUpdate(ctx context.Context, discordID int64) (*models.RPGPlayer, error)
	Create(ctx context.Context, player *models.RPGPlayer) error
	Update(ctx context.Context, player *models.RPGPlayer) error
}

// GardenRepository defines data access for gardens
type GardenRepository interface {
	Get(ctx context.Context, discordID int64) (*models.Garden, error)
	GetForUpdate(ctx context.Context, discordID int64) (*models.Garden, error)
	Create(ctx context.Context, garden *models.Garden) error
	Update(ctx context.Context, garden *models.Garden) error
}

// SteamKeyRepository defines data access for the Steam key vault
type SteamKeyRepository interface {
	// ClaimRandom assigns an available key to the user, nil when none is left
	ClaimRandom(ctx context.Context, discordID int64) (*models.SteamKey, error)
	Add(ctx context.Context, gameName, keyCode string) error
	CountAvailable(ctx context.Context) (int, error)
}

// FoundWordRepository defines data access for solved anagrams
type FoundWordRepository interface {
	// Add records the word, reporting false when the user already found it
	Add(ctx context.Context, discordID int64, word string) (bool, error)
	CountByUser(ctx context.Context, discordID int64) (int, error)
}

// CarRepository defines data access for car collections
type CarRepository interface {
	Add(ctx context.Context, car *models.OwnedCar) error
	ListByUser(ctx context.Context, discordID int64) ([]*models.OwnedCar, error)
}

// GuildSettingsRepository defines data access for guild settings
type GuildSettingsRepository interface {
	GetOrCreate(ctx context.Context) (*models.GuildSettings, error)
	Update(ctx context.Context, settings *models.GuildSettings) error
}

// EventPublisher queues events until the surrounding transaction commits
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork is a guild-scoped transaction exposing repositories bound to it
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PlayerRepository() PlayerRepository
	PointsHistoryRepository() PointsHistoryRepository
	SpawnRepository() SpawnRepository
	RPGRepository() RPGRepository
	GardenRepository() GardenRepository
	SteamKeyRepository() SteamKeyRepository
	FoundWordRepository() FoundWordRepository
	CarRepository() CarRepository
	GuildSettingsRepository() GuildSettingsRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates guild-scoped units of work
type UnitOfWorkFactory interface {
	CreateForGuild(guildID int64) UnitOfWork
}

// Random is the subset of *math/rand/v2.Rand the games need
type Random interface {
	Float64() float64
	IntN(n int) int
}

// Clock abstracts time for cooldown checks
type Clock interface {
	Now() time.Time
}
