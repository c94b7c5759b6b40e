package service

import (
	"context"
	"time"

	"reiatsu/events"
	"reiatsu/models"

	"github.com/stretchr/testify/mock"
)

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) Get(ctx context.Context, discordID int64) (*models.Player, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetForUpdate(ctx context.Context, discordID int64) (*models.Player, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Create(ctx context.Context, discordID int64, username string) (*models.Player, error) {
	args := m.Called(ctx, discordID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) AddPoints(ctx context.Context, discordID int64, delta int64) (int64, error) {
	args := m.Called(ctx, discordID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlayerRepository) SetPoints(ctx context.Context, discordID int64, points int64) (int64, error) {
	args := m.Called(ctx, discordID, points)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) Top(ctx context.Context, limit int) ([]*models.Player, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Rank(ctx context.Context, discordID int64) (int, error) {
	args := m.Called(ctx, discordID)
	return args.Int(0), args.Error(1)
}

// MockPointsHistoryRepository is a mock implementation of PointsHistoryRepository
type MockPointsHistoryRepository struct {
	mock.Mock
}

func (m *MockPointsHistoryRepository) Record(ctx context.Context, history *models.PointsHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockPointsHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.PointsHistory, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PointsHistory), args.Error(1)
}

// MockSpawnRepository is a mock implementation of SpawnRepository
type MockSpawnRepository struct {
	mock.Mock
}

func (m *MockSpawnRepository) GetOrCreate(ctx context.Context) (*models.SpawnConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SpawnConfig), args.Error(1)
}

func (m *MockSpawnRepository) Update(ctx context.Context, config *models.SpawnConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockSpawnRepository) ListDueGuilds(ctx context.Context, now, staleBefore time.Time) ([]int64, error) {
	args := m.Called(ctx, now, staleBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockSpawnRepository) MarkSpawned(ctx context.Context, messageID int64, kind models.SpawnKind, spawnedBy *int64, at time.Time) error {
	args := m.Called(ctx, messageID, kind, spawnedBy, at)
	return args.Error(0)
}

func (m *MockSpawnRepository) Claim(ctx context.Context, messageID int64) (*models.ClaimedSpawn, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClaimedSpawn), args.Error(1)
}

func (m *MockSpawnRepository) ScheduleNext(ctx context.Context, at time.Time, delay time.Duration) error {
	args := m.Called(ctx, at, delay)
	return args.Error(0)
}

// MockRPGRepository is a mock implementation of RPGRepository
type MockRPGRepository struct {
	mock.Mock
}

func (m *MockRPGRepository) Get(ctx context.Context, discordID int64) (*models.RPGPlayer, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RPGPlayer), args.Error(1)
}

func (m *MockRPGRepository) GetForUpdate(ctx context.Context, discordID int64) (*models.RPGPlayer, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RPGPlayer), args.Error(1)
}

func (m *MockRPGRepository) Create(ctx context.Context, player *models.RPGPlayer) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockRPGRepository) Update(ctx context.Context, player *models.RPGPlayer) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

// MockGardenRepository is a mock implementation of GardenRepository
type MockGardenRepository struct {
	mock.Mock
}

func (m *MockGardenRepository) Get(ctx context.Context, discordID int64) (*models.Garden, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Garden), args.Error(1)
}

func (m *MockGardenRepository) GetForUpdate(ctx context.Context, discordID int64) (*models.Garden, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Garden), args.Error(1)
}

func (m *MockGardenRepository) Create(ctx context.Context, garden *models.Garden) error {
	args := m.Called(ctx, garden)
	return args.Error(0)
}

func (m *MockGardenRepository) Update(ctx context.Context, garden *models.Garden) error {
	args := m.Called(ctx, garden)
	return args.Error(0)
}

// MockSteamKeyRepository is a mock implementation of SteamKeyRepository
type MockSteamKeyRepository struct {
	mock.Mock
}

func (m *MockSteamKeyRepository) ClaimRandom(ctx context.Context, discordID int64) (*models.SteamKey, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SteamKey), args.Error(1)
}

func (m *MockSteamKeyRepository) Add(ctx context.Context, gameName, keyCode string) error {
	args := m.Called(ctx, gameName, keyCode)
	return args.Error(0)
}

func (m *MockSteamKeyRepository) CountAvailable(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockFoundWordRepository is a mock implementation of FoundWordRepository
type MockFoundWordRepository struct {
	mock.Mock
}

func (m *MockFoundWordRepository) Add(ctx context.Context, discordID int64, word string) (bool, error) {
	args := m.Called(ctx, discordID, word)
	return args.Bool(0), args.Error(1)
}

func (m *MockFoundWordRepository) CountByUser(ctx context.Context, discordID int64) (int, error) {
	args := m.Called(ctx, discordID)
	return args.Int(0), args.Error(1)
}

// MockCarRepository is a mock implementation of CarRepository
type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) Add(ctx context.Context, car *models.OwnedCar) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}

func (m *MockCarRepository) ListByUser(ctx context.Context, discordID int64) ([]*models.OwnedCar, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OwnedCar), args.Error(1)
}

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreate(ctx context.Context) (*models.GuildSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) Update(ctx context.Context, settings *models.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}
