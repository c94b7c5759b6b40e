package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"reiatsu/catalog"
	"reiatsu/models"
)

// GardenService runs the farming minigame
type GardenService struct {
	gardens GardenRepository
	ledger  pointsLedger
	catalog *catalog.Catalog
	clock   Clock
}

// NewGardenService creates a garden service bound to one unit of work
func NewGardenService(gardens GardenRepository, players PlayerRepository, history PointsHistoryRepository, publisher EventPublisher,
	cat *catalog.Catalog, clock Clock) *GardenService {
	return &GardenService{
		gardens: gardens,
		ledger:  pointsLedger{players: players, history: history, publisher: publisher},
		catalog: cat,
		clock:   clock,
	}
}

// Garden returns the locked garden of a player, creating it on first use
func (s *GardenService) Garden(ctx context.Context, discordID int64) (*models.Garden, error) {
	garden, err := s.gardens.GetForUpdate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get garden: %w", err)
	}
	if garden != nil {
		return garden, nil
	}

	garden = models.NewGarden(0, discordID, s.catalog.Economy.GardenStartMoney)
	if err := s.gardens.Create(ctx, garden); err != nil {
		return nil, fmt.Errorf("failed to create garden: %w", err)
	}
	return garden, nil
}

// ReadyAt returns when the crop on plot can be harvested, zero for empty plots
func (s *GardenService) ReadyAt(plot models.GardenPlot) time.Time {
	if plot.IsEmpty() || plot.PlantedAt == nil {
		return time.Time{}
	}
	crop, ok := s.catalog.Crop(plot.Crop)
	if !ok {
		return *plot.PlantedAt
	}
	return plot.PlantedAt.Add(crop.GrowTime)
}

// Plant buys a seed and plants it on plot (1-based)
func (s *GardenService) Plant(ctx context.Context, discordID int64, plot int, cropID string) (*models.Garden, error) {
	if plot < 1 || plot > models.GardenSize {
		return nil, ErrInvalidPlot
	}
	crop, ok := s.catalog.Crop(cropID)
	if !ok {
		return nil, ErrUnknownCrop
	}

	garden, err := s.Garden(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if !garden.Grid[plot-1].IsEmpty() {
		return nil, ErrPlotOccupied
	}
	if garden.Money < crop.SeedPrice {
		return nil, ErrInsufficientMoney
	}

	now := s.clock.Now()
	garden.Money -= crop.SeedPrice
	garden.Grid[plot-1] = models.GardenPlot{Crop: crop.ID, PlantedAt: &now}

	if err := s.gardens.Update(ctx, garden); err != nil {
		return nil, fmt.Errorf("failed to plant: %w", err)
	}
	return garden, nil
}

// Harvest moves every grown crop to the inventory
func (s *GardenService) Harvest(ctx context.Context, discordID int64) (map[string]int, error) {
	garden, err := s.Garden(ctx, discordID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	harvested := make(map[string]int)
	for i, plot := range garden.Grid {
		if plot.IsEmpty() || now.Before(s.ReadyAt(plot)) {
			continue
		}
		harvested[plot.Crop]++
		garden.Inventory[plot.Crop]++
		garden.Grid[i] = models.GardenPlot{}
	}
	if len(harvested) == 0 {
		return nil, ErrNothingReady
	}

	if err := s.gardens.Update(ctx, garden); err != nil {
		return nil, fmt.Errorf("failed to harvest: %w", err)
	}
	return harvested, nil
}

// Sell sells the whole inventory and returns the money earned
func (s *GardenService) Sell(ctx context.Context, discordID int64) (int64, error) {
	garden, err := s.Garden(ctx, discordID)
	if err != nil {
		return 0, err
	}

	crops := make([]string, 0, len(garden.Inventory))
	for id := range garden.Inventory {
		crops = append(crops, id)
	}
	sort.Strings(crops)

	var earned int64
	for _, id := range crops {
		count := garden.Inventory[id]
		if crop, ok := s.catalog.Crop(id); ok && count > 0 {
			earned += crop.SellPrice * int64(count)
		}
		delete(garden.Inventory, id)
	}
	if earned == 0 {
		return 0, ErrNothingToSell
	}

	garden.Money += earned
	if err := s.gardens.Update(ctx, garden); err != nil {
		return 0, fmt.Errorf("failed to sell: %w", err)
	}
	return earned, nil
}

// Exchange converts garden money into Reiatsu at the catalog rate.
// Only whole points are bought; the remainder stays in the garden.
func (s *GardenService) Exchange(ctx context.Context, discordID int64, username string, money int64) (int64, error) {
	if money <= 0 {
		return 0, ErrInvalidAmount
	}
	rate := s.catalog.Economy.GardenExchangeRate
	points := money / rate
	if points == 0 {
		return 0, ErrExchangeTooSmall
	}

	garden, err := s.Garden(ctx, discordID)
	if err != nil {
		return 0, err
	}
	cost := points * rate
	if garden.Money < cost {
		return 0, ErrInsufficientMoney
	}

	garden.Money -= cost
	if err := s.gardens.Update(ctx, garden); err != nil {
		return 0, fmt.Errorf("failed to exchange: %w", err)
	}

	if _, err := s.ledger.ensurePlayer(ctx, discordID, username); err != nil {
		return 0, err
	}
	if _, err := s.ledger.change(ctx, discordID, points, models.TransactionTypeGardenExchange, map[string]any{
		"money": cost,
	}); err != nil {
		return 0, err
	}
	return points, nil
}
