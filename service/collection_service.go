package service

import (
	"context"
	"fmt"

	"reiatsu/catalog"
	"reiatsu/models"
)

// CollectionService runs the car gacha
type CollectionService struct {
	cars    CarRepository
	ledger  pointsLedger
	catalog *catalog.Catalog
	rng     Random
}

// NewCollectionService creates a collection service bound to one unit of work
func NewCollectionService(cars CarRepository, players PlayerRepository, history PointsHistoryRepository, publisher EventPublisher,
	cat *catalog.Catalog, rng Random) *CollectionService {
	return &CollectionService{
		cars:    cars,
		ledger:  pointsLedger{players: players, history: history, publisher: publisher},
		catalog: cat,
		rng:     rng,
	}
}

// Draw charges the draw cost and adds a weighted random car to the collection
func (s *CollectionService) Draw(ctx context.Context, discordID int64, username string) (*catalog.Car, error) {
	if len(s.catalog.Cars) == 0 {
		return nil, ErrNoCars
	}

	player, err := s.ledger.ensurePlayer(ctx, discordID, username)
	if err != nil {
		return nil, err
	}
	cost := s.catalog.Economy.CarDrawCost
	if !player.CanAfford(cost) {
		return nil, ErrInsufficientPoints
	}

	car := pickWeighted(s.catalog.Cars, s.rng)

	if _, err := s.ledger.change(ctx, discordID, -cost, models.TransactionTypeCarDraw, map[string]any{
		"car_id": car.ID,
	}); err != nil {
		return nil, err
	}
	if err := s.cars.Add(ctx, &models.OwnedCar{DiscordID: discordID, CarID: car.ID, Rarity: car.Rarity}); err != nil {
		return nil, fmt.Errorf("failed to add car: %w", err)
	}
	return &car, nil
}

// Garage returns the cars owned by a player
func (s *CollectionService) Garage(ctx context.Context, discordID int64) ([]*models.OwnedCar, error) {
	cars, err := s.cars.ListByUser(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return cars, nil
}

func pickWeighted(cars []catalog.Car, rng Random) catalog.Car {
	total := 0
	for _, car := range cars {
		total += car.Weight
	}
	roll := rng.IntN(total)
	for _, car := range cars {
		if roll < car.Weight {
			return car
		}
		roll -= car.Weight
	}
	return cars[len(cars)-1]
}
