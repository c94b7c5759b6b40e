package repository

import (
	"context"
	"fmt"

	"reiatsu/models"
)

// CarRepository implements the CarRepository interface
type CarRepository struct {
	q       Queryable
	guildID int64
}

func newCarRepository(tx Queryable, guildID int64) *CarRepository {
	return &CarRepository{q: tx, guildID: guildID}
}

// Add stores a drawn car
func (r *CarRepository) Add(ctx context.Context, car *models.OwnedCar) error {
	query := `
		INSERT INTO car_collection (guild_id, discord_id, car_id, rarity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, obtained_at
	`
	if err := r.q.QueryRow(ctx, query, r.guildID, car.DiscordID, car.CarID, car.Rarity).Scan(&car.ID, &car.ObtainedAt); err != nil {
		return fmt.Errorf("failed to add car for %d: %w", car.DiscordID, err)
	}
	car.GuildID = r.guildID
	return nil
}

// ListByUser returns the cars of a user, oldest first
func (r *CarRepository) ListByUser(ctx context.Context, discordID int64) ([]*models.OwnedCar, error) {
	query := `
		SELECT id, guild_id, discord_id, car_id, rarity, obtained_at
		FROM car_collection
		WHERE guild_id = $1 AND discord_id = $2
		ORDER BY obtained_at, id
	`

	rows, err := r.q.Query(ctx, query, r.guildID, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cars: %w", err)
	}
	defer rows.Close()

	var cars []*models.OwnedCar
	for rows.Next() {
		var car models.OwnedCar
		if err := rows.Scan(&car.ID, &car.GuildID, &car.DiscordID, &car.CarID, &car.Rarity, &car.ObtainedAt); err != nil {
			return nil, fmt.Errorf("failed to scan car: %w", err)
		}
		cars = append(cars, &car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cars: %w", err)
	}
	return cars, nil
}
