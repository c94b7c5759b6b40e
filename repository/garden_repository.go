package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"reiatsu/models"

	"github.com/jackc/pgx/v5"
)

// GardenRepository implements the GardenRepository interface
type GardenRepository struct {
	q       Queryable
	guildID int64
}

func newGardenRepository(tx Queryable, guildID int64) *GardenRepository {
	return &GardenRepository{q: tx, guildID: guildID}
}

// Get retrieves a garden, nil when it does not exist
func (r *GardenRepository) Get(ctx context.Context, discordID int64) (*models.Garden, error) {
	return r.get(ctx, discordID, "")
}

// GetForUpdate retrieves a garden and locks its row
func (r *GardenRepository) GetForUpdate(ctx context.Context, discordID int64) (*models.Garden, error) {
	return r.get(ctx, discordID, " FOR UPDATE")
}

func (r *GardenRepository) get(ctx context.Context, discordID int64, lock string) (*models.Garden, error) {
	query := `
		SELECT guild_id, discord_id, garden_grid, inventory, money, updated_at
		FROM gardens
		WHERE guild_id = $1 AND discord_id = $2` + lock

	var garden models.Garden
	var gridJSON, inventoryJSON []byte
	err := r.q.QueryRow(ctx, query, r.guildID, discordID).Scan(
		&garden.GuildID,
		&garden.DiscordID,
		&gridJSON,
		&inventoryJSON,
		&garden.Money,
		&garden.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get garden of %d: %w", discordID, err)
	}

	if err := json.Unmarshal(gridJSON, &garden.Grid); err != nil {
		return nil, fmt.Errorf("failed to unmarshal garden grid: %w", err)
	}
	// Pad grids stored before the garden grew to its current size
	for len(garden.Grid) < models.GardenSize {
		garden.Grid = append(garden.Grid, models.GardenPlot{})
	}
	garden.Inventory = make(map[string]int)
	if err := json.Unmarshal(inventoryJSON, &garden.Inventory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal garden inventory: %w", err)
	}
	return &garden, nil
}

func marshalGarden(garden *models.Garden) ([]byte, []byte, error) {
	grid, err := json.Marshal(garden.Grid)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal garden grid: %w", err)
	}
	inventory := garden.Inventory
	if inventory == nil {
		inventory = map[string]int{}
	}
	inventoryJSON, err := json.Marshal(inventory)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal garden inventory: %w", err)
	}
	return grid, inventoryJSON, nil
}

// Create inserts a new garden
func (r *GardenRepository) Create(ctx context.Context, garden *models.Garden) error {
	grid, inventory, err := marshalGarden(garden)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO gardens (guild_id, discord_id, garden_grid, inventory, money)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING updated_at
	`
	if err := r.q.QueryRow(ctx, query, r.guildID, garden.DiscordID, grid, inventory, garden.Money).Scan(&garden.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create garden of %d: %w", garden.DiscordID, err)
	}
	garden.GuildID = r.guildID
	return nil
}

// Update persists a garden
func (r *GardenRepository) Update(ctx context.Context, garden *models.Garden) error {
	grid, inventory, err := marshalGarden(garden)
	if err != nil {
		return err
	}

	query := `
		UPDATE gardens
		SET garden_grid = $3, inventory = $4, money = $5, updated_at = NOW()
		WHERE guild_id = $1 AND discord_id = $2
	`
	result, err := r.q.Exec(ctx, query, r.guildID, garden.DiscordID, grid, inventory, garden.Money)
	if err != nil {
		return fmt.Errorf("failed to update garden of %d: %w", garden.DiscordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("garden of %d not found", garden.DiscordID)
	}
	return nil
}
