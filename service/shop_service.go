package service

import (
	"context"
	"fmt"

	"reiatsu/catalog"
	"reiatsu/events"
	"reiatsu/models"
)

// Purchase is the outcome of buying a shop item
type Purchase struct {
	Item   catalog.ShopItem
	Key    *models.SteamKey
	Player *models.Player

	// RoleID is set for role items; the caller grants the role before committing
	RoleID string
}

// ShopService sells catalog items for Reiatsu
type ShopService struct {
	ledger  pointsLedger
	keys    SteamKeyRepository
	catalog *catalog.Catalog
	clock   Clock
}

// NewShopService creates a shop service bound to one unit of work
func NewShopService(players PlayerRepository, history PointsHistoryRepository, keys SteamKeyRepository, publisher EventPublisher,
	cat *catalog.Catalog, clock Clock) *ShopService {
	return &ShopService{
		ledger:  pointsLedger{players: players, history: history, publisher: publisher},
		keys:    keys,
		catalog: cat,
		clock:   clock,
	}
}

// Items returns the items on sale
func (s *ShopService) Items() []catalog.ShopItem {
	return s.catalog.Shop
}

// Buy charges the item's price and applies its effect
func (s *ShopService) Buy(ctx context.Context, discordID int64, username string, itemID string) (*Purchase, error) {
	item, ok := s.catalog.ShopItem(itemID)
	if !ok {
		return nil, ErrItemNotFound
	}

	player, err := s.ledger.ensurePlayer(ctx, discordID, username)
	if err != nil {
		return nil, err
	}
	if !player.CanAfford(item.Price) {
		return nil, ErrInsufficientPoints
	}

	purchase := &Purchase{Item: *item, Player: player}
	now := s.clock.Now()

	switch item.Kind {
	case catalog.ItemKindSteamKey:
		key, err := s.keys.ClaimRandom(ctx, discordID)
		if err != nil {
			return nil, fmt.Errorf("failed to claim steam key: %w", err)
		}
		if key == nil {
			return nil, ErrOutOfStock
		}
		purchase.Key = key

	case catalog.ItemKindShield:
		start := now
		if player.HasShield(now) {
			start = *player.ShieldUntil
		}
		until := start.Add(item.Duration)
		player.ShieldUntil = &until

	case catalog.ItemKindTitle:
		player.Title = item.Title

	case catalog.ItemKindClassReset:
		if !player.HasClass() {
			return nil, ErrNoClass
		}
		player.Class = models.ClassNone
		player.SkillArmed = false

	case catalog.ItemKindRole:
		purchase.RoleID = item.RoleID
	}

	after, err := s.ledger.change(ctx, discordID, -item.Price, models.TransactionTypeShopPurchase, map[string]any{
		"item_id": item.ID,
	})
	if err != nil {
		return nil, err
	}
	player.Points = after

	if err := s.ledger.players.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to apply purchase: %w", err)
	}

	s.ledger.publisher.Publish(events.ItemPurchasedEvent{
		GuildID:   player.GuildID,
		DiscordID: discordID,
		ItemID:    item.ID,
		Price:     item.Price,
	})
	return purchase, nil
}

// StockKey adds a Steam key to the vault
func (s *ShopService) StockKey(ctx context.Context, gameName, keyCode string) error {
	if err := s.keys.Add(ctx, gameName, keyCode); err != nil {
		return fmt.Errorf("failed to add steam key: %w", err)
	}
	return nil
}

// KeysAvailable returns how many Steam keys are left
func (s *ShopService) KeysAvailable(ctx context.Context) (int, error) {
	return s.keys.CountAvailable(ctx)
}
