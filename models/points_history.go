package models

import (
	"time"
)

// TransactionType represents the reason for a points change
type TransactionType string

const (
	TransactionTypeInitial         TransactionType = "initial"
	TransactionTypeSpawnAbsorb     TransactionType = "spawn_absorb"
	TransactionTypeSuperAbsorb     TransactionType = "super_absorb"
	TransactionTypeFakeSpawnLoss   TransactionType = "fake_spawn_loss"
	TransactionTypeFakeSpawnGain   TransactionType = "fake_spawn_gain"
	TransactionTypeStealIn         TransactionType = "steal_in"
	TransactionTypeStealOut        TransactionType = "steal_out"
	TransactionTypeTransferIn      TransactionType = "transfer_in"
	TransactionTypeTransferOut     TransactionType = "transfer_out"
	TransactionTypeSkillGamble     TransactionType = "skill_gamble"
	TransactionTypeClassChange     TransactionType = "class_change"
	TransactionTypeShopPurchase    TransactionType = "shop_purchase"
	TransactionTypeQuestReward     TransactionType = "quest_reward"
	TransactionTypeCombatReward    TransactionType = "combat_reward"
	TransactionTypeMinigameReward  TransactionType = "minigame_reward"
	TransactionTypeGardenExchange  TransactionType = "garden_exchange"
	TransactionTypeCarDraw         TransactionType = "car_draw"
	TransactionTypeAdminAdjustment TransactionType = "admin_adjustment"
)

// IsGain reports whether the type credits points
func (t TransactionType) IsGain() bool {
	switch t {
	case TransactionTypeSpawnAbsorb, TransactionTypeSuperAbsorb, TransactionTypeFakeSpawnGain,
		TransactionTypeStealIn, TransactionTypeTransferIn, TransactionTypeQuestReward,
		TransactionTypeCombatReward, TransactionTypeMinigameReward, TransactionTypeGardenExchange:
		return true
	}
	return false
}

// PointsHistory is one recorded points change
type PointsHistory struct {
	ID              int64           `db:"id"`
	GuildID         int64           `db:"guild_id"`
	DiscordID       int64           `db:"discord_id"`
	PointsBefore    int64           `db:"points_before"`
	PointsAfter     int64           `db:"points_after"`
	ChangeAmount    int64           `db:"change_amount"`
	TransactionType TransactionType `db:"transaction_type"`
	Metadata        map[string]any  `db:"metadata"`
	CreatedAt       time.Time       `db:"created_at"`
}
