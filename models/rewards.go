package models

import (
	"time"
)

// SteamKey is a game key redeemable from the shop
type SteamKey struct {
	ID        int64      `db:"id"`
	GameName  string     `db:"game_name"`
	KeyCode   string     `db:"key_code"`
	ClaimedBy *int64     `db:"claimed_by"`
	GuildID   *int64     `db:"guild_id"`
	ClaimedAt *time.Time `db:"claimed_at"`
	CreatedAt time.Time  `db:"created_at"`
}

// FoundWord records an anagram a player solved
type FoundWord struct {
	GuildID   int64     `db:"guild_id"`
	DiscordID int64     `db:"discord_id"`
	Word      string    `db:"word"`
	FoundAt   time.Time `db:"found_at"`
}

// OwnedCar is one entry of a player's car collection
type OwnedCar struct {
	ID         int64     `db:"id"`
	GuildID    int64     `db:"guild_id"`
	DiscordID  int64     `db:"discord_id"`
	CarID      string    `db:"car_id"`
	Rarity     string    `db:"rarity"`
	ObtainedAt time.Time `db:"obtained_at"`
}
