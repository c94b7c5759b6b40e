package models

// GuildSettings holds per-guild bot configuration
type GuildSettings struct {
	GuildID        int64  `db:"guild_id"`
	ChampionRoleID *int64 `db:"champion_role_id"`
	LogChannelID   *int64 `db:"log_channel_id"`
}
