package common

// Embed colors
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
	ColorReiatsu = 0x4FC3F7 // Spawn cyan
	ColorSuper   = 0xFFD54F // Super spawn gold
)

// SpawnEmoji is the reaction used to absorb a spawn
const SpawnEmoji = "💠"

// UI constants
const (
	MaxButtonsPerRow = 5
	MaxActionRows    = 5
	LeaderboardSize  = 10
)
