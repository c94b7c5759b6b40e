package common

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// InteractionUser returns the user behind an interaction in a guild or a DM
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{}
}

// Caller identifies the guild and user of an interaction
type Caller struct {
	GuildID  int64
	UserID   int64
	Username string
}

// ParseCaller extracts numeric IDs from a guild interaction
func ParseCaller(i *discordgo.InteractionCreate) (*Caller, error) {
	if i.GuildID == "" {
		return nil, NewUserError("This command only works in a server.")
	}

	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse guild ID %s: %w", i.GuildID, err)
	}

	user := InteractionUser(i)
	userID, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID %s: %w", user.ID, err)
	}

	return &Caller{GuildID: guildID, UserID: userID, Username: user.Username}, nil
}

// GetDisplayName returns the server-specific display name for a user
// Falls back to username if nickname is not set or if there's an error
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.GuildMember(guildID, userID)
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			if member.User.GlobalName != "" {
				return member.User.GlobalName
			}
			return member.User.Username
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// GetDisplayNameInt64 is a convenience wrapper that accepts int64 user IDs
func GetDisplayNameInt64(s *discordgo.Session, guildID string, userID int64) string {
	return GetDisplayName(s, guildID, strconv.FormatInt(userID, 10))
}

// ParseID converts a Discord snowflake to int64
func ParseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// FormatID converts an int64 snowflake to its string form
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Mention returns a Discord mention string for a user
func Mention(userID int64) string {
	return "<@" + FormatID(userID) + ">"
}

// IsUserAdmin checks if a member may manage the guild
func IsUserAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member != nil && i.Member.Permissions&(discordgo.PermissionAdministrator|discordgo.PermissionManageGuild) != 0 {
		return true
	}
	if i.Member == nil || i.Member.User == nil {
		return false
	}

	member, err := s.GuildMember(i.GuildID, i.Member.User.ID)
	if err != nil {
		log.Errorf("Failed to get guild member: %v", err)
		return false
	}

	for _, roleID := range member.Roles {
		role, err := s.State.Role(i.GuildID, roleID)
		if err != nil {
			continue
		}
		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	return false
}
