package common

import (
	"errors"
	"fmt"

	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Err         error
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues
func NewUserError(userMessage string) *BotError {
	return &BotError{UserMessage: userMessage, LogMessage: userMessage}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Err:         err,
	}
}

var userMessages = []struct {
	err     error
	message string
}{
	{service.ErrInsufficientPoints, "You don't have enough Reiatsu."},
	{service.ErrInvalidAmount, "Amount must be positive."},
	{service.ErrSelfTarget, "You cannot target yourself."},
	{service.ErrTargetEmpty, "That player has no Reiatsu to take."},
	{service.ErrTargetShielded, "That player is protected by a shield. 🛡️"},
	{service.ErrPlayerNotFound, "That player has no Reiatsu profile yet."},
	{service.ErrNoClass, "Choose a class first with `/class choose`."},
	{service.ErrUnknownClass, "Unknown class."},
	{service.ErrSameClass, "You already have this class."},
	{service.ErrSkillAlreadyArmed, "Your skill is already active."},
	{service.ErrSpawnActive, "A Reiatsu spawn is already waiting to be absorbed."},
	{service.ErrSpawnGone, "Too slow, this Reiatsu was already absorbed."},
	{service.ErrNoSpawnChannel, "No spawn channel is configured on this server."},
	{service.ErrItemNotFound, "This item does not exist."},
	{service.ErrOutOfStock, "This item is out of stock."},
	{service.ErrRPGClassChosen, "Your RPG class is already chosen."},
	{service.ErrNoRPGClass, "Choose an RPG class first with `/rpg class`."},
	{service.ErrUnknownZone, "Unknown zone."},
	{service.ErrZoneLocked, "This zone is still locked. Level up first."},
	{service.ErrUnknownEnemy, "No such enemy in this zone."},
	{service.ErrKnockedOut, "You have no HP left. Use `/rpg heal` first."},
	{service.ErrFullHealth, "You are already at full health."},
	{service.ErrInvalidPlot, "That plot does not exist."},
	{service.ErrPlotOccupied, "Something is already growing there."},
	{service.ErrUnknownCrop, "Unknown crop."},
	{service.ErrInsufficientMoney, "Your garden wallet is too light."},
	{service.ErrNothingReady, "Nothing is ready to harvest yet."},
	{service.ErrNothingToSell, "Your barn is empty."},
	{service.ErrExchangeTooSmall, "That is not enough money for a single point."},
	{service.ErrNoCars, "The garage is empty."},
}

// UserMessage translates a service error into text for players.
// The second result is false for unexpected errors.
func UserMessage(err error) (string, bool) {
	var botErr *BotError
	if errors.As(err, &botErr) && botErr.Err == nil {
		return botErr.UserMessage, true
	}
	if cd, ok := service.AsCooldown(err); ok {
		return fmt.Sprintf("%s is on cooldown for another %s.", cd.Action, FormatDuration(cd.Remaining)), true
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.message, true
		}
	}
	return "", false
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError logs err and tells the user what went wrong
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	message, known := UserMessage(err)
	if !known {
		log.WithFields(log.Fields{
			"user_id":  InteractionUser(i).ID,
			"guild_id": i.GuildID,
			"type":     i.Type.String(),
			"error":    err.Error(),
		}).Error("Unexpected error in interaction")
		message = "Something went wrong. Please try again later."
	}

	if deferred {
		FollowUpWithError(s, i, message)
	} else {
		RespondWithError(s, i, message)
	}
}
