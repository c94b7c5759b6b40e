package spawn

import (
	"context"
	"errors"
	"fmt"

	"reiatsu/bot/common"
	"reiatsu/models"
	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleReaction claims the spawn a user reacted to
func (f *Feature) HandleReaction(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.GuildID == "" || r.Emoji.Name != common.SpawnEmoji {
		return
	}
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}

	ctx := context.Background()

	guildID, err1 := common.ParseID(r.GuildID)
	messageID, err2 := common.ParseID(r.MessageID)
	userID, err3 := common.ParseID(r.UserID)
	if err := errors.Join(err1, err2, err3); err != nil {
		log.Errorf("Error parsing reaction IDs: %v", err)
		return
	}

	username := ""
	if r.Member != nil && r.Member.User != nil {
		username = r.Member.User.Username
	}

	var result *service.ClaimResult
	err := f.deps.InGuild(ctx, guildID, func(svc *common.Services) error {
		var err error
		result, err = svc.Spawns().Claim(ctx, messageID, userID, username)
		return err
	})
	if errors.Is(err, service.ErrSpawnGone) {
		return
	}
	if err != nil {
		log.WithFields(log.Fields{
			"guildID":   guildID,
			"messageID": messageID,
			"userID":    userID,
			"error":     err,
		}).Error("Failed to claim spawn")
		return
	}

	embed := buildClaimedEmbed(result, userID)
	if _, err := s.ChannelMessageEditEmbed(r.ChannelID, r.MessageID, embed); err != nil {
		log.WithError(err).Warn("Failed to update claimed spawn message")
	}
	if err := s.MessageReactionsRemoveAll(r.ChannelID, r.MessageID); err != nil {
		log.WithError(err).Debug("Failed to clear spawn reactions")
	}
}

func (f *Feature) handleChannel(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	channelID, err := common.ParseID(i.ChannelID)
	for _, opt := range options {
		if opt.Name == "channel" {
			channelID, err = common.ParseID(opt.ChannelValue(s).ID)
		}
	}
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var config *models.SpawnConfig
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		config, err = svc.Spawns().SetChannel(ctx, channelID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	message := fmt.Sprintf("Reiatsu will now appear in <#%d>. Next spawn %s.",
		channelID, common.FormatDiscordTimestamp(config.NextSpawnAt(), "R"))
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Error responding to spawn channel command: %v", err)
	}
}

func (f *Feature) handleSpeed(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var raw string
	for _, opt := range options {
		if opt.Name == "speed" {
			raw = opt.StringValue()
		}
	}
	speed, err := models.ParseSpawnSpeed(raw)
	if err != nil {
		common.RespondWithError(s, i, "Speed must be fast, normal or slow.")
		return
	}

	var config *models.SpawnConfig
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		config, err = svc.Spawns().SetSpeed(ctx, speed)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	lo, hi := speed.DelayRange()
	message := fmt.Sprintf("Spawn speed set to **%s** (every %s to %s).",
		speed, common.FormatDuration(lo), common.FormatDuration(hi))
	if config.ChannelID == nil {
		message += " No spawn channel is configured yet."
	}
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Error responding to spawn speed command: %v", err)
	}
}

func (f *Feature) handleDisable(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		return svc.Spawns().Disable(ctx)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithSuccess(s, i, "Spawns disabled.", true); err != nil {
		log.Errorf("Error responding to spawn disable command: %v", err)
	}
}

func (f *Feature) handleForce(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring spawn force response: %v", err)
		return
	}

	if err := f.Force(ctx, s, caller.GuildID); err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	common.FollowUpWithSuccess(s, i, "A Reiatsu spawn was released.", true)
}

func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var config *models.SpawnConfig
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		config, err = svc.Spawns().Config(ctx)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildStatusEmbed(config), nil, true); err != nil {
		log.Errorf("Error responding to spawn status command: %v", err)
	}
}
