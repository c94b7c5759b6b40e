package settings

import (
	"context"
	"fmt"

	"reiatsu/bot/common"
	"reiatsu/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleChampionRole handles /settings champion-role; no role disables the feature
func (f *Feature) handleChampionRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i) {
		common.RespondWithError(s, i, "❌ You need administrator permissions to use this command")
		return
	}

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var roleID *int64
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name != "role" {
			continue
		}
		id, err := common.ParseID(opt.RoleValue(s, i.GuildID).ID)
		if err != nil {
			common.RespondWithError(s, i, "❌ Invalid role selected")
			return
		}
		roleID = &id
	}

	ctx := context.Background()
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		return svc.Settings().SetChampionRole(ctx, roleID)
	})
	if err != nil {
		log.Errorf("Failed to update champion role: %v", err)
		common.RespondWithError(s, i, "❌ Failed to update settings")
		return
	}

	message := "✅ Champion role feature disabled"
	if roleID != nil {
		message = fmt.Sprintf("✅ Champion role updated to <@&%d>", *roleID)
	}
	if err := common.RespondWithMessage(s, i, message, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// handleLogChannel handles /settings log-channel; no channel disables logging
func (f *Feature) handleLogChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i) {
		common.RespondWithError(s, i, "❌ You need administrator permissions to use this command")
		return
	}

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var channelID *int64
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name != "channel" {
			continue
		}
		id, err := common.ParseID(opt.ChannelValue(s).ID)
		if err != nil {
			common.RespondWithError(s, i, "❌ Invalid channel selected")
			return
		}
		channelID = &id
	}

	ctx := context.Background()
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		return svc.Settings().SetLogChannel(ctx, channelID)
	})
	if err != nil {
		log.Errorf("Failed to update log channel: %v", err)
		common.RespondWithError(s, i, "❌ Failed to update settings")
		return
	}

	message := "✅ Reiatsu log disabled"
	if channelID != nil {
		message = fmt.Sprintf("✅ Reiatsu log now goes to <#%d>", *channelID)
	}
	if err := common.RespondWithMessage(s, i, message, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

func (f *Feature) handleShow(s *discordgo.Session, i *discordgo.InteractionCreate) {
	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	var settings *models.GuildSettings
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		settings, err = svc.Settings().Get(ctx)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildSettingsEmbed(settings), nil, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

func buildSettingsEmbed(settings *models.GuildSettings) *discordgo.MessageEmbed {
	role := "disabled"
	if settings.ChampionRoleID != nil {
		role = fmt.Sprintf("<@&%d>", *settings.ChampionRoleID)
	}
	channel := "disabled"
	if settings.LogChannelID != nil {
		channel = fmt.Sprintf("<#%d>", *settings.LogChannelID)
	}
	return &discordgo.MessageEmbed{
		Title: "⚙️ Server settings",
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Champion role", Value: role, Inline: true},
			{Name: "Log channel", Value: channel, Inline: true},
		},
	}
}
