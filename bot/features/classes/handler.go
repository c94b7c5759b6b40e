package classes

import (
	"context"
	"fmt"

	"reiatsu/bot/common"
	"reiatsu/bot/features/spawn"
	"reiatsu/catalog"
	"reiatsu/models"
	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleChoose(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var class models.PlayerClass
	for _, opt := range options {
		if opt.Name == "class" {
			class = models.PlayerClass(opt.StringValue())
		}
	}

	var player *models.Player
	var charged bool
	var def *catalog.ClassDef
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		player, charged, err = svc.Players().ChooseClass(ctx, caller.UserID, caller.Username, class)
		if err != nil {
			return err
		}
		def, _ = svc.Catalog().Class(class)
		return nil
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	embed := buildClassEmbed(def)
	embed.Title = fmt.Sprintf("%s You are now a %s", def.Emoji, def.Name)
	if charged {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Class change cost %s Reiatsu · %s left",
				common.FormatPoints(f.deps.Config.ClassChangeCost), common.FormatPoints(player.Points)),
		}
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to class choose command: %v", err)
	}
}

func (f *Feature) handleInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := buildClassListEmbed(f.deps.Catalog.Get().Classes, f.deps.Config.ClassChangeCost)
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to class info command: %v", err)
	}
}

func (f *Feature) handleSkill(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	// an illusionist skill posts a message before committing
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring skill response: %v", err)
		return
	}

	var result *service.SkillResult
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		result, err = svc.Skills().Activate(ctx, caller.UserID, caller.Username)
		if err != nil {
			return err
		}
		if result.FakeSpawnChannelID != 0 {
			return spawn.PostFake(ctx, s, svc, result.FakeSpawnChannelID, caller.UserID)
		}
		return nil
	})
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	if _, err := common.FollowUpWithEmbed(s, i, buildSkillEmbed(result), nil, true); err != nil {
		log.Errorf("Error sending skill result: %v", err)
	}
}
