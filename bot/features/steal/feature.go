package steal

import (
	"context"
	"fmt"

	"reiatsu/bot/common"
	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature resolves /steal
type Feature struct {
	deps *common.Deps
}

func New(deps *common.Deps) *Feature {
	return &Feature{deps: deps}
}

// Steal runs one attempt and returns the announcement
func (f *Feature) Steal(ctx context.Context, guildID, thiefID int64, thiefName string, target *discordgo.User) (*discordgo.MessageEmbed, error) {
	if target.Bot {
		return nil, common.NewUserError("Bots have no Reiatsu to steal.")
	}
	targetID, err := common.ParseID(target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target ID %s: %w", target.ID, err)
	}

	var result *service.StealResult
	err = f.deps.InGuild(ctx, guildID, func(svc *common.Services) error {
		result, err = svc.Steal().Steal(ctx, thiefID, thiefName, targetID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"guildID":  guildID,
		"thiefID":  thiefID,
		"targetID": targetID,
		"success":  result.Success,
		"dodged":   result.Dodged,
		"amount":   result.Amount,
	}).Debug("Steal attempted")

	return buildStealEmbed(result, thiefID, targetID), nil
}

// HandleCommand handles /steal user
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var target *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}
	if target == nil {
		common.RespondWithError(s, i, "Pick someone to steal from.")
		return
	}

	embed, err := f.Steal(context.Background(), caller.GuildID, caller.UserID, caller.Username, target)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to steal command: %v", err)
	}
}

func buildStealEmbed(result *service.StealResult, thiefID, targetID int64) *discordgo.MessageEmbed {
	thief, target := common.Mention(thiefID), common.Mention(targetID)
	embed := &discordgo.MessageEmbed{
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("You have %s Reiatsu", common.FormatPoints(result.ThiefPoints)),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Next steal", Value: common.FormatDiscordTimestamp(result.NextStealAt, "R")},
		},
	}

	switch {
	case result.Success:
		embed.Title = "🗡️ Steal successful"
		embed.Color = common.ColorSuccess
		embed.Description = fmt.Sprintf("%s stole **%s Reiatsu** from %s.", thief, common.FormatPoints(result.Amount), target)
		if result.Doubled {
			embed.Description += " Double haul!"
		}
		if result.Guaranteed {
			embed.Title = "🗡️ Shunpo Heist"
		}
	case result.Dodged:
		embed.Title = "🎭 Illusion"
		embed.Color = common.ColorWarning
		embed.Description = fmt.Sprintf("%s grabbed at %s, but it was only an illusion.", thief, target)
	default:
		embed.Title = "❌ Steal failed"
		embed.Color = common.ColorDanger
		embed.Description = fmt.Sprintf("%s tried to steal from %s and got caught.", thief, target)
	}
	return embed
}
