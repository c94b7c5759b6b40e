package classes

import (
	"fmt"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/models"
	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
)

func buildClassEmbed(def *catalog.ClassDef) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", def.Emoji, def.Name),
		Description: def.Description,
		Color:       common.ColorReiatsu,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Skill · " + def.SkillName,
				Value: fmt.Sprintf("%s\nCooldown %s", def.SkillDescription, common.FormatDuration(def.SkillCooldown)),
			},
		},
	}
}

func buildClassListEmbed(classes []catalog.ClassDef, changeCost int64) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Reiatsu classes",
		Description: fmt.Sprintf("Your first class is free. Changing later costs %s Reiatsu.", common.FormatPoints(changeCost)),
		Color:       common.ColorReiatsu,
	}
	for _, def := range classes {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s %s", def.Emoji, def.Name),
			Value: fmt.Sprintf("%s\n**%s**: %s (%s)",
				def.Description, def.SkillName, def.SkillDescription, common.FormatDuration(def.SkillCooldown)),
		})
	}
	return embed
}

func buildSkillEmbed(result *service.SkillResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "⚡ " + result.Skill,
		Color: common.ColorReiatsu,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Ready again", Value: common.FormatDiscordTimestamp(result.ReadyAt, "R")},
		},
	}

	switch result.Class {
	case models.ClassThief:
		embed.Description = "Your next steal cannot fail."
	case models.ClassAbsorber:
		embed.Description = "Your next absorbed spawn will overflow into a super spawn."
	case models.ClassIllusionist:
		embed.Description = fmt.Sprintf("A fake spawn appeared in <#%d>. Whoever absorbs it pays you.", result.FakeSpawnChannelID)
	case models.ClassGambler:
		if result.Payout > 0 {
			embed.Color = common.ColorSuccess
			embed.Description = fmt.Sprintf("You paid %s and won **%s Reiatsu**!",
				common.FormatPoints(result.Cost), common.FormatPoints(result.Payout))
		} else {
			embed.Color = common.ColorDanger
			embed.Description = fmt.Sprintf("You paid %s and lost it all.", common.FormatPoints(result.Cost))
		}
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("You have %s Reiatsu", common.FormatPoints(result.Points))}
	}
	return embed
}
