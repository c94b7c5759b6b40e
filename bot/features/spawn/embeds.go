package spawn

import (
	"fmt"

	"reiatsu/bot/common"
	"reiatsu/models"
	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
)

// fake spawns must look exactly like normal ones
func buildSpawnEmbed(kind models.SpawnKind) *discordgo.MessageEmbed {
	if kind == models.SpawnKindSuper {
		return &discordgo.MessageEmbed{
			Title:       "🌟 A massive Reiatsu surge appeared!",
			Description: fmt.Sprintf("React with %s to absorb it before anyone else.", common.SpawnEmoji),
			Color:       common.ColorSuper,
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "💠 A Reiatsu appeared!",
		Description: fmt.Sprintf("React with %s to absorb it.", common.SpawnEmoji),
		Color:       common.ColorReiatsu,
	}
}

func buildClaimedEmbed(result *service.ClaimResult, claimerID int64) *discordgo.MessageEmbed {
	claimer := common.Mention(claimerID)

	if result.Kind == models.SpawnKindFake {
		embed := &discordgo.MessageEmbed{
			Title: "🎭 It was an illusion!",
			Color: common.ColorDanger,
		}
		switch {
		case result.IllusionistID != nil && *result.IllusionistID == claimerID:
			embed.Description = fmt.Sprintf("%s dispelled their own illusion.", claimer)
		case result.Penalty > 0:
			embed.Description = fmt.Sprintf("%s lost **%s Reiatsu** to %s.",
				claimer, common.FormatPoints(result.Penalty), common.Mention(*result.IllusionistID))
		default:
			embed.Description = fmt.Sprintf("%s fell for it, but had nothing to lose.", claimer)
		}
		return embed
	}

	embed := &discordgo.MessageEmbed{
		Title:       "✅ Reiatsu absorbed",
		Description: fmt.Sprintf("%s absorbed **%s Reiatsu**.", claimer, common.FormatPoints(result.Gain)),
		Color:       common.ColorSuccess,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Now at %s Reiatsu", common.FormatPoints(result.Points))},
	}
	switch {
	case result.Overflow:
		embed.Title = "💥 Overflow!"
		embed.Color = common.ColorSuper
	case result.Kind == models.SpawnKindSuper:
		embed.Title = "🌟 Super Reiatsu absorbed"
		embed.Color = common.ColorSuper
	case result.Gain == 0:
		embed.Description = fmt.Sprintf("%s gambled on the spawn and got nothing.", claimer)
	}
	return embed
}

func buildFadedEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💨 The Reiatsu faded away",
		Description: "Nobody absorbed it in time.",
		Color:       common.ColorInfo,
	}
}

func buildStatusEmbed(config *models.SpawnConfig) *discordgo.MessageEmbed {
	channel := "Disabled"
	if config.ChannelID != nil {
		channel = fmt.Sprintf("<#%d>", *config.ChannelID)
	}

	next := "-"
	switch {
	case config.IsSpawn:
		next = "A spawn is waiting to be absorbed"
	case config.ChannelID != nil:
		next = common.FormatDiscordTimestamp(config.NextSpawnAt(), "R")
	}

	return &discordgo.MessageEmbed{
		Title: "💠 Spawner",
		Color: common.ColorReiatsu,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: channel, Inline: true},
			{Name: "Speed", Value: string(config.Speed), Inline: true},
			{Name: "Next spawn", Value: next},
		},
	}
}
