package reiatsu

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/models"
	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
)

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

func buildProfileEmbed(player *models.Player, rank int, class *catalog.ClassDef, displayName string, now time.Time) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Reiatsu", Value: fmt.Sprintf("💠 **%s**", common.FormatPoints(player.Points)), Inline: true},
		{Name: "Rank", Value: fmt.Sprintf("#%d", rank), Inline: true},
		{Name: "Level", Value: fmt.Sprintf("%d", player.Level), Inline: true},
		{Name: "Class", Value: classLabel(class), Inline: true},
	}

	if player.SkillArmed {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Skill", Value: "⚡ Armed", Inline: true})
	}
	if player.HasShield(now) {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Shield",
			Value:  "🛡️ until " + common.FormatDiscordTimestamp(*player.ShieldUntil, "R"),
			Inline: true,
		})
	}

	title := displayName
	if player.Title != "" {
		title = fmt.Sprintf("%s · %s", displayName, player.Title)
	}

	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  common.ColorReiatsu,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: "Absorb spawns, steal and complete quests to grow your Reiatsu"},
	}
}

func buildLeaderboardEmbed(entries []LeaderboardEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏆 Reiatsu Leaderboard",
		Color: common.ColorSuper,
	}

	if len(entries) == 0 {
		embed.Description = "Nobody has any Reiatsu yet."
		return embed
	}

	var sb strings.Builder
	for _, entry := range entries {
		medal := fmt.Sprintf("`#%d`", entry.Rank)
		switch entry.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}
		fmt.Fprintf(&sb, "%s **%s** · %s\n", medal, entry.Name, common.FormatPoints(entry.Points))
	}
	embed.Description = sb.String()
	return embed
}

func buildHistoryEmbed(entries []*models.PointsHistory) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📜 Recent Reiatsu changes",
		Color: common.ColorInfo,
	}

	if len(entries) == 0 {
		embed.Description = "No history yet."
		return embed
	}

	var sb strings.Builder
	for _, entry := range entries {
		sign := ""
		if entry.ChangeAmount > 0 {
			sign = "+"
		}
		fmt.Fprintf(&sb, "%s `%s%s` %s → **%s**\n",
			common.FormatDiscordTimestamp(entry.CreatedAt, "R"),
			sign, common.FormatPoints(entry.ChangeAmount),
			strings.ReplaceAll(string(entry.TransactionType), "_", " "),
			common.FormatPoints(entry.PointsAfter))
	}
	embed.Description = sb.String()
	return embed
}

func buildQuestsEmbed(statuses []service.QuestStatus) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📋 Quests",
		Color: common.ColorPrimary,
	}

	for _, status := range statuses {
		value := fmt.Sprintf("%s\n%s %d/%d · reward %s",
			status.Quest.Description,
			common.ProgressBar(status.Progress.Progress, status.Quest.Target, 10),
			min(status.Progress.Progress, status.Quest.Target), status.Quest.Target,
			common.FormatPoints(status.Quest.Reward))
		name := status.Quest.Name
		if status.Progress.Completed {
			name = "✅ " + name
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value})
	}

	if len(embed.Fields) == 0 {
		embed.Description = "No quests available."
	}
	return embed
}
