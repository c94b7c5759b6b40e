package rpg

import (
	"fmt"
	"strings"
	"time"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/game/combat"
	"reiatsu/models"
	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
)

// maxLogLines keeps fight logs inside an embed field
const maxLogLines = 8

func hpLine(stats models.RPGStats) string {
	return fmt.Sprintf("%s %d/%d HP", common.ProgressBar(stats.HP, stats.MaxHP, 10), stats.HP, stats.MaxHP)
}

func buildCharacterEmbed(character *models.RPGPlayer, cat *catalog.Catalog, now time.Time) *discordgo.MessageEmbed {
	stats := character.Stats

	className := "Not chosen (`/rpg class`)"
	if class, ok := cat.RPGClass(character.Class); ok {
		className = class.Name
	}
	zoneName := character.Zone
	if zone, ok := cat.Zone(character.Zone); ok {
		zoneName = zone.Name
	}

	embed := &discordgo.MessageEmbed{
		Title: "⚔️ " + character.Username,
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Class", Value: className, Inline: true},
			{Name: "Level", Value: fmt.Sprintf("%d", stats.Level), Inline: true},
			{Name: "Zone", Value: zoneName, Inline: true},
			{Name: "HP", Value: hpLine(stats)},
			{Name: "XP", Value: fmt.Sprintf("%s %d/%d", common.ProgressBar(stats.XP, stats.XPToNext(), 10), stats.XP, stats.XPToNext())},
			{Name: "Stats", Value: fmt.Sprintf("ATK %d · DEF %d · SPD %d", stats.Attack, stats.Defense, stats.Speed)},
		},
	}

	for _, action := range []string{models.CooldownFight, models.CooldownHeal} {
		if ready := character.ReadyAt(action); ready.After(now) {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   "Next " + action,
				Value:  common.FormatDiscordTimestamp(ready, "R"),
				Inline: true,
			})
		}
	}
	return embed
}

func buildZoneEmbed(zone *catalog.Zone) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🗺️ " + zone.Name,
		Color: common.ColorInfo,
	}
	var sb strings.Builder
	for _, enemy := range zone.Enemies {
		fmt.Fprintf(&sb, "**%s** · %d HP · ATK %d · %d XP\n", enemy.Name, enemy.HP, enemy.Attack, enemy.XP)
	}
	embed.Description = sb.String()
	return embed
}

func buildFightEmbed(result *service.FightResult, playerName string, cat *catalog.Catalog) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("⚔️ %s vs %s", playerName, result.Enemy.Name),
	}

	switch result.Combat.Outcome {
	case combat.OutcomeWin:
		embed.Color = common.ColorSuccess
		embed.Description = fmt.Sprintf("Victory in %d rounds! +%d XP", result.Combat.Rounds, result.XPGained)
		if result.Reward > 0 {
			embed.Description += fmt.Sprintf(", +%s Reiatsu", common.FormatPoints(result.Reward))
		}
	case combat.OutcomeLoss:
		embed.Color = common.ColorDanger
		embed.Description = fmt.Sprintf("Defeated after %d rounds. You barely escaped.", result.Combat.Rounds)
	default:
		embed.Color = common.ColorWarning
		embed.Description = "Both fighters are exhausted. It's a draw."
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Log", Value: fightLog(result.Combat.Hits)})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "HP", Value: hpLine(result.Character.Stats)})

	if result.LevelsUp > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "⬆️ Level up",
			Value: fmt.Sprintf("You are now level %d.", result.Character.Stats.Level),
		})
	}
	for _, zoneID := range result.NewZones {
		name := zoneID
		if zone, ok := cat.Zone(zoneID); ok {
			name = zone.Name
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "🗺️ New zone",
			Value: name + " is now open. Use `/rpg travel`.",
		})
	}
	return embed
}

func fightLog(hits []combat.Hit) string {
	if len(hits) == 0 {
		return "Nothing happened."
	}

	var lines []string
	shown := hits
	if len(hits) > maxLogLines {
		shown = hits[len(hits)-maxLogLines:]
		lines = append(lines, fmt.Sprintf("… %d earlier hits", len(hits)-maxLogLines))
	}
	for _, hit := range shown {
		crit := ""
		if hit.Critical {
			crit = " **CRIT**"
		}
		lines = append(lines, fmt.Sprintf("`R%d` %s hits %s for %d%s (%d left)",
			hit.Round, hit.Attacker, hit.Defender, hit.Damage, crit, hit.DefenderHP))
	}
	return strings.Join(lines, "\n")
}
