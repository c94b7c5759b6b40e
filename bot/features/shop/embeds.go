package shop

import (
	"fmt"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
)

var kindEmoji = map[catalog.ItemKind]string{
	catalog.ItemKindRole:       "🎖️",
	catalog.ItemKindShield:     "🛡️",
	catalog.ItemKindSteamKey:   "🎮",
	catalog.ItemKindTitle:      "🏷️",
	catalog.ItemKindClassReset: "🔄",
}

func buildShopEmbed(items []catalog.ShopItem, keysAvailable int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🛒 Urahara Shop",
		Description: "Spend your Reiatsu. Pick an item from the menu below.",
		Color:       common.ColorPrimary,
	}

	for _, item := range items {
		value := fmt.Sprintf("%s\n**%s Reiatsu**", item.Description, common.FormatPoints(item.Price))
		if item.Kind == catalog.ItemKindSteamKey {
			value += fmt.Sprintf(" · %d in stock", keysAvailable)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  kindEmoji[item.Kind] + " " + item.Name,
			Value: value,
		})
	}

	if len(items) == 0 {
		embed.Description = "The shop is empty."
	}
	return embed
}

func buildShopComponents(items []catalog.ShopItem) []discordgo.MessageComponent {
	if len(items) == 0 {
		return nil
	}

	// select menus hold at most 25 options
	options := make([]discordgo.SelectMenuOption, 0, min(len(items), 25))
	for _, item := range items[:min(len(items), 25)] {
		options = append(options, discordgo.SelectMenuOption{
			Label:       item.Name,
			Value:       item.ID,
			Description: fmt.Sprintf("%s Reiatsu", common.FormatPoints(item.Price)),
			Emoji:       &discordgo.ComponentEmoji{Name: kindEmoji[item.Kind]},
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    buyMenuID,
					Placeholder: "Buy an item",
					Options:     options,
				},
			},
		},
	}
}

func buildPurchaseEmbed(purchase *service.Purchase) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("✅ Bought %s", purchase.Item.Name),
		Color: common.ColorSuccess,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("You have %s Reiatsu left", common.FormatPoints(purchase.Player.Points)),
		},
	}

	switch purchase.Item.Kind {
	case catalog.ItemKindSteamKey:
		embed.Description = fmt.Sprintf("**%s**\n||`%s`||\nThis key is only shown to you. Keep it safe.",
			purchase.Key.GameName, purchase.Key.KeyCode)
	case catalog.ItemKindShield:
		embed.Description = "Steals against you are blocked until " +
			common.FormatDiscordTimestamp(*purchase.Player.ShieldUntil, "f") + "."
	case catalog.ItemKindTitle:
		embed.Description = fmt.Sprintf("Your profile now shows **%s**.", purchase.Player.Title)
	case catalog.ItemKindClassReset:
		embed.Description = "Your class was cleared. Pick a new one with `/class choose`."
	case catalog.ItemKindRole:
		embed.Description = fmt.Sprintf("You received <@&%s>.", purchase.RoleID)
	}
	return embed
}
