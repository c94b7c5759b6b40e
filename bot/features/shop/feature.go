package shop

import (
	"strings"

	"reiatsu/bot/common"

	"github.com/bwmarrin/discordgo"
)

const buyMenuID = "shop_buy"

// Feature sells catalog items for Reiatsu
type Feature struct {
	deps *common.Deps
}

func New(deps *common.Deps) *Feature {
	return &Feature{deps: deps}
}

// HandleCommand routes /shop subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		f.handleBrowse(s, i)
		return
	}

	switch options[0].Name {
	case "browse":
		f.handleBrowse(s, i)
	case "stock":
		f.handleStock(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}

// HandleInteraction handles the buy menu
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if strings.HasPrefix(i.MessageComponentData().CustomID, buyMenuID) {
		f.handleBuy(s, i)
	}
}
