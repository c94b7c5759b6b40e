package rpg

import (
	"reiatsu/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature is the turn based RPG
type Feature struct {
	deps *common.Deps
}

func New(deps *common.Deps) *Feature {
	return &Feature{deps: deps}
}

// HandleCommand routes /rpg subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand.")
		return
	}

	switch options[0].Name {
	case "profile":
		f.handleProfile(s, i)
	case "class":
		f.handleClass(s, i, options[0].Options)
	case "travel":
		f.handleTravel(s, i, options[0].Options)
	case "fight":
		f.handleFight(s, i, options[0].Options)
	case "heal":
		f.handleHeal(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}

// HandleAutocomplete suggests zones and enemies
func (f *Feature) HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleAutocomplete(s, i)
}
