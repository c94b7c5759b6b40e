package spawn

import (
	"reiatsu/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature posts Reiatsu spawns and resolves claims
type Feature struct {
	deps *common.Deps
}

func New(deps *common.Deps) *Feature {
	return &Feature{deps: deps}
}

// HandleCommand routes /spawn subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand.")
		return
	}

	if options[0].Name != "status" && !common.IsUserAdmin(s, i) {
		common.RespondWithError(s, i, "Only administrators can configure spawns.")
		return
	}

	switch options[0].Name {
	case "channel":
		f.handleChannel(s, i, options[0].Options)
	case "speed":
		f.handleSpeed(s, i, options[0].Options)
	case "disable":
		f.handleDisable(s, i)
	case "force":
		f.handleForce(s, i)
	case "status":
		f.handleStatus(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}
