package classes

import (
	"reiatsu/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature lets players pick a Reiatsu class and use its skill
type Feature struct {
	deps *common.Deps
}

func New(deps *common.Deps) *Feature {
	return &Feature{deps: deps}
}

// HandleClassCommand routes /class subcommands
func (f *Feature) HandleClassCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand.")
		return
	}

	switch options[0].Name {
	case "choose":
		f.handleChoose(s, i, options[0].Options)
	case "info":
		f.handleInfo(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}

// HandleSkillCommand handles /skill
func (f *Feature) HandleSkillCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleSkill(s, i)
}
