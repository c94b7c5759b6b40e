package settings

import (
	"github.com/bwmarrin/discordgo"

	"reiatsu/bot/common"
)

// Feature handles guild settings management
type Feature struct {
	deps *common.Deps
}

// New creates a new settings feature instance
func New(deps *common.Deps) *Feature {
	return &Feature{deps: deps}
}

// HandleCommand routes settings commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "champion-role":
		f.handleChampionRole(s, i)
	case "log-channel":
		f.handleLogChannel(s, i)
	case "show":
		f.handleShow(s, i)
	}
}
