package reiatsu

import (
	"reiatsu/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature serves Reiatsu profiles, the leaderboard and transfers
type Feature struct {
	deps   *common.Deps
	images *LeaderboardImageGenerator
}

func New(deps *common.Deps) *Feature {
	return &Feature{
		deps:   deps,
		images: NewLeaderboardImageGenerator(),
	}
}

// HandleCommand routes /reiatsu subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand.")
		return
	}

	switch options[0].Name {
	case "profile":
		f.handleProfile(s, i, options[0].Options)
	case "top":
		f.handleTop(s, i)
	case "give":
		f.handleGive(s, i, options[0].Options)
	case "history":
		f.handleHistory(s, i)
	case "quests":
		f.handleQuests(s, i)
	case "set":
		f.handleSet(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}
