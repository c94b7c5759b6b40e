package bot

import (
	"fmt"

	"reiatsu/catalog"
	"reiatsu/game/sorting"
	"reiatsu/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var (
	adminPermission int64 = discordgo.PermissionManageGuild
	minPlot               = float64(1)
	minAmount             = float64(1)
)

// registerCommands registers all slash commands with Discord.
// Commands go to GUILD_ID when set so changes show up instantly while developing.
func (b *Bot) registerCommands() error {
	commands := buildCommands(b.deps.Catalog.Get())

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.deps.Config.DiscordGuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	log.Infof("Registered %d slash commands", len(commands))
	return nil
}

func buildCommands(cat *catalog.Catalog) []*discordgo.ApplicationCommand {
	userOption := func(description string, required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: description,
			Required:    required,
		}
	}
	amountOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "amount",
		Description: "Amount of Reiatsu",
		Required:    true,
		MinValue:    &minAmount,
	}
	textOption := func(name, description string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        name,
			Description: description,
			Required:    true,
		}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "reiatsu",
			Description: "Your spiritual pressure",
			Options: []*discordgo.ApplicationCommandOption{
				subCommand("profile", "Show a Reiatsu profile", userOption("Player to inspect (defaults to you)", false)),
				subCommand("top", "Show the server leaderboard"),
				subCommand("give", "Give Reiatsu to another player", userOption("Who receives it", true), amountOption),
				subCommand("history", "Show your latest Reiatsu changes"),
				subCommand("quests", "Show your quest progress"),
				subCommand("set", "Set a player's Reiatsu (admins only)", userOption("Player to update", true), &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "New amount",
					Required:    true,
				}),
			},
		},
		{
			Name:        "steal",
			Description: "Try to steal Reiatsu from another player",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Your victim", true)},
		},
		{
			Name:        "class",
			Description: "Reiatsu classes",
			Options: []*discordgo.ApplicationCommandOption{
				subCommand("choose", "Choose or change your class", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "class",
					Description: "Class to take",
					Required:    true,
					Choices:     classChoices(cat),
				}),
				subCommand("info", "List the classes and their skills"),
			},
		},
		{
			Name:        "skill",
			Description: "Activate your class skill",
		},
		{
			Name:                     "spawn",
			Description:              "Configure Reiatsu spawns",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				subCommand("channel", "Set the spawn channel", &discordgo.ApplicationCommandOption{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Channel where Reiatsu appears",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				}),
				subCommand("speed", "Set the spawn frequency", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "speed",
					Description: "How often Reiatsu appears",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Fast", Value: string(models.SpawnSpeedFast)},
						{Name: "Normal", Value: string(models.SpawnSpeedNormal)},
						{Name: "Slow", Value: string(models.SpawnSpeedSlow)},
					},
				}),
				subCommand("disable", "Stop spawning Reiatsu"),
				subCommand("force", "Release a spawn now"),
				subCommand("status", "Show the spawn configuration"),
			},
		},
		{
			Name:        "shop",
			Description: "Spend your Reiatsu",
			Options: []*discordgo.ApplicationCommandOption{
				subCommand("browse", "Show the shop"),
				subCommand("stock", "Add a Steam key to the vault (owners only)",
					textOption("game", "Game name"),
					textOption("key", "Key code"),
				),
			},
		},
		{
			Name:        "rpg",
			Description: "Fight Hollows and level up",
			Options: []*discordgo.ApplicationCommandOption{
				subCommand("profile", "Show your character"),
				subCommand("class", "Choose your combat class", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "class",
					Description: "Combat class",
					Required:    true,
					Choices:     rpgClassChoices(cat),
				}),
				subCommand("travel", "Travel to another zone", &discordgo.ApplicationCommandOption{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "zone",
					Description:  "Destination",
					Required:     true,
					Autocomplete: true,
				}),
				subCommand("fight", "Fight an enemy of your zone", &discordgo.ApplicationCommandOption{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "enemy",
					Description:  "Opponent",
					Required:     true,
					Autocomplete: true,
				}),
				subCommand("heal", "Restore your HP"),
			},
		},
		{Name: "memory", Description: "Play a memory game"},
		{Name: "quiz", Description: "Answer a Bleach question"},
		{Name: "anagram", Description: "Unscramble a word in this channel"},
		{
			Name:        "sort",
			Description: "Watch a sorting algorithm",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "algorithm",
					Description: "Algorithm to animate",
					Required:    true,
					Choices:     sortChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "size",
					Description: "Number of bars",
				},
			},
		},
		{
			Name:        "garden",
			Description: "Tend your garden",
			Options: []*discordgo.ApplicationCommandOption{
				subCommand("view", "Show your garden"),
				subCommand("plant", "Plant a seed",
					&discordgo.ApplicationCommandOption{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "plot",
						Description: "Plot number, 1 to 9",
						Required:    true,
						MinValue:    &minPlot,
						MaxValue:    float64(models.GardenSize),
					},
					&discordgo.ApplicationCommandOption{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "crop",
						Description: "Seed to plant",
						Required:    true,
						Choices:     cropChoices(cat),
					},
				),
				subCommand("harvest", "Harvest every ripe plot"),
				subCommand("sell", "Sell your barn"),
				subCommand("exchange", "Convert garden money into Reiatsu", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "money",
					Description: "Money to convert",
					Required:    true,
					MinValue:    &minAmount,
				}),
			},
		},
		{
			Name:        "garage",
			Description: "Collect cars",
			Options: []*discordgo.ApplicationCommandOption{
				subCommand("draw", "Draw a random car"),
				subCommand("list", "Show your collection"),
			},
		},
		{
			Name:        "say",
			Description: "Make the bot say something",
			Options:     []*discordgo.ApplicationCommandOption{textOption("text", "What to say")},
		},
		{
			Name:        "emoji",
			Description: "Show a custom emoji in full size",
			Options:     []*discordgo.ApplicationCommandOption{textOption("emoji", "The emoji")},
		},
		{
			Name:        "calc",
			Description: "Evaluate a math expression",
			Options:     []*discordgo.ApplicationCommandOption{textOption("expression", "For example 2 * (3 + 4)")},
		},
		{
			Name:                     "settings",
			Description:              "Configure guild settings (admin only)",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				subCommand("champion-role", "Set the role given to the player with the most Reiatsu", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "The role to assign (leave empty to disable)",
				}),
				subCommand("log-channel", "Set the channel for quest announcements", &discordgo.ApplicationCommandOption{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Channel to post in (leave empty to disable)",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				}),
				subCommand("show", "Show the current settings"),
			},
		},
	}
}

func subCommand(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     options,
	}
}

func classChoices(cat *catalog.Catalog) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(cat.Classes))
	for _, class := range cat.Classes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: class.Name, Value: string(class.ID)})
	}
	return choices
}

func rpgClassChoices(cat *catalog.Catalog) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(cat.RPGClasses))
	for _, class := range cat.RPGClasses {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: class.Name, Value: string(class.ID)})
	}
	return choices
}

func cropChoices(cat *catalog.Catalog) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(cat.Crops))
	for _, crop := range cat.Crops {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s %s (%d)", crop.Emoji, crop.Name, crop.SeedPrice),
			Value: crop.ID,
		})
	}
	return choices
}

func sortChoices() []*discordgo.ApplicationCommandOptionChoice {
	names := sorting.Names()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, name := range names {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
	}
	return choices
}
