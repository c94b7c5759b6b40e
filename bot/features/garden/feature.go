package garden

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature is the farming minigame
type Feature struct {
	deps *common.Deps
}

func New(deps *common.Deps) *Feature {
	return &Feature{deps: deps}
}

// HandleCommand routes /garden subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand.")
		return
	}

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	sub := options[0]
	var status string
	var view *gardenView
	ctx := context.Background()

	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		gardens := svc.Garden()

		switch sub.Name {
		case "view":
		case "plant":
			var plot int
			var crop string
			for _, opt := range sub.Options {
				switch opt.Name {
				case "plot":
					plot = int(opt.IntValue())
				case "crop":
					crop = opt.StringValue()
				}
			}
			if _, err := gardens.Plant(ctx, caller.UserID, plot, crop); err != nil {
				return err
			}
			def, _ := svc.Catalog().Crop(crop)
			status = fmt.Sprintf("Planted %s %s on plot %d.", def.Emoji, def.Name, plot)
		case "harvest":
			harvested, err := gardens.Harvest(ctx, caller.UserID)
			if err != nil {
				return err
			}
			status = "Harvested " + describeCrops(svc.Catalog(), harvested) + "."
		case "sell":
			earned, err := gardens.Sell(ctx, caller.UserID)
			if err != nil {
				return err
			}
			status = fmt.Sprintf("Sold your barn for 💰 %s.", common.FormatPoints(earned))
		case "exchange":
			var money int64
			for _, opt := range sub.Options {
				if opt.Name == "money" {
					money = opt.IntValue()
				}
			}
			points, err := gardens.Exchange(ctx, caller.UserID, caller.Username, money)
			if err != nil {
				return err
			}
			status = fmt.Sprintf("Exchanged 💰 %s for **%s Reiatsu**.",
				common.FormatPoints(points*svc.Catalog().Economy.GardenExchangeRate), common.FormatPoints(points))
		default:
			return common.NewUserError("Unknown subcommand.")
		}

		garden, err := gardens.Garden(ctx, caller.UserID)
		if err != nil {
			return err
		}
		view = newGardenView(garden, svc.Catalog(), gardens.ReadyAt, f.deps.Clock.Now())
		return nil
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildGardenEmbed(view, caller.Username, status), nil, true); err != nil {
		log.Errorf("Error responding to garden command: %v", err)
	}
}

type gardenView struct {
	Grid      string
	Money     int64
	Inventory string
	NextReady time.Time
	Rate      int64
}

func newGardenView(garden *models.Garden, cat *catalog.Catalog, readyAt func(models.GardenPlot) time.Time, now time.Time) *gardenView {
	view := &gardenView{Money: garden.Money, Rate: cat.Economy.GardenExchangeRate}

	var sb strings.Builder
	for idx, plot := range garden.Grid {
		switch {
		case plot.IsEmpty():
			sb.WriteString("🟫")
		case now.Before(readyAt(plot)):
			sb.WriteString("🌱")
			if ready := readyAt(plot); view.NextReady.IsZero() || ready.Before(view.NextReady) {
				view.NextReady = ready
			}
		default:
			emoji := "✨"
			if crop, ok := cat.Crop(plot.Crop); ok {
				emoji = crop.Emoji
			}
			sb.WriteString(emoji)
		}
		if (idx+1)%3 == 0 {
			sb.WriteString("\n")
		}
	}
	view.Grid = sb.String()
	view.Inventory = describeCrops(cat, garden.Inventory)
	return view
}

// describeCrops lists counts in crop id order
func describeCrops(cat *catalog.Catalog, counts map[string]int) string {
	var parts []string
	for _, id := range slices.Sorted(maps.Keys(counts)) {
		if counts[id] <= 0 {
			continue
		}
		label := id
		if crop, ok := cat.Crop(id); ok {
			label = crop.Emoji + " " + crop.Name
		}
		parts = append(parts, fmt.Sprintf("%d× %s", counts[id], label))
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}

func buildGardenEmbed(view *gardenView, username, status string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🌿 Garden of " + username,
		Description: view.Grid,
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Money", Value: "💰 " + common.FormatPoints(view.Money), Inline: true},
			{Name: "Barn", Value: view.Inventory, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Plots are numbered 1-9 left to right · %d money = 1 Reiatsu", view.Rate),
		},
	}
	if !view.NextReady.IsZero() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Next harvest",
			Value: common.FormatDiscordTimestamp(view.NextReady, "R"),
		})
	}
	if status != "" {
		embed.Description = status + "\n\n" + embed.Description
	}
	return embed
}
