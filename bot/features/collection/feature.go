package collection

import (
	"context"
	"fmt"
	"strings"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var rarityColors = map[string]int{
	"common":    0x95A5A6,
	"rare":      common.ColorInfo,
	"legendary": common.ColorSuper,
}

var rarityEmoji = map[string]string{
	"common":    "⚪",
	"rare":      "🔵",
	"legendary": "🟡",
}

// Feature is the car gacha
type Feature struct {
	deps *common.Deps
}

func New(deps *common.Deps) *Feature {
	return &Feature{deps: deps}
}

// HandleCommand routes /garage subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand.")
		return
	}

	switch options[0].Name {
	case "draw":
		f.handleDraw(s, i)
	case "list":
		f.handleList(s, i)
	}
}

func (f *Feature) handleDraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	var car *catalog.Car
	var cost int64
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		cost = svc.Catalog().Economy.CarDrawCost
		car, err = svc.Collection().Draw(ctx, caller.UserID, caller.Username)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"userID": caller.UserID,
		"car":    car.ID,
		"rarity": car.Rarity,
	}).Info("Car drawn")

	if err := common.RespondWithEmbed(s, i, buildDrawEmbed(car, cost), nil, false); err != nil {
		log.Errorf("Error responding to garage draw: %v", err)
	}
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx := context.Background()
	var owned []*models.OwnedCar
	var cat *catalog.Catalog
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		cat = svc.Catalog()
		owned, err = svc.Collection().Garage(ctx, caller.UserID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildGarageEmbed(caller.Username, owned, cat), nil, false); err != nil {
		log.Errorf("Error responding to garage list: %v", err)
	}
}

func buildDrawEmbed(car *catalog.Car, cost int64) *discordgo.MessageEmbed {
	color, ok := rarityColors[car.Rarity]
	if !ok {
		color = common.ColorPrimary
	}
	return &discordgo.MessageEmbed{
		Title:       "🚗 New car!",
		Description: fmt.Sprintf("%s **%s** (%s)", rarityEmoji[car.Rarity], car.Name, car.Rarity),
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Draw cost: %s Reiatsu", common.FormatPoints(cost))},
	}
}

// buildGarageEmbed groups duplicates and keeps the catalog order
func buildGarageEmbed(username string, owned []*models.OwnedCar, cat *catalog.Catalog) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏁 Garage of " + username,
		Color: common.ColorPrimary,
	}
	if len(owned) == 0 {
		embed.Description = "No cars yet. Try `/garage draw`."
		return embed
	}

	counts := make(map[string]int)
	for _, car := range owned {
		counts[car.CarID]++
	}

	var sb strings.Builder
	for _, def := range cat.Cars {
		n := counts[def.ID]
		if n == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s **%s**", rarityEmoji[def.Rarity], def.Name)
		if n > 1 {
			fmt.Fprintf(&sb, " ×%d", n)
		}
		sb.WriteString("\n")
		delete(counts, def.ID)
	}
	for id, n := range counts {
		fmt.Fprintf(&sb, "❔ %s ×%d\n", id, n)
	}

	embed.Description = sb.String()
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("%d cars · %d/%d models", len(owned), countModels(owned), len(cat.Cars)),
	}
	return embed
}

func countModels(owned []*models.OwnedCar) int {
	seen := make(map[string]struct{}, len(owned))
	for _, car := range owned {
		seen[car.CarID] = struct{}{}
	}
	return len(seen)
}
