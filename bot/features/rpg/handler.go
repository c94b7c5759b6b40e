package rpg

import (
	"context"
	"strings"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/models"
	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) character(ctx context.Context, caller *common.Caller, fn func(rpg *service.RPGService) (*models.RPGPlayer, error)) (*models.RPGPlayer, *catalog.Catalog, error) {
	var character *models.RPGPlayer
	var cat *catalog.Catalog
	err := f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		var err error
		character, err = fn(svc.RPG())
		cat = svc.Catalog()
		return err
	})
	return character, cat, err
}

func (f *Feature) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	character, cat, err := f.character(ctx, caller, func(rpg *service.RPGService) (*models.RPGPlayer, error) {
		return rpg.EnsureCharacter(ctx, caller.UserID, caller.Username)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildCharacterEmbed(character, cat, f.deps.Clock.Now()), nil, true); err != nil {
		log.Errorf("Error responding to rpg profile command: %v", err)
	}
}

func (f *Feature) handleClass(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var class models.RPGClass
	for _, opt := range options {
		if opt.Name == "class" {
			class = models.RPGClass(opt.StringValue())
		}
	}

	character, cat, err := f.character(ctx, caller, func(rpg *service.RPGService) (*models.RPGPlayer, error) {
		return rpg.ChooseClass(ctx, caller.UserID, caller.Username, class)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	embed := buildCharacterEmbed(character, cat, f.deps.Clock.Now())
	embed.Description = "Your path is chosen. Head out with `/rpg fight`."
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to rpg class command: %v", err)
	}
}

func (f *Feature) handleTravel(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var zoneID string
	for _, opt := range options {
		if opt.Name == "zone" {
			zoneID = opt.StringValue()
		}
	}

	character, cat, err := f.character(ctx, caller, func(rpg *service.RPGService) (*models.RPGPlayer, error) {
		return rpg.Travel(ctx, caller.UserID, caller.Username, zoneID)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	zone, _ := cat.Zone(character.Zone)
	if err := common.RespondWithEmbed(s, i, buildZoneEmbed(zone), nil, true); err != nil {
		log.Errorf("Error responding to rpg travel command: %v", err)
	}
}

func (f *Feature) handleFight(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var enemyID string
	for _, opt := range options {
		if opt.Name == "enemy" {
			enemyID = opt.StringValue()
		}
	}

	var result *service.FightResult
	var cat *catalog.Catalog
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		cat = svc.Catalog()
		result, err = svc.RPG().Fight(ctx, caller.UserID, caller.Username, enemyID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildFightEmbed(result, caller.Username, cat), nil, false); err != nil {
		log.Errorf("Error responding to rpg fight command: %v", err)
	}
}

func (f *Feature) handleHeal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	character, _, err := f.character(ctx, caller, func(rpg *service.RPGService) (*models.RPGPlayer, error) {
		return rpg.Heal(ctx, caller.UserID, caller.Username)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	message := "💚 Fully healed: " + hpLine(character.Stats)
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Error responding to rpg heal command: %v", err)
	}
}

func (f *Feature) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}

	var focused *discordgo.ApplicationCommandInteractionDataOption
	for _, opt := range data.Options[0].Options {
		if opt.Focused {
			focused = opt
		}
	}
	if focused == nil {
		return
	}

	choices := suggest(f.deps.Catalog.Get(), focused.Name, focused.StringValue())
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		log.Debugf("Error responding to rpg autocomplete: %v", err)
	}
}

// suggest lists zones or enemies whose name contains the typed text
func suggest(cat *catalog.Catalog, option, typed string) []*discordgo.ApplicationCommandOptionChoice {
	typed = strings.ToLower(typed)
	var choices []*discordgo.ApplicationCommandOptionChoice
	add := func(id, name string) {
		if len(choices) < 25 && strings.Contains(strings.ToLower(name), typed) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: id})
		}
	}

	for _, zone := range cat.Zones {
		switch option {
		case "zone":
			add(zone.ID, zone.Name)
		case "enemy":
			for _, enemy := range zone.Enemies {
				add(enemy.ID, enemy.Name+" ("+zone.Name+")")
			}
		}
	}
	return choices
}
