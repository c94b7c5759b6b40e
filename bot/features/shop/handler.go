package shop

import (
	"context"
	"fmt"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBrowse(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var items []catalog.ShopItem
	var keys int
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		shop := svc.Shop()
		items = shop.Items()
		keys, err = shop.KeysAvailable(ctx)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildShopEmbed(items, keys), buildShopComponents(items), false); err != nil {
		log.Errorf("Error responding to shop command: %v", err)
	}
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	values := i.MessageComponentData().Values
	if len(values) == 0 {
		common.RespondWithError(s, i, "Pick an item to buy.")
		return
	}
	itemID := values[0]

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring purchase response: %v", err)
		return
	}

	var purchase *service.Purchase
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		purchase, err = svc.Shop().Buy(ctx, caller.UserID, caller.Username, itemID)
		if err != nil {
			return err
		}
		// a failed role grant rolls the charge back
		if purchase.RoleID != "" {
			if err := s.GuildMemberRoleAdd(i.GuildID, common.FormatID(caller.UserID), purchase.RoleID); err != nil {
				return fmt.Errorf("failed to grant role %s: %w", purchase.RoleID, err)
			}
		}
		return nil
	})
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	log.WithFields(log.Fields{
		"guildID": caller.GuildID,
		"userID":  caller.UserID,
		"itemID":  purchase.Item.ID,
		"price":   purchase.Item.Price,
	}).Info("Shop item purchased")

	if _, err := common.FollowUpWithEmbed(s, i, buildPurchaseEmbed(purchase), nil, true); err != nil {
		log.Errorf("Error sending purchase confirmation: %v", err)
	}
}

func (f *Feature) handleStock(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if !f.deps.Config.IsOwner(caller.UserID) {
		common.RespondWithError(s, i, "Only the bot owners can stock keys.")
		return
	}

	var game, code string
	for _, opt := range options {
		switch opt.Name {
		case "game":
			game = opt.StringValue()
		case "key":
			code = opt.StringValue()
		}
	}
	if game == "" || code == "" {
		common.RespondWithError(s, i, "Both a game name and a key are required.")
		return
	}

	var available int
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		shop := svc.Shop()
		if err := shop.StockKey(ctx, game, code); err != nil {
			return err
		}
		available, err = shop.KeysAvailable(ctx)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	message := fmt.Sprintf("Added a key for **%s**. %d keys in the vault.", game, available)
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Error responding to stock command: %v", err)
	}
}
