package reiatsu

import (
	"context"
	"fmt"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/models"
	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const historyLimit = 10

// Profile loads a player's profile card. Asking for yourself creates your profile.
func (f *Feature) Profile(ctx context.Context, s *discordgo.Session, guildID int64, target *discordgo.User, self bool) (*discordgo.MessageEmbed, error) {
	targetID, err := common.ParseID(target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID %s: %w", target.ID, err)
	}

	var embed *discordgo.MessageEmbed
	err = f.deps.InGuild(ctx, guildID, func(svc *common.Services) error {
		players := svc.Players()

		var player *models.Player
		if self {
			player, err = players.EnsureProfile(ctx, targetID, target.Username)
		} else {
			player, err = players.GetProfile(ctx, targetID)
		}
		if err != nil {
			return err
		}

		rank, err := players.Rank(ctx, targetID)
		if err != nil {
			return err
		}

		class, _ := svc.Catalog().Class(player.Class)
		embed = buildProfileEmbed(player, rank, class, common.GetDisplayName(s, common.FormatID(guildID), target.ID), f.deps.Clock.Now())
		return nil
	})
	return embed, err
}

// Leaderboard renders the top players as an image with a text fallback
func (f *Feature) Leaderboard(ctx context.Context, s *discordgo.Session, guildID int64) (*discordgo.MessageEmbed, *discordgo.File, error) {
	var top []*models.Player
	err := f.deps.InGuild(ctx, guildID, func(svc *common.Services) error {
		var err error
		top, err = svc.Players().Leaderboard(ctx, common.LeaderboardSize)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	guild := common.FormatID(guildID)
	entries := make([]LeaderboardEntry, len(top))
	for idx, player := range top {
		entries[idx] = LeaderboardEntry{
			Rank:   idx + 1,
			Name:   common.GetDisplayNameInt64(s, guild, player.DiscordID),
			Points: player.Points,
			Class:  string(player.Class),
			Level:  player.Level,
		}
	}

	embed := buildLeaderboardEmbed(entries)
	if len(entries) == 0 {
		return embed, nil, nil
	}

	png, err := f.images.Generate(entries)
	if err != nil {
		log.WithError(err).Warn("Failed to render leaderboard image, sending text only")
		return embed, nil, nil
	}
	embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://leaderboard.png"}
	return embed, &discordgo.File{Name: "leaderboard.png", ContentType: "image/png", Reader: bytesReader(png)}, nil
}

func (f *Feature) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	target := common.InteractionUser(i)
	for _, opt := range options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}
	if target.Bot {
		common.RespondWithError(s, i, "Bots don't have Reiatsu.")
		return
	}

	embed, err := f.Profile(ctx, s, caller.GuildID, target, target.ID == common.InteractionUser(i).ID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to profile command: %v", err)
	}
}

func (f *Feature) handleTop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	// rendering and member lookups can exceed the 3s response window
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring leaderboard response: %v", err)
		return
	}

	embed, file, err := f.Leaderboard(ctx, s, caller.GuildID)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	edit := &discordgo.WebhookEdit{Embeds: &[]*discordgo.MessageEmbed{embed}}
	if file != nil {
		edit.Files = []*discordgo.File{file}
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		log.Errorf("Error sending leaderboard: %v", err)
	}
}

func (f *Feature) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var amount int64
	var recipient *discordgo.User
	for _, opt := range options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			recipient = opt.UserValue(s)
		}
	}
	if recipient == nil || recipient.Bot {
		common.RespondWithError(s, i, "Invalid recipient.")
		return
	}

	recipientID, err := common.ParseID(recipient.ID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		return svc.Players().Give(ctx, caller.UserID, caller.Username, recipientID, recipient.Username, amount)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	message := fmt.Sprintf("💠 %s gave **%s Reiatsu** to %s",
		common.Mention(caller.UserID), common.FormatPoints(amount), common.Mention(recipientID))
	if err := common.RespondWithMessage(s, i, message, false); err != nil {
		log.Errorf("Error responding to give command: %v", err)
	}
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var entries []*models.PointsHistory
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		entries, err = svc.Players().History(ctx, caller.UserID, historyLimit)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildHistoryEmbed(entries), nil, true); err != nil {
		log.Errorf("Error responding to history command: %v", err)
	}
}

func (f *Feature) handleQuests(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var statuses []service.QuestStatus
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		statuses, err = svc.Quests().List(ctx, caller.UserID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildQuestsEmbed(statuses), nil, true); err != nil {
		log.Errorf("Error responding to quests command: %v", err)
	}
}

func (f *Feature) handleSet(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if !f.deps.Config.IsOwner(caller.UserID) && !common.IsUserAdmin(s, i) {
		common.RespondWithError(s, i, "Only administrators can set Reiatsu.")
		return
	}

	var amount int64
	var target *discordgo.User
	for _, opt := range options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			target = opt.UserValue(s)
		}
	}
	if target == nil {
		common.RespondWithError(s, i, "Invalid user.")
		return
	}

	targetID, err := common.ParseID(target.ID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var before int64
	err = f.deps.InGuild(ctx, caller.GuildID, func(svc *common.Services) error {
		before, err = svc.Players().SetPoints(ctx, targetID, target.Username, amount,
			fmt.Sprintf("set by %s", caller.Username))
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"guildID":  caller.GuildID,
		"adminID":  caller.UserID,
		"targetID": targetID,
		"before":   before,
		"after":    amount,
	}).Info("Reiatsu set by administrator")

	message := fmt.Sprintf("Set %s to **%s Reiatsu** (was %s).",
		common.Mention(targetID), common.FormatPoints(amount), common.FormatPoints(before))
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Error responding to set command: %v", err)
	}
}

func classLabel(class *catalog.ClassDef) string {
	if class == nil {
		return "None"
	}
	return class.Emoji + " " + class.Name
}
