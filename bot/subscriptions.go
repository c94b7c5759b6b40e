package bot

import (
	"context"
	"fmt"
	"slices"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/events"
	"reiatsu/game/combat"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// maxMemberFetchLimit is the maximum number of members to fetch from Discord
const maxMemberFetchLimit = 1000

// registerSubscriptions registers all bot-level event subscriptions.
// This includes quest progress and handlers for Discord-specific features like roles.
func (b *Bot) registerSubscriptions() {
	b.eventBus.Subscribe(events.EventTypePointsChanged, func(ctx context.Context, event events.Event) {
		if err := b.SyncChampionRole(ctx, event.Guild()); err != nil {
			log.WithFields(log.Fields{
				"guildID": event.Guild(),
				"error":   err,
			}).Error("Failed to update champion role")
		}
	})

	for _, eventType := range []events.EventType{
		events.EventTypeSpawnClaimed,
		events.EventTypeStealAttempted,
		events.EventTypeItemPurchased,
		events.EventTypeCombatFinished,
		events.EventTypeWordFound,
	} {
		b.eventBus.Subscribe(eventType, b.advanceQuests)
	}

	b.eventBus.Subscribe(events.EventTypeQuestCompleted, b.announceQuest)

	log.Info("Bot event subscriptions registered successfully")
}

// questTrigger maps an event to the quest counter it advances
func questTrigger(event events.Event) (discordID int64, trigger string, ok bool) {
	switch e := event.(type) {
	case events.SpawnClaimedEvent:
		return e.DiscordID, catalog.TriggerAbsorb, e.Gain > 0
	case events.StealAttemptedEvent:
		return e.ThiefID, catalog.TriggerStealSuccess, e.Success
	case events.ItemPurchasedEvent:
		return e.DiscordID, catalog.TriggerPurchase, true
	case events.CombatFinishedEvent:
		return e.DiscordID, catalog.TriggerCombatWin, e.Outcome == string(combat.OutcomeWin)
	case events.WordFoundEvent:
		return e.DiscordID, catalog.TriggerWordFound, true
	}
	return 0, "", false
}

func (b *Bot) advanceQuests(ctx context.Context, event events.Event) {
	discordID, trigger, ok := questTrigger(event)
	if !ok {
		return
	}

	err := b.deps.InGuild(ctx, event.Guild(), func(svc *common.Services) error {
		_, err := svc.Quests().Advance(ctx, discordID, trigger, 1)
		return err
	})
	if err != nil {
		log.WithFields(log.Fields{
			"guildID":   event.Guild(),
			"discordID": discordID,
			"trigger":   trigger,
			"error":     err,
		}).Error("Failed to advance quests")
	}
}

// announceQuest posts completed quests to the guild's log channel when one is set
func (b *Bot) announceQuest(ctx context.Context, event events.Event) {
	completed, ok := event.(events.QuestCompletedEvent)
	if !ok {
		return
	}

	var channelID *int64
	err := b.deps.InGuild(ctx, completed.GuildID, func(svc *common.Services) error {
		settings, err := svc.Settings().Get(ctx)
		if err != nil {
			return err
		}
		channelID = settings.LogChannelID
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("guildID", completed.GuildID).Error("Failed to load guild settings")
		return
	}
	if channelID == nil {
		return
	}

	name := completed.QuestID
	for _, quest := range b.deps.Catalog.Get().Quests {
		if quest.ID == completed.QuestID {
			name = quest.Name
			break
		}
	}

	message := fmt.Sprintf("🏅 %s completed **%s** and earned **%s Reiatsu**.",
		common.Mention(completed.DiscordID), name, common.FormatPoints(completed.Reward))
	if _, err := b.session.ChannelMessageSend(common.FormatID(*channelID), message); err != nil {
		log.WithError(err).WithField("guildID", completed.GuildID).Warn("Failed to announce quest")
	}
}

// SyncChampionRole gives the configured role to the richest player and
// removes it from everyone else
func (b *Bot) SyncChampionRole(ctx context.Context, guildID int64) error {
	var roleID *int64
	var championID int64
	err := b.deps.InGuild(ctx, guildID, func(svc *common.Services) error {
		settings, err := svc.Settings().Get(ctx)
		if err != nil {
			return err
		}
		if settings.ChampionRoleID == nil {
			return nil
		}
		roleID = settings.ChampionRoleID

		champion, err := svc.Players().Champion(ctx)
		if err != nil {
			return err
		}
		if champion != nil {
			championID = champion.DiscordID
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load champion: %w", err)
	}
	if roleID == nil {
		return nil
	}

	guild := common.FormatID(guildID)
	role := common.FormatID(*roleID)

	members, err := b.session.GuildMembers(guild, "", maxMemberFetchLimit)
	if err != nil {
		return fmt.Errorf("failed to get guild members: %w", err)
	}

	champion := ""
	if championID != 0 {
		champion = common.FormatID(championID)
	}
	remove, add := championRoleChanges(members, role, champion)

	for _, holderID := range remove {
		if err := b.session.GuildMemberRoleRemove(guild, holderID, role); err != nil {
			log.Errorf("Failed to remove champion role from user %s: %v", holderID, err)
		} else {
			log.Infof("Removed champion role from user %s", holderID)
		}
	}
	if add {
		if err := b.session.GuildMemberRoleAdd(guild, champion, role); err != nil {
			return fmt.Errorf("failed to add champion role to user %s: %w", champion, err)
		}
		log.Infof("Added champion role to user %s in guild %d", champion, guildID)
	}
	return nil
}

// championRoleChanges returns the holders to strip and whether the champion
// still needs the role. An empty champion strips everyone.
func championRoleChanges(members []*discordgo.Member, roleID, championID string) (remove []string, add bool) {
	add = championID != ""
	for _, member := range members {
		if member.User == nil || !slices.Contains(member.Roles, roleID) {
			continue
		}
		if member.User.ID == championID {
			add = false
			continue
		}
		remove = append(remove, member.User.ID)
	}
	return remove, add
}
