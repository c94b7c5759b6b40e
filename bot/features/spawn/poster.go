package spawn

import (
	"context"
	"fmt"

	"reiatsu/bot/common"
	"reiatsu/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Post sends a spawn message and adds the claim reaction
func Post(s *discordgo.Session, channelID int64, kind models.SpawnKind) (*discordgo.Message, error) {
	channel := common.FormatID(channelID)
	msg, err := s.ChannelMessageSendEmbed(channel, buildSpawnEmbed(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to post spawn in %d: %w", channelID, err)
	}

	if err := s.MessageReactionAdd(channel, msg.ID, common.SpawnEmoji); err != nil {
		log.WithError(err).WithField("messageID", msg.ID).Warn("Failed to add spawn reaction")
	}
	return msg, nil
}

// PostFake posts an illusionist's fake spawn and records it in the caller's unit of work
func PostFake(ctx context.Context, s *discordgo.Session, svc *common.Services, channelID, illusionistID int64) error {
	msg, err := Post(s, channelID, models.SpawnKindFake)
	if err != nil {
		return err
	}

	messageID, err := common.ParseID(msg.ID)
	if err != nil {
		return fmt.Errorf("failed to parse message ID %s: %w", msg.ID, err)
	}

	if err := svc.Spawns().RecordPosted(ctx, channelID, messageID, models.SpawnKindFake, &illusionistID); err != nil {
		deleteQuietly(s, channelID, msg.ID)
		return err
	}
	return nil
}

// RunDue posts a spawn in every guild whose timer elapsed. Failures are logged
// per guild and never stop the others.
func (f *Feature) RunDue(ctx context.Context, s *discordgo.Session) {
	var guildIDs []int64
	err := f.deps.InGuild(ctx, 0, func(svc *common.Services) error {
		var err error
		guildIDs, err = svc.Spawns().DueGuilds(ctx)
		return err
	})
	if err != nil {
		log.Errorf("Error listing guilds due for a spawn: %v", err)
		return
	}

	for _, guildID := range guildIDs {
		if ctx.Err() != nil {
			return
		}
		if err := f.SpawnIn(ctx, s, guildID); err != nil {
			log.WithFields(log.Fields{
				"guildID": guildID,
				"error":   err,
			}).Error("Failed to post spawn")
		}
	}
}

// SpawnIn posts the guild's next spawn if one is due
func (f *Feature) SpawnIn(ctx context.Context, s *discordgo.Session, guildID int64) error {
	return f.deps.InGuild(ctx, guildID, func(svc *common.Services) error {
		spawns := svc.Spawns()

		plan, err := spawns.PrepareSpawn(ctx)
		if err != nil || plan == nil {
			return err
		}

		if plan.StaleMessageID != nil {
			fade(s, plan.ChannelID, *plan.StaleMessageID)
		}

		msg, err := Post(s, plan.ChannelID, plan.Kind)
		if err != nil {
			return err
		}

		messageID, err := common.ParseID(msg.ID)
		if err != nil {
			return fmt.Errorf("failed to parse message ID %s: %w", msg.ID, err)
		}

		if err := spawns.RecordPosted(ctx, plan.ChannelID, messageID, plan.Kind, nil); err != nil {
			deleteQuietly(s, plan.ChannelID, msg.ID)
			return err
		}

		log.WithFields(log.Fields{
			"guildID":   guildID,
			"channelID": plan.ChannelID,
			"messageID": messageID,
			"kind":      plan.Kind,
		}).Info("Spawn posted")
		return nil
	})
}

// Force expires the guild's timer and posts a spawn right away
func (f *Feature) Force(ctx context.Context, s *discordgo.Session, guildID int64) error {
	err := f.deps.InGuild(ctx, guildID, func(svc *common.Services) error {
		return svc.Spawns().ForceSpawn(ctx)
	})
	if err != nil {
		return err
	}
	return f.SpawnIn(ctx, s, guildID)
}

func fade(s *discordgo.Session, channelID, messageID int64) {
	channel := common.FormatID(channelID)
	message := common.FormatID(messageID)
	if _, err := s.ChannelMessageEditEmbed(channel, message, buildFadedEmbed()); err != nil {
		log.WithError(err).WithField("messageID", messageID).Debug("Failed to fade stale spawn")
	}
	if err := s.MessageReactionsRemoveAll(channel, message); err != nil {
		log.WithError(err).WithField("messageID", messageID).Debug("Failed to clear stale spawn reactions")
	}
}

func deleteQuietly(s *discordgo.Session, channelID int64, messageID string) {
	if err := s.ChannelMessageDelete(common.FormatID(channelID), messageID); err != nil {
		log.WithError(err).WithField("messageID", messageID).Warn("Failed to delete unrecorded spawn")
	}
}
