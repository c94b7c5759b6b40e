package bot

import (
	"context"
	"strings"

	"reiatsu/bot/common"
	"reiatsu/bot/features/fun"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// parsePrefixCommand splits "!name rest" into its lowercase name and arguments
func parsePrefixCommand(prefix, content string) (name, args string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	body := strings.TrimSpace(strings.TrimPrefix(content, prefix))
	if body == "" {
		return "", "", false
	}
	name, args, _ = strings.Cut(body, " ")
	return strings.ToLower(name), strings.TrimSpace(args), true
}

// handlePrefixCommand serves the text commands that mirror the common slash commands
func (b *Bot) handlePrefixCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	name, args, ok := parsePrefixCommand(b.deps.Config.CommandPrefix, m.Content)
	if !ok {
		return
	}

	guildID, err := common.ParseID(m.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", m.GuildID, err)
		return
	}

	ctx := context.Background()
	var embed *discordgo.MessageEmbed
	var file *discordgo.File

	switch name {
	case "reiatsu":
		target, self := m.Author, true
		if len(m.Mentions) > 0 {
			target, self = m.Mentions[0], m.Mentions[0].ID == m.Author.ID
		}
		embed, err = b.reiatsu.Profile(ctx, s, guildID, target, self)
	case "top":
		embed, file, err = b.reiatsu.Leaderboard(ctx, s, guildID)
	case "steal":
		if len(m.Mentions) == 0 {
			err = common.NewUserError("Mention the player you want to steal from.")
			break
		}
		thiefID, parseErr := common.ParseID(m.Author.ID)
		if parseErr != nil {
			log.Errorf("Failed to parse author ID %s: %v", m.Author.ID, parseErr)
			return
		}
		embed, err = b.steal.Steal(ctx, guildID, thiefID, m.Author.Username, m.Mentions[0])
	case "calc":
		embed, err = fun.CalcEmbed(args)
	case "say":
		b.prefixSay(s, m, args)
		return
	default:
		return
	}

	b.metrics.RecordCommand(ctx, name)

	if err != nil {
		b.replyError(s, m, err)
		return
	}

	send := &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{embed},
		Reference: m.Reference(),
	}
	if file != nil {
		send.Files = []*discordgo.File{file}
	}
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, send); err != nil {
		log.WithError(err).WithField("command", name).Warn("Failed to answer prefix command")
	}
}

// prefixSay replaces the author's message with the bot's
func (b *Bot) prefixSay(s *discordgo.Session, m *discordgo.MessageCreate, text string) {
	b.metrics.RecordCommand(context.Background(), "say")

	message, err := fun.SayMessage(text)
	if err != nil {
		b.replyError(s, m, err)
		return
	}
	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		log.WithError(err).Debug("Failed to delete say command message")
	}
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, message); err != nil {
		log.WithError(err).Warn("Failed to send say message")
	}
}

func (b *Bot) replyError(s *discordgo.Session, m *discordgo.MessageCreate, err error) {
	message, known := common.UserMessage(err)
	if !known {
		log.WithFields(log.Fields{
			"user_id":  m.Author.ID,
			"guild_id": m.GuildID,
			"content":  m.Content,
			"error":    err.Error(),
		}).Error("Unexpected error in prefix command")
		message = "Something went wrong. Please try again later."
	}
	if _, err := s.ChannelMessageSendReply(m.ChannelID, "❌ "+message, m.Reference()); err != nil {
		log.WithError(err).Warn("Failed to send prefix command error")
	}
}
