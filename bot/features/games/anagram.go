package games

import (
	"context"
	"fmt"
	"time"

	"reiatsu/bot/common"
	"reiatsu/game/anagram"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type anagramGame struct {
	puzzle  anagram.Puzzle
	guildID int64
	timer   *time.Timer
}

func (f *Feature) startAnagram(s *discordgo.Session, i *discordgo.InteractionCreate) {
	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	words := f.deps.Catalog.Get().Words
	if len(words) == 0 {
		common.RespondWithError(s, i, "No words are available right now.")
		return
	}

	f.mu.Lock()
	if _, busy := f.anagrams[i.ChannelID]; busy {
		f.mu.Unlock()
		common.RespondWithError(s, i, "An anagram is already running in this channel.")
		return
	}
	game := &anagramGame{
		puzzle:  anagram.New(words[f.deps.Random.IntN(len(words))], f.deps.Random),
		guildID: caller.GuildID,
	}
	f.anagrams[i.ChannelID] = game
	f.mu.Unlock()

	channelID := i.ChannelID
	f.after(anagram.TimeLimit, &game.timer, func() {
		if !f.endAnagram(channelID, game) {
			return
		}
		message := fmt.Sprintf("⏰ Time's up! The word was **%s**.", game.puzzle.Word)
		if _, err := s.ChannelMessageSend(channelID, message); err != nil {
			log.WithError(err).Warn("Failed to announce anagram timeout")
		}
	})

	deadline := f.deps.Clock.Now().Add(anagram.TimeLimit)
	if err := common.RespondWithEmbed(s, i, buildAnagramEmbed(game.puzzle, deadline), nil, false); err != nil {
		log.Errorf("Error starting anagram: %v", err)
		f.endAnagram(channelID, game)
	}
}

// endAnagram removes the channel's round if it is still game and stops its timer
func (f *Feature) endAnagram(channelID string, game *anagramGame) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.anagrams[channelID] != game {
		return false
	}
	delete(f.anagrams, channelID)
	f.cancelLocked(&game.timer)
	return true
}

func (f *Feature) checkAnagram(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	f.mu.Lock()
	game, ok := f.anagrams[m.ChannelID]
	f.mu.Unlock()
	if !ok || !game.puzzle.Check(m.Content) {
		return false
	}
	if !f.endAnagram(m.ChannelID, game) {
		return false
	}

	userID, err := common.ParseID(m.Author.ID)
	if err != nil {
		log.Errorf("Error parsing author ID %s: %v", m.Author.ID, err)
		return true
	}

	ctx := context.Background()
	var reward int64
	err = f.deps.InGuild(ctx, game.guildID, func(svc *common.Services) error {
		reward, err = svc.Minigames().RecordWord(ctx, userID, m.Author.Username, game.puzzle.Word)
		return err
	})
	if err != nil {
		log.WithError(err).WithField("userID", userID).Error("Failed to record anagram word")
	}

	message := fmt.Sprintf("🎉 %s found **%s**!", common.Mention(userID), game.puzzle.Word)
	if reward > 0 {
		message += fmt.Sprintf(" +%s Reiatsu for a new word.", common.FormatPoints(reward))
	} else if err == nil {
		message += " You already knew this one."
	}
	if _, err := s.ChannelMessageSendReply(m.ChannelID, message, m.Reference()); err != nil {
		log.WithError(err).Warn("Failed to announce anagram winner")
	}
	return true
}

func buildAnagramEmbed(puzzle anagram.Puzzle, deadline time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔤 Anagram",
		Description: fmt.Sprintf("Unscramble **%s** and type the word in this channel.", puzzle.Scrambled),
		Color:       common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Ends", Value: common.FormatDiscordTimestamp(deadline, "R")},
		},
	}
}
