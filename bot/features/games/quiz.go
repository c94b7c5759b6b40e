package games

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reiatsu/bot/common"
	"reiatsu/game/quiz"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var choiceLetters = []string{"A", "B", "C", "D"}

type quizGame struct {
	round   *quiz.Round
	guildID int64
	timer   *time.Timer
}

func (f *Feature) startQuiz(s *discordgo.Session, i *discordgo.InteractionCreate) {
	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	round, err := quiz.NewRound(f.deps.Catalog.Get().Quiz, f.deps.Random)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	game := &quizGame{round: round, guildID: caller.GuildID}
	id := f.quizzes.Add(game)
	deadline := f.deps.Clock.Now().Add(quiz.TimeLimit)

	interaction := i.Interaction
	f.after(quiz.TimeLimit, &game.timer, func() {
		if !round.Close() {
			return
		}
		f.quizzes.Delete(id)

		embed := buildQuizResultEmbed(round, 0)
		_, err := s.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
			Embeds:     &[]*discordgo.MessageEmbed{embed},
			Components: &[]discordgo.MessageComponent{},
		})
		if err != nil {
			log.WithError(err).Warn("Failed to close quiz message")
		}
	})

	if err := common.RespondWithEmbed(s, i, buildQuizEmbed(round, deadline), buildQuizComponents(id, round), false); err != nil {
		log.Errorf("Error starting quiz: %v", err)
		f.cancel(&game.timer)
		f.quizzes.Delete(id)
	}
}

func (f *Feature) handleQuizAnswer(s *discordgo.Session, i *discordgo.InteractionCreate, raw string) {
	id, choice, ok := splitID(raw)
	if !ok {
		return
	}

	game, ok := f.quizzes.Get(id)
	if !ok {
		common.RespondWithError(s, i, "This question is closed.")
		return
	}

	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	won, err := game.round.Submit(caller.UserID, choice)
	switch {
	case errors.Is(err, quiz.ErrLockedOut):
		common.RespondWithError(s, i, "You already answered this question.")
		return
	case errors.Is(err, quiz.ErrClosed):
		common.RespondWithError(s, i, "Someone was faster.")
		return
	case !won:
		common.RespondWithError(s, i, "Wrong answer! You're out for this question.")
		return
	}

	f.cancel(&game.timer)
	f.quizzes.Delete(id)

	ctx := context.Background()
	err = f.deps.InGuild(ctx, game.guildID, func(svc *common.Services) error {
		return svc.Minigames().RewardQuiz(ctx, caller.UserID, caller.Username, game.round.Points)
	})
	if err != nil {
		log.WithError(err).WithField("userID", caller.UserID).Error("Failed to reward quiz answer")
	}

	if err := common.UpdateComponentMessage(s, i, buildQuizResultEmbed(game.round, caller.UserID), nil); err != nil {
		log.Errorf("Error closing quiz: %v", err)
	}
}

func buildQuizEmbed(round *quiz.Round, deadline time.Time) *discordgo.MessageEmbed {
	description := round.Question + "\n"
	for idx, choice := range round.Choices {
		description += fmt.Sprintf("\n**%s.** %s", choiceLetters[idx], choice)
	}
	return &discordgo.MessageEmbed{
		Title:       "❓ Quiz",
		Description: description,
		Color:       common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Reward", Value: common.FormatPoints(round.Points) + " Reiatsu", Inline: true},
			{Name: "Ends", Value: common.FormatDiscordTimestamp(deadline, "R"), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "One answer per person"},
	}
}

func buildQuizComponents(id string, round *quiz.Round) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(round.Choices))
	for idx := range round.Choices {
		buttons = append(buttons, discordgo.Button{
			CustomID: fmt.Sprintf("%s%s_%d", quizPrefix, id, idx),
			Label:    choiceLetters[idx],
			Style:    discordgo.PrimaryButton,
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

// winner is 0 when time ran out
func buildQuizResultEmbed(round *quiz.Round, winner int64) *discordgo.MessageEmbed {
	answer := fmt.Sprintf("**%s.** %s", choiceLetters[round.Answer], round.Choices[round.Answer])
	embed := &discordgo.MessageEmbed{
		Title: "❓ " + round.Question,
	}
	if winner > 0 {
		embed.Color = common.ColorSuccess
		embed.Description = fmt.Sprintf("%s answered %s and earned **%s Reiatsu**.",
			common.Mention(winner), answer, common.FormatPoints(round.Points))
	} else {
		embed.Color = common.ColorWarning
		embed.Description = fmt.Sprintf("⏰ Time's up! The answer was %s.", answer)
	}
	return embed
}
