package fun

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"reiatsu/bot/common"
	"reiatsu/game/calc"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// maxSayLength keeps echoed text under the Discord message limit
const maxSayLength = 1900

var customEmoji = regexp.MustCompile(`^<(a?):(\w+):(\d+)>$`)

// Feature holds the small utility commands
type Feature struct{}

func New() *Feature {
	return &Feature{}
}

// HandleCommand routes /say, /emoji and /calc by command name
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		common.RespondWithError(s, i, "Please provide an argument.")
		return
	}
	arg := data.Options[0].StringValue()

	switch data.Name {
	case "say":
		f.handleSay(s, i, arg)
	case "emoji":
		embed, err := EmojiEmbed(arg)
		if err != nil {
			common.HandleError(s, i, err, false)
			return
		}
		if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
			log.Errorf("Error responding to emoji command: %v", err)
		}
	case "calc":
		embed, err := CalcEmbed(arg)
		if err != nil {
			common.HandleError(s, i, err, false)
			return
		}
		if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
			log.Errorf("Error responding to calc command: %v", err)
		}
	}
}

func (f *Feature) handleSay(s *discordgo.Session, i *discordgo.InteractionCreate, text string) {
	message, err := SayMessage(text)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if _, err := s.ChannelMessageSendComplex(i.ChannelID, message); err != nil {
		log.WithError(err).Warn("Failed to send say message")
		common.RespondWithError(s, i, "I can't talk in this channel.")
		return
	}
	if err := common.RespondWithMessage(s, i, "✅ Sent", true); err != nil {
		log.Errorf("Error responding to say command: %v", err)
	}
}

// SayMessage echoes text without pinging anyone
func SayMessage(text string) (*discordgo.MessageSend, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.NewUserError("There's nothing to say.")
	}
	if len([]rune(text)) > maxSayLength {
		return nil, common.NewUserError(fmt.Sprintf("That's too long, keep it under %d characters.", maxSayLength))
	}
	return &discordgo.MessageSend{
		Content:         text,
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	}, nil
}

// EmojiEmbed shows a custom emoji at full size
func EmojiEmbed(raw string) (*discordgo.MessageEmbed, error) {
	match := customEmoji.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return nil, common.NewUserError("That's not a custom emoji.")
	}

	url := discordgo.EndpointEmoji(match[3])
	if match[1] == "a" {
		url = discordgo.EndpointEmojiAnimated(match[3])
	}
	return &discordgo.MessageEmbed{
		Title: ":" + match[2] + ":",
		URL:   url,
		Color: common.ColorPrimary,
		Image: &discordgo.MessageEmbedImage{URL: url},
	}, nil
}

// CalcEmbed evaluates an arithmetic expression
func CalcEmbed(input string) (*discordgo.MessageEmbed, error) {
	result, err := calc.Evaluate(input)
	if err != nil {
		return nil, common.NewUserError(calcMessage(err))
	}
	return &discordgo.MessageEmbed{
		Title:       "🧮 Calculator",
		Description: fmt.Sprintf("`%s` = **%s**", strings.TrimSpace(input), calc.Format(result)),
		Color:       common.ColorInfo,
	}, nil
}

func calcMessage(err error) string {
	switch {
	case errors.Is(err, calc.ErrEmpty):
		return "Give me something to calculate."
	case errors.Is(err, calc.ErrTooLong):
		return fmt.Sprintf("Expressions are limited to %d characters.", calc.MaxLength)
	case errors.Is(err, calc.ErrUndefined):
		return "That result is not a finite number."
	default:
		return "I can't compute that."
	}
}
