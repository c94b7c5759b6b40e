package games

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"reiatsu/bot/common"
	"reiatsu/game/memory"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type memoryGame struct {
	mu       sync.Mutex
	board    *memory.Board
	guildID  int64
	ownerID  int64
	username string
}

func (f *Feature) startMemory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	caller, err := common.ParseCaller(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	board, err := memory.NewBoard(f.deps.Catalog.Get().MemoryCards, memory.Pairs, f.deps.Random)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	game := &memoryGame{board: board, guildID: caller.GuildID, ownerID: caller.UserID, username: caller.Username}
	id := f.memory.Add(game)

	if err := common.RespondWithEmbed(s, i, buildMemoryEmbed(game, ""), buildMemoryComponents(id, board), false); err != nil {
		log.Errorf("Error starting memory game: %v", err)
		f.memory.Delete(id)
	}
}

func (f *Feature) handleMemoryFlip(s *discordgo.Session, i *discordgo.InteractionCreate, raw string) {
	id, index, ok := splitID(raw)
	if !ok {
		return
	}

	game, ok := f.memory.Get(id)
	if !ok {
		common.RespondWithError(s, i, "This game has expired. Start a new one with `/memory`.")
		return
	}

	user := common.InteractionUser(i)
	if user.ID != common.FormatID(game.ownerID) {
		common.RespondWithError(s, i, "This is not your board. Start your own with `/memory`.")
		return
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	outcome, err := game.board.Flip(index)
	if errors.Is(err, memory.ErrAlreadyFaceUp) {
		common.RespondWithError(s, i, "That card is already face up.")
		return
	}
	if err != nil {
		common.RespondWithError(s, i, "This board is finished.")
		return
	}

	status := ""
	switch outcome {
	case memory.FlipMatch:
		status = "✅ Pair found!"
	case memory.FlipMismatch:
		status = "❌ No match."
	}

	if !game.board.Solved() {
		if err := common.UpdateComponentMessage(s, i, buildMemoryEmbed(game, status), buildMemoryComponents(id, game.board)); err != nil {
			log.Errorf("Error updating memory board: %v", err)
		}
		return
	}

	f.memory.Delete(id)

	ctx := context.Background()
	var reward int64
	err = f.deps.InGuild(ctx, game.guildID, func(svc *common.Services) error {
		reward, err = svc.Minigames().RewardMemory(ctx, game.ownerID, game.username, memory.Pairs, game.board.Moves)
		return err
	})
	if err != nil {
		log.WithError(err).WithField("userID", game.ownerID).Error("Failed to reward memory game")
		status = "🎉 Solved! The reward could not be credited, please try again later."
	} else {
		status = fmt.Sprintf("🎉 Solved in %d moves! +%s Reiatsu", game.board.Moves, common.FormatPoints(reward))
	}

	embed := buildMemoryEmbed(game, status)
	embed.Color = common.ColorSuccess
	components := common.DisableComponents(buildMemoryComponents(id, game.board))
	if err := common.UpdateComponentMessage(s, i, embed, components); err != nil {
		log.Errorf("Error finishing memory board: %v", err)
	}
}

func buildMemoryEmbed(game *memoryGame, status string) *discordgo.MessageEmbed {
	description := fmt.Sprintf("Find the %d pairs. Moves: **%d** · Pairs: **%d/%d**",
		memory.Pairs, game.board.Moves, game.board.MatchedPairs(), memory.Pairs)
	if status != "" {
		description += "\n" + status
	}
	return &discordgo.MessageEmbed{
		Title:       "🧠 Memory",
		Description: description,
		Color:       common.ColorPrimary,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Board of " + game.username},
	}
}

func buildMemoryComponents(id string, board *memory.Board) []discordgo.MessageComponent {
	rows := make([]discordgo.MessageComponent, 0, memory.Rows)
	for r := range memory.Rows {
		buttons := make([]discordgo.MessageComponent, 0, memory.Columns)
		for c := range memory.Columns {
			idx := r*memory.Columns + c
			card := board.Cards[idx]

			button := discordgo.Button{
				CustomID: fmt.Sprintf("%s%s_%d", memoryPrefix, id, idx),
				Label:    "❔",
				Style:    discordgo.SecondaryButton,
			}
			switch {
			case card.Matched:
				button.Label = card.Face
				button.Style = discordgo.SuccessButton
				button.Disabled = true
			case board.FaceUp(idx):
				button.Label = card.Face
				button.Style = discordgo.PrimaryButton
			}
			buttons = append(buttons, button)
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}
