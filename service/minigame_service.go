package service

import (
	"context"
	"fmt"
	"strings"

	"reiatsu/catalog"
	"reiatsu/events"
	"reiatsu/models"
)

// MinigameService pays out memory, quiz and anagram rewards
type MinigameService struct {
	words   FoundWordRepository
	ledger  pointsLedger
	catalog *catalog.Catalog
}

// NewMinigameService creates a minigame service bound to one unit of work
func NewMinigameService(words FoundWordRepository, players PlayerRepository, history PointsHistoryRepository, publisher EventPublisher,
	cat *catalog.Catalog) *MinigameService {
	return &MinigameService{
		words:   words,
		ledger:  pointsLedger{players: players, history: history, publisher: publisher},
		catalog: cat,
	}
}

// MemoryReward returns the points for finishing a memory board in moves.
// A perfect game needs one move per pair.
func MemoryReward(base int64, pairs, moves int) int64 {
	extra := int64(moves - pairs)
	if extra < 0 {
		extra = 0
	}
	return max(5, base-extra)
}

// RewardMemory credits a finished memory game
func (s *MinigameService) RewardMemory(ctx context.Context, discordID int64, username string, pairs, moves int) (int64, error) {
	reward := MemoryReward(s.catalog.Economy.MemoryBaseReward, pairs, moves)
	return reward, s.credit(ctx, discordID, username, reward, map[string]any{"game": "memory", "moves": moves})
}

// RewardQuiz credits a correct quiz answer
func (s *MinigameService) RewardQuiz(ctx context.Context, discordID int64, username string, points int64) error {
	return s.credit(ctx, discordID, username, points, map[string]any{"game": "quiz"})
}

// RecordWord stores a solved anagram. Only the first solve of a word pays.
func (s *MinigameService) RecordWord(ctx context.Context, discordID int64, username string, word string) (int64, error) {
	word = strings.ToLower(word)
	first, err := s.words.Add(ctx, discordID, word)
	if err != nil {
		return 0, fmt.Errorf("failed to record word: %w", err)
	}
	if !first {
		return 0, nil
	}

	reward := s.catalog.Economy.AnagramReward
	if err := s.credit(ctx, discordID, username, reward, map[string]any{"game": "anagram", "word": word}); err != nil {
		return 0, err
	}

	player, err := s.ledger.players.Get(ctx, discordID)
	if err != nil {
		return 0, fmt.Errorf("failed to get player: %w", err)
	}
	var guildID int64
	if player != nil {
		guildID = player.GuildID
	}
	s.ledger.publisher.Publish(events.WordFoundEvent{GuildID: guildID, DiscordID: discordID, Word: word})
	return reward, nil
}

// WordsFound returns how many distinct words the player solved
func (s *MinigameService) WordsFound(ctx context.Context, discordID int64) (int, error) {
	return s.words.CountByUser(ctx, discordID)
}

func (s *MinigameService) credit(ctx context.Context, discordID int64, username string, reward int64, metadata map[string]any) error {
	if reward <= 0 {
		return nil
	}
	if _, err := s.ledger.ensurePlayer(ctx, discordID, username); err != nil {
		return err
	}
	_, err := s.ledger.change(ctx, discordID, reward, models.TransactionTypeMinigameReward, metadata)
	return err
}
