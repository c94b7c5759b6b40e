package service

import (
	"context"
	"fmt"

	"reiatsu/catalog"
	"reiatsu/events"
	"reiatsu/models"
)

// QuestStatus pairs a quest with a player's progress
type QuestStatus struct {
	Quest    catalog.Quest
	Progress models.QuestProgress
}

// QuestService advances quest counters and pays rewards
type QuestService struct {
	ledger  pointsLedger
	catalog *catalog.Catalog
	clock   Clock
}

// NewQuestService creates a quest service bound to one unit of work
func NewQuestService(players PlayerRepository, history PointsHistoryRepository, publisher EventPublisher,
	cat *catalog.Catalog, clock Clock) *QuestService {
	return &QuestService{
		ledger:  pointsLedger{players: players, history: history, publisher: publisher},
		catalog: cat,
		clock:   clock,
	}
}

// Advance adds amount to every open quest of trigger and returns the quests
// it completed. Players without a profile are ignored.
func (s *QuestService) Advance(ctx context.Context, discordID int64, trigger string, amount int) ([]catalog.Quest, error) {
	quests := s.catalog.QuestsFor(trigger)
	if len(quests) == 0 || amount <= 0 {
		return nil, nil
	}

	player, err := s.ledger.players.GetForUpdate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, nil
	}

	var completed []catalog.Quest
	for _, quest := range quests {
		progress := player.Quest(quest.ID)
		if progress.Completed {
			continue
		}
		progress.Progress = min(progress.Progress+amount, quest.Target)
		if progress.Progress < quest.Target {
			continue
		}

		now := s.clock.Now()
		progress.Completed = true
		progress.CompletedAt = &now
		player.Level++

		if quest.Reward > 0 {
			after, err := s.ledger.change(ctx, discordID, quest.Reward, models.TransactionTypeQuestReward, map[string]any{
				"quest_id": quest.ID,
			})
			if err != nil {
				return nil, err
			}
			player.Points = after
		}

		s.ledger.publisher.Publish(events.QuestCompletedEvent{
			GuildID:   player.GuildID,
			DiscordID: discordID,
			QuestID:   quest.ID,
			Reward:    quest.Reward,
			NewLevel:  player.Level,
		})
		completed = append(completed, quest)
	}

	if err := s.ledger.players.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to save quest progress: %w", err)
	}
	return completed, nil
}

// List returns every quest with the player's progress
func (s *QuestService) List(ctx context.Context, discordID int64) ([]QuestStatus, error) {
	player, err := s.ledger.players.Get(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	statuses := make([]QuestStatus, 0, len(s.catalog.Quests))
	for _, quest := range s.catalog.Quests {
		status := QuestStatus{Quest: quest}
		if player != nil {
			if progress, ok := player.Quests[quest.ID]; ok {
				status.Progress = *progress
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
