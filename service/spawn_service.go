package service

import (
	"context"
	"fmt"
	"time"

	"reiatsu/catalog"
	"reiatsu/events"
	"reiatsu/models"
)

// StaleSpawnAfter is how long an unclaimed spawn blocks the timer before it is replaced
const StaleSpawnAfter = 2 * time.Hour

// SpawnPlan tells the caller what to post
type SpawnPlan struct {
	ChannelID int64
	Kind      models.SpawnKind

	// StaleMessageID is the unclaimed spawn being replaced, if any
	StaleMessageID *int64
}

// ClaimResult describes what a claimer received
type ClaimResult struct {
	Kind          models.SpawnKind
	Gain          int64
	Penalty       int64
	IllusionistID *int64
	Overflow      bool
	Points        int64
}

// SpawnService drives the per-guild Reiatsu spawner
type SpawnService struct {
	spawns  SpawnRepository
	ledger  pointsLedger
	catalog *catalog.Catalog
	clock   Clock
	rng     Random
}

// NewSpawnService creates a spawn service bound to one unit of work
func NewSpawnService(spawns SpawnRepository, players PlayerRepository, history PointsHistoryRepository, publisher EventPublisher,
	cat *catalog.Catalog, clock Clock, rng Random) *SpawnService {
	return &SpawnService{
		spawns:  spawns,
		ledger:  pointsLedger{players: players, history: history, publisher: publisher},
		catalog: cat,
		clock:   clock,
		rng:     rng,
	}
}

// Config returns the guild's spawner state
func (s *SpawnService) Config(ctx context.Context) (*models.SpawnConfig, error) {
	config, err := s.spawns.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get spawn config: %w", err)
	}
	return config, nil
}

// SetChannel enables spawning in channelID and restarts the timer
func (s *SpawnService) SetChannel(ctx context.Context, channelID int64) (*models.SpawnConfig, error) {
	config, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	config.ChannelID = &channelID
	if err := s.spawns.Update(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to set spawn channel: %w", err)
	}
	return config, s.reschedule(ctx, config)
}

// Disable stops spawning in the guild
func (s *SpawnService) Disable(ctx context.Context) error {
	config, err := s.Config(ctx)
	if err != nil {
		return err
	}
	config.ChannelID = nil
	config.IsSpawn = false
	config.MessageID = nil
	if err := s.spawns.Update(ctx, config); err != nil {
		return fmt.Errorf("failed to disable spawns: %w", err)
	}
	return nil
}

// SetSpeed changes the spawn frequency and restarts the timer
func (s *SpawnService) SetSpeed(ctx context.Context, speed models.SpawnSpeed) (*models.SpawnConfig, error) {
	config, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	config.Speed = speed
	if err := s.spawns.Update(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to set spawn speed: %w", err)
	}
	return config, s.reschedule(ctx, config)
}

// ForceSpawn makes the next poll post a spawn
func (s *SpawnService) ForceSpawn(ctx context.Context) error {
	config, err := s.Config(ctx)
	if err != nil {
		return err
	}
	if config.ChannelID == nil {
		return ErrNoSpawnChannel
	}
	if config.IsSpawn {
		return ErrSpawnActive
	}
	return s.spawns.ScheduleNext(ctx, s.clock.Now(), 0)
}

// DueGuilds lists the guilds whose timer elapsed, across all guilds
func (s *SpawnService) DueGuilds(ctx context.Context) ([]int64, error) {
	now := s.clock.Now()
	guilds, err := s.spawns.ListDueGuilds(ctx, now, now.Add(-StaleSpawnAfter))
	if err != nil {
		return nil, fmt.Errorf("failed to list due guilds: %w", err)
	}
	return guilds, nil
}

// PrepareSpawn decides whether and what to post. Returns nil when nothing is due.
// A stale unclaimed spawn is cleared so the caller can replace it.
func (s *SpawnService) PrepareSpawn(ctx context.Context) (*SpawnPlan, error) {
	config, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	if config.ChannelID == nil {
		return nil, nil
	}

	now := s.clock.Now()
	plan := &SpawnPlan{ChannelID: *config.ChannelID, Kind: models.SpawnKindNormal}

	if config.IsSpawn {
		if config.SpawnedAt == nil || now.Sub(*config.SpawnedAt) < StaleSpawnAfter {
			return nil, nil
		}
		plan.StaleMessageID = config.MessageID
		config.IsSpawn = false
		config.MessageID = nil
		if err := s.spawns.Update(ctx, config); err != nil {
			return nil, fmt.Errorf("failed to clear stale spawn: %w", err)
		}
	} else if !config.IsDue(now) {
		return nil, nil
	}

	if s.rng.Float64() < s.catalog.Economy.SuperSpawnChance {
		plan.Kind = models.SpawnKindSuper
	}
	return plan, nil
}

// RecordPosted stores the message of a freshly posted spawn
func (s *SpawnService) RecordPosted(ctx context.Context, channelID, messageID int64, kind models.SpawnKind, spawnedBy *int64) error {
	if err := s.spawns.MarkSpawned(ctx, messageID, kind, spawnedBy, s.clock.Now()); err != nil {
		return fmt.Errorf("failed to mark spawn: %w", err)
	}

	config, err := s.Config(ctx)
	if err != nil {
		return err
	}
	s.ledger.publisher.Publish(events.SpawnPostedEvent{
		GuildID:   config.GuildID,
		ChannelID: channelID,
		MessageID: messageID,
		Kind:      kind,
	})
	return nil
}

// Claim gives the spawn posted as messageID to discordID if nobody beat them to it
func (s *SpawnService) Claim(ctx context.Context, messageID, discordID int64, username string) (*ClaimResult, error) {
	claimed, err := s.spawns.Claim(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim spawn: %w", err)
	}
	if claimed == nil {
		return nil, ErrSpawnGone
	}

	var result *ClaimResult
	if claimed.Kind == models.SpawnKindFake {
		result, err = s.claimFake(ctx, claimed, discordID, username)
	} else {
		result, err = s.claimReal(ctx, claimed, discordID, username)
	}
	if err != nil {
		return nil, err
	}

	config, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	lo, hi := config.Speed.DelayRange()
	if err := s.spawns.ScheduleNext(ctx, s.clock.Now(), randomDuration(s.rng, lo, hi)); err != nil {
		return nil, fmt.Errorf("failed to schedule next spawn: %w", err)
	}

	s.ledger.publisher.Publish(events.SpawnClaimedEvent{
		GuildID:   claimed.GuildID,
		ChannelID: claimed.ChannelID,
		MessageID: messageID,
		DiscordID: discordID,
		Kind:      result.Kind,
		Gain:      result.Gain,
	})
	return result, nil
}

func (s *SpawnService) claimReal(ctx context.Context, claimed *models.ClaimedSpawn, discordID int64, username string) (*ClaimResult, error) {
	player, err := s.ledger.ensurePlayer(ctx, discordID, username)
	if err != nil {
		return nil, err
	}

	eco := s.catalog.Economy
	result := &ClaimResult{Kind: claimed.Kind, Points: player.Points}
	txType := models.TransactionTypeSpawnAbsorb

	switch {
	case claimed.Kind == models.SpawnKindSuper:
		result.Gain = eco.SuperGain
	case player.Class == models.ClassAbsorber && player.SkillArmed:
		result.Gain = eco.SuperGain
		result.Overflow = true
		player.SkillArmed = false
		if err := s.ledger.players.Update(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to disarm skill: %w", err)
		}
	case player.Class == models.ClassAbsorber:
		result.Gain = eco.AbsorberGain
	case player.Class == models.ClassGambler:
		result.Gain = int64(s.rng.IntN(int(eco.GamblerMaxGain) + 1))
	default:
		result.Gain = eco.NormalGain
	}
	if result.Gain >= eco.SuperGain {
		txType = models.TransactionTypeSuperAbsorb
	}

	if result.Gain > 0 {
		after, err := s.ledger.change(ctx, discordID, result.Gain, txType, map[string]any{
			"kind":     string(claimed.Kind),
			"overflow": result.Overflow,
		})
		if err != nil {
			return nil, err
		}
		result.Points = after
	}
	return result, nil
}

// claimFake moves the penalty from the claimer to the illusionist who cast it
func (s *SpawnService) claimFake(ctx context.Context, claimed *models.ClaimedSpawn, discordID int64, username string) (*ClaimResult, error) {
	result := &ClaimResult{Kind: models.SpawnKindFake, IllusionistID: claimed.SpawnedBy}

	if claimed.SpawnedBy == nil || *claimed.SpawnedBy == discordID {
		player, err := s.ledger.ensurePlayer(ctx, discordID, username)
		if err != nil {
			return nil, err
		}
		result.Points = player.Points
		return result, nil
	}
	illusionistID := *claimed.SpawnedBy

	var claimer *models.Player
	var err error
	lockIllusionist := func() error {
		illusionist, err := s.ledger.players.GetForUpdate(ctx, illusionistID)
		if err != nil {
			return fmt.Errorf("failed to get illusionist: %w", err)
		}
		if illusionist == nil {
			return ErrPlayerNotFound
		}
		return nil
	}
	if illusionistID < discordID {
		if err = lockIllusionist(); err != nil {
			return nil, err
		}
		claimer, err = s.ledger.ensurePlayer(ctx, discordID, username)
	} else {
		claimer, err = s.ledger.ensurePlayer(ctx, discordID, username)
		if err == nil {
			err = lockIllusionist()
		}
	}
	if err != nil {
		return nil, err
	}

	result.Points = claimer.Points
	// illusionists see through each other's fakes
	if claimer.Class == models.ClassIllusionist {
		return result, nil
	}

	penalty := min(s.catalog.Economy.FakeSpawnPenalty, claimer.Points)
	if penalty == 0 {
		return result, nil
	}

	after, err := s.ledger.change(ctx, discordID, -penalty, models.TransactionTypeFakeSpawnLoss, map[string]any{
		"illusionist_discord_id": illusionistID,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.ledger.change(ctx, illusionistID, penalty, models.TransactionTypeFakeSpawnGain, map[string]any{
		"victim_discord_id": discordID,
	}); err != nil {
		return nil, err
	}

	result.Penalty = penalty
	result.Points = after
	return result, nil
}

// reschedule picks a new random delay for the configured speed
func (s *SpawnService) reschedule(ctx context.Context, config *models.SpawnConfig) error {
	if config.IsSpawn {
		return nil
	}
	lo, hi := config.Speed.DelayRange()
	delay := randomDuration(s.rng, lo, hi)
	if err := s.spawns.ScheduleNext(ctx, s.clock.Now(), delay); err != nil {
		return fmt.Errorf("failed to schedule next spawn: %w", err)
	}
	config.LastSpawnAt = s.clock.Now()
	config.NextDelay = delay
	return nil
}
