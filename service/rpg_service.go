package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"reiatsu/catalog"
	"reiatsu/events"
	"reiatsu/game/combat"
	"reiatsu/models"
)

// FightResult is everything a fight changed
type FightResult struct {
	Enemy     catalog.Enemy
	Combat    *combat.Result
	XPGained  int
	LevelsUp  int
	NewZones  []string
	Reward    int64
	Character *models.RPGPlayer
}

// RPGService manages RPG characters and fights
type RPGService struct {
	characters    RPGRepository
	ledger        pointsLedger
	catalog       *catalog.Catalog
	clock         Clock
	rng           Random
	fightCooldown time.Duration
	healCooldown  time.Duration
}

// NewRPGService creates an RPG service bound to one unit of work
func NewRPGService(characters RPGRepository, players PlayerRepository, history PointsHistoryRepository, publisher EventPublisher,
	cat *catalog.Catalog, clock Clock, rng Random, fightCooldown, healCooldown time.Duration) *RPGService {
	return &RPGService{
		characters:    characters,
		ledger:        pointsLedger{players: players, history: history, publisher: publisher},
		catalog:       cat,
		clock:         clock,
		rng:           rng,
		fightCooldown: fightCooldown,
		healCooldown:  healCooldown,
	}
}

// EnsureCharacter returns the locked character, creating it on first use
func (s *RPGService) EnsureCharacter(ctx context.Context, discordID int64, username string) (*models.RPGPlayer, error) {
	character, err := s.characters.GetForUpdate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	if character != nil {
		return character, nil
	}

	start := s.catalog.StartingZone()
	character = &models.RPGPlayer{
		DiscordID:     discordID,
		Username:      username,
		Zone:          start.ID,
		Stats:         models.DefaultRPGStats(),
		Cooldowns:     map[string]time.Time{},
		UnlockedZones: []string{start.ID},
	}
	if err := s.characters.Create(ctx, character); err != nil {
		return nil, fmt.Errorf("failed to create character: %w", err)
	}
	return character, nil
}

// ChooseClass sets the combat class once
func (s *RPGService) ChooseClass(ctx context.Context, discordID int64, username string, class models.RPGClass) (*models.RPGPlayer, error) {
	if _, ok := s.catalog.RPGClass(class); !ok {
		return nil, ErrUnknownClass
	}
	character, err := s.EnsureCharacter(ctx, discordID, username)
	if err != nil {
		return nil, err
	}
	if character.Class != "" {
		return nil, ErrRPGClassChosen
	}

	character.Class = class
	if err := s.characters.Update(ctx, character); err != nil {
		return nil, fmt.Errorf("failed to save class: %w", err)
	}
	return character, nil
}

// Travel moves the character to an unlocked zone
func (s *RPGService) Travel(ctx context.Context, discordID int64, username string, zoneID string) (*models.RPGPlayer, error) {
	if _, ok := s.catalog.Zone(zoneID); !ok {
		return nil, ErrUnknownZone
	}
	character, err := s.EnsureCharacter(ctx, discordID, username)
	if err != nil {
		return nil, err
	}
	if !character.HasUnlocked(zoneID) {
		return nil, ErrZoneLocked
	}

	character.Zone = zoneID
	if err := s.characters.Update(ctx, character); err != nil {
		return nil, fmt.Errorf("failed to travel: %w", err)
	}
	return character, nil
}

// Heal restores full hp
func (s *RPGService) Heal(ctx context.Context, discordID int64, username string) (*models.RPGPlayer, error) {
	character, err := s.EnsureCharacter(ctx, discordID, username)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := checkCooldown("heal", character.ReadyAt(models.CooldownHeal), now); err != nil {
		return nil, err
	}
	if character.Stats.HP >= character.Stats.MaxHP {
		return nil, ErrFullHealth
	}

	character.Stats.HP = character.Stats.MaxHP
	character.StartCooldown(models.CooldownHeal, now.Add(s.healCooldown))
	if err := s.characters.Update(ctx, character); err != nil {
		return nil, fmt.Errorf("failed to heal: %w", err)
	}
	return character, nil
}

// Fight pits the character against enemyID of their zone, or a random enemy
// of the zone when enemyID is empty. Wins grant xp and Reiatsu.
func (s *RPGService) Fight(ctx context.Context, discordID int64, username string, enemyID string) (*FightResult, error) {
	character, err := s.EnsureCharacter(ctx, discordID, username)
	if err != nil {
		return nil, err
	}
	class, ok := s.catalog.RPGClass(character.Class)
	if !ok {
		return nil, ErrNoRPGClass
	}

	now := s.clock.Now()
	if err := checkCooldown("fight", character.ReadyAt(models.CooldownFight), now); err != nil {
		return nil, err
	}
	if character.Stats.HP <= 0 {
		return nil, ErrKnockedOut
	}

	zone, ok := s.catalog.Zone(character.Zone)
	if !ok {
		zone = s.catalog.StartingZone()
	}
	enemy, err := s.pickEnemy(zone, enemyID)
	if err != nil {
		return nil, err
	}

	player := combat.Fighter{
		Name:        username,
		HP:          character.Stats.HP,
		Attack:      character.Stats.Attack,
		Defense:     character.Stats.Defense,
		Speed:       character.Stats.Speed,
		AttackMult:  class.AttackMult,
		DefenseMult: class.DefenseMult,
		SpeedMult:   class.SpeedMult,
		CritChance:  class.CritChance,
	}
	opponent := combat.Plain(enemy.Name, enemy.HP, enemy.Attack, enemy.Defense, enemy.Speed)

	outcome := combat.Fight(player, opponent, s.rng)
	result := &FightResult{Enemy: enemy, Combat: outcome, Character: character}

	switch outcome.Outcome {
	case combat.OutcomeWin:
		character.Stats.HP = outcome.PlayerHP
		result.XPGained = enemy.XP
		result.LevelsUp = gainXP(&character.Stats, enemy.XP)
		for _, zoneID := range s.catalog.ZonesUnlockedAt(character.Stats.Level) {
			if character.Unlock(zoneID) {
				result.NewZones = append(result.NewZones, zoneID)
			}
		}
		if enemy.Reward > 0 {
			if _, err := s.ledger.ensurePlayer(ctx, discordID, username); err != nil {
				return nil, err
			}
			if _, err := s.ledger.change(ctx, discordID, enemy.Reward, models.TransactionTypeCombatReward, map[string]any{
				"enemy_id": enemy.ID,
				"zone":     zone.ID,
			}); err != nil {
				return nil, err
			}
			result.Reward = enemy.Reward
		}
	case combat.OutcomeLoss:
		character.Stats.HP = 1
	default:
		character.Stats.HP = max(1, outcome.PlayerHP)
	}

	character.StartCooldown(models.CooldownFight, now.Add(s.fightCooldown))
	if err := s.characters.Update(ctx, character); err != nil {
		return nil, fmt.Errorf("failed to save fight: %w", err)
	}

	s.ledger.publisher.Publish(events.CombatFinishedEvent{
		GuildID:   character.GuildID,
		DiscordID: discordID,
		EnemyID:   enemy.ID,
		Outcome:   string(outcome.Outcome),
		Turns:     outcome.Rounds,
		XPGained:  result.XPGained,
		Reward:    result.Reward,
	})
	return result, nil
}

func (s *RPGService) pickEnemy(zone *catalog.Zone, enemyID string) (catalog.Enemy, error) {
	if enemyID == "" {
		return zone.Enemies[s.rng.IntN(len(zone.Enemies))], nil
	}
	idx := slices.IndexFunc(zone.Enemies, func(e catalog.Enemy) bool { return e.ID == enemyID })
	if idx < 0 {
		return catalog.Enemy{}, ErrUnknownEnemy
	}
	return zone.Enemies[idx], nil
}

// gainXP adds xp and applies level ups, returning how many levels were gained.
// Each level raises max hp by 10, attack by 2, defense and speed by 1, and heals fully.
func gainXP(stats *models.RPGStats, xp int) int {
	stats.XP += xp
	levels := 0
	for stats.XP >= stats.XPToNext() {
		stats.XP -= stats.XPToNext()
		stats.Level++
		stats.MaxHP += 10
		stats.Attack += 2
		stats.Defense++
		stats.Speed++
		levels++
	}
	if levels > 0 {
		stats.HP = stats.MaxHP
	}
	return levels
}
