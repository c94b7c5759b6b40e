// Package combat resolves turn based RPG fights.
//
// A fight is a sequence of rounds. In each round the faster fighter strikes
// first and the other answers if still standing. Fights stop after MaxRounds
// rounds and end in a draw when both sides are still up.
package combat

import (
	"math"
)

// MaxRounds bounds the length of a fight
const MaxRounds = 50

// CritMultiplier scales critical hits
const CritMultiplier = 1.5

// Random is the randomness source of a fight
type Random interface {
	Float64() float64
}

// Outcome is the result of a fight from the player's point of view
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Fighter is one side of a fight
type Fighter struct {
	Name        string
	HP          int
	Attack      int
	Defense     int
	Speed       int
	AttackMult  float64
	DefenseMult float64
	SpeedMult   float64
	CritChance  float64
}

// Plain returns a fighter with neutral multipliers
func Plain(name string, hp, attack, defense, speed int) Fighter {
	return Fighter{
		Name:        name,
		HP:          hp,
		Attack:      attack,
		Defense:     defense,
		Speed:       speed,
		AttackMult:  1,
		DefenseMult: 1,
		SpeedMult:   1,
	}
}

func (f Fighter) effectiveSpeed() float64 {
	return float64(f.Speed) * f.SpeedMult
}

// Hit is a single attack
type Hit struct {
	Round      int
	Attacker   string
	Defender   string
	Damage     int
	Critical   bool
	DefenderHP int
}

// Result is the full record of a fight
type Result struct {
	Outcome  Outcome
	Rounds   int
	Hits     []Hit
	PlayerHP int
	EnemyHP  int
}

// Damage computes one hit of attacker on defender
func Damage(attacker, defender Fighter, rng Random) (int, bool) {
	variance := 0.85 + rng.Float64()*0.30
	raw := float64(attacker.Attack)*attacker.AttackMult*variance - float64(defender.Defense)*defender.DefenseMult/2

	damage := max(1, int(math.Round(raw)))

	critical := rng.Float64() < attacker.CritChance
	if critical {
		damage = int(math.Round(float64(damage) * CritMultiplier))
	}
	return damage, critical
}

// Fight runs a fight between the player and an enemy.
// The player strikes first on equal speed.
func Fight(player, enemy Fighter, rng Random) *Result {
	result := &Result{PlayerHP: player.HP, EnemyHP: enemy.HP}

	first, second := &player, &enemy
	firstHP, secondHP := &result.PlayerHP, &result.EnemyHP
	if enemy.effectiveSpeed() > player.effectiveSpeed() {
		first, second = second, first
		firstHP, secondHP = secondHP, firstHP
	}

	strike := func(round int, attacker, defender *Fighter, defenderHP *int) {
		damage, critical := Damage(*attacker, *defender, rng)
		*defenderHP = max(0, *defenderHP-damage)
		result.Hits = append(result.Hits, Hit{
			Round:      round,
			Attacker:   attacker.Name,
			Defender:   defender.Name,
			Damage:     damage,
			Critical:   critical,
			DefenderHP: *defenderHP,
		})
	}

	for round := 1; round <= MaxRounds; round++ {
		result.Rounds = round

		strike(round, first, second, secondHP)
		if *secondHP == 0 {
			break
		}
		strike(round, second, first, firstHP)
		if *firstHP == 0 {
			break
		}
	}

	switch {
	case result.EnemyHP == 0:
		result.Outcome = OutcomeWin
	case result.PlayerHP == 0:
		result.Outcome = OutcomeLoss
	default:
		result.Outcome = OutcomeDraw
	}
	return result
}
