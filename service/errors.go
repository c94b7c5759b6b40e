package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrSelfTarget         = errors.New("cannot target yourself")
	ErrTargetEmpty        = errors.New("target has no points")
	ErrTargetShielded     = errors.New("target is protected by a shield")
	ErrNoClass            = errors.New("no class selected")
	ErrUnknownClass       = errors.New("unknown class")
	ErrSameClass          = errors.New("class already selected")
	ErrSkillAlreadyArmed  = errors.New("skill already active")
	ErrSpawnActive        = errors.New("a spawn is already active")
	ErrSpawnGone          = errors.New("spawn already absorbed")
	ErrNoSpawnChannel     = errors.New("no spawn channel configured")
	ErrItemNotFound       = errors.New("item not found")
	ErrOutOfStock         = errors.New("item out of stock")
	ErrRPGClassChosen     = errors.New("rpg class already chosen")
	ErrNoRPGClass         = errors.New("no rpg class selected")
	ErrUnknownZone        = errors.New("unknown zone")
	ErrZoneLocked         = errors.New("zone locked")
	ErrUnknownEnemy       = errors.New("unknown enemy")
	ErrKnockedOut         = errors.New("character has no hp left")
	ErrFullHealth         = errors.New("character already at full health")
	ErrInvalidPlot        = errors.New("invalid plot")
	ErrPlotOccupied       = errors.New("plot already planted")
	ErrUnknownCrop        = errors.New("unknown crop")
	ErrInsufficientMoney  = errors.New("insufficient garden money")
	ErrNothingReady       = errors.New("nothing ready to harvest")
	ErrNothingToSell      = errors.New("nothing to sell")
	ErrExchangeTooSmall   = errors.New("not enough money for one point")
	ErrNoCars             = errors.New("no cars available")
)

// CooldownError reports an action attempted before its cooldown expired
type CooldownError struct {
	Action    string
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s on cooldown for %s", e.Action, e.Remaining.Round(time.Second))
}

// AsCooldown extracts a CooldownError from err
func AsCooldown(err error) (*CooldownError, bool) {
	var cd *CooldownError
	if errors.As(err, &cd) {
		return cd, true
	}
	return nil, false
}

func checkCooldown(action string, readyAt, now time.Time) error {
	if now.Before(readyAt) {
		return &CooldownError{Action: action, Remaining: readyAt.Sub(now)}
	}
	return nil
}
