package domain

import (
	"fmt"
	"time"
)

// Cooldown is a window during which a player may not be retested in a mode.
// There is at most one cooldown per (player, mode).
type Cooldown struct {
	PlayerID string
	Mode     Mode
	Start    time.Time
	End      time.Time
}

// ActiveAt reports whether the window has not yet ended at now
func (c Cooldown) ActiveAt(now time.Time) bool {
	return c.End.After(now)
}

func (c Cooldown) Validate() error {
	if c.PlayerID == "" {
		return fmt.Errorf("%w: missing player id", ErrValidation)
	}
	if !c.Mode.IsTested() {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidMode, c.Mode)
	}
	if c.End.Before(c.Start) {
		return fmt.Errorf("%w: cooldown ends before it starts", ErrValidation)
	}
	return nil
}

// ActiveCooldowns indexes active windows by player and mode
type ActiveCooldowns map[string]map[Mode]Cooldown

func NewActiveCooldowns(cooldowns []Cooldown) ActiveCooldowns {
	active := make(ActiveCooldowns)
	for _, cooldown := range cooldowns {
		byMode, ok := active[cooldown.PlayerID]
		if !ok {
			byMode = make(map[Mode]Cooldown)
			active[cooldown.PlayerID] = byMode
		}
		byMode[cooldown.Mode] = cooldown
	}
	return active
}

// Get returns the active cooldown for the pair, if any
func (a ActiveCooldowns) Get(playerID string, mode Mode) (Cooldown, bool) {
	cooldown, ok := a[playerID][mode]
	return cooldown, ok
}
