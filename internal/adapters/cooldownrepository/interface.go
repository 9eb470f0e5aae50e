package cooldownrepository

import (
	"context"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

type CooldownRepository interface {
	// SetCooldown replaces any existing window for the same player and mode
	SetCooldown(ctx context.Context, cooldown domain.Cooldown) error
	// GetActive returns the windows that end after now
	GetActive(ctx context.Context) ([]domain.Cooldown, error)
	// GetActiveForPlayer returns the windows of playerID that end after now
	GetActiveForPlayer(ctx context.Context, playerID string) ([]domain.Cooldown, error)
	// SweepExpired deletes the windows that ended at or before now and returns how many were removed
	SweepExpired(ctx context.Context) (int, error)
}
