package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/mrkaiser4314/papayas-api/internal/logging"
)

type SetCooldown func(ctx context.Context, cooldown domain.Cooldown) error

type GetActiveCooldowns func(ctx context.Context) (domain.ActiveCooldowns, error)

type GetPlayerCooldowns func(ctx context.Context, playerID string) ([]domain.Cooldown, error)

type SweepExpiredCooldowns func(ctx context.Context) (int, error)

type cooldownRepository interface {
	SetCooldown(ctx context.Context, cooldown domain.Cooldown) error
	GetActive(ctx context.Context) ([]domain.Cooldown, error)
	GetActiveForPlayer(ctx context.Context, playerID string) ([]domain.Cooldown, error)
	SweepExpired(ctx context.Context) (int, error)
}

func BuildSetCooldown(repo cooldownRepository, storeTimeout time.Duration) SetCooldown {
	return func(ctx context.Context, cooldown domain.Cooldown) error {
		if err := cooldown.Validate(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		if err := repo.SetCooldown(ctx, cooldown); err != nil {
			return fmt.Errorf("could not set cooldown: %w", err)
		}
		return nil
	}
}

// The returned windows were active when the store was queried and may expire at any time
func BuildGetActiveCooldowns(repo cooldownRepository, storeTimeout time.Duration) GetActiveCooldowns {
	return func(ctx context.Context) (domain.ActiveCooldowns, error) {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		cooldowns, err := repo.GetActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not get active cooldowns: %w", err)
		}
		return domain.NewActiveCooldowns(cooldowns), nil
	}
}

func BuildGetPlayerCooldowns(repo cooldownRepository, storeTimeout time.Duration) GetPlayerCooldowns {
	return func(ctx context.Context, playerID string) ([]domain.Cooldown, error) {
		if playerID == "" {
			return nil, fmt.Errorf("%w: missing player id", domain.ErrValidation)
		}

		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		cooldowns, err := repo.GetActiveForPlayer(ctx, playerID)
		if err != nil {
			return nil, fmt.Errorf("could not get cooldowns for player: %w", err)
		}
		return cooldowns, nil
	}
}

func BuildSweepExpiredCooldowns(repo cooldownRepository, storeTimeout time.Duration) SweepExpiredCooldowns {
	return func(ctx context.Context) (int, error) {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		removed, err := repo.SweepExpired(ctx)
		if err != nil {
			return 0, fmt.Errorf("could not sweep expired cooldowns: %w", err)
		}
		return removed, nil
	}
}

// RunCooldownSweeper sweeps every interval until ctx is cancelled
type RunCooldownSweeper func(ctx context.Context, interval time.Duration)

func BuildRunCooldownSweeper(sweep SweepExpiredCooldowns) RunCooldownSweeper {
	return func(ctx context.Context, interval time.Duration) {
		ctx = logging.WithComponent(ctx, "cooldownSweeper")
		logger := logging.FromContext(ctx)

		if interval <= 0 {
			logger.InfoContext(ctx, "Cooldown sweeper disabled")
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.InfoContext(ctx, "Starting cooldown sweeper", slog.Duration("interval", interval))
		for {
			select {
			case <-ctx.Done():
				logger.InfoContext(ctx, "Stopping cooldown sweeper")
				return
			case <-ticker.C:
				removed, err := sweep(ctx)
				if err != nil {
					// NOTE: Repository handles its own error reporting
					logger.WarnContext(ctx, "Failed to sweep cooldowns", slog.String("error", err.Error()))
					continue
				}
				logger.InfoContext(ctx, "Swept expired cooldowns", slog.Int("removed", removed))
			}
		}
	}
}
