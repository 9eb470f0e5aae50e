package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

// RecordResult stores result and applies it to the player. A positive
// cooldown also starts a window for the player and mode at the result's time.
type RecordResult func(ctx context.Context, result domain.TestResult, cooldown time.Duration) (domain.TestResult, domain.Player, error)

type resultRecorder interface {
	RecordResult(ctx context.Context, result domain.TestResult) (domain.TestResult, domain.Player, error)
}

type cooldownSetter interface {
	SetCooldown(ctx context.Context, cooldown domain.Cooldown) error
}

// Writes are never retried. A timed out result may or may not have been committed.
func BuildRecordResult(recorder resultRecorder, cooldowns cooldownSetter, storeTimeout time.Duration) RecordResult {
	return func(ctx context.Context, result domain.TestResult, cooldown time.Duration) (domain.TestResult, domain.Player, error) {
		if err := result.Validate(); err != nil {
			return domain.TestResult{}, domain.Player{}, err
		}
		if cooldown < 0 {
			return domain.TestResult{}, domain.Player{}, fmt.Errorf("%w: cooldown must not be negative", domain.ErrValidation)
		}

		recordCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		stored, player, err := recorder.RecordResult(recordCtx, result)
		if err != nil {
			return domain.TestResult{}, domain.Player{}, fmt.Errorf("could not record result: %w", err)
		}

		if cooldown == 0 {
			return stored, player, nil
		}

		cooldownCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		err = cooldowns.SetCooldown(cooldownCtx, domain.Cooldown{
			PlayerID: stored.PlayerID,
			Mode:     stored.Mode,
			Start:    stored.RecordedAt,
			End:      stored.RecordedAt.Add(cooldown),
		})
		if err != nil {
			return stored, player, fmt.Errorf("result %s was recorded but the cooldown was not set: %w", stored.ID, err)
		}

		return stored, player, nil
	}
}
