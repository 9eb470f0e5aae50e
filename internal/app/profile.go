package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

type UpdatePlayerProfile func(ctx context.Context, update domain.ProfileUpdate) (domain.Player, error)

type profileUpdater interface {
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.Player, error)
}

func BuildUpdatePlayerProfile(repo profileUpdater, storeTimeout time.Duration) UpdatePlayerProfile {
	return func(ctx context.Context, update domain.ProfileUpdate) (domain.Player, error) {
		if err := update.Validate(); err != nil {
			return domain.Player{}, err
		}

		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		player, err := repo.UpdateProfile(ctx, update)
		if err != nil {
			return domain.Player{}, fmt.Errorf("could not update player profile: %w", err)
		}
		return player, nil
	}
}
