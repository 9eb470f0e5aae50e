package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

type GetPlayer func(ctx context.Context, playerID string) (domain.PlayerProfile, error)

type playerGetter interface {
	GetPlayer(ctx context.Context, playerID string) (domain.Player, error)
	RankPosition(ctx context.Context, totalPoints int) (int, error)
}

// BuildGetPlayer returns the player with their position on the overall leaderboard.
// Fails with domain.ErrPlayerNotFound if the player does not exist.
func BuildGetPlayer(repo playerGetter, storeTimeout time.Duration) GetPlayer {
	return func(ctx context.Context, playerID string) (domain.PlayerProfile, error) {
		if playerID == "" {
			return domain.PlayerProfile{}, fmt.Errorf("%w: missing player id", domain.ErrValidation)
		}

		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		player, err := repo.GetPlayer(ctx, playerID)
		if err != nil {
			return domain.PlayerProfile{}, fmt.Errorf("could not get player: %w", err)
		}

		position, err := repo.RankPosition(ctx, player.TotalPoints)
		if err != nil {
			return domain.PlayerProfile{}, fmt.Errorf("could not get rank position: %w", err)
		}

		return domain.PlayerProfile{
			Player:   player,
			Position: position,
		}, nil
	}
}
