package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/mrkaiser4314/papayas-api/internal/logging"
)

type GetRankings func(ctx context.Context, rawMode string) (domain.Rankings, error)

type playerLister interface {
	ListPlayers(ctx context.Context) ([]domain.Player, error)
}

// BuildGetRankings validates the mode before touching the store. Store failures
// degrade to empty rankings; only an invalid mode is returned as an error.
func BuildGetRankings(repo playerLister, storeTimeout time.Duration) GetRankings {
	return func(ctx context.Context, rawMode string) (domain.Rankings, error) {
		mode, err := domain.ParseRankingMode(rawMode)
		if err != nil {
			return domain.Rankings{}, err
		}

		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		players, err := repo.ListPlayers(ctx)
		if err != nil {
			// NOTE: Repository handles its own error reporting
			logging.FromContext(ctx).WarnContext(
				ctx,
				"Serving empty rankings",
				slog.String("mode", string(mode)),
				slog.String("error", err.Error()),
			)
			return domain.BuildRankings(mode, nil), nil
		}

		return domain.BuildRankings(mode, players), nil
	}
}
