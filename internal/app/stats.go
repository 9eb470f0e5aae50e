package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/mrkaiser4314/papayas-api/internal/logging"
)

const topTestersLimit = 5

type GetStats func(ctx context.Context) domain.Stats

type playerCounter interface {
	CountPlayers(ctx context.Context) (int, error)
}

type resultCounter interface {
	CountResults(ctx context.Context) (int, error)
	TopTesters(ctx context.Context, limit int) ([]domain.TesterCount, error)
}

// BuildGetStats never fails. Zero stats are returned if the store cannot be read.
func BuildGetStats(players playerCounter, results resultCounter, storeTimeout time.Duration) GetStats {
	empty := domain.Stats{TopTesters: []domain.TesterCount{}}

	return func(ctx context.Context) domain.Stats {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		logger := logging.FromContext(ctx)

		totalPlayers, err := players.CountPlayers(ctx)
		if err != nil {
			logger.WarnContext(ctx, "Serving empty stats", slog.String("error", err.Error()))
			return empty
		}

		totalTests, err := results.CountResults(ctx)
		if err != nil {
			logger.WarnContext(ctx, "Serving empty stats", slog.String("error", err.Error()))
			return empty
		}

		topTesters, err := results.TopTesters(ctx, topTestersLimit)
		if err != nil {
			logger.WarnContext(ctx, "Serving empty stats", slog.String("error", err.Error()))
			return empty
		}

		return domain.Stats{
			TotalPlayers: totalPlayers,
			TotalTests:   totalTests,
			TopTesters:   topTesters,
		}
	}
}
