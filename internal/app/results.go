package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

type ListResults func(ctx context.Context, limit int) ([]domain.TestResult, error)

type GetTesterStats func(ctx context.Context) ([]domain.TesterCount, error)

type DeleteTesterResults func(ctx context.Context, testerID string) (int, error)

type resultRepository interface {
	ListResults(ctx context.Context, limit int) ([]domain.TestResult, error)
	TesterStats(ctx context.Context) ([]domain.TesterCount, error)
	DeleteByTester(ctx context.Context, testerID string) (int, error)
}

func BuildListResults(repo resultRepository, storeTimeout time.Duration) ListResults {
	return func(ctx context.Context, limit int) ([]domain.TestResult, error) {
		if limit < 0 {
			return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrValidation)
		}

		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		results, err := repo.ListResults(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("could not list results: %w", err)
		}
		return results, nil
	}
}

func BuildGetTesterStats(repo resultRepository, storeTimeout time.Duration) GetTesterStats {
	return func(ctx context.Context) ([]domain.TesterCount, error) {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		stats, err := repo.TesterStats(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not get tester stats: %w", err)
		}
		return stats, nil
	}
}

// Player totals are left as they are. Deleting results corrects the log, not the standings.
func BuildDeleteTesterResults(repo resultRepository, storeTimeout time.Duration) DeleteTesterResults {
	return func(ctx context.Context, testerID string) (int, error) {
		if testerID == "" {
			return 0, fmt.Errorf("%w: missing tester id", domain.ErrValidation)
		}

		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		deleted, err := repo.DeleteByTester(ctx, testerID)
		if err != nil {
			return 0, fmt.Errorf("could not delete results for tester: %w", err)
		}
		return deleted, nil
	}
}
