package resultrepository

import (
	"context"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

type ResultRepository interface {
	CountResults(ctx context.Context) (int, error)
	// TopTesters returns at most limit testers, most results first
	TopTesters(ctx context.Context, limit int) ([]domain.TesterCount, error)
	// TesterStats returns every tester, most results first
	TesterStats(ctx context.Context) ([]domain.TesterCount, error)
	// ListResults returns results newest first. A limit of 0 means no limit.
	ListResults(ctx context.Context, limit int) ([]domain.TestResult, error)
	// DeleteByTester removes every result recorded by testerID and returns how many were removed
	DeleteByTester(ctx context.Context, testerID string) (int, error)
}
