package app

import (
	"context"
	"fmt"
	"time"
)

// CheckHealth returns the number of recorded results if the store answers
type CheckHealth func(ctx context.Context) (int, error)

type testCounter interface {
	CountResults(ctx context.Context) (int, error)
}

func BuildCheckHealth(results testCounter, storeTimeout time.Duration) CheckHealth {
	return func(ctx context.Context) (int, error) {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		totalTests, err := results.CountResults(ctx)
		if err != nil {
			return 0, fmt.Errorf("store is not healthy: %w", err)
		}
		return totalTests, nil
	}
}
