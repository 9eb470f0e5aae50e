package domain

import (
	"fmt"
	"time"
)

// TestResult is one tester's evaluation of one player in one mode.
// Results are append-only.
type TestResult struct {
	ID string

	PlayerID       string
	PlayerNickname *string
	PlayerName     string

	TesterID   string
	TesterName string

	Mode    Mode
	OldTier *Tier
	NewTier Tier

	PointsAwarded int
	// Player's total points after this result was applied
	TotalPoints int

	RecordedAt time.Time
}

// Validate checks the fields a caller must supply. It does not look at
// TotalPoints, which is always computed by the recorder.
func (r TestResult) Validate() error {
	if r.PlayerID == "" {
		return fmt.Errorf("%w: missing player id", ErrValidation)
	}
	if r.TesterID == "" {
		return fmt.Errorf("%w: missing tester id", ErrValidation)
	}
	if !r.Mode.IsTested() {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidMode, r.Mode)
	}
	if !r.NewTier.IsValid() {
		return fmt.Errorf("%w: invalid new tier %q", ErrValidation, r.NewTier)
	}
	if r.OldTier != nil && !r.OldTier.IsValid() {
		return fmt.Errorf("%w: invalid old tier %q", ErrValidation, *r.OldTier)
	}
	return nil
}

// TesterCount is the number of results recorded by a tester
type TesterCount struct {
	TesterID string
	Name     string
	Tests    int
}

type Stats struct {
	TotalPlayers int
	TotalTests   int
	TopTesters   []TesterCount
}
