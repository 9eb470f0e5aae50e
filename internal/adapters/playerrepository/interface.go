package playerrepository

import (
	"context"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

type PlayerRepository interface {
	// GetPlayer returns domain.ErrPlayerNotFound if no player has the id
	GetPlayer(ctx context.Context, playerID string) (domain.Player, error)
	// ListPlayers returns every player ordered by total points, highest first
	ListPlayers(ctx context.Context) ([]domain.Player, error)
	CountPlayers(ctx context.Context) (int, error)
	// RankPosition is one more than the number of players with strictly more total points
	RankPosition(ctx context.Context, totalPoints int) (int, error)
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.Player, error)
	// RecordResult stores result and applies it to the player in one transaction
	RecordResult(ctx context.Context, result domain.TestResult) (domain.TestResult, domain.Player, error)
}
