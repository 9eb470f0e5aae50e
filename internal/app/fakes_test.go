package app

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

// In-memory store with the same semantics as the postgres repositories
type fakeStore struct {
	mu sync.Mutex

	now       time.Time
	players   map[string]domain.Player
	order     []string
	results   []domain.TestResult
	cooldowns map[string]map[domain.Mode]domain.Cooldown

	err error
}

func newFakeStore(now time.Time) *fakeStore {
	return &fakeStore{
		now:       now,
		players:   make(map[string]domain.Player),
		cooldowns: make(map[string]map[domain.Mode]domain.Cooldown),
	}
}

func (s *fakeStore) addPlayer(player domain.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.DiscordID]; !ok {
		s.order = append(s.order, player.DiscordID)
	}
	s.players[player.DiscordID] = player
}

func (s *fakeStore) GetPlayer(ctx context.Context, playerID string) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return domain.Player{}, s.err
	}
	player, ok := s.players[playerID]
	if !ok {
		return domain.Player{}, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}
	return player, nil
}

func (s *fakeStore) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	players := make([]domain.Player, 0, len(s.order))
	for _, id := range s.order {
		players = append(players, s.players[id])
	}
	slices.SortStableFunc(players, func(a, b domain.Player) int {
		return cmp.Compare(b.TotalPoints, a.TotalPoints)
	})
	return players, nil
}

func (s *fakeStore) CountPlayers(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return len(s.players), nil
}

func (s *fakeStore) RankPosition(ctx context.Context, totalPoints int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	above := 0
	for _, player := range s.players {
		if player.TotalPoints > totalPoints {
			above++
		}
	}
	return above + 1, nil
}

func (s *fakeStore) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.Player, error) {
	if err := update.Validate(); err != nil {
		return domain.Player{}, err
	}
	player, err := s.GetPlayer(ctx, update.PlayerID)
	if err != nil {
		player = domain.NewPlayer(update.PlayerID)
	}
	player = update.Apply(player)
	s.addPlayer(player)
	return player, nil
}

func (s *fakeStore) RecordResult(ctx context.Context, result domain.TestResult) (domain.TestResult, domain.Player, error) {
	if err := result.Validate(); err != nil {
		return domain.TestResult{}, domain.Player{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return domain.TestResult{}, domain.Player{}, s.err
	}

	player, ok := s.players[result.PlayerID]
	if !ok {
		player = domain.NewPlayer(result.PlayerID)
		player.DiscordName = result.PlayerName
		s.order = append(s.order, result.PlayerID)
	}
	if result.OldTier == nil {
		if previous, ok := player.TierByMode[result.Mode]; ok {
			result.OldTier = &previous
		}
	}
	updated := player.WithResult(result.Mode, result.NewTier, result.PointsAwarded)
	s.players[result.PlayerID] = updated

	if result.RecordedAt.IsZero() {
		result.RecordedAt = s.now
	}
	result.ID = fmt.Sprintf("result-%d", len(s.results)+1)
	result.TotalPoints = updated.TotalPoints
	s.results = append(s.results, result)

	return result, updated, nil
}

func (s *fakeStore) CountResults(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return len(s.results), nil
}

func (s *fakeStore) TesterStats(ctx context.Context) ([]domain.TesterCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	counts := make(map[string]*domain.TesterCount)
	for _, result := range s.results {
		count, ok := counts[result.TesterID]
		if !ok {
			count = &domain.TesterCount{TesterID: result.TesterID, Name: result.TesterName}
			counts[result.TesterID] = count
		}
		count.Tests++
	}
	stats := make([]domain.TesterCount, 0, len(counts))
	for _, count := range counts {
		stats = append(stats, *count)
	}
	slices.SortFunc(stats, func(a, b domain.TesterCount) int {
		if c := cmp.Compare(b.Tests, a.Tests); c != 0 {
			return c
		}
		return cmp.Compare(a.TesterID, b.TesterID)
	})
	return stats, nil
}

func (s *fakeStore) TopTesters(ctx context.Context, limit int) ([]domain.TesterCount, error) {
	stats, err := s.TesterStats(ctx)
	if err != nil {
		return nil, err
	}
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

func (s *fakeStore) ListResults(ctx context.Context, limit int) ([]domain.TestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	results := slices.Clone(s.results)
	slices.Reverse(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *fakeStore) DeleteByTester(ctx context.Context, testerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	before := len(s.results)
	s.results = slices.DeleteFunc(s.results, func(r domain.TestResult) bool {
		return r.TesterID == testerID
	})
	return before - len(s.results), nil
}

func (s *fakeStore) SetCooldown(ctx context.Context, cooldown domain.Cooldown) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	byMode, ok := s.cooldowns[cooldown.PlayerID]
	if !ok {
		byMode = make(map[domain.Mode]domain.Cooldown)
		s.cooldowns[cooldown.PlayerID] = byMode
	}
	byMode[cooldown.Mode] = cooldown
	return nil
}

func (s *fakeStore) GetActive(ctx context.Context) ([]domain.Cooldown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	active := []domain.Cooldown{}
	for _, byMode := range s.cooldowns {
		for _, cooldown := range byMode {
			if cooldown.ActiveAt(s.now) {
				active = append(active, cooldown)
			}
		}
	}
	return active, nil
}

func (s *fakeStore) GetActiveForPlayer(ctx context.Context, playerID string) ([]domain.Cooldown, error) {
	all, err := s.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(c domain.Cooldown) bool {
		return c.PlayerID != playerID
	}), nil
}

func (s *fakeStore) SweepExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	removed := 0
	for playerID, byMode := range s.cooldowns {
		for mode, cooldown := range byMode {
			if !cooldown.ActiveAt(s.now) {
				delete(byMode, mode)
				removed++
			}
		}
		if len(byMode) == 0 {
			delete(s.cooldowns, playerID)
		}
	}
	return removed, nil
}
