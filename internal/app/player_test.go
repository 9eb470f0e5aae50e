package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/mrkaiser4314/papayas-api/internal/domaintest"
)

func TestBuildGetPlayer(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	newStore := func() *fakeStore {
		store := newFakeStore(now)
		store.addPlayer(domaintest.NewPlayerBuilder("top").WithMode(domain.ModeMace, domain.TierHT1, 90).Build())
		store.addPlayer(domaintest.NewPlayerBuilder("mid-1").WithMode(domain.ModeMace, domain.TierHT3, 50).Build())
		store.addPlayer(domaintest.NewPlayerBuilder("mid-2").WithMode(domain.ModeSMP, domain.TierHT3, 50).Build())
		store.addPlayer(domaintest.NewPlayerBuilder("low").WithMode(domain.ModeSMP, domain.TierLT5, 1).Build())
		return store
	}

	t.Run("position counts players strictly above", func(t *testing.T) {
		t.Parallel()

		getPlayer := BuildGetPlayer(newStore(), time.Second)

		for id, expected := range map[string]int{"top": 1, "mid-1": 2, "mid-2": 2, "low": 4} {
			profile, err := getPlayer(t.Context(), id)
			require.NoError(t, err)
			require.Equal(t, id, profile.Player.DiscordID)
			require.Equal(t, expected, profile.Position, id)
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		_, err := BuildGetPlayer(newStore(), time.Second)(t.Context(), "missing")
		require.ErrorIs(t, err, domain.ErrPlayerNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		t.Parallel()

		_, err := BuildGetPlayer(newStore(), time.Second)(t.Context(), "")
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("store error is returned", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		store.err = assert.AnError

		_, err := BuildGetPlayer(store, time.Second)(t.Context(), "top")
		require.ErrorIs(t, err, assert.AnError)
	})
}
