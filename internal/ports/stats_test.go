package ports_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/mrkaiser4314/papayas-api/internal/ports"
	"github.com/stretchr/testify/require"
)

func TestMakeGetStatsHandler(t *testing.T) {
	t.Parallel()

	allowedOrigins := newAllowedOrigins(t)

	t.Run("with testers", func(t *testing.T) {
		t.Parallel()

		getStats := func(ctx context.Context) domain.Stats {
			return domain.Stats{
				TotalPlayers: 12,
				TotalTests:   40,
				TopTesters: []domain.TesterCount{
					{TesterID: "9", Name: "tester-a", Tests: 25},
					{TesterID: "8", Name: "tester-b", Tests: 15},
				},
			}
		}
		handler := ports.MakeGetStatsHandler(getStats, allowedOrigins, testLogger, noopMiddleware)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{
			"total_players": 12,
			"total_tests": 40,
			"top_testers": [{"name": "tester-a", "tests": 25}, {"name": "tester-b", "tests": 15}]
		}`, w.Body.String())
	})

	t.Run("empty stats", func(t *testing.T) {
		t.Parallel()

		getStats := func(ctx context.Context) domain.Stats {
			return domain.Stats{}
		}
		handler := ports.MakeGetStatsHandler(getStats, allowedOrigins, testLogger, noopMiddleware)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"total_players":0,"total_tests":0,"top_testers":[]}`, w.Body.String())
	})
}

func TestMakeHealthHandler(t *testing.T) {
	t.Parallel()

	allowedOrigins := newAllowedOrigins(t)

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()

		checkHealth := func(ctx context.Context) (int, error) {
			return 0, nil
		}
		handler := ports.MakeHealthHandler(checkHealth, allowedOrigins, testLogger, noopMiddleware)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"status":"ok","database":"connected","total_tests":0}`, w.Body.String())
	})

	for _, c := range []struct {
		name     string
		err      error
		database string
	}{
		{
			name:     "store unreachable",
			err:      fmt.Errorf("store is not healthy: %w", domain.ErrTemporarilyUnavailable),
			database: "disconnected",
		},
		{
			name:     "query failed",
			err:      errors.New(`store is not healthy: pq: relation "results" does not exist`),
			database: "error",
		},
	} {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			checkHealth := func(ctx context.Context) (int, error) {
				return 0, c.err
			}
			handler := ports.MakeHealthHandler(checkHealth, allowedOrigins, testLogger, noopMiddleware)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

			require.Equal(t, http.StatusInternalServerError, w.Code)
			require.JSONEq(t, fmt.Sprintf(`{"status":"error","database":%q}`, c.database), w.Body.String())
		})
	}
}

func TestMakeIndexHandler(t *testing.T) {
	t.Parallel()

	handler := ports.MakeIndexHandler(newAllowedOrigins(t), testLogger, noopMiddleware)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{
		"status": "online",
		"message": "Papayas Tierlist API with PostgreSQL",
		"endpoints": {
			"/api/rankings/<mode>": "Get player rankings by mode",
			"/api/player/<discord_id>": "Get player info",
			"/api/stats": "Get general statistics",
			"/health": "Health check"
		}
	}`, w.Body.String())
}
