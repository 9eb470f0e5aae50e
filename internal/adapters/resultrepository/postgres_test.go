package resultrepository

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/mrkaiser4314/papayas-api/internal/adapters/database"
	"github.com/mrkaiser4314/papayas-api/internal/adapters/playerrepository"
	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

func newPostgres(t *testing.T, db *sqlx.DB, schemaSuffix string) (*Postgres, *playerrepository.Postgres) {
	require.NotEmpty(t, schemaSuffix, "schemaSuffix must not be empty")
	schema := fmt.Sprintf("results_repo_test_%s", schemaSuffix)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db.MustExec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pq.QuoteIdentifier(schema)))

	err := database.NewDatabaseMigrator(db, logger).Migrate(t.Context(), schema)
	require.NoError(t, err)

	return NewPostgres(db, schema), playerrepository.NewPostgres(db, schema, time.Now)
}

func TestPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping db tests in short mode.")
	}
	t.Parallel()

	db, err := database.NewPostgresDatabase(database.LOCAL_CONNECTION_STRING)
	require.NoError(t, err)

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	// Records count results for each tester, one minute apart
	seed := func(t *testing.T, players *playerrepository.Postgres, testers map[string]int) {
		t.Helper()
		i := 0
		for testerID, count := range testers {
			for range count {
				_, _, err := players.RecordResult(t.Context(), domain.TestResult{
					PlayerID:      fmt.Sprintf("player-%d", i),
					TesterID:      testerID,
					TesterName:    "name-" + testerID,
					Mode:          domain.ModeSword,
					NewTier:       domain.TierLT3,
					PointsAwarded: 40,
					RecordedAt:    start.Add(time.Duration(i) * time.Minute),
				})
				require.NoError(t, err)
				i++
			}
		}
	}

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()
		p, _ := newPostgres(t, db, "empty")

		count, err := p.CountResults(ctx)
		require.NoError(t, err)
		require.Equal(t, 0, count)

		top, err := p.TopTesters(ctx, 5)
		require.NoError(t, err)
		require.Empty(t, top)

		results, err := p.ListResults(ctx, 0)
		require.NoError(t, err)
		require.Empty(t, results)

		deleted, err := p.DeleteByTester(ctx, "nobody")
		require.NoError(t, err)
		require.Equal(t, 0, deleted)
	})

	t.Run("top testers", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()
		p, players := newPostgres(t, db, "top_testers")

		seed(t, players, map[string]int{"t1": 1, "t2": 2, "t3": 3, "t4": 4, "t5": 5, "t6": 6})

		count, err := p.CountResults(ctx)
		require.NoError(t, err)
		require.Equal(t, 21, count)

		top, err := p.TopTesters(ctx, 5)
		require.NoError(t, err)
		require.Equal(t, []domain.TesterCount{
			{TesterID: "t6", Name: "name-t6", Tests: 6},
			{TesterID: "t5", Name: "name-t5", Tests: 5},
			{TesterID: "t4", Name: "name-t4", Tests: 4},
			{TesterID: "t3", Name: "name-t3", Tests: 3},
			{TesterID: "t2", Name: "name-t2", Tests: 2},
		}, top)

		all, err := p.TesterStats(ctx)
		require.NoError(t, err)
		require.Len(t, all, 6)
		require.Equal(t, "t1", all[5].TesterID)

		_, err = p.TopTesters(ctx, 0)
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("list results newest first", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()
		p, players := newPostgres(t, db, "list")

		seed(t, players, map[string]int{"t1": 4})

		results, err := p.ListResults(ctx, 0)
		require.NoError(t, err)
		require.Len(t, results, 4)
		for i := 1; i < len(results); i++ {
			require.True(t, results[i-1].RecordedAt.After(results[i].RecordedAt))
		}
		require.Equal(t, domain.ModeSword, results[0].Mode)
		require.Equal(t, domain.TierLT3, results[0].NewTier)
		require.Equal(t, 40, results[0].TotalPoints)
		require.Nil(t, results[0].OldTier)

		limited, err := p.ListResults(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, results[:2], limited)

		_, err = p.ListResults(ctx, -1)
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("delete by tester", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()
		p, players := newPostgres(t, db, "delete")

		seed(t, players, map[string]int{"keep": 2, "drop": 3})

		deleted, err := p.DeleteByTester(ctx, "drop")
		require.NoError(t, err)
		require.Equal(t, 3, deleted)

		deleted, err = p.DeleteByTester(ctx, "drop")
		require.NoError(t, err)
		require.Equal(t, 0, deleted)

		stats, err := p.TesterStats(ctx)
		require.NoError(t, err)
		require.Equal(t, []domain.TesterCount{{TesterID: "keep", Name: "name-keep", Tests: 2}}, stats)

		_, err = p.DeleteByTester(ctx, "")
		require.ErrorIs(t, err, domain.ErrValidation)
	})
}
