package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/mrkaiser4314/papayas-api/internal/domaintest"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, svc *services, args ...string) (string, error) {
	t.Helper()

	closed := false
	open := func(ctx context.Context) (*services, func(), error) {
		return svc, func() { closed = true }, nil
	}

	rootCmd := newRootCmd(open)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		require.True(t, closed, "services should be closed after the command")
	}
	return out.String(), err
}

func TestRecordResultCmd(t *testing.T) {
	t.Parallel()

	recordedAt := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("records result with cooldown", func(t *testing.T) {
		t.Parallel()

		var gotResult domain.TestResult
		var gotCooldown time.Duration
		svc := &services{
			recordResult: func(ctx context.Context, result domain.TestResult, cooldown time.Duration) (domain.TestResult, domain.Player, error) {
				gotResult = result
				gotCooldown = cooldown

				result.ID = "01950000-0000-7000-8000-000000000000"
				result.TotalPoints = 30
				player := domaintest.NewPlayerBuilder(result.PlayerID).
					WithMode(domain.ModeSword, domain.TierHT3, 30).
					Build()
				return result, player, nil
			},
		}

		out, err := executeCommand(t, svc,
			"record-result", "123",
			"--tester-id", "999",
			"--tester-name", "tester",
			"--mode", "Sword",
			"--tier", "HT3",
			"--points", "30",
			"--nick", "Steve",
			"--at", "2025-03-01T12:00:00Z",
			"--cooldown", "72h",
		)
		require.NoError(t, err)

		require.Equal(t, "123", gotResult.PlayerID)
		require.Equal(t, "999", gotResult.TesterID)
		require.Equal(t, domain.ModeSword, gotResult.Mode)
		require.Equal(t, domain.TierHT3, gotResult.NewTier)
		require.Equal(t, 30, gotResult.PointsAwarded)
		require.Nil(t, gotResult.OldTier)
		require.NotNil(t, gotResult.PlayerNickname)
		require.Equal(t, "Steve", *gotResult.PlayerNickname)
		require.True(t, recordedAt.Equal(gotResult.RecordedAt))
		require.Equal(t, 72*time.Hour, gotCooldown)

		var output struct {
			Result resultOutput `json:"result"`
			Player playerOutput `json:"player"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &output))
		require.Equal(t, 30, output.Player.TotalPoints)
		require.Equal(t, standingOutput{Tier: "HT3", Points: 30}, output.Player.Modes["Sword"])
		require.Equal(t, 30, output.Result.TotalPoints)
	})

	for _, missing := range []string{"tester-id", "mode", "tier", "points"} {
		t.Run("missing --"+missing, func(t *testing.T) {
			t.Parallel()

			called := false
			svc := &services{
				recordResult: func(ctx context.Context, result domain.TestResult, cooldown time.Duration) (domain.TestResult, domain.Player, error) {
					called = true
					return result, domain.Player{}, nil
				},
			}

			flags := map[string]string{"tester-id": "9", "mode": "Sword", "tier": "HT2", "points": "45"}
			args := []string{"record-result", "123"}
			for name, value := range flags {
				if name != missing {
					args = append(args, "--"+name, value)
				}
			}

			_, err := executeCommand(t, svc, args...)
			require.ErrorContains(t, err, missing)
			require.False(t, called)
		})
	}

	t.Run("zero points can be given explicitly", func(t *testing.T) {
		t.Parallel()

		var got domain.TestResult
		svc := &services{
			recordResult: func(ctx context.Context, result domain.TestResult, cooldown time.Duration) (domain.TestResult, domain.Player, error) {
				got = result
				return result, domain.Player{}, nil
			},
		}

		_, err := executeCommand(t, svc, "record-result", "123", "--tester-id", "9", "--mode", "Sword", "--tier", "LT5", "--points", "0")
		require.NoError(t, err)
		require.Equal(t, 0, got.PointsAwarded)
		require.Equal(t, domain.TierLT5, got.NewTier)
	})

	t.Run("invalid time", func(t *testing.T) {
		t.Parallel()

		_, err := executeCommand(t, &services{},
			"record-result", "123", "--tester-id", "9", "--mode", "Sword", "--tier", "HT3", "--points", "50", "--at", "yesterday",
		)
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("store error is returned", func(t *testing.T) {
		t.Parallel()

		svc := &services{
			recordResult: func(ctx context.Context, result domain.TestResult, cooldown time.Duration) (domain.TestResult, domain.Player, error) {
				return domain.TestResult{}, domain.Player{}, domain.ErrTemporarilyUnavailable
			},
		}

		_, err := executeCommand(t, svc, "record-result", "123", "--tester-id", "9", "--mode", "Sword", "--tier", "HT3", "--points", "50")
		require.ErrorIs(t, err, domain.ErrTemporarilyUnavailable)
	})
}

func TestSetCooldownCmd(t *testing.T) {
	t.Parallel()

	var got domain.Cooldown
	svc := &services{
		setCooldown: func(ctx context.Context, cooldown domain.Cooldown) error {
			got = cooldown
			return nil
		},
	}

	_, err := executeCommand(t, svc,
		"set-cooldown", "123", "--mode", "Axe", "--start", "2025-03-01T00:00:00Z", "--duration", "24h",
	)
	require.NoError(t, err)

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "123", got.PlayerID)
	require.Equal(t, domain.ModeAxe, got.Mode)
	require.True(t, start.Equal(got.Start))
	require.True(t, start.Add(24*time.Hour).Equal(got.End))
}

func TestCooldownsCmd(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	cooldown := domain.Cooldown{PlayerID: "123", Mode: domain.ModeAxe, Start: start, End: start.Add(time.Hour)}

	t.Run("all active", func(t *testing.T) {
		t.Parallel()

		svc := &services{
			getActiveCooldowns: func(ctx context.Context) (domain.ActiveCooldowns, error) {
				return domain.NewActiveCooldowns([]domain.Cooldown{cooldown}), nil
			},
		}

		out, err := executeCommand(t, svc, "cooldowns")
		require.NoError(t, err)
		require.JSONEq(t, `{
			"123": {"Axe": {"player_id": "123", "mode": "Axe", "start": "2025-03-01T00:00:00Z", "end": "2025-03-01T01:00:00Z"}}
		}`, out)
	})

	t.Run("single player", func(t *testing.T) {
		t.Parallel()

		svc := &services{
			getPlayerCooldowns: func(ctx context.Context, playerID string) ([]domain.Cooldown, error) {
				require.Equal(t, "123", playerID)
				return []domain.Cooldown{cooldown}, nil
			},
		}

		out, err := executeCommand(t, svc, "cooldowns", "--player", "123")
		require.NoError(t, err)
		require.JSONEq(t, `[
			{"player_id": "123", "mode": "Axe", "start": "2025-03-01T00:00:00Z", "end": "2025-03-01T01:00:00Z"}
		]`, out)
	})
}

func TestSweepAndDeleteCmds(t *testing.T) {
	t.Parallel()

	svc := &services{
		sweepExpiredCooldowns: func(ctx context.Context) (int, error) {
			return 4, nil
		},
		deleteTesterResults: func(ctx context.Context, testerID string) (int, error) {
			require.Equal(t, "999", testerID)
			return 7, nil
		},
	}

	out, err := executeCommand(t, svc, "sweep-cooldowns")
	require.NoError(t, err)
	require.JSONEq(t, `{"removed": 4}`, out)

	out, err = executeCommand(t, svc, "delete-tester-results", "999")
	require.NoError(t, err)
	require.JSONEq(t, `{"removed": 7}`, out)

	_, err = executeCommand(t, svc, "delete-tester-results")
	require.Error(t, err)
}

func TestResultsAndTesterStatsCmds(t *testing.T) {
	t.Parallel()

	svc := &services{
		listResults: func(ctx context.Context, limit int) ([]domain.TestResult, error) {
			require.Equal(t, 5, limit)
			return []domain.TestResult{}, nil
		},
		getTesterStats: func(ctx context.Context) ([]domain.TesterCount, error) {
			return []domain.TesterCount{{TesterID: "9", Name: "tester", Tests: 3}}, nil
		},
	}

	out, err := executeCommand(t, svc, "results", "--limit", "5")
	require.NoError(t, err)
	require.JSONEq(t, `[]`, out)

	out, err = executeCommand(t, svc, "tester-stats")
	require.NoError(t, err)
	require.JSONEq(t, `[{"tester_id": "9", "name": "tester", "tests": 3}]`, out)
}

func TestUpdatePlayerCmd(t *testing.T) {
	t.Parallel()

	t.Run("only given flags are applied", func(t *testing.T) {
		t.Parallel()

		var got domain.ProfileUpdate
		svc := &services{
			updatePlayerProfile: func(ctx context.Context, update domain.ProfileUpdate) (domain.Player, error) {
				got = update
				return update.Apply(domaintest.NewPlayerBuilder(update.PlayerID).Build()), nil
			},
		}

		_, err := executeCommand(t, svc, "update-player", "123", "--premium")
		require.NoError(t, err)

		require.Equal(t, "123", got.PlayerID)
		require.Nil(t, got.Nickname)
		require.Nil(t, got.DiscordName)
		require.NotNil(t, got.Premium)
		require.True(t, *got.Premium)
	})

	t.Run("empty nickname clears it", func(t *testing.T) {
		t.Parallel()

		var got domain.ProfileUpdate
		svc := &services{
			updatePlayerProfile: func(ctx context.Context, update domain.ProfileUpdate) (domain.Player, error) {
				got = update
				return domain.Player{}, nil
			},
		}

		_, err := executeCommand(t, svc, "update-player", "123", "--nick", "")
		require.NoError(t, err)

		require.NotNil(t, got.Nickname)
		require.Empty(t, *got.Nickname)
	})
}

func TestPlayerCmd(t *testing.T) {
	t.Parallel()

	svc := &services{
		getPlayer: func(ctx context.Context, playerID string) (domain.PlayerProfile, error) {
			if playerID != "123" {
				return domain.PlayerProfile{}, domain.ErrPlayerNotFound
			}
			player := domaintest.NewPlayerBuilder("123").WithMode(domain.ModeUHC, domain.TierLT2, 12).Build()
			return domain.PlayerProfile{Player: player, Position: 2}, nil
		},
	}

	out, err := executeCommand(t, svc, "player", "123")
	require.NoError(t, err)

	var output playerOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.Equal(t, 2, output.Position)
	require.Equal(t, 12, output.TotalPoints)

	_, err = executeCommand(t, svc, "player", "456")
	require.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestOpenFailure(t *testing.T) {
	t.Parallel()

	openErr := errors.New("no database")
	rootCmd := newRootCmd(func(ctx context.Context) (*services, func(), error) {
		return nil, nil, openErr
	})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"migrate"})

	err := rootCmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, openErr)
}
