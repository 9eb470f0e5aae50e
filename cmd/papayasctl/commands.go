package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mrkaiser4314/papayas-api/internal/app"
	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/spf13/cobra"
)

type services struct {
	recordResult          app.RecordResult
	setCooldown           app.SetCooldown
	getActiveCooldowns    app.GetActiveCooldowns
	getPlayerCooldowns    app.GetPlayerCooldowns
	sweepExpiredCooldowns app.SweepExpiredCooldowns
	deleteTesterResults   app.DeleteTesterResults
	listResults           app.ListResults
	getTesterStats        app.GetTesterStats
	getPlayer             app.GetPlayer
	updatePlayerProfile   app.UpdatePlayerProfile
	migrate               func(ctx context.Context) error
}

type servicesOpener func(ctx context.Context) (*services, func(), error)

// run opens the services for the duration of a single command
func run(open servicesOpener, fn func(ctx context.Context, svc *services, out io.Writer) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, closeServices, err := open(ctx)
		if err != nil {
			return err
		}
		defer closeServices()

		return fn(ctx, svc, cmd.OutOrStdout())
	}
}

func printJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newRootCmd(open servicesOpener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "papayasctl",
		Short: "Administrative tool for the Papayas tierlist",
		Long: `papayasctl records test results and manages cooldowns, testers and
player profiles directly against the tierlist database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRecordResultCmd(open),
		newSetCooldownCmd(open),
		newCooldownsCmd(open),
		newSweepCooldownsCmd(open),
		newDeleteTesterResultsCmd(open),
		newResultsCmd(open),
		newTesterStatsCmd(open),
		newPlayerCmd(open),
		newUpdatePlayerCmd(open),
		newMigrateCmd(open),
	)

	return rootCmd
}

func newRecordResultCmd(open servicesOpener) *cobra.Command {
	var (
		playerName     string
		playerNickname string
		testerID       string
		testerName     string
		mode           string
		oldTier        string
		newTier        string
		points         int
		recordedAt     string
		cooldown       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "record-result <player-id>",
		Short: "Record a test result and update the player's standing",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&playerName, "player-name", "", "Discord name of the player")
	cmd.Flags().StringVar(&playerNickname, "nick", "", "Minecraft nickname of the player")
	cmd.Flags().StringVar(&testerID, "tester-id", "", "Discord id of the tester")
	cmd.Flags().StringVar(&testerName, "tester-name", "", "Display name of the tester")
	cmd.Flags().StringVar(&mode, "mode", "", "Mode the player was tested in")
	cmd.Flags().StringVar(&oldTier, "old-tier", "", "Tier before the test, taken from the player when omitted")
	cmd.Flags().StringVar(&newTier, "tier", "", "Tier awarded")
	cmd.Flags().IntVar(&points, "points", 0, "Points awarded in the mode")
	cmd.Flags().StringVar(&recordedAt, "at", "", "RFC 3339 time of the test, now when omitted")
	cmd.Flags().DurationVar(&cooldown, "cooldown", 0, "Cooldown before the player can be retested in the mode")
	_ = cmd.MarkFlagRequired("tester-id")
	_ = cmd.MarkFlagRequired("mode")
	_ = cmd.MarkFlagRequired("tier")
	_ = cmd.MarkFlagRequired("points")

	cmd.RunE = run(open, func(ctx context.Context, svc *services, out io.Writer) error {
		result := domain.TestResult{
			PlayerID:      cmd.Flags().Arg(0),
			PlayerName:    playerName,
			TesterID:      testerID,
			TesterName:    testerName,
			Mode:          domain.Mode(mode),
			NewTier:       domain.Tier(newTier),
			PointsAwarded: points,
		}
		if playerNickname != "" {
			result.PlayerNickname = &playerNickname
		}
		if oldTier != "" {
			tier := domain.Tier(oldTier)
			result.OldTier = &tier
		}
		if recordedAt != "" {
			at, err := time.Parse(time.RFC3339, recordedAt)
			if err != nil {
				return fmt.Errorf("%w: invalid --at: %w", domain.ErrValidation, err)
			}
			result.RecordedAt = at
		}

		stored, player, err := svc.recordResult(ctx, result, cooldown)
		if err != nil {
			return err
		}

		return printJSON(out, struct {
			Result resultOutput `json:"result"`
			Player playerOutput `json:"player"`
		}{
			Result: resultToOutput(stored),
			Player: playerToOutput(player),
		})
	})

	return cmd
}

func newSetCooldownCmd(open servicesOpener) *cobra.Command {
	var (
		mode     string
		start    string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "set-cooldown <player-id>",
		Short: "Set or replace the cooldown for a player and mode",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Mode of the cooldown")
	cmd.Flags().StringVar(&start, "start", "", "RFC 3339 start of the window, now when omitted")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Length of the window")
	_ = cmd.MarkFlagRequired("mode")
	_ = cmd.MarkFlagRequired("duration")

	cmd.RunE = run(open, func(ctx context.Context, svc *services, out io.Writer) error {
		startAt := time.Now()
		if start != "" {
			parsed, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("%w: invalid --start: %w", domain.ErrValidation, err)
			}
			startAt = parsed
		}

		cooldown := domain.Cooldown{
			PlayerID: cmd.Flags().Arg(0),
			Mode:     domain.Mode(mode),
			Start:    startAt,
			End:      startAt.Add(duration),
		}
		if err := svc.setCooldown(ctx, cooldown); err != nil {
			return err
		}
		return printJSON(out, cooldownToOutput(cooldown))
	})

	return cmd
}

func newCooldownsCmd(open servicesOpener) *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "cooldowns",
		Short: "List active cooldowns",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Only show cooldowns for this player")

	cmd.RunE = run(open, func(ctx context.Context, svc *services, out io.Writer) error {
		if playerID != "" {
			cooldowns, err := svc.getPlayerCooldowns(ctx, playerID)
			if err != nil {
				return err
			}
			outputs := make([]cooldownOutput, 0, len(cooldowns))
			for _, cooldown := range cooldowns {
				outputs = append(outputs, cooldownToOutput(cooldown))
			}
			return printJSON(out, outputs)
		}

		active, err := svc.getActiveCooldowns(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, activeCooldownsToOutput(active))
	})

	return cmd
}

func newSweepCooldownsCmd(open servicesOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep-cooldowns",
		Short: "Delete every expired cooldown",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = run(open, func(ctx context.Context, svc *services, out io.Writer) error {
		removed, err := svc.sweepExpiredCooldowns(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, map[string]int{"removed": removed})
	})

	return cmd
}

func newDeleteTesterResultsCmd(open servicesOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-tester-results <tester-id>",
		Short: "Delete every result recorded by a tester",
		Long: `Delete every result recorded by a tester. Player standings are left
as they are.`,
		Args: cobra.ExactArgs(1),
	}

	cmd.RunE = run(open, func(ctx context.Context, svc *services, out io.Writer) error {
		removed, err := svc.deleteTesterResults(ctx, cmd.Flags().Arg(0))
		if err != nil {
			return err
		}
		return printJSON(out, map[string]int{"removed": removed})
	})

	return cmd
}

func newResultsCmd(open servicesOpener) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List recorded results, newest first",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of results, 0 for all")

	cmd.RunE = run(open, func(ctx context.Context, svc *services, out io.Writer) error {
		results, err := svc.listResults(ctx, limit)
		if err != nil {
			return err
		}
		outputs := make([]resultOutput, 0, len(results))
		for _, result := range results {
			outputs = append(outputs, resultToOutput(result))
		}
		return printJSON(out, outputs)
	})

	return cmd
}

func newTesterStatsCmd(open servicesOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tester-stats",
		Short: "Show how many results each tester has recorded",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = run(open, func(ctx context.Context, svc *services, out io.Writer) error {
		testers, err := svc.getTesterStats(ctx)
		if err != nil {
			return err
		}
		outputs := make([]testerOutput, 0, len(testers))
		for _, tester := range testers {
			outputs = append(outputs, testerOutput{
				TesterID: tester.TesterID,
				Name:     tester.Name,
				Tests:    tester.Tests,
			})
		}
		return printJSON(out, outputs)
	})

	return cmd
}

func newPlayerCmd(open servicesOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player <player-id>",
		Short: "Show a player and their overall position",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = run(open, func(ctx context.Context, svc *services, out io.Writer) error {
		profile, err := svc.getPlayer(ctx, cmd.Flags().Arg(0))
		if err != nil {
			return err
		}
		output := playerToOutput(profile.Player)
		output.Position = profile.Position
		return printJSON(out, output)
	})

	return cmd
}

func newUpdatePlayerCmd(open servicesOpener) *cobra.Command {
	var (
		nickname    string
		discordName string
		premium     bool
	)

	cmd := &cobra.Command{
		Use:   "update-player <player-id>",
		Short: "Change a player's nickname, Discord name or premium flag",
		Long: `Change a player's display fields. Only flags that are given are
changed. An empty --nick clears the nickname. Tiers and points are never touched.`,
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&nickname, "nick", "", "Minecraft nickname")
	cmd.Flags().StringVar(&discordName, "discord-name", "", "Discord name")
	cmd.Flags().BoolVar(&premium, "premium", false, "Premium flag")

	cmd.RunE = run(open, func(ctx context.Context, svc *services, out io.Writer) error {
		update := domain.ProfileUpdate{PlayerID: cmd.Flags().Arg(0)}
		if cmd.Flags().Changed("nick") {
			update.Nickname = &nickname
		}
		if cmd.Flags().Changed("discord-name") {
			update.DiscordName = &discordName
		}
		if cmd.Flags().Changed("premium") {
			update.Premium = &premium
		}

		player, err := svc.updatePlayerProfile(ctx, update)
		if err != nil {
			return err
		}
		return printJSON(out, playerToOutput(player))
	})

	return cmd
}

func newMigrateCmd(open servicesOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = run(open, func(ctx context.Context, svc *services, out io.Writer) error {
		return svc.migrate(ctx)
	})

	return cmd
}
