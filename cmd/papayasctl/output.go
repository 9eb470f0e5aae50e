package main

import (
	"time"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

type resultOutput struct {
	ID             string    `json:"id"`
	PlayerID       string    `json:"player_id"`
	PlayerName     string    `json:"player_name"`
	PlayerNickname *string   `json:"nick_mc"`
	TesterID       string    `json:"tester_id"`
	TesterName     string    `json:"tester_name"`
	Mode           string    `json:"mode"`
	OldTier        *string   `json:"old_tier"`
	NewTier        string    `json:"new_tier"`
	PointsAwarded  int       `json:"points"`
	TotalPoints    int       `json:"total_points"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type standingOutput struct {
	Tier   string `json:"tier"`
	Points int    `json:"points"`
}

type playerOutput struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	DiscordName string                    `json:"discord_name"`
	Nickname    *string                   `json:"nick_mc"`
	TotalPoints int                       `json:"total_points"`
	Premium     bool                      `json:"premium"`
	Modes       map[string]standingOutput `json:"modes"`
	Position    int                       `json:"position,omitempty"`
}

type cooldownOutput struct {
	PlayerID string    `json:"player_id"`
	Mode     string    `json:"mode"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type testerOutput struct {
	TesterID string `json:"tester_id"`
	Name     string `json:"name"`
	Tests    int    `json:"tests"`
}

func resultToOutput(result domain.TestResult) resultOutput {
	var oldTier *string
	if result.OldTier != nil {
		tier := string(*result.OldTier)
		oldTier = &tier
	}
	return resultOutput{
		ID:             result.ID,
		PlayerID:       result.PlayerID,
		PlayerName:     result.PlayerName,
		PlayerNickname: result.PlayerNickname,
		TesterID:       result.TesterID,
		TesterName:     result.TesterName,
		Mode:           string(result.Mode),
		OldTier:        oldTier,
		NewTier:        string(result.NewTier),
		PointsAwarded:  result.PointsAwarded,
		TotalPoints:    result.TotalPoints,
		RecordedAt:     result.RecordedAt,
	}
}

func playerToOutput(player domain.Player) playerOutput {
	modes := make(map[string]standingOutput)
	for mode, standing := range player.Standings() {
		modes[string(mode)] = standingOutput{
			Tier:   string(standing.Tier),
			Points: standing.Points,
		}
	}
	return playerOutput{
		ID:          player.DiscordID,
		Name:        player.DisplayName(),
		DiscordName: player.DiscordName,
		Nickname:    player.Nickname,
		TotalPoints: player.TotalPoints,
		Premium:     player.Premium,
		Modes:       modes,
	}
}

func cooldownToOutput(cooldown domain.Cooldown) cooldownOutput {
	return cooldownOutput{
		PlayerID: cooldown.PlayerID,
		Mode:     string(cooldown.Mode),
		Start:    cooldown.Start,
		End:      cooldown.End,
	}
}

// player id -> mode -> window
func activeCooldownsToOutput(active domain.ActiveCooldowns) map[string]map[string]cooldownOutput {
	output := make(map[string]map[string]cooldownOutput, len(active))
	for playerID, byMode := range active {
		modes := make(map[string]cooldownOutput, len(byMode))
		for mode, cooldown := range byMode {
			modes[string(mode)] = cooldownToOutput(cooldown)
		}
		output[playerID] = modes
	}
	return output
}
