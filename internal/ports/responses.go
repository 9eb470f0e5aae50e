package ports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/mrkaiser4314/papayas-api/internal/reporting"
)

type modeStandingResponse struct {
	Tier        string `json:"tier"`
	TierDisplay string `json:"tier_display"`
	Points      int    `json:"puntos"`
}

type rankingEntryResponse struct {
	ID          string                          `json:"id"`
	Name        string                          `json:"name"`
	Points      int                             `json:"points"`
	Premium     bool                            `json:"premium"`
	Modalidades map[string]modeStandingResponse `json:"modalidades"`
	Tier        string                          `json:"tier"`
}

// tierBucketsResponse encodes as an object keyed by tier, keys in bucket order
type tierBucketsResponse []tierBucketResponse

type tierBucketResponse struct {
	tier    string
	players []rankingEntryResponse
}

func (b tierBucketsResponse) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, bucket := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(bucket.tier)
		if err != nil {
			return nil, err
		}
		players, err := json.Marshal(bucket.players)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(players)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type rankingsResponse struct {
	Mode         string                 `json:"mode"`
	Players      []rankingEntryResponse `json:"players"`
	Tiers        tierBucketsResponse    `json:"tiers"`
	TotalPlayers int                    `json:"total_players"`
}

type invalidModeResponse struct {
	Error      string   `json:"error"`
	ValidModes []string `json:"valid_modes"`
}

type playerResponse struct {
	ID          string                          `json:"id"`
	Name        string                          `json:"name"`
	DiscordName string                          `json:"discord_name"`
	Nickname    *string                         `json:"nick_mc"`
	TotalPoints int                             `json:"puntos_totales"`
	Premium     bool                            `json:"premium"`
	Tiers       map[string]modeStandingResponse `json:"tiers"`
	Position    int                             `json:"position"`
	Tested      bool                            `json:"tested"`
}

type testerCountResponse struct {
	Name  string `json:"name"`
	Tests int    `json:"tests"`
}

type statsResponse struct {
	TotalPlayers int                   `json:"total_players"`
	TotalTests   int                   `json:"total_tests"`
	TopTesters   []testerCountResponse `json:"top_testers"`
}

type healthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	TotalTests *int   `json:"total_tests,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func standingsToResponse(standings map[domain.Mode]domain.ModeStanding) map[string]modeStandingResponse {
	resp := make(map[string]modeStandingResponse, len(standings))
	for mode, standing := range standings {
		resp[string(mode)] = modeStandingResponse{
			Tier:        string(standing.Tier),
			TierDisplay: string(standing.Tier),
			Points:      standing.Points,
		}
	}
	return resp
}

func rankingEntryToResponse(entry domain.RankingEntry) rankingEntryResponse {
	return rankingEntryResponse{
		ID:          entry.Player.DiscordID,
		Name:        entry.Player.DisplayName(),
		Points:      entry.Player.TotalPoints,
		Premium:     entry.Player.Premium,
		Modalidades: standingsToResponse(entry.Standings),
		Tier:        string(entry.Tier),
	}
}

func rankingsToResponse(rankings domain.Rankings) rankingsResponse {
	players := make([]rankingEntryResponse, 0, len(rankings.Entries))
	for _, entry := range rankings.Entries {
		players = append(players, rankingEntryToResponse(entry))
	}

	tiers := make(tierBucketsResponse, 0, len(rankings.Buckets))
	for _, bucket := range rankings.Buckets {
		bucketPlayers := make([]rankingEntryResponse, 0, len(bucket.Entries))
		for _, entry := range bucket.Entries {
			bucketPlayers = append(bucketPlayers, rankingEntryToResponse(entry))
		}
		tiers = append(tiers, tierBucketResponse{
			tier:    string(bucket.Tier),
			players: bucketPlayers,
		})
	}

	return rankingsResponse{
		Mode:         string(rankings.Mode),
		Players:      players,
		Tiers:        tiers,
		TotalPlayers: rankings.Count(),
	}
}

func playerProfileToResponse(profile domain.PlayerProfile) playerResponse {
	player := profile.Player
	return playerResponse{
		ID:          player.DiscordID,
		Name:        player.DisplayName(),
		DiscordName: player.DiscordName,
		Nickname:    player.Nickname,
		TotalPoints: player.TotalPoints,
		Premium:     player.Premium,
		Tiers:       standingsToResponse(player.Standings()),
		Position:    profile.Position,
		Tested:      true,
	}
}

func statsToResponse(stats domain.Stats) statsResponse {
	topTesters := make([]testerCountResponse, 0, len(stats.TopTesters))
	for _, tester := range stats.TopTesters {
		topTesters = append(topTesters, testerCountResponse{
			Name:  tester.Name,
			Tests: tester.Tests,
		})
	}
	return statsResponse{
		TotalPlayers: stats.TotalPlayers,
		TotalTests:   stats.TotalTests,
		TopTesters:   topTesters,
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		reporting.Report(ctx, fmt.Errorf("failed to marshal response: %w", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data)
}

func writeError(ctx context.Context, w http.ResponseWriter, statusCode int, message string) {
	writeJSON(ctx, w, statusCode, errorResponse{Error: message})
}
