package domaintest

import (
	"maps"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

type playerBuilder struct {
	player domain.Player
}

func (pb *playerBuilder) WithNickname(nickname string) *playerBuilder {
	pb.player.Nickname = &nickname
	return pb
}

func (pb *playerBuilder) WithDiscordName(name string) *playerBuilder {
	pb.player.DiscordName = name
	return pb
}

func (pb *playerBuilder) WithPremium(premium bool) *playerBuilder {
	pb.player.Premium = premium
	return pb
}

// WithMode sets the tier and points for mode and recomputes the total
func (pb *playerBuilder) WithMode(mode domain.Mode, tier domain.Tier, points int) *playerBuilder {
	pb.player = pb.player.WithResult(mode, tier, points)
	return pb
}

// WithTotalPoints overrides the cached total, for simulating inconsistent rows
func (pb *playerBuilder) WithTotalPoints(total int) *playerBuilder {
	pb.player.TotalPoints = total
	return pb
}

func (pb *playerBuilder) Build() domain.Player {
	// Copy the maps, so further mutations to the builder don't affect the returned player
	player := pb.player
	player.TierByMode = maps.Clone(pb.player.TierByMode)
	player.PointsByMode = maps.Clone(pb.player.PointsByMode)
	return player
}

func NewPlayerBuilder(discordID string) *playerBuilder {
	player := domain.NewPlayer(discordID)
	player.DiscordName = discordID
	return &playerBuilder{
		player: player,
	}
}
