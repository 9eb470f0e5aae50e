package domaintest

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

// RandomPlayers generates count players with a random subset of tested modes.
// The same seed always yields the same players.
func RandomPlayers(seed uint64, count int) []domain.Player {
	faker := gofakeit.New(seed)
	tiers := domain.Tiers()

	players := make([]domain.Player, 0, count)
	for range count {
		builder := NewPlayerBuilder(faker.Numerify("##################")).
			WithDiscordName(faker.Username()).
			WithPremium(faker.Bool())
		if faker.Bool() {
			builder = builder.WithNickname(faker.Gamertag())
		}

		for _, mode := range domain.TestedModes() {
			if faker.IntRange(0, 2) != 0 {
				continue
			}
			tier := tiers[faker.IntRange(0, len(tiers)-1)]
			builder = builder.WithMode(mode, tier, faker.IntRange(0, 30))
		}

		players = append(players, builder.Build())
	}
	return players
}
