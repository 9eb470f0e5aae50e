package domain

import "fmt"

// Tier is a skill label, HT1 being the best and LT5 the worst.
type Tier string

const (
	TierHT1 Tier = "HT1"
	TierLT1 Tier = "LT1"
	TierHT2 Tier = "HT2"
	TierLT2 Tier = "LT2"
	TierHT3 Tier = "HT3"
	TierLT3 Tier = "LT3"
	TierHT4 Tier = "HT4"
	TierLT4 Tier = "LT4"
	TierHT5 Tier = "HT5"
	TierLT5 Tier = "LT5"
)

type overallBand struct {
	minPoints int
	tier      Tier
}

// Highest band first, inclusive lower bounds. Anything below the last band is LT5.
var overallLadder = []overallBand{
	{90, TierHT1},
	{80, TierLT1},
	{70, TierHT2},
	{60, TierLT2},
	{50, TierHT3},
	{40, TierLT3},
	{30, TierHT4},
	{20, TierLT4},
	{10, TierHT5},
}

var tiersByRank = []Tier{
	TierHT1, TierLT1,
	TierHT2, TierLT2,
	TierHT3, TierLT3,
	TierHT4, TierLT4,
	TierHT5, TierLT5,
}

// Tiers returns every tier ordered from best to worst
func Tiers() []Tier {
	tiers := make([]Tier, len(tiersByRank))
	copy(tiers, tiersByRank)
	return tiers
}

// Rank returns the position of the tier, 0 for HT1 through 9 for LT5, or -1 when unknown
func (t Tier) Rank() int {
	for i, tier := range tiersByRank {
		if t == tier {
			return i
		}
	}
	return -1
}

func (t Tier) IsValid() bool {
	return t.Rank() != -1
}

func ParseTier(raw string) (Tier, error) {
	tier := Tier(raw)
	if !tier.IsValid() {
		return "", fmt.Errorf("%w: invalid tier %q", ErrValidation, raw)
	}
	return tier, nil
}

// OverallTier maps a total points value onto the overall ladder.
// Every integer maps to exactly one tier.
func OverallTier(totalPoints int) Tier {
	for _, band := range overallLadder {
		if totalPoints >= band.minPoints {
			return band.tier
		}
	}
	return TierLT5
}

// DeriveTier returns the tier a player holds in mode.
//
// For overall the tier is derived from the total points. For a tested mode the
// stored assignment is returned, and ok is false when the player has never been
// tested in that mode.
func DeriveTier(player Player, mode Mode) (tier Tier, ok bool) {
	if mode.IsOverall() {
		return OverallTier(player.TotalPoints), true
	}

	tier, ok = player.TierByMode[mode]
	if !ok || tier == "" {
		return "", false
	}
	return tier, true
}
