package domain

import (
	"cmp"
	"slices"
)

// RankingEntry is one player as shown in a ranking for a mode
type RankingEntry struct {
	Player    Player
	Standings map[Mode]ModeStanding
	Tier      Tier
}

// TierBucket groups the entries holding the same tier
type TierBucket struct {
	Tier    Tier
	Entries []RankingEntry
}

type Rankings struct {
	Mode    Mode
	Entries []RankingEntry
	// Ordered by first appearance of each tier in Entries
	Buckets []TierBucket
}

func (r Rankings) Count() int {
	return len(r.Entries)
}

// Bucket returns the entries holding tier
func (r Rankings) Bucket(tier Tier) []RankingEntry {
	for _, bucket := range r.Buckets {
		if bucket.Tier == tier {
			return bucket.Entries
		}
	}
	return nil
}

// BuildRankings ranks players for mode.
//
// For a tested mode, players without a tier in that mode are left out. For
// overall every player is included. Entries are sorted by the points relevant
// to the mode, descending, keeping the input order for ties.
func BuildRankings(mode Mode, players []Player) Rankings {
	entries := make([]RankingEntry, 0, len(players))
	for _, player := range players {
		tier, ok := DeriveTier(player, mode)
		if !ok {
			continue
		}
		entries = append(entries, RankingEntry{
			Player:    player,
			Standings: player.Standings(),
			Tier:      tier,
		})
	}

	slices.SortStableFunc(entries, func(a, b RankingEntry) int {
		return cmp.Compare(b.Player.PointsFor(mode), a.Player.PointsFor(mode))
	})

	buckets := make([]TierBucket, 0)
	bucketIndex := make(map[Tier]int)
	for _, entry := range entries {
		i, ok := bucketIndex[entry.Tier]
		if !ok {
			i = len(buckets)
			bucketIndex[entry.Tier] = i
			buckets = append(buckets, TierBucket{Tier: entry.Tier})
		}
		buckets[i].Entries = append(buckets[i].Entries, entry)
	}

	return Rankings{
		Mode:    mode,
		Entries: entries,
		Buckets: buckets,
	}
}
