package domain

import "fmt"

// Player is the denormalized record kept for every tested player.
type Player struct {
	DiscordID   string
	Nickname    *string
	DiscordName string

	TierByMode   map[Mode]Tier
	PointsByMode map[Mode]int

	// Cached sum of PointsByMode
	TotalPoints int

	Premium bool
}

// ModeStanding is a player's tier and points in a single mode
type ModeStanding struct {
	Tier   Tier
	Points int
}

func NewPlayer(discordID string) Player {
	return Player{
		DiscordID:    discordID,
		TierByMode:   make(map[Mode]Tier),
		PointsByMode: make(map[Mode]int),
	}
}

// DisplayName prefers the Minecraft nickname over the Discord name
func (p Player) DisplayName() string {
	if p.Nickname != nil && *p.Nickname != "" {
		return *p.Nickname
	}
	return p.DiscordName
}

// Standings pairs every mode the player holds a tier in with its points.
// Missing points default to 0.
func (p Player) Standings() map[Mode]ModeStanding {
	standings := make(map[Mode]ModeStanding, len(p.TierByMode))
	for mode, tier := range p.TierByMode {
		if tier == "" {
			continue
		}
		standings[mode] = ModeStanding{
			Tier:   tier,
			Points: p.PointsByMode[mode],
		}
	}
	return standings
}

// PointsFor returns the points relevant for ranking in mode
func (p Player) PointsFor(mode Mode) int {
	if mode.IsOverall() {
		return p.TotalPoints
	}
	return p.PointsByMode[mode]
}

// SumPoints is the authoritative total, recomputed from the per-mode points
func (p Player) SumPoints() int {
	total := 0
	for _, points := range p.PointsByMode {
		total += points
	}
	return total
}

// WithResult returns a copy of the player with the new tier and points for
// mode applied and the total recomputed. The receiver is left untouched.
func (p Player) WithResult(mode Mode, tier Tier, points int) Player {
	tierByMode := make(map[Mode]Tier, len(p.TierByMode)+1)
	for m, t := range p.TierByMode {
		tierByMode[m] = t
	}
	pointsByMode := make(map[Mode]int, len(p.PointsByMode)+1)
	for m, pts := range p.PointsByMode {
		pointsByMode[m] = pts
	}

	tierByMode[mode] = tier
	pointsByMode[mode] = points

	p.TierByMode = tierByMode
	p.PointsByMode = pointsByMode
	p.TotalPoints = p.SumPoints()
	return p
}

// PlayerProfile is a player together with their overall leaderboard position
type PlayerProfile struct {
	Player   Player
	Position int
}

// ProfileUpdate changes a player's display fields. Nil fields are left as is.
type ProfileUpdate struct {
	PlayerID    string
	Nickname    *string
	DiscordName *string
	Premium     *bool
}

func (u ProfileUpdate) Validate() error {
	if u.PlayerID == "" {
		return fmt.Errorf("%w: missing player id", ErrValidation)
	}
	return nil
}

// Apply returns a copy of the player with the update applied. An empty
// nickname clears it.
func (u ProfileUpdate) Apply(p Player) Player {
	if u.Nickname != nil {
		if *u.Nickname == "" {
			p.Nickname = nil
		} else {
			nickname := *u.Nickname
			p.Nickname = &nickname
		}
	}
	if u.DiscordName != nil {
		p.DiscordName = *u.DiscordName
	}
	if u.Premium != nil {
		p.Premium = *u.Premium
	}
	return p
}
