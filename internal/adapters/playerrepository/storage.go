package playerrepository

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/mrkaiser4314/papayas-api/internal/domain"
)

const (
	premiumYes = "si"
	premiumNo  = "no"
)

type dbPlayer struct {
	DiscordID          string  `db:"discord_id"`
	NickMC             *string `db:"nick_mc"`
	DiscordName        string  `db:"discord_name"`
	TierPorModalidad   []byte  `db:"tier_por_modalidad"`
	PuntosPorModalidad []byte  `db:"puntos_por_modalidad"`
	PuntosTotales      int     `db:"puntos_totales"`
	EsPremium          string  `db:"es_premium"`
}

const playerColumns = "discord_id, nick_mc, discord_name, tier_por_modalidad, puntos_por_modalidad, puntos_totales, es_premium"

// recomputedTotalSQL sums puntos_por_modalidad the way decodePoints does, so
// rows with a stale puntos_totales are ordered by what reads report.
var recomputedTotalSQL = func() string {
	modes := make([]string, 0, len(domain.TestedModes()))
	for _, mode := range domain.TestedModes() {
		modes = append(modes, pq.QuoteLiteral(string(mode)))
	}
	return fmt.Sprintf(
		`(SELECT COALESCE(SUM(CASE WHEN entry.value ~ '^[+-]?[0-9]{1,18}$' THEN entry.value::bigint ELSE 0 END), 0)
		FROM jsonb_each_text(%s) AS entry
		WHERE entry.key IN (%s))`,
		objectOrEmptySQL("puntos_por_modalidad"),
		strings.Join(modes, ", "),
	)
}()

// objectOrEmptySQL guards jsonb functions against legacy non-object values
func objectOrEmptySQL(column string) string {
	return fmt.Sprintf("(CASE WHEN jsonb_typeof(%[1]s) = 'object' THEN %[1]s ELSE '{}'::jsonb END)", column)
}

func premiumToStorage(premium bool) string {
	if premium {
		return premiumYes
	}
	return premiumNo
}

func encodeTiers(tiers map[domain.Mode]domain.Tier) ([]byte, error) {
	data := make(map[string]string, len(tiers))
	for mode, tier := range tiers {
		if !mode.IsTested() {
			return nil, fmt.Errorf("%w: %w: %q", domain.ErrValidation, domain.ErrInvalidMode, mode)
		}
		if !tier.IsValid() {
			return nil, fmt.Errorf("%w: invalid tier %q for %s", domain.ErrValidation, tier, mode)
		}
		data[string(mode)] = string(tier)
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tiers: %w", err)
	}
	return encoded, nil
}

func encodePoints(points map[domain.Mode]int) ([]byte, error) {
	data := make(map[string]int, len(points))
	for mode, value := range points {
		if !mode.IsTested() {
			return nil, fmt.Errorf("%w: %w: %q", domain.ErrValidation, domain.ErrInvalidMode, mode)
		}
		data[string(mode)] = value
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal points: %w", err)
	}
	return encoded, nil
}

// decodeTiers never fails. Unknown modes and labels are dropped.
func decodeTiers(raw []byte) (map[domain.Mode]domain.Tier, []string) {
	tiers := make(map[domain.Mode]domain.Tier)
	var skipped []string

	var data map[string]json.RawMessage
	if len(raw) == 0 {
		return tiers, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return tiers, []string{"<malformed>"}
	}

	for key, value := range data {
		mode := domain.Mode(key)
		var label string
		if !mode.IsTested() || json.Unmarshal(value, &label) != nil || !domain.Tier(label).IsValid() {
			skipped = append(skipped, key)
			continue
		}
		tiers[mode] = domain.Tier(label)
	}
	return tiers, skipped
}

// decodePoints never fails. Unknown modes and non-integer values are dropped.
// Integers stored as strings are accepted.
func decodePoints(raw []byte) (map[domain.Mode]int, []string) {
	points := make(map[domain.Mode]int)
	var skipped []string

	var data map[string]json.RawMessage
	if len(raw) == 0 {
		return points, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return points, []string{"<malformed>"}
	}

	for key, value := range data {
		mode := domain.Mode(key)
		if !mode.IsTested() {
			skipped = append(skipped, key)
			continue
		}

		var number int
		if err := json.Unmarshal(value, &number); err == nil {
			points[mode] = number
			continue
		}

		var str string
		if err := json.Unmarshal(value, &str); err == nil {
			if parsed, err := strconv.Atoi(str); err == nil {
				points[mode] = parsed
				continue
			}
		}
		skipped = append(skipped, key)
	}
	return points, skipped
}

type decodedPlayer struct {
	player domain.Player

	skippedTiers  []string
	skippedPoints []string
	storedTotal   int
}

func (d decodedPlayer) consistent() bool {
	return len(d.skippedTiers) == 0 && len(d.skippedPoints) == 0 && d.storedTotal == d.player.TotalPoints
}

// The total is recomputed from the decoded per-mode points
func dbPlayerToDomain(row dbPlayer) decodedPlayer {
	tiers, skippedTiers := decodeTiers(row.TierPorModalidad)
	points, skippedPoints := decodePoints(row.PuntosPorModalidad)

	player := domain.Player{
		DiscordID:    row.DiscordID,
		Nickname:     row.NickMC,
		DiscordName:  row.DiscordName,
		TierByMode:   tiers,
		PointsByMode: points,
		Premium:      row.EsPremium == premiumYes,
	}
	player.TotalPoints = player.SumPoints()

	return decodedPlayer{
		player:        player,
		skippedTiers:  skippedTiers,
		skippedPoints: skippedPoints,
		storedTotal:   row.PuntosTotales,
	}
}
