package playerrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrkaiser4314/papayas-api/internal/adapters/database"
	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/mrkaiser4314/papayas-api/internal/logging"
	"github.com/mrkaiser4314/papayas-api/internal/reporting"
)

type Postgres struct {
	db      *sqlx.DB
	schema  string
	tracer  trace.Tracer
	nowFunc func() time.Time
}

func NewPostgres(db *sqlx.DB, schema string, nowFunc func() time.Time) *Postgres {
	tracer := otel.Tracer("papayas/playerrepository/postgres")
	return &Postgres{
		db:      db,
		schema:  schema,
		tracer:  tracer,
		nowFunc: nowFunc,
	}
}

func (p *Postgres) decode(ctx context.Context, row dbPlayer) domain.Player {
	decoded := dbPlayerToDomain(row)
	if !decoded.consistent() {
		logging.FromContext(ctx).WarnContext(
			ctx,
			"Stored player is inconsistent, using recomputed state",
			slog.String("playerID", row.DiscordID),
			slog.Any("skippedTiers", decoded.skippedTiers),
			slog.Any("skippedPoints", decoded.skippedPoints),
			slog.Int("storedTotal", decoded.storedTotal),
			slog.Int("recomputedTotal", decoded.player.TotalPoints),
		)
	}
	return decoded.player
}

func (p *Postgres) GetPlayer(ctx context.Context, playerID string) (domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetPlayer")
	defer span.End()

	var row dbPlayer
	err := p.db.GetContext(
		ctx,
		&row,
		fmt.Sprintf("SELECT %s FROM %s.players WHERE discord_id = $1", playerColumns, pq.QuoteIdentifier(p.schema)),
		playerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Player{}, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}
	if err != nil {
		err := fmt.Errorf("failed to get player: %w", database.Classify(err))
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
		})
		return domain.Player{}, err
	}

	return p.decode(ctx, row), nil
}

func (p *Postgres) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListPlayers")
	defer span.End()

	var rows []dbPlayer
	err := p.db.SelectContext(
		ctx,
		&rows,
		fmt.Sprintf(
			"SELECT %s FROM %s.players ORDER BY %s DESC, discord_id ASC",
			playerColumns,
			pq.QuoteIdentifier(p.schema),
			recomputedTotalSQL,
		),
	)
	if err != nil {
		err := fmt.Errorf("failed to list players: %w", database.Classify(err))
		reporting.Report(ctx, err)
		return nil, err
	}

	players := make([]domain.Player, 0, len(rows))
	for _, row := range rows {
		players = append(players, p.decode(ctx, row))
	}
	span.SetAttributes(attribute.Int("players", len(players)))

	return players, nil
}

func (p *Postgres) CountPlayers(ctx context.Context) (int, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.CountPlayers")
	defer span.End()

	var count int
	err := p.db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s.players", pq.QuoteIdentifier(p.schema)))
	if err != nil {
		err := fmt.Errorf("failed to count players: %w", database.Classify(err))
		reporting.Report(ctx, err)
		return 0, err
	}
	return count, nil
}

func (p *Postgres) RankPosition(ctx context.Context, totalPoints int) (int, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.RankPosition")
	defer span.End()

	var above int
	err := p.db.GetContext(
		ctx,
		&above,
		fmt.Sprintf("SELECT COUNT(*) FROM %s.players WHERE %s > $1", pq.QuoteIdentifier(p.schema), recomputedTotalSQL),
		totalPoints,
	)
	if err != nil {
		err := fmt.Errorf("failed to count players above: %w", database.Classify(err))
		reporting.Report(ctx, err, map[string]string{
			"totalPoints": fmt.Sprintf("%d", totalPoints),
		})
		return 0, err
	}
	return above + 1, nil
}

// beginWithLockedPlayer starts a transaction and locks the player row, creating it if needed.
// The caller must roll back or commit the returned transaction.
func (p *Postgres) beginWithLockedPlayer(ctx context.Context, playerID string, nickname *string, discordName string) (*sqlx.Tx, domain.Player, error) {
	txx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domain.Player{}, fmt.Errorf("failed to start transaction: %w", err)
	}

	_, err = txx.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(p.schema)))
	if err != nil {
		txx.Rollback()
		return nil, domain.Player{}, fmt.Errorf("failed to set search path: %w", err)
	}

	_, err = txx.ExecContext(
		ctx,
		`INSERT INTO players (discord_id, nick_mc, discord_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id) DO NOTHING`,
		playerID,
		nickname,
		discordName,
	)
	if err != nil {
		txx.Rollback()
		return nil, domain.Player{}, fmt.Errorf("failed to create player: %w", err)
	}

	var row dbPlayer
	err = txx.GetContext(
		ctx,
		&row,
		fmt.Sprintf("SELECT %s FROM players WHERE discord_id = $1 FOR UPDATE", playerColumns),
		playerID,
	)
	if err != nil {
		txx.Rollback()
		return nil, domain.Player{}, fmt.Errorf("failed to lock player: %w", err)
	}

	return txx, p.decode(ctx, row), nil
}

func updatePlayer(ctx context.Context, txx *sqlx.Tx, player domain.Player) error {
	tiers, err := encodeTiers(player.TierByMode)
	if err != nil {
		return err
	}
	points, err := encodePoints(player.PointsByMode)
	if err != nil {
		return err
	}

	// Entries the decoder skipped stay in the stored objects. Every decoded
	// entry is present in the new values, so they overwrite the rest.
	_, err = txx.ExecContext(
		ctx,
		fmt.Sprintf(
			`UPDATE players SET
				nick_mc = $2,
				discord_name = $3,
				tier_por_modalidad = %s || $4::jsonb,
				puntos_por_modalidad = %s || $5::jsonb,
				puntos_totales = $6,
				es_premium = $7
			WHERE discord_id = $1`,
			objectOrEmptySQL("tier_por_modalidad"),
			objectOrEmptySQL("puntos_por_modalidad"),
		),
		player.DiscordID,
		player.Nickname,
		player.DiscordName,
		string(tiers),
		string(points),
		player.TotalPoints,
		premiumToStorage(player.Premium),
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.UpdateProfile")
	defer span.End()

	if err := update.Validate(); err != nil {
		return domain.Player{}, err
	}

	discordName := ""
	if update.DiscordName != nil {
		discordName = *update.DiscordName
	}

	txx, player, err := p.beginWithLockedPlayer(ctx, update.PlayerID, update.Nickname, discordName)
	if err != nil {
		err := fmt.Errorf("failed to update profile: %w", database.Classify(err))
		reporting.Report(ctx, err, map[string]string{
			"playerID": update.PlayerID,
		})
		return domain.Player{}, err
	}
	defer txx.Rollback()

	updated := update.Apply(player)

	if err := updatePlayer(ctx, txx, updated); err != nil {
		err := fmt.Errorf("failed to update profile: %w", database.Classify(err))
		reporting.Report(ctx, err, map[string]string{
			"playerID": update.PlayerID,
		})
		return domain.Player{}, err
	}

	if err := txx.Commit(); err != nil {
		err := fmt.Errorf("failed to commit profile update: %w", database.Classify(err))
		reporting.Report(ctx, err, map[string]string{
			"playerID": update.PlayerID,
		})
		return domain.Player{}, err
	}

	return updated, nil
}

func (p *Postgres) RecordResult(ctx context.Context, result domain.TestResult) (domain.TestResult, domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.RecordResult")
	defer span.End()

	if err := result.Validate(); err != nil {
		return domain.TestResult{}, domain.Player{}, err
	}

	extras := map[string]string{
		"playerID": result.PlayerID,
		"testerID": result.TesterID,
		"mode":     string(result.Mode),
	}
	fail := func(msg string, err error) (domain.TestResult, domain.Player, error) {
		err = fmt.Errorf("%s: %w", msg, database.Classify(err))
		reporting.Report(ctx, err, extras)
		return domain.TestResult{}, domain.Player{}, err
	}

	dbID, err := uuid.NewV7()
	if err != nil {
		return fail("failed to generate result id", err)
	}

	if result.RecordedAt.IsZero() {
		result.RecordedAt = p.nowFunc()
	}

	txx, player, err := p.beginWithLockedPlayer(ctx, result.PlayerID, result.PlayerNickname, result.PlayerName)
	if err != nil {
		return fail("failed to record result", err)
	}
	defer txx.Rollback()

	if result.OldTier == nil {
		if previous, ok := player.TierByMode[result.Mode]; ok {
			result.OldTier = &previous
		}
	}

	// Latest snapshot names win
	if result.PlayerNickname != nil && *result.PlayerNickname != "" {
		player.Nickname = result.PlayerNickname
	}
	if result.PlayerName != "" {
		player.DiscordName = result.PlayerName
	}

	updated := player.WithResult(result.Mode, result.NewTier, result.PointsAwarded)

	if err := updatePlayer(ctx, txx, updated); err != nil {
		return fail("failed to record result", err)
	}

	result.ID = dbID.String()
	result.PlayerNickname = updated.Nickname
	result.PlayerName = updated.DiscordName
	result.TotalPoints = updated.TotalPoints

	var oldTier *string
	if result.OldTier != nil {
		value := string(*result.OldTier)
		oldTier = &value
	}

	_, err = txx.ExecContext(
		ctx,
		`INSERT INTO results
		(id, nick_mc, jugador_id, jugador_name, tester_id, tester_name, modalidad,
		tier_antiguo, tier_nuevo, puntos_obtenidos, puntos_totales, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		result.ID,
		result.PlayerNickname,
		result.PlayerID,
		result.PlayerName,
		result.TesterID,
		result.TesterName,
		string(result.Mode),
		oldTier,
		string(result.NewTier),
		result.PointsAwarded,
		result.TotalPoints,
		result.RecordedAt,
	)
	if err != nil {
		return fail("failed to insert result", err)
	}

	if err := txx.Commit(); err != nil {
		return fail("failed to commit result", err)
	}

	return result, updated, nil
}
