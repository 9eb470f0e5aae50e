package cooldownrepository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

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
	tracer := otel.Tracer("papayas/cooldownrepository/postgres")
	return &Postgres{
		db:      db,
		schema:  schema,
		tracer:  tracer,
		nowFunc: nowFunc,
	}
}

type dbCooldown struct {
	JugadorID string    `db:"jugador_id"`
	Modalidad string    `db:"modalidad"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

// toDomain reports false for rows whose mode is not a tested mode
func (c dbCooldown) toDomain() (domain.Cooldown, bool) {
	if !domain.Mode(c.Modalidad).IsTested() {
		return domain.Cooldown{}, false
	}
	return domain.Cooldown{
		PlayerID: c.JugadorID,
		Mode:     domain.Mode(c.Modalidad),
		Start:    c.StartDate,
		End:      c.EndDate,
	}, true
}

func (p *Postgres) SetCooldown(ctx context.Context, cooldown domain.Cooldown) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.SetCooldown")
	defer span.End()

	if err := cooldown.Validate(); err != nil {
		return err
	}

	_, err := p.db.ExecContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.cooldowns
		(jugador_id, modalidad, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (jugador_id, modalidad)
		DO UPDATE SET
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date`,
			pq.QuoteIdentifier(p.schema)),
		cooldown.PlayerID,
		string(cooldown.Mode),
		cooldown.Start,
		cooldown.End,
	)
	if err != nil {
		err := fmt.Errorf("failed to upsert cooldown: %w", database.Classify(err))
		reporting.Report(ctx, err, map[string]string{
			"playerID": cooldown.PlayerID,
			"mode":     string(cooldown.Mode),
		})
		return err
	}
	return nil
}

func (p *Postgres) selectActive(ctx context.Context, filter string, args ...any) ([]domain.Cooldown, error) {
	query := fmt.Sprintf(
		`SELECT jugador_id, modalidad, start_date, end_date
		FROM %s.cooldowns
		WHERE end_date > $1 %s
		ORDER BY jugador_id ASC, modalidad ASC`,
		pq.QuoteIdentifier(p.schema),
		filter,
	)

	var rows []dbCooldown
	if err := p.db.SelectContext(ctx, &rows, query, append([]any{p.nowFunc()}, args...)...); err != nil {
		return nil, err
	}

	cooldowns := make([]domain.Cooldown, 0, len(rows))
	for _, row := range rows {
		cooldown, ok := row.toDomain()
		if !ok {
			logging.FromContext(ctx).WarnContext(
				ctx,
				"Skipping stored cooldown with unknown mode",
				slog.String("playerID", row.JugadorID),
				slog.String("mode", row.Modalidad),
			)
			continue
		}
		cooldowns = append(cooldowns, cooldown)
	}
	return cooldowns, nil
}

func (p *Postgres) GetActive(ctx context.Context) ([]domain.Cooldown, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetActive")
	defer span.End()

	cooldowns, err := p.selectActive(ctx, "")
	if err != nil {
		err := fmt.Errorf("failed to get active cooldowns: %w", database.Classify(err))
		reporting.Report(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("cooldowns", len(cooldowns)))
	return cooldowns, nil
}

func (p *Postgres) GetActiveForPlayer(ctx context.Context, playerID string) ([]domain.Cooldown, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetActiveForPlayer")
	defer span.End()

	cooldowns, err := p.selectActive(ctx, "AND jugador_id = $2", playerID)
	if err != nil {
		err := fmt.Errorf("failed to get active cooldowns for player: %w", database.Classify(err))
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
		})
		return nil, err
	}
	return cooldowns, nil
}

func (p *Postgres) SweepExpired(ctx context.Context) (int, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.SweepExpired")
	defer span.End()

	res, err := p.db.ExecContext(
		ctx,
		fmt.Sprintf("DELETE FROM %s.cooldowns WHERE end_date <= $1", pq.QuoteIdentifier(p.schema)),
		p.nowFunc(),
	)
	if err != nil {
		err := fmt.Errorf("failed to sweep cooldowns: %w", database.Classify(err))
		reporting.Report(ctx, err)
		return 0, err
	}

	removed, err := res.RowsAffected()
	if err != nil {
		err := fmt.Errorf("failed to get swept count: %w", err)
		reporting.Report(ctx, err)
		return 0, err
	}
	span.SetAttributes(attribute.Int64("removed", removed))
	return int(removed), nil
}
