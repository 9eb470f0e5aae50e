package resultrepository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrkaiser4314/papayas-api/internal/adapters/database"
	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/mrkaiser4314/papayas-api/internal/reporting"
)

type Postgres struct {
	db     *sqlx.DB
	schema string
	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	tracer := otel.Tracer("papayas/resultrepository/postgres")
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

type dbResult struct {
	ID              string    `db:"id"`
	NickMC          *string   `db:"nick_mc"`
	JugadorID       string    `db:"jugador_id"`
	JugadorName     string    `db:"jugador_name"`
	TesterID        string    `db:"tester_id"`
	TesterName      string    `db:"tester_name"`
	Modalidad       string    `db:"modalidad"`
	TierAntiguo     *string   `db:"tier_antiguo"`
	TierNuevo       string    `db:"tier_nuevo"`
	PuntosObtenidos int       `db:"puntos_obtenidos"`
	PuntosTotales   int       `db:"puntos_totales"`
	Fecha           time.Time `db:"fecha"`
}

type dbTesterCount struct {
	TesterID   string `db:"tester_id"`
	TesterName string `db:"tester_name"`
	Tests      int    `db:"tests"`
}

func (r dbResult) toDomain() domain.TestResult {
	var oldTier *domain.Tier
	if r.TierAntiguo != nil {
		tier := domain.Tier(*r.TierAntiguo)
		oldTier = &tier
	}
	return domain.TestResult{
		ID:             r.ID,
		PlayerID:       r.JugadorID,
		PlayerNickname: r.NickMC,
		PlayerName:     r.JugadorName,
		TesterID:       r.TesterID,
		TesterName:     r.TesterName,
		Mode:           domain.Mode(r.Modalidad),
		OldTier:        oldTier,
		NewTier:        domain.Tier(r.TierNuevo),
		PointsAwarded:  r.PuntosObtenidos,
		TotalPoints:    r.PuntosTotales,
		RecordedAt:     r.Fecha,
	}
}

func (p *Postgres) CountResults(ctx context.Context) (int, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.CountResults")
	defer span.End()

	var count int
	err := p.db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s.results", pq.QuoteIdentifier(p.schema)))
	if err != nil {
		err := fmt.Errorf("failed to count results: %w", database.Classify(err))
		reporting.Report(ctx, err)
		return 0, err
	}
	return count, nil
}

func (p *Postgres) testerCounts(ctx context.Context, limit int) ([]domain.TesterCount, error) {
	query := fmt.Sprintf(
		`SELECT tester_id, MAX(tester_name) AS tester_name, COUNT(*) AS tests
		FROM %s.results
		GROUP BY tester_id
		ORDER BY tests DESC, tester_id ASC`,
		pq.QuoteIdentifier(p.schema),
	)
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var rows []dbTesterCount
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	counts := make([]domain.TesterCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, domain.TesterCount{
			TesterID: row.TesterID,
			Name:     row.TesterName,
			Tests:    row.Tests,
		})
	}
	return counts, nil
}

func (p *Postgres) TopTesters(ctx context.Context, limit int) ([]domain.TesterCount, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.TopTesters")
	defer span.End()

	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrValidation, limit)
	}

	counts, err := p.testerCounts(ctx, limit)
	if err != nil {
		err := fmt.Errorf("failed to get top testers: %w", database.Classify(err))
		reporting.Report(ctx, err)
		return nil, err
	}
	return counts, nil
}

func (p *Postgres) TesterStats(ctx context.Context) ([]domain.TesterCount, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.TesterStats")
	defer span.End()

	counts, err := p.testerCounts(ctx, 0)
	if err != nil {
		err := fmt.Errorf("failed to get tester stats: %w", database.Classify(err))
		reporting.Report(ctx, err)
		return nil, err
	}
	return counts, nil
}

func (p *Postgres) ListResults(ctx context.Context, limit int) ([]domain.TestResult, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListResults")
	defer span.End()

	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative, got %d", domain.ErrValidation, limit)
	}

	query := fmt.Sprintf(
		`SELECT id, nick_mc, jugador_id, jugador_name, tester_id, tester_name, modalidad,
			tier_antiguo, tier_nuevo, puntos_obtenidos, puntos_totales, fecha
		FROM %s.results
		ORDER BY fecha DESC, id DESC`,
		pq.QuoteIdentifier(p.schema),
	)
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var rows []dbResult
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		err := fmt.Errorf("failed to list results: %w", database.Classify(err))
		reporting.Report(ctx, err)
		return nil, err
	}

	results := make([]domain.TestResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toDomain())
	}
	span.SetAttributes(attribute.Int("results", len(results)))
	return results, nil
}

func (p *Postgres) DeleteByTester(ctx context.Context, testerID string) (int, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.DeleteByTester")
	defer span.End()

	if testerID == "" {
		return 0, fmt.Errorf("%w: missing tester id", domain.ErrValidation)
	}

	res, err := p.db.ExecContext(
		ctx,
		fmt.Sprintf("DELETE FROM %s.results WHERE tester_id = $1", pq.QuoteIdentifier(p.schema)),
		testerID,
	)
	if err != nil {
		err := fmt.Errorf("failed to delete results: %w", database.Classify(err))
		reporting.Report(ctx, err, map[string]string{
			"testerID": testerID,
		})
		return 0, err
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		err := fmt.Errorf("failed to get deleted count: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"testerID": testerID,
		})
		return 0, err
	}
	return int(deleted), nil
}
