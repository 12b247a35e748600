package store

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/ewa-cli/internal/model"
)

// pgPool is the subset of pgxpool.Pool the store needs; pgxmock
// implements it for tests.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pgPool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS ewa_detail (
	id          TEXT PRIMARY KEY,
	system      TEXT NOT NULL,
	report_date DATE NOT NULL,
	section     TEXT NOT NULL,
	kpi_text    TEXT NOT NULL,
	status      TEXT NOT NULL,
	source_file TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ewa_summary (
	id          TEXT PRIMARY KEY,
	system      TEXT NOT NULL,
	report_date DATE NOT NULL,
	primary_kpi TEXT NOT NULL,
	status      TEXT NOT NULL,
	source_file TEXT NOT NULL,
	UNIQUE(system, report_date, primary_kpi)
);

CREATE INDEX IF NOT EXISTS idx_ewa_detail_date ON ewa_detail(report_date);
CREATE INDEX IF NOT EXISTS idx_ewa_summary_date ON ewa_summary(report_date);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveDetail(ctx context.Context, records []model.DetailRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin detail tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	dates := distinctDates(records, func(r model.DetailRecord) string {
		return model.DateKey(r.ReportDate)
	})
	for _, d := range dates {
		if _, err := tx.Exec(ctx, `DELETE FROM ewa_detail WHERE report_date = $1`, d); err != nil {
			return eris.Wrapf(err, "postgres: clear detail %s", d)
		}
	}

	for _, r := range records {
		_, err := tx.Exec(ctx,
			`INSERT INTO ewa_detail (id, system, report_date, section, kpi_text, status, source_file)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New().String(), r.System, model.DateKey(r.ReportDate),
			r.Section, r.Label, r.Status.String(), r.SourceFile,
		)
		if err != nil {
			return eris.Wrap(err, "postgres: insert detail")
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit detail")
}

func (s *PostgresStore) SaveSummary(ctx context.Context, records []model.SummaryRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin summary tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	dates := distinctDates(records, func(r model.SummaryRecord) string {
		return model.DateKey(r.ReportDate)
	})
	for _, d := range dates {
		if _, err := tx.Exec(ctx, `DELETE FROM ewa_summary WHERE report_date = $1`, d); err != nil {
			return eris.Wrapf(err, "postgres: clear summary %s", d)
		}
	}

	for _, r := range records {
		_, err := tx.Exec(ctx,
			`INSERT INTO ewa_summary (id, system, report_date, primary_kpi, status, source_file)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New().String(), r.System, model.DateKey(r.ReportDate),
			r.PrimaryKPI, r.Status.String(), r.SourceFile,
		)
		if err != nil {
			return eris.Wrap(err, "postgres: insert summary")
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit summary")
}

func (s *PostgresStore) ListDetail(ctx context.Context, f Filter) ([]model.DetailRecord, error) {
	query := `SELECT system, report_date, section, kpi_text, status, source_file FROM ewa_detail WHERE 1=1`
	var args []any
	if f.System != "" {
		args = append(args, f.System)
		query += ` AND system = $` + strconv.Itoa(len(args))
	}
	if f.Date != "" {
		args = append(args, f.Date)
		query += ` AND report_date = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY report_date`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list detail")
	}
	defer rows.Close()

	var out []model.DetailRecord
	for rows.Next() {
		var r model.DetailRecord
		var status string
		if err := rows.Scan(&r.System, &r.ReportDate, &r.Section, &r.Label, &status, &r.SourceFile); err != nil {
			return nil, eris.Wrap(err, "postgres: scan detail")
		}
		if r.Status, err = model.ParseStatus(status); err != nil {
			return nil, eris.Wrap(err, "postgres: bad detail status")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate detail")
}

func (s *PostgresStore) ListSummary(ctx context.Context, f Filter) ([]model.SummaryRecord, error) {
	query := `SELECT system, report_date, primary_kpi, status, source_file FROM ewa_summary WHERE 1=1`
	var args []any
	if f.System != "" {
		args = append(args, f.System)
		query += ` AND system = $` + strconv.Itoa(len(args))
	}
	if f.Date != "" {
		args = append(args, f.Date)
		query += ` AND report_date = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY report_date`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list summary")
	}
	defer rows.Close()

	var out []model.SummaryRecord
	for rows.Next() {
		var r model.SummaryRecord
		var status string
		if err := rows.Scan(&r.System, &r.ReportDate, &r.PrimaryKPI, &status, &r.SourceFile); err != nil {
			return nil, eris.Wrap(err, "postgres: scan summary")
		}
		if r.Status, err = model.ParseStatus(status); err != nil {
			return nil, eris.Wrap(err, "postgres: bad summary status")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate summary")
}

func (s *PostgresStore) Dates(ctx context.Context) ([]time.Time, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT report_date FROM ewa_summary ORDER BY report_date`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list dates")
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, eris.Wrap(err, "postgres: scan date")
		}
		out = append(out, d)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate dates")
}

