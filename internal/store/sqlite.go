package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/ewa-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS ewa_detail (
	id          TEXT PRIMARY KEY,
	system      TEXT NOT NULL,
	report_date TEXT NOT NULL,
	section     TEXT NOT NULL,
	kpi_text    TEXT NOT NULL,
	status      TEXT NOT NULL,
	source_file TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ewa_summary (
	id          TEXT PRIMARY KEY,
	system      TEXT NOT NULL,
	report_date TEXT NOT NULL,
	primary_kpi TEXT NOT NULL,
	status      TEXT NOT NULL,
	source_file TEXT NOT NULL,
	UNIQUE(system, report_date, primary_kpi)
);

CREATE INDEX IF NOT EXISTS idx_ewa_detail_date ON ewa_detail(report_date);
CREATE INDEX IF NOT EXISTS idx_ewa_summary_date ON ewa_summary(report_date);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveDetail(ctx context.Context, records []model.DetailRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin detail tx")
	}
	defer func() { _ = tx.Rollback() }()

	dates := distinctDates(records, func(r model.DetailRecord) string {
		return model.DateKey(r.ReportDate)
	})
	for _, d := range dates {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ewa_detail WHERE report_date = ?`, d); err != nil {
			return eris.Wrapf(err, "sqlite: clear detail %s", d)
		}
	}

	for _, r := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ewa_detail (id, system, report_date, section, kpi_text, status, source_file)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), r.System, model.DateKey(r.ReportDate),
			r.Section, r.Label, r.Status.String(), r.SourceFile,
		)
		if err != nil {
			return eris.Wrap(err, "sqlite: insert detail")
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit detail")
}

func (s *SQLiteStore) SaveSummary(ctx context.Context, records []model.SummaryRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin summary tx")
	}
	defer func() { _ = tx.Rollback() }()

	dates := distinctDates(records, func(r model.SummaryRecord) string {
		return model.DateKey(r.ReportDate)
	})
	for _, d := range dates {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ewa_summary WHERE report_date = ?`, d); err != nil {
			return eris.Wrapf(err, "sqlite: clear summary %s", d)
		}
	}

	for _, r := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ewa_summary (id, system, report_date, primary_kpi, status, source_file)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), r.System, model.DateKey(r.ReportDate),
			r.PrimaryKPI, r.Status.String(), r.SourceFile,
		)
		if err != nil {
			return eris.Wrap(err, "sqlite: insert summary")
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit summary")
}

func (s *SQLiteStore) ListDetail(ctx context.Context, f Filter) ([]model.DetailRecord, error) {
	query := `SELECT system, report_date, section, kpi_text, status, source_file FROM ewa_detail WHERE 1=1`
	var args []any
	if f.System != "" {
		query += ` AND system = ?`
		args = append(args, f.System)
	}
	if f.Date != "" {
		query += ` AND report_date = ?`
		args = append(args, f.Date)
	}
	query += ` ORDER BY report_date, rowid`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list detail")
	}
	defer func() { _ = rows.Close() }()

	var out []model.DetailRecord
	for rows.Next() {
		var r model.DetailRecord
		var date, status string
		if err := rows.Scan(&r.System, &date, &r.Section, &r.Label, &status, &r.SourceFile); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan detail")
		}
		if r.ReportDate, err = time.Parse("2006-01-02", date); err != nil {
			return nil, eris.Wrapf(err, "sqlite: bad detail date %q", date)
		}
		if r.Status, err = model.ParseStatus(status); err != nil {
			return nil, eris.Wrap(err, "sqlite: bad detail status")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate detail")
}

func (s *SQLiteStore) ListSummary(ctx context.Context, f Filter) ([]model.SummaryRecord, error) {
	query := `SELECT system, report_date, primary_kpi, status, source_file FROM ewa_summary WHERE 1=1`
	var args []any
	if f.System != "" {
		query += ` AND system = ?`
		args = append(args, f.System)
	}
	if f.Date != "" {
		query += ` AND report_date = ?`
		args = append(args, f.Date)
	}
	query += ` ORDER BY report_date, rowid`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list summary")
	}
	defer func() { _ = rows.Close() }()

	var out []model.SummaryRecord
	for rows.Next() {
		var r model.SummaryRecord
		var date, status string
		if err := rows.Scan(&r.System, &date, &r.PrimaryKPI, &status, &r.SourceFile); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan summary")
		}
		if r.ReportDate, err = time.Parse("2006-01-02", date); err != nil {
			return nil, eris.Wrapf(err, "sqlite: bad summary date %q", date)
		}
		if r.Status, err = model.ParseStatus(status); err != nil {
			return nil, eris.Wrap(err, "sqlite: bad summary status")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate summary")
}

func (s *SQLiteStore) Dates(ctx context.Context) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT report_date FROM ewa_summary ORDER BY report_date`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list dates")
	}
	defer func() { _ = rows.Close() }()

	var out []time.Time
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan date")
		}
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: bad date %q", d)
		}
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate dates")
}
