package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ewa-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS ewa_detail`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveSummary_ReplacesDate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM ewa_summary WHERE report_date = \$1`).
		WithArgs("2025-01-13").
		WillReturnResult(pgxmock.NewResult("DELETE", 13))
	mock.ExpectExec(`INSERT INTO ewa_summary`).
		WithArgs(pgxmock.AnyArg(), "PRD", "2025-01-13", "Security", "RED", "a.html").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := s.SaveSummary(context.Background(), []model.SummaryRecord{
		summaryFixture(day1, "Security", model.StatusRed),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveSummary_EmptyIsNoop(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	require.NoError(t, s.SaveSummary(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveSummary_InsertFailureRollsBack(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM ewa_summary`).
		WithArgs("2025-01-13").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO ewa_summary`).
		WithArgs(pgxmock.AnyArg(), "PRD", "2025-01-13", "Security", "RED", "a.html").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := s.SaveSummary(context.Background(), []model.SummaryRecord{
		summaryFixture(day1, "Security", model.StatusRed),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert summary")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveDetail(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM ewa_detail WHERE report_date = \$1`).
		WithArgs("2025-01-13").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO ewa_detail`).
		WithArgs(pgxmock.AnyArg(), "PRD", "2025-01-13", "Hardware Capacity", "CPU utilization 95%", "RED", "a.html").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := s.SaveDetail(context.Background(), []model.DetailRecord{{
		System:     "PRD",
		ReportDate: day1,
		Section:    "Hardware Capacity",
		Label:      "CPU utilization 95%",
		Status:     model.StatusRed,
		SourceFile: "a.html",
	}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListSummary(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"system", "report_date", "primary_kpi", "status", "source_file"}).
		AddRow("PRD", day1, "Security", "RED", "a.html").
		AddRow("PRD", day1, "Hardware Capacity", "GREEN", model.NoAlertSource)

	mock.ExpectQuery(`SELECT system, report_date, primary_kpi, status, source_file FROM ewa_summary`).
		WithArgs("PRD").
		WillReturnRows(rows)

	got, err := s.ListSummary(context.Background(), Filter{System: "PRD"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.StatusRed, got[0].Status)
	assert.Equal(t, "Hardware Capacity", got[1].PrimaryKPI)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListSummary_BadStatus(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"system", "report_date", "primary_kpi", "status", "source_file"}).
		AddRow("PRD", day1, "Security", "BLUE", "a.html")

	mock.ExpectQuery(`SELECT system, report_date, primary_kpi, status, source_file FROM ewa_summary`).
		WillReturnRows(rows)

	_, err := s.ListSummary(context.Background(), Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad summary status")
}

func TestPostgresStore_Dates(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"report_date"}).
		AddRow(day1).
		AddRow(day2)

	mock.ExpectQuery(`SELECT DISTINCT report_date FROM ewa_summary ORDER BY report_date`).
		WillReturnRows(rows)

	got, err := s.Dates(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-01-13", model.DateKey(got[0]))
	assert.NoError(t, mock.ExpectationsWereMet())
}
