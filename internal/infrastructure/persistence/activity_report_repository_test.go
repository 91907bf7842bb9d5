package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/foresy/backend/internal/domain/activity"
	"github.com/foresy/backend/internal/domain/shared"
	"github.com/foresy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockReportRepository creates a GormReportRepository with a mocked SQL connection
func newMockReportRepository(t *testing.T) (*GormReportRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormReportRepository(gormDB), mock, mockDB
}

func reportRows(reportID, ownerID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "version", "owner_id", "month", "year", "status", "currency", "total_days", "total_amount", "submitted_at", "locked_at"}).
		AddRow(reportID, 1, ownerID, 6, 2025, "DRAFT", "EUR", decimal.Zero, int64(0), nil, nil)
}

func TestGormReportRepository_FindByID(t *testing.T) {
	t.Run("finds existing report", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		reportID := uuid.New()
		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "activity_reports" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(reportID, 1).
			WillReturnRows(reportRows(reportID, ownerID))

		report, err := repo.FindByID(context.Background(), reportID)

		assert.NoError(t, err)
		require.NotNil(t, report)
		assert.Equal(t, reportID, report.ID)
		assert.Equal(t, ownerID, report.OwnerID)
		assert.Equal(t, activity.ReportStatusDraft, report.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing report", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		reportID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "activity_reports" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(reportID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		report, err := repo.FindByID(context.Background(), reportID)

		assert.Error(t, err)
		assert.Nil(t, report)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReportRepository_FindByIDForUpdate(t *testing.T) {
	repo, mock, mockDB := newMockReportRepository(t)
	defer mockDB.Close()

	reportID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "activity_reports" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
		WithArgs(reportID, 1).
		WillReturnRows(reportRows(reportID, ownerID))

	report, err := repo.FindByIDForUpdate(context.Background(), reportID)

	assert.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, reportID, report.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReportRepository_FindByOwnerAndPeriod(t *testing.T) {
	t.Run("finds report for period", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		reportID := uuid.New()
		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "activity_reports" WHERE owner_id = \$1 AND month = \$2 AND year = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, 6, 2025, 1).
			WillReturnRows(reportRows(reportID, ownerID))

		report, err := repo.FindByOwnerAndPeriod(context.Background(), ownerID, 6, 2025)

		assert.NoError(t, err)
		require.NotNil(t, report)
		assert.Equal(t, 6, report.Month)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil without error when period has no report", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "activity_reports" WHERE owner_id = \$1 AND month = \$2 AND year = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, 6, 2025, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		report, err := repo.FindByOwnerAndPeriod(context.Background(), ownerID, 6, 2025)

		assert.NoError(t, err)
		assert.Nil(t, report)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReportRepository_FindByOwner(t *testing.T) {
	t.Run("filters by status", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		reportID := uuid.New()
		ownerID := uuid.New()
		status := activity.ReportStatusDraft

		mock.ExpectQuery(`SELECT count\(\*\) FROM "activity_reports" WHERE owner_id = \$1 AND status = \$2`).
			WithArgs(ownerID, "DRAFT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(`SELECT \* FROM "activity_reports" WHERE owner_id = \$1 AND status = \$2 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(ownerID, "DRAFT", 20).
			WillReturnRows(reportRows(reportID, ownerID))

		filter := activity.ReportFilter{Status: &status}
		filter.Normalize()

		result, err := repo.FindByOwner(context.Background(), ownerID, filter)

		assert.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, int64(1), result.Total)
		assert.Len(t, result.Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown sort field", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "activity_reports" WHERE owner_id = \$1`).
			WithArgs(ownerID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`SELECT \* FROM "activity_reports" WHERE owner_id = \$1 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(ownerID, 20).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		filter := activity.ReportFilter{Filter: shared.Filter{OrderBy: "owner_id; DROP TABLE activity_reports"}}
		filter.Normalize()

		result, err := repo.FindByOwner(context.Background(), ownerID, filter)

		assert.NoError(t, err)
		require.NotNil(t, result)
		assert.Empty(t, result.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReportRepository_Save(t *testing.T) {
	t.Run("maps unique violation to period conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		report, err := activity.NewReport(uuid.New(), 6, 2025, valueobject.EUR)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "activity_reports"`).
			WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

		err = repo.Save(context.Background(), report)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.KindConflict, domainErr.Kind)
		assert.Equal(t, "REPORT_EXISTS", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReportRepository_Update(t *testing.T) {
	t.Run("bumps version on matching row", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		report, err := activity.NewReport(uuid.New(), 6, 2025, valueobject.EUR)
		require.NoError(t, err)
		require.Equal(t, 1, report.GetVersion())

		mock.ExpectExec(`UPDATE "activity_reports" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), report))
		assert.Equal(t, 2, report.GetVersion())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version matches no rows", func(t *testing.T) {
		repo, mock, mockDB := newMockReportRepository(t)
		defer mockDB.Close()

		report, err := activity.NewReport(uuid.New(), 6, 2025, valueobject.EUR)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "activity_reports" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Update(context.Background(), report)

		assert.Equal(t, shared.ErrStaleVersion, err)
		assert.Equal(t, 1, report.GetVersion())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
