package activity

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/foresy/backend/internal/domain/activity"
	"github.com/foresy/backend/internal/domain/mission"
	"github.com/foresy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockReportRepository is a mock implementation of activity.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Save(ctx context.Context, report *activity.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*activity.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*activity.Report), args.Error(1)
}

func (m *MockReportRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*activity.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*activity.Report), args.Error(1)
}

func (m *MockReportRepository) FindByOwnerAndPeriod(ctx context.Context, ownerID uuid.UUID, month, year int) (*activity.Report, error) {
	args := m.Called(ctx, ownerID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*activity.Report), args.Error(1)
}

func (m *MockReportRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter activity.ReportFilter) (*shared.Paginated[*activity.Report], error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*activity.Report]), args.Error(1)
}

func (m *MockReportRepository) Update(ctx context.Context, report *activity.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// MockEntryRepository is a mock implementation of activity.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Save(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*activity.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*activity.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindByReport(ctx context.Context, reportID uuid.UUID, filter activity.EntryFilter) (*shared.Paginated[*activity.Entry], error) {
	args := m.Called(ctx, reportID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*activity.Entry]), args.Error(1)
}

func (m *MockEntryRepository) Update(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) ExistsActiveDuplicate(ctx context.Context, reportID, missionID uuid.UUID, entryDate time.Time, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, reportID, missionID, entryDate, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepository) TotalsForReport(ctx context.Context, reportID uuid.UUID) (activity.ReportTotals, error) {
	args := m.Called(ctx, reportID)
	return args.Get(0).(activity.ReportTotals), args.Error(1)
}

func (m *MockEntryRepository) CountActiveByReportAndMission(ctx context.Context, reportID, missionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, reportID, missionID)
	return args.Get(0).(int64), args.Error(1)
}

// MockLinkRepository is a mock implementation of activity.ReportMissionLinkRepository
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Ensure(ctx context.Context, reportID, missionID uuid.UUID) error {
	args := m.Called(ctx, reportID, missionID)
	return args.Error(0)
}

func (m *MockLinkRepository) Remove(ctx context.Context, reportID, missionID uuid.UUID) error {
	args := m.Called(ctx, reportID, missionID)
	return args.Error(0)
}

func (m *MockLinkRepository) MissionIDsForReport(ctx context.Context, reportID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockMissionRepository is a mock implementation of mission.Repository
type MockMissionRepository struct {
	mock.Mock
}

func (m *MockMissionRepository) Save(ctx context.Context, ms *mission.Mission) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *MockMissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*mission.Mission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mission.Mission), args.Error(1)
}

func (m *MockMissionRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter mission.Filter) (*shared.Paginated[*mission.Mission], error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*mission.Mission]), args.Error(1)
}

func (m *MockMissionRepository) Update(ctx context.Context, ms *mission.Mission) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *MockMissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// testRepos bundles the mocks behind a RepositoryFactory
type testRepos struct {
	reports  *MockReportRepository
	entries  *MockEntryRepository
	links    *MockLinkRepository
	missions *MockMissionRepository
}

func newTestRepos() *testRepos {
	return &testRepos{
		reports:  new(MockReportRepository),
		entries:  new(MockEntryRepository),
		links:    new(MockLinkRepository),
		missions: new(MockMissionRepository),
	}
}

func (r *testRepos) factory() RepositoryFactory {
	return func(tx *gorm.DB) Repositories {
		return Repositories{
			Reports:  r.reports,
			Entries:  r.entries,
			Links:    r.links,
			Missions: r.missions,
		}
	}
}

func (r *testRepos) assertExpectations(t *testing.T) {
	t.Helper()
	r.reports.AssertExpectations(t)
	r.entries.AssertExpectations(t)
	r.links.AssertExpectations(t)
	r.missions.AssertExpectations(t)
}

// newMockDB opens a gorm handle over a mocked SQL connection so that
// services can run real Begin/Commit cycles
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, sqlMock, mockDB
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
