package activity

import (
	"testing"
	"time"

	"github.com/foresy/backend/internal/domain/shared"
	"github.com/foresy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	reportID := uuid.New()
	missionID := uuid.New()
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		reportID  uuid.UUID
		missionID uuid.UUID
		date      time.Time
		quantity  decimal.Decimal
		unitPrice int64
		wantErr   bool
		errCode   string
	}{
		{"valid entry", reportID, missionID, date, decimal.NewFromInt(1), 50000, false, ""},
		{"half day", reportID, missionID, date, decimal.RequireFromString("0.5"), 50000, false, ""},
		{"empty report", uuid.Nil, missionID, date, decimal.NewFromInt(1), 50000, true, "INVALID_REPORT"},
		{"empty mission", reportID, uuid.Nil, date, decimal.NewFromInt(1), 50000, true, "INVALID_MISSION"},
		{"zero date", reportID, missionID, time.Time{}, decimal.NewFromInt(1), 50000, true, "INVALID_DATE"},
		{"zero quantity", reportID, missionID, date, decimal.Zero, 50000, true, "INVALID_QUANTITY"},
		{"negative quantity", reportID, missionID, date, decimal.NewFromInt(-1), 50000, true, "INVALID_QUANTITY"},
		{"zero unit price", reportID, missionID, date, decimal.NewFromInt(1), 0, true, "INVALID_UNIT_PRICE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEntry(tt.reportID, tt.missionID, tt.date, tt.quantity, tt.unitPrice, "work")

			if tt.wantErr {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.errCode, domainErr.Code)
				return
			}

			require.NoError(t, err)
			assert.False(t, e.IsDeleted())
			assert.Equal(t, tt.date, e.EntryDate)
		})
	}
}

func TestNormalizeEntryDate(t *testing.T) {
	paris := time.FixedZone("CET", 3600)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"midnight utc unchanged", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"afternoon truncates to day", time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC), time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"local zone converts to utc day", time.Date(2025, 1, 10, 9, 0, 0, 0, paris), time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEntryDate(tt.in))
		})
	}
}

func TestNewEntryNormalizesDate(t *testing.T) {
	e, err := NewEntry(uuid.New(), uuid.New(), time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC), decimal.NewFromInt(1), 50000, "")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), e.EntryDate)
}

func TestEntryLineTotal(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		quantity  string
		unitPrice int64
		want      int64
	}{
		{"one day", "1", 50000, 50000},
		{"two days", "2", 50000, 100000},
		{"half day", "0.5", 65000, 32500},
		{"fractional rounds half away from zero", "0.333", 100, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEntry(uuid.New(), uuid.New(), date, decimal.RequireFromString(tt.quantity), tt.unitPrice, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.LineTotal())
		})
	}
}

func TestEntryLineTotalMoney(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	e, err := NewEntry(uuid.New(), uuid.New(), date, decimal.RequireFromString("1.5"), 65000, "")
	require.NoError(t, err)

	m := e.LineTotalMoney(valueobject.EUR)
	assert.Equal(t, int64(97500), m.Amount())
	assert.Equal(t, "975.00 EUR", m.String())

	require.NoError(t, e.SoftDelete())
	assert.True(t, e.LineTotalMoney(valueobject.EUR).IsZero())
}

func TestEntryUpdate(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	e, err := NewEntry(uuid.New(), uuid.New(), date, decimal.NewFromInt(1), 50000, "work")
	require.NoError(t, err)

	newDate := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
	require.NoError(t, e.Update(newDate, decimal.NewFromInt(2), 60000, "more work"))
	assert.Equal(t, newDate, e.EntryDate)
	assert.Equal(t, int64(120000), e.LineTotal())

	// updates may zero out the price, unlike creation
	require.NoError(t, e.Update(newDate, decimal.NewFromInt(2), 0, "pro bono"))
	assert.Equal(t, int64(0), e.LineTotal())

	err = e.Update(newDate, decimal.NewFromInt(2), -1, "")
	require.Error(t, err)
}

func TestEntryReassign(t *testing.T) {
	e, err := NewEntry(uuid.New(), uuid.New(), time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(1), 50000, "")
	require.NoError(t, err)

	newMission := uuid.New()
	require.NoError(t, e.Reassign(newMission))
	assert.Equal(t, newMission, e.MissionID)

	assert.Error(t, e.Reassign(uuid.Nil))
}

func TestEntrySoftDelete(t *testing.T) {
	e, err := NewEntry(uuid.New(), uuid.New(), time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(2), 50000, "work")
	require.NoError(t, err)

	require.NoError(t, e.SoftDelete())
	assert.True(t, e.IsDeleted())
	assert.NotNil(t, e.DeletedAt)

	// deleted entries contribute nothing and reject further mutation
	assert.True(t, e.LineDays().IsZero())
	assert.Equal(t, int64(0), e.LineTotal())
	assert.Error(t, e.SoftDelete())
	assert.Error(t, e.Update(e.EntryDate, decimal.NewFromInt(1), 50000, ""))
	assert.Error(t, e.Reassign(uuid.New()))
}
