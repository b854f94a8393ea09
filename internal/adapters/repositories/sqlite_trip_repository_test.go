package repositories

import (
	"context"
	"database/sql"
	"eld-log-service/internal/domain"
	"eld-log-service/internal/platform/db"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, InitSchema(context.Background(), conn))
	return conn
}

func sampleLog(date time.Time, status domain.DutyStatus, hours float64) domain.DailyLog {
	l := domain.NewDailyLog(date)
	start := l.Date.Add(8 * time.Hour)
	l.Record(domain.Event{
		Status:   status,
		Start:    start,
		End:      start.Add(time.Duration(hours * float64(time.Hour))),
		Duration: hours,
	})
	return l
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	assert.NoError(t, InitSchema(context.Background(), conn))
}

func TestSqliteTripRepositoryRoundTrip(t *testing.T) {
	conn := openTestDB(t)
	repo := NewSqliteTripRepository(conn)
	created := time.Date(2026, 1, 1, 7, 30, 0, 0, time.UTC)
	repo.Now = func() time.Time { return created }

	trip := domain.TripRequest{
		CurrentLocation:  "Chicago, IL",
		PickupLocation:   "Gary, IN",
		DropoffLocation:  "Denver, CO",
		CurrentCycleUsed: 12.5,
	}
	day1 := sampleLog(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), domain.Driving, 2)
	day2 := sampleLog(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), domain.SleeperBerth, 10)

	ctx := context.Background()
	id, err := repo.SaveTrip(ctx, trip, []domain.DailyLog{day1, day2})
	require.NoError(t, err)
	assert.Positive(t, id)

	rec, err := repo.GetTrip(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, trip, rec.Request)
	assert.True(t, created.Equal(rec.CreatedAt))
	require.Len(t, rec.LogSheets, 2)
	assert.Equal(t, "2026-01-01", rec.LogSheets[0].Date)
	assert.Equal(t, "2026-01-02", rec.LogSheets[1].Date)

	want, err := json.Marshal(day2)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(rec.LogSheets[1].LogData))
}

func TestSqliteTripRepositoryNotFound(t *testing.T) {
	repo := NewSqliteTripRepository(openTestDB(t))

	_, err := repo.GetTrip(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrTripNotFound)
}

func TestSqliteTripRepositoryRejectsDuplicateDates(t *testing.T) {
	conn := openTestDB(t)
	repo := NewSqliteTripRepository(conn)
	day := sampleLog(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), domain.Driving, 1)

	_, err := repo.SaveTrip(context.Background(), domain.TripRequest{CurrentLocation: "A"}, []domain.DailyLog{day, day})
	require.Error(t, err)

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM trips;").Scan(&n))
	assert.Equal(t, 0, n)
}
