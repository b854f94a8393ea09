package repositories

import (
	"context"
	"eld-log-service/internal/domain"
	"eld-log-service/internal/platform/db"
	"os"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pgPlaceholder = regexp.MustCompile(`\$(\d+)`)

// placeholderCount returns the highest $n in q after checking $1..$n are all present.
func placeholderCount(t *testing.T, q string) int {
	t.Helper()
	assert.NotContains(t, q, "?", "postgres queries use $n placeholders")

	seen := map[int]bool{}
	for _, m := range pgPlaceholder.FindAllStringSubmatch(q, -1) {
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		seen[n] = true
	}
	for i := 1; i <= len(seen); i++ {
		assert.True(t, seen[i], "missing $%d in %s", i, strings.TrimSpace(q))
	}
	return len(seen)
}

func TestPostgresTripQueries(t *testing.T) {
	tests := []struct {
		name string
		q    string
		args int
	}{
		{"insert trip", pgInsertTrip, 4},
		{"insert log sheet", pgInsertLogSheet, 3},
		{"select trip", pgSelectTrip, 1},
		{"select log sheets", pgSelectLogSheets, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.args, placeholderCount(t, tc.q))
		})
	}
}

func openPostgresTestDB(t *testing.T) *SQLTripRepository {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	conn, err := db.OpenPostgres(url)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, InitPostgresSchema(context.Background(), conn))

	return NewSQLTripRepository(conn)
}

func TestSQLTripRepositoryRoundTrip(t *testing.T) {
	repo := openPostgresTestDB(t)
	ctx := context.Background()

	trip := domain.TripRequest{
		CurrentLocation:  "Omaha, NE",
		PickupLocation:   "Des Moines, IA",
		DropoffLocation:  "Chicago, IL",
		CurrentCycleUsed: 18.5,
	}
	day1 := sampleLog(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), domain.Driving, 6)
	day2 := sampleLog(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), domain.SleeperBerth, 10)

	id, err := repo.SaveTrip(ctx, trip, []domain.DailyLog{day2, day1})
	require.NoError(t, err)
	t.Cleanup(func() { repo.DB.Exec("DELETE FROM trips WHERE id = $1;", id) })

	rec, err := repo.GetTrip(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, trip, rec.Request)
	require.Len(t, rec.LogSheets, 2)
	assert.Equal(t, "2026-02-02", rec.LogSheets[0].Date)
	assert.Equal(t, "2026-02-03", rec.LogSheets[1].Date)

	_, err = repo.GetTrip(ctx, id+1_000_000)
	assert.ErrorIs(t, err, domain.ErrTripNotFound)
}
