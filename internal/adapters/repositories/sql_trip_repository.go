package repositories

import (
	"context"
	"database/sql"
	"eld-log-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	pgInsertTrip = `
	INSERT INTO trips (current_location, pickup_location, dropoff_location, current_cycle_used)
	VALUES ($1, $2, $3, $4)
	RETURNING id;
	`

	pgInsertLogSheet = `
	INSERT INTO log_sheets (trip_id, log_date, log_data)
	VALUES ($1, $2::date, $3::json);
	`

	pgSelectTrip = `
	SELECT current_location, pickup_location, dropoff_location, current_cycle_used, created_at
	FROM trips
	WHERE id = $1;
	`

	pgSelectLogSheets = `
	SELECT to_char(log_date, 'YYYY-MM-DD'), log_data::text
	FROM log_sheets
	WHERE trip_id = $1
	ORDER BY log_date;
	`
)

// Postgres-backed implementation of the TripRepository port (pgx stdlib driver).
// log_data is stored as JSON rather than JSONB so the text is kept verbatim.
type SQLTripRepository struct {
	DB *sql.DB
}

func NewSQLTripRepository(db *sql.DB) *SQLTripRepository {
	return &SQLTripRepository{DB: db}
}

func (s *SQLTripRepository) SaveTrip(
	ctx context.Context,
	trip domain.TripRequest,
	logs []domain.DailyLog,
) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("sql trip repository: DB is nil")
	}

	encoded, err := encodeLogs(logs)
	if err != nil {
		return 0, fmt.Errorf("save trip: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("save trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx, pgInsertTrip,
		trip.CurrentLocation, trip.PickupLocation, trip.DropoffLocation, trip.CurrentCycleUsed,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save trip: insert trip: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pgInsertLogSheet)
	if err != nil {
		return 0, fmt.Errorf("save trip: prepare log insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range encoded {
		if _, err := stmt.ExecContext(ctx, id, l.date, string(l.data)); err != nil {
			return 0, fmt.Errorf("save trip: insert log %s: %w", l.date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("save trip: commit tx: %w", err)
	}

	return id, nil
}

func (s *SQLTripRepository) GetTrip(ctx context.Context, id int64) (*domain.TripRecord, error) {
	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	rec := &domain.TripRecord{ID: id}
	err := s.DB.QueryRowContext(ctx, pgSelectTrip, id).Scan(
		&rec.Request.CurrentLocation,
		&rec.Request.PickupLocation,
		&rec.Request.DropoffLocation,
		&rec.Request.CurrentCycleUsed,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip %d: %w", id, domain.ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %d: query trips table: %w", id, err)
	}

	rows, err := s.DB.QueryContext(ctx, pgSelectLogSheets, id)
	if err != nil {
		return nil, fmt.Errorf("get trip %d: query log_sheets table: %w", id, err)
	}
	defer rows.Close()

	rec.LogSheets = make([]domain.StoredLogSheet, 0, 4)
	for rows.Next() {
		var date, data string
		if err := rows.Scan(&date, &data); err != nil {
			return nil, fmt.Errorf("get trip %d: scan row: %w", id, err)
		}
		rec.LogSheets = append(rec.LogSheets, domain.StoredLogSheet{
			Date:    date,
			LogData: json.RawMessage(data),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get trip %d: row iteration: %w", id, err)
	}

	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}
