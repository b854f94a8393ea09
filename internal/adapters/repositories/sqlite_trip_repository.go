package repositories

import (
	"context"
	"database/sql"
	"eld-log-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLite-backed implementation of the TripRepository port.
type SqliteTripRepository struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewSqliteTripRepository(db *sql.DB) *SqliteTripRepository {
	return &SqliteTripRepository{DB: db, Now: time.Now}
}

// Store the trip and its daily logs in a single transaction.
func (s *SqliteTripRepository) SaveTrip(
	ctx context.Context,
	trip domain.TripRequest,
	logs []domain.DailyLog,
) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("sqlite trip repository: DB is nil")
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

	res, err := tx.ExecContext(ctx, `
	INSERT INTO trips (
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_used,
		created_at
	)
	VALUES (?, ?, ?, ?, ?);
	`, trip.CurrentLocation, trip.PickupLocation, trip.DropoffLocation, trip.CurrentCycleUsed,
		s.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("save trip: insert trip: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save trip: last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO log_sheets (
		trip_id,
		log_date,
		log_data
	)
	VALUES (?, ?, ?);
	`)
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

// Return a stored trip with its log sheets ordered by date.
func (s *SqliteTripRepository) GetTrip(ctx context.Context, id int64) (*domain.TripRecord, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	rec := &domain.TripRecord{ID: id}
	var createdAt string
	err := s.DB.QueryRowContext(ctx, `
	SELECT
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_used,
		created_at
	FROM trips
	WHERE id = ?;
	`, id).Scan(
		&rec.Request.CurrentLocation,
		&rec.Request.PickupLocation,
		&rec.Request.DropoffLocation,
		&rec.Request.CurrentCycleUsed,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip %d: %w", id, domain.ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %d: query trips table: %w", id, err)
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("get trip %d: parse created_at: %w", id, err)
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT log_date, log_data
	FROM log_sheets
	WHERE trip_id = ?
	ORDER BY log_date;
	`, id)
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

	return rec, nil
}
