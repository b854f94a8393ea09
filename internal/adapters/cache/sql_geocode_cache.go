package cache

import (
	"context"
	"database/sql"
	"eld-log-service/internal/domain"
	"eld-log-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
)

const (
	pgSelectGeocodes = `
	SELECT address, lon, lat
	FROM geocode_cache
	WHERE address = ANY($1::text[]);
	`

	// One round trip per batch: the three arrays are zipped row by row.
	pgUpsertGeocodes = `
	INSERT INTO geocode_cache (address, lon, lat)
	SELECT * FROM unnest($1::text[], $2::float8[], $3::float8[])
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`
)

// SQLGeocodeCache is the Postgres geocode cache (pgx stdlib driver).
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.sql.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, pgSelectGeocodes, uniq)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(uniq))
	for rows.Next() {
		var addr string
		var c domain.Coordinates
		if err := rows.Scan(&addr, &c.Lon, &c.Lat); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan: %w", err)
		}
		out[addr] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: rows: %w", err)
	}

	return out, nil
}

// PutMany upserts all results in a single statement.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.sql.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	addrs, lons, lats, err := geocodeColumns(results)
	if err != nil || len(addrs) == 0 {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, pgUpsertGeocodes, addrs, lons, lats); err != nil {
		return fmt.Errorf("put geocode cache: %d rows: %w", len(addrs), err)
	}
	return nil
}

// geocodeColumns splits results into parallel columns, rejecting blank addresses.
func geocodeColumns(results map[string]domain.Coordinates) ([]string, []float64, []float64, error) {
	addrs := make([]string, 0, len(results))
	lons := make([]float64, 0, len(results))
	lats := make([]float64, 0, len(results))
	for addr, c := range results {
		if strings.TrimSpace(addr) == "" {
			return nil, nil, nil, errors.New("put geocode cache: empty address key")
		}
		addrs = append(addrs, addr)
		lons = append(lons, c.Lon)
		lats = append(lats, c.Lat)
	}
	return addrs, lons, lats, nil
}
