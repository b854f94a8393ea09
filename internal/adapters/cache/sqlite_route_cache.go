package cache

import (
	"context"
	"database/sql"
	"eld-log-service/internal/domain"
	"eld-log-service/internal/platform/obs"
	"errors"
	"fmt"
)

// SQLite backed cache of measured route legs, keyed by routing profile and
// the legs' endpoint coordinates.
type SqliteRouteLegCache struct {
	DB *sql.DB
}

func NewSqliteRouteLegCache(db *sql.DB) *SqliteRouteLegCache {
	return &SqliteRouteLegCache{DB: db}
}

func (s *SqliteRouteLegCache) Get(
	ctx context.Context,
	profile string,
	from, to domain.Coordinates,
) (_ domain.LegMetrics, _ bool, err error) {
	defer obs.Time(ctx, "route.sqlite.Get")(&err)

	if s.DB == nil {
		return domain.LegMetrics{}, false, errors.New("route cache: db is nil")
	}

	var leg domain.LegMetrics
	err = s.DB.QueryRowContext(ctx, `
	SELECT distance_miles, duration_hours, geometry
    FROM route_cache
    WHERE profile = ? AND origin = ? AND destination = ?;
	`, profile, from.Key(), to.Key()).Scan(&leg.DistanceMiles, &leg.DurationHours, &leg.Geometry)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LegMetrics{}, false, nil
	}
	if err != nil {
		return domain.LegMetrics{}, false, fmt.Errorf("get route cache: %w", err)
	}

	return leg, true, nil
}

func (s *SqliteRouteLegCache) Put(
	ctx context.Context,
	profile string,
	from, to domain.Coordinates,
	leg domain.LegMetrics,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO route_cache (
        profile,
        origin,
        destination,
        distance_miles,
        duration_hours,
        geometry
    )
    VALUES (?, ?, ?, ?, ?, ?);
	`, profile, from.Key(), to.Key(), leg.DistanceMiles, leg.DurationHours, leg.Geometry)
	if err != nil {
		return fmt.Errorf("insert route cache %s -> %s: %w", from.Key(), to.Key(), err)
	}

	return nil
}
