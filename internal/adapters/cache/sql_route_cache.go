package cache

import (
	"context"
	"database/sql"
	"eld-log-service/internal/domain"
	"eld-log-service/internal/platform/obs"
	"errors"
	"fmt"
)

const (
	pgSelectRouteLeg = `
	SELECT distance_miles, duration_hours, geometry
	FROM route_cache
	WHERE profile = $1 AND origin = $2 AND destination = $3;
	`

	pgUpsertRouteLeg = `
	INSERT INTO route_cache (profile, origin, destination, distance_miles, duration_hours, geometry)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (profile, origin, destination) DO UPDATE
	SET distance_miles = EXCLUDED.distance_miles,
		duration_hours = EXCLUDED.duration_hours,
		geometry = EXCLUDED.geometry;
	`
)

// SQLRouteLegCache is the Postgres-backed route leg cache.
type SQLRouteLegCache struct {
	DB *sql.DB
}

func NewSQLRouteLegCache(db *sql.DB) *SQLRouteLegCache {
	return &SQLRouteLegCache{DB: db}
}

func (s *SQLRouteLegCache) Get(
	ctx context.Context,
	profile string,
	from, to domain.Coordinates,
) (_ domain.LegMetrics, _ bool, err error) {
	defer obs.Time(ctx, "route.sql.Get")(&err)

	if s.DB == nil {
		return domain.LegMetrics{}, false, errors.New("route cache: db is nil")
	}

	var leg domain.LegMetrics
	err = s.DB.QueryRowContext(ctx, pgSelectRouteLeg, profile, from.Key(), to.Key()).
		Scan(&leg.DistanceMiles, &leg.DurationHours, &leg.Geometry)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LegMetrics{}, false, nil
	}
	if err != nil {
		return domain.LegMetrics{}, false, fmt.Errorf("get route cache: %w", err)
	}

	return leg, true, nil
}

func (s *SQLRouteLegCache) Put(
	ctx context.Context,
	profile string,
	from, to domain.Coordinates,
	leg domain.LegMetrics,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	_, err := s.DB.ExecContext(ctx, pgUpsertRouteLeg,
		profile, from.Key(), to.Key(), leg.DistanceMiles, leg.DurationHours, leg.Geometry)
	if err != nil {
		return fmt.Errorf("insert route cache %s -> %s: %w", from.Key(), to.Key(), err)
	}

	return nil
}
