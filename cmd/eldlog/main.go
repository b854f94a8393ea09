// Command eldlog prints the daily logs for one trip as JSON without starting the server.
//
// Legs come either from flags (-pickup-miles, -pickup-hours, -dropoff-miles,
// -dropoff-hours) or, when all three locations are given, from OpenRouteService
// using ORS_API_KEY.
package main

import (
	"context"
	"eld-log-service/internal/adapters/routing"
	"eld-log-service/internal/config"
	"eld-log-service/internal/domain"
	"eld-log-service/internal/platform/logging"
	"eld-log-service/internal/services"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"
)

type options struct {
	current, pickup, dropoff   string
	pickupMiles, pickupHours   float64
	dropoffMiles, dropoffHours float64
	cycleUsed                  float64
	date                       string
	maxDays                    int
}

func main() {
	config.LoadDotEnv()
	logging.Init(os.Stderr, config.Get("LOG_LEVEL", "warn"), "text")

	var o options
	flag.StringVar(&o.current, "current", "", "current location")
	flag.StringVar(&o.pickup, "pickup", "", "pickup location")
	flag.StringVar(&o.dropoff, "dropoff", "", "dropoff location")
	flag.Float64Var(&o.pickupMiles, "pickup-miles", 0, "miles from current location to pickup")
	flag.Float64Var(&o.pickupHours, "pickup-hours", 0, "driving hours from current location to pickup")
	flag.Float64Var(&o.dropoffMiles, "dropoff-miles", 0, "miles from pickup to dropoff")
	flag.Float64Var(&o.dropoffHours, "dropoff-hours", 0, "driving hours from pickup to dropoff")
	flag.Float64Var(&o.cycleUsed, "cycle", 0, "hours already used in the 70-hour cycle")
	flag.StringVar(&o.date, "date", "", "start date YYYY-MM-DD (default today)")
	flag.IntVar(&o.maxDays, "max-days", services.DefaultHOSRules().MaxLogDays, "maximum number of daily logs")
	flag.Parse()

	if err := run(context.Background(), o); err != nil {
		fmt.Fprintln(os.Stderr, "eldlog:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	start := time.Now()
	if o.date != "" {
		d, err := domain.ParseLogDate(o.date)
		if err != nil {
			return err
		}
		start = d
	}

	route, err := buildRoute(ctx, o)
	if err != nil {
		return err
	}

	trip := domain.TripRequest{
		CurrentLocation:  route.PickupLeg().From,
		PickupLocation:   route.PickupLeg().To,
		DropoffLocation:  route.DropoffLeg().To,
		CurrentCycleUsed: o.cycleUsed,
	}
	if err := trip.Validate(); err != nil {
		return err
	}

	rules := services.DefaultHOSRules()
	rules.MaxLogDays = o.maxDays

	logs, err := services.NewSimulator(rules).Generate(route, o.cycleUsed, start)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(logs)
}

func buildRoute(ctx context.Context, o options) (domain.RouteDetails, error) {
	if o.current == "" && o.pickup == "" && o.dropoff == "" {
		if o.pickupHours < 0 || o.dropoffHours < 0 || o.pickupMiles < 0 || o.dropoffMiles < 0 {
			return domain.RouteDetails{}, errors.New("leg miles and hours must not be negative")
		}
		return domain.NewRouteDetails(
			domain.RouteLeg{From: "current", To: "pickup", Distance: o.pickupMiles, Duration: o.pickupHours},
			domain.RouteLeg{From: "pickup", To: "dropoff", Distance: o.dropoffMiles, Duration: o.dropoffHours},
		), nil
	}

	provider, err := routing.NewORSProvider(routing.ORSConfig{
		APIKey:  config.Get("ORS_API_KEY", ""),
		BaseURL: config.Get("ORS_BASE_URL", ""),
		Profile: config.Get("ORS_PROFILE", ""),
	}, nil, nil, nil)
	if err != nil {
		return domain.RouteDetails{}, err
	}

	trip := domain.TripRequest{
		CurrentLocation: o.current,
		PickupLocation:  o.pickup,
		DropoffLocation: o.dropoff,
	}.Normalize()
	if err := trip.Validate(); err != nil {
		return domain.RouteDetails{}, err
	}

	return services.CalculateRoute(ctx, trip, provider)
}
