package services

import (
	"eld-log-service/internal/domain"
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	ActivityLoading   = "Loading"
	ActivityFueling   = "Fueling"
	ActivityUnloading = "Unloading"
)

// ErrLogDayLimit is returned when a run would keep inserting rest days past HOSRules.MaxLogDays.
var ErrLogDayLimit = errors.New("log day limit exceeded")

// HOSRules holds the hours-of-service limits and fixed stop durations used by the simulator.
// All durations are in hours.
type HOSRules struct {
	MaxDriveHours      float64
	MaxOnDutyHours     float64
	MinRestHours       float64
	MaxCycleHours      float64
	FuelIntervalMiles  float64
	FuelStopHours      float64
	PickupDropoffHours float64
	// ShiftStartHour is the wall-clock hour every simulated duty day starts at.
	ShiftStartHour int
	// MaxLogDays bounds how many daily logs a run may produce through rest insertion.
	// With the bound set, Generate can fail with ErrLogDayLimit instead of emitting an
	// unbounded run of rest-only days. Zero disables the bound and Generate never fails.
	MaxLogDays int
}

// DefaultHOSRules returns the property-carrying driver limits: 11h driving, 14h on duty,
// 10h rest and a 70h/8-day cycle, with a fuel stop every 1000 miles.
func DefaultHOSRules() HOSRules {
	return HOSRules{
		MaxDriveHours:      11,
		MaxOnDutyHours:     14,
		MinRestHours:       10,
		MaxCycleHours:      70,
		FuelIntervalMiles:  1000,
		FuelStopHours:      0.5,
		PickupDropoffHours: 1,
		ShiftStartHour:     8,
		MaxLogDays:         31,
	}
}

// SimulationState is the complete mutable state of one run. It is threaded through
// the simulator by value: every step takes a state and returns the next one, and
// the state passed in must not be used again.
type SimulationState struct {
	// Clock is naive wall-clock time, carried in UTC so no DST shift can move it.
	Clock          time.Time
	RemainingCycle float64
	Day            domain.DailyLog
	Sheets         []domain.DailyLog
}

// TripLogs is the result of a full run.
type TripLogs struct {
	RouteDetails domain.RouteDetails `json:"route_details"`
	LogSheets    []domain.DailyLog   `json:"log_sheets"`
}

// Simulator walks a trip forward in time and produces one DailyLog per calendar day.
// It holds only immutable rules and is safe for concurrent use; each run owns its state.
type Simulator struct {
	rules HOSRules
}

func NewSimulator(rules HOSRules) *Simulator {
	return &Simulator{rules: rules}
}

func (s *Simulator) Rules() HOSRules { return s.rules }

// Start creates the state for a new run: the clock at the shift start on now's
// calendar date, the cycle budget left after cycleUsed hours, and an empty first day.
func (s *Simulator) Start(now time.Time, cycleUsed float64) SimulationState {
	clock := s.shiftStart(now)
	return SimulationState{
		Clock:          clock,
		RemainingCycle: s.rules.MaxCycleHours - cycleUsed,
		Day:            s.BeginDay(clock),
		Sheets:         []domain.DailyLog{},
	}
}

// BeginDay returns a fresh, fully off-duty log for date.
func (s *Simulator) BeginDay(date time.Time) domain.DailyLog {
	return domain.NewDailyLog(date)
}

// FinalizeDay appends the day under construction to the run's output.
func (s *Simulator) FinalizeDay(st SimulationState) SimulationState {
	st.Sheets = append(st.Sheets, st.Day)
	return st
}

// ApplyEvent records hours of status starting at the current clock.
//
// An event that would end on a later calendar day is not split at midnight: the
// current day is finalized and the whole event restarts at the shift start of the
// day it would have ended on.
func (s *Simulator) ApplyEvent(st SimulationState, status domain.DutyStatus, hours float64, activity string) SimulationState {
	d := hoursToDuration(hours)
	start := st.Clock
	end := start.Add(d)

	if !end.Before(domain.StartOfDay(start).AddDate(0, 0, 1)) {
		st = s.FinalizeDay(st)
		st.Day = s.BeginDay(end)
		start = s.shiftStart(end)
		end = start.Add(d)
	}

	st.Day.Record(domain.Event{
		Status:   status,
		Start:    start,
		End:      end,
		Duration: hours,
		Activity: activity,
	})
	st.Clock = end
	return st
}

// ConsumeDriving drives for hours, splitting the time across days as the daily
// driving, daily on-duty and cycle budgets allow. When no budget is left the
// driver takes a sleeper-berth rest at the next day's shift start; landing on a
// Monday restores the full cycle.
func (s *Simulator) ConsumeDriving(st SimulationState, hours float64) (SimulationState, error) {
	r := s.rules
	for hours > 0 {
		available := min(
			r.MaxDriveHours-st.Day.Totals.Get(domain.Driving),
			r.MaxOnDutyHours-st.Day.Totals.Get(domain.OnDuty),
			st.RemainingCycle,
			hours,
		)

		if available <= 0 {
			if r.MaxLogDays > 0 && len(st.Sheets)+2 > r.MaxLogDays {
				return st, fmt.Errorf(
					"consume driving: %w: %.2fh of driving left after %d days",
					ErrLogDayLimit, hours, len(st.Sheets)+1,
				)
			}

			st = s.FinalizeDay(st)
			st.Clock = s.shiftStart(st.Clock).AddDate(0, 0, 1)
			st.Day = s.BeginDay(st.Clock)
			st = s.ApplyEvent(st, domain.SleeperBerth, r.MinRestHours, "")
			if st.Clock.Weekday() == time.Monday {
				st.RemainingCycle = r.MaxCycleHours
			}
			continue
		}

		st = s.ApplyEvent(st, domain.Driving, available, "")
		hours -= available
		st.RemainingCycle -= available
	}

	return st, nil
}

// FuelStops returns how many fuel stops a route of totalMiles needs.
func (s *Simulator) FuelStops(totalMiles float64) int {
	if s.rules.FuelIntervalMiles <= 0 || totalMiles <= 0 {
		return 0
	}
	return int(math.Floor(totalMiles / s.rules.FuelIntervalMiles))
}

// Generate simulates the whole trip starting at the shift start on now's date:
// loading, the pickup leg, the dropoff leg split evenly around fuel stops, and unloading.
func (s *Simulator) Generate(route domain.RouteDetails, cycleUsed float64, now time.Time) (*TripLogs, error) {
	r := s.rules
	st := s.Start(now, cycleUsed)

	st = s.ApplyEvent(st, domain.OnDuty, r.PickupDropoffHours, ActivityLoading)

	st, err := s.ConsumeDriving(st, route.PickupLeg().Duration)
	if err != nil {
		return nil, fmt.Errorf("generate logs: pickup leg: %w", err)
	}

	fuelStops := s.FuelStops(route.TotalDistance)
	segment := route.DropoffLeg().Duration / float64(fuelStops+1)

	for i := 0; i <= fuelStops; i++ {
		st, err = s.ConsumeDriving(st, segment)
		if err != nil {
			return nil, fmt.Errorf("generate logs: dropoff segment %d: %w", i+1, err)
		}
		if i < fuelStops {
			st = s.ApplyEvent(st, domain.OnDuty, r.FuelStopHours, ActivityFueling)
		}
	}

	st = s.ApplyEvent(st, domain.OnDuty, r.PickupDropoffHours, ActivityUnloading)
	st = s.FinalizeDay(st)

	return &TripLogs{RouteDetails: route, LogSheets: st.Sheets}, nil
}

// shiftStart returns ShiftStartHour:00 on t's calendar date as naive UTC wall time.
func (s *Simulator) shiftStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, s.rules.ShiftStartHour, 0, 0, 0, time.UTC)
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(math.Round(hours * float64(time.Hour)))
}
