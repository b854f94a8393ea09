package dto

import (
	"eld-log-service/internal/domain"
	"encoding/json"
	"time"
)

type PlanTripRequest struct {
	CurrentLocation string `json:"current_location"`
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
	// Pointer so a missing value is distinguishable from zero hours.
	CurrentCycleUsed *float64 `json:"current_cycle_used"`
}

func (r PlanTripRequest) Trip() domain.TripRequest {
	var cycle float64
	if r.CurrentCycleUsed != nil {
		cycle = *r.CurrentCycleUsed
	}
	return domain.TripRequest{
		CurrentLocation:  r.CurrentLocation,
		PickupLocation:   r.PickupLocation,
		DropoffLocation:  r.DropoffLocation,
		CurrentCycleUsed: cycle,
	}
}

type PlanTripResponse struct {
	TripID       int64               `json:"trip_id"`
	RouteDetails domain.RouteDetails `json:"route_details"`
	LogSheets    []domain.DailyLog   `json:"log_sheets"`
}

type LogSheetResponse struct {
	Date    string          `json:"date"`
	LogData json.RawMessage `json:"log_data"`
}

type TripResponse struct {
	TripID           int64              `json:"trip_id"`
	CurrentLocation  string             `json:"current_location"`
	PickupLocation   string             `json:"pickup_location"`
	DropoffLocation  string             `json:"dropoff_location"`
	CurrentCycleUsed float64            `json:"current_cycle_used"`
	CreatedAt        time.Time          `json:"created_at"`
	LogSheets        []LogSheetResponse `json:"log_sheets"`
}
