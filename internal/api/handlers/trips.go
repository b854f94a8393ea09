package handlers

import (
	"eld-log-service/internal/api/dto"
	"eld-log-service/internal/domain"
	"eld-log-service/internal/platform/clock"
	"eld-log-service/internal/platform/metrics"
	"eld-log-service/internal/platform/obs"
	"eld-log-service/internal/ports"
	"eld-log-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
)

const maxBodyBytes = 64 << 10

type TripHandler struct {
	Provider  ports.RoutingProvider
	Repo      ports.TripRepository
	Simulator *services.Simulator
	Clock     clock.Clock
	Metrics   *metrics.Metrics
}

// Plan validates a trip request, computes its route and daily logs, and stores them.
func (h *TripHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanTripRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.CurrentCycleUsed == nil {
		h.Metrics.ObserveTrip("invalid", 0)
		writeError(w, r, http.StatusBadRequest, "current_cycle_used is required")
		return
	}
	trip := req.Trip().Normalize()
	if err := trip.Validate(); err != nil {
		h.Metrics.ObserveTrip("invalid", 0)
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	planned, err := services.PlanTrip(
		r.Context(),
		services.PlanTripRequest{Trip: trip, Now: h.Clock.Now()},
		h.Provider, h.Repo, h.Simulator,
	)
	if err != nil {
		status, outcome, msg := planFailure(err)
		h.Metrics.ObserveTrip(outcome, 0)
		if status == http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "plan trip failed", "req_id", obs.RequestID(r.Context()), "err", err)
		} else {
			slog.WarnContext(r.Context(), "plan trip rejected", "req_id", obs.RequestID(r.Context()), "err", err)
		}
		writeError(w, r, status, msg)
		return
	}

	h.Metrics.ObserveTrip("ok", len(planned.Logs.LogSheets))
	writeJSON(w, r, http.StatusCreated, dto.PlanTripResponse{
		TripID:       planned.TripID,
		RouteDetails: planned.Logs.RouteDetails,
		LogSheets:    planned.Logs.LogSheets,
	})
}

// planFailure maps a plan error to its HTTP status, metrics outcome and client message.
func planFailure(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidTrip):
		return http.StatusBadRequest, "invalid", err.Error()
	case errors.Is(err, domain.ErrGeocodingFailure):
		return http.StatusUnprocessableEntity, "geocoding_failure", domain.ErrGeocodingFailure.Error()
	case errors.Is(err, domain.ErrRoutingFailure):
		return http.StatusBadGateway, "routing_failure", domain.ErrRoutingFailure.Error()
	case errors.Is(err, services.ErrLogDayLimit):
		return http.StatusUnprocessableEntity, "log_day_limit", "trip needs more daily logs than allowed"
	default:
		return http.StatusInternalServerError, "error", "internal server error"
	}
}

// Get returns a stored trip with its log sheets exactly as they were generated.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, r, http.StatusBadRequest, "trip id must be a positive integer")
		return
	}

	rec, err := h.Repo.GetTrip(r.Context(), id)
	if errors.Is(err, domain.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "get trip failed", "req_id", obs.RequestID(r.Context()), "trip_id", id, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.TripResponse{
		TripID:           rec.ID,
		CurrentLocation:  rec.Request.CurrentLocation,
		PickupLocation:   rec.Request.PickupLocation,
		DropoffLocation:  rec.Request.DropoffLocation,
		CurrentCycleUsed: rec.Request.CurrentCycleUsed,
		CreatedAt:        rec.CreatedAt,
		LogSheets:        make([]dto.LogSheetResponse, 0, len(rec.LogSheets)),
	}
	for _, s := range rec.LogSheets {
		res.LogSheets = append(res.LogSheets, dto.LogSheetResponse{Date: s.Date, LogData: s.LogData})
	}

	writeJSON(w, r, http.StatusOK, res)
}
