// Package handlers is the REST shell over the planner and the registries.
// Handlers decode, trim and validate input, call into the domain and
// translate domain errors to HTTP statuses.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/autowerk/planner/internal/availability"
	"github.com/autowerk/planner/internal/model"
	"github.com/autowerk/planner/internal/planner"
	"github.com/autowerk/planner/internal/registry"
)

// Wire format for timestamps. The domain is timezone-naive; wall-clock
// strings are interpreted in the server's local zone.
const (
	timeLayout = "2006-01-02T15:04"
	dateLayout = "2006-01-02"
)

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.Local)
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeDomainError maps the error taxonomy to HTTP statuses: unknown
// references 404, uniqueness and calendar conflicts 409, wrong-kind 409,
// role and ownership violations 422, malformed input 400. Anything outside
// the taxonomy becomes an opaque 500, so the real error is logged.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var conflict *availability.Conflict
	switch {
	case registry.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case registry.IsDuplicate(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case planner.IsWrongKind(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case planner.IsRoleMismatch(err), planner.IsOwnership(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case planner.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		logger.Error("unhandled domain error", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

type workingPayload struct {
	PlatformID      string   `json:"platform_id"`
	CustomerID      string   `json:"customer_id"`
	VehiclePlate    string   `json:"vehicle_plate"`
	WorkItemIDs     []string `json:"work_item_ids"`
	Mechanic        string   `json:"mechanic"`
	DurationMinutes int      `json:"duration_minutes"`
	Status          string   `json:"status"`
}

type consultingPayload struct {
	CustomerID      string `json:"customer_id"`
	DurationMinutes int    `json:"duration_minutes"`
	Advisor         string `json:"advisor"`
}

type cleaningPayload struct {
	PlatformID string `json:"platform_id"`
	Cleaning   string `json:"cleaning"`
	Dispatcher string `json:"dispatcher"`
}

type appointmentResponse struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	Begin      string             `json:"begin"`
	End        string             `json:"end"`
	Working    *workingPayload    `json:"working,omitempty"`
	Consulting *consultingPayload `json:"consulting,omitempty"`
	Cleaning   *cleaningPayload   `json:"cleaning,omitempty"`
}

func toAppointmentResponse(a model.Appointment) appointmentResponse {
	resp := appointmentResponse{
		ID:    a.ID,
		Kind:  string(a.Kind),
		Begin: formatTime(a.Begin),
		End:   formatTime(a.End),
	}
	switch a.Kind {
	case model.KindWorking:
		resp.Working = &workingPayload{
			PlatformID:      a.Working.PlatformID,
			CustomerID:      a.Working.CustomerID,
			VehiclePlate:    a.Working.VehiclePlate,
			WorkItemIDs:     a.Working.WorkItemIDs,
			Mechanic:        a.Working.Mechanic,
			DurationMinutes: int(a.Working.Duration.Minutes()),
			Status:          string(a.Working.Status),
		}
	case model.KindConsulting:
		resp.Consulting = &consultingPayload{
			CustomerID:      a.Consulting.CustomerID,
			DurationMinutes: int(a.Consulting.Duration.Minutes()),
			Advisor:         a.Consulting.Advisor,
		}
	case model.KindCleaning:
		resp.Cleaning = &cleaningPayload{
			PlatformID: a.Cleaning.PlatformID,
			Cleaning:   string(a.Cleaning.Cleaning),
			Dispatcher: a.Cleaning.Dispatcher,
		}
	}
	return resp
}

func toAppointmentList(appts []model.Appointment) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointmentResponse(a))
	}
	return out
}
