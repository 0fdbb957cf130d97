package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/autowerk/planner/internal/availability"
	"github.com/autowerk/planner/internal/httpx"
	"github.com/autowerk/planner/internal/model"
	"github.com/autowerk/planner/internal/planner"
)

type AppointmentHandler struct {
	planner *planner.Planner
	logger  *slog.Logger
}

func NewAppointmentHandler(p *planner.Planner, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{planner: p, logger: logger}
}

// created records metrics and writes the response for a successful creation.
func (h *AppointmentHandler) created(w http.ResponseWriter, a model.Appointment) {
	httpx.AppointmentsCreated.WithLabelValues(string(a.Kind)).Inc()
	writeJSON(w, http.StatusCreated, toAppointmentResponse(a))
}

func (h *AppointmentHandler) rejectOrError(w http.ResponseWriter, err error) {
	var conflict *availability.Conflict
	if errors.As(err, &conflict) {
		httpx.AppointmentsRejected.WithLabelValues(string(conflict.Resource)).Inc()
	}
	writeDomainError(w, h.logger, err)
}

type createWorkingRequest struct {
	WorkItemIDs  []string `json:"work_item_ids"`
	CustomerID   string   `json:"customer_id"`
	VehiclePlate string   `json:"vehicle_plate"`
	PlatformID   string   `json:"platform_id"`
	Begin        string   `json:"begin"`
	Mechanic     string   `json:"mechanic"`
}

func (h *AppointmentHandler) CreateWorking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req createWorkingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.VehiclePlate = strings.TrimSpace(req.VehiclePlate)
	req.PlatformID = strings.TrimSpace(req.PlatformID)
	req.Mechanic = strings.TrimSpace(req.Mechanic)
	if req.CustomerID == "" || req.VehiclePlate == "" || req.PlatformID == "" || req.Mechanic == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	begin, err := parseTime(req.Begin)
	if err != nil {
		http.Error(w, "invalid begin", http.StatusBadRequest)
		return
	}

	a, err := h.planner.CreateWorking(req.WorkItemIDs, req.CustomerID, req.VehiclePlate, req.PlatformID, begin, req.Mechanic)
	if err != nil {
		h.rejectOrError(w, err)
		return
	}
	h.created(w, a)
}

type updateWorkingRequest struct {
	ID         string `json:"id"`
	PlatformID string `json:"platform_id"`
	Begin      string `json:"begin"`
}

func (h *AppointmentHandler) UpdateWorking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req updateWorkingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	req.PlatformID = strings.TrimSpace(req.PlatformID)
	if req.ID == "" || req.PlatformID == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	begin, err := parseTime(req.Begin)
	if err != nil {
		http.Error(w, "invalid begin", http.StatusBadRequest)
		return
	}

	a, err := h.planner.UpdateWorking(req.ID, req.PlatformID, begin)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(a))
}

type setStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (h *AppointmentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	a, err := h.planner.SetWorkingStatus(req.ID, model.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(a))
}

type createConsultingRequest struct {
	CustomerID      string `json:"customer_id"`
	DurationMinutes int    `json:"duration_minutes"`
	Begin           string `json:"begin"`
	Advisor         string `json:"advisor"`
}

func (h *AppointmentHandler) CreateConsulting(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req createConsultingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.Advisor = strings.TrimSpace(req.Advisor)
	if req.CustomerID == "" || req.Advisor == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	begin, err := parseTime(req.Begin)
	if err != nil {
		http.Error(w, "invalid begin", http.StatusBadRequest)
		return
	}

	a, err := h.planner.CreateConsulting(req.CustomerID, time.Duration(req.DurationMinutes)*time.Minute, begin, req.Advisor)
	if err != nil {
		h.rejectOrError(w, err)
		return
	}
	h.created(w, a)
}

type updateConsultingRequest struct {
	ID              string `json:"id"`
	DurationMinutes int    `json:"duration_minutes"`
	Begin           string `json:"begin"`
}

func (h *AppointmentHandler) UpdateConsulting(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req updateConsultingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	begin, err := parseTime(req.Begin)
	if err != nil {
		http.Error(w, "invalid begin", http.StatusBadRequest)
		return
	}

	a, err := h.planner.UpdateConsulting(req.ID, time.Duration(req.DurationMinutes)*time.Minute, begin)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(a))
}

type createCleaningRequest struct {
	Kind       string `json:"kind"`
	PlatformID string `json:"platform_id"`
	Begin      string `json:"begin"`
	Dispatcher string `json:"dispatcher"`
}

func (h *AppointmentHandler) CreateCleaning(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req createCleaningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.PlatformID = strings.TrimSpace(req.PlatformID)
	req.Dispatcher = strings.TrimSpace(req.Dispatcher)
	if req.PlatformID == "" || req.Dispatcher == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	begin, err := parseTime(req.Begin)
	if err != nil {
		http.Error(w, "invalid begin", http.StatusBadRequest)
		return
	}

	a, err := h.planner.CreateCleaning(model.CleaningKind(strings.TrimSpace(req.Kind)), req.PlatformID, begin, req.Dispatcher)
	if err != nil {
		h.rejectOrError(w, err)
		return
	}
	h.created(w, a)
}

type updateCleaningRequest struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	PlatformID string `json:"platform_id"`
	Begin      string `json:"begin"`
}

func (h *AppointmentHandler) UpdateCleaning(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req updateCleaningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	req.PlatformID = strings.TrimSpace(req.PlatformID)
	if req.ID == "" || req.PlatformID == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	begin, err := parseTime(req.Begin)
	if err != nil {
		http.Error(w, "invalid begin", http.StatusBadRequest)
		return
	}

	a, err := h.planner.UpdateCleaning(req.ID, model.CleaningKind(strings.TrimSpace(req.Kind)), req.PlatformID, begin)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(a))
}

type nextCleaningRequest struct {
	Kind       string `json:"kind"`
	PlatformID string `json:"platform_id"`
	Dispatcher string `json:"dispatcher"`
}

func (h *AppointmentHandler) NextCleaning(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req nextCleaningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.PlatformID = strings.TrimSpace(req.PlatformID)
	req.Dispatcher = strings.TrimSpace(req.Dispatcher)
	if req.PlatformID == "" || req.Dispatcher == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	a, err := h.planner.ScheduleNextCleaning(model.CleaningKind(strings.TrimSpace(req.Kind)), req.PlatformID, req.Dispatcher)
	if err != nil {
		h.rejectOrError(w, err)
		return
	}
	h.created(w, a)
}

type removeRequest struct {
	ID string `json:"id"`
}

func (h *AppointmentHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	if err := h.planner.Remove(req.ID); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID, "removed": "true"})
}

// List returns all appointments sorted by begin; ?week=N narrows the result
// to the ISO week number.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if raw := r.URL.Query().Get("week"); raw != "" {
		week, err := strconv.Atoi(raw)
		if err != nil || week < 1 || week > 53 {
			http.Error(w, "invalid week", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentList(h.planner.WeekOverview(week)))
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentList(h.planner.All()))
}

func (h *AppointmentHandler) Kind(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	kind, err := h.planner.KindOf(id)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "kind": string(kind)})
}

func (h *AppointmentHandler) YesterdayFinished(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentList(h.planner.YesterdayFinished()))
}

func (h *AppointmentHandler) TodayOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	mechanic := strings.TrimSpace(r.URL.Query().Get("mechanic"))
	if mechanic == "" {
		http.Error(w, "mechanic is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentList(h.planner.TodayOpenFor(mechanic)))
}

type vehicleHistoryResponse struct {
	Plate   string                `json:"plate"`
	Message string                `json:"message,omitempty"`
	History []appointmentResponse `json:"history"`
}

// VehicleHistory reports the vehicle's finished work. A vehicle without any
// appointments, or without finished ones, gets a message instead of an error.
func (h *AppointmentHandler) VehicleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	plate := strings.TrimSpace(r.URL.Query().Get("plate"))
	if plate == "" {
		http.Error(w, "plate is required", http.StatusBadRequest)
		return
	}
	history, err := h.planner.VehicleHistory(plate)
	if err != nil {
		if errors.Is(err, planner.ErrNoVehicleAppointments) || errors.Is(err, planner.ErrNoFinishedAppointments) {
			writeJSON(w, http.StatusOK, vehicleHistoryResponse{
				Plate:   plate,
				Message: err.Error(),
				History: []appointmentResponse{},
			})
			return
		}
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleHistoryResponse{Plate: plate, History: toAppointmentList(history)})
}
