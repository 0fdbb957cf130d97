package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/autowerk/planner/internal/model"
	"github.com/autowerk/planner/internal/planner"
)

// RegistryHandler exposes creation and listing over the identity registries.
type RegistryHandler struct {
	reg    planner.Registries
	logger *slog.Logger
}

func NewRegistryHandler(reg planner.Registries, logger *slog.Logger) *RegistryHandler {
	return &RegistryHandler{reg: reg, logger: logger}
}

type workItemResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (h *RegistryHandler) WorkItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items := h.reg.WorkItems.List()
		out := make([]workItemResponse, 0, len(items))
		for _, item := range items {
			out = append(out, workItemResponse{ID: item.ID, Name: item.Name, DurationMinutes: int(item.Duration.Minutes())})
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req struct {
			Name            string `json:"name"`
			DurationMinutes int    `json:"duration_minutes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || req.DurationMinutes <= 0 {
			http.Error(w, "name and a positive duration are required", http.StatusBadRequest)
			return
		}
		item, err := h.reg.WorkItems.Create(req.Name, time.Duration(req.DurationMinutes)*time.Minute)
		if err != nil {
			writeDomainError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, workItemResponse{ID: item.ID, Name: item.Name, DurationMinutes: int(item.Duration.Minutes())})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type platformResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *RegistryHandler) Platforms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		platforms := h.reg.Platforms.List()
		out := make([]platformResponse, 0, len(platforms))
		for _, p := range platforms {
			out = append(out, platformResponse{ID: p.ID, Name: p.Name})
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		platform, err := h.reg.Platforms.Create(req.Name)
		if err != nil {
			writeDomainError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, platformResponse{ID: platform.ID, Name: platform.Name})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type userResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName, Role: string(u.Role)}
}

func (h *RegistryHandler) Users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		users := h.reg.Users.List()
		out := make([]userResponse, 0, len(users))
		for _, u := range users {
			out = append(out, toUserResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req struct {
			Username  string `json:"username"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Role      string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		role := model.Role(strings.TrimSpace(req.Role))
		if req.Username == "" || !role.Valid() {
			http.Error(w, "username and a valid role are required", http.StatusBadRequest)
			return
		}
		user, err := h.reg.Users.Create(req.Username, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), role)
		if err != nil {
			writeDomainError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, toUserResponse(user))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type customerResponse struct {
	ID          string   `json:"id"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Street      string   `json:"street"`
	HouseNumber int      `json:"house_number"`
	PostalCode  int      `json:"postal_code"`
	City        string   `json:"city"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Vehicles    []string `json:"vehicles"`
}

func toCustomerResponse(c model.Customer) customerResponse {
	plates := make([]string, 0, len(c.Vehicles))
	for plate := range c.Vehicles {
		plates = append(plates, plate)
	}
	return customerResponse{
		ID: c.ID, FirstName: c.FirstName, LastName: c.LastName,
		Street: c.Street, HouseNumber: c.HouseNumber, PostalCode: c.PostalCode, City: c.City,
		Phone: c.Phone, Email: c.Email, Vehicles: plates,
	}
}

func (h *RegistryHandler) Customers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		customers := h.reg.Customers.List()
		out := make([]customerResponse, 0, len(customers))
		for _, c := range customers {
			out = append(out, toCustomerResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req struct {
			FirstName   string `json:"first_name"`
			LastName    string `json:"last_name"`
			Street      string `json:"street"`
			HouseNumber int    `json:"house_number"`
			PostalCode  int    `json:"postal_code"`
			City        string `json:"city"`
			Phone       string `json:"phone"`
			Email       string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.FirstName = strings.TrimSpace(req.FirstName)
		req.LastName = strings.TrimSpace(req.LastName)
		if req.FirstName == "" || req.LastName == "" {
			http.Error(w, "first_name and last_name are required", http.StatusBadRequest)
			return
		}
		customer, err := h.reg.Customers.Create(model.Customer{
			FirstName: req.FirstName, LastName: req.LastName,
			Street: strings.TrimSpace(req.Street), HouseNumber: req.HouseNumber,
			PostalCode: req.PostalCode, City: strings.TrimSpace(req.City),
			Phone: strings.TrimSpace(req.Phone), Email: strings.TrimSpace(req.Email),
		})
		if err != nil {
			writeDomainError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCustomerResponse(customer))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type vehicleResponse struct {
	Plate     string `json:"plate"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Year      int    `json:"year"`
	Admission string `json:"admission"`
}

func toVehicleResponse(v model.Vehicle) vehicleResponse {
	return vehicleResponse{
		Plate: v.Plate, Brand: v.Brand, Model: v.Model, Year: v.Year,
		Admission: v.Admission.Format(dateLayout),
	}
}

func (h *RegistryHandler) Vehicles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		vehicles := h.reg.Vehicles.List()
		out := make([]vehicleResponse, 0, len(vehicles))
		for _, v := range vehicles {
			out = append(out, toVehicleResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req struct {
			Plate     string `json:"plate"`
			Brand     string `json:"brand"`
			Model     string `json:"model"`
			Year      int    `json:"year"`
			Admission string `json:"admission"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.Plate = strings.TrimSpace(req.Plate)
		if req.Plate == "" {
			http.Error(w, "plate is required", http.StatusBadRequest)
			return
		}
		admission, err := time.ParseInLocation(dateLayout, req.Admission, time.Local)
		if err != nil {
			http.Error(w, "invalid admission date", http.StatusBadRequest)
			return
		}
		vehicle, err := h.reg.Vehicles.Create(req.Plate, strings.TrimSpace(req.Brand), strings.TrimSpace(req.Model), req.Year, admission)
		if err != nil {
			writeDomainError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, toVehicleResponse(vehicle))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// LinkVehicle adds a vehicle to a customer's owned set.
func (h *RegistryHandler) LinkVehicle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		CustomerID string `json:"customer_id"`
		Plate      string `json:"plate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.Plate = strings.TrimSpace(req.Plate)
	if req.CustomerID == "" || req.Plate == "" {
		http.Error(w, "customer_id and plate are required", http.StatusBadRequest)
		return
	}
	if err := h.reg.Customers.LinkVehicle(req.CustomerID, req.Plate); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	customer, err := h.reg.Customers.Get(req.CustomerID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}
