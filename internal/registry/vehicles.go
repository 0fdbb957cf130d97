package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/autowerk/planner/internal/model"
)

// Vehicles is the owned table of vehicles, keyed by license plate.
type Vehicles struct {
	mu       sync.Mutex
	vehicles map[string]*model.Vehicle
}

func NewVehicles() *Vehicles {
	return &Vehicles{vehicles: make(map[string]*model.Vehicle)}
}

func (r *Vehicles) Create(plate, brand, vehicleModel string, year int, admission time.Time) (model.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[plate]; ok {
		return model.Vehicle{}, &DuplicateError{Entity: "vehicle", Key: plate}
	}
	v := &model.Vehicle{
		Plate:     plate,
		Brand:     brand,
		Model:     vehicleModel,
		Year:      year,
		Admission: admission,
		History:   make(map[string]struct{}),
	}
	r.vehicles[plate] = v
	return cloneVehicle(v), nil
}

func (r *Vehicles) Get(plate string) (model.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles[plate]
	if !ok {
		return model.Vehicle{}, &NotFoundError{Entity: "vehicle", Key: plate}
	}
	return cloneVehicle(v), nil
}

// Replate rekeys the vehicle. The new plate must be free.
func (r *Vehicles) Replate(plate, newPlate string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles[plate]
	if !ok {
		return &NotFoundError{Entity: "vehicle", Key: plate}
	}
	if _, taken := r.vehicles[newPlate]; taken {
		return &DuplicateError{Entity: "vehicle", Key: newPlate}
	}
	delete(r.vehicles, plate)
	v.Plate = newPlate
	r.vehicles[newPlate] = v
	return nil
}

func (r *Vehicles) Remove(plate string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[plate]; !ok {
		return &NotFoundError{Entity: "vehicle", Key: plate}
	}
	delete(r.vehicles, plate)
	return nil
}

// RecordHistory adds a finished working appointment id to the vehicle's
// history. Adding an id twice is a no-op, which keeps the lazy backfill
// idempotent.
func (r *Vehicles) RecordHistory(plate, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles[plate]
	if !ok {
		return &NotFoundError{Entity: "vehicle", Key: plate}
	}
	v.History[appointmentID] = struct{}{}
	return nil
}

func (r *Vehicles) List() []model.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, cloneVehicle(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	return out
}

func cloneVehicle(v *model.Vehicle) model.Vehicle {
	clone := *v
	clone.History = make(map[string]struct{}, len(v.History))
	for id := range v.History {
		clone.History[id] = struct{}{}
	}
	return clone
}
