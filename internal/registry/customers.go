package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/autowerk/planner/internal/model"
)

// Customers is the owned table of customers, keyed by generated id
// ("C-1", "C-2", ...). A customer links vehicles by license plate; the
// vehicle records themselves belong to the vehicle registry.
type Customers struct {
	mu        sync.Mutex
	nextID    int
	customers map[string]*model.Customer
	vehicles  *Vehicles
}

func NewCustomers(vehicles *Vehicles) *Customers {
	return &Customers{nextID: 1, customers: make(map[string]*model.Customer), vehicles: vehicles}
}

// Identity+address is the duplicate key: same name at the same address is
// rejected, matching contact details alone are fine.
func (r *Customers) identityTakenLocked(c *model.Customer) bool {
	for _, existing := range r.customers {
		if existing.FirstName == c.FirstName && existing.LastName == c.LastName &&
			existing.Street == c.Street && existing.HouseNumber == c.HouseNumber &&
			existing.PostalCode == c.PostalCode && existing.City == c.City {
			return true
		}
	}
	return false
}

func (r *Customers) Create(c model.Customer) (model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.identityTakenLocked(&c) {
		return model.Customer{}, &DuplicateError{Entity: "customer", Key: c.FullName()}
	}
	c.ID = fmt.Sprintf("C-%d", r.nextID)
	c.Vehicles = make(map[string]struct{})
	r.nextID++
	r.customers[c.ID] = &c
	return cloneCustomer(&c), nil
}

func (r *Customers) Get(id string) (model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[id]
	if !ok {
		return model.Customer{}, &NotFoundError{Entity: "customer", Key: id}
	}
	return cloneCustomer(c), nil
}

// Update replaces name, address and contact in one call. The id and the
// linked vehicles are untouched; the updated record's Vehicles field is
// ignored.
func (r *Customers) Update(id string, updated model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[id]
	if !ok {
		return &NotFoundError{Entity: "customer", Key: id}
	}
	c.FirstName = updated.FirstName
	c.LastName = updated.LastName
	c.Street = updated.Street
	c.HouseNumber = updated.HouseNumber
	c.PostalCode = updated.PostalCode
	c.City = updated.City
	c.Phone = updated.Phone
	c.Email = updated.Email
	return nil
}

func (r *Customers) UpdateName(id, firstName, lastName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[id]
	if !ok {
		return &NotFoundError{Entity: "customer", Key: id}
	}
	c.FirstName = firstName
	c.LastName = lastName
	return nil
}

func (r *Customers) UpdateAddress(id, street string, houseNumber, postalCode int, city string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[id]
	if !ok {
		return &NotFoundError{Entity: "customer", Key: id}
	}
	c.Street = street
	c.HouseNumber = houseNumber
	c.PostalCode = postalCode
	c.City = city
	return nil
}

func (r *Customers) UpdateContact(id, phone, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[id]
	if !ok {
		return &NotFoundError{Entity: "customer", Key: id}
	}
	c.Phone = phone
	c.Email = email
	return nil
}

func (r *Customers) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[id]; !ok {
		return &NotFoundError{Entity: "customer", Key: id}
	}
	delete(r.customers, id)
	return nil
}

// LinkVehicle adds an existing vehicle to the customer's set. Linking an
// already-linked vehicle is a duplicate error.
func (r *Customers) LinkVehicle(id, plate string) error {
	if _, err := r.vehicles.Get(plate); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[id]
	if !ok {
		return &NotFoundError{Entity: "customer", Key: id}
	}
	if _, linked := c.Vehicles[plate]; linked {
		return &DuplicateError{Entity: "vehicle link", Key: plate}
	}
	c.Vehicles[plate] = struct{}{}
	return nil
}

func (r *Customers) UnlinkVehicle(id, plate string) error {
	if _, err := r.vehicles.Get(plate); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[id]
	if !ok {
		return &NotFoundError{Entity: "customer", Key: id}
	}
	delete(c.Vehicles, plate)
	return nil
}

// VehiclesOf resolves the customer's linked vehicles. An unknown customer
// yields an empty slice.
func (r *Customers) VehiclesOf(id string) []model.Vehicle {
	r.mu.Lock()
	c, ok := r.customers[id]
	var plates []string
	if ok {
		for plate := range c.Vehicles {
			plates = append(plates, plate)
		}
	}
	r.mu.Unlock()

	sort.Strings(plates)
	out := make([]model.Vehicle, 0, len(plates))
	for _, plate := range plates {
		if v, err := r.vehicles.Get(plate); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func (r *Customers) List() []model.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, cloneCustomer(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cloneCustomer(c *model.Customer) model.Customer {
	clone := *c
	clone.Vehicles = make(map[string]struct{}, len(c.Vehicles))
	for plate := range c.Vehicles {
		clone.Vehicles[plate] = struct{}{}
	}
	return clone
}
