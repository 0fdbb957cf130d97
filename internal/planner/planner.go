// Package planner implements the scheduling operations over the calendar:
// appointment creation with availability checking, the working-appointment
// status machine, updates, removal, queries and the slot suggestion engine.
// One mutex serializes every operation so that an availability check and the
// insertion it guards are a single critical section.
package planner

import (
	"log/slog"
	"sync"
	"time"

	"github.com/autowerk/planner/internal/availability"
	"github.com/autowerk/planner/internal/calendar"
	"github.com/autowerk/planner/internal/model"
	"github.com/autowerk/planner/internal/registry"
)

// Registries bundles the lookup collaborators the planner validates
// references against. All are injected; the planner owns none of them.
type Registries struct {
	WorkItems *registry.WorkItems
	Platforms *registry.Platforms
	Users     *registry.Users
	Customers *registry.Customers
	Vehicles  *registry.Vehicles
}

type Planner struct {
	mu  sync.Mutex
	cal *calendar.Store
	reg Registries
	log *slog.Logger
	now func() time.Time
}

func New(log *slog.Logger, cal *calendar.Store, reg Registries) *Planner {
	return &Planner{cal: cal, reg: reg, log: log, now: time.Now}
}

// CreateWorking validates every reference, checks availability against all
// working and cleaning appointments, and inserts with status OPEN. Duration
// is the sum of the work item durations.
func (p *Planner) CreateWorking(workItemIDs []string, customerID, plate, platformID string, begin time.Time, mechanic string) (model.Appointment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(workItemIDs) == 0 {
		return model.Appointment{}, ErrNoWorkItems
	}
	if begin.IsZero() {
		return model.Appointment{}, ErrMissingBegin
	}
	var duration time.Duration
	for _, id := range workItemIDs {
		item, err := p.reg.WorkItems.Get(id)
		if err != nil {
			return model.Appointment{}, err
		}
		duration += item.Duration
	}
	customer, err := p.reg.Customers.Get(customerID)
	if err != nil {
		return model.Appointment{}, err
	}
	if _, err := p.reg.Vehicles.Get(plate); err != nil {
		return model.Appointment{}, err
	}
	if !customer.OwnsVehicle(plate) {
		return model.Appointment{}, &OwnershipError{CustomerID: customerID, Plate: plate}
	}
	if _, err := p.reg.Platforms.Get(platformID); err != nil {
		return model.Appointment{}, err
	}
	if _, err := p.requireRole(mechanic, model.RoleCarMechanic); err != nil {
		return model.Appointment{}, err
	}

	candidate := model.NewWorking(p.cal.NextID(), begin, model.WorkingDetails{
		PlatformID:   platformID,
		CustomerID:   customerID,
		VehiclePlate: plate,
		WorkItemIDs:  append([]string(nil), workItemIDs...),
		Mechanic:     mechanic,
		Duration:     duration,
	})
	existing := append(p.cal.AllOfKind(model.KindWorking), p.cal.AllOfKind(model.KindCleaning)...)
	if c := availability.Check(candidate, existing); c != nil {
		p.log.Info("working appointment rejected", "begin", begin, "conflict_with", c.With, "resource", c.Resource)
		return model.Appointment{}, c
	}
	p.cal.Add(candidate)
	p.log.Info("working appointment created", "id", candidate.ID, "platform", platformID, "mechanic", mechanic)
	return candidate.Clone(), nil
}

func (p *Planner) CreateConsulting(customerID string, duration time.Duration, begin time.Time, advisor string) (model.Appointment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if duration <= 0 {
		return model.Appointment{}, ErrNonPositiveDuration
	}
	if begin.IsZero() {
		return model.Appointment{}, ErrMissingBegin
	}
	if _, err := p.reg.Customers.Get(customerID); err != nil {
		return model.Appointment{}, err
	}
	if _, err := p.requireRole(advisor, model.RoleClientAdvisor); err != nil {
		return model.Appointment{}, err
	}

	candidate := model.NewConsulting(p.cal.NextID(), begin, model.ConsultingDetails{
		CustomerID: customerID,
		Duration:   duration,
		Advisor:    advisor,
	})
	if c := availability.Check(candidate, p.cal.AllOfKind(model.KindConsulting)); c != nil {
		p.log.Info("consulting appointment rejected", "begin", begin, "conflict_with", c.With, "resource", c.Resource)
		return model.Appointment{}, c
	}
	p.cal.Add(candidate)
	p.log.Info("consulting appointment created", "id", candidate.ID, "advisor", advisor)
	return candidate.Clone(), nil
}

func (p *Planner) CreateCleaning(kind model.CleaningKind, platformID string, begin time.Time, dispatcher string) (model.Appointment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.createCleaningLocked(kind, platformID, begin, dispatcher)
}

func (p *Planner) createCleaningLocked(kind model.CleaningKind, platformID string, begin time.Time, dispatcher string) (model.Appointment, error) {
	if !kind.Valid() {
		return model.Appointment{}, ErrInvalidCleaningKind
	}
	if begin.IsZero() {
		return model.Appointment{}, ErrMissingBegin
	}
	if _, err := p.reg.Platforms.Get(platformID); err != nil {
		return model.Appointment{}, err
	}
	if _, err := p.requireRole(dispatcher, model.RoleDispatcher); err != nil {
		return model.Appointment{}, err
	}

	candidate := model.NewCleaning(p.cal.NextID(), begin, model.CleaningDetails{
		PlatformID: platformID,
		Cleaning:   kind,
		Dispatcher: dispatcher,
	})
	existing := append(p.cal.AllOfKind(model.KindCleaning), p.cal.AllOfKind(model.KindWorking)...)
	if c := availability.Check(candidate, existing); c != nil {
		p.log.Info("cleaning appointment rejected", "begin", begin, "conflict_with", c.With, "resource", c.Resource)
		return model.Appointment{}, c
	}
	p.cal.Add(candidate)
	p.log.Info("cleaning appointment created", "id", candidate.ID, "platform", platformID, "dispatcher", dispatcher)
	return candidate.Clone(), nil
}

// UpdateWorking moves the appointment to another platform and begin time.
// Updates do not re-run the availability check; only creation validates
// against the calendar.
func (p *Planner) UpdateWorking(id, platformID string, begin time.Time) (model.Appointment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, err := p.getKindLocked(id, model.KindWorking)
	if err != nil {
		return model.Appointment{}, err
	}
	if begin.IsZero() {
		return model.Appointment{}, ErrMissingBegin
	}
	if _, err := p.reg.Platforms.Get(platformID); err != nil {
		return model.Appointment{}, err
	}
	a.Working.PlatformID = platformID
	a.Reschedule(begin)
	return a.Clone(), nil
}

func (p *Planner) UpdateConsulting(id string, duration time.Duration, begin time.Time) (model.Appointment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, err := p.getKindLocked(id, model.KindConsulting)
	if err != nil {
		return model.Appointment{}, err
	}
	if duration <= 0 {
		return model.Appointment{}, ErrNonPositiveDuration
	}
	if begin.IsZero() {
		return model.Appointment{}, ErrMissingBegin
	}
	a.Reschedule(begin)
	a.SetConsultingDuration(duration)
	return a.Clone(), nil
}

func (p *Planner) UpdateCleaning(id string, kind model.CleaningKind, platformID string, begin time.Time) (model.Appointment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, err := p.getKindLocked(id, model.KindCleaning)
	if err != nil {
		return model.Appointment{}, err
	}
	if !kind.Valid() {
		return model.Appointment{}, ErrInvalidCleaningKind
	}
	if begin.IsZero() {
		return model.Appointment{}, ErrMissingBegin
	}
	if _, err := p.reg.Platforms.Get(platformID); err != nil {
		return model.Appointment{}, err
	}
	a.Cleaning.PlatformID = platformID
	a.Reschedule(begin)
	a.SetCleaningKind(kind)
	return a.Clone(), nil
}

func (p *Planner) Remove(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cal.Remove(id) {
		return &registry.NotFoundError{Entity: "appointment", Key: id}
	}
	p.log.Info("appointment removed", "id", id)
	return nil
}

// SetWorkingStatus moves a working appointment to any of the three statuses.
// Every transition is allowed, including back to OPEN.
func (p *Planner) SetWorkingStatus(id string, status model.Status) (model.Appointment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !status.Valid() {
		return model.Appointment{}, ErrInvalidStatus
	}
	a, err := p.getKindLocked(id, model.KindWorking)
	if err != nil {
		return model.Appointment{}, err
	}
	a.Working.Status = status
	p.log.Info("working appointment status set", "id", id, "status", status)
	return a.Clone(), nil
}

// KindOf reports which kind the identifier refers to.
func (p *Planner) KindOf(id string) (model.Kind, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, ok := p.cal.Get(id)
	if !ok {
		return "", &registry.NotFoundError{Entity: "appointment", Key: id}
	}
	return a.Kind, nil
}

func (p *Planner) requireRole(username string, want model.Role) (model.User, error) {
	u, err := p.reg.Users.Get(username)
	if err != nil {
		return model.User{}, err
	}
	if u.Role != want {
		return model.User{}, &RoleMismatchError{Username: username, Want: want, Got: u.Role}
	}
	return u, nil
}

func (p *Planner) getKindLocked(id string, want model.Kind) (*model.Appointment, error) {
	a, ok := p.cal.Get(id)
	if !ok {
		return nil, &registry.NotFoundError{Entity: "appointment", Key: id}
	}
	if a.Kind != want {
		return nil, &WrongKindError{ID: id, Want: want, Got: a.Kind}
	}
	return a, nil
}
