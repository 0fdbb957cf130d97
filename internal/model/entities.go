package model

import "time"

// WorkItem is one billable unit of work. The (Name, Duration) pair is unique
// across the registry; the name alone may repeat with a different duration.
type WorkItem struct {
	ID       string
	Name     string
	Duration time.Duration
}

// Platform is a physical work bay. Names are unique.
type Platform struct {
	ID   string
	Name string
}

// Role is fixed at user creation and decides which appointment kinds the
// user may be responsible for.
type Role string

const (
	RoleDispatcher    Role = "DISPATCHER"
	RoleClientAdvisor Role = "CLIENT_ADVISOR"
	RoleCarMechanic   Role = "CAR_MECHANIC"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDispatcher, RoleClientAdvisor, RoleCarMechanic:
		return true
	}
	return false
}

// User is keyed by username.
type User struct {
	Username  string
	FirstName string
	LastName  string
	Role      Role
}

// Customer owns a set of vehicle license plates. Membership, not duplication:
// the vehicle records themselves live in the vehicle registry.
type Customer struct {
	ID          string
	FirstName   string
	LastName    string
	Street      string
	HouseNumber int
	PostalCode  int
	City        string
	Phone       string
	Email       string
	Vehicles    map[string]struct{}
}

func (c *Customer) OwnsVehicle(plate string) bool {
	_, ok := c.Vehicles[plate]
	return ok
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Vehicle is keyed by license plate. History holds IDs of finished working
// appointments; it is backfilled lazily when the history is queried.
type Vehicle struct {
	Plate     string
	Brand     string
	Model     string
	Year      int
	Admission time.Time
	History   map[string]struct{}
}
