package model

import "time"

// Kind discriminates the three appointment variants. Every consumer switches
// on it; there is no runtime type inspection anywhere.
type Kind string

const (
	KindWorking    Kind = "working"
	KindConsulting Kind = "consulting"
	KindCleaning   Kind = "cleaning"
)

// Status of a working appointment. Transitions are unrestricted: any status
// may be set from any other via the planner's status operation.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusCancelled Status = "CANCELLED"
	StatusFinished  Status = "FINISHED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusCancelled, StatusFinished:
		return true
	}
	return false
}

// CleaningKind fixes the duration of a cleaning appointment.
type CleaningKind string

const (
	CleaningQuick     CleaningKind = "QUICK"
	CleaningIntensive CleaningKind = "INTENSIVE"
)

func (k CleaningKind) Valid() bool {
	return k == CleaningQuick || k == CleaningIntensive
}

func (k CleaningKind) Duration() time.Duration {
	if k == CleaningIntensive {
		return 60 * time.Minute
	}
	return 30 * time.Minute
}

// Appointment is a tagged variant: Kind selects exactly one of the three
// payload pointers; the other two are nil. End is always derived, never set
// by callers: it tracks Begin plus the kind-specific duration and is
// recomputed through Reschedule / the payload setters whenever a
// duration-determining attribute changes.
type Appointment struct {
	ID    string
	Kind  Kind
	Begin time.Time
	End   time.Time

	Working    *WorkingDetails
	Consulting *ConsultingDetails
	Cleaning   *CleaningDetails
}

// WorkingDetails references its collaborators by identifier only; the
// owning registries resolve them on demand.
type WorkingDetails struct {
	PlatformID   string
	CustomerID   string
	VehiclePlate string
	WorkItemIDs  []string
	Mechanic     string // username of the responsible car mechanic
	Duration     time.Duration
	Status       Status
}

type ConsultingDetails struct {
	CustomerID string
	Duration   time.Duration
	Advisor    string // username of the responsible client advisor
}

type CleaningDetails struct {
	PlatformID string
	Cleaning   CleaningKind
	Dispatcher string // username of the responsible dispatcher
}

func NewWorking(id string, begin time.Time, d WorkingDetails) *Appointment {
	d.Status = StatusOpen
	a := &Appointment{ID: id, Kind: KindWorking, Working: &d}
	a.Reschedule(begin)
	return a
}

func NewConsulting(id string, begin time.Time, d ConsultingDetails) *Appointment {
	a := &Appointment{ID: id, Kind: KindConsulting, Consulting: &d}
	a.Reschedule(begin)
	return a
}

func NewCleaning(id string, begin time.Time, d CleaningDetails) *Appointment {
	a := &Appointment{ID: id, Kind: KindCleaning, Cleaning: &d}
	a.Reschedule(begin)
	return a
}

// Duration is the kind-specific length of the appointment.
func (a *Appointment) Duration() time.Duration {
	switch a.Kind {
	case KindWorking:
		return a.Working.Duration
	case KindConsulting:
		return a.Consulting.Duration
	case KindCleaning:
		return a.Cleaning.Cleaning.Duration()
	}
	return 0
}

// Reschedule moves the appointment and recomputes its end.
func (a *Appointment) Reschedule(begin time.Time) {
	a.Begin = begin
	a.End = begin.Add(a.Duration())
}

// SetConsultingDuration changes the duration and recomputes the end.
func (a *Appointment) SetConsultingDuration(d time.Duration) {
	a.Consulting.Duration = d
	a.End = a.Begin.Add(d)
}

// SetCleaningKind changes the cleaning kind and recomputes the end.
func (a *Appointment) SetCleaningKind(k CleaningKind) {
	a.Cleaning.Cleaning = k
	a.End = a.Begin.Add(k.Duration())
}

// Clone returns a deep copy. Mutating the copy never reaches the stored
// appointment.
func (a *Appointment) Clone() Appointment {
	c := *a
	if a.Working != nil {
		w := *a.Working
		w.WorkItemIDs = append([]string(nil), a.Working.WorkItemIDs...)
		c.Working = &w
	}
	if a.Consulting != nil {
		d := *a.Consulting
		c.Consulting = &d
	}
	if a.Cleaning != nil {
		d := *a.Cleaning
		c.Cleaning = &d
	}
	return c
}

// PlatformID reports the platform the appointment occupies, if any.
// Consulting appointments never touch a platform.
func (a *Appointment) PlatformID() (string, bool) {
	switch a.Kind {
	case KindWorking:
		return a.Working.PlatformID, true
	case KindCleaning:
		return a.Cleaning.PlatformID, true
	}
	return "", false
}
