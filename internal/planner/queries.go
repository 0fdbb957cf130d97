package planner

import (
	"time"

	"github.com/autowerk/planner/internal/calendar"
	"github.com/autowerk/planner/internal/model"
)

// All returns every appointment, sorted ascending by begin.
func (p *Planner) All() []model.Appointment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneSorted(p.cal.All())
}

// WeekOverview returns all appointments whose begin falls in ISO week number
// week, for every kind. The week number is compared on its own, without the
// year.
func (p *Planner) WeekOverview(week int) []model.Appointment {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []*model.Appointment
	for _, a := range p.cal.All() {
		if _, w := a.Begin.ISOWeek(); w == week {
			out = append(out, a)
		}
	}
	return cloneSorted(out)
}

// YesterdayFinished returns working appointments that began on yesterday's
// date and are FINISHED.
func (p *Planner) YesterdayFinished() []model.Appointment {
	p.mu.Lock()
	defer p.mu.Unlock()

	yesterday := p.now().AddDate(0, 0, -1)
	var out []*model.Appointment
	for _, a := range p.cal.AllOfKind(model.KindWorking) {
		if sameDay(a.Begin, yesterday) && a.Working.Status == model.StatusFinished {
			out = append(out, a)
		}
	}
	return cloneSorted(out)
}

// TodayOpenFor returns the mechanic's open working appointments that begin on
// today's date.
func (p *Planner) TodayOpenFor(mechanic string) []model.Appointment {
	p.mu.Lock()
	defer p.mu.Unlock()

	today := p.now()
	var out []*model.Appointment
	for _, a := range p.cal.AllOfKind(model.KindWorking) {
		if a.Working.Mechanic == mechanic && sameDay(a.Begin, today) && a.Working.Status == model.StatusOpen {
			out = append(out, a)
		}
	}
	return cloneSorted(out)
}

// OpenOnPlatformAfterNow returns working and cleaning appointments on the
// platform that are still ahead of or running over the current time.
func (p *Planner) OpenOnPlatformAfterNow(platformID string) ([]model.Appointment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.reg.Platforms.Get(platformID); err != nil {
		return nil, err
	}
	return cloneAll(p.openOnPlatformLocked(platformID, p.now())), nil
}

// VehicleHistory backfills the vehicle's history from the calendar and
// returns the finished working appointments recorded there, sorted by begin.
// The backfill is idempotent; querying twice yields the same set. History
// entries whose appointment has since been removed are skipped.
func (p *Planner) VehicleHistory(plate string) ([]model.Appointment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.reg.Vehicles.Get(plate); err != nil {
		return nil, err
	}
	any := false
	for _, a := range p.cal.AllOfKind(model.KindWorking) {
		if a.Working.VehiclePlate != plate {
			continue
		}
		any = true
		if a.Working.Status == model.StatusFinished {
			if err := p.reg.Vehicles.RecordHistory(plate, a.ID); err != nil {
				return nil, err
			}
		}
	}
	vehicle, err := p.reg.Vehicles.Get(plate)
	if err != nil {
		return nil, err
	}
	var out []*model.Appointment
	for id := range vehicle.History {
		if a, ok := p.cal.Get(id); ok {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		if any {
			return nil, ErrNoFinishedAppointments
		}
		return nil, ErrNoVehicleAppointments
	}
	return cloneSorted(out), nil
}

// openOnPlatformLocked collects working appointments with status OPEN and all
// cleaning appointments on the platform that end after from, sorted by begin.
func (p *Planner) openOnPlatformLocked(platformID string, from time.Time) []*model.Appointment {
	var out []*model.Appointment
	for _, a := range p.cal.AllOfKind(model.KindWorking) {
		if a.Working.PlatformID == platformID && a.Working.Status == model.StatusOpen && a.End.After(from) {
			out = append(out, a)
		}
	}
	for _, a := range p.cal.AllOfKind(model.KindCleaning) {
		if a.Cleaning.PlatformID == platformID && a.End.After(from) {
			out = append(out, a)
		}
	}
	calendar.SortByBegin(out)
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func cloneAll(appts []*model.Appointment) []model.Appointment {
	out := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, a.Clone())
	}
	return out
}

func cloneSorted(appts []*model.Appointment) []model.Appointment {
	calendar.SortByBegin(appts)
	return cloneAll(appts)
}
