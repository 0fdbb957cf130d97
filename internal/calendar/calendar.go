// Package calendar holds the set of all appointments. It is not safe for
// concurrent use on its own: the planner serializes access so that an
// availability check and the insertion it guards form one critical section.
package calendar

import (
	"fmt"
	"sort"

	"github.com/autowerk/planner/internal/model"
)

type Store struct {
	nextID string
	seq    int
	byID   map[string]*model.Appointment
}

func New() *Store {
	return &Store{seq: 1, byID: make(map[string]*model.Appointment)}
}

// NextID hands out the next appointment identifier without consuming it;
// Add consumes it. Identifiers are monotonic and never reused, even after
// removals.
func (s *Store) NextID() string {
	return fmt.Sprintf("A-%d", s.seq)
}

func (s *Store) Add(a *model.Appointment) {
	s.byID[a.ID] = a
	s.seq++
}

func (s *Store) Get(id string) (*model.Appointment, bool) {
	a, ok := s.byID[id]
	return a, ok
}

func (s *Store) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	return true
}

func (s *Store) All() []*model.Appointment {
	out := make([]*model.Appointment, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, a)
	}
	return out
}

func (s *Store) AllOfKind(k model.Kind) []*model.Appointment {
	var out []*model.Appointment
	for _, a := range s.byID {
		if a.Kind == k {
			out = append(out, a)
		}
	}
	return out
}

// SortByBegin orders appointments ascending by begin time. A zero begin
// sorts first; it should not occur since begin is mandatory, but the
// ordering stays total if it ever does. Ties fall back to the identifier
// so the order is deterministic.
func SortByBegin(appts []*model.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		bi, bj := appts[i].Begin, appts[j].Begin
		if bi.Equal(bj) {
			return appts[i].ID < appts[j].ID
		}
		if bi.IsZero() {
			return true
		}
		if bj.IsZero() {
			return false
		}
		return bi.Before(bj)
	})
}
