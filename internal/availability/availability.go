// Package availability decides whether a candidate appointment may occupy
// its time span given the appointments that already exist. Two appointments
// conflict only when they overlap in time and compete for the same person
// or platform.
package availability

import (
	"fmt"

	"github.com/autowerk/planner/internal/model"
)

type Resource string

const (
	ResourceMechanic   Resource = "mechanic"
	ResourcePlatform   Resource = "platform"
	ResourceDispatcher Resource = "dispatcher"
	ResourceAdvisor    Resource = "advisor"
)

type Boundary string

const (
	BoundaryBegin Boundary = "begin"
	BoundaryEnd   Boundary = "end"
)

// Conflict names the appointment a candidate collides with, the contested
// resource, and which end of the candidate fell inside the occupied span.
type Conflict struct {
	With     string
	Resource Resource
	Boundary Boundary
}

func (c *Conflict) Error() string {
	return fmt.Sprintf("conflicts with appointment %s over %s", c.With, c.Resource)
}

// Check reports the first conflict between the candidate and the existing
// appointments, or nil if the span is free. An existing appointment with
// the candidate's own ID is skipped so that updates do not collide with
// the appointment being moved.
func Check(candidate *model.Appointment, existing []*model.Appointment) *Conflict {
	for _, other := range existing {
		if other.ID == candidate.ID {
			continue
		}
		res, contested := sharedResource(candidate, other)
		if !contested {
			continue
		}
		if boundary, hit := overlaps(candidate, other); hit {
			return &Conflict{With: other.ID, Resource: res, Boundary: boundary}
		}
	}
	return nil
}

// overlaps treats spans as half-open: a candidate beginning exactly where
// another ends, or ending exactly where another begins, does not collide.
func overlaps(candidate, other *model.Appointment) (Boundary, bool) {
	b, e := other.Begin, other.End
	cb, ce := candidate.Begin, candidate.End
	if !cb.Before(b) && cb.Before(e) {
		return BoundaryBegin, true
	}
	if ce.After(b) && !ce.After(e) {
		return BoundaryEnd, true
	}
	return "", false
}

// sharedResource applies the pairing rules. Working and cleaning compete
// over platforms; consulting competes only with other consulting over the
// advisor.
func sharedResource(candidate, other *model.Appointment) (Resource, bool) {
	switch {
	case candidate.Kind == model.KindWorking && other.Kind == model.KindWorking:
		if candidate.Working.Mechanic == other.Working.Mechanic {
			return ResourceMechanic, true
		}
		if candidate.Working.PlatformID == other.Working.PlatformID {
			return ResourcePlatform, true
		}
	case candidate.Kind == model.KindWorking && other.Kind == model.KindCleaning:
		if candidate.Working.PlatformID == other.Cleaning.PlatformID {
			return ResourcePlatform, true
		}
	case candidate.Kind == model.KindCleaning && other.Kind == model.KindWorking:
		if candidate.Cleaning.PlatformID == other.Working.PlatformID {
			return ResourcePlatform, true
		}
	case candidate.Kind == model.KindCleaning && other.Kind == model.KindCleaning:
		if candidate.Cleaning.Dispatcher == other.Cleaning.Dispatcher {
			return ResourceDispatcher, true
		}
		if candidate.Cleaning.PlatformID == other.Cleaning.PlatformID {
			return ResourcePlatform, true
		}
	case candidate.Kind == model.KindConsulting && other.Kind == model.KindConsulting:
		if candidate.Consulting.Advisor == other.Consulting.Advisor {
			return ResourceAdvisor, true
		}
	}
	return "", false
}
