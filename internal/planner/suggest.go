package planner

import (
	"time"

	"github.com/autowerk/planner/internal/model"
)

const suggestionQuota = 3

// PlatformSuggestions carries the suggested start times for one platform.
type PlatformSuggestions struct {
	PlatformID string
	Name       string
	Slots      []time.Time
}

// SuggestWorkingSlots proposes exactly three start times on the platform for
// a working appointment covering the given work items. The slots do not
// overlap any open appointment on the platform.
func (p *Planner) SuggestWorkingSlots(platformID string, workItemIDs []string) ([]time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.reg.Platforms.Get(platformID); err != nil {
		return nil, err
	}
	duration, err := p.workDurationLocked(workItemIDs)
	if err != nil {
		return nil, err
	}
	now := p.now()
	return suggestSlots(p.openOnPlatformLocked(platformID, now), now, duration), nil
}

// SuggestAllPlatforms runs the three-slot suggestion once per known platform.
// Platforms are independent; nothing is merged or ranked across them.
func (p *Planner) SuggestAllPlatforms(workItemIDs []string) ([]PlatformSuggestions, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	duration, err := p.workDurationLocked(workItemIDs)
	if err != nil {
		return nil, err
	}
	now := p.now()
	platforms := p.reg.Platforms.List()
	out := make([]PlatformSuggestions, 0, len(platforms))
	for _, platform := range platforms {
		out = append(out, PlatformSuggestions{
			PlatformID: platform.ID,
			Name:       platform.Name,
			Slots:      suggestSlots(p.openOnPlatformLocked(platform.ID, now), now, duration),
		})
	}
	return out, nil
}

// ScheduleNextCleaning finds the earliest slot on the platform that fits the
// cleaning kind's duration and books it through the normal creation path, so
// the availability check still has the final word.
func (p *Planner) ScheduleNextCleaning(kind model.CleaningKind, platformID, dispatcher string) (model.Appointment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !kind.Valid() {
		return model.Appointment{}, ErrInvalidCleaningKind
	}
	if _, err := p.reg.Platforms.Get(platformID); err != nil {
		return model.Appointment{}, err
	}
	begin := p.nextSlotLocked(platformID, kind.Duration())
	return p.createCleaningLocked(kind, platformID, begin, dispatcher)
}

// nextSlotLocked walks the platform's open appointments in time order: book
// now when the platform is idle or the gap before the first appointment is
// wide enough, otherwise at the first inter-appointment gap that fits, and
// failing that directly after the last appointment ends.
func (p *Planner) nextSlotLocked(platformID string, duration time.Duration) time.Time {
	now := p.now()
	existing := p.openOnPlatformLocked(platformID, now)
	if len(existing) == 0 {
		return now
	}
	if existing[0].Begin.Sub(now) >= duration {
		return now
	}
	for i := 0; i+1 < len(existing); i++ {
		if existing[i+1].Begin.Sub(existing[i].End) >= duration {
			return existing[i].End
		}
	}
	return existing[len(existing)-1].End
}

func (p *Planner) workDurationLocked(workItemIDs []string) (time.Duration, error) {
	if len(workItemIDs) == 0 {
		return 0, ErrNoWorkItems
	}
	var duration time.Duration
	for _, id := range workItemIDs {
		item, err := p.reg.WorkItems.Get(id)
		if err != nil {
			return 0, err
		}
		duration += item.Duration
	}
	return duration, nil
}

// suggestSlots subdivides the free gaps between the existing appointments
// into duration-sized slots, front to back, and pads past the latest end
// until the quota of three is met. It always returns exactly three slots.
func suggestSlots(existing []*model.Appointment, now time.Time, duration time.Duration) []time.Time {
	slots := make([]time.Time, 0, suggestionQuota)
	if len(existing) == 0 {
		for t := now; len(slots) < suggestionQuota; t = t.Add(duration) {
			slots = append(slots, t)
		}
		return slots
	}

	slots = fillGap(slots, now, existing[0].Begin, duration)
	// latestEnd tracks the running maximum end so a short appointment nested
	// inside a longer one cannot open a phantom gap.
	latestEnd := existing[0].End
	for i := 1; i < len(existing) && len(slots) < suggestionQuota; i++ {
		start := latestEnd
		if start.Before(now) {
			start = now
		}
		slots = fillGap(slots, start, existing[i].Begin, duration)
		if existing[i].End.After(latestEnd) {
			latestEnd = existing[i].End
		}
	}
	if latestEnd.Before(now) {
		latestEnd = now
	}
	for len(slots) < suggestionQuota {
		slots = append(slots, latestEnd)
		latestEnd = latestEnd.Add(duration)
	}
	return slots
}

func fillGap(slots []time.Time, start, end time.Time, duration time.Duration) []time.Time {
	for t := start; len(slots) < suggestionQuota && !t.Add(duration).After(end); t = t.Add(duration) {
		slots = append(slots, t)
	}
	return slots
}
