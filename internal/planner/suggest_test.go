package planner

import (
	"testing"
	"time"

	"github.com/autowerk/planner/internal/model"
)

func assertThreeFreeSlots(t *testing.T, f *fixture, platformID string, slots []time.Time, duration time.Duration) {
	t.Helper()
	if len(slots) != 3 {
		t.Fatalf("expected exactly 3 slots, got %d: %v", len(slots), slots)
	}
	existing := f.planner.openOnPlatformLocked(platformID, testNow)
	for i, slot := range slots {
		end := slot.Add(duration)
		for _, a := range existing {
			if slot.Before(a.End) && end.After(a.Begin) {
				t.Fatalf("slot %d (%v) overlaps appointment %s [%v, %v)", i, slot, a.ID, a.Begin, a.End)
			}
		}
		for j, other := range slots {
			if i != j && slot.Before(other.Add(duration)) && end.After(other) {
				t.Fatalf("slots %d and %d overlap: %v", i, j, slots)
			}
		}
	}
}

func TestSuggestSlotsEmptyPlatform(t *testing.T) {
	f := newFixture(t)
	itemIDs := []string{f.items[0].ID} // 30min

	slots, err := f.planner.SuggestWorkingSlots(f.platforms[0].ID, itemIDs)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	assertThreeFreeSlots(t, f, f.platforms[0].ID, slots, 30*time.Minute)
	for i, want := range []time.Time{testNow, testNow.Add(30 * time.Minute), testNow.Add(60 * time.Minute)} {
		if !slots[i].Equal(want) {
			t.Fatalf("slot %d: expected %v, got %v", i, want, slots[i])
		}
	}
}

func TestSuggestSlotsPartiallyBooked(t *testing.T) {
	f := newFixture(t)
	// Two bookings leave a 60min gap before the first, a 45min gap between
	// them, and open time after the second.
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")
	f.createWorking(t, []string{f.items[1].ID}, f.platforms[0].ID, testNow.Add(135*time.Minute), "camo1002")

	itemIDs := []string{f.items[0].ID} // 30min
	slots, err := f.planner.SuggestWorkingSlots(f.platforms[0].ID, itemIDs)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	assertThreeFreeSlots(t, f, f.platforms[0].ID, slots, 30*time.Minute)
	// The 60min lead gap fits two slots, the 45min middle gap one more.
	for i, want := range []time.Time{testNow, testNow.Add(30 * time.Minute), testNow.Add(90 * time.Minute)} {
		if !slots[i].Equal(want) {
			t.Fatalf("slot %d: expected %v, got %v", i, want, slots[i])
		}
	}
}

func TestSuggestSlotsFullyBooked(t *testing.T) {
	f := newFixture(t)
	// Back-to-back bookings from now leave no gaps at all.
	for i := 0; i < 4; i++ {
		f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Duration(i)*30*time.Minute), "camo1002")
	}
	itemIDs := []string{f.items[0].ID, f.items[1].ID} // 75min
	slots, err := f.planner.SuggestWorkingSlots(f.platforms[0].ID, itemIDs)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	assertThreeFreeSlots(t, f, f.platforms[0].ID, slots, 75*time.Minute)
	// All three land after the last booking, spaced by the duration.
	lastEnd := testNow.Add(4 * 30 * time.Minute)
	for i, want := range []time.Time{lastEnd, lastEnd.Add(75 * time.Minute), lastEnd.Add(150 * time.Minute)} {
		if !slots[i].Equal(want) {
			t.Fatalf("slot %d: expected %v, got %v", i, want, slots[i])
		}
	}
}

func TestSuggestSlotsIgnoresCancelled(t *testing.T) {
	f := newFixture(t)
	a := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow, "camo1002")
	if _, err := f.planner.SetWorkingStatus(a.ID, model.StatusCancelled); err != nil {
		t.Fatalf("set status: %v", err)
	}
	slots, err := f.planner.SuggestWorkingSlots(f.platforms[0].ID, []string{f.items[0].ID})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if !slots[0].Equal(testNow) {
		t.Fatalf("cancelled booking must not block the slot, got %v", slots[0])
	}
}

func TestSuggestAllPlatforms(t *testing.T) {
	f := newFixture(t)
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow, "camo1002")

	all, err := f.planner.SuggestAllPlatforms([]string{f.items[0].ID})
	if err != nil {
		t.Fatalf("suggest all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected suggestions for both platforms, got %d", len(all))
	}
	for _, ps := range all {
		if len(ps.Slots) != 3 {
			t.Fatalf("platform %s: expected 3 slots, got %d", ps.PlatformID, len(ps.Slots))
		}
	}
	// The busy platform cannot offer now; the idle one can.
	if all[0].PlatformID != f.platforms[0].ID || all[0].Slots[0].Equal(testNow) {
		t.Fatalf("busy platform should not suggest now: %+v", all[0])
	}
	if !all[1].Slots[0].Equal(testNow) {
		t.Fatalf("idle platform should suggest now: %+v", all[1])
	}
}

func TestScheduleNextCleaningIdlePlatform(t *testing.T) {
	f := newFixture(t)
	a, err := f.planner.ScheduleNextCleaning(model.CleaningQuick, f.platforms[0].ID, "towi1001")
	if err != nil {
		t.Fatalf("schedule next cleaning: %v", err)
	}
	if !a.Begin.Equal(testNow) {
		t.Fatalf("idle platform books now, got %v", a.Begin)
	}
}

func TestScheduleNextCleaningUsesFirstFittingGap(t *testing.T) {
	f := newFixture(t)
	// 45min booking at now, then a 30min gap, then another booking.
	f.createWorking(t, []string{f.items[1].ID}, f.platforms[0].ID, testNow, "camo1002")
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(75*time.Minute), "camo1002")

	a, err := f.planner.ScheduleNextCleaning(model.CleaningQuick, f.platforms[0].ID, "towi1001")
	if err != nil {
		t.Fatalf("schedule next cleaning: %v", err)
	}
	if want := testNow.Add(45 * time.Minute); !a.Begin.Equal(want) {
		t.Fatalf("expected slot in the gap at %v, got %v", want, a.Begin)
	}

	// The gap is taken now; an intensive cleaning does not fit anywhere and
	// lands after the last appointment.
	b, err := f.planner.ScheduleNextCleaning(model.CleaningIntensive, f.platforms[0].ID, "towi1001")
	if err != nil {
		t.Fatalf("schedule second cleaning: %v", err)
	}
	if want := testNow.Add(105 * time.Minute); !b.Begin.Equal(want) {
		t.Fatalf("expected slot after the last booking at %v, got %v", want, b.Begin)
	}
}

func TestScheduleNextCleaningLeadGap(t *testing.T) {
	f := newFixture(t)
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")

	a, err := f.planner.ScheduleNextCleaning(model.CleaningQuick, f.platforms[0].ID, "towi1001")
	if err != nil {
		t.Fatalf("schedule next cleaning: %v", err)
	}
	if !a.Begin.Equal(testNow) {
		t.Fatalf("lead gap fits, expected now, got %v", a.Begin)
	}
}
