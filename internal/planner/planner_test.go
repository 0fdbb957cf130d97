package planner

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/autowerk/planner/internal/availability"
	"github.com/autowerk/planner/internal/calendar"
	"github.com/autowerk/planner/internal/model"
	"github.com/autowerk/planner/internal/registry"
)

// Monday 2026-12-07 09:00, ISO week 50.
var testNow = time.Date(2026, 12, 7, 9, 0, 0, 0, time.Local)

type fixture struct {
	planner    *Planner
	items      []model.WorkItem // 30min, 45min
	platforms  []model.Platform // WP-1, WP-2
	customerID string
	plate      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := Registries{
		WorkItems: registry.NewWorkItems(),
		Platforms: registry.NewPlatforms(),
		Users:     registry.NewUsers(),
		Vehicles:  registry.NewVehicles(),
	}
	reg.Customers = registry.NewCustomers(reg.Vehicles)

	oil, err := reg.WorkItems.Create("Oil Change", 30*time.Minute)
	if err != nil {
		t.Fatalf("create work item: %v", err)
	}
	brakes, err := reg.WorkItems.Create("Brake Check", 45*time.Minute)
	if err != nil {
		t.Fatalf("create work item: %v", err)
	}
	p1, err := reg.Platforms.Create("Bay North")
	if err != nil {
		t.Fatalf("create platform: %v", err)
	}
	p2, err := reg.Platforms.Create("Bay South")
	if err != nil {
		t.Fatalf("create platform: %v", err)
	}
	for _, u := range []struct {
		username string
		role     model.Role
	}{
		{"camo1002", model.RoleCarMechanic},
		{"bema1003", model.RoleCarMechanic},
		{"jawa1002", model.RoleClientAdvisor},
		{"towi1001", model.RoleDispatcher},
	} {
		if _, err := reg.Users.Create(u.username, "Test", "User", u.role); err != nil {
			t.Fatalf("create user %s: %v", u.username, err)
		}
	}
	if _, err := reg.Vehicles.Create("KL-TW-1906", "VW", "Golf", 2019, testNow.AddDate(-3, 0, 0)); err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	customer, err := reg.Customers.Create(model.Customer{
		FirstName: "Tom", LastName: "Winter",
		Street: "Hauptstrasse", HouseNumber: 12, PostalCode: 67655, City: "Kaiserslautern",
		Phone: "0631 12345", Email: "tom@example.com",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if err := reg.Customers.LinkVehicle(customer.ID, "KL-TW-1906"); err != nil {
		t.Fatalf("link vehicle: %v", err)
	}

	p := New(log, calendar.New(), reg)
	p.now = func() time.Time { return testNow }
	return &fixture{
		planner:    p,
		items:      []model.WorkItem{oil, brakes},
		platforms:  []model.Platform{p1, p2},
		customerID: customer.ID,
		plate:      "KL-TW-1906",
	}
}

func (f *fixture) createWorking(t *testing.T, itemIDs []string, platformID string, begin time.Time, mechanic string) model.Appointment {
	t.Helper()
	a, err := f.planner.CreateWorking(itemIDs, f.customerID, f.plate, platformID, begin, mechanic)
	if err != nil {
		t.Fatalf("create working: %v", err)
	}
	return a
}

func TestCreateWorkingDerivesDurationFromItems(t *testing.T) {
	f := newFixture(t)
	begin := testNow.Add(time.Hour)
	a := f.createWorking(t, []string{f.items[0].ID, f.items[1].ID}, f.platforms[0].ID, begin, "camo1002")

	if a.ID != "A-1" {
		t.Fatalf("expected id A-1, got %s", a.ID)
	}
	if want := begin.Add(75 * time.Minute); !a.End.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, a.End)
	}
	if a.Working.Status != model.StatusOpen {
		t.Fatalf("expected initial status OPEN, got %s", a.Working.Status)
	}
}

func TestCreateWorkingEndToEndBoundary(t *testing.T) {
	f := newFixture(t)
	begin := testNow.Add(time.Hour)
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, begin, "camo1002")

	_, err := f.planner.CreateWorking([]string{f.items[0].ID}, f.customerID, f.plate,
		f.platforms[0].ID, begin.Add(10*time.Minute), "camo1002")
	var conflict *availability.Conflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected a conflict, got %v", err)
	}

	if _, err := f.planner.CreateWorking([]string{f.items[0].ID}, f.customerID, f.plate,
		f.platforms[0].ID, begin.Add(30*time.Minute), "camo1002"); err != nil {
		t.Fatalf("appointment starting exactly at the other's end must be accepted: %v", err)
	}
}

func TestCreateWorkingSameMechanicOtherPlatform(t *testing.T) {
	f := newFixture(t)
	begin := testNow.Add(time.Hour)
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, begin, "camo1002")

	_, err := f.planner.CreateWorking([]string{f.items[0].ID}, f.customerID, f.plate,
		f.platforms[1].ID, begin, "camo1002")
	var conflict *availability.Conflict
	if !errors.As(err, &conflict) || conflict.Resource != availability.ResourceMechanic {
		t.Fatalf("expected mechanic conflict, got %v", err)
	}

	if _, err := f.planner.CreateWorking([]string{f.items[0].ID}, f.customerID, f.plate,
		f.platforms[1].ID, begin, "bema1003"); err != nil {
		t.Fatalf("other mechanic on other platform must be accepted: %v", err)
	}
}

func TestCreateWorkingValidation(t *testing.T) {
	f := newFixture(t)
	begin := testNow.Add(time.Hour)

	if _, err := f.planner.CreateWorking(nil, f.customerID, f.plate, f.platforms[0].ID, begin, "camo1002"); !errors.Is(err, ErrNoWorkItems) {
		t.Fatalf("expected ErrNoWorkItems, got %v", err)
	}
	if _, err := f.planner.CreateWorking([]string{"W-99"}, f.customerID, f.plate, f.platforms[0].ID, begin, "camo1002"); !registry.IsNotFound(err) {
		t.Fatalf("expected not found for unknown work item, got %v", err)
	}
	if _, err := f.planner.CreateWorking([]string{f.items[0].ID}, "C-99", f.plate, f.platforms[0].ID, begin, "camo1002"); !registry.IsNotFound(err) {
		t.Fatalf("expected not found for unknown customer, got %v", err)
	}
	if _, err := f.planner.CreateWorking([]string{f.items[0].ID}, f.customerID, f.plate, "WP-99", begin, "camo1002"); !registry.IsNotFound(err) {
		t.Fatalf("expected not found for unknown platform, got %v", err)
	}
	if _, err := f.planner.CreateWorking([]string{f.items[0].ID}, f.customerID, f.plate, f.platforms[0].ID, begin, "towi1001"); !IsRoleMismatch(err) {
		t.Fatalf("expected role mismatch for dispatcher as mechanic, got %v", err)
	}
}

func TestCreateWorkingUnownedVehicle(t *testing.T) {
	f := newFixture(t)
	if _, err := f.planner.reg.Vehicles.Create("ZW-CM-23", "Opel", "Astra", 2015, testNow.AddDate(-5, 0, 0)); err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	_, err := f.planner.CreateWorking([]string{f.items[0].ID}, f.customerID, "ZW-CM-23",
		f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")
	if !IsOwnership(err) {
		t.Fatalf("expected ownership violation, got %v", err)
	}
}

func TestConsultingCollidesOnlyOverAdvisor(t *testing.T) {
	f := newFixture(t)
	begin := testNow.Add(time.Hour)
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, begin, "camo1002")

	// Same time span as the working appointment is fine for consulting.
	if _, err := f.planner.CreateConsulting(f.customerID, 30*time.Minute, begin, "jawa1002"); err != nil {
		t.Fatalf("consulting must not collide with working: %v", err)
	}
	_, err := f.planner.CreateConsulting(f.customerID, 30*time.Minute, begin.Add(15*time.Minute), "jawa1002")
	var conflict *availability.Conflict
	if !errors.As(err, &conflict) || conflict.Resource != availability.ResourceAdvisor {
		t.Fatalf("expected advisor conflict, got %v", err)
	}
}

func TestCleaningSharesPlatformWithWorking(t *testing.T) {
	f := newFixture(t)
	begin := testNow.Add(time.Hour)
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, begin, "camo1002")

	_, err := f.planner.CreateCleaning(model.CleaningQuick, f.platforms[0].ID, begin.Add(10*time.Minute), "towi1001")
	var conflict *availability.Conflict
	if !errors.As(err, &conflict) || conflict.Resource != availability.ResourcePlatform {
		t.Fatalf("expected platform conflict, got %v", err)
	}
	a, err := f.planner.CreateCleaning(model.CleaningIntensive, f.platforms[1].ID, begin, "towi1001")
	if err != nil {
		t.Fatalf("cleaning on free platform: %v", err)
	}
	if want := begin.Add(60 * time.Minute); !a.End.Equal(want) {
		t.Fatalf("intensive cleaning should last 60 minutes, end %v", a.End)
	}
}

func TestUpdateWrongKind(t *testing.T) {
	f := newFixture(t)
	a, err := f.planner.CreateConsulting(f.customerID, 30*time.Minute, testNow.Add(time.Hour), "jawa1002")
	if err != nil {
		t.Fatalf("create consulting: %v", err)
	}
	_, err = f.planner.UpdateWorking(a.ID, f.platforms[0].ID, testNow.Add(2*time.Hour))
	if !IsWrongKind(err) {
		t.Fatalf("expected wrong kind error, got %v", err)
	}
	_, err = f.planner.SetWorkingStatus(a.ID, model.StatusFinished)
	if !IsWrongKind(err) {
		t.Fatalf("expected wrong kind error for status change, got %v", err)
	}
}

func TestUpdateDoesNotRecheckAvailability(t *testing.T) {
	f := newFixture(t)
	begin := testNow.Add(time.Hour)
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, begin, "camo1002")
	b, err := f.planner.CreateWorking([]string{f.items[0].ID}, f.customerID, f.plate,
		f.platforms[1].ID, begin, "bema1003")
	if err != nil {
		t.Fatalf("create second working: %v", err)
	}

	// Moving b onto a's platform and span succeeds: updates bypass the checker.
	moved, err := f.planner.UpdateWorking(b.ID, f.platforms[0].ID, begin)
	if err != nil {
		t.Fatalf("update working: %v", err)
	}
	if moved.Working.PlatformID != f.platforms[0].ID || !moved.Begin.Equal(begin) {
		t.Fatalf("update not applied: %+v", moved)
	}
}

func TestUpdateConsultingRecomputesEnd(t *testing.T) {
	f := newFixture(t)
	a, err := f.planner.CreateConsulting(f.customerID, 30*time.Minute, testNow.Add(time.Hour), "jawa1002")
	if err != nil {
		t.Fatalf("create consulting: %v", err)
	}
	newBegin := testNow.Add(3 * time.Hour)
	updated, err := f.planner.UpdateConsulting(a.ID, 45*time.Minute, newBegin)
	if err != nil {
		t.Fatalf("update consulting: %v", err)
	}
	if want := newBegin.Add(45 * time.Minute); !updated.End.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, updated.End)
	}
}

func TestUpdateCleaningRecomputesEnd(t *testing.T) {
	f := newFixture(t)
	a, err := f.planner.CreateCleaning(model.CleaningQuick, f.platforms[0].ID, testNow.Add(time.Hour), "towi1001")
	if err != nil {
		t.Fatalf("create cleaning: %v", err)
	}
	newBegin := testNow.Add(4 * time.Hour)
	updated, err := f.planner.UpdateCleaning(a.ID, model.CleaningIntensive, f.platforms[1].ID, newBegin)
	if err != nil {
		t.Fatalf("update cleaning: %v", err)
	}
	if want := newBegin.Add(60 * time.Minute); !updated.End.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, updated.End)
	}
	if updated.Cleaning.PlatformID != f.platforms[1].ID {
		t.Fatalf("platform not updated: %+v", updated.Cleaning)
	}
}

func TestStatusTransitionFreedom(t *testing.T) {
	f := newFixture(t)
	a := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")

	for _, status := range []model.Status{
		model.StatusFinished, model.StatusOpen, model.StatusCancelled, model.StatusOpen,
	} {
		updated, err := f.planner.SetWorkingStatus(a.ID, status)
		if err != nil {
			t.Fatalf("set status %s: %v", status, err)
		}
		if updated.Working.Status != status {
			t.Fatalf("expected status %s, got %s", status, updated.Working.Status)
		}
	}
	if _, err := f.planner.SetWorkingStatus(a.ID, model.Status("DONE")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestRemoveAndKindOf(t *testing.T) {
	f := newFixture(t)
	a := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")

	kind, err := f.planner.KindOf(a.ID)
	if err != nil || kind != model.KindWorking {
		t.Fatalf("expected working kind, got %s, %v", kind, err)
	}
	if err := f.planner.Remove(a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := f.planner.Remove(a.ID); !registry.IsNotFound(err) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
	if _, err := f.planner.KindOf(a.ID); !registry.IsNotFound(err) {
		t.Fatalf("expected not found after removal, got %v", err)
	}
}

func TestIDsAreNotReused(t *testing.T) {
	f := newFixture(t)
	a := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")
	if err := f.planner.Remove(a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	b := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")
	if b.ID == a.ID {
		t.Fatalf("identifier %s was reused", b.ID)
	}
}

func TestWeekOverview(t *testing.T) {
	f := newFixture(t)
	// testNow is in ISO week 50; one week later is week 51.
	inWeek50 := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.AddDate(0, 0, 7), "camo1002")

	got := f.planner.WeekOverview(50)
	if len(got) != 1 || got[0].ID != inWeek50.ID {
		t.Fatalf("expected exactly the week-50 appointment, got %+v", got)
	}
	if got := f.planner.WeekOverview(2); len(got) != 0 {
		t.Fatalf("expected no appointments in week 2, got %d", len(got))
	}
}

func TestAllSortedByBegin(t *testing.T) {
	f := newFixture(t)
	late := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(3*time.Hour), "camo1002")
	early := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")

	got := f.planner.All()
	if len(got) != 2 || got[0].ID != early.ID || got[1].ID != late.ID {
		t.Fatalf("expected [%s %s], got %+v", early.ID, late.ID, got)
	}
}

func TestYesterdayFinished(t *testing.T) {
	f := newFixture(t)
	yesterday := testNow.AddDate(0, 0, -1)
	finished := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, yesterday, "camo1002")
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, yesterday.Add(2*time.Hour), "camo1002") // stays OPEN
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")

	if _, err := f.planner.SetWorkingStatus(finished.ID, model.StatusFinished); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got := f.planner.YesterdayFinished()
	if len(got) != 1 || got[0].ID != finished.ID {
		t.Fatalf("expected exactly the finished appointment of yesterday, got %+v", got)
	}
}

func TestTodayOpenForMechanic(t *testing.T) {
	f := newFixture(t)
	mine := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[1].ID, testNow.Add(time.Hour), "bema1003")
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.AddDate(0, 0, 1), "camo1002")

	got := f.planner.TodayOpenFor("camo1002")
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("expected exactly today's open appointment for camo1002, got %+v", got)
	}
}

func TestOpenOnPlatformAfterNow(t *testing.T) {
	f := newFixture(t)
	f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(-2*time.Hour), "camo1002") // already over
	future := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")
	cancelled := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(2*time.Hour), "bema1003")
	if _, err := f.planner.SetWorkingStatus(cancelled.ID, model.StatusCancelled); err != nil {
		t.Fatalf("set status: %v", err)
	}
	cleaningAppt, err := f.planner.CreateCleaning(model.CleaningQuick, f.platforms[0].ID, testNow.Add(3*time.Hour), "towi1001")
	if err != nil {
		t.Fatalf("create cleaning: %v", err)
	}

	got, err := f.planner.OpenOnPlatformAfterNow(f.platforms[0].ID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 || got[0].ID != future.ID || got[1].ID != cleaningAppt.ID {
		t.Fatalf("expected [%s %s], got %+v", future.ID, cleaningAppt.ID, got)
	}
	if _, err := f.planner.OpenOnPlatformAfterNow("WP-99"); !registry.IsNotFound(err) {
		t.Fatalf("expected not found for unknown platform, got %v", err)
	}
}

func TestVehicleHistoryIdempotent(t *testing.T) {
	f := newFixture(t)
	if _, err := f.planner.VehicleHistory(f.plate); !errors.Is(err, ErrNoVehicleAppointments) {
		t.Fatalf("expected no-appointments error, got %v", err)
	}

	a := f.createWorking(t, []string{f.items[0].ID}, f.platforms[0].ID, testNow.Add(time.Hour), "camo1002")
	if _, err := f.planner.VehicleHistory(f.plate); !errors.Is(err, ErrNoFinishedAppointments) {
		t.Fatalf("expected none-finished error, got %v", err)
	}

	if _, err := f.planner.SetWorkingStatus(a.ID, model.StatusFinished); err != nil {
		t.Fatalf("set status: %v", err)
	}
	first, err := f.planner.VehicleHistory(f.plate)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	second, err := f.planner.VehicleHistory(f.plate)
	if err != nil {
		t.Fatalf("history again: %v", err)
	}
	if len(first) != 1 || len(second) != 1 || second[0].ID != a.ID {
		t.Fatalf("history must stay a set: first %d, second %d", len(first), len(second))
	}
	if _, err := f.planner.VehicleHistory("XX-YY-1"); !registry.IsNotFound(err) {
		t.Fatalf("expected not found for unknown plate, got %v", err)
	}
}
