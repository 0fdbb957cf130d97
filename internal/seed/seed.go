// Package seed fills the registries and the calendar with demo data so a
// freshly started service is explorable. Enabled via SEED_DEMO_DATA=true.
package seed

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/autowerk/planner/internal/model"
	"github.com/autowerk/planner/internal/planner"
)

// Demo seeds work items, platforms, staff, customers with their vehicles and
// a few appointments. Appointment times are relative to startup so the data
// stays in the interesting part of the calendar.
func Demo(log *slog.Logger, reg planner.Registries, p *planner.Planner) error {
	items := []struct {
		name     string
		duration time.Duration
	}{
		{"Oil Change", 30 * time.Minute},
		{"Brake Check", 45 * time.Minute},
		{"Change Tires", 30 * time.Minute},
		{"Change Tires", 70 * time.Minute}, // with balancing
		{"Exhaust Inspection", 60 * time.Minute},
	}
	itemIDs := make([]string, 0, len(items))
	for _, it := range items {
		item, err := reg.WorkItems.Create(it.name, it.duration)
		if err != nil {
			return fmt.Errorf("seed work item %q: %w", it.name, err)
		}
		itemIDs = append(itemIDs, item.ID)
	}

	platformIDs := make([]string, 0, 4)
	for _, name := range []string{"Bay North", "Bay South", "Bay East", "Bay West"} {
		platform, err := reg.Platforms.Create(name)
		if err != nil {
			return fmt.Errorf("seed platform %q: %w", name, err)
		}
		platformIDs = append(platformIDs, platform.ID)
	}

	users := []struct {
		username, first, last string
		role                  model.Role
	}{
		{"towi1001", "Tom", "Winter", model.RoleDispatcher},
		{"jawa1002", "Jana", "Walter", model.RoleClientAdvisor},
		{"camo1002", "Carl", "Moser", model.RoleCarMechanic},
	}
	for _, u := range users {
		if _, err := reg.Users.Create(u.username, u.first, u.last, u.role); err != nil {
			return fmt.Errorf("seed user %q: %w", u.username, err)
		}
	}

	now := time.Now()
	vehicles := []struct {
		plate, brand, model string
		year                int
	}{
		{"KL-TW-1906", "VW", "Golf", 2019},
		{"KL-JW-123", "BMW", "320i", 2021},
		{"ZW-CM-23", "Opel", "Astra", 2015},
		{"ZW-JN-156", "Ford", "Focus", 2018},
	}
	for _, v := range vehicles {
		admission := time.Date(v.year, time.April, 12, 0, 0, 0, 0, time.Local)
		if _, err := reg.Vehicles.Create(v.plate, v.brand, v.model, v.year, admission); err != nil {
			return fmt.Errorf("seed vehicle %q: %w", v.plate, err)
		}
	}

	customers := []struct {
		c      model.Customer
		plates []string
	}{
		{
			c: model.Customer{
				FirstName: "Tom", LastName: "Winter",
				Street: "Hauptstrasse", HouseNumber: 12, PostalCode: 67655, City: "Kaiserslautern",
				Phone: "0631 12345", Email: "tom.winter@example.com",
			},
			plates: []string{"KL-TW-1906"},
		},
		{
			c: model.Customer{
				FirstName: "Jana", LastName: "Walter",
				Street: "Ringstrasse", HouseNumber: 4, PostalCode: 66482, City: "Zweibruecken",
				Phone: "06332 9876", Email: "jana.walter@example.com",
			},
			plates: []string{"KL-JW-123", "ZW-JN-156"},
		},
		{
			c: model.Customer{
				FirstName: "Carl", LastName: "Moser",
				Street: "Bergstrasse", HouseNumber: 28, PostalCode: 66482, City: "Zweibruecken",
				Phone: "06332 5555", Email: "carl.moser@example.com",
			},
			plates: []string{"ZW-CM-23"},
		},
	}
	customerIDs := make([]string, 0, len(customers))
	for _, entry := range customers {
		customer, err := reg.Customers.Create(entry.c)
		if err != nil {
			return fmt.Errorf("seed customer %q: %w", entry.c.FullName(), err)
		}
		for _, plate := range entry.plates {
			if err := reg.Customers.LinkVehicle(customer.ID, plate); err != nil {
				return fmt.Errorf("link vehicle %q: %w", plate, err)
			}
		}
		customerIDs = append(customerIDs, customer.ID)
	}

	// A handful of appointments: two working, one consulting, one cleaning.
	if _, err := p.CreateWorking([]string{itemIDs[0], itemIDs[1]}, customerIDs[0], "KL-TW-1906",
		platformIDs[0], now.Add(2*time.Hour), "camo1002"); err != nil {
		return fmt.Errorf("seed working appointment: %w", err)
	}
	if _, err := p.CreateWorking([]string{itemIDs[3]}, customerIDs[1], "KL-JW-123",
		platformIDs[1], now.Add(4*time.Hour), "camo1002"); err != nil {
		return fmt.Errorf("seed working appointment: %w", err)
	}
	if _, err := p.CreateConsulting(customerIDs[2], 30*time.Minute, now.Add(3*time.Hour), "jawa1002"); err != nil {
		return fmt.Errorf("seed consulting appointment: %w", err)
	}
	if _, err := p.CreateCleaning(model.CleaningIntensive, platformIDs[2], now.Add(time.Hour), "towi1001"); err != nil {
		return fmt.Errorf("seed cleaning appointment: %w", err)
	}

	log.Info("demo data seeded",
		"work_items", len(itemIDs),
		"platforms", len(platformIDs),
		"customers", len(customerIDs),
		"vehicles", len(vehicles),
		"appointments", 4,
	)
	return nil
}
