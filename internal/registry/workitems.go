package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/autowerk/planner/internal/model"
)

// WorkItems is the owned table of billable work items, keyed by generated
// id ("W-1", "W-2", ...). Lookups return copies; mutation goes through the
// update methods only.
type WorkItems struct {
	mu     sync.Mutex
	nextID int
	items  map[string]*model.WorkItem
}

func NewWorkItems() *WorkItems {
	return &WorkItems{nextID: 1, items: make(map[string]*model.WorkItem)}
}

func (r *WorkItems) Create(name string, duration time.Duration) (model.WorkItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, it := range r.items {
		if it.Name == name && it.Duration == duration {
			return model.WorkItem{}, &DuplicateError{Entity: "work item", Key: fmt.Sprintf("%s/%s", name, duration)}
		}
	}
	it := &model.WorkItem{
		ID:       fmt.Sprintf("W-%d", r.nextID),
		Name:     name,
		Duration: duration,
	}
	r.nextID++
	r.items[it.ID] = it
	return *it, nil
}

func (r *WorkItems) Get(id string) (model.WorkItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]
	if !ok {
		return model.WorkItem{}, &NotFoundError{Entity: "work item", Key: id}
	}
	return *it, nil
}

func (r *WorkItems) Rename(id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]
	if !ok {
		return &NotFoundError{Entity: "work item", Key: id}
	}
	it.Name = name
	return nil
}

func (r *WorkItems) SetDuration(id string, duration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]
	if !ok {
		return &NotFoundError{Entity: "work item", Key: id}
	}
	it.Duration = duration
	return nil
}

func (r *WorkItems) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return &NotFoundError{Entity: "work item", Key: id}
	}
	delete(r.items, id)
	return nil
}

func (r *WorkItems) List() []model.WorkItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.WorkItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
