package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/autowerk/planner/internal/model"
)

// Platforms is the owned table of work bays, keyed by generated id
// ("WP-1", "WP-2", ...). Platform names are unique.
type Platforms struct {
	mu        sync.Mutex
	nextID    int
	platforms map[string]*model.Platform
}

func NewPlatforms() *Platforms {
	return &Platforms{nextID: 1, platforms: make(map[string]*model.Platform)}
}

func (r *Platforms) nameTakenLocked(name string) bool {
	for _, p := range r.platforms {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (r *Platforms) Create(name string) (model.Platform, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTakenLocked(name) {
		return model.Platform{}, &DuplicateError{Entity: "platform", Key: name}
	}
	p := &model.Platform{ID: fmt.Sprintf("WP-%d", r.nextID), Name: name}
	r.nextID++
	r.platforms[p.ID] = p
	return *p, nil
}

func (r *Platforms) Get(id string) (model.Platform, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.platforms[id]
	if !ok {
		return model.Platform{}, &NotFoundError{Entity: "platform", Key: id}
	}
	return *p, nil
}

func (r *Platforms) Rename(id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.platforms[id]
	if !ok {
		return &NotFoundError{Entity: "platform", Key: id}
	}
	if r.nameTakenLocked(name) {
		return &DuplicateError{Entity: "platform", Key: name}
	}
	p.Name = name
	return nil
}

func (r *Platforms) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.platforms[id]; !ok {
		return &NotFoundError{Entity: "platform", Key: id}
	}
	delete(r.platforms, id)
	return nil
}

func (r *Platforms) List() []model.Platform {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Platform, 0, len(r.platforms))
	for _, p := range r.platforms {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
