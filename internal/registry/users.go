package registry

import (
	"sort"
	"sync"

	"github.com/autowerk/planner/internal/model"
)

// Users is the owned table of staff, keyed by username. The role is fixed
// at creation; there is no operation to change it.
type Users struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func NewUsers() *Users {
	return &Users{users: make(map[string]*model.User)}
}

func (r *Users) Create(username, firstName, lastName string, role model.Role) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[username]; ok {
		return model.User{}, &DuplicateError{Entity: "user", Key: username}
	}
	u := &model.User{Username: username, FirstName: firstName, LastName: lastName, Role: role}
	r.users[username] = u
	return *u, nil
}

func (r *Users) Get(username string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return model.User{}, &NotFoundError{Entity: "user", Key: username}
	}
	return *u, nil
}

func (r *Users) UpdateName(username, firstName, lastName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return &NotFoundError{Entity: "user", Key: username}
	}
	u.FirstName = firstName
	u.LastName = lastName
	return nil
}

// ChangeUsername rekeys the user. The new username must be free.
func (r *Users) ChangeUsername(username, newUsername string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return &NotFoundError{Entity: "user", Key: username}
	}
	if _, taken := r.users[newUsername]; taken {
		return &DuplicateError{Entity: "user", Key: newUsername}
	}
	delete(r.users, username)
	u.Username = newUsername
	r.users[newUsername] = u
	return nil
}

func (r *Users) Remove(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[username]; !ok {
		return &NotFoundError{Entity: "user", Key: username}
	}
	delete(r.users, username)
	return nil
}

func (r *Users) List() []model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}
