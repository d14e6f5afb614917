// Package account holds registered users and their credentials. Each user
// owns exactly one ledger.
package account

import (
	"sort"
	"sync"

	"fjacquet/finance-manager/internal/ledger"
	"fjacquet/finance-manager/internal/walleterror"
)

// User is a registered account.
type User struct {
	Username     string
	PasswordHash string
	Ledger       *ledger.Ledger
}

// Registry is the in-memory user set. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[string]*User)}
}

// Add registers u. A taken username is an AuthorizationError.
func (r *Registry) Add(u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[u.Username]; exists {
		return &walleterror.AuthorizationError{Username: u.Username, Reason: "username already taken"}
	}
	r.users[u.Username] = u
	return nil
}

// Get returns the user with the given name.
func (r *Registry) Get(username string) (*User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	return u, ok
}

// Exists reports whether username is taken.
func (r *Registry) Exists(username string) bool {
	_, ok := r.Get(username)
	return ok
}

// Len returns the number of registered users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Users returns every user ordered by username.
func (r *Registry) Users() []*User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (r *Registry) passwordHash(username string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return "", false
	}
	return u.PasswordHash, true
}

func (r *Registry) setPasswordHash(username, hash string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if ok {
		u.PasswordHash = hash
	}
	return ok
}
