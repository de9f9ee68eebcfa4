package user

import (
	"context"
	"errors"
	"sync"
)

// Repository errors.
var (
	ErrUserNotFound = errors.New("user not found")
)

// Repository defines the interface for user data persistence.
type Repository interface {
	// Get retrieves a user by ID.
	Get(ctx context.Context, id string) (*User, error)

	// Create creates a new user.
	Create(ctx context.Context, user *User) error

	// Update updates an existing user.
	Update(ctx context.Context, user *User) error

	// Delete deletes a user and all associated data.
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewInMemoryRepository creates a new in-memory user repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users: make(map[string]*User),
	}
}

// Get retrieves a user by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	cpy := *user
	return &cpy, nil
}

// Create creates a new user.
func (r *InMemoryRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *user
	r.users[user.ID] = &cpy
	return nil
}

// Update updates an existing user.
func (r *InMemoryRepository) Update(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}

	cpy := *user
	r.users[user.ID] = &cpy
	return nil
}

// Delete deletes a user.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
