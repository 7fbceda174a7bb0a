package repository

import (
	"github.com/google/uuid"

	"github.com/devicehub/devicehub/internal/datastore"
	"github.com/devicehub/devicehub/internal/model"
)

// UserRepository stores users.
type UserRepository interface {
	Repository[model.User]
	FindByLogin(login string) (model.User, bool)
}

// InMemoryUserRepository is a UserRepository backed by a datastore.Store.
type InMemoryUserRepository struct {
	store *datastore.Store
}

var _ UserRepository = (*InMemoryUserRepository)(nil)

// NewInMemoryUserRepository creates a user repository over store.
func NewInMemoryUserRepository(store *datastore.Store) *InMemoryUserRepository {
	return &InMemoryUserRepository{store: store}
}

// Find returns the user with the given ID.
func (r *InMemoryUserRepository) Find(id uuid.UUID) (model.User, bool) {
	return r.store.FindUser(id)
}

// FindAll returns every user.
func (r *InMemoryUserRepository) FindAll() []model.User {
	return r.store.FindAllUsers()
}

// FindByLogin returns the user with the given login.
func (r *InMemoryUserRepository) FindByLogin(login string) (model.User, bool) {
	return r.store.FindUserByLogin(login)
}

// Create stores a new user.
func (r *InMemoryUserRepository) Create(user model.User) (model.User, error) {
	return r.store.CreateUser(user)
}

// Update replaces an existing user.
func (r *InMemoryUserRepository) Update(user model.User) (model.User, error) {
	return r.store.UpdateUser(user)
}

// Delete removes a user. The user's devices are not removed.
func (r *InMemoryUserRepository) Delete(id uuid.UUID) error {
	return r.store.DeleteUser(id)
}
