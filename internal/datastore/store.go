// Package datastore provides the in-memory store holding users, brands and
// devices.
//
// Every value crossing the store boundary is deep-copied in both directions,
// so callers never hold a reference into store memory. A single mutex guards
// all three collections: device writes must observe user and brand existence
// in the same critical section that stores the device, and brand deletion
// must remove the brand's devices atomically.
package datastore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/devicehub/devicehub/internal/model"
)

// Stats reports the size of each collection.
type Stats struct {
	Users   int `json:"users"`
	Brands  int `json:"brands"`
	Devices int `json:"devices"`
}

// Store is the single owner of all entity collections.
type Store struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*model.User
	logins  map[string]uuid.UUID
	brands  map[uuid.UUID]*model.Brand
	devices map[uuid.UUID]*model.Device
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:   make(map[uuid.UUID]*model.User),
		logins:  make(map[string]uuid.UUID),
		brands:  make(map[uuid.UUID]*model.Brand),
		devices: make(map[uuid.UUID]*model.Device),
	}
}

// Stats returns the current collection sizes.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Users:   len(s.users),
		Brands:  len(s.brands),
		Devices: len(s.devices),
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

// FindAllUsers returns copies of every stored user ordered by ID.
func (s *Store) FindAllUsers() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// FindUser returns a copy of the user with the given ID.
func (s *Store) FindUser(id uuid.UUID) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, false
	}
	return *u.Clone(), true
}

// FindUserByLogin returns a copy of the user with the given login.
func (s *Store) FindUserByLogin(login string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.logins[login]
	if !ok {
		return model.User{}, false
	}
	return *s.users[id].Clone(), true
}

// CreateUser stores a copy of user.
// Returns model.ErrDuplicateKey if the ID or the login is already taken.
func (s *Store) CreateUser(user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return model.User{}, fmt.Errorf("user %s: %w", user.ID, model.ErrDuplicateKey)
	}
	if err := s.claimLogin(user); err != nil {
		return model.User{}, err
	}
	stored := user.Clone()
	s.users[user.ID] = stored
	return *stored.Clone(), nil
}

// UpdateUser replaces the stored user with a copy of user.
// Returns model.ErrNotFound if no user has that ID and model.ErrDuplicateKey
// if the new login belongs to another user.
func (s *Store) UpdateUser(user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.users[user.ID]
	if !exists {
		return model.User{}, fmt.Errorf("user %s: %w", user.ID, model.ErrNotFound)
	}
	if err := s.claimLogin(user); err != nil {
		return model.User{}, err
	}
	if current.Login != user.Login {
		delete(s.logins, current.Login)
	}
	stored := user.Clone()
	s.users[user.ID] = stored
	return *stored.Clone(), nil
}

// DeleteUser removes the user with the given ID.
// Devices owned by the user are left in place.
func (s *Store) DeleteUser(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[id]
	if !exists {
		return fmt.Errorf("user %s: %w", id, model.ErrNotFound)
	}
	delete(s.logins, u.Login)
	delete(s.users, id)
	return nil
}

// claimLogin indexes user.Login for user.ID. Caller must hold s.mu.
func (s *Store) claimLogin(user model.User) error {
	if owner, taken := s.logins[user.Login]; taken && owner != user.ID {
		return fmt.Errorf("login %q: %w", user.Login, model.ErrDuplicateKey)
	}
	s.logins[user.Login] = user.ID
	return nil
}

// ---------------------------------------------------------------------------
// Brands
// ---------------------------------------------------------------------------

// FindAllBrands returns copies of every stored brand ordered by ID.
func (s *Store) FindAllBrands() []model.Brand {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Brand, 0, len(s.brands))
	for _, b := range s.brands {
		out = append(out, *b.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// FindBrand returns a copy of the brand with the given ID.
func (s *Store) FindBrand(id uuid.UUID) (model.Brand, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.brands[id]
	if !ok {
		return model.Brand{}, false
	}
	return *b.Clone(), true
}

// CreateBrand stores a copy of brand.
func (s *Store) CreateBrand(brand model.Brand) (model.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.brands[brand.ID]; exists {
		return model.Brand{}, fmt.Errorf("brand %s: %w", brand.ID, model.ErrDuplicateKey)
	}
	stored := brand.Clone()
	s.brands[brand.ID] = stored
	return *stored.Clone(), nil
}

// UpdateBrand replaces the stored brand with a copy of brand.
// Devices keep the brand snapshot taken when they were last written.
func (s *Store) UpdateBrand(brand model.Brand) (model.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.brands[brand.ID]; !exists {
		return model.Brand{}, fmt.Errorf("brand %s: %w", brand.ID, model.ErrNotFound)
	}
	stored := brand.Clone()
	s.brands[brand.ID] = stored
	return *stored.Clone(), nil
}

// DeleteBrand removes the brand and every device referencing it.
// It returns the number of devices removed along with the brand.
func (s *Store) DeleteBrand(id uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.brands[id]; !exists {
		return 0, fmt.Errorf("brand %s: %w", id, model.ErrNotFound)
	}

	cascaded := 0
	for deviceID, d := range s.devices {
		if d.Brand != nil && d.Brand.ID == id {
			delete(s.devices, deviceID)
			cascaded++
		}
	}
	delete(s.brands, id)
	return cascaded, nil
}

// ---------------------------------------------------------------------------
// Devices
// ---------------------------------------------------------------------------

// FindAllDevices returns copies of every stored device ordered by ID.
func (s *Store) FindAllDevices() []model.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, *d.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// FindDevice returns a copy of the device with the given ID.
func (s *Store) FindDevice(id uuid.UUID) (model.Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.devices[id]
	if !ok {
		return model.Device{}, false
	}
	return *d.Clone(), true
}

// CreateDevice stores a copy of device with its user and brand replaced by
// the stored entities of the same IDs.
// Returns model.ErrDanglingReference if either relation does not resolve.
func (s *Store) CreateDevice(device model.Device) (model.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.devices[device.ID]; exists {
		return model.Device{}, fmt.Errorf("device %s: %w", device.ID, model.ErrDuplicateKey)
	}
	stored, err := s.resolveDevice(device)
	if err != nil {
		return model.Device{}, err
	}
	s.devices[device.ID] = stored
	return *stored.Clone(), nil
}

// UpdateDevice replaces the stored device, re-resolving its relations
// against the current users and brands.
func (s *Store) UpdateDevice(device model.Device) (model.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.devices[device.ID]; !exists {
		return model.Device{}, fmt.Errorf("device %s: %w", device.ID, model.ErrNotFound)
	}
	stored, err := s.resolveDevice(device)
	if err != nil {
		return model.Device{}, err
	}
	s.devices[device.ID] = stored
	return *stored.Clone(), nil
}

// ModifyDevice applies fn to a copy of the stored device and stores the
// result, all under the store lock. fn must not call back into the Store.
// Returns model.ErrNotFound if no device has that ID, and fn's error
// unchanged if it fails.
func (s *Store) ModifyDevice(id uuid.UUID, fn func(*model.Device) error) (model.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.devices[id]
	if !exists {
		return model.Device{}, fmt.Errorf("device %s: %w", id, model.ErrNotFound)
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return model.Device{}, err
	}
	next.ID = id
	stored, err := s.resolveDevice(*next)
	if err != nil {
		return model.Device{}, err
	}
	s.devices[id] = stored
	return *stored.Clone(), nil
}

// DeleteDevice removes the device with the given ID.
func (s *Store) DeleteDevice(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.devices[id]; !exists {
		return fmt.Errorf("device %s: %w", id, model.ErrNotFound)
	}
	delete(s.devices, id)
	return nil
}

// resolveDevice builds the value to store for device. Caller must hold s.mu.
func (s *Store) resolveDevice(device model.Device) (*model.Device, error) {
	if device.User == nil {
		return nil, fmt.Errorf("device %s: user not set: %w", device.ID, model.ErrDanglingReference)
	}
	if device.Brand == nil {
		return nil, fmt.Errorf("device %s: brand not set: %w", device.ID, model.ErrDanglingReference)
	}

	user, ok := s.users[device.User.ID]
	if !ok {
		return nil, fmt.Errorf("device %s: user %s: %w", device.ID, device.User.ID, model.ErrDanglingReference)
	}
	brand, ok := s.brands[device.Brand.ID]
	if !ok {
		return nil, fmt.Errorf("device %s: brand %s: %w", device.ID, device.Brand.ID, model.ErrDanglingReference)
	}

	stored := device.Clone()
	stored.User = user.Clone()
	stored.Brand = brand.Clone()
	return stored, nil
}
