package repository

import (
	"github.com/google/uuid"

	"github.com/devicehub/devicehub/internal/datastore"
	"github.com/devicehub/devicehub/internal/model"
)

// DeviceRepository stores devices.
type DeviceRepository interface {
	Repository[model.Device]
	FindAllByUser(userID uuid.UUID) []model.Device
	FindAllByBrand(brandID uuid.UUID) []model.Device
	FindByIDAndUser(id, userID uuid.UUID) (model.Device, bool)
	// Modify applies fn to the stored device and saves the result as one
	// step, so concurrent partial updates do not overwrite each other.
	Modify(id uuid.UUID, fn func(*model.Device) error) (model.Device, error)
}

// InMemoryDeviceRepository is a DeviceRepository backed by a datastore.Store.
type InMemoryDeviceRepository struct {
	store *datastore.Store
}

var _ DeviceRepository = (*InMemoryDeviceRepository)(nil)

// NewInMemoryDeviceRepository creates a device repository over store.
func NewInMemoryDeviceRepository(store *datastore.Store) *InMemoryDeviceRepository {
	return &InMemoryDeviceRepository{store: store}
}

// Find returns the device with the given ID.
func (r *InMemoryDeviceRepository) Find(id uuid.UUID) (model.Device, bool) {
	return r.store.FindDevice(id)
}

// FindAll returns every device.
func (r *InMemoryDeviceRepository) FindAll() []model.Device {
	return r.store.FindAllDevices()
}

// FindAllByUser returns the devices owned by userID.
func (r *InMemoryDeviceRepository) FindAllByUser(userID uuid.UUID) []model.Device {
	return filter(r.store.FindAllDevices(), func(d model.Device) bool {
		return d.User != nil && d.User.ID == userID
	})
}

// FindAllByBrand returns the devices made by brandID.
func (r *InMemoryDeviceRepository) FindAllByBrand(brandID uuid.UUID) []model.Device {
	return filter(r.store.FindAllDevices(), func(d model.Device) bool {
		return d.Brand != nil && d.Brand.ID == brandID
	})
}

// FindByIDAndUser returns the device only if userID owns it.
func (r *InMemoryDeviceRepository) FindByIDAndUser(id, userID uuid.UUID) (model.Device, bool) {
	d, ok := r.store.FindDevice(id)
	if !ok || d.User == nil || d.User.ID != userID {
		return model.Device{}, false
	}
	return d, true
}

// Create stores a new device.
func (r *InMemoryDeviceRepository) Create(device model.Device) (model.Device, error) {
	return r.store.CreateDevice(device)
}

// Update replaces an existing device.
func (r *InMemoryDeviceRepository) Update(device model.Device) (model.Device, error) {
	return r.store.UpdateDevice(device)
}

// Delete removes a device.
func (r *InMemoryDeviceRepository) Delete(id uuid.UUID) error {
	return r.store.DeleteDevice(id)
}

// Modify applies fn to the stored device atomically.
func (r *InMemoryDeviceRepository) Modify(id uuid.UUID, fn func(*model.Device) error) (model.Device, error) {
	return r.store.ModifyDevice(id, fn)
}
