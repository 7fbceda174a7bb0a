package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/devicehub/devicehub/internal/metrics"
	"github.com/devicehub/devicehub/internal/model"
	"github.com/devicehub/devicehub/internal/repository"
)

// DeviceService handles device business logic. Device images are stored
// inside the device itself.
type DeviceService struct {
	devices repository.DeviceRepository
	users   repository.UserRepository
	brands  repository.BrandRepository
	metrics metrics.Recorder
}

// NewDeviceService creates a new DeviceService.
func NewDeviceService(
	devices repository.DeviceRepository,
	users repository.UserRepository,
	brands repository.BrandRepository,
	recorder metrics.Recorder,
) *DeviceService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &DeviceService{
		devices: devices,
		users:   users,
		brands:  brands,
		metrics: recorder,
	}
}

// DeviceInput defines the writable device fields. UserID and BrandID must
// name stored entities.
type DeviceInput struct {
	Name    string
	Price   int
	Mass    int
	Type    model.DeviceType
	UserID  uuid.UUID
	BrandID uuid.UUID
}

// PatchDeviceInput lists the device fields a partial update may change.
// Nil fields are kept.
type PatchDeviceInput struct {
	Name  *string
	Price *int
	Mass  *int
	Type  *model.DeviceType
}

func (in DeviceInput) device(id uuid.UUID) model.Device {
	return model.Device{
		ID:    id,
		Name:  in.Name,
		Price: in.Price,
		Mass:  in.Mass,
		Type:  in.Type,
		User:  &model.User{ID: in.UserID},
		Brand: &model.Brand{ID: in.BrandID},
	}
}

// Find returns the device with the given ID.
func (s *DeviceService) Find(_ context.Context, id uuid.UUID) (model.Device, bool) {
	return s.devices.Find(id)
}

// FindForUser returns the device only if it is owned by userID.
func (s *DeviceService) FindForUser(_ context.Context, id, userID uuid.UUID) (model.Device, bool) {
	return s.devices.FindByIDAndUser(id, userID)
}

// FindAll returns every device.
func (s *DeviceService) FindAll(_ context.Context) []model.Device {
	return s.devices.FindAll()
}

// FindAllByUser returns the devices owned by a stored user.
func (s *DeviceService) FindAllByUser(_ context.Context, userID uuid.UUID) ([]model.Device, error) {
	if _, ok := s.users.Find(userID); !ok {
		return nil, fmt.Errorf("user %s: %w", userID, model.ErrNotFound)
	}
	return s.devices.FindAllByUser(userID), nil
}

// FindAllByBrand returns the devices of a stored brand.
func (s *DeviceService) FindAllByBrand(_ context.Context, brandID uuid.UUID) ([]model.Device, error) {
	if _, ok := s.brands.Find(brandID); !ok {
		return nil, fmt.Errorf("brand %s: %w", brandID, model.ErrNotFound)
	}
	return s.devices.FindAllByBrand(brandID), nil
}

// Create stores a new device under id.
func (s *DeviceService) Create(_ context.Context, id uuid.UUID, input DeviceInput) (model.Device, error) {
	device := input.device(id)
	if err := validateDevice(device); err != nil {
		return model.Device{}, err
	}

	created, err := s.devices.Create(device)
	if err != nil {
		return model.Device{}, err
	}

	s.metrics.IncEntityCreated(metrics.KindDevice)
	return created, nil
}

// Update replaces the stored device. The attached image is kept.
func (s *DeviceService) Update(_ context.Context, id uuid.UUID, input DeviceInput) (model.Device, error) {
	updated, err := s.devices.Modify(id, func(current *model.Device) error {
		device := input.device(id)
		device.Image = current.Image
		if err := validateDevice(device); err != nil {
			return err
		}
		*current = device
		return nil
	})
	if err != nil {
		return model.Device{}, err
	}
	s.metrics.IncEntityUpdated(metrics.KindDevice)
	return updated, nil
}

// Patch applies input to the stored device. Owner, brand and image are kept.
func (s *DeviceService) Patch(_ context.Context, id uuid.UUID, input PatchDeviceInput) (model.Device, error) {
	updated, err := s.devices.Modify(id, func(device *model.Device) error {
		if input.Name != nil {
			device.Name = *input.Name
		}
		if input.Price != nil {
			device.Price = *input.Price
		}
		if input.Mass != nil {
			device.Mass = *input.Mass
		}
		if input.Type != nil {
			device.Type = *input.Type
		}
		return validateDevice(*device)
	})
	if err != nil {
		return model.Device{}, err
	}
	s.metrics.IncEntityUpdated(metrics.KindDevice)
	return updated, nil
}

// Delete removes the device.
func (s *DeviceService) Delete(_ context.Context, id uuid.UUID) error {
	if err := s.devices.Delete(id); err != nil {
		return err
	}
	s.metrics.IncEntityDeleted(metrics.KindDevice)
	return nil
}

// Image returns the device's image. ok is false when none is attached.
func (s *DeviceService) Image(_ context.Context, id uuid.UUID) ([]byte, bool, error) {
	device, ok := s.devices.Find(id)
	if !ok {
		return nil, false, fmt.Errorf("device %s: %w", id, model.ErrNotFound)
	}
	if !device.HasImage() {
		return nil, false, nil
	}
	return device.Image, true, nil
}

// PutImage reads r into the device's image and stores the device.
func (s *DeviceService) PutImage(_ context.Context, id uuid.UUID, r io.Reader) error {
	if _, ok := s.devices.Find(id); !ok {
		return fmt.Errorf("device %s: %w", id, model.ErrNotFound)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: read upload: %v", ErrImageIO, err)
	}

	_, err = s.devices.Modify(id, func(device *model.Device) error {
		device.Image = data
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.IncEntityUpdated(metrics.KindDevice)
	s.metrics.ObserveImageSize(metrics.KindDevice, len(data))
	return nil
}
