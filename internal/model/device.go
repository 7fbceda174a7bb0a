package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DeviceType is the closed set of device categories.
type DeviceType string

const (
	DeviceTypeFridge DeviceType = "FRIDGE"
	DeviceTypePhone  DeviceType = "PHONE"
	DeviceTypeTV     DeviceType = "TV"
	DeviceTypeTablet DeviceType = "TABLET"
)

// DeviceTypes lists every known device type.
var DeviceTypes = []DeviceType{
	DeviceTypeFridge,
	DeviceTypePhone,
	DeviceTypeTV,
	DeviceTypeTablet,
}

// IsValid checks if the device type is one of the known values.
func (t DeviceType) IsValid() bool {
	for _, known := range DeviceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseDeviceType converts a case-insensitive name into a DeviceType.
func ParseDeviceType(s string) (DeviceType, error) {
	t := DeviceType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown device type %q", s)
	}
	return t, nil
}

// Device represents a catalog item owned by a user and made by a brand.
// User and Brand are snapshots of the related entities taken at write time.
type Device struct {
	ID    uuid.UUID  `json:"id"`
	Name  string     `json:"name"`
	Price int        `json:"price"`
	Mass  int        `json:"mass"`
	Type  DeviceType `json:"device_type"`
	User  *User      `json:"user,omitempty"`
	Brand *Brand     `json:"brand,omitempty"`
	Image []byte     `json:"-"`
}

// HasImage reports whether an image is attached to the device.
func (d *Device) HasImage() bool {
	return len(d.Image) > 0
}
