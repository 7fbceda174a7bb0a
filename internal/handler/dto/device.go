package dto

import "github.com/devicehub/devicehub/internal/model"

// PutDeviceRequest represents the request body for creating or replacing a
// device.
type PutDeviceRequest struct {
	Name       string `json:"name"`
	Price      int    `json:"price"`
	Mass       int    `json:"mass"`
	DeviceType string `json:"device_type"`
	UserID     string `json:"user_id"`
	BrandID    string `json:"brand_id"`
}

// PatchDeviceRequest represents the request body for updating a device.
type PatchDeviceRequest struct {
	Name       *string `json:"name,omitempty"`
	Price      *int    `json:"price,omitempty"`
	Mass       *int    `json:"mass,omitempty"`
	DeviceType *string `json:"device_type,omitempty"`
}

// DeviceResponse represents a device in API responses. Image bytes are served
// by the image endpoint.
type DeviceResponse struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Price      int            `json:"price"`
	Mass       int            `json:"mass"`
	DeviceType string         `json:"device_type"`
	Brand      *BrandResponse `json:"brand,omitempty"`
	User       *UserSummary   `json:"user,omitempty"`
	HasImage   bool           `json:"has_image"`
}

// DeviceListResponse represents a list of devices.
type DeviceListResponse struct {
	Data []DeviceResponse `json:"data"`
}

// ToDeviceResponse converts a Device model to DeviceResponse DTO.
func ToDeviceResponse(d model.Device) DeviceResponse {
	resp := DeviceResponse{
		ID:         d.ID.String(),
		Name:       d.Name,
		Price:      d.Price,
		Mass:       d.Mass,
		DeviceType: string(d.Type),
		HasImage:   d.HasImage(),
	}
	if d.Brand != nil {
		b := ToBrandResponse(*d.Brand)
		resp.Brand = &b
	}
	if d.User != nil {
		resp.User = &UserSummary{ID: d.User.ID.String(), Login: d.User.Login}
	}
	return resp
}

// ToDeviceListResponse converts devices to DeviceListResponse DTO.
func ToDeviceListResponse(devices []model.Device) DeviceListResponse {
	data := make([]DeviceResponse, len(devices))
	for i, d := range devices {
		data[i] = ToDeviceResponse(d)
	}
	return DeviceListResponse{Data: data}
}
