package dto

import "github.com/devicehub/devicehub/internal/model"

// PutBrandRequest represents the request body for creating a brand.
type PutBrandRequest struct {
	Name          string `json:"name"`
	EstablishedAt string `json:"established_at,omitempty"`
}

// BrandResponse represents a brand in API responses.
type BrandResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	EstablishedAt string `json:"established_at,omitempty"`
}

// BrandListResponse represents a list of brands.
type BrandListResponse struct {
	Data []BrandResponse `json:"data"`
}

// BrandDeleteResponse reports the outcome of a cascading brand deletion.
type BrandDeleteResponse struct {
	ID             string `json:"id"`
	DevicesRemoved int    `json:"devices_removed"`
}

// ToBrandResponse converts a Brand model to BrandResponse DTO.
func ToBrandResponse(b model.Brand) BrandResponse {
	return BrandResponse{
		ID:            b.ID.String(),
		Name:          b.Name,
		EstablishedAt: FormatDate(b.EstablishedAt),
	}
}

// ToBrandListResponse converts brands to BrandListResponse DTO.
func ToBrandListResponse(brands []model.Brand) BrandListResponse {
	data := make([]BrandResponse, len(brands))
	for i, b := range brands {
		data[i] = ToBrandResponse(b)
	}
	return BrandListResponse{Data: data}
}
