package handler

import (
	"log/slog"
	"net/http"

	"github.com/devicehub/devicehub/internal/handler/dto"
	"github.com/devicehub/devicehub/internal/model"
	"github.com/devicehub/devicehub/internal/service"
)

// BrandHandler handles HTTP requests for brand operations.
type BrandHandler struct {
	brands  *service.BrandService
	devices *service.DeviceService
	logger  *slog.Logger
}

// NewBrandHandler creates a new BrandHandler.
func NewBrandHandler(brands *service.BrandService, devices *service.DeviceService, logger *slog.Logger) *BrandHandler {
	return &BrandHandler{
		brands:  brands,
		devices: devices,
		logger:  logger,
	}
}

// List handles GET /api/brands.
func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ToBrandListResponse(h.brands.FindAll(r.Context())))
}

// Get handles GET /api/brands/{id}.
func (h *BrandHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	brand, found := h.brands.Find(r.Context(), id)
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Brand not found")
		return
	}
	writeJSON(w, http.StatusOK, dto.ToBrandResponse(brand))
}

// Create handles PUT /api/brands/{id}.
func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.PutBrandRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	established, err := dto.ParseDate(req.EstablishedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	brand, err := h.brands.Create(r.Context(), id, service.BrandInput{
		Name:          req.Name,
		EstablishedAt: established,
	})
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("brand_created", "brand_id", id, "name", brand.Name)

	w.Header().Set("Location", "/api/brands/"+id.String())
	writeJSON(w, http.StatusCreated, dto.ToBrandResponse(brand))
}

// Update handles PATCH /api/brands/{id}. Brands are immutable once stored.
func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	_, err := h.brands.Update(r.Context(), id, service.BrandInput{})
	if err == nil {
		err = model.ErrUnsupported
	}
	handleServiceError(h.logger, w, err)
}

// Delete handles DELETE /api/brands/{id}. Devices of the brand are removed
// with it.
func (h *BrandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cascaded, err := h.brands.Delete(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("brand_deleted", "brand_id", id, "cascaded_devices", cascaded)
	writeJSON(w, http.StatusOK, dto.BrandDeleteResponse{
		ID:             id.String(),
		DevicesRemoved: cascaded,
	})
}

// Devices handles GET /api/brands/{id}/devices.
func (h *BrandHandler) Devices(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	devices, err := h.devices.FindAllByBrand(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToDeviceListResponse(devices))
}
