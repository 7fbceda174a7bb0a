package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/devicehub/devicehub/internal/handler/dto"
	"github.com/devicehub/devicehub/internal/model"
	"github.com/devicehub/devicehub/internal/service"
)

// DeviceHandler handles HTTP requests for device operations.
type DeviceHandler struct {
	svc          *service.DeviceService
	maxImageSize int64
	logger       *slog.Logger
}

// NewDeviceHandler creates a new DeviceHandler.
func NewDeviceHandler(svc *service.DeviceService, maxImageSize int64, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{
		svc:          svc,
		maxImageSize: maxImageSize,
		logger:       logger,
	}
}

// List handles GET /api/devices.
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ToDeviceListResponse(h.svc.FindAll(r.Context())))
}

// Get handles GET /api/devices/{id}.
func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	device, found := h.svc.Find(r.Context(), id)
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Device not found")
		return
	}
	writeJSON(w, http.StatusOK, dto.ToDeviceResponse(device))
}

// Put handles PUT /api/devices/{id}. An unknown id creates the device (201),
// a known one is replaced (200) with its image kept.
func (h *DeviceHandler) Put(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.PutDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	input, ok := deviceInput(w, req)
	if !ok {
		return
	}

	if _, exists := h.svc.Find(r.Context(), id); exists {
		device, err := h.svc.Update(r.Context(), id, input)
		if err != nil {
			handleServiceError(h.logger, w, err)
			return
		}
		h.logger.Info("device_updated", "device_id", id)
		writeJSON(w, http.StatusOK, dto.ToDeviceResponse(device))
		return
	}

	device, err := h.svc.Create(r.Context(), id, input)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("device_created",
		"device_id", id,
		"user_id", input.UserID,
		"brand_id", input.BrandID,
	)

	w.Header().Set("Location", "/api/devices/"+id.String())
	writeJSON(w, http.StatusCreated, dto.ToDeviceResponse(device))
}

// Patch handles PATCH /api/devices/{id}.
func (h *DeviceHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.PatchDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := service.PatchDeviceInput{
		Name:  req.Name,
		Price: req.Price,
		Mass:  req.Mass,
	}
	if req.DeviceType != nil {
		t, err := model.ParseDeviceType(*req.DeviceType)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
			return
		}
		input.Type = &t
	}

	device, err := h.svc.Patch(r.Context(), id, input)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("device_updated", "device_id", id)
	writeJSON(w, http.StatusOK, dto.ToDeviceResponse(device))
}

// Delete handles DELETE /api/devices/{id}.
func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("device_deleted", "device_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Image handles GET /api/devices/{id}/image.
func (h *DeviceHandler) Image(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	data, found, err := h.svc.Image(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "IMAGE_NOT_FOUND", "Device has no image")
		return
	}
	writeImage(w, data)
}

// PutImage handles PUT /api/devices/{id}/image.
func (h *DeviceHandler) PutImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	data, ok := readImage(w, r, h.maxImageSize)
	if !ok {
		return
	}
	size := data.Len()

	if err := h.svc.PutImage(r.Context(), id, data); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("device_image_stored", "device_id", id, "bytes", size)
	w.WriteHeader(http.StatusNoContent)
}

// deviceInput converts a request body to service input. On failure it
// writes a 400 response and returns false.
func deviceInput(w http.ResponseWriter, req dto.PutDeviceRequest) (service.DeviceInput, bool) {
	t, err := model.ParseDeviceType(req.DeviceType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return service.DeviceInput{}, false
	}
	userID, err := parseRef(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "user_id must be a UUID")
		return service.DeviceInput{}, false
	}
	brandID, err := parseRef(req.BrandID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "brand_id must be a UUID")
		return service.DeviceInput{}, false
	}

	return service.DeviceInput{
		Name:    req.Name,
		Price:   req.Price,
		Mass:    req.Mass,
		Type:    t,
		UserID:  userID,
		BrandID: brandID,
	}, true
}

// parseRef parses a related entity id. An empty reference yields uuid.Nil,
// which the datastore reports as dangling.
func parseRef(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}
