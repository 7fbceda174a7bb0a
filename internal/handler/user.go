package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/devicehub/devicehub/internal/handler/dto"
	"github.com/devicehub/devicehub/internal/model"
	"github.com/devicehub/devicehub/internal/service"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	users        *service.UserService
	devices      *service.DeviceService
	maxImageSize int64
	logger       *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, devices *service.DeviceService, maxImageSize int64, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:        users,
		devices:      devices,
		maxImageSize: maxImageSize,
		logger:       logger,
	}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ToUserListResponse(h.users.FindAll(r.Context())))
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, found := h.users.Find(r.Context(), id)
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Create handles PUT /api/users/{id}.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.PutUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	birthDate, err := dto.ParseDate(req.BirthDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	roles := make([]model.Role, len(req.Roles))
	for i, role := range req.Roles {
		roles[i] = model.Role(strings.ToUpper(strings.TrimSpace(role)))
	}

	user, err := h.users.Create(r.Context(), service.CreateUserInput{
		ID:        id,
		Login:     req.Login,
		Name:      req.Name,
		Surname:   req.Surname,
		BirthDate: birthDate,
		Email:     req.Email,
		Password:  req.Password,
		Roles:     roles,
	})
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID, "login", user.Login)

	w.Header().Set("Location", "/api/users/"+user.ID.String())
	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Update handles PATCH /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.PatchUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := service.UpdateUserInput{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
	}
	if req.BirthDate != nil {
		birthDate, err := dto.ParseDate(*req.BirthDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
			return
		}
		input.BirthDate = &birthDate
	}

	user, err := h.users.Update(r.Context(), id, input)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("user_updated", "user_id", id)
	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// ChangePassword handles PUT /api/users/{id}/password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.PutPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.users.UpdatePassword(r.Context(), id, req.Password); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("user_password_changed", "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/users/{id}. Devices owned by the user are kept.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Devices handles GET /api/users/{id}/devices.
func (h *UserHandler) Devices(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	devices, err := h.devices.FindAllByUser(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToDeviceListResponse(devices))
}

// Image handles GET /api/users/{id}/image.
func (h *UserHandler) Image(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	data, found, err := h.users.Image(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "IMAGE_NOT_FOUND", "User has no image")
		return
	}
	writeImage(w, data)
}

// PutImage handles PUT /api/users/{id}/image.
func (h *UserHandler) PutImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	data, ok := readImage(w, r, h.maxImageSize)
	if !ok {
		return
	}

	start := time.Now()
	if err := h.users.PutImage(r.Context(), id, data); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("user_image_stored", "user_id", id, "duration_ms", time.Since(start).Milliseconds())
	w.WriteHeader(http.StatusNoContent)
}

// DeleteImage handles DELETE /api/users/{id}/image.
func (h *UserHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.users.DeleteImage(r.Context(), id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("user_image_deleted", "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}
