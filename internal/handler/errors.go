package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/devicehub/devicehub/internal/model"
	"github.com/devicehub/devicehub/internal/service"
)

// handleServiceError maps service and storage errors to HTTP responses.
func handleServiceError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, model.ErrDuplicateKey):
		writeError(w, http.StatusConflict, "DUPLICATE_KEY", err.Error())
	case errors.Is(err, model.ErrDanglingReference):
		writeError(w, http.StatusBadRequest, "DANGLING_REFERENCE", err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, model.ErrUnsupported):
		writeError(w, http.StatusNotImplemented, "UNSUPPORTED", "Operation is not supported")
	case errors.Is(err, service.ErrImageIO):
		logger.Error("image_io_failure", "error", err)
		writeError(w, http.StatusInternalServerError, "IO_FAILURE", "Image storage failure")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
