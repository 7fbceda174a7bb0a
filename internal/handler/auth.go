package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/devicehub/devicehub/internal/cache"
	"github.com/devicehub/devicehub/internal/handler/dto"
	"github.com/devicehub/devicehub/internal/service"
)

// Login attempt budget per login when a limiter is configured.
const (
	loginAttemptsPerMinute = 10
	loginAttemptBurst      = 5
)

// LoginLimiter throttles credential checks per login.
type LoginLimiter interface {
	CheckLoginRateLimit(ctx context.Context, login string, ratePerMinute, burst int) (*cache.RateLimitResult, error)
}

// AuthHandler handles credential verification.
type AuthHandler struct {
	users   *service.UserService
	limiter LoginLimiter
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. limiter may be nil.
func NewAuthHandler(users *service.UserService, limiter LoginLimiter, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:   users,
		limiter: limiter,
		logger:  logger,
	}
}

// Verify handles POST /api/auth/verify. It answers 204 when the login and
// password identify a stored user and 401 otherwise.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "login and password are required")
		return
	}

	if h.limiter != nil {
		result, err := h.limiter.CheckLoginRateLimit(r.Context(), login, loginAttemptsPerMinute, loginAttemptBurst)
		if err != nil {
			h.logger.Warn("login_rate_limit_check_failed", "error", err)
		} else if !result.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many attempts, please retry later")
			return
		}
	}

	if !h.users.Verify(r.Context(), login, req.Password) {
		h.logger.Info("credential_rejected", "login", login)
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid login or password")
		return
	}

	h.logger.Info("credential_verified", "login", login)
	w.WriteHeader(http.StatusNoContent)
}
