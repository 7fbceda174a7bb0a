// Package testutil provides shared helpers and fixtures for tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/devicehub/devicehub/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// NopLogger returns a logger that discards everything.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, login string) model.User {
	t.Helper()
	return model.User{
		ID:        uuid.New(),
		Login:     login,
		Name:      "Test",
		Surname:   "User",
		BirthDate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Email:     login + "@example.com",
		Password:  "hash-" + login,
		Roles:     []model.Role{model.RoleUser},
	}
}

// NewTestBrand creates a test brand with sensible defaults.
func NewTestBrand(t testing.TB, name string) model.Brand {
	t.Helper()
	return model.Brand{
		ID:            uuid.New(),
		Name:          name,
		EstablishedAt: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// NewTestDevice creates a test device referencing user and brand.
func NewTestDevice(t testing.TB, name string, user model.User, brand model.Brand) model.Device {
	t.Helper()
	return model.Device{
		ID:    uuid.New(),
		Name:  name,
		Price: 1000,
		Mass:  500,
		Type:  model.DeviceTypePhone,
		User:  &user,
		Brand: &brand,
	}
}
