package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/devicehub/devicehub/internal/auth"
	"github.com/devicehub/devicehub/internal/blob"
	"github.com/devicehub/devicehub/internal/metrics"
	"github.com/devicehub/devicehub/internal/model"
	"github.com/devicehub/devicehub/internal/repository"
)

// UserService handles user business logic. User images live in the blob
// store keyed by user ID, outside the datastore.
type UserService struct {
	users   repository.UserRepository
	blobs   blob.Store
	hasher  auth.PasswordHasher
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users repository.UserRepository,
	blobs blob.Store,
	hasher auth.PasswordHasher,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:   users,
		blobs:   blobs,
		hasher:  hasher,
		metrics: recorder,
		logger:  logger,
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	ID        uuid.UUID
	Login     string
	Name      string
	Surname   string
	BirthDate time.Time
	Email     string
	Password  string
	Roles     []model.Role
}

// UpdateUserInput lists the user fields that may change. Nil fields are kept.
type UpdateUserInput struct {
	Name      *string
	Surname   *string
	BirthDate *time.Time
	Email     *string
}

// Find returns the user with the given ID.
func (s *UserService) Find(_ context.Context, id uuid.UUID) (model.User, bool) {
	return s.users.Find(id)
}

// FindAll returns every user.
func (s *UserService) FindAll(_ context.Context) []model.User {
	return s.users.FindAll()
}

// FindByLogin returns the user with the given login.
func (s *UserService) FindByLogin(_ context.Context, login string) (model.User, bool) {
	return s.users.FindByLogin(login)
}

// Create hashes the plaintext password and stores a new user.
// Users without roles are granted model.RoleUser. A taken ID or login yields
// model.ErrDuplicateKey; the store decides under its lock, the lookup here
// only skips hashing for obvious conflicts.
func (s *UserService) Create(_ context.Context, input CreateUserInput) (model.User, error) {
	user := model.User{
		ID:        input.ID,
		Login:     input.Login,
		Name:      input.Name,
		Surname:   input.Surname,
		BirthDate: input.BirthDate,
		Email:     input.Email,
		Roles:     input.Roles,
	}
	if len(user.Roles) == 0 {
		user.Roles = []model.Role{model.RoleUser}
	}
	if err := validateUser(user); err != nil {
		return model.User{}, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return model.User{}, err
	}
	if _, taken := s.users.FindByLogin(user.Login); taken {
		return model.User{}, fmt.Errorf("login %q: %w", user.Login, model.ErrDuplicateKey)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash

	created, err := s.users.Create(user)
	if err != nil {
		return model.User{}, err
	}

	s.metrics.IncEntityCreated(metrics.KindUser)
	return created, nil
}

// Update applies input to the stored user. Login, password and roles are
// kept.
func (s *UserService) Update(_ context.Context, id uuid.UUID, input UpdateUserInput) (model.User, error) {
	user, ok := s.users.Find(id)
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", id, model.ErrNotFound)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Surname != nil {
		user.Surname = *input.Surname
	}
	if input.BirthDate != nil {
		user.BirthDate = *input.BirthDate
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if err := validateUser(user); err != nil {
		return model.User{}, err
	}

	updated, err := s.users.Update(user)
	if err != nil {
		return model.User{}, err
	}

	s.metrics.IncEntityUpdated(metrics.KindUser)
	return updated, nil
}

// UpdatePassword replaces the user's credential with a hash of password.
func (s *UserService) UpdatePassword(_ context.Context, id uuid.UUID, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	user, ok := s.users.Find(id)
	if !ok {
		return fmt.Errorf("user %s: %w", id, model.ErrNotFound)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash

	if _, err := s.users.Update(user); err != nil {
		return err
	}
	s.metrics.IncEntityUpdated(metrics.KindUser)
	return nil
}

// Verify reports whether login and password identify a stored user.
func (s *UserService) Verify(_ context.Context, login, password string) bool {
	user, ok := s.users.FindByLogin(login)
	if !ok {
		s.metrics.IncCredentialCheck(metrics.CredentialUnknown)
		return false
	}
	if !s.hasher.Verify(password, user.Password) {
		s.metrics.IncCredentialCheck(metrics.CredentialInvalid)
		return false
	}
	s.metrics.IncCredentialCheck(metrics.CredentialValid)
	return true
}

// Delete removes the user and then the user's image. Devices owned by the
// user are kept. Once the user record is gone the delete has succeeded; a
// failed image cleanup is logged and counted but not returned.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(id); err != nil {
		return err
	}
	s.metrics.IncEntityDeleted(metrics.KindUser)

	if err := s.blobs.Delete(ctx, id); err != nil {
		s.metrics.IncBlobFailure("delete")
		s.logger.Warn("user_image_orphaned", "user_id", id, "error", err)
	}
	return nil
}

// Image returns the user's image. ok is false when no image was stored.
func (s *UserService) Image(ctx context.Context, id uuid.UUID) ([]byte, bool, error) {
	if _, ok := s.users.Find(id); !ok {
		return nil, false, fmt.Errorf("user %s: %w", id, model.ErrNotFound)
	}
	data, ok, err := s.blobs.Read(ctx, id)
	if err != nil {
		s.metrics.IncBlobFailure("read")
		return nil, false, fmt.Errorf("%w: read image of user %s: %v", ErrImageIO, id, err)
	}
	return data, ok, nil
}

// PutImage stores r as the user's image, replacing any previous one.
func (s *UserService) PutImage(ctx context.Context, id uuid.UUID, r io.Reader) error {
	if _, ok := s.users.Find(id); !ok {
		return fmt.Errorf("user %s: %w", id, model.ErrNotFound)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: read upload: %v", ErrImageIO, err)
	}
	if err := s.blobs.Save(ctx, id, bytes.NewReader(data)); err != nil {
		s.metrics.IncBlobFailure("save")
		return fmt.Errorf("%w: save image of user %s: %v", ErrImageIO, id, err)
	}

	s.metrics.ObserveImageSize(metrics.KindUser, len(data))
	return nil
}

// DeleteImage removes the user's image if there is one.
func (s *UserService) DeleteImage(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users.Find(id); !ok {
		return fmt.Errorf("user %s: %w", id, model.ErrNotFound)
	}
	if err := s.blobs.Delete(ctx, id); err != nil {
		s.metrics.IncBlobFailure("delete")
		return fmt.Errorf("%w: delete image of user %s: %v", ErrImageIO, id, err)
	}
	return nil
}
