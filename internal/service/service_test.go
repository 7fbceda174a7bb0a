package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicehub/devicehub/internal/blob/memory"
	"github.com/devicehub/devicehub/internal/datastore"
	"github.com/devicehub/devicehub/internal/metrics"
	"github.com/devicehub/devicehub/internal/model"
	"github.com/devicehub/devicehub/internal/repository"
	"github.com/devicehub/devicehub/internal/testutil"
)

// prefixHasher is a reversible PasswordHasher, fast enough for unit tests.
type prefixHasher struct{}

func (prefixHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (prefixHasher) Verify(p, h string) bool       { return h == "hashed:"+p }

// slowHasher widens the gap between the login lookup and the insert.
type slowHasher struct{ prefixHasher }

func (h slowHasher) Hash(p string) (string, error) {
	time.Sleep(20 * time.Millisecond)
	return h.prefixHasher.Hash(p)
}

// brokenBlobs fails every operation.
type brokenBlobs struct{}

var errDisk = errors.New("disk unavailable")

func (brokenBlobs) Save(context.Context, uuid.UUID, io.Reader) error { return errDisk }
func (brokenBlobs) Read(context.Context, uuid.UUID) ([]byte, bool, error) {
	return nil, false, errDisk
}
func (brokenBlobs) Delete(context.Context, uuid.UUID) error { return errDisk }

type services struct {
	users   *UserService
	brands  *BrandService
	devices *DeviceService
	blobs   *memory.Store
	metrics *metrics.InMemoryRecorder
}

func newServices(t *testing.T) services {
	t.Helper()

	store := datastore.New()
	userRepo := repository.NewInMemoryUserRepository(store)
	brandRepo := repository.NewInMemoryBrandRepository(store)
	deviceRepo := repository.NewInMemoryDeviceRepository(store)
	blobs := memory.New()
	rec := metrics.NewInMemory()
	logger := testutil.NopLogger()

	return services{
		users:   NewUserService(userRepo, blobs, prefixHasher{}, rec, logger),
		brands:  NewBrandService(brandRepo, rec, logger),
		devices: NewDeviceService(deviceRepo, userRepo, brandRepo, rec),
		blobs:   blobs,
		metrics: rec,
	}
}

func kevinInput() CreateUserInput {
	return CreateUserInput{
		ID:        uuid.MustParse("81e1c2a9-7f57-439b-b53d-6db88b071e4e"),
		Login:     "kevin",
		Name:      "Kevin",
		Surname:   "Kowalski",
		BirthDate: time.Date(2001, 1, 16, 0, 0, 0, 0, time.UTC),
		Email:     "kevin@example.com",
		Password:  "useruser",
	}
}

func TestUserService_CreateHashesPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)

	u, err := s.users.Create(ctx, kevinInput())
	require.NoError(t, err)
	assert.Equal(t, "hashed:useruser", u.Password)
	assert.Equal(t, []model.Role{model.RoleUser}, u.Roles)

	assert.True(t, s.users.Verify(ctx, "kevin", "useruser"))
	assert.False(t, s.users.Verify(ctx, "kevin", "adminadmin"))
	assert.False(t, s.users.Verify(ctx, "nobody", "useruser"))

	snap := s.metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.Created[metrics.KindUser])
	assert.Equal(t, uint64(1), snap.CredentialChecks[metrics.CredentialValid])
	assert.Equal(t, uint64(1), snap.CredentialChecks[metrics.CredentialInvalid])
	assert.Equal(t, uint64(1), snap.CredentialChecks[metrics.CredentialUnknown])
}

func TestUserService_CreateRejects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)
	_, err := s.users.Create(ctx, kevinInput())
	require.NoError(t, err)

	sameID := kevinInput()
	sameID.Login = "kevin2"
	_, err = s.users.Create(ctx, sameID)
	require.ErrorIs(t, err, model.ErrDuplicateKey)

	sameLogin := kevinInput()
	sameLogin.ID = uuid.New()
	_, err = s.users.Create(ctx, sameLogin)
	require.ErrorIs(t, err, model.ErrDuplicateKey)

	tests := []struct {
		name   string
		mutate func(*CreateUserInput)
	}{
		{"short password", func(in *CreateUserInput) { in.Password = "short" }},
		{"bad login", func(in *CreateUserInput) { in.Login = "a b" }},
		{"bad email", func(in *CreateUserInput) { in.Email = "nope" }},
		{"missing name", func(in *CreateUserInput) { in.Name = " " }},
		{"unknown role", func(in *CreateUserInput) { in.Roles = []model.Role{"ROOT"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := kevinInput()
			in.ID = uuid.New()
			in.Login = "fresh"
			tt.mutate(&in)
			_, err := s.users.Create(ctx, in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Len(t, s.users.FindAll(ctx), 1)
}

func TestUserService_UpdateKeepsCredentials(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)
	u, err := s.users.Create(ctx, kevinInput())
	require.NoError(t, err)

	email := "kevin@devicehub.local"
	updated, err := s.users.Update(ctx, u.ID, UpdateUserInput{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, "Kevin", updated.Name)
	assert.Equal(t, u.Password, updated.Password)

	_, err = s.users.Update(ctx, uuid.New(), UpdateUserInput{Email: &email})
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.users.UpdatePassword(ctx, u.ID, "newpassword"))
	assert.True(t, s.users.Verify(ctx, "kevin", "newpassword"))
	assert.False(t, s.users.Verify(ctx, "kevin", "useruser"))

	require.ErrorIs(t, s.users.UpdatePassword(ctx, uuid.New(), "newpassword"), model.ErrNotFound)
	require.ErrorIs(t, s.users.UpdatePassword(ctx, u.ID, "x"), ErrInvalidInput)
}

func TestUserService_Images(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)
	u, err := s.users.Create(ctx, kevinInput())
	require.NoError(t, err)

	_, ok, err := s.users.Image(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.users.PutImage(ctx, u.ID, strings.NewReader("png")))
	img, ok, err := s.users.Image(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("png"), img)

	require.NoError(t, s.users.DeleteImage(ctx, u.ID))
	_, ok, _ = s.users.Image(ctx, u.ID)
	assert.False(t, ok)

	missing := uuid.New()
	require.ErrorIs(t, s.users.PutImage(ctx, missing, strings.NewReader("png")), model.ErrNotFound)
	assert.Zero(t, s.blobs.Len(), "no blob may be written for an absent user")
	_, _, err = s.users.Image(ctx, missing)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserService_DeleteRemovesImage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)
	u, err := s.users.Create(ctx, kevinInput())
	require.NoError(t, err)
	require.NoError(t, s.users.PutImage(ctx, u.ID, bytes.NewReader([]byte{1, 2})))
	require.Equal(t, 1, s.blobs.Len())

	require.NoError(t, s.users.Delete(ctx, u.ID))
	assert.Zero(t, s.blobs.Len())
	_, ok := s.users.Find(ctx, u.ID)
	assert.False(t, ok)

	require.ErrorIs(t, s.users.Delete(ctx, u.ID), model.ErrNotFound)
}

func TestUserService_BlobFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := datastore.New()
	rec := metrics.NewInMemory()
	users := NewUserService(repository.NewInMemoryUserRepository(store), brokenBlobs{}, prefixHasher{}, rec, testutil.NopLogger())

	u, err := users.Create(ctx, kevinInput())
	require.NoError(t, err)

	require.ErrorIs(t, users.PutImage(ctx, u.ID, strings.NewReader("png")), ErrImageIO)
	_, _, err = users.Image(ctx, u.ID)
	require.ErrorIs(t, err, ErrImageIO)

	require.NoError(t, users.Delete(ctx, u.ID), "a failed image cleanup does not undo the delete")
	_, ok := users.Find(ctx, u.ID)
	assert.False(t, ok)

	snap := rec.Snapshot()
	assert.Equal(t, uint64(1), snap.BlobFailures["save"])
	assert.Equal(t, uint64(1), snap.BlobFailures["delete"])
}

func seedCatalog(t *testing.T, s services) (model.User, model.Brand) {
	t.Helper()
	ctx := context.Background()
	u, err := s.users.Create(ctx, kevinInput())
	require.NoError(t, err)
	b, err := s.brands.Create(ctx, uuid.New(), BrandInput{Name: "Sasung"})
	require.NoError(t, err)
	return u, b
}

func TestDeviceService_CreateResolvesRelations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)
	u, b := seedCatalog(t, s)

	id := uuid.New()
	d, err := s.devices.Create(ctx, id, DeviceInput{
		Name: "LODUFKA 2000", Price: 3000, Mass: 80000, Type: model.DeviceTypeFridge,
		UserID: u.ID, BrandID: b.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sasung", d.Brand.Name)
	assert.Equal(t, "kevin", d.User.Login)

	got, ok := s.devices.Find(ctx, id)
	require.True(t, ok)
	assert.Equal(t, d, got)

	_, ok = s.devices.FindForUser(ctx, id, u.ID)
	assert.True(t, ok)
	_, ok = s.devices.FindForUser(ctx, id, uuid.New())
	assert.False(t, ok)
}

func TestDeviceService_CreateRejects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)
	u, b := seedCatalog(t, s)

	valid := DeviceInput{Name: "tablet", Price: 500, Mass: 500, Type: model.DeviceTypeTablet, UserID: u.ID, BrandID: b.ID}

	dangling := valid
	dangling.UserID = uuid.New()
	_, err := s.devices.Create(ctx, uuid.New(), dangling)
	require.ErrorIs(t, err, model.ErrDanglingReference)

	negative := valid
	negative.Price = -1
	_, err = s.devices.Create(ctx, uuid.New(), negative)
	require.ErrorIs(t, err, ErrInvalidInput)

	badType := valid
	badType.Type = "TOASTER"
	_, err = s.devices.Create(ctx, uuid.New(), badType)
	require.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, s.devices.FindAll(ctx))

	_, err = s.devices.Update(ctx, uuid.New(), valid)
	require.ErrorIs(t, err, model.ErrNotFound)
	assert.Empty(t, s.devices.FindAll(ctx))
}

func TestDeviceService_PatchAndImage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)
	u, b := seedCatalog(t, s)

	id := uuid.New()
	_, err := s.devices.Create(ctx, id, DeviceInput{Name: "phone", Price: 1000, Mass: 300, Type: model.DeviceTypePhone, UserID: u.ID, BrandID: b.ID})
	require.NoError(t, err)

	_, ok, err := s.devices.Image(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.devices.PutImage(ctx, id, strings.NewReader("png")))

	name := "oiehfoihsaef"
	price := 1200
	patched, err := s.devices.Patch(ctx, id, PatchDeviceInput{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "oiehfoihsaef", patched.Name)
	assert.Equal(t, 1200, patched.Price)
	assert.Equal(t, 300, patched.Mass)
	assert.Equal(t, b.ID, patched.Brand.ID)

	img, ok, err := s.devices.Image(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("png"), img)

	// Full update keeps the image too.
	updated, err := s.devices.Update(ctx, id, DeviceInput{Name: "phone 2", Price: 1, Mass: 1, Type: model.DeviceTypePhone, UserID: u.ID, BrandID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), updated.Image)

	require.ErrorIs(t, s.devices.PutImage(ctx, uuid.New(), strings.NewReader("png")), model.ErrNotFound)
	_, err = s.devices.Patch(ctx, uuid.New(), PatchDeviceInput{Name: &name})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeviceService_ListingsRequireOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)
	u, b := seedCatalog(t, s)

	_, err := s.devices.Create(ctx, uuid.New(), DeviceInput{Name: "tv", Type: model.DeviceTypeTV, UserID: u.ID, BrandID: b.ID})
	require.NoError(t, err)

	byUser, err := s.devices.FindAllByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	byBrand, err := s.devices.FindAllByBrand(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, byBrand, 1)

	_, err = s.devices.FindAllByUser(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.devices.FindAllByBrand(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestBrandService_DeleteCascades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)
	u, b := seedCatalog(t, s)

	for i := 0; i < 2; i++ {
		_, err := s.devices.Create(ctx, uuid.New(), DeviceInput{Name: "d", Type: model.DeviceTypeTV, UserID: u.ID, BrandID: b.ID})
		require.NoError(t, err)
	}

	n, err := s.brands.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, s.devices.FindAll(ctx))
	assert.Equal(t, uint64(2), s.metrics.Snapshot().CascadeDeleted)

	_, err = s.brands.Delete(ctx, b.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestBrandService_UpdateUnsupported(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)
	_, b := seedCatalog(t, s)

	_, err := s.brands.Update(ctx, b.ID, BrandInput{Name: "Renamed"})
	require.ErrorIs(t, err, model.ErrUnsupported)

	_, err = s.brands.Create(ctx, uuid.New(), BrandInput{Name: ""})
	require.ErrorIs(t, err, ErrInvalidInput)
}

// Deleting a user keeps that user's devices; only brand deletion cascades.
func TestUserService_DeleteKeepsDevices(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)
	u, b := seedCatalog(t, s)

	id := uuid.New()
	_, err := s.devices.Create(ctx, id, DeviceInput{Name: "d", Type: model.DeviceTypeTV, UserID: u.ID, BrandID: b.ID})
	require.NoError(t, err)

	require.NoError(t, s.users.Delete(ctx, u.ID))

	d, ok := s.devices.Find(ctx, id)
	require.True(t, ok)
	assert.Equal(t, u.ID, d.User.ID)

	_, err = s.devices.FindAllByUser(ctx, u.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserService_ConcurrentCreateSameLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := datastore.New()
	users := NewUserService(repository.NewInMemoryUserRepository(store), memory.New(), slowHasher{}, nil, testutil.NopLogger())

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := kevinInput()
			in.ID = uuid.New()
			_, errs[i] = users.Create(ctx, in)
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, model.ErrDuplicateKey)
	}
	assert.Equal(t, 1, created)

	owners := 0
	for _, u := range users.FindAll(ctx) {
		if u.Login == "kevin" {
			owners++
		}
	}
	assert.Equal(t, 1, owners)
	assert.True(t, users.Verify(ctx, "kevin", kevinInput().Password))
}

func TestDeviceService_ConcurrentPatchAndImage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newServices(t)
	u, b := seedCatalog(t, s)
	d, err := s.devices.Create(ctx, uuid.New(), DeviceInput{Name: "phone", Price: 1000, Mass: 300, Type: model.DeviceTypePhone, UserID: u.ID, BrandID: b.ID})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, s.devices.PutImage(ctx, d.ID, bytes.NewReader([]byte{0x89, 'P', 'N', 'G'})))
	}()
	go func() {
		defer wg.Done()
		name := "Renamed"
		_, err := s.devices.Patch(ctx, d.ID, PatchDeviceInput{Name: &name})
		assert.NoError(t, err)
	}()
	wg.Wait()

	got, ok := s.devices.Find(ctx, d.ID)
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, got.Image)
}
