package repository

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/devicehub/devicehub/internal/datastore"
	"github.com/devicehub/devicehub/internal/model"
)

// BrandRepository stores brands. Brands cannot be updated.
type BrandRepository interface {
	Repository[model.Brand]
	// DeleteCascade removes the brand and its devices, returning how many
	// devices were removed.
	DeleteCascade(id uuid.UUID) (int, error)
}

// InMemoryBrandRepository is a BrandRepository backed by a datastore.Store.
type InMemoryBrandRepository struct {
	store *datastore.Store
}

var _ BrandRepository = (*InMemoryBrandRepository)(nil)

// NewInMemoryBrandRepository creates a brand repository over store.
func NewInMemoryBrandRepository(store *datastore.Store) *InMemoryBrandRepository {
	return &InMemoryBrandRepository{store: store}
}

// Find returns the brand with the given ID.
func (r *InMemoryBrandRepository) Find(id uuid.UUID) (model.Brand, bool) {
	return r.store.FindBrand(id)
}

// FindAll returns every brand.
func (r *InMemoryBrandRepository) FindAll() []model.Brand {
	return r.store.FindAllBrands()
}

// Create stores a new brand.
func (r *InMemoryBrandRepository) Create(brand model.Brand) (model.Brand, error) {
	return r.store.CreateBrand(brand)
}

// Update always fails with model.ErrUnsupported.
func (r *InMemoryBrandRepository) Update(brand model.Brand) (model.Brand, error) {
	return model.Brand{}, fmt.Errorf("update brand %s: %w", brand.ID, model.ErrUnsupported)
}

// Delete removes the brand together with its devices.
func (r *InMemoryBrandRepository) Delete(id uuid.UUID) error {
	_, err := r.store.DeleteBrand(id)
	return err
}

// DeleteCascade removes the brand together with its devices.
func (r *InMemoryBrandRepository) DeleteCascade(id uuid.UUID) (int, error) {
	return r.store.DeleteBrand(id)
}
