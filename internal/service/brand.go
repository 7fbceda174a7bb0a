package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/devicehub/devicehub/internal/metrics"
	"github.com/devicehub/devicehub/internal/model"
	"github.com/devicehub/devicehub/internal/repository"
)

// BrandService handles brand business logic.
type BrandService struct {
	brands  repository.BrandRepository
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewBrandService creates a new BrandService.
func NewBrandService(brands repository.BrandRepository, recorder metrics.Recorder, logger *slog.Logger) *BrandService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BrandService{brands: brands, metrics: recorder, logger: logger}
}

// BrandInput defines the writable brand fields.
type BrandInput struct {
	Name          string
	EstablishedAt time.Time
}

// Find returns the brand with the given ID.
func (s *BrandService) Find(_ context.Context, id uuid.UUID) (model.Brand, bool) {
	return s.brands.Find(id)
}

// FindAll returns every brand.
func (s *BrandService) FindAll(_ context.Context) []model.Brand {
	return s.brands.FindAll()
}

// Create stores a new brand under id.
func (s *BrandService) Create(_ context.Context, id uuid.UUID, input BrandInput) (model.Brand, error) {
	brand := model.Brand{ID: id, Name: input.Name, EstablishedAt: input.EstablishedAt}
	if err := validateBrand(brand); err != nil {
		return model.Brand{}, err
	}

	created, err := s.brands.Create(brand)
	if err != nil {
		return model.Brand{}, err
	}

	s.metrics.IncEntityCreated(metrics.KindBrand)
	return created, nil
}

// Update is not supported for brands; the repository error is returned.
func (s *BrandService) Update(_ context.Context, id uuid.UUID, input BrandInput) (model.Brand, error) {
	return s.brands.Update(model.Brand{ID: id, Name: input.Name, EstablishedAt: input.EstablishedAt})
}

// Delete removes the brand together with its devices and returns the
// number of devices removed.
func (s *BrandService) Delete(_ context.Context, id uuid.UUID) (int, error) {
	cascaded, err := s.brands.DeleteCascade(id)
	if err != nil {
		return 0, err
	}

	s.metrics.IncEntityDeleted(metrics.KindBrand)
	s.metrics.AddCascadeDeleted(cascaded)
	if cascaded > 0 {
		s.logger.Info("brand devices removed", "brand_id", id, "devices", cascaded)
	}
	return cascaded, nil
}
