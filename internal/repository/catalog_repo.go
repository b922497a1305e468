package repository

import (
	"context"

	"oficina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogServiceRepository is the data access contract for the labor catalog.
type CatalogServiceRepository interface {
	Create(ctx context.Context, s *model.CatalogService) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogService, error)
	List(ctx context.Context, category string, includeInactive bool) ([]model.CatalogService, error)
	Update(ctx context.Context, s *model.CatalogService) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type catalogServiceRepo struct{ db *gorm.DB }

func NewCatalogServiceRepository(db *gorm.DB) CatalogServiceRepository {
	return &catalogServiceRepo{db: db}
}

func (r *catalogServiceRepo) Create(ctx context.Context, s *model.CatalogService) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *catalogServiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogService, error) {
	var s model.CatalogService
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *catalogServiceRepo) List(ctx context.Context, category string, includeInactive bool) ([]model.CatalogService, error) {
	var services []model.CatalogService
	q := r.db.WithContext(ctx).Order("name ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Find(&services).Error
	return services, err
}

func (r *catalogServiceRepo) Update(ctx context.Context, s *model.CatalogService) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *catalogServiceRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.CatalogService{}).Where("id = ?", id).Update("active", active).Error
}
