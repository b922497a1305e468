package repository

import (
	"context"

	"oficina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MechanicRepository interface {
	Create(ctx context.Context, m *model.Mechanic) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Mechanic, error)
	List(ctx context.Context, includeInactive bool) ([]model.Mechanic, error)
	Update(ctx context.Context, m *model.Mechanic) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type mechanicRepo struct{ db *gorm.DB }

func NewMechanicRepository(db *gorm.DB) MechanicRepository { return &mechanicRepo{db: db} }

func (r *mechanicRepo) Create(ctx context.Context, m *model.Mechanic) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *mechanicRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Mechanic, error) {
	var m model.Mechanic
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *mechanicRepo) List(ctx context.Context, includeInactive bool) ([]model.Mechanic, error) {
	var mechanics []model.Mechanic
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Find(&mechanics).Error
	return mechanics, err
}

func (r *mechanicRepo) Update(ctx context.Context, m *model.Mechanic) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *mechanicRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Mechanic{}).Where("id = ?", id).Update("active", active).Error
}
