package repository

import (
	"context"
	"errors"

	"oficina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStockFloor is returned when a stock adjustment would drive a part's
// stock below zero. The conditional UPDATE guarantees that of two concurrent
// adjustments draining the same part, at most one commits.
var ErrStockFloor = errors.New("stock adjustment below zero")

// PartRepository defines the data access contract for parts and their
// append-only movement ledger. Services depend on this interface, not on the
// concrete GORM implementation, enabling unit testing via stubs.
type PartRepository interface {
	Create(ctx context.Context, p *model.Part) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error)
	FindByPartNumber(ctx context.Context, partNumber string) (*model.Part, error)
	List(ctx context.Context, supplier string, includeInactive bool, page, limit int) ([]model.Part, int64, error)
	FindLowStock(ctx context.Context) ([]model.Part, error)
	Update(ctx context.Context, p *model.Part) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// Used inside transactions — callers must pass the tx instance.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Part, error)
	// AdjustStockTx applies a signed delta with a non-negative floor. Returns
	// ErrStockFloor when the part exists but the delta would go negative.
	AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
	CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error

	ListMovements(ctx context.Context, partID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type partRepo struct{ db *gorm.DB }

func NewPartRepository(db *gorm.DB) PartRepository { return &partRepo{db: db} }

func (r *partRepo) DB() *gorm.DB { return r.db }

func (r *partRepo) Create(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *partRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var p model.Part
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *partRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Part, error) {
	var p model.Part
	err := tx.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *partRepo) FindByPartNumber(ctx context.Context, partNumber string) (*model.Part, error) {
	var p model.Part
	err := r.db.WithContext(ctx).Where("part_number = ?", partNumber).First(&p).Error
	return &p, err
}

func (r *partRepo) List(ctx context.Context, supplier string, includeInactive bool, page, limit int) ([]model.Part, int64, error) {
	var parts []model.Part
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Part{})
	if supplier != "" {
		q = q.Where("supplier = ?", supplier)
	}
	if !includeInactive {
		q = q.Where("active = true")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").Offset((page - 1) * limit).Limit(limit).Find(&parts).Error
	return parts, total, err
}

func (r *partRepo) FindLowStock(ctx context.Context) ([]model.Part, error) {
	var parts []model.Part
	err := r.db.WithContext(ctx).
		Where("active = true AND stock <= min_stock").
		Order("stock ASC").
		Find(&parts).Error
	return parts, err
}

func (r *partRepo) Update(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *partRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Part{}).Where("id = ?", id).Update("active", active).Error
}

// AdjustStockTx relies on the WHERE guard for the non-negative floor: under
// read-committed two racing decrements serialize on the row lock and the
// loser re-evaluates the guard against the committed stock.
func (r *partRepo) AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Part{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing part from a floored adjustment.
		var count int64
		if err := tx.Model(&model.Part{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStockFloor
	}
	return nil
}

func (r *partRepo) CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *partRepo) ListMovements(ctx context.Context, partID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockMovement{})
	if partID != uuid.Nil {
		q = q.Where("part_id = ?", partID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&movements).Error
	return movements, total, err
}
