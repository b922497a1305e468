package repository

import (
	"context"
	"time"

	"oficina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BudgetRepository interface {
	Create(ctx context.Context, b *model.Budget) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Budget, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Budget, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Transaction-scoped operations. Status updates are guarded by the
	// expected current status; a concurrent approval loses cleanly.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Budget, error)
	// CountSentByOrderTx counts budgets for the order currently stored as
	// ENVIADO and still inside their validity window, excluding exceptID.
	// Runs on the send transaction so the count and the flip are one unit.
	CountSentByOrderTx(tx *gorm.DB, orderID, exceptID uuid.UUID) (int64, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to model.BudgetStatus) (int64, error)
	// MarkSentTx flips RASCUNHO → ENVIADO and stamps the validity window in
	// one guarded UPDATE.
	MarkSentTx(tx *gorm.DB, id uuid.UUID, validUntil time.Time) (int64, error)

	DB() *gorm.DB
}

type budgetRepo struct{ db *gorm.DB }

func NewBudgetRepository(db *gorm.DB) BudgetRepository { return &budgetRepo{db: db} }

func (r *budgetRepo) DB() *gorm.DB { return r.db }

func (r *budgetRepo) Create(ctx context.Context, b *model.Budget) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *budgetRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	var b model.Budget
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&b, "id = ?", id).Error
	return &b, err
}

func (r *budgetRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Budget, error) {
	var budgets []model.Budget
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("service_order_id = ?", orderID).
		Order("created_at DESC").
		Find(&budgets).Error
	return budgets, err
}

func (r *budgetRepo) CountSentByOrderTx(tx *gorm.DB, orderID, exceptID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.Budget{}).
		Where("service_order_id = ? AND id <> ? AND status = ? AND (valid_until IS NULL OR valid_until > NOW())",
			orderID, exceptID, model.BudgetEnviado).
		Count(&count).Error
	return count, err
}

func (r *budgetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.BudgetItem{}, "budget_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Budget{}, "id = ?", id).Error
	})
}

func (r *budgetRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Budget, error) {
	var b model.Budget
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("budget_id = ?", id).Order("created_at ASC").Find(&b.Items).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *budgetRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to model.BudgetStatus) (int64, error) {
	res := tx.Model(&model.Budget{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *budgetRepo) MarkSentTx(tx *gorm.DB, id uuid.UUID, validUntil time.Time) (int64, error) {
	res := tx.Model(&model.Budget{}).
		Where("id = ? AND status = ?", id, model.BudgetRascunho).
		Updates(map[string]interface{}{
			"status":      model.BudgetEnviado,
			"valid_until": validUntil,
		})
	return res.RowsAffected, res.Error
}
