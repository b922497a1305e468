package repository

import (
	"context"
	"fmt"

	"oficina/internal/dto"
	"oficina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.ServiceOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*model.ServiceOrder, error)
	FindByCustomerDocument(ctx context.Context, document string) ([]model.ServiceOrder, error)
	FindByLicensePlate(ctx context.Context, plate string) ([]model.ServiceOrder, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.ServiceOrder, int64, error)

	// Transaction-scoped operations. The status update is guarded by the
	// expected current status so a concurrent transition loses cleanly.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ServiceOrder, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to model.OrderStatus) (int64, error)
	AppendHistoryTx(tx *gorm.DB, h *model.StatusHistory) error
	NextOrderNumber(ctx context.Context, tx *gorm.DB, year int) (string, error)

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.ServiceOrder) error {
	return tx.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error) {
	var o model.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("ServiceItems.Service").
		Preload("PartItems.Part").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*model.ServiceOrder, error) {
	var o model.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("ServiceItems.Service").
		Preload("PartItems.Part").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("order_number = ?", orderNumber).
		First(&o).Error
	return &o, err
}

func (r *orderRepo) FindByCustomerDocument(ctx context.Context, document string) ([]model.ServiceOrder, error) {
	var orders []model.ServiceOrder
	err := r.db.WithContext(ctx).
		Joins("JOIN customers ON customers.id = service_orders.customer_id").
		Where("customers.document = ?", document).
		Order("service_orders.created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByLicensePlate(ctx context.Context, plate string) ([]model.ServiceOrder, error) {
	var orders []model.ServiceOrder
	err := r.db.WithContext(ctx).
		Joins("JOIN vehicles ON vehicles.id = service_orders.vehicle_id").
		Where("vehicles.license_plate = ?", plate).
		Order("service_orders.created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.ServiceOrder, int64, error) {
	var orders []model.ServiceOrder
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ServiceOrder{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("ServiceItems").Preload("PartItems").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ServiceOrder, error) {
	var o model.ServiceOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to model.OrderStatus) (int64, error) {
	res := tx.Model(&model.ServiceOrder{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *orderRepo) AppendHistoryTx(tx *gorm.DB, h *model.StatusHistory) error {
	return tx.Create(h).Error
}

// NextOrderNumber bumps the per-year counter atomically and formats the
// OS-<year>-<seq> number. The upsert serializes concurrent creations on the
// counter row.
func (r *orderRepo) NextOrderNumber(ctx context.Context, tx *gorm.DB, year int) (string, error) {
	var seq int
	err := tx.WithContext(ctx).Raw(`
		INSERT INTO order_counters (year, seq) VALUES (?, 1)
		ON CONFLICT (year) DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq
	`, year).Scan(&seq).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("OS-%d-%04d", year, seq), nil
}
