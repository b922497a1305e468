package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oficina/internal/apierror"
	"oficina/internal/dto"
	"oficina/internal/model"
	"oficina/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryService owns manual stock adjustments, the low-stock report and
// the movement ledger. Order-driven decrements go through the part repository
// directly inside the order creation transaction.
type InventoryService interface {
	Adjust(ctx context.Context, partID uuid.UUID, req dto.AdjustStockRequest) (*dto.PartResponse, error)
	LowStock(ctx context.Context) ([]dto.LowStockItem, error)
	Movements(ctx context.Context, partID uuid.UUID, page, limit int) (*dto.StockMovementListResponse, error)
}

type inventoryService struct {
	partRepo repository.PartRepository
}

func NewInventoryService(partRepo repository.PartRepository) InventoryService {
	return &inventoryService{partRepo: partRepo}
}

// Adjust applies a signed manual delta. The non-negative floor holds under
// concurrency: the conditional UPDATE makes the losing side of a race fail
// with a Conflict instead of committing a negative stock.
func (s *inventoryService) Adjust(ctx context.Context, partID uuid.UUID, req dto.AdjustStockRequest) (*dto.PartResponse, error) {
	if req.Quantity == 0 {
		return nil, apierror.Validation("quantidade não pode ser zero")
	}

	kind := req.Kind
	if kind == "" {
		kind = model.MovementAdjustment
	}
	if kind == model.MovementReturn && req.Quantity < 0 {
		return nil, apierror.Validation("devolução deve ter quantidade positiva")
	}

	txErr := runTx(ctx, s.partRepo.DB(), func(tx *gorm.DB) error {
		partBefore, err := s.partRepo.FindByIDTx(tx, partID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("peça não encontrada")
			}
			return apierror.Internal(err)
		}

		if err := s.partRepo.AdjustStockTx(tx, partID, req.Quantity); err != nil {
			if errors.Is(err, repository.ErrStockFloor) {
				return apierror.Conflict(fmt.Sprintf("ajuste deixaria o estoque de %s negativo", partBefore.Name))
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("peça não encontrada")
			}
			return apierror.Internal(err)
		}

		mov := &model.StockMovement{
			PartID:      partID,
			Kind:        kind,
			Quantity:    req.Quantity,
			StockBefore: partBefore.Stock,
			StockAfter:  partBefore.Stock + req.Quantity,
			Note:        req.Note,
		}
		if err := s.partRepo.CreateMovementTx(tx, mov); err != nil {
			return apierror.Internal(err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	return partToResponse(part), nil
}

func (s *inventoryService) LowStock(ctx context.Context) ([]dto.LowStockItem, error) {
	parts, err := s.partRepo.FindLowStock(ctx)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	items := make([]dto.LowStockItem, 0, len(parts))
	for _, p := range parts {
		items = append(items, dto.LowStockItem{
			PartID:     p.ID.String(),
			Name:       p.Name,
			PartNumber: p.PartNumber,
			Stock:      p.Stock,
			MinStock:   p.MinStock,
		})
	}
	return items, nil
}

func (s *inventoryService) Movements(ctx context.Context, partID uuid.UUID, page, limit int) (*dto.StockMovementListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	movements, total, err := s.partRepo.ListMovements(ctx, partID, page, limit)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	data := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		var orderID *string
		if m.OrderID != nil {
			id := m.OrderID.String()
			orderID = &id
		}
		data = append(data, dto.StockMovementResponse{
			ID:          m.ID.String(),
			PartID:      m.PartID.String(),
			Kind:        m.Kind,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Note:        m.Note,
			OrderID:     orderID,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		})
	}
	return &dto.StockMovementListResponse{
		Data:  data,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}
