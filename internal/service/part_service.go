package service

import (
	"context"

	"oficina/internal/apierror"
	"oficina/internal/dto"
	"oficina/internal/model"
	"oficina/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PartService manages the parts master data. Stock changes never go through
// here — they belong to InventoryService (manual) or order creation (reserve)
// so every change leaves a movement record.
type PartService interface {
	Create(ctx context.Context, req dto.CreatePartRequest) (*dto.PartResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PartResponse, error)
	List(ctx context.Context, supplier string, includeInactive bool, page, limit int) ([]dto.PartResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePartRequest) (*dto.PartResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type partService struct {
	repo repository.PartRepository
}

func NewPartService(repo repository.PartRepository) PartService {
	return &partService{repo: repo}
}

func (s *partService) Create(ctx context.Context, req dto.CreatePartRequest) (*dto.PartResponse, error) {
	if _, err := s.repo.FindByPartNumber(ctx, req.PartNumber); err == nil {
		return nil, apierror.Conflict("part_number já cadastrado")
	}
	part := &model.Part{
		Name:        req.Name,
		Description: req.Description,
		PartNumber:  req.PartNumber,
		Price:       req.Price,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		Supplier:    req.Supplier,
		Active:      true,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx != nil {
			if err := tx.Create(part).Error; err != nil {
				return apierror.Conflict("part_number já cadastrado")
			}
		} else if err := s.repo.Create(ctx, part); err != nil {
			return apierror.Conflict("part_number já cadastrado")
		}
		if part.Stock == 0 {
			return nil
		}
		mov := &model.StockMovement{
			PartID:      part.ID,
			Kind:        model.MovementAdjustment,
			Quantity:    part.Stock,
			StockBefore: 0,
			StockAfter:  part.Stock,
			Note:        "Estoque inicial",
		}
		if err := s.repo.CreateMovementTx(tx, mov); err != nil {
			return apierror.Internal(err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return partToResponse(part), nil
}

func (s *partService) Get(ctx context.Context, id uuid.UUID) (*dto.PartResponse, error) {
	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("peça não encontrada")
	}
	return partToResponse(part), nil
}

func (s *partService) List(ctx context.Context, supplier string, includeInactive bool, page, limit int) ([]dto.PartResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	parts, total, err := s.repo.List(ctx, supplier, includeInactive, page, limit)
	if err != nil {
		return nil, 0, apierror.Internal(err)
	}
	resp := make([]dto.PartResponse, len(parts))
	for i := range parts {
		resp[i] = *partToResponse(&parts[i])
	}
	return resp, total, nil
}

// Update edits master data only. New price applies to future orders; existing
// order items hold their snapshot. Stock is intentionally not editable here.
func (s *partService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePartRequest) (*dto.PartResponse, error) {
	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("peça não encontrada")
	}
	if req.Name != nil {
		part.Name = *req.Name
	}
	if req.Description != nil {
		part.Description = *req.Description
	}
	if req.Price != nil {
		part.Price = *req.Price
	}
	if req.MinStock != nil {
		part.MinStock = *req.MinStock
	}
	if req.Supplier != nil {
		part.Supplier = *req.Supplier
	}
	if req.Active != nil {
		part.Active = *req.Active
	}
	if err := s.repo.Update(ctx, part); err != nil {
		return nil, apierror.Internal(err)
	}
	return partToResponse(part), nil
}

func (s *partService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("peça não encontrada")
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return apierror.Internal(err)
	}
	return nil
}

func partToResponse(p *model.Part) *dto.PartResponse {
	return &dto.PartResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		PartNumber:  p.PartNumber,
		Price:       p.Price,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Supplier:    p.Supplier,
		Active:      p.Active,
	}
}
