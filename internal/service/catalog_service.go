package service

import (
	"context"

	"oficina/internal/apierror"
	"oficina/internal/dto"
	"oficina/internal/model"
	"oficina/internal/repository"

	"github.com/google/uuid"
)

// CatalogService manages the labor catalog. Deactivation replaces deletion:
// existing orders keep referencing the entry, it just stops resolving for new
// ones.
type CatalogService interface {
	Create(ctx context.Context, req dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ServiceResponse, error)
	List(ctx context.Context, category string, includeInactive bool) ([]dto.ServiceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo repository.CatalogServiceRepository
}

func NewCatalogService(repo repository.CatalogServiceRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) Create(ctx context.Context, req dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	svc := &model.CatalogService{
		Name:             req.Name,
		Description:      req.Description,
		Price:            req.Price,
		EstimatedMinutes: req.EstimatedMinutes,
		Category:         req.Category,
		Active:           true,
	}
	if svc.EstimatedMinutes == 0 {
		svc.EstimatedMinutes = 60
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, apierror.Conflict("serviço com esse nome já existe")
	}
	return catalogToResponse(svc), nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*dto.ServiceResponse, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("serviço não encontrado")
	}
	return catalogToResponse(svc), nil
}

func (s *catalogService) List(ctx context.Context, category string, includeInactive bool) ([]dto.ServiceResponse, error) {
	services, err := s.repo.List(ctx, category, includeInactive)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	resp := make([]dto.ServiceResponse, len(services))
	for i := range services {
		resp[i] = *catalogToResponse(&services[i])
	}
	return resp, nil
}

// Update edits the catalog entry. Price changes apply to future orders only;
// existing order items hold their snapshot.
func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("serviço não encontrado")
	}
	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.EstimatedMinutes != nil {
		svc.EstimatedMinutes = *req.EstimatedMinutes
	}
	if req.Category != nil {
		svc.Category = *req.Category
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}
	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, apierror.Internal(err)
	}
	return catalogToResponse(svc), nil
}

func (s *catalogService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("serviço não encontrado")
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return apierror.Internal(err)
	}
	return nil
}

func catalogToResponse(s *model.CatalogService) *dto.ServiceResponse {
	return &dto.ServiceResponse{
		ID:               s.ID.String(),
		Name:             s.Name,
		Description:      s.Description,
		Price:            s.Price,
		EstimatedMinutes: s.EstimatedMinutes,
		Category:         s.Category,
		Active:           s.Active,
	}
}
