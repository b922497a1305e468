package service

import (
	"context"

	"oficina/internal/apierror"
	"oficina/internal/dto"
	"oficina/internal/model"
	"oficina/internal/repository"

	"github.com/google/uuid"
)

type MechanicService interface {
	Create(ctx context.Context, req dto.CreateMechanicRequest) (*dto.MechanicResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.MechanicResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.MechanicResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateMechanicRequest) (*dto.MechanicResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type mechanicService struct {
	repo repository.MechanicRepository
}

func NewMechanicService(repo repository.MechanicRepository) MechanicService {
	return &mechanicService{repo: repo}
}

func (s *mechanicService) Create(ctx context.Context, req dto.CreateMechanicRequest) (*dto.MechanicResponse, error) {
	mechanic := &model.Mechanic{
		Name:      req.Name,
		Specialty: req.Specialty,
		Active:    true,
	}
	if err := s.repo.Create(ctx, mechanic); err != nil {
		return nil, apierror.Internal(err)
	}
	return mechanicToResponse(mechanic), nil
}

func (s *mechanicService) Get(ctx context.Context, id uuid.UUID) (*dto.MechanicResponse, error) {
	mechanic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("mecânico não encontrado")
	}
	return mechanicToResponse(mechanic), nil
}

func (s *mechanicService) List(ctx context.Context, includeInactive bool) ([]dto.MechanicResponse, error) {
	mechanics, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	resp := make([]dto.MechanicResponse, len(mechanics))
	for i := range mechanics {
		resp[i] = *mechanicToResponse(&mechanics[i])
	}
	return resp, nil
}

func (s *mechanicService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateMechanicRequest) (*dto.MechanicResponse, error) {
	mechanic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("mecânico não encontrado")
	}
	if req.Name != nil {
		mechanic.Name = *req.Name
	}
	if req.Specialty != nil {
		mechanic.Specialty = *req.Specialty
	}
	if req.Active != nil {
		mechanic.Active = *req.Active
	}
	if err := s.repo.Update(ctx, mechanic); err != nil {
		return nil, apierror.Internal(err)
	}
	return mechanicToResponse(mechanic), nil
}

func (s *mechanicService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("mecânico não encontrado")
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return apierror.Internal(err)
	}
	return nil
}

func mechanicToResponse(m *model.Mechanic) *dto.MechanicResponse {
	return &dto.MechanicResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		Specialty: m.Specialty,
		Active:    m.Active,
	}
}
