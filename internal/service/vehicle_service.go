package service

import (
	"context"
	"strings"

	"oficina/internal/apierror"
	"oficina/internal/dto"
	"oficina/internal/model"
	"oficina/internal/repository"

	"github.com/google/uuid"
)

type VehicleService interface {
	Create(ctx context.Context, req dto.CreateVehicleRequest) (*dto.VehicleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.VehicleResponse, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]dto.VehicleResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.VehicleResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateVehicleRequest) (*dto.VehicleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type vehicleService struct {
	repo         repository.VehicleRepository
	customerRepo repository.CustomerRepository
}

func NewVehicleService(repo repository.VehicleRepository, customerRepo repository.CustomerRepository) VehicleService {
	return &vehicleService{repo: repo, customerRepo: customerRepo}
}

func (s *vehicleService) Create(ctx context.Context, req dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("customer_id inválido")
	}
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, apierror.NotFound("cliente não encontrado")
	}

	plate := strings.ToUpper(strings.TrimSpace(req.LicensePlate))
	if _, err := s.repo.FindByLicensePlate(ctx, plate); err == nil {
		return nil, apierror.Conflict("placa já cadastrada")
	}

	vehicle := &model.Vehicle{
		LicensePlate: plate,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Color:        req.Color,
		CustomerID:   customerID,
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, apierror.Conflict("placa já cadastrada")
	}
	return vehicleToResponse(vehicle), nil
}

func (s *vehicleService) Get(ctx context.Context, id uuid.UUID) (*dto.VehicleResponse, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("veículo não encontrado")
	}
	return vehicleToResponse(vehicle), nil
}

func (s *vehicleService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]dto.VehicleResponse, error) {
	vehicles, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	resp := make([]dto.VehicleResponse, len(vehicles))
	for i := range vehicles {
		resp[i] = *vehicleToResponse(&vehicles[i])
	}
	return resp, nil
}

func (s *vehicleService) List(ctx context.Context, page, limit int) ([]dto.VehicleResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	vehicles, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, apierror.Internal(err)
	}
	resp := make([]dto.VehicleResponse, len(vehicles))
	for i := range vehicles {
		resp[i] = *vehicleToResponse(&vehicles[i])
	}
	return resp, total, nil
}

func (s *vehicleService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateVehicleRequest) (*dto.VehicleResponse, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("veículo não encontrado")
	}
	if req.Brand != nil {
		vehicle.Brand = *req.Brand
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.Color != nil {
		vehicle.Color = *req.Color
	}
	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, apierror.Internal(err)
	}
	return vehicleToResponse(vehicle), nil
}

func (s *vehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("veículo não encontrado")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apierror.Conflict("veículo possui ordens de serviço e não pode ser excluído")
	}
	return nil
}

func vehicleToResponse(v *model.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:           v.ID.String(),
		LicensePlate: v.LicensePlate,
		Brand:        v.Brand,
		Model:        v.Model,
		Year:         v.Year,
		Color:        v.Color,
		CustomerID:   v.CustomerID.String(),
	}
}
