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

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	GetByDocument(ctx context.Context, document string) (*dto.CustomerResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.CustomerResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	document := normalizeDocument(req.Document)
	if _, err := s.repo.FindByDocument(ctx, document); err == nil {
		return nil, apierror.Conflict("documento já cadastrado")
	}
	customer := &model.Customer{
		Document: document,
		Type:     req.Type,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, apierror.Conflict("documento já cadastrado")
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("cliente não encontrado")
	}
	return customerToResponse(customer), nil
}

func (s *customerService) GetByDocument(ctx context.Context, document string) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByDocument(ctx, normalizeDocument(document))
	if err != nil {
		return nil, apierror.NotFound("cliente não encontrado")
	}
	return customerToResponse(customer), nil
}

func (s *customerService) List(ctx context.Context, page, limit int) ([]dto.CustomerResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	customers, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, apierror.Internal(err)
	}
	resp := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		resp[i] = *customerToResponse(&customers[i])
	}
	return resp, total, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("cliente não encontrado")
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, apierror.Internal(err)
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("cliente não encontrado")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apierror.Conflict("cliente possui registros vinculados e não pode ser excluído")
	}
	return nil
}

// normalizeDocument strips the formatting punctuation of CPF/CNPJ values so
// the same document never registers twice.
func normalizeDocument(document string) string {
	replacer := strings.NewReplacer(".", "", "-", "", "/", "", " ", "")
	return replacer.Replace(document)
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:       c.ID.String(),
		Document: c.Document,
		Type:     c.Type,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
	}
}
