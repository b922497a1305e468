package service

import (
	"context"
	"encoding/json"
	"time"

	"oficina/internal/apierror"
	"oficina/internal/dto"
	"oficina/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	publicCachePrefix = "public:orders:"
	publicCacheTTL    = 60 * time.Second
)

// PublicService is the unauthenticated surface. Budgets are only visible once
// sent: a RASCUNHO budget is reported as NotFound, indistinguishable from a
// budget that does not exist. Order lookups are read-only, keyed by natural
// identifiers the customer already knows.
type PublicService interface {
	ViewBudget(ctx context.Context, id uuid.UUID) (*dto.BudgetResponse, error)
	BudgetStatus(ctx context.Context, id uuid.UUID) (*dto.BudgetStatusResponse, error)
	ApproveBudget(ctx context.Context, id uuid.UUID) (*dto.BudgetDecisionResponse, error)
	RejectBudget(ctx context.Context, id uuid.UUID) (*dto.BudgetDecisionResponse, error)

	OrderByNumber(ctx context.Context, orderNumber string) (*dto.PublicOrderResponse, error)
	OrdersByDocument(ctx context.Context, document string) ([]dto.PublicOrderResponse, error)
	OrdersByPlate(ctx context.Context, plate string) ([]dto.PublicOrderResponse, error)
}

type publicService struct {
	budgets BudgetService
	orders  OrderLookup
	rdb     *redis.Client
}

// OrderLookup is the read-only slice of the order repository the public
// surface needs. Satisfied by repository.OrderRepository.
type OrderLookup interface {
	FindByOrderNumber(ctx context.Context, orderNumber string) (*model.ServiceOrder, error)
	FindByCustomerDocument(ctx context.Context, document string) ([]model.ServiceOrder, error)
	FindByLicensePlate(ctx context.Context, plate string) ([]model.ServiceOrder, error)
}

func NewPublicService(budgets BudgetService, orders OrderLookup, rdb *redis.Client) PublicService {
	return &publicService{budgets: budgets, orders: orders, rdb: rdb}
}

// ── Budgets ───────────────────────────────────────────────────────────────────

func (s *publicService) ViewBudget(ctx context.Context, id uuid.UUID) (*dto.BudgetResponse, error) {
	resp, err := s.budgets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if resp.Status == string(model.BudgetRascunho) {
		// Drafts do not exist publicly.
		return nil, apierror.NotFound("orçamento não encontrado")
	}
	return resp, nil
}

func (s *publicService) BudgetStatus(ctx context.Context, id uuid.UUID) (*dto.BudgetStatusResponse, error) {
	if err := s.requireVisible(ctx, id); err != nil {
		return nil, err
	}
	return s.budgets.GetStatus(ctx, id)
}

func (s *publicService) ApproveBudget(ctx context.Context, id uuid.UUID) (*dto.BudgetDecisionResponse, error) {
	if err := s.requireVisible(ctx, id); err != nil {
		return nil, err
	}
	return s.budgets.Approve(ctx, id)
}

func (s *publicService) RejectBudget(ctx context.Context, id uuid.UUID) (*dto.BudgetDecisionResponse, error) {
	if err := s.requireVisible(ctx, id); err != nil {
		return nil, err
	}
	return s.budgets.Reject(ctx, id)
}

// requireVisible hides drafts. The decision operations re-check the status
// under lock; this only keeps the draft-existence policy in one place.
func (s *publicService) requireVisible(ctx context.Context, id uuid.UUID) error {
	resp, err := s.budgets.Get(ctx, id)
	if err != nil {
		return err
	}
	if resp.Status == string(model.BudgetRascunho) {
		return apierror.NotFound("orçamento não encontrado")
	}
	return nil
}

// ── Order lookups ─────────────────────────────────────────────────────────────
// Lookups are cached briefly in Redis: customers refreshing a tracking page
// should not hammer the database.

func (s *publicService) OrderByNumber(ctx context.Context, orderNumber string) (*dto.PublicOrderResponse, error) {
	cacheKey := publicCachePrefix + "number:" + orderNumber
	var cached dto.PublicOrderResponse
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, apierror.NotFound("ordem de serviço não encontrada")
	}
	resp := publicOrderToResponse(order)
	s.cacheSet(ctx, cacheKey, resp)
	return resp, nil
}

func (s *publicService) OrdersByDocument(ctx context.Context, document string) ([]dto.PublicOrderResponse, error) {
	cacheKey := publicCachePrefix + "document:" + document
	var cached []dto.PublicOrderResponse
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	orders, err := s.orders.FindByCustomerDocument(ctx, document)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	resp := make([]dto.PublicOrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, *publicOrderToResponse(&orders[i]))
	}
	s.cacheSet(ctx, cacheKey, resp)
	return resp, nil
}

func (s *publicService) OrdersByPlate(ctx context.Context, plate string) ([]dto.PublicOrderResponse, error) {
	cacheKey := publicCachePrefix + "plate:" + plate
	var cached []dto.PublicOrderResponse
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	orders, err := s.orders.FindByLicensePlate(ctx, plate)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	resp := make([]dto.PublicOrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, *publicOrderToResponse(&orders[i]))
	}
	s.cacheSet(ctx, cacheKey, resp)
	return resp, nil
}

func (s *publicService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false
	}
	return true
}

func (s *publicService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, publicCacheTTL).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("public cache write failed")
	}
}

func publicOrderToResponse(o *model.ServiceOrder) *dto.PublicOrderResponse {
	return &dto.PublicOrderResponse{
		OrderNumber: o.OrderNumber,
		Description: o.Description,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
	}
}
