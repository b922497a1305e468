package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oficina/internal/apierror"
	"oficina/internal/dto"
	"oficina/internal/infra"
	"oficina/internal/model"
	"oficina/internal/repository"
	"oficina/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BudgetService interface {
	Create(ctx context.Context, req dto.CreateBudgetRequest) (*dto.BudgetResponse, error)
	Send(ctx context.Context, id uuid.UUID) (*dto.BudgetResponse, error)
	Approve(ctx context.Context, id uuid.UUID) (*dto.BudgetDecisionResponse, error)
	Reject(ctx context.Context, id uuid.UUID) (*dto.BudgetDecisionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.BudgetResponse, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]dto.BudgetResponse, error)
	GetStatus(ctx context.Context, id uuid.UUID) (*dto.BudgetStatusResponse, error)
}

type budgetService struct {
	repo          repository.BudgetRepository
	orderRepo     repository.OrderRepository
	customerRepo  repository.CustomerRepository
	transitioner  OrderTransitioner
	dispatcher    *worker.Dispatcher
	publicBaseURL string
}

func NewBudgetService(
	repo repository.BudgetRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	transitioner OrderTransitioner,
	dispatcher *worker.Dispatcher,
	publicBaseURL string,
) BudgetService {
	return &budgetService{
		repo:          repo,
		orderRepo:     orderRepo,
		customerRepo:  customerRepo,
		transitioner:  transitioner,
		dispatcher:    dispatcher,
		publicBaseURL: publicBaseURL,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────

func (s *budgetService) Create(ctx context.Context, req dto.CreateBudgetRequest) (*dto.BudgetResponse, error) {
	orderID, err := uuid.Parse(req.ServiceOrderID)
	if err != nil {
		return nil, apierror.Validation("service_order_id inválido")
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("customer_id inválido")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, apierror.NotFound("ordem de serviço não encontrada")
	}
	if order.CustomerID != customerID {
		return nil, apierror.Validation("cliente informado não é o dono da ordem de serviço")
	}

	// Line totals come from the caller and are validated, never recomputed.
	budget := &model.Budget{
		ServiceOrderID: orderID,
		CustomerID:     customerID,
		Status:         model.BudgetRascunho,
		ValidDays:      req.ValidDays,
	}
	for _, item := range req.Items {
		expected := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if !item.Total.Equal(expected) {
			return nil, apierror.Validation(fmt.Sprintf(
				"total do item %q não confere: esperado %s, recebido %s",
				item.Description, expected.StringFixed(2), item.Total.StringFixed(2)))
		}
		budget.Items = append(budget.Items, model.BudgetItem{
			Type:        item.Type,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	if err := s.repo.Create(ctx, budget); err != nil {
		return nil, apierror.Internal(err)
	}
	return budgetToResponse(budget), nil
}

// ── Send ──────────────────────────────────────────────────────────────────────
// Legal only from RASCUNHO. At most one sent, still-valid budget may exist per
// order at a time; that rule is enforced here, not by a schema constraint.

func (s *budgetService) Send(ctx context.Context, id uuid.UUID) (*dto.BudgetResponse, error) {
	var budget *model.Budget
	var validUntil time.Time

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		budget, err = s.lockBudget(tx, id)
		if err != nil {
			return err
		}
		if budget.Status != model.BudgetRascunho {
			return apierror.Conflict(fmt.Sprintf("orçamento em %s não pode ser enviado", budget.Status))
		}

		// The order-row lock serializes sends per order; without it two
		// concurrent sends of different drafts could both count zero.
		if _, err := s.orderRepo.FindByIDForUpdateTx(tx, budget.ServiceOrderID); err != nil {
			return apierror.Internal(err)
		}

		active, err := s.repo.CountSentByOrderTx(tx, budget.ServiceOrderID, id)
		if err != nil {
			return apierror.Internal(err)
		}
		if active > 0 {
			return apierror.Conflict("já existe um orçamento enviado aguardando resposta para esta ordem")
		}

		validUntil = time.Now().Add(time.Duration(budget.ValidDays) * 24 * time.Hour)
		rows, err := s.repo.MarkSentTx(tx, id, validUntil)
		if err != nil {
			return apierror.Internal(err)
		}
		if rows == 0 {
			return apierror.Conflict("orçamento foi modificado por outra operação")
		}
		budget.Status = model.BudgetEnviado
		budget.ValidUntil = &validUntil
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyBudgetSent(ctx, budget)
	return budgetToResponse(budget), nil
}

// ── Approve / Reject ──────────────────────────────────────────────────────────
// Approval and the order's move to EM_EXECUCAO are one atomic unit. The order
// transition runs first and gates the budget flip, so a budget never ends up
// APROVADO over an unmoved order.

func (s *budgetService) Approve(ctx context.Context, id uuid.UUID) (*dto.BudgetDecisionResponse, error) {
	var budget *model.Budget
	var order *model.ServiceOrder

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		budget, err = s.lockBudget(tx, id)
		if err != nil {
			return err
		}
		if err := s.requireActionable(tx, budget); err != nil {
			return err
		}

		// Order first. If it is no longer AGUARDANDO_APROVACAO the approval
		// stops here with the budget untouched.
		order, err = s.transitioner.TransitionTx(tx, budget.ServiceOrderID, model.StatusEmExecucao, "Orçamento aprovado pelo cliente")
		if err != nil {
			return err
		}

		rows, err := s.repo.UpdateStatusTx(tx, id, model.BudgetEnviado, model.BudgetAprovado)
		if err != nil {
			return apierror.Internal(err)
		}
		if rows == 0 {
			return apierror.Conflict("orçamento já foi respondido")
		}
		budget.Status = model.BudgetAprovado
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if customer, err := s.customerRepo.FindByID(ctx, budget.CustomerID); err == nil && s.dispatcher != nil && customer.Email != "" {
		_ = s.dispatcher.EnqueueStatusChange(ctx, worker.StatusChangePayload{
			CustomerName:  customer.Name,
			CustomerEmail: customer.Email,
			OrderNumber:   order.OrderNumber,
			NewStatus:     string(model.StatusEmExecucao),
		})
	}

	return &dto.BudgetDecisionResponse{
		Message: "Orçamento aprovado. O serviço entrará em execução.",
		Budget:  *budgetToResponse(budget),
	}, nil
}

// Reject flips the budget to REJEITADO and deliberately leaves the order
// where it is, so staff can issue a revised budget for the same order.
func (s *budgetService) Reject(ctx context.Context, id uuid.UUID) (*dto.BudgetDecisionResponse, error) {
	var budget *model.Budget

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		budget, err = s.lockBudget(tx, id)
		if err != nil {
			return err
		}
		if err := s.requireActionable(tx, budget); err != nil {
			return err
		}

		rows, err := s.repo.UpdateStatusTx(tx, id, model.BudgetEnviado, model.BudgetRejeitado)
		if err != nil {
			return apierror.Internal(err)
		}
		if rows == 0 {
			return apierror.Conflict("orçamento já foi respondido")
		}
		budget.Status = model.BudgetRejeitado
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.BudgetDecisionResponse{
		Message: "Orçamento rejeitado. A oficina poderá enviar uma nova proposta.",
		Budget:  *budgetToResponse(budget),
	}, nil
}

// ── Delete ────────────────────────────────────────────────────────────────────

func (s *budgetService) Delete(ctx context.Context, id uuid.UUID) error {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("orçamento não encontrado")
	}
	if budget.Status != model.BudgetRascunho {
		return apierror.Conflict("apenas orçamentos em rascunho podem ser excluídos")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apierror.Internal(err)
	}
	return nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *budgetService) Get(ctx context.Context, id uuid.UUID) (*dto.BudgetResponse, error) {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("orçamento não encontrado")
	}
	resp := budgetToResponse(budget)
	// Lazy expiry for the reader; the stored row flips on the next mutation.
	resp.Status = string(budget.EffectiveStatus(time.Now()))
	return resp, nil
}

func (s *budgetService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]dto.BudgetResponse, error) {
	budgets, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	now := time.Now()
	resp := make([]dto.BudgetResponse, 0, len(budgets))
	for i := range budgets {
		r := budgetToResponse(&budgets[i])
		r.Status = string(budgets[i].EffectiveStatus(now))
		resp = append(resp, *r)
	}
	return resp, nil
}

// GetStatus reports actionability. It holds a write lock so an observed
// expiry can be persisted instead of recomputed forever.
func (s *budgetService) GetStatus(ctx context.Context, id uuid.UUID) (*dto.BudgetStatusResponse, error) {
	var budget *model.Budget
	now := time.Now()

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		budget, err = s.lockBudget(tx, id)
		if err != nil {
			return err
		}
		if budget.IsExpired(now) {
			if _, err := s.repo.UpdateStatusTx(tx, id, model.BudgetEnviado, model.BudgetExpirado); err != nil {
				return apierror.Internal(err)
			}
			budget.Status = model.BudgetExpirado
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	expired := budget.Status == model.BudgetExpirado
	actionable := budget.Status == model.BudgetEnviado
	var validUntil *string
	if budget.ValidUntil != nil {
		v := budget.ValidUntil.Format(time.RFC3339)
		validUntil = &v
	}
	return &dto.BudgetStatusResponse{
		ID:         budget.ID.String(),
		Status:     string(budget.Status),
		ValidUntil: validUntil,
		IsExpired:  expired,
		CanApprove: actionable,
		CanReject:  actionable,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *budgetService) lockBudget(tx *gorm.DB, id uuid.UUID) (*model.Budget, error) {
	budget, err := s.repo.FindByIDForUpdateTx(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("orçamento não encontrado")
		}
		return nil, apierror.Internal(err)
	}
	return budget, nil
}

// requireActionable enforces the ENVIADO-and-not-expired precondition for a
// decision, persisting the expiry when one is detected (the lock is held).
func (s *budgetService) requireActionable(tx *gorm.DB, budget *model.Budget) error {
	if budget.IsExpired(time.Now()) {
		if _, err := s.repo.UpdateStatusTx(tx, budget.ID, model.BudgetEnviado, model.BudgetExpirado); err != nil {
			return apierror.Internal(err)
		}
		budget.Status = model.BudgetExpirado
		return apierror.Conflict("orçamento expirado")
	}
	switch budget.Status {
	case model.BudgetEnviado:
		return nil
	case model.BudgetRascunho:
		return apierror.Conflict("orçamento ainda não foi enviado")
	default:
		return apierror.Conflict(fmt.Sprintf("orçamento já está %s", budget.Status))
	}
}

func (s *budgetService) notifyBudgetSent(ctx context.Context, budget *model.Budget) {
	if s.dispatcher == nil {
		return
	}
	customer, err := s.customerRepo.FindByID(ctx, budget.CustomerID)
	if err != nil || customer.Email == "" {
		return
	}
	orderNumber := ""
	if order, err := s.orderRepo.FindByID(ctx, budget.ServiceOrderID); err == nil {
		orderNumber = order.OrderNumber
	}

	items := make([]infra.BudgetPDFItem, 0, len(budget.Items))
	for _, it := range budget.Items {
		items = append(items, infra.BudgetPDFItem{
			Type:        it.Type,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.StringFixed(2),
			Total:       it.Total.StringFixed(2),
		})
	}
	validUntil := ""
	if budget.ValidUntil != nil {
		validUntil = budget.ValidUntil.Format("02/01/2006")
	}
	_ = s.dispatcher.EnqueueBudgetSent(ctx, worker.BudgetSentPayload{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		OrderNumber:   orderNumber,
		BudgetID:      budget.ID.String(),
		Total:         budget.Total().StringFixed(2),
		ValidUntil:    validUntil,
		ApprovalLink:  fmt.Sprintf("%s/v1/public/budgets/%s", s.publicBaseURL, budget.ID),
		Items:         items,
	})
}

func budgetToResponse(b *model.Budget) *dto.BudgetResponse {
	items := make([]dto.BudgetItemResponse, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, dto.BudgetItemResponse{
			Type:        it.Type,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	var validUntil *string
	if b.ValidUntil != nil {
		v := b.ValidUntil.Format(time.RFC3339)
		validUntil = &v
	}
	return &dto.BudgetResponse{
		ID:             b.ID.String(),
		ServiceOrderID: b.ServiceOrderID.String(),
		CustomerID:     b.CustomerID.String(),
		Status:         string(b.Status),
		ValidDays:      b.ValidDays,
		ValidUntil:     validUntil,
		Total:          b.Total(),
		Items:          items,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
}
