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
	"oficina/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderTransitioner is the narrow capability the budget workflow needs to
// advance an order inside its own transaction. It deliberately exposes only
// the transition, not the rest of the order service.
type OrderTransitioner interface {
	TransitionTx(tx *gorm.DB, orderID uuid.UUID, target model.OrderStatus, note string) (*model.ServiceOrder, error)
}

type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Transition(ctx context.Context, id uuid.UUID, req dto.TransitionOrderRequest) (*dto.OrderResponse, error)
	Approve(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)

	OrderTransitioner
}

type orderService struct {
	repo         repository.OrderRepository
	customerRepo repository.CustomerRepository
	vehicleRepo  repository.VehicleRepository
	partRepo     repository.PartRepository
	resolver     ItemResolver
	dispatcher   *worker.Dispatcher
}

func NewOrderService(
	repo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	partRepo repository.PartRepository,
	resolver ItemResolver,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{
		repo:         repo,
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		partRepo:     partRepo,
		resolver:     resolver,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Create ────────────────────────────────────────────────────────────────────
// Single atomic unit:
//   1. Validate customer + vehicle, resolve items (pre-flight, outside TX)
//   2. BEGIN TX: bump order counter, create order + items + first history entry
//   3. Decrement stock per part item, record stock movements
//   4. COMMIT
//   5. (async) notify the customer
// Any stock floor hit rolls back the whole creation. No partial decrement
// survives a failed creation.

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("customer_id inválido")
	}
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return nil, apierror.Validation("vehicle_id inválido")
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apierror.NotFound("cliente não encontrado")
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, apierror.NotFound("veículo não encontrado")
	}
	if vehicle.CustomerID != customer.ID {
		return nil, apierror.Validation("veículo não pertence ao cliente informado")
	}

	resolvedServices, resolvedParts, err := s.resolver.Resolve(ctx, req.ServiceItems, req.PartItems)
	if err != nil {
		return nil, err
	}

	var order model.ServiceOrder
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		orderNumber, err := s.repo.NextOrderNumber(ctx, tx, time.Now().Year())
		if err != nil {
			return apierror.Internal(err)
		}

		order = model.ServiceOrder{
			OrderNumber: orderNumber,
			CustomerID:  customerID,
			VehicleID:   vehicleID,
			Description: req.Description,
			Status:      model.StatusRecebida,
		}
		for _, r := range resolvedServices {
			order.ServiceItems = append(order.ServiceItems, model.OrderServiceItem{
				ServiceID: r.ServiceID,
				Quantity:  r.Quantity,
				UnitPrice: r.UnitPrice,
			})
		}
		for _, r := range resolvedParts {
			order.PartItems = append(order.PartItems, model.OrderPartItem{
				PartID:    r.PartID,
				Quantity:  r.Quantity,
				UnitPrice: r.UnitPrice,
			})
		}

		if err := s.repo.Create(ctx, tx, &order); err != nil {
			return apierror.Internal(err)
		}

		// Reserve parts: decrement stock and record the movement. The
		// conditional UPDATE in AdjustStockTx enforces the floor; of two
		// concurrent creations draining the same part, one rolls back here.
		for _, r := range resolvedParts {
			partBefore, err := s.partRepo.FindByIDTx(tx, r.PartID)
			stockBefore := r.Stock
			if err == nil && partBefore != nil {
				stockBefore = partBefore.Stock
			}

			if err := s.partRepo.AdjustStockTx(tx, r.PartID, -r.Quantity); err != nil {
				if errors.Is(err, repository.ErrStockFloor) {
					return apierror.Conflict(fmt.Sprintf("estoque insuficiente para a peça %s", r.Name))
				}
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierror.NotFound(fmt.Sprintf("peça %s não encontrada", r.PartID))
				}
				return apierror.Internal(err)
			}

			orderRef := order.ID
			mov := &model.StockMovement{
				PartID:      r.PartID,
				Kind:        model.MovementOrder,
				Quantity:    -r.Quantity,
				StockBefore: stockBefore,
				StockAfter:  stockBefore - r.Quantity,
				Note:        fmt.Sprintf("Reserva OS %s", order.OrderNumber),
				OrderID:     &orderRef,
			}
			if err := s.partRepo.CreateMovementTx(tx, mov); err != nil {
				return apierror.Internal(err)
			}
		}

		history := &model.StatusHistory{
			OrderID: order.ID,
			Status:  model.StatusRecebida,
			Note:    "Ordem de serviço criada",
		}
		if err := s.repo.AppendHistoryTx(tx, history); err != nil {
			return apierror.Internal(err)
		}
		order.History = append(order.History, *history)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyStatusChange(ctx, customer, order.OrderNumber, model.StatusRecebida)

	resp := orderToResponse(&order)
	for i, r := range resolvedServices {
		resp.ServiceItems[i].Name = r.Name
	}
	for i, r := range resolvedParts {
		resp.PartItems[i].Name = r.Name
	}
	return resp, nil
}

// ── Transition ────────────────────────────────────────────────────────────────

func (s *orderService) Transition(ctx context.Context, id uuid.UUID, req dto.TransitionOrderRequest) (*dto.OrderResponse, error) {
	target := model.OrderStatus(req.Status)
	if !model.ValidOrderStatus(target) {
		return nil, apierror.Validation(fmt.Sprintf("status desconhecido: %s", req.Status))
	}

	var order *model.ServiceOrder
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		order, err = s.TransitionTx(tx, id, target, req.Note)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	if customer, err := s.customerRepo.FindByID(ctx, order.CustomerID); err == nil {
		s.notifyStatusChange(ctx, customer, order.OrderNumber, target)
	}

	return s.Get(ctx, id)
}

// TransitionTx applies one adjacent lifecycle step inside the caller's
// transaction. The guarded UPDATE makes concurrent transitions lose cleanly
// with a Conflict instead of silently double-applying.
func (s *orderService) TransitionTx(tx *gorm.DB, orderID uuid.UUID, target model.OrderStatus, note string) (*model.ServiceOrder, error) {
	order, err := s.repo.FindByIDForUpdateTx(tx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("ordem de serviço não encontrada")
		}
		return nil, apierror.Internal(err)
	}

	if !model.CanTransition(order.Status, target) {
		return nil, apierror.Conflict(fmt.Sprintf("transição de %s para %s não permitida", order.Status, target))
	}

	rows, err := s.repo.UpdateStatusTx(tx, orderID, order.Status, target)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	if rows == 0 {
		return nil, apierror.Conflict("ordem de serviço foi modificada por outra operação")
	}

	history := &model.StatusHistory{
		OrderID: orderID,
		Status:  target,
		Note:    note,
	}
	if err := s.repo.AppendHistoryTx(tx, history); err != nil {
		return nil, apierror.Internal(err)
	}

	order.Status = target
	order.History = append(order.History, *history)
	return order, nil
}

// Approve advances an order out of AGUARDANDO_APROVACAO. It is the same
// adjacent transition as Transition(EM_EXECUCAO) but names the intent: the
// customer signed off the budget-gated phase.
func (s *orderService) Approve(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("ordem de serviço não encontrada")
	}
	if order.Status != model.StatusAguardandoAprovacao {
		return nil, apierror.Conflict(fmt.Sprintf("ordem em %s não pode ser aprovada", order.Status))
	}
	return s.Transition(ctx, id, dto.TransitionOrderRequest{
		Status: string(model.StatusEmExecucao),
		Note:   "Aprovação registrada",
	})
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("ordem de serviço não encontrada")
	}
	return orderToResponse(order), nil
}

func (s *orderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, apierror.NotFound("ordem de serviço não encontrada")
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status != "" && !model.ValidOrderStatus(model.OrderStatus(filter.Status)) {
		return nil, apierror.Validation(fmt.Sprintf("status desconhecido: %s", filter.Status))
	}
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	data := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		data = append(data, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// notifyStatusChange enqueues a customer notification. Best-effort: a queue
// failure never fails the mutation that triggered it.
func (s *orderService) notifyStatusChange(ctx context.Context, customer *model.Customer, orderNumber string, status model.OrderStatus) {
	if s.dispatcher == nil || customer == nil || customer.Email == "" {
		return
	}
	_ = s.dispatcher.EnqueueStatusChange(ctx, worker.StatusChangePayload{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		OrderNumber:   orderNumber,
		NewStatus:     string(status),
	})
}

func orderToResponse(o *model.ServiceOrder) *dto.OrderResponse {
	total := decimal.Zero
	serviceItems := make([]dto.OrderServiceItemResponse, 0, len(o.ServiceItems))
	for _, item := range o.ServiceItems {
		name := ""
		if item.Service != nil {
			name = item.Service.Name
		}
		serviceItems = append(serviceItems, dto.OrderServiceItemResponse{
			ServiceID: item.ServiceID.String(),
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	partItems := make([]dto.OrderPartItemResponse, 0, len(o.PartItems))
	for _, item := range o.PartItems {
		name := ""
		if item.Part != nil {
			name = item.Part.Name
		}
		partItems = append(partItems, dto.OrderPartItemResponse{
			PartID:    item.PartID.String(),
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	history := make([]dto.StatusHistoryEntry, 0, len(o.History))
	for _, h := range o.History {
		history = append(history, dto.StatusHistoryEntry{
			Status:    string(h.Status),
			Note:      h.Note,
			CreatedAt: h.CreatedAt.Format(time.RFC3339),
		})
	}
	return &dto.OrderResponse{
		ID:           o.ID.String(),
		OrderNumber:  o.OrderNumber,
		CustomerID:   o.CustomerID.String(),
		VehicleID:    o.VehicleID.String(),
		Description:  o.Description,
		Status:       string(o.Status),
		Total:        total,
		ServiceItems: serviceItems,
		PartItems:    partItems,
		History:      history,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
	}
}
