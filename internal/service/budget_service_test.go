package service_test

import (
	"context"
	"testing"
	"time"

	"oficina/internal/apierror"
	"oficina/internal/dto"
	"oficina/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budgetItems() []dto.BudgetItemRequest {
	return []dto.BudgetItemRequest{
		{
			Type:        model.BudgetItemService,
			Description: "Troca de pastilhas",
			Quantity:    1,
			UnitPrice:   decimal.RequireFromString("80.00"),
			Total:       decimal.RequireFromString("80.00"),
		},
		{
			Type:        model.BudgetItemPart,
			Description: "Pastilha de freio",
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("57.50"),
			Total:       decimal.RequireFromString("115.00"),
		},
	}
}

func sentBudgetItem() model.BudgetItem {
	return model.BudgetItem{
		Type:        model.BudgetItemService,
		Description: "Troca de pastilhas",
		Quantity:    1,
		UnitPrice:   decimal.RequireFromString("195.00"),
		Total:       decimal.RequireFromString("195.00"),
	}
}

func TestCreateBudget(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusEmDiagnostico)

	resp, err := f.budgetSvc.Create(ctx, dto.CreateBudgetRequest{
		ServiceOrderID: order.ID.String(),
		CustomerID:     customer.ID.String(),
		ValidDays:      7,
		Items:          budgetItems(),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.BudgetRascunho), resp.Status)
	assert.Nil(t, resp.ValidUntil)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("195.00")), "total %s", resp.Total)
	require.Len(t, resp.Items, 2)
}

func TestCreateBudgetRejectsBadTotal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusEmDiagnostico)

	items := budgetItems()
	items[1].Total = decimal.RequireFromString("110.00") // 2 × 57.50 = 115.00

	_, err := f.budgetSvc.Create(ctx, dto.CreateBudgetRequest{
		ServiceOrderID: order.ID.String(),
		CustomerID:     customer.ID.String(),
		ValidDays:      7,
		Items:          items,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCreateBudgetOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	stranger := f.seedCustomer("11144477735")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusEmDiagnostico)

	_, err := f.budgetSvc.Create(ctx, dto.CreateBudgetRequest{
		ServiceOrderID: order.ID.String(),
		CustomerID:     stranger.ID.String(),
		ValidDays:      7,
		Items:          budgetItems(),
	})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = f.budgetSvc.Create(ctx, dto.CreateBudgetRequest{
		ServiceOrderID: uuid.NewString(),
		CustomerID:     customer.ID.String(),
		ValidDays:      7,
		Items:          budgetItems(),
	})
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestSendBudget(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusAguardandoAprovacao)
	budget := f.seedBudget(order.ID, customer.ID, model.BudgetRascunho, nil, sentBudgetItem())

	resp, err := f.budgetSvc.Send(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.BudgetEnviado), resp.Status)
	require.NotNil(t, resp.ValidUntil)

	until, err := time.Parse(time.RFC3339, *resp.ValidUntil)
	require.NoError(t, err)
	expected := time.Now().Add(7 * 24 * time.Hour)
	assert.WithinDuration(t, expected, until, time.Minute)

	// Resending is a conflict: only drafts can be sent.
	_, err = f.budgetSvc.Send(ctx, budget.ID)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestSendBudgetSingleActivePerOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusAguardandoAprovacao)

	first := f.seedBudget(order.ID, customer.ID, model.BudgetRascunho, nil, sentBudgetItem())
	second := f.seedBudget(order.ID, customer.ID, model.BudgetRascunho, nil, sentBudgetItem())

	_, err := f.budgetSvc.Send(ctx, first.ID)
	require.NoError(t, err)

	_, err = f.budgetSvc.Send(ctx, second.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestApproveBudgetMovesOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusAguardandoAprovacao)
	until := time.Now().Add(48 * time.Hour)
	budget := f.seedBudget(order.ID, customer.ID, model.BudgetEnviado, &until, sentBudgetItem())

	resp, err := f.budgetSvc.Approve(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.BudgetAprovado), resp.Budget.Status)

	// The order moved in the same operation.
	orderResp, err := f.orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusEmExecucao), orderResp.Status)
	require.Len(t, orderResp.History, 1)
	assert.Equal(t, "Orçamento aprovado pelo cliente", orderResp.History[0].Note)

	// A decided budget cannot be decided again.
	_, err = f.budgetSvc.Approve(ctx, budget.ID)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	_, err = f.budgetSvc.Reject(ctx, budget.ID)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestApproveBudgetRequiresOrderAwaitingApproval(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusRecebida)
	until := time.Now().Add(48 * time.Hour)
	budget := f.seedBudget(order.ID, customer.ID, model.BudgetEnviado, &until, sentBudgetItem())

	_, err := f.budgetSvc.Approve(ctx, budget.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	// The refused transition left both sides untouched: the budget is still
	// ENVIADO, the order still RECEBIDA.
	stored, err := f.budgets.FindByID(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BudgetEnviado, stored.Status)

	orderResp, err := f.orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusRecebida), orderResp.Status)
}

func TestRejectBudgetLeavesOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusAguardandoAprovacao)
	until := time.Now().Add(48 * time.Hour)
	budget := f.seedBudget(order.ID, customer.ID, model.BudgetEnviado, &until, sentBudgetItem())

	resp, err := f.budgetSvc.Reject(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.BudgetRejeitado), resp.Budget.Status)

	// Rejection does not move the order; the workshop can quote again.
	orderResp, err := f.orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusAguardandoAprovacao), orderResp.Status)
}

func TestSecondBudgetAfterRejection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusAguardandoAprovacao)

	until := time.Now().Add(48 * time.Hour)
	first := f.seedBudget(order.ID, customer.ID, model.BudgetEnviado, &until, sentBudgetItem())
	_, err := f.budgetSvc.Reject(ctx, first.ID)
	require.NoError(t, err)

	// A revised budget for the same order goes through the full cycle.
	created, err := f.budgetSvc.Create(ctx, dto.CreateBudgetRequest{
		ServiceOrderID: order.ID.String(),
		CustomerID:     customer.ID.String(),
		ValidDays:      5,
		Items:          budgetItems(),
	})
	require.NoError(t, err)

	secondID := uuid.MustParse(created.ID)
	_, err = f.budgetSvc.Send(ctx, secondID)
	require.NoError(t, err)

	_, err = f.budgetSvc.Approve(ctx, secondID)
	require.NoError(t, err)

	orderResp, err := f.orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusEmExecucao), orderResp.Status)
}

func TestExpiredBudgetCannotBeDecided(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusAguardandoAprovacao)
	past := time.Now().Add(-time.Hour)
	budget := f.seedBudget(order.ID, customer.ID, model.BudgetEnviado, &past, sentBudgetItem())

	_, err := f.budgetSvc.Approve(ctx, budget.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	// The observed expiry was persisted, not just reported.
	stored, err := f.budgets.FindByID(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BudgetExpirado, stored.Status)

	// And the order never moved.
	orderResp, err := f.orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusAguardandoAprovacao), orderResp.Status)
}

func TestBudgetStatusReportsActionability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusAguardandoAprovacao)

	until := time.Now().Add(48 * time.Hour)
	active := f.seedBudget(order.ID, customer.ID, model.BudgetEnviado, &until, sentBudgetItem())
	status, err := f.budgetSvc.GetStatus(ctx, active.ID)
	require.NoError(t, err)
	assert.False(t, status.IsExpired)
	assert.True(t, status.CanApprove)
	assert.True(t, status.CanReject)

	past := time.Now().Add(-time.Hour)
	expired := f.seedBudget(order.ID, customer.ID, model.BudgetEnviado, &past, sentBudgetItem())
	status, err = f.budgetSvc.GetStatus(ctx, expired.ID)
	require.NoError(t, err)
	assert.True(t, status.IsExpired)
	assert.False(t, status.CanApprove)
	assert.False(t, status.CanReject)
	assert.Equal(t, string(model.BudgetExpirado), status.Status)
}

func TestBudgetGetAppliesLazyExpiry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusAguardandoAprovacao)
	past := time.Now().Add(-time.Hour)
	budget := f.seedBudget(order.ID, customer.ID, model.BudgetEnviado, &past, sentBudgetItem())

	resp, err := f.budgetSvc.Get(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.BudgetExpirado), resp.Status)

	// Plain reads do not write back; the row still says ENVIADO.
	stored, err := f.budgets.FindByID(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BudgetEnviado, stored.Status)
}

func TestDeleteBudgetDraftOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusEmDiagnostico)

	draft := f.seedBudget(order.ID, customer.ID, model.BudgetRascunho, nil, sentBudgetItem())
	require.NoError(t, f.budgetSvc.Delete(ctx, draft.ID))
	_, err := f.budgetSvc.Get(ctx, draft.ID)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))

	until := time.Now().Add(48 * time.Hour)
	sent := f.seedBudget(order.ID, customer.ID, model.BudgetEnviado, &until, sentBudgetItem())
	err = f.budgetSvc.Delete(ctx, sent.ID)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

// TestOrderLifecycleEndToEnd walks an order through all six states, with the
// budget-gated approval in the middle.
func TestOrderLifecycleEndToEnd(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	svc := f.seedCatalogService("Troca de pastilhas", "80.00", true)
	part := f.seedPart("Pastilha de freio", "57.50", 10, true)

	created, err := f.orderSvc.Create(ctx, createOrderRequest(f, customer.ID, vehicle.ID, svc, part, 2))
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusRecebida), created.Status)
	orderID := uuid.MustParse(created.ID)

	_, err = f.orderSvc.Transition(ctx, orderID, dto.TransitionOrderRequest{Status: string(model.StatusEmDiagnostico)})
	require.NoError(t, err)
	_, err = f.orderSvc.Transition(ctx, orderID, dto.TransitionOrderRequest{Status: string(model.StatusAguardandoAprovacao)})
	require.NoError(t, err)

	budget, err := f.budgetSvc.Create(ctx, dto.CreateBudgetRequest{
		ServiceOrderID: created.ID,
		CustomerID:     customer.ID.String(),
		ValidDays:      7,
		Items:          budgetItems(),
	})
	require.NoError(t, err)
	assert.True(t, budget.Total.Equal(decimal.RequireFromString("195.00")), "total %s", budget.Total)

	budgetID := uuid.MustParse(budget.ID)
	_, err = f.budgetSvc.Send(ctx, budgetID)
	require.NoError(t, err)

	decision, err := f.budgetSvc.Approve(ctx, budgetID)
	require.NoError(t, err)
	assert.Equal(t, string(model.BudgetAprovado), decision.Budget.Status)

	_, err = f.orderSvc.Transition(ctx, orderID, dto.TransitionOrderRequest{Status: string(model.StatusFinalizada)})
	require.NoError(t, err)
	final, err := f.orderSvc.Transition(ctx, orderID, dto.TransitionOrderRequest{Status: string(model.StatusEntregue)})
	require.NoError(t, err)

	assert.Equal(t, string(model.StatusEntregue), final.Status)
	require.Len(t, final.History, 6)
	wantHistory := []string{
		string(model.StatusRecebida),
		string(model.StatusEmDiagnostico),
		string(model.StatusAguardandoAprovacao),
		string(model.StatusEmExecucao),
		string(model.StatusFinalizada),
		string(model.StatusEntregue),
	}
	for i, entry := range final.History {
		assert.Equal(t, wantHistory[i], entry.Status)
	}

	// Delivered orders accept nothing further.
	_, err = f.orderSvc.Transition(ctx, orderID, dto.TransitionOrderRequest{Status: string(model.StatusRecebida)})
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}
