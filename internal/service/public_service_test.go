package service_test

import (
	"context"
	"testing"
	"time"

	"oficina/internal/apierror"
	"oficina/internal/model"
	"oficina/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPublicFixture() (*fixture, service.PublicService) {
	f := newFixture()
	return f, service.NewPublicService(f.budgetSvc, f.orders, nil)
}

func TestDraftBudgetHiddenPublicly(t *testing.T) {
	f, pub := newPublicFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusAguardandoAprovacao)
	draft := f.seedBudget(order.ID, customer.ID, model.BudgetRascunho, nil, sentBudgetItem())

	// Publicly a draft does not exist.
	_, err := pub.ViewBudget(ctx, draft.ID)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
	_, err = pub.BudgetStatus(ctx, draft.ID)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
	_, err = pub.ApproveBudget(ctx, draft.ID)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
	_, err = pub.RejectBudget(ctx, draft.ID)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))

	// Staff still see it.
	resp, err := f.budgetSvc.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.BudgetRascunho), resp.Status)

	// Once sent it turns visible.
	_, err = f.budgetSvc.Send(ctx, draft.ID)
	require.NoError(t, err)
	visible, err := pub.ViewBudget(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.BudgetEnviado), visible.Status)
}

func TestPublicBudgetDecision(t *testing.T) {
	f, pub := newPublicFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusAguardandoAprovacao)
	until := time.Now().Add(48 * time.Hour)
	budget := f.seedBudget(order.ID, customer.ID, model.BudgetEnviado, &until, sentBudgetItem())

	status, err := pub.BudgetStatus(ctx, budget.ID)
	require.NoError(t, err)
	assert.True(t, status.CanApprove)

	decision, err := pub.ApproveBudget(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.BudgetAprovado), decision.Budget.Status)

	orderResp, err := f.orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusEmExecucao), orderResp.Status)
}

func TestPublicOrderLookups(t *testing.T) {
	f, pub := newPublicFixture()
	ctx := context.Background()

	customer := f.seedCustomer("52998224725")
	vehicle := f.seedVehicle(customer.ID, "ABC1D23")
	order := f.seedOrder(customer.ID, vehicle.ID, model.StatusEmExecucao)

	byNumber, err := pub.OrderByNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, byNumber.OrderNumber)
	assert.Equal(t, string(model.StatusEmExecucao), byNumber.Status)

	_, err = pub.OrderByNumber(ctx, "OS-1999-0042")
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))

	byDocument, err := pub.OrdersByDocument(ctx, customer.Document)
	require.NoError(t, err)
	require.Len(t, byDocument, 1)
	assert.Equal(t, order.OrderNumber, byDocument[0].OrderNumber)

	byPlate, err := pub.OrdersByPlate(ctx, vehicle.LicensePlate)
	require.NoError(t, err)
	require.Len(t, byPlate, 1)
	assert.Equal(t, order.OrderNumber, byPlate[0].OrderNumber)

	// Unknown identifiers come back empty, not as an error.
	none, err := pub.OrdersByDocument(ctx, "00000000000")
	require.NoError(t, err)
	assert.Empty(t, none)
}
