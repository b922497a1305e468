package service_test

import (
	"context"
	"sync"
	"testing"

	"oficina/internal/apierror"
	"oficina/internal/dto"
	"oficina/internal/model"
	"oficina/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := service.NewInventoryService(f.parts)

	part := f.seedPart("Filtro de ar", "35.00", 4, true)

	resp, err := inv.Adjust(ctx, part.ID, dto.AdjustStockRequest{Quantity: 6, Note: "Entrega do fornecedor"})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Stock)

	resp, err = inv.Adjust(ctx, part.ID, dto.AdjustStockRequest{Quantity: -3, Note: "Avaria"})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Stock)

	movements, _, err := f.parts.ListMovements(ctx, part.ID, 1, 50)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, model.MovementAdjustment, movements[0].Kind)
	assert.Equal(t, 4, movements[0].StockBefore)
	assert.Equal(t, 10, movements[0].StockAfter)
	assert.Equal(t, 10, movements[1].StockBefore)
	assert.Equal(t, 7, movements[1].StockAfter)
}

func TestAdjustStockValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := service.NewInventoryService(f.parts)

	part := f.seedPart("Filtro de ar", "35.00", 4, true)

	_, err := inv.Adjust(ctx, part.ID, dto.AdjustStockRequest{Quantity: 0})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = inv.Adjust(ctx, part.ID, dto.AdjustStockRequest{Quantity: -2, Kind: model.MovementReturn})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = inv.Adjust(ctx, uuid.New(), dto.AdjustStockRequest{Quantity: 1})
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestAdjustStockFloor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := service.NewInventoryService(f.parts)

	part := f.seedPart("Filtro de ar", "35.00", 2, true)

	_, err := inv.Adjust(ctx, part.ID, dto.AdjustStockRequest{Quantity: -5})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	stored, err := f.parts.FindByID(ctx, part.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Stock)
}

// Two concurrent drains against the same part: the floor guarantees exactly
// one of them commits.
func TestAdjustStockConcurrentFloor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := service.NewInventoryService(f.parts)

	part := f.seedPart("Pastilha de freio", "57.50", 5, true)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = inv.Adjust(ctx, part.ID, dto.AdjustStockRequest{Quantity: -4})
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	stored, err := f.parts.FindByID(ctx, part.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Stock)
}

func TestLowStockReport(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := service.NewInventoryService(f.parts)

	low := f.seedPart("Vela de ignição", "12.00", 1, true)
	boundary := f.seedPart("Junta do cabeçote", "48.00", 2, true) // stock == min_stock
	f.seedPart("Filtro de óleo", "25.00", 50, true)
	f.seedPart("Correia antiga", "15.00", 0, false)

	items, err := inv.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	ids := []string{items[0].PartID, items[1].PartID}
	assert.Contains(t, ids, low.ID.String())
	assert.Contains(t, ids, boundary.ID.String())
}
