package model_test

import (
	"testing"
	"time"

	"oficina/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBudgetIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	b := model.Budget{Status: model.BudgetEnviado, ValidUntil: &past}
	assert.True(t, b.IsExpired(now))
	assert.Equal(t, model.BudgetExpirado, b.EffectiveStatus(now))

	b.ValidUntil = &future
	assert.False(t, b.IsExpired(now))
	assert.Equal(t, model.BudgetEnviado, b.EffectiveStatus(now))

	// A draft never expires, whatever the window says.
	b = model.Budget{Status: model.BudgetRascunho, ValidUntil: &past}
	assert.False(t, b.IsExpired(now))
	assert.Equal(t, model.BudgetRascunho, b.EffectiveStatus(now))

	// Sent without a window (should not happen, but must not panic).
	b = model.Budget{Status: model.BudgetEnviado}
	assert.False(t, b.IsExpired(now))

	// Decided budgets keep their status even past the window.
	b = model.Budget{Status: model.BudgetAprovado, ValidUntil: &past}
	assert.False(t, b.IsExpired(now))
	assert.Equal(t, model.BudgetAprovado, b.EffectiveStatus(now))
}

func TestBudgetStatusTerminal(t *testing.T) {
	assert.False(t, model.BudgetRascunho.Terminal())
	assert.False(t, model.BudgetEnviado.Terminal())
	assert.True(t, model.BudgetAprovado.Terminal())
	assert.True(t, model.BudgetRejeitado.Terminal())
	assert.True(t, model.BudgetExpirado.Terminal())
}

func TestBudgetTotal(t *testing.T) {
	b := model.Budget{Items: []model.BudgetItem{
		{Total: decimal.RequireFromString("80.00")},
		{Total: decimal.RequireFromString("115.00")},
	}}
	assert.True(t, b.Total().Equal(decimal.RequireFromString("195.00")), "got %s", b.Total())

	empty := model.Budget{}
	assert.True(t, empty.Total().IsZero())
}
