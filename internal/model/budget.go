package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetStatus is the budget lifecycle state.
type BudgetStatus string

const (
	BudgetRascunho  BudgetStatus = "RASCUNHO"
	BudgetEnviado   BudgetStatus = "ENVIADO"
	BudgetAprovado  BudgetStatus = "APROVADO"
	BudgetRejeitado BudgetStatus = "REJEITADO"
	BudgetExpirado  BudgetStatus = "EXPIRADO"
)

// Budget item type tags.
const (
	BudgetItemService = "SERVICE"
	BudgetItemPart    = "PART"
)

// Budget is a priced quote tied to exactly one service order. Approval by the
// customer moves the order to EM_EXECUCAO; rejection leaves the order alone so
// staff can issue a revised budget.
type Budget struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ServiceOrderID uuid.UUID    `gorm:"type:uuid;not null;index"`
	CustomerID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	Status         BudgetStatus `gorm:"type:varchar(15);not null;default:'RASCUNHO'"`
	ValidDays      int          `gorm:"not null"`
	ValidUntil     *time.Time   // nil until sent
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items []BudgetItem `gorm:"foreignKey:BudgetID"`

	ServiceOrder *ServiceOrder `gorm:"foreignKey:ServiceOrderID"`
	Customer     *Customer     `gorm:"foreignKey:CustomerID"`
}

// IsExpired reports lazy expiry: a sent budget whose validity window has
// passed behaves as EXPIRADO even while the stored status is still ENVIADO.
func (b *Budget) IsExpired(now time.Time) bool {
	return b.Status == BudgetEnviado && b.ValidUntil != nil && now.After(*b.ValidUntil)
}

// EffectiveStatus is the status after applying lazy expiry at time now. Pure
// — callers that hold a write lock persist the EXPIRADO transition themselves.
func (b *Budget) EffectiveStatus(now time.Time) BudgetStatus {
	if b.IsExpired(now) {
		return BudgetExpirado
	}
	return b.Status
}

// Terminal reports whether the budget can never change again.
func (s BudgetStatus) Terminal() bool {
	return s == BudgetAprovado || s == BudgetRejeitado || s == BudgetExpirado
}

// Total sums the item totals.
func (b *Budget) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range b.Items {
		total = total.Add(it.Total)
	}
	return total
}

// BudgetItem is a priced line of a budget. Total must equal
// Quantity × UnitPrice; the service validates it and never recomputes it.
type BudgetItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BudgetID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"type:varchar(10);not null"` // SERVICE | PART
	Description string    `gorm:"not null"`
	Quantity    int       `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time
}
