package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type BudgetItemRequest struct {
	Type        string          `json:"type"        validate:"required,oneof=SERVICE PART"`
	Description string          `json:"description" validate:"required"`
	Quantity    int             `json:"quantity"    validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"  validate:"required,gt=0"`
	// Total is provided by the caller and validated against quantity × unit
	// price; it is never recomputed server-side.
	Total decimal.Decimal `json:"total" validate:"required,gt=0"`
}

type CreateBudgetRequest struct {
	ServiceOrderID string              `json:"service_order_id" validate:"required,uuid"`
	CustomerID     string              `json:"customer_id"      validate:"required,uuid"`
	ValidDays      int                 `json:"valid_days"       validate:"required,min=1"`
	Items          []BudgetItemRequest `json:"items"            validate:"required,min=1,dive"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type BudgetItemResponse struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type BudgetResponse struct {
	ID             string               `json:"id"`
	ServiceOrderID string               `json:"service_order_id"`
	CustomerID     string               `json:"customer_id"`
	Status         string               `json:"status"`
	ValidDays      int                  `json:"valid_days"`
	ValidUntil     *string              `json:"valid_until,omitempty"`
	Total          decimal.Decimal      `json:"total"`
	Items          []BudgetItemResponse `json:"items"`
	CreatedAt      string               `json:"created_at"`
}

// BudgetStatusResponse is the lazy-expiry view of a budget's actionability.
type BudgetStatusResponse struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	ValidUntil *string `json:"valid_until,omitempty"`
	IsExpired  bool    `json:"is_expired"`
	CanApprove bool    `json:"can_approve"`
	CanReject  bool    `json:"can_reject"`
}

// BudgetDecisionResponse wraps the public approve/reject result.
type BudgetDecisionResponse struct {
	Message string         `json:"message"`
	Budget  BudgetResponse `json:"budget"`
}
