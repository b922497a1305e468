package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type OrderServiceItemRequest struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type OrderPartItemRequest struct {
	PartID   string `json:"part_id"  validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type CreateOrderRequest struct {
	CustomerID   string                    `json:"customer_id" validate:"required,uuid"`
	VehicleID    string                    `json:"vehicle_id"  validate:"required,uuid"`
	Description  string                    `json:"description" validate:"required"`
	ServiceItems []OrderServiceItemRequest `json:"service_items" validate:"dive"`
	PartItems    []OrderPartItemRequest    `json:"part_items"    validate:"dive"`
}

type TransitionOrderRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

type OrderFilter struct {
	Status     string `form:"status"`
	CustomerID string `form:"customer_id" validate:"omitempty,uuid"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type OrderServiceItemResponse struct {
	ServiceID string          `json:"service_id"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderPartItemResponse struct {
	PartID    string          `json:"part_id"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type StatusHistoryEntry struct {
	Status    string `json:"status"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

type OrderResponse struct {
	ID           string                     `json:"id"`
	OrderNumber  string                     `json:"order_number"`
	CustomerID   string                     `json:"customer_id"`
	VehicleID    string                     `json:"vehicle_id"`
	Description  string                     `json:"description"`
	Status       string                     `json:"status"`
	Total        decimal.Decimal            `json:"total"`
	ServiceItems []OrderServiceItemResponse `json:"service_items"`
	PartItems    []OrderPartItemResponse    `json:"part_items"`
	History      []StatusHistoryEntry       `json:"history,omitempty"`
	CreatedAt    string                     `json:"created_at"`
}

// PublicOrderResponse is the reduced view exposed without credentials. It
// deliberately omits internal ids, item prices and customer data.
type PublicOrderResponse struct {
	OrderNumber string `json:"order_number"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
