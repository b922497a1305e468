package dto

// AdjustStockRequest is a signed manual stock adjustment (positive = entry /
// return, negative = removal). The non-negative floor still applies.
type AdjustStockRequest struct {
	Quantity int    `json:"quantity" validate:"required"`
	Kind     string `json:"kind"     validate:"omitempty,oneof=adjustment return"`
	Note     string `json:"note"`
}

type LowStockItem struct {
	PartID     string `json:"part_id"`
	Name       string `json:"name"`
	PartNumber string `json:"part_number"`
	Stock      int    `json:"stock"`
	MinStock   int    `json:"min_stock"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	PartID      string  `json:"part_id"`
	Kind        string  `json:"kind"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Note        string  `json:"note,omitempty"`
	OrderID     *string `json:"order_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
