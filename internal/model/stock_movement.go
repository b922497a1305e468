package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement kinds.
const (
	MovementOrder      = "order"      // reserved at order creation
	MovementAdjustment = "adjustment" // manual staff adjustment
	MovementReturn     = "return"     // parts returned to stock
)

// StockMovement records every change to a part's stock. Append-only: created
// inside the same transaction as the change it describes, never updated.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PartID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind        string    `gorm:"not null"`
	Quantity    int       `gorm:"not null"` // positive = in, negative = out
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Note        string
	OrderID     *uuid.UUID `gorm:"type:uuid"` // set when Kind == order
	CreatedAt   time.Time

	Part *Part `gorm:"foreignKey:PartID"`
}

func (StockMovement) TableName() string { return "stock_movements" }
