package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the service order lifecycle state.
type OrderStatus string

const (
	StatusRecebida            OrderStatus = "RECEBIDA"
	StatusEmDiagnostico       OrderStatus = "EM_DIAGNOSTICO"
	StatusAguardandoAprovacao OrderStatus = "AGUARDANDO_APROVACAO"
	StatusEmExecucao          OrderStatus = "EM_EXECUCAO"
	StatusFinalizada          OrderStatus = "FINALIZADA"
	StatusEntregue            OrderStatus = "ENTREGUE"
)

// nextOrderStatus is the single source of truth for the lifecycle: each state
// has exactly one allowed successor. ENTREGUE is terminal.
var nextOrderStatus = map[OrderStatus]OrderStatus{
	StatusRecebida:            StatusEmDiagnostico,
	StatusEmDiagnostico:       StatusAguardandoAprovacao,
	StatusAguardandoAprovacao: StatusEmExecucao,
	StatusEmExecucao:          StatusFinalizada,
	StatusFinalizada:          StatusEntregue,
}

// ValidOrderStatus reports whether s is a known lifecycle state.
func ValidOrderStatus(s OrderStatus) bool {
	if _, ok := nextOrderStatus[s]; ok {
		return true
	}
	return s == StatusEntregue
}

// CanTransition reports whether from → to is one of the six adjacent
// transitions. Self-transitions and skips are never allowed.
func CanTransition(from, to OrderStatus) bool {
	next, ok := nextOrderStatus[from]
	return ok && next == to
}

// ServiceOrder is the unit of work for a vehicle repair job. It is a permanent
// record: once created it is never deleted, and its status only moves forward
// through the lifecycle above.
type ServiceOrder struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string    `gorm:"uniqueIndex;not null"` // OS-<year>-<seq>, immutable
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	VehicleID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Description string    `gorm:"type:text"`
	Status      OrderStatus `gorm:"type:varchar(25);not null;default:'RECEBIDA'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	ServiceItems []OrderServiceItem `gorm:"foreignKey:OrderID"`
	PartItems    []OrderPartItem    `gorm:"foreignKey:OrderID"`
	History      []StatusHistory    `gorm:"foreignKey:OrderID"`

	Customer *Customer `gorm:"foreignKey:CustomerID"`
	Vehicle  *Vehicle  `gorm:"foreignKey:VehicleID"`
}

func (ServiceOrder) TableName() string { return "service_orders" }

// OrderServiceItem snapshots a catalog service into an order at creation time.
type OrderServiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity  int       `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time

	Service *CatalogService `gorm:"foreignKey:ServiceID"`
}

func (OrderServiceItem) TableName() string { return "order_service_items" }

// OrderPartItem snapshots a part into an order at creation time. The stock it
// consumed was decremented in the same transaction that created it.
type OrderPartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	PartID    uuid.UUID `gorm:"type:uuid;not null"`
	Quantity  int       `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time

	Part *Part `gorm:"foreignKey:PartID"`
}

func (OrderPartItem) TableName() string { return "order_part_items" }

// StatusHistory is the append-only log of an order's lifecycle. The order's
// Status column always equals the most recent entry.
type StatusHistory struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status    OrderStatus `gorm:"type:varchar(25);not null"`
	Note      string
	CreatedAt time.Time
}

func (StatusHistory) TableName() string { return "status_history" }

// OrderCounter backs the OS-<year>-<seq> numbering. One row per year, bumped
// atomically inside the order creation transaction.
type OrderCounter struct {
	Year int `gorm:"primaryKey"`
	Seq  int `gorm:"not null"`
}

func (OrderCounter) TableName() string { return "order_counters" }
