package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService is a labor entry in the workshop's service catalog. Price is
// the *current* catalog price; orders snapshot it into their line items so
// later edits never alter existing orders.
type CatalogService struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `gorm:"uniqueIndex;not null"`
	Description      string
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	EstimatedMinutes int             `gorm:"not null;default:60"`
	Category         string          `gorm:"index"`
	Active           bool            `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (CatalogService) TableName() string { return "catalog_services" }

// Part is a stocked spare part. Stock never goes below zero; the floor is
// enforced by a conditional UPDATE in the repository.
type Part struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description string
	PartNumber  string          `gorm:"uniqueIndex;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	MinStock    int             `gorm:"not null;default:5"`
	Supplier    string          `gorm:"index"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
