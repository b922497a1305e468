package dto

import "github.com/shopspring/decimal"

// ─── Catalog services ────────────────────────────────────────────────────────

type CreateServiceRequest struct {
	Name             string          `json:"name"  validate:"required"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price" validate:"required,gt=0"`
	EstimatedMinutes int             `json:"estimated_minutes" validate:"min=0"`
	Category         string          `json:"category"`
}

type UpdateServiceRequest struct {
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	Price            *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	EstimatedMinutes *int             `json:"estimated_minutes" validate:"omitempty,min=0"`
	Category         *string          `json:"category"`
	Active           *bool            `json:"active"`
}

type ServiceResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Price            decimal.Decimal `json:"price"`
	EstimatedMinutes int             `json:"estimated_minutes"`
	Category         string          `json:"category,omitempty"`
	Active           bool            `json:"active"`
}

// ─── Parts ───────────────────────────────────────────────────────────────────

type CreatePartRequest struct {
	Name        string          `json:"name"        validate:"required"`
	Description string          `json:"description"`
	PartNumber  string          `json:"part_number" validate:"required"`
	Price       decimal.Decimal `json:"price"       validate:"required,gt=0"`
	Stock       int             `json:"stock"       validate:"min=0"`
	MinStock    int             `json:"min_stock"   validate:"min=0"`
	Supplier    string          `json:"supplier"`
}

type UpdatePartRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	MinStock    *int             `json:"min_stock" validate:"omitempty,min=0"`
	Supplier    *string          `json:"supplier"`
	Active      *bool            `json:"active"`
}

type PartResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	PartNumber  string          `json:"part_number"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	Supplier    string          `json:"supplier,omitempty"`
	Active      bool            `json:"active"`
}
