package model

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle belongs to exactly one customer and is looked up publicly by its
// license plate.
type Vehicle struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LicensePlate string    `gorm:"uniqueIndex;not null"`
	Brand        string    `gorm:"not null"`
	Model        string    `gorm:"not null"`
	Year         int       `gorm:"not null"`
	Color        string
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
}
