package model

import (
	"time"

	"github.com/google/uuid"
)

// Mechanic is a master record kept for staff reference. Scheduling mechanics
// to orders is out of scope for this service.
type Mechanic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Specialty string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
