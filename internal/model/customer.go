package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer document types.
const (
	CustomerPessoaFisica   = "PESSOA_FISICA"
	CustomerPessoaJuridica = "PESSOA_JURIDICA"
)

// Customer is a workshop client, identified by a CPF/CNPJ document.
type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Document string    `gorm:"uniqueIndex;not null"`
	Type     string    `gorm:"type:varchar(20);not null"`
	Name     string    `gorm:"not null"`
	Email    string    `gorm:"not null"`
	Phone    string
	Address  string
	CreatedAt time.Time
	UpdatedAt time.Time

	Vehicles []Vehicle `gorm:"foreignKey:CustomerID"`
}
