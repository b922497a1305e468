package dto

// ─── Customers ───────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Document string `json:"document" validate:"required,min=11,max=14"`
	Type     string `json:"type"     validate:"required,oneof=PESSOA_FISICA PESSOA_JURIDICA"`
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type CustomerResponse struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// ─── Vehicles ────────────────────────────────────────────────────────────────

type CreateVehicleRequest struct {
	LicensePlate string `json:"license_plate" validate:"required,min=7,max=8"`
	Brand        string `json:"brand"         validate:"required"`
	Model        string `json:"model"         validate:"required"`
	Year         int    `json:"year"          validate:"required,min=1950"`
	Color        string `json:"color"`
	CustomerID   string `json:"customer_id"   validate:"required,uuid"`
}

type UpdateVehicleRequest struct {
	Brand *string `json:"brand"`
	Model *string `json:"model"`
	Year  *int    `json:"year" validate:"omitempty,min=1950"`
	Color *string `json:"color"`
}

type VehicleResponse struct {
	ID           string `json:"id"`
	LicensePlate string `json:"license_plate"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Color        string `json:"color,omitempty"`
	CustomerID   string `json:"customer_id"`
}

// ─── Mechanics ───────────────────────────────────────────────────────────────

type CreateMechanicRequest struct {
	Name      string `json:"name" validate:"required"`
	Specialty string `json:"specialty"`
}

type UpdateMechanicRequest struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	Active    *bool   `json:"active"`
}

type MechanicResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
	Active    bool   `json:"active"`
}
