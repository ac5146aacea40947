package entity

import "time"

// Supplier proveedor de la empresa (alimentos, amenities, lavandería, etc.).
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
