package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa (hotel o cadena).
type CreateCompanyRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	NIT     string `json:"nit" validate:"required,min=1,max=20"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// ActivateModuleRequest entrada para activar un módulo SaaS en un hotel.
// ExpiresAt vacío = sin vencimiento.
type ActivateModuleRequest struct {
	ModuleName string     `json:"module_name" validate:"required,oneof=purchasing hr analytics"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// CompanyModuleResponse estado de un módulo de la empresa.
type CompanyModuleResponse struct {
	CompanyID   string     `json:"company_id"`
	ModuleName  string     `json:"module_name"`
	IsActive    bool       `json:"is_active"`
	ActivatedAt time.Time  `json:"activated_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// CompanyResponse salida de una empresa (sin datos sensibles).
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
