package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin         = "admin"
	RoleBuyer         = "buyer"    // compras: emite órdenes de compra
	RoleReceiver      = "receiver" // almacén: registra recepciones (GRN)
	RoleAccounts      = "accounts" // cuentas por pagar: registra facturas y ejecuta el cruce
	RoleManager       = "manager"
	RoleSeniorManager = "senior_manager"
	RoleDirector      = "director"
	RoleCFO           = "cfo"
)

// IsValidRole informa si el rol es uno de los soportados.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBuyer, RoleReceiver, RoleAccounts,
		RoleManager, RoleSeniorManager, RoleDirector, RoleCFO:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // ver constantes Role*
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
