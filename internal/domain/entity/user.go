package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor" // carga e importa facturas
	RoleViewer = "viewer" // solo consulta y valida
)

// Estados de cuenta.
const (
	UserActive    = "active"
	UserSuspended = "suspended"
)

// User usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, editor, viewer
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}
