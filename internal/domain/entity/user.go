package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleProduccion = "produccion"
	RoleBodega     = "bodega"
)

// User representa un usuario del sistema. El core de inventario solo consume
// su ID como actor autenticado; la autorización ocurre en el router.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, produccion, bodega
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
