package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// Estados de User, Tenant y Product.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User representa un usuario del sistema (pertenece a un Tenant).
// Username y Email son únicos a nivel global.
type User struct {
	ID           int64
	TenantID     int64
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, manager, cashier
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// IsActive informa si la cuenta puede iniciar sesión.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// ValidRole informa si r es uno de los roles conocidos.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleCashier
}
