package dto

import "time"

// RegisterRequest entrada para registro público (auth). El rol siempre es cashier.
type RegisterRequest struct {
	TenantID int64  `json:"tenant_id" validate:"required,gt=0"`
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          int64      `json:"id"`
	TenantID    int64      `json:"tenant_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionUser identidad mínima devuelta al iniciar sesión.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse salida de login con el token opaco de sesión.
type LoginResponse struct {
	Success bool        `json:"success"`
	User    SessionUser `json:"user"`
	Token   string      `json:"token"`
}
