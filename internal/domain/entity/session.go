package entity

import "time"

// Session sesión persistida de un usuario (una por dispositivo).
// TokenHash es el SHA-256 del token opaco entregado al cliente.
type Session struct {
	ID           int64
	UserID       int64
	TokenHash    string
	DeviceInfo   string
	IPAddress    string
	LastActivity time.Time
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// IsValidAt informa si la sesión sigue vigente en el instante now.
func (s *Session) IsValidAt(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
