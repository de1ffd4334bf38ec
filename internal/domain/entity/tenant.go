package entity

import "time"

// Tenant representa una partición lógica (un negocio independiente).
// Ninguna consulta puede devolver filas de otro tenant.
type Tenant struct {
	ID        int64
	Name      string
	Status    string // active, inactive
	CreatedAt time.Time
}
