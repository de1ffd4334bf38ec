package entity

import "time"

// Customer representa un cliente del tenant.
type Customer struct {
	ID        int64
	TenantID  int64
	Name      string
	TaxID     string // NIT o documento
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
