// Package access decide si un llamador autenticado puede ejecutar una acción.
//
// La política por defecto solo exige sesión válida: cualquier usuario autenticado puede
// ejecutar cualquier acción dentro de su tenant. RolePolicy es opcional y se activa por
// configuración.
package access

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// Action capacidad sobre un recurso ("recurso:operación").
type Action string

// Acciones conocidas.
const (
	ProductsRead   Action = "products:read"
	ProductsWrite  Action = "products:write"
	CustomersRead  Action = "customers:read"
	CustomersWrite Action = "customers:write"
	InventoryRead  Action = "inventory:read"
	InventoryWrite Action = "inventory:write"
)

// Nombres de política aceptados en configuración.
const (
	PolicyAuthenticated = "authenticated"
	PolicyRole          = "role"
)

// Policy autoriza acciones para un llamador.
type Policy interface {
	Authorize(ctx context.Context, caller *entity.CallerContext, action Action) error
}

// AuthenticatedPolicy permite toda acción a cualquier llamador con sesión válida.
type AuthenticatedPolicy struct{}

// Authorize implementa Policy.
func (AuthenticatedPolicy) Authorize(_ context.Context, caller *entity.CallerContext, _ Action) error {
	if !caller.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// RolePolicy tabla de capacidades por rol. Un rol sin la acción recibe ErrForbidden.
type RolePolicy struct {
	grants map[string]map[Action]struct{}
}

// DefaultRoleGrants capacidades por defecto: admin y manager todo, cashier lectura e
// inventario (registra ventas y entradas).
func DefaultRoleGrants() map[string][]Action {
	all := []Action{ProductsRead, ProductsWrite, CustomersRead, CustomersWrite, InventoryRead, InventoryWrite}
	return map[string][]Action{
		entity.RoleAdmin:   all,
		entity.RoleManager: all,
		entity.RoleCashier: {ProductsRead, CustomersRead, CustomersWrite, InventoryRead, InventoryWrite},
	}
}

// NewRolePolicy construye la política a partir de la tabla rol → acciones.
func NewRolePolicy(grants map[string][]Action) *RolePolicy {
	p := &RolePolicy{grants: make(map[string]map[Action]struct{}, len(grants))}
	for role, actions := range grants {
		set := make(map[Action]struct{}, len(actions))
		for _, a := range actions {
			set[a] = struct{}{}
		}
		p.grants[role] = set
	}
	return p
}

// Authorize implementa Policy.
func (p *RolePolicy) Authorize(_ context.Context, caller *entity.CallerContext, action Action) error {
	if !caller.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if _, ok := p.grants[caller.Role][action]; !ok {
		return fmt.Errorf("%w: %s no permitido para rol %q", domain.ErrForbidden, action, caller.Role)
	}
	return nil
}

// New devuelve la política por nombre de configuración ("" = authenticated).
func New(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyAuthenticated:
		return AuthenticatedPolicy{}, nil
	case PolicyRole:
		return NewRolePolicy(DefaultRoleGrants()), nil
	default:
		return nil, fmt.Errorf("access: política desconocida %q", name)
	}
}
