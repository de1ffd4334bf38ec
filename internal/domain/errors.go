package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrAuthFailure agrupa los fallos de autenticación. Hacia afuera siempre se
	// reporta igual, sin revelar cuál de los subcasos ocurrió.
	ErrAuthFailure     = errors.New("no autorizado")
	ErrUserNotFound    = fmt.Errorf("%w: usuario no encontrado", ErrAuthFailure)
	ErrInvalidPassword = fmt.Errorf("%w: contraseña inválida", ErrAuthFailure)
	ErrAccountInactive = fmt.Errorf("%w: cuenta inactiva", ErrAuthFailure)
	// ErrUnauthenticated token ausente, incorrecto, expirado o revocado.
	ErrUnauthenticated = fmt.Errorf("%w: sesión inválida", ErrAuthFailure)

	// Aislamiento por tenant: fallan cerrado.
	ErrInvalidTenant   = errors.New("tenant inválido")
	ErrTableNotAllowed = errors.New("tabla no permitida")

	// Ledger de inventario.
	ErrProductNotFound = fmt.Errorf("%w: producto", ErrNotFound)
	ErrInvalidMovement = fmt.Errorf("%w: movimiento", ErrInvalidInput)
	ErrTransaction     = errors.New("fallo de transacción")
)
