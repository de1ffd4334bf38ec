// Package tenancy construye consultas SQL parametrizadas con el predicado de tenant
// agregado de forma estructural (nodo fijo del builder), nunca por sustitución de texto.
//
// Toda lectura, alta, modificación o baja de una entidad por tenant debe pasar por un
// Filter. Una consulta directa que lo omita es un bug de aislamiento de datos.
package tenancy

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jhoicas/pos-api/internal/domain"
)

// DefaultColumn columna que identifica al tenant en todas las tablas particionadas.
const DefaultColumn = "tenant_id"

var (
	// ErrInvalidIdentifier nombre de tabla o columna fuera de ^[a-z_][a-z0-9_]*$.
	ErrInvalidIdentifier = errors.New("tenancy: identificador inválido")
	// ErrTenantColumn intento de asignar la columna de tenant desde el llamador.
	ErrTenantColumn = errors.New("tenancy: la columna de tenant no se puede asignar")
	// ErrEmptyUpdate UPDATE sin columnas a modificar.
	ErrEmptyUpdate = errors.New("tenancy: update sin columnas")
)

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Filter produce builders con alcance de tenant. El modo estricto (por defecto) exige que
// la tabla esté en la lista blanca; el permisivo existe solo por compatibilidad y nunca
// debe usarse con nombres de tabla que no estén fijados en el código.
type Filter struct {
	column  string
	allowed map[string]struct{}
	strict  bool
}

// NewFilter crea un filtro estricto limitado a las tablas indicadas.
func NewFilter(tables ...string) *Filter {
	allowed := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		allowed[strings.TrimSpace(t)] = struct{}{}
	}
	return &Filter{column: DefaultColumn, allowed: allowed, strict: true}
}

// NewPermissiveFilter crea un filtro sin lista blanca de tablas (legacy).
func NewPermissiveFilter() *Filter {
	return &Filter{column: DefaultColumn}
}

// Strict informa si el filtro valida la tabla contra la lista blanca.
func (f *Filter) Strict() bool { return f.strict }

// ValidateTenantID falla cerrado si el tenant no está presente o no es numérico positivo.
func ValidateTenantID(tenantID int64) error {
	if tenantID <= 0 {
		return domain.ErrInvalidTenant
	}
	return nil
}

// ParseTenantID convierte un identificador de tenant en texto (cookie, CLI, config).
func ParseTenantID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, domain.ErrInvalidTenant
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidTenant, s)
	}
	if err := ValidateTenantID(id); err != nil {
		return 0, err
	}
	return id, nil
}

// check valida tenant y tabla antes de construir cualquier sentencia.
func (f *Filter) check(tenantID int64, table string) error {
	if err := ValidateTenantID(tenantID); err != nil {
		return err
	}
	if !identRe.MatchString(table) {
		return fmt.Errorf("%w: tabla %q", ErrInvalidIdentifier, table)
	}
	if f.strict {
		if _, ok := f.allowed[table]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrTableNotAllowed, table)
		}
	}
	return nil
}

func (f *Filter) checkColumn(col string) error {
	if !identRe.MatchString(col) {
		return fmt.Errorf("%w: columna %q", ErrInvalidIdentifier, col)
	}
	return nil
}

// Query sentencia SQL parametrizada lista para pgx ($1, $2, ...).
type Query struct {
	SQL  string
	Args []any
}

// args acumula valores y devuelve el placeholder correspondiente.
type args struct {
	values []any
}

func (a *args) add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}
