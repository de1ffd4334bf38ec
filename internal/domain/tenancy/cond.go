package tenancy

import "fmt"

// Cond condición adicional que se conjuga (AND) con el predicado de tenant.
type Cond interface {
	render(f *Filter, a *args) (string, error)
}

// Expr fragmento SQL fijo escrito en el código (agregados, expresiones). Nunca debe
// construirse con datos de la petición.
type Expr string

type cmp struct {
	column string
	op     string
	value  any
}

func (c cmp) render(f *Filter, a *args) (string, error) {
	if err := f.checkColumn(c.column); err != nil {
		return "", err
	}
	if c.column == f.column {
		return "", ErrTenantColumn
	}
	return fmt.Sprintf("%s %s %s", c.column, c.op, a.add(c.value)), nil
}

// Eq column = value.
func Eq(column string, value any) Cond { return cmp{column: column, op: "=", value: value} }

// Ne column <> value.
func Ne(column string, value any) Cond { return cmp{column: column, op: "<>", value: value} }

// Gte column >= value.
func Gte(column string, value any) Cond { return cmp{column: column, op: ">=", value: value} }

// Lte column <= value.
func Lte(column string, value any) Cond { return cmp{column: column, op: "<=", value: value} }

type nonNegativeAfter struct {
	column string
	delta  int64
}

func (c nonNegativeAfter) render(f *Filter, a *args) (string, error) {
	if err := f.checkColumn(c.column); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s + %s >= 0", c.column, a.add(c.delta)), nil
}

// NonNegativeAfter exige que column + delta no quede negativo (guarda atómica en UPDATE).
func NonNegativeAfter(column string, delta int64) Cond {
	return nonNegativeAfter{column: column, delta: delta}
}

// where arma "tenant_col = $n AND ..." con el predicado de tenant siempre primero.
func (f *Filter) where(tenantID int64, conds []Cond, a *args) (string, error) {
	clause := f.column + " = " + a.add(tenantID)
	for _, c := range conds {
		s, err := c.render(f, a)
		if err != nil {
			return "", err
		}
		clause += " AND " + s
	}
	return clause, nil
}
