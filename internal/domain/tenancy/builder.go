package tenancy

import (
	"fmt"
	"strings"
)

// SelectBuilder lectura con alcance de tenant.
type SelectBuilder struct {
	f         *Filter
	tenantID  int64
	table     string
	columns   []string
	exprs     []Expr
	conds     []Cond
	orderBy   []string
	limit     int
	offset    int
	forUpdate bool
}

// Select inicia una lectura de table restringida a tenantID.
func (f *Filter) Select(tenantID int64, table string, columns ...string) *SelectBuilder {
	return &SelectBuilder{f: f, tenantID: tenantID, table: table, columns: columns}
}

// Expr agrega una expresión fija a la lista de columnas.
func (b *SelectBuilder) Expr(e Expr) *SelectBuilder {
	b.exprs = append(b.exprs, e)
	return b
}

// Where conjuga condiciones adicionales.
func (b *SelectBuilder) Where(conds ...Cond) *SelectBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

// OrderBy agrega un criterio de orden.
func (b *SelectBuilder) OrderBy(column string, desc bool) *SelectBuilder {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	b.orderBy = append(b.orderBy, column+" "+dir)
	return b
}

// Page aplica LIMIT/OFFSET (limit <= 0 no limita).
func (b *SelectBuilder) Page(limit, offset int) *SelectBuilder {
	b.limit, b.offset = limit, offset
	return b
}

// ForUpdate bloquea las filas leídas hasta el fin de la transacción.
func (b *SelectBuilder) ForUpdate() *SelectBuilder {
	b.forUpdate = true
	return b
}

// Build valida y produce la sentencia.
func (b *SelectBuilder) Build() (Query, error) {
	if err := b.f.check(b.tenantID, b.table); err != nil {
		return Query{}, err
	}
	cols := make([]string, 0, len(b.columns)+len(b.exprs))
	for _, c := range b.columns {
		if err := b.f.checkColumn(c); err != nil {
			return Query{}, err
		}
		cols = append(cols, c)
	}
	for _, e := range b.exprs {
		cols = append(cols, string(e))
	}
	if len(cols) == 0 {
		cols = append(cols, "*")
	}
	var a args
	where, err := b.f.where(b.tenantID, b.conds, &a)
	if err != nil {
		return Query{}, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s WHERE %s", strings.Join(cols, ", "), b.table, where)
	if len(b.orderBy) > 0 {
		for _, o := range b.orderBy {
			if err := b.f.checkColumn(strings.Fields(o)[0]); err != nil {
				return Query{}, err
			}
		}
		sb.WriteString(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT " + a.add(b.limit))
		if b.offset > 0 {
			sb.WriteString(" OFFSET " + a.add(b.offset))
		}
	}
	if b.forUpdate {
		sb.WriteString(" FOR UPDATE")
	}
	return Query{SQL: sb.String(), Args: a.values}, nil
}

type assignment struct {
	column    string
	value     any
	increment bool
}

// UpdateBuilder modificación con alcance de tenant.
type UpdateBuilder struct {
	f         *Filter
	tenantID  int64
	table     string
	sets      []assignment
	conds     []Cond
	returning []string
}

// Update inicia una modificación de table restringida a tenantID.
func (f *Filter) Update(tenantID int64, table string) *UpdateBuilder {
	return &UpdateBuilder{f: f, tenantID: tenantID, table: table}
}

// Set column = value.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// Increment column = column + delta, relativo al valor almacenado (sin read-modify-write).
func (b *UpdateBuilder) Increment(column string, delta any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: delta, increment: true})
	return b
}

// Where conjuga condiciones adicionales.
func (b *UpdateBuilder) Where(conds ...Cond) *UpdateBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

// Returning columnas a devolver.
func (b *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	b.returning = append(b.returning, columns...)
	return b
}

// Build valida y produce la sentencia.
func (b *UpdateBuilder) Build() (Query, error) {
	if err := b.f.check(b.tenantID, b.table); err != nil {
		return Query{}, err
	}
	if len(b.sets) == 0 {
		return Query{}, ErrEmptyUpdate
	}
	var a args
	parts := make([]string, 0, len(b.sets))
	for _, s := range b.sets {
		if err := b.f.checkColumn(s.column); err != nil {
			return Query{}, err
		}
		if s.column == b.f.column {
			return Query{}, ErrTenantColumn
		}
		if s.increment {
			parts = append(parts, fmt.Sprintf("%s = %s + %s", s.column, s.column, a.add(s.value)))
		} else {
			parts = append(parts, fmt.Sprintf("%s = %s", s.column, a.add(s.value)))
		}
	}
	where, err := b.f.where(b.tenantID, b.conds, &a)
	if err != nil {
		return Query{}, err
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s", b.table, strings.Join(parts, ", "), where)
	ret, err := b.f.returning(b.returning)
	if err != nil {
		return Query{}, err
	}
	return Query{SQL: sql + ret, Args: a.values}, nil
}

// DeleteBuilder baja con alcance de tenant.
type DeleteBuilder struct {
	f        *Filter
	tenantID int64
	table    string
	conds    []Cond
}

// Delete inicia una baja en table restringida a tenantID.
func (f *Filter) Delete(tenantID int64, table string) *DeleteBuilder {
	return &DeleteBuilder{f: f, tenantID: tenantID, table: table}
}

// Where conjuga condiciones adicionales.
func (b *DeleteBuilder) Where(conds ...Cond) *DeleteBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

// Build valida y produce la sentencia.
func (b *DeleteBuilder) Build() (Query, error) {
	if err := b.f.check(b.tenantID, b.table); err != nil {
		return Query{}, err
	}
	var a args
	where, err := b.f.where(b.tenantID, b.conds, &a)
	if err != nil {
		return Query{}, err
	}
	return Query{SQL: fmt.Sprintf("DELETE FROM %s WHERE %s", b.table, where), Args: a.values}, nil
}

// InsertBuilder alta con la columna de tenant inyectada.
type InsertBuilder struct {
	f         *Filter
	tenantID  int64
	table     string
	columns   []string
	values    []any
	returning []string
}

// Insert inicia un alta en table para tenantID.
func (f *Filter) Insert(tenantID int64, table string) *InsertBuilder {
	return &InsertBuilder{f: f, tenantID: tenantID, table: table}
}

// Value agrega una columna y su valor.
func (b *InsertBuilder) Value(column string, value any) *InsertBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

// Returning columnas a devolver.
func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = append(b.returning, columns...)
	return b
}

// Build valida y produce la sentencia.
func (b *InsertBuilder) Build() (Query, error) {
	if err := b.f.check(b.tenantID, b.table); err != nil {
		return Query{}, err
	}
	var a args
	cols := []string{b.f.column}
	placeholders := []string{a.add(b.tenantID)}
	for i, c := range b.columns {
		if err := b.f.checkColumn(c); err != nil {
			return Query{}, err
		}
		if c == b.f.column {
			return Query{}, ErrTenantColumn
		}
		cols = append(cols, c)
		placeholders = append(placeholders, a.add(b.values[i]))
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	ret, err := b.f.returning(b.returning)
	if err != nil {
		return Query{}, err
	}
	return Query{SQL: sql + ret, Args: a.values}, nil
}

func (f *Filter) returning(cols []string) (string, error) {
	if len(cols) == 0 {
		return "", nil
	}
	for _, c := range cols {
		if err := f.checkColumn(c); err != nil {
			return "", err
		}
	}
	return " RETURNING " + strings.Join(cols, ", "), nil
}
