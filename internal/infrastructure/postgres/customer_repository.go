package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/domain/tenancy"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customersTable = "customers"

var customerColumns = []string{"id", "tenant_id", "name", "tax_id", "email", "phone", "created_at", "updated_at"}

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
	f *tenancy.Filter
}

// NewCustomerRepository construye el adaptador de persistencia para clientes.
func NewCustomerRepository(q Querier, f *tenancy.Filter) *CustomerRepo {
	return &CustomerRepo{q: q, f: f}
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	if err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	q, err := r.f.Insert(c.TenantID, customersTable).
		Value("name", c.Name).
		Value("tax_id", c.TaxID).
		Value("email", c.Email).
		Value("phone", c.Phone).
		Value("created_at", c.CreatedAt).
		Value("updated_at", c.UpdatedAt).
		Returning("id").
		Build()
	if err != nil {
		return err
	}
	if err := r.q.QueryRow(ctx, q.SQL, q.Args...).Scan(&c.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente del tenant.
func (r *CustomerRepo) GetByID(ctx context.Context, tenantID, id int64) (*entity.Customer, error) {
	return r.getOne(ctx, tenantID, tenancy.Eq("id", id))
}

// GetByTaxID obtiene un cliente por NIT/documento dentro del tenant.
func (r *CustomerRepo) GetByTaxID(ctx context.Context, tenantID int64, taxID string) (*entity.Customer, error) {
	return r.getOne(ctx, tenantID, tenancy.Eq("tax_id", taxID))
}

func (r *CustomerRepo) getOne(ctx context.Context, tenantID int64, cond tenancy.Cond) (*entity.Customer, error) {
	q, err := r.f.Select(tenantID, customersTable, customerColumns...).Where(cond).Build()
	if err != nil {
		return nil, err
	}
	c, err := scanCustomer(r.q.QueryRow(ctx, q.SQL, q.Args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// ListByTenant lista clientes del tenant.
func (r *CustomerRepo) ListByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]*entity.Customer, error) {
	q, err := r.f.Select(tenantID, customersTable, customerColumns...).
		OrderBy("name", false).
		Page(limit, offset).
		Build()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza un cliente del tenant.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	q, err := r.f.Update(c.TenantID, customersTable).
		Set("name", c.Name).
		Set("tax_id", c.TaxID).
		Set("email", c.Email).
		Set("phone", c.Phone).
		Set("updated_at", c.UpdatedAt).
		Where(tenancy.Eq("id", c.ID)).
		Build()
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, q.SQL, q.Args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente del tenant.
func (r *CustomerRepo) Delete(ctx context.Context, tenantID, id int64) error {
	q, err := r.f.Delete(tenantID, customersTable).Where(tenancy.Eq("id", id)).Build()
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, q.SQL, q.Args...)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
