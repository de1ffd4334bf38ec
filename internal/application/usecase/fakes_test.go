package usecase_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// memDB base en memoria para productos, movimientos y clientes. Run serializa y revierte
// el estado si la función falla.
type memDB struct {
	mu        sync.Mutex
	products  map[int64]*entity.Product
	movements []*entity.StockMovement
	customers map[int64]*entity.Customer
	nextID    int64
}

func newMemDB() *memDB {
	return &memDB{products: map[int64]*entity.Product{}, customers: map[int64]*entity.Customer{}}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

type memTx struct{ db *memDB }

func (t memTx) Run(ctx context.Context, fn func(repository.ProductRepository, repository.StockMovementRepository) error) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	snapshot := make(map[int64]*entity.Product, len(t.db.products))
	for id, p := range t.db.products {
		cp := *p
		snapshot[id] = &cp
	}
	nMov := len(t.db.movements)
	if err := fn(memProducts{t.db}, memMovements{t.db}); err != nil {
		t.db.products = snapshot
		t.db.movements = t.db.movements[:nMov]
		return err
	}
	return nil
}

type memProducts struct{ db *memDB }

func (r memProducts) Create(_ context.Context, p *entity.Product) error {
	p.ID = r.db.id()
	cp := *p
	r.db.products[p.ID] = &cp
	return nil
}

func (r memProducts) GetByID(_ context.Context, tenantID, id int64) (*entity.Product, error) {
	p, ok := r.db.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r memProducts) GetBySKU(_ context.Context, tenantID int64, sku string) (*entity.Product, error) {
	for _, p := range r.db.products {
		if p.TenantID == tenantID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memProducts) Update(_ context.Context, p *entity.Product) error {
	cur, ok := r.db.products[p.ID]
	if !ok || cur.TenantID != p.TenantID {
		return domain.ErrNotFound
	}
	cp := *p
	cp.StockQuantity = cur.StockQuantity
	r.db.products[p.ID] = &cp
	return nil
}

func (r memProducts) SetStatus(_ context.Context, tenantID, id int64, status string) error {
	cur, ok := r.db.products[id]
	if !ok || cur.TenantID != tenantID {
		return domain.ErrNotFound
	}
	cur.Status = status
	return nil
}

func (r memProducts) ListByTenant(_ context.Context, tenantID int64, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.db.products {
		if p.TenantID == tenantID {
			cp := *p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r memProducts) AdjustStock(_ context.Context, tenantID, productID, delta int64, allowNegative bool) (int64, bool, error) {
	p, ok := r.db.products[productID]
	if !ok || p.TenantID != tenantID || (!allowNegative && p.StockQuantity+delta < 0) {
		return 0, false, nil
	}
	p.StockQuantity += delta
	return p.StockQuantity, true, nil
}

type memMovements struct{ db *memDB }

func (r memMovements) Create(_ context.Context, m *entity.StockMovement) error {
	m.ID = r.db.id()
	cp := *m
	r.db.movements = append(r.db.movements, &cp)
	return nil
}

func (r memMovements) ListByProduct(_ context.Context, tenantID, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.db.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			list = append([]*entity.StockMovement{m}, list...)
		}
	}
	return list, nil
}

func (r memMovements) SumSigned(_ context.Context, tenantID, productID int64) (int64, error) {
	var sum int64
	for _, m := range r.db.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			sum += m.SignedQuantity()
		}
	}
	return sum, nil
}

type memCustomers struct{ db *memDB }

func (r memCustomers) Create(_ context.Context, c *entity.Customer) error {
	c.ID = r.db.id()
	cp := *c
	r.db.customers[c.ID] = &cp
	return nil
}

func (r memCustomers) GetByID(_ context.Context, tenantID, id int64) (*entity.Customer, error) {
	c, ok := r.db.customers[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r memCustomers) GetByTaxID(_ context.Context, tenantID int64, taxID string) (*entity.Customer, error) {
	for _, c := range r.db.customers {
		if c.TenantID == tenantID && c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memCustomers) ListByTenant(_ context.Context, tenantID int64, limit, offset int) ([]*entity.Customer, error) {
	var list []*entity.Customer
	for _, c := range r.db.customers {
		if c.TenantID == tenantID {
			cp := *c
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r memCustomers) Update(_ context.Context, c *entity.Customer) error {
	cur, ok := r.db.customers[c.ID]
	if !ok || cur.TenantID != c.TenantID {
		return domain.ErrNotFound
	}
	cp := *c
	r.db.customers[c.ID] = &cp
	return nil
}

func (r memCustomers) Delete(_ context.Context, tenantID, id int64) error {
	cur, ok := r.db.customers[id]
	if !ok || cur.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.db.customers, id)
	return nil
}
