package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// memStore base en memoria con semántica transaccional mínima: Run serializa y, si fn falla,
// restaura el estado previo.
type memStore struct {
	mu        sync.Mutex
	products  map[int64]*entity.Product
	movements []*entity.StockMovement
	nextID    int64
	// failCreateMovement fuerza un error de infraestructura al insertar un movimiento.
	failCreateMovement error
}

func newMemStore() *memStore {
	return &memStore{products: map[int64]*entity.Product{}}
}

func (s *memStore) addProduct(tenantID int64, stock int64) *entity.Product {
	s.nextID++
	p := &entity.Product{ID: s.nextID, TenantID: tenantID, SKU: "SKU", Name: "Producto", StockQuantity: stock, Status: entity.StatusActive}
	s.products[p.ID] = p
	return p
}

func (s *memStore) stock(id int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].StockQuantity
}

func (s *memStore) signedSum(tenantID, productID int64) int64 {
	var sum int64
	for _, m := range s.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			sum += m.SignedQuantity()
		}
	}
	return sum
}

// memTx implementa inventory.TxRunner.
type memTx struct{ s *memStore }

var _ inventory.TxRunner = memTx{}

func (t memTx) Run(ctx context.Context, fn func(repository.ProductRepository, repository.StockMovementRepository) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snapshot := make(map[int64]entity.Product, len(t.s.products))
	for id, p := range t.s.products {
		snapshot[id] = *p
	}
	nMov := len(t.s.movements)
	if err := fn(memProducts{t.s}, memMovements{t.s}); err != nil {
		for id := range t.s.products {
			p := snapshot[id]
			t.s.products[id] = &p
		}
		t.s.movements = t.s.movements[:nMov]
		return err
	}
	return nil
}

// memProducts asume que el llamador ya tiene el lock (dentro de Run) salvo en lecturas
// directas desde el caso de uso, que se hacen fuera de Run en los tests secuenciales.
type memProducts struct{ s *memStore }

func (r memProducts) Create(_ context.Context, p *entity.Product) error {
	for _, x := range r.s.products {
		if x.TenantID == p.TenantID && x.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.nextID++
	p.ID = r.s.nextID
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r memProducts) GetByID(_ context.Context, tenantID, id int64) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r memProducts) GetBySKU(_ context.Context, tenantID int64, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.TenantID == tenantID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memProducts) Update(_ context.Context, p *entity.Product) error {
	cur, ok := r.s.products[p.ID]
	if !ok || cur.TenantID != p.TenantID {
		return domain.ErrNotFound
	}
	stock := cur.StockQuantity
	cp := *p
	cp.StockQuantity = stock
	r.s.products[p.ID] = &cp
	return nil
}

func (r memProducts) SetStatus(_ context.Context, tenantID, id int64, status string) error {
	cur, ok := r.s.products[id]
	if !ok || cur.TenantID != tenantID {
		return domain.ErrNotFound
	}
	cur.Status = status
	return nil
}

func (r memProducts) ListByTenant(_ context.Context, tenantID int64, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.TenantID == tenantID {
			cp := *p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r memProducts) AdjustStock(_ context.Context, tenantID, productID, delta int64, allowNegative bool) (int64, bool, error) {
	p, ok := r.s.products[productID]
	if !ok || p.TenantID != tenantID {
		return 0, false, nil
	}
	if !allowNegative && p.StockQuantity+delta < 0 {
		return 0, false, nil
	}
	p.StockQuantity += delta
	return p.StockQuantity, true, nil
}

type memMovements struct{ s *memStore }

func (r memMovements) Create(_ context.Context, m *entity.StockMovement) error {
	if r.s.failCreateMovement != nil {
		return r.s.failCreateMovement
	}
	r.s.nextID++
	m.ID = r.s.nextID
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r memMovements) ListByProduct(_ context.Context, tenantID, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.TenantID == tenantID && m.ProductID == productID {
			list = append(list, m)
		}
	}
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r memMovements) SumSigned(_ context.Context, tenantID, productID int64) (int64, error) {
	return r.s.signedSum(tenantID, productID), nil
}

var errConexion = errors.New("conexión perdida")

type fakeKardex struct {
	product *entity.Product
	lines   []inventory.KardexLine
}

func (k *fakeKardex) GenerateKardexPDF(p *entity.Product, lines []inventory.KardexLine) ([]byte, error) {
	k.product, k.lines = p, lines
	return []byte("%PDF-fake"), nil
}
