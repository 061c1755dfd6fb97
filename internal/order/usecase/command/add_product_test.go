package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/kh199/add-product-to-order/internal/catalog/domain"
	catalogquery "github.com/kh199/add-product-to-order/internal/catalog/usecase/query"
	"github.com/kh199/add-product-to-order/internal/order/domain"
	"github.com/kh199/add-product-to-order/kafka"
)

type lineKey struct {
	orderID        uint
	nomenclatureID uint
}

// memStore is an in-memory stand-in for the database. InTx holds one lock
// for the whole transaction, which reproduces the serialization the real
// repository gets from row locking, and commits staged copies only when fn
// succeeds, which reproduces rollback.
type memStore struct {
	mu       sync.Mutex
	products map[uint]catalog.Nomenclature
	orders   map[uint]domain.Order
	lines    map[lineKey]domain.OrderLine

	failDecrement bool
	failCreate    bool
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[uint]catalog.Nomenclature),
		orders:   make(map[uint]domain.Order),
		lines:    make(map[lineKey]domain.OrderLine),
	}
}

func (m *memStore) InTx(ctx context.Context, fn func(domain.TxStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memTx{
		store:    m,
		products: cloneMap(m.products),
		lines:    cloneMap(m.lines),
	}
	if err := fn(tx); err != nil {
		return err
	}

	m.products = tx.products
	m.lines = tx.lines
	return nil
}

func (m *memStore) Line(ctx context.Context, orderID, nomenclatureID uint) (*domain.OrderLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line, ok := m.lines[lineKey{orderID, nomenclatureID}]
	if !ok {
		return nil, domain.ErrLineNotFound
	}
	return &line, nil
}

func (m *memStore) LinesByOrder(ctx context.Context, orderID uint) ([]domain.OrderLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lines []domain.OrderLine
	for key, line := range m.lines {
		if key.orderID == orderID {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (m *memStore) CustomerTotals(ctx context.Context) ([]domain.CustomerTotal, error) {
	return nil, nil
}

func (m *memStore) productAmount(t *testing.T, id uint) int {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.products[id]
	require.True(t, ok, "product %d must exist", id)
	return product.Amount
}

func (m *memStore) lineCount(orderID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for key := range m.lines {
		if key.orderID == orderID {
			count++
		}
	}
	return count
}

// memTx applies writes to staged copies so a failed transaction leaves the
// store untouched
type memTx struct {
	store    *memStore
	products map[uint]catalog.Nomenclature
	lines    map[lineKey]domain.OrderLine
}

func (tx *memTx) ProductForUpdate(ctx context.Context, id uint) (*catalog.Nomenclature, error) {
	product, ok := tx.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &product, nil
}

func (tx *memTx) DecrementProductAmount(ctx context.Context, id uint, amount int) error {
	if tx.store.failDecrement {
		return assert.AnError
	}
	product, ok := tx.products[id]
	if !ok {
		return catalog.ErrProductNotFound
	}
	product.Amount -= amount
	tx.products[id] = product
	return nil
}

func (tx *memTx) OrderByID(ctx context.Context, id uint) (*domain.Order, error) {
	order, ok := tx.store.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

func (tx *memTx) Line(ctx context.Context, orderID, nomenclatureID uint) (*domain.OrderLine, error) {
	line, ok := tx.lines[lineKey{orderID, nomenclatureID}]
	if !ok {
		return nil, nil
	}
	return &line, nil
}

func (tx *memTx) CreateLine(ctx context.Context, line *domain.OrderLine) error {
	if tx.store.failCreate {
		return assert.AnError
	}
	tx.lines[lineKey{line.OrderID, line.NomenclatureID}] = *line
	return nil
}

func (tx *memTx) UpdateLineAmount(ctx context.Context, orderID, nomenclatureID uint, amount int) (*domain.OrderLine, error) {
	key := lineKey{orderID, nomenclatureID}
	line, ok := tx.lines[key]
	if !ok {
		return nil, domain.ErrLineNotFound
	}
	line.Amount = amount
	tx.lines[key] = line
	return &line, nil
}

func cloneMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// memProductRepo backs the stock guard with the same data the store sees
type memProductRepo struct {
	store *memStore
}

func (r *memProductRepo) Create(ctx context.Context, product *catalog.Nomenclature) error {
	return nil
}

func (r *memProductRepo) FindByID(ctx context.Context, id uint) (*catalog.Nomenclature, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product, ok := r.store.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &product, nil
}

func (r *memProductRepo) FindAll(ctx context.Context, limit, offset int) ([]catalog.Nomenclature, error) {
	return nil, nil
}

func (r *memProductRepo) FindByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]catalog.Nomenclature, error) {
	return nil, nil
}

func (r *memProductRepo) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.ProductAddedEvent
}

func (p *fakePublisher) PublishProductAdded(ctx context.Context, event kafka.ProductAddedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func newHandler(store *memStore, publisher EventPublisher) *AddProductHandler {
	guard := catalogquery.NewCheckStockHandler(&memProductRepo{store: store})
	return NewAddProductHandler(store, guard, publisher)
}

func seed(store *memStore) {
	store.products[1] = catalog.Nomenclature{ID: 1, Name: "bolt M6", Amount: 10, Price: 2.5}
	store.orders[1] = domain.Order{ID: 1, CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store.orders[2] = domain.Order{ID: 2, CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func TestAddProduct_CreatesLine(t *testing.T) {
	store := newMemStore()
	seed(store)
	publisher := &fakePublisher{}
	handler := newHandler(store, publisher)

	line, err := handler.Handle(context.Background(), AddProductCommand{
		OrderID: 1, NomenclatureID: 1, Amount: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(1), line.OrderID)
	assert.Equal(t, uint(1), line.NomenclatureID)
	assert.Equal(t, 3, line.Amount)
	assert.Equal(t, 2.5, line.Price)
	assert.Equal(t, store.orders[1].CreatedAt, line.CreatedAt,
		"line must carry the parent order's timestamp")
	assert.Equal(t, 7, store.productAmount(t, 1))

	require.Len(t, publisher.events, 1)
	assert.True(t, publisher.events[0].LineCreated)
	assert.Equal(t, 3, publisher.events[0].Amount)
}

func TestAddProduct_MergesExistingLine(t *testing.T) {
	store := newMemStore()
	seed(store)
	handler := newHandler(store, nil)
	ctx := context.Background()

	line, err := handler.Handle(ctx, AddProductCommand{OrderID: 1, NomenclatureID: 1, Amount: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, line.Amount)
	assert.Equal(t, 7, store.productAmount(t, 1))

	line, err = handler.Handle(ctx, AddProductCommand{OrderID: 1, NomenclatureID: 1, Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, 8, line.Amount)
	assert.Equal(t, 2, store.productAmount(t, 1))
	assert.Equal(t, 1, store.lineCount(1), "merging must never add a second line")

	_, err = handler.Handle(ctx, AddProductCommand{OrderID: 1, NomenclatureID: 1, Amount: 5})
	require.ErrorIs(t, err, catalog.ErrInsufficientStock)
	assert.Equal(t, 2, store.productAmount(t, 1), "rejected request must not change stock")
}

func TestAddProduct_PriceSnapshotIsImmutable(t *testing.T) {
	store := newMemStore()
	seed(store)
	handler := newHandler(store, nil)
	ctx := context.Background()

	_, err := handler.Handle(ctx, AddProductCommand{OrderID: 1, NomenclatureID: 1, Amount: 2})
	require.NoError(t, err)

	// Reprice the product after the line exists
	store.mu.Lock()
	product := store.products[1]
	product.Price = 99.0
	store.products[1] = product
	store.mu.Unlock()

	line, err := handler.Handle(ctx, AddProductCommand{OrderID: 1, NomenclatureID: 1, Amount: 2})
	require.NoError(t, err)
	assert.Equal(t, 2.5, line.Price, "price snapshot must keep its first-write value")
}

func TestAddProduct_Additivity(t *testing.T) {
	ctx := context.Background()

	split := newMemStore()
	seed(split)
	splitHandler := newHandler(split, nil)

	_, err := splitHandler.Handle(ctx, AddProductCommand{OrderID: 1, NomenclatureID: 1, Amount: 4})
	require.NoError(t, err)
	line, err := splitHandler.Handle(ctx, AddProductCommand{OrderID: 1, NomenclatureID: 1, Amount: 3})
	require.NoError(t, err)

	single := newMemStore()
	seed(single)
	singleHandler := newHandler(single, nil)
	want, err := singleHandler.Handle(ctx, AddProductCommand{OrderID: 1, NomenclatureID: 1, Amount: 7})
	require.NoError(t, err)

	assert.Equal(t, want.Amount, line.Amount)
	assert.Equal(t, single.productAmount(t, 1), split.productAmount(t, 1))
}

func TestAddProduct_ValidationFailures(t *testing.T) {
	store := newMemStore()
	seed(store)
	handler := newHandler(store, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		cmd     AddProductCommand
		wantErr error
	}{
		{"zero amount", AddProductCommand{OrderID: 1, NomenclatureID: 1, Amount: 0}, catalog.ErrInvalidAmount},
		{"negative amount", AddProductCommand{OrderID: 1, NomenclatureID: 1, Amount: -5}, catalog.ErrInvalidAmount},
		{"zero order id", AddProductCommand{OrderID: 0, NomenclatureID: 1, Amount: 1}, domain.ErrInvalidID},
		{"zero product id", AddProductCommand{OrderID: 1, NomenclatureID: 0, Amount: 1}, domain.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(ctx, tt.cmd)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 10, store.productAmount(t, 1))
			assert.Equal(t, 0, store.lineCount(1))
		})
	}
}

func TestAddProduct_UnknownProduct(t *testing.T) {
	store := newMemStore()
	seed(store)
	handler := newHandler(store, nil)

	_, err := handler.Handle(context.Background(), AddProductCommand{
		OrderID: 1, NomenclatureID: 42, Amount: 1,
	})

	require.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Equal(t, 0, store.lineCount(1))
}

func TestAddProduct_UnknownOrder(t *testing.T) {
	store := newMemStore()
	seed(store)
	handler := newHandler(store, nil)

	_, err := handler.Handle(context.Background(), AddProductCommand{
		OrderID: 99, NomenclatureID: 1, Amount: 1,
	})

	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Equal(t, 10, store.productAmount(t, 1), "failed transaction must not decrement stock")
}

func TestAddProduct_RollsBackWhenDecrementFails(t *testing.T) {
	store := newMemStore()
	seed(store)
	store.failDecrement = true
	handler := newHandler(store, nil)

	_, err := handler.Handle(context.Background(), AddProductCommand{
		OrderID: 1, NomenclatureID: 1, Amount: 3,
	})

	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 10, store.productAmount(t, 1))
	assert.Equal(t, 0, store.lineCount(1), "line write must roll back with the failed decrement")
}

func TestAddProduct_RollsBackWhenCreateFails(t *testing.T) {
	store := newMemStore()
	seed(store)
	store.failCreate = true
	handler := newHandler(store, nil)

	_, err := handler.Handle(context.Background(), AddProductCommand{
		OrderID: 1, NomenclatureID: 1, Amount: 3,
	})

	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 10, store.productAmount(t, 1))
	assert.Equal(t, 0, store.lineCount(1))
}

func TestAddProduct_CancelledContext(t *testing.T) {
	store := newMemStore()
	seed(store)
	handler := newHandler(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handler.Handle(ctx, AddProductCommand{OrderID: 1, NomenclatureID: 1, Amount: 1})

	require.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, 10, store.productAmount(t, 1))
}

func TestAddProduct_ConcurrentRequestsNeverOversell(t *testing.T) {
	const n = 8

	store := newMemStore()
	seed(store)
	store.mu.Lock()
	product := store.products[1]
	product.Amount = n - 1
	store.products[1] = product
	store.mu.Unlock()

	handler := newHandler(store, nil)

	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := handler.Handle(context.Background(), AddProductCommand{
				OrderID: 1, NomenclatureID: 1, Amount: 1,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, rejections int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, catalog.ErrInsufficientStock):
			rejections++
		}
	}

	assert.Equal(t, n-1, successes)
	assert.Equal(t, 1, rejections)
	assert.Equal(t, 0, store.productAmount(t, 1), "stock must land exactly at zero")

	line, err := store.Line(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, n-1, line.Amount)
}
