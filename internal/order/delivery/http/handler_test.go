package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/kh199/add-product-to-order/internal/catalog/domain"
	catalogquery "github.com/kh199/add-product-to-order/internal/catalog/usecase/query"
	"github.com/kh199/add-product-to-order/internal/order/domain"
	"github.com/kh199/add-product-to-order/internal/order/usecase/command"
	"github.com/kh199/add-product-to-order/internal/order/usecase/query"
)

// testRepo is a minimal in-memory repository. InTx runs the callback
// against the repo itself under the lock; good enough for exercising the
// HTTP layer, the transactional edge cases live in the usecase tests.
type testRepo struct {
	mu       sync.Mutex
	products map[uint]*catalog.Nomenclature
	orders   map[uint]*domain.Order
	lines    map[[2]uint]*domain.OrderLine
	totals   []domain.CustomerTotal
}

func newTestRepo() *testRepo {
	return &testRepo{
		products: map[uint]*catalog.Nomenclature{
			1: {ID: 1, Name: "hex nut M8", Amount: 10, Price: 0.75},
		},
		orders: map[uint]*domain.Order{
			1: {ID: 1, CreatedAt: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)},
		},
		lines: map[[2]uint]*domain.OrderLine{},
		totals: []domain.CustomerTotal{
			{CustomerID: 1, Name: "Acme", Total: 42},
		},
	}
}

func (r *testRepo) InTx(ctx context.Context, fn func(domain.TxStore) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}

func (r *testRepo) ProductForUpdate(ctx context.Context, id uint) (*catalog.Nomenclature, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return product, nil
}

func (r *testRepo) DecrementProductAmount(ctx context.Context, id uint, amount int) error {
	r.products[id].Amount -= amount
	return nil
}

func (r *testRepo) OrderByID(ctx context.Context, id uint) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *testRepo) Line(ctx context.Context, orderID, nomenclatureID uint) (*domain.OrderLine, error) {
	line, ok := r.lines[[2]uint{orderID, nomenclatureID}]
	if !ok {
		return nil, nil
	}
	return line, nil
}

func (r *testRepo) CreateLine(ctx context.Context, line *domain.OrderLine) error {
	r.lines[[2]uint{line.OrderID, line.NomenclatureID}] = line
	return nil
}

func (r *testRepo) UpdateLineAmount(ctx context.Context, orderID, nomenclatureID uint, amount int) (*domain.OrderLine, error) {
	line := r.lines[[2]uint{orderID, nomenclatureID}]
	line.Amount = amount
	return line, nil
}

// lookupLine is the read-side Line with not-found semantics
func (r *testRepo) lookupLine(orderID, nomenclatureID uint) (*domain.OrderLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line, ok := r.lines[[2]uint{orderID, nomenclatureID}]
	if !ok {
		return nil, domain.ErrLineNotFound
	}
	return line, nil
}

func (r *testRepo) LinesByOrder(ctx context.Context, orderID uint) ([]domain.OrderLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var lines []domain.OrderLine
	for key, line := range r.lines {
		if key[0] == orderID {
			lines = append(lines, *line)
		}
	}
	return lines, nil
}

func (r *testRepo) CustomerTotals(ctx context.Context) ([]domain.CustomerTotal, error) {
	return r.totals, nil
}

// readRepo adapts testRepo so the query handlers see ErrLineNotFound
// instead of the in-transaction (nil, nil) convention
type readRepo struct {
	*testRepo
}

func (r readRepo) Line(ctx context.Context, orderID, nomenclatureID uint) (*domain.OrderLine, error) {
	return r.lookupLine(orderID, nomenclatureID)
}

type testProductRepo struct {
	repo *testRepo
}

func (r *testProductRepo) Create(ctx context.Context, product *catalog.Nomenclature) error {
	return nil
}

func (r *testProductRepo) FindByID(ctx context.Context, id uint) (*catalog.Nomenclature, error) {
	r.repo.mu.Lock()
	defer r.repo.mu.Unlock()
	product, ok := r.repo.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (r *testProductRepo) FindAll(ctx context.Context, limit, offset int) ([]catalog.Nomenclature, error) {
	return nil, nil
}

func (r *testProductRepo) FindByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]catalog.Nomenclature, error) {
	return nil, nil
}

func (r *testProductRepo) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func newTestRouter(repo *testRepo) *mux.Router {
	stockGuard := catalogquery.NewCheckStockHandler(&testProductRepo{repo: repo})
	read := readRepo{repo}

	handler := NewOrderHandler(
		command.NewAddProductHandler(repo, stockGuard, nil),
		query.NewGetLineHandler(read),
		query.NewListLinesHandler(read),
		query.NewCustomerTotalsHandler(read),
	)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestAddProductEndpoint(t *testing.T) {
	repo := newTestRepo()
	router := newTestRouter(repo)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/orders/add_product", map[string]interface{}{
		"order_id": 1, "nomenclature_id": 1, "amount": 3,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var out OrderOut
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, OrderOut{OrderID: 1, NomenclatureID: 1, Amount: 3}, out)

	// Second request merges into the same line
	rec, resp = doJSON(t, router, http.MethodPost, "/api/orders/add_product", map[string]interface{}{
		"order_id": 1, "nomenclature_id": 1, "amount": 5,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	data, _ = json.Marshal(resp.Data)
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 8, out.Amount)
}

func TestAddProductEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{"insufficient stock", map[string]interface{}{"order_id": 1, "nomenclature_id": 1, "amount": 11}, http.StatusConflict},
		{"unknown product", map[string]interface{}{"order_id": 1, "nomenclature_id": 99, "amount": 1}, http.StatusNotFound},
		{"unknown order", map[string]interface{}{"order_id": 42, "nomenclature_id": 1, "amount": 1}, http.StatusNotFound},
		{"zero amount", map[string]interface{}{"order_id": 1, "nomenclature_id": 1, "amount": 0}, http.StatusBadRequest},
		{"negative amount", map[string]interface{}{"order_id": 1, "nomenclature_id": 1, "amount": -2}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepo()
			router := newTestRouter(repo)

			rec, resp := doJSON(t, router, http.MethodPost, "/api/orders/add_product", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, 10, repo.products[1].Amount, "failed request must not change stock")
		})
	}
}

func TestAddProductEndpoint_MalformedBody(t *testing.T) {
	router := newTestRouter(newTestRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/orders/add_product", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLineEndpoint(t *testing.T) {
	repo := newTestRepo()
	repo.lines[[2]uint{1, 1}] = &domain.OrderLine{OrderID: 1, NomenclatureID: 1, Amount: 2, Price: 0.75}
	router := newTestRouter(repo)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/orders/1/items/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/orders/1/items/9", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/abc/items/1", nil)
	raw := httptest.NewRecorder()
	router.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestListLinesEndpoint(t *testing.T) {
	repo := newTestRepo()
	repo.lines[[2]uint{1, 1}] = &domain.OrderLine{OrderID: 1, NomenclatureID: 1, Amount: 2}
	repo.lines[[2]uint{1, 5}] = &domain.OrderLine{OrderID: 1, NomenclatureID: 5, Amount: 1}
	router := newTestRouter(repo)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/orders/1/items", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	lines, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, lines, 2)
}

func TestCustomerTotalsEndpoint(t *testing.T) {
	router := newTestRouter(newTestRepo())

	rec, resp := doJSON(t, router, http.MethodGet, "/api/orders/report/customer-totals", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{catalog.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrInvalidID, http.StatusBadRequest},
		{catalog.ErrProductNotFound, http.StatusNotFound},
		{domain.ErrOrderNotFound, http.StatusNotFound},
		{domain.ErrLineNotFound, http.StatusNotFound},
		{catalog.ErrInsufficientStock, http.StatusConflict},
		{domain.ErrUnavailable, http.StatusServiceUnavailable},
		{domain.ErrPersistence, http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForError(tt.err), "error %v", tt.err)
	}
}
