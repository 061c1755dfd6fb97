package query

import (
	"context"

	"github.com/kh199/add-product-to-order/internal/catalog/domain"
)

// CheckStockQuery asks whether a product can cover a requested amount
type CheckStockQuery struct {
	NomenclatureID uint
	Amount         int
}

// CheckStockHandler is the stock guard: it confirms the product exists
// and has enough available quantity. Read-only; the returned product is
// a snapshot and may be stale under concurrent writes.
type CheckStockHandler struct {
	repo domain.ProductRepository
}

// NewCheckStockHandler creates a new check stock handler
func NewCheckStockHandler(repo domain.ProductRepository) *CheckStockHandler {
	return &CheckStockHandler{repo: repo}
}

// Handle executes the stock check
func (h *CheckStockHandler) Handle(ctx context.Context, q CheckStockQuery) (*domain.Nomenclature, error) {
	if q.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	product, err := h.repo.FindByID(ctx, q.NomenclatureID)
	if err != nil {
		return nil, err
	}

	if !product.CanFulfill(q.Amount) {
		return nil, domain.ErrInsufficientStock
	}

	return product, nil
}
