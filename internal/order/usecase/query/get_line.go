package query

import (
	"context"

	"github.com/kh199/add-product-to-order/internal/order/domain"
)

// GetLineQuery fetches one order line by its (order, product) pair
type GetLineQuery struct {
	OrderID        uint
	NomenclatureID uint
}

// GetLineHandler handles get line query
type GetLineHandler struct {
	repo domain.Repository
}

// NewGetLineHandler creates a new get line handler
func NewGetLineHandler(repo domain.Repository) *GetLineHandler {
	return &GetLineHandler{repo: repo}
}

// Handle executes the get line query
func (h *GetLineHandler) Handle(ctx context.Context, q GetLineQuery) (*domain.OrderLine, error) {
	if q.OrderID == 0 || q.NomenclatureID == 0 {
		return nil, domain.ErrInvalidID
	}
	return h.repo.Line(ctx, q.OrderID, q.NomenclatureID)
}

// ListLinesQuery fetches all lines of one order
type ListLinesQuery struct {
	OrderID uint
}

// ListLinesHandler handles list lines query
type ListLinesHandler struct {
	repo domain.Repository
}

// NewListLinesHandler creates a new list lines handler
func NewListLinesHandler(repo domain.Repository) *ListLinesHandler {
	return &ListLinesHandler{repo: repo}
}

// Handle executes the list lines query
func (h *ListLinesHandler) Handle(ctx context.Context, q ListLinesQuery) ([]domain.OrderLine, error) {
	if q.OrderID == 0 {
		return nil, domain.ErrInvalidID
	}
	return h.repo.LinesByOrder(ctx, q.OrderID)
}
