package query

import (
	"context"
	"fmt"

	"github.com/kh199/add-product-to-order/internal/order/domain"
)

// CustomerTotalsQuery requests the per-customer order sum report
type CustomerTotalsQuery struct {
	Top int
}

// CustomerTotalsHandler computes the sum of ordered goods per customer,
// the query behind the "top customers" report
type CustomerTotalsHandler struct {
	repo domain.Repository
}

// NewCustomerTotalsHandler creates a new customer totals handler
func NewCustomerTotalsHandler(repo domain.Repository) *CustomerTotalsHandler {
	return &CustomerTotalsHandler{repo: repo}
}

// Handle executes the customer totals query
func (h *CustomerTotalsHandler) Handle(ctx context.Context, q CustomerTotalsQuery) ([]domain.CustomerTotal, error) {
	totals, err := h.repo.CustomerTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer totals: %w", err)
	}

	if q.Top > 0 && q.Top < len(totals) {
		totals = totals[:q.Top]
	}

	return totals, nil
}
