package command

import (
	"context"
	"errors"
	"fmt"

	catalog "github.com/kh199/add-product-to-order/internal/catalog/domain"
	catalogquery "github.com/kh199/add-product-to-order/internal/catalog/usecase/query"
	"github.com/kh199/add-product-to-order/internal/order/domain"
	"github.com/kh199/add-product-to-order/kafka"
	"github.com/kh199/add-product-to-order/pkg/logger"
	"github.com/kh199/add-product-to-order/pkg/metrics"
)

// AddProductCommand adds Amount units of a product to an order
type AddProductCommand struct {
	OrderID        uint
	NomenclatureID uint
	Amount         int
}

// EventPublisher publishes domain events after a successful upsert
type EventPublisher interface {
	PublishProductAdded(ctx context.Context, event kafka.ProductAddedEvent) error
}

// AddProductHandler handles the add-product-to-order command.
//
// The operation is a stock-guarded idempotent upsert: the existing line for
// the (order, product) pair is found or created, the amount delta is merged
// into it, and the product's available quantity is decremented, all inside
// one transaction. The stock guard runs twice: once outside the transaction
// as a fast fail, and again on the locked product row, because the first
// snapshot may be stale under concurrent requests.
type AddProductHandler struct {
	repo       domain.Repository
	stockGuard *catalogquery.CheckStockHandler
	publisher  EventPublisher
}

// NewAddProductHandler creates a new add product handler
func NewAddProductHandler(repo domain.Repository, stockGuard *catalogquery.CheckStockHandler, publisher EventPublisher) *AddProductHandler {
	return &AddProductHandler{
		repo:       repo,
		stockGuard: stockGuard,
		publisher:  publisher,
	}
}

// Handle executes the add product command and returns the line's new state
func (h *AddProductHandler) Handle(ctx context.Context, cmd AddProductCommand) (*domain.OrderLine, error) {
	if cmd.OrderID == 0 || cmd.NomenclatureID == 0 {
		return nil, domain.ErrInvalidID
	}
	if cmd.Amount <= 0 {
		return nil, catalog.ErrInvalidAmount
	}

	// Fast fail before opening a transaction
	if _, err := h.stockGuard.Handle(ctx, catalogquery.CheckStockQuery{
		NomenclatureID: cmd.NomenclatureID,
		Amount:         cmd.Amount,
	}); err != nil {
		return nil, h.classify(err)
	}

	var (
		line    *domain.OrderLine
		created bool
	)

	err := h.repo.InTx(ctx, func(s domain.TxStore) error {
		// Re-check on the locked row: the pre-check snapshot may be stale
		product, err := s.ProductForUpdate(ctx, cmd.NomenclatureID)
		if err != nil {
			return err
		}
		if !product.CanFulfill(cmd.Amount) {
			return catalog.ErrInsufficientStock
		}

		existing, err := s.Line(ctx, cmd.OrderID, cmd.NomenclatureID)
		if err != nil {
			return err
		}

		if existing == nil {
			order, err := s.OrderByID(ctx, cmd.OrderID)
			if err != nil {
				return err
			}
			newLine := &domain.OrderLine{
				OrderID:        cmd.OrderID,
				NomenclatureID: cmd.NomenclatureID,
				Amount:         cmd.Amount,
				Price:          product.Price,
				// parent order's timestamp, so partitioning can route the row
				CreatedAt: order.CreatedAt,
			}
			if err := s.CreateLine(ctx, newLine); err != nil {
				return err
			}
			line, created = newLine, true
		} else {
			// Price is first-write-wins: only the amount changes on merge
			existing.AddAmount(cmd.Amount)
			updated, err := s.UpdateLineAmount(ctx, cmd.OrderID, cmd.NomenclatureID, existing.Amount)
			if err != nil {
				return err
			}
			line = updated
		}

		return s.DecrementProductAmount(ctx, cmd.NomenclatureID, cmd.Amount)
	})
	if err != nil {
		return nil, h.classify(err)
	}

	if created {
		metrics.OrderLineUpserts.WithLabelValues(metrics.ResultCreated).Inc()
	} else {
		metrics.OrderLineUpserts.WithLabelValues(metrics.ResultUpdated).Inc()
	}

	logger.Info(ctx).
		Uint("order_id", line.OrderID).
		Uint("nomenclature_id", line.NomenclatureID).
		Int("delta", cmd.Amount).
		Int("amount", line.Amount).
		Bool("created", created).
		Msg("Product added to order")

	h.publishEvent(ctx, cmd, line, created)

	return line, nil
}

// classify maps failures onto the stable error kinds the transport layer
// understands. Unknown storage errors wrap ErrPersistence; by then the
// transaction has rolled back, so no partial write is observable.
func (h *AddProductHandler) classify(err error) error {
	switch {
	case errors.Is(err, catalog.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidID):
		return err
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		metrics.OrderLineUpserts.WithLabelValues(metrics.ResultRejected).Inc()
		return err
	case errors.Is(err, catalog.ErrInsufficientStock):
		metrics.StockRejections.Inc()
		metrics.OrderLineUpserts.WithLabelValues(metrics.ResultRejected).Inc()
		return err
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		metrics.OrderLineUpserts.WithLabelValues(metrics.ResultError).Inc()
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	default:
		metrics.OrderLineUpserts.WithLabelValues(metrics.ResultError).Inc()
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
}

// publishEvent emits the order.product_added event. Publishing is best
// effort: the upsert has already committed, so a broker failure is logged
// and not surfaced to the caller.
func (h *AddProductHandler) publishEvent(ctx context.Context, cmd AddProductCommand, line *domain.OrderLine, created bool) {
	if h.publisher == nil {
		return
	}

	event := kafka.ProductAddedEvent{
		OrderID:        line.OrderID,
		NomenclatureID: line.NomenclatureID,
		Delta:          cmd.Amount,
		Amount:         line.Amount,
		Price:          line.Price,
		LineCreated:    created,
	}

	if err := h.publisher.PublishProductAdded(ctx, event); err != nil {
		logger.Error(ctx).
			Err(err).
			Uint("order_id", line.OrderID).
			Uint("nomenclature_id", line.NomenclatureID).
			Msg("Failed to publish product added event")
	}
}
