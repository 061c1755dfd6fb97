package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/kh199/add-product-to-order/internal/order/domain"
)

var tracer = otel.Tracer("order-repository")

// TracingOrderRepository wraps GormOrderRepository with tracing
type TracingOrderRepository struct {
	*GormOrderRepository
}

// NewTracingOrderRepository creates an order repository with tracing
func NewTracingOrderRepository(db *gorm.DB) *TracingOrderRepository {
	return &TracingOrderRepository{
		GormOrderRepository: NewGormOrderRepository(db),
	}
}

func (r *TracingOrderRepository) InTx(ctx context.Context, fn func(domain.TxStore) error) error {
	ctx, span := tracer.Start(ctx, "repository.InTx")
	defer span.End()

	if err := r.GormOrderRepository.InTx(ctx, fn); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (r *TracingOrderRepository) Line(ctx context.Context, orderID, nomenclatureID uint) (*domain.OrderLine, error) {
	ctx, span := tracer.Start(ctx, "repository.Line",
		trace.WithAttributes(
			attribute.Int("order.id", int(orderID)),
			attribute.Int("product.id", int(nomenclatureID)),
		),
	)
	defer span.End()

	line, err := r.GormOrderRepository.Line(ctx, orderID, nomenclatureID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("line.amount", line.Amount))
	return line, nil
}

func (r *TracingOrderRepository) LinesByOrder(ctx context.Context, orderID uint) ([]domain.OrderLine, error) {
	ctx, span := tracer.Start(ctx, "repository.LinesByOrder",
		trace.WithAttributes(attribute.Int("order.id", int(orderID))),
	)
	defer span.End()

	lines, err := r.GormOrderRepository.LinesByOrder(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(lines)))
	return lines, nil
}

func (r *TracingOrderRepository) CustomerTotals(ctx context.Context) ([]domain.CustomerTotal, error) {
	ctx, span := tracer.Start(ctx, "repository.CustomerTotals")
	defer span.End()

	totals, err := r.GormOrderRepository.CustomerTotals(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(totals)))
	return totals, nil
}
