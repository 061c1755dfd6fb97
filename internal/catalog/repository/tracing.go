package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/kh199/add-product-to-order/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

// TracingProductRepository wraps GormProductRepository with tracing
type TracingProductRepository struct {
	*GormProductRepository
}

// NewTracingProductRepository creates a product repository with tracing
func NewTracingProductRepository(db *gorm.DB) *TracingProductRepository {
	return &TracingProductRepository{
		GormProductRepository: NewGormProductRepository(db),
	}
}

func (r *TracingProductRepository) Create(ctx context.Context, product *domain.Nomenclature) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("product.name", product.Name),
			attribute.Float64("product.price", product.Price),
			attribute.Int("product.amount", product.Amount),
		),
	)
	defer span.End()

	if err := r.GormProductRepository.Create(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("product.id", int(product.ID)))
	return nil
}

func (r *TracingProductRepository) FindByID(ctx context.Context, id uint) (*domain.Nomenclature, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	product, err := r.GormProductRepository.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("product.name", product.Name),
		attribute.Int("product.amount", product.Amount),
	)
	return product, nil
}

func (r *TracingProductRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Nomenclature, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	products, err := r.GormProductRepository.FindAll(ctx, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingProductRepository) FindByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]domain.Nomenclature, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByCategory",
		trace.WithAttributes(
			attribute.Int("query.category_id", int(categoryID)),
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	products, err := r.GormProductRepository.FindByCategory(ctx, categoryID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}
