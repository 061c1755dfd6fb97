package catalog

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/kh199/add-product-to-order/internal/catalog/domain"
	"github.com/kh199/add-product-to-order/internal/catalog/repository"
)

// RepositorySet wires the catalog repository
var RepositorySet = wire.NewSet(
	ProvideProductRepository,
)

// ProvideProductRepository provides the catalog repository with tracing
func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewTracingProductRepository(db)
}
