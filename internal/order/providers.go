package order

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/kh199/add-product-to-order/internal/order/domain"
	"github.com/kh199/add-product-to-order/internal/order/repository"
)

// RepositorySet wires the order repository
var RepositorySet = wire.NewSet(
	ProvideOrderRepository,
)

// ProvideOrderRepository provides the order repository with tracing
func ProvideOrderRepository(db *gorm.DB) domain.Repository {
	return repository.NewTracingOrderRepository(db)
}
