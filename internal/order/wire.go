//go:build wireinject
// +build wireinject

package order

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/kh199/add-product-to-order/internal/catalog"
	catalogquery "github.com/kh199/add-product-to-order/internal/catalog/usecase/query"
	"github.com/kh199/add-product-to-order/internal/order/delivery/http"
	"github.com/kh199/add-product-to-order/internal/order/usecase/command"
	"github.com/kh199/add-product-to-order/internal/order/usecase/query"
)

// InitializeHTTPHandler initializes the order HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher command.EventPublisher) (*http.OrderHandler, error) {
	wire.Build(
		RepositorySet,
		catalog.RepositorySet,
		catalogquery.NewCheckStockHandler,
		command.NewAddProductHandler,
		query.NewGetLineHandler,
		query.NewListLinesHandler,
		query.NewCustomerTotalsHandler,
		http.NewOrderHandler,
	)
	return nil, nil
}
