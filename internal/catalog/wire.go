//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/kh199/add-product-to-order/internal/catalog/delivery/http"
	"github.com/kh199/add-product-to-order/internal/catalog/usecase/command"
	"github.com/kh199/add-product-to-order/internal/catalog/usecase/query"
)

// InitializeHTTPHandler initializes the catalog HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.ProductHandler, error) {
	wire.Build(
		RepositorySet,
		command.NewCreateProductHandler,
		query.NewGetProductHandler,
		query.NewListProductsHandler,
		query.NewCheckStockHandler,
		http.NewProductHandler,
	)
	return nil, nil
}
