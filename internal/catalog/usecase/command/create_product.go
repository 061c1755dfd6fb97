package command

import (
	"context"
	"fmt"

	"github.com/kh199/add-product-to-order/internal/catalog/domain"
)

// CreateProductCommand represents the command to create a product
type CreateProductCommand struct {
	Name   string
	Amount int
	Price  float64
}

// CreateProductHandler handles create product command
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Nomenclature, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if cmd.Amount < 0 {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	if cmd.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}

	product := &domain.Nomenclature{
		Name:   cmd.Name,
		Amount: cmd.Amount,
		Price:  cmd.Price,
	}

	if err := h.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}
