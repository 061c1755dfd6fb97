package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalog "github.com/kh199/add-product-to-order/internal/catalog/domain"
	"github.com/kh199/add-product-to-order/internal/order/domain"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Customer{},
		&domain.Order{},
		&domain.OrderLine{},
	)
}

// InTx runs fn inside a single database transaction. Returning an error
// from fn rolls back every write issued through the TxStore.
func (r *GormOrderRepository) InTx(ctx context.Context, fn func(domain.TxStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxStore{tx: tx})
	})
}

func (r *GormOrderRepository) Line(ctx context.Context, orderID, nomenclatureID uint) (*domain.OrderLine, error) {
	var line domain.OrderLine
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND nomenclature_id = ?", orderID, nomenclatureID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to find order line: %w", err)
	}
	return &line, nil
}

func (r *GormOrderRepository) LinesByOrder(ctx context.Context, orderID uint) ([]domain.OrderLine, error) {
	var lines []domain.OrderLine
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("nomenclature_id").
		Find(&lines).Error
	return lines, err
}

// CustomerTotals computes the per-customer sum of ordered goods
func (r *GormOrderRepository) CustomerTotals(ctx context.Context) ([]domain.CustomerTotal, error) {
	var totals []domain.CustomerTotal
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id AS customer_id,
		       c.name,
		       COALESCE(SUM(oi.amount * oi.price), 0) AS total
		FROM customer c
		LEFT JOIN orders o ON o.customer_id = c.id
		LEFT JOIN order_item oi ON oi.order_id = o.id
		GROUP BY c.id, c.name
		ORDER BY total DESC`).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute customer totals: %w", err)
	}
	return totals, nil
}

// gormTxStore exposes the persistence collaborator over one open transaction
type gormTxStore struct {
	tx *gorm.DB
}

// ProductForUpdate locks the product row until the transaction commits, so
// concurrent upserts on the same product serialize here while other
// products stay uncontended.
func (s *gormTxStore) ProductForUpdate(ctx context.Context, id uint) (*catalog.Nomenclature, error) {
	var product catalog.Nomenclature
	err := s.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}
	return &product, nil
}

func (s *gormTxStore) DecrementProductAmount(ctx context.Context, id uint, amount int) error {
	result := s.tx.WithContext(ctx).
		Model(&catalog.Nomenclature{}).
		Where("id = ?", id).
		UpdateColumn("amount", gorm.Expr("amount - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement product amount: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

func (s *gormTxStore) OrderByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	err := s.tx.WithContext(ctx).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}

func (s *gormTxStore) Line(ctx context.Context, orderID, nomenclatureID uint) (*domain.OrderLine, error) {
	var line domain.OrderLine
	err := s.tx.WithContext(ctx).
		Where("order_id = ? AND nomenclature_id = ?", orderID, nomenclatureID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order line: %w", err)
	}
	return &line, nil
}

func (s *gormTxStore) CreateLine(ctx context.Context, line *domain.OrderLine) error {
	if err := s.tx.WithContext(ctx).Create(line).Error; err != nil {
		return fmt.Errorf("failed to create order line: %w", err)
	}
	return nil
}

func (s *gormTxStore) UpdateLineAmount(ctx context.Context, orderID, nomenclatureID uint, amount int) (*domain.OrderLine, error) {
	result := s.tx.WithContext(ctx).
		Model(&domain.OrderLine{}).
		Where("order_id = ? AND nomenclature_id = ?", orderID, nomenclatureID).
		Update("amount", amount)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrLineNotFound
	}

	var line domain.OrderLine
	err := s.tx.WithContext(ctx).
		Where("order_id = ? AND nomenclature_id = ?", orderID, nomenclatureID).
		First(&line).Error
	if err != nil {
		return nil, fmt.Errorf("failed to reload order line: %w", err)
	}
	return &line, nil
}
