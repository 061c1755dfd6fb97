package domain

import (
	"context"
	"time"

	catalog "github.com/kh199/add-product-to-order/internal/catalog/domain"
)

// Customer represents a buyer
type Customer struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"type:text;not null;index:idx_customer_name"`
	Address string `json:"address" gorm:"type:text;not null"`
}

// TableName specifies the table name
func (Customer) TableName() string {
	return "customer"
}

// Order represents a placed order. Order placement itself is outside this
// service; orders are read-only here.
type Order struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CustomerID *uint     `json:"customer_id" gorm:"index:idx_order_customer"`
	CreatedAt  time.Time `json:"created_at" gorm:"index:idx_order_date"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderLine is the quantity of one product within one order. The composite
// primary key guarantees at most one line per (order, product) pair.
//
// Price is the unit price snapshot taken when the line is first created and
// is never recomputed, so historical order totals stay stable. CreatedAt is
// copied from the parent order so date-range partitioning can route the row
// without a join.
type OrderLine struct {
	OrderID        uint      `json:"order_id" gorm:"primaryKey"`
	NomenclatureID uint      `json:"nomenclature_id" gorm:"primaryKey;index:idx_oi_nomenclature"`
	Amount         int       `json:"amount" gorm:"not null;check:chk_order_item_amount_positive,amount > 0"`
	Price          float64   `json:"price" gorm:"not null;check:chk_order_item_price_non_negative,price >= 0"`
	CreatedAt      time.Time `json:"created_at" gorm:"index:idx_oi_order_created_at"`
}

// TableName specifies the table name
func (OrderLine) TableName() string {
	return "order_item"
}

// AddAmount merges a quantity delta into the line
func (l *OrderLine) AddAmount(delta int) {
	l.Amount += delta
}

// CustomerTotal is one row of the per-customer order sum report
type CustomerTotal struct {
	CustomerID uint    `json:"customer_id"`
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
}

// TxStore is the persistence collaborator visible inside one transaction.
// All reads and writes issued through it belong to the same atomic unit.
type TxStore interface {
	// ProductForUpdate fetches a product and locks its row until commit
	ProductForUpdate(ctx context.Context, id uint) (*catalog.Nomenclature, error)
	DecrementProductAmount(ctx context.Context, id uint, amount int) error
	OrderByID(ctx context.Context, id uint) (*Order, error)
	// Line returns (nil, nil) when no line exists for the pair
	Line(ctx context.Context, orderID, nomenclatureID uint) (*OrderLine, error)
	CreateLine(ctx context.Context, line *OrderLine) error
	UpdateLineAmount(ctx context.Context, orderID, nomenclatureID uint, amount int) (*OrderLine, error)
}

// Repository defines the contract for order data access
type Repository interface {
	// InTx runs fn inside one transaction; any error rolls the whole unit back
	InTx(ctx context.Context, fn func(TxStore) error) error
	Line(ctx context.Context, orderID, nomenclatureID uint) (*OrderLine, error)
	LinesByOrder(ctx context.Context, orderID uint) ([]OrderLine, error)
	CustomerTotals(ctx context.Context) ([]CustomerTotal, error)
}
