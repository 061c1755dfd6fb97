package domain

import "context"

// Nomenclature represents a product in the catalog
type Nomenclature struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	Name   string  `json:"name" gorm:"type:text;not null;index:idx_nomenclature_name"`
	Amount int     `json:"amount" gorm:"not null;default:0;check:chk_nomenclature_amount_non_negative,amount >= 0"`
	Price  float64 `json:"price" gorm:"not null;index:idx_nomenclature_price;check:chk_nomenclature_price_non_negative,price >= 0"`
}

// TableName specifies the table name
func (Nomenclature) TableName() string {
	return "nomenclature"
}

// CanFulfill reports whether the available quantity covers the requested amount
func (n *Nomenclature) CanFulfill(amount int) bool {
	return n.Amount >= amount
}

// Category is a node of the product classification tree.
// Ancestry is kept as a materialized path ("1.4.9") so that subtree
// queries need no recursion.
type Category struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"type:text;not null"`
	Path     string `json:"path" gorm:"type:text;not null;index:idx_categories_path"`
	ParentID *uint  `json:"parent_id"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "category"
}

// ProductCategory links a product to a category
type ProductCategory struct {
	NomenclatureID uint `json:"nomenclature_id" gorm:"primaryKey;index:idx_pc_nomenclature"`
	CategoryID     uint `json:"category_id" gorm:"primaryKey;index:idx_pc_category"`
}

// TableName specifies the table name
func (ProductCategory) TableName() string {
	return "product_category"
}

// ProductRepository defines the contract for catalog data access
type ProductRepository interface {
	Create(ctx context.Context, product *Nomenclature) error
	FindByID(ctx context.Context, id uint) (*Nomenclature, error)
	FindAll(ctx context.Context, limit, offset int) ([]Nomenclature, error)
	FindByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]Nomenclature, error)
	Count(ctx context.Context) (int64, error)
}
