package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the catalog row. Quantity and UnitCost mirror the ProductCost
// aggregate and are written in the same transaction as the ledger posting;
// nothing else may touch them.
type Product struct {
	ID              string          `json:"id" gorm:"primaryKey;size:8"`
	SupplierID      string          `json:"supplier_id" gorm:"index" validate:"required"`
	ProductType     string          `json:"product_type" validate:"required"`
	Model           string          `json:"model" validate:"required"`
	Description     string          `json:"description"`
	Brand           string          `json:"brand"`
	ReferenceNumber string          `json:"reference_number" validate:"required"`
	Quantity        int64           `json:"quantity"`
	MinimumQuantity int64           `json:"minimum_quantity"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(10,2)" validate:"ValidatePrice"`
	UnitCost        decimal.Decimal `json:"unit_cost" gorm:"type:decimal(10,2);default:0.0"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (p Product) ValidatePrice(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(decimal.Zero)
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = ShortID()
	}

	return nil
}

func (p *Product) LowStock() bool {
	return p.MinimumQuantity > 0 && p.Quantity <= p.MinimumQuantity
}
