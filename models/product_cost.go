package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Nephast0/web-de-administracion-de-suministros/types"
)

// ProductCost is the per-product costing aggregate. Only the cost engine
// mutates it, always inside the posting transaction.
type ProductCost struct {
	ID                  uint64          `json:"id" gorm:"primaryKey"`
	ProductID           string          `json:"product_id" gorm:"uniqueIndex"`
	QuantityOnHand      int64           `json:"quantity_on_hand"`
	WeightedAverageCost decimal.Decimal `json:"weighted_average_cost" gorm:"type:decimal(12,2);default:0.0"`
	LockVersion         int64           `json:"-" gorm:"default:0"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// SaveGuarded persists the aggregate only if nobody else updated it since it
// was read. A lost race surfaces as ErrConcurrencyConflict so the posting can
// be retried from a fresh read.
func (p *ProductCost) SaveGuarded(tx *gorm.DB) error {
	read_version := p.LockVersion
	p.LockVersion++

	result := tx.Model(&ProductCost{}).
		Where("id = ? AND lock_version = ?", p.ID, read_version).
		Updates(map[string]interface{}{
			"quantity_on_hand":      p.QuantityOnHand,
			"weighted_average_cost": p.WeightedAverageCost,
			"lock_version":          p.LockVersion,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.ErrConcurrencyConflict
	}

	return nil
}
