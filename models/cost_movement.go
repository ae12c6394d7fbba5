package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Nephast0/web-de-administracion-de-suministros/types"
)

// CostMovement is the append-only event log behind the cost engine. Each row
// records the aggregate state immediately before it was applied, which is
// what makes a purchase cancellation exactly reversible: the engine replays
// the surviving events instead of guessing an inverse average.
type CostMovement struct {
	ID           uint64             `json:"id" gorm:"primaryKey"`
	ProductID    string             `json:"product_id" gorm:"index"`
	EntryID      uint64             `json:"entry_id" gorm:"index"`
	Kind         types.MovementKind `json:"kind"`
	Quantity     int64              `json:"quantity"`
	UnitCost     decimal.Decimal    `json:"unit_cost" gorm:"type:decimal(12,2);default:0.0"`
	PrevQuantity int64              `json:"prev_quantity"`
	PrevCost     decimal.Decimal    `json:"prev_cost" gorm:"type:decimal(12,2);default:0.0"`
	NewCost      decimal.Decimal    `json:"new_cost" gorm:"type:decimal(12,2);default:0.0"`
	ReversesID   uint64             `json:"reverses_id" gorm:"index;default:0"`
	CreatedAt    time.Time          `json:"created_at"`
}
