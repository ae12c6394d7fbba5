package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Supplier struct {
	ID           string          `json:"id" gorm:"primaryKey;size:8"`
	Name         string          `json:"name" validate:"required"`
	Phone        string          `json:"phone" validate:"required"`
	Address      string          `json:"address" validate:"required"`
	Email        string          `json:"email" validate:"required|email"`
	CIF          string          `json:"cif" gorm:"uniqueIndex" validate:"required"`
	DiscountRate decimal.Decimal `json:"discount_rate" gorm:"type:decimal(10,2);default:0.0"`
	VATRate      decimal.Decimal `json:"vat_rate" gorm:"type:decimal(10,2);default:0.0"`
	ProductType  string          `json:"product_type"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = ShortID()
	}

	return nil
}

// ShortID keeps the 8-character hex identifiers the catalog has always used.
func ShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
