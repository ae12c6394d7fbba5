package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryLine belongs to exactly one JournalEntry. Exactly one of Debit and
// Credit is positive; both are stored with two fraction digits.
type EntryLine struct {
	ID          uint64          `json:"id" gorm:"primaryKey"`
	EntryID     uint64          `json:"entry_id" gorm:"index"`
	AccountCode string          `json:"account_code" gorm:"index"`
	Debit       decimal.Decimal `json:"debit" gorm:"type:decimal(12,2);default:0.0"`
	Credit      decimal.Decimal `json:"credit" gorm:"type:decimal(12,2);default:0.0"`
	Position    int             `json:"position"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (l EntryLine) OneSided() bool {
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return false
	}

	return l.Debit.IsPositive() != l.Credit.IsPositive()
}

// Amount is the value of the line's populated side.
func (l EntryLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}

	return l.Credit
}

func (l EntryLine) Reversed() EntryLine {
	return EntryLine{
		AccountCode: l.AccountCode,
		Debit:       l.Credit,
		Credit:      l.Debit,
		Position:    l.Position,
	}
}
