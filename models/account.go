package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Nephast0/web-de-administracion-de-suministros/types"
)

// Stable chart-of-accounts codes. Codes are immutable once an entry line
// references them.
const (
	CodeCash       = "570"
	CodeBanks      = "572"
	CodeInventory  = "300"
	CodeReceivable = "430"
	CodePayable    = "400"
	CodeTaxes      = "475"
	CodeEquity     = "100"
	CodeSales      = "700"
	CodeCOGS       = "600"
	CodeUtilities  = "628"
	CodeImpairment = "693"
)

type Account struct {
	ID        uint64            `json:"id" gorm:"primaryKey"`
	Code      string            `json:"code" gorm:"uniqueIndex"`
	Name      string            `json:"name"`
	Type      types.AccountType `json:"type" validate:"ValidateType"`
	Active    bool              `json:"active" gorm:"default:true"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (a Account) ValidateType(account_type types.AccountType) bool {
	supported_types := []types.AccountType{
		types.AccountTypeAsset,
		types.AccountTypeLiability,
		types.AccountTypeEquity,
		types.AccountTypeRevenue,
		types.AccountTypeExpense,
	}

	for _, t := range supported_types {
		if t == account_type {
			return true
		}
	}

	return false
}

// NormalBalance is the side the account grows on, derived from its type.
func (a *Account) NormalBalance() types.BalanceSide {
	switch a.Type {
	case types.AccountTypeAsset, types.AccountTypeExpense:
		return types.SideDebit
	default:
		return types.SideCredit
	}
}

// SignedBalance folds debit and credit totals into the account's signed
// balance according to its normal side.
func (a *Account) SignedBalance(debit, credit decimal.Decimal) decimal.Decimal {
	if a.NormalBalance() == types.SideDebit {
		return debit.Sub(credit)
	}

	return credit.Sub(debit)
}
