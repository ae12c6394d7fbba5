package concerns

import (
	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of fraction digits every stored amount carries.
const MoneyPrecision = 2

// Round applies the ledger rounding rule (round-half-to-even).
func Round(value decimal.Decimal) decimal.Decimal {
	return value.RoundBank(MoneyPrecision)
}

type PrecisionValidator struct {
}

func (p PrecisionValidator) LessThanOrEqTo(value decimal.Decimal, precision int32) bool {
	return value.Equal(value.Round(precision))
}
