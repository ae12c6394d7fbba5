package queries

import (
	"github.com/Nephast0/web-de-administracion-de-suministros/types"
)

type JournalFilters struct {
	TimeFrom    int64            `query:"time_from" validate:"uint"`
	TimeTo      int64            `query:"time_to" validate:"uint"`
	SourceType  types.SourceType `query:"source_type" validate:"ValidateSourceType"`
	AccountCode string           `query:"account_code"`
	Limit       int              `query:"limit" validate:"uint"`
	Page        int              `query:"page" validate:"uint"`
}

func (f JournalFilters) ValidateSourceType(val types.SourceType) bool {
	if val == "" {
		return true
	}

	supported := []types.SourceType{
		types.SourcePurchase,
		types.SourceSale,
		types.SourceCancellation,
		types.SourceManual,
	}

	for _, t := range supported {
		if t == val {
			return true
		}
	}

	return false
}

type BalanceSheetFilters struct {
	AsOf int64 `query:"as_of" validate:"uint"`
}

type IncomeStatementFilters struct {
	TimeFrom int64 `query:"time_from" validate:"uint"`
	TimeTo   int64 `query:"time_to" validate:"uint"`
}
