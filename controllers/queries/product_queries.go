package queries

type ProductFilters struct {
	Query      string `query:"q"`
	Type       string `query:"type"`
	Brand      string `query:"brand"`
	SupplierID string `query:"supplier"`
	Stock      string `query:"stock" validate:"ValidateStock"`
	Limit      int    `query:"limit" validate:"uint"`
	Page       int    `query:"page" validate:"uint"`
}

func (f ProductFilters) ValidateStock(val string) bool {
	return val == "" || val == "low" || val == "all"
}
