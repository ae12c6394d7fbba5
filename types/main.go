package types

type AccountType = string

var (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

type BalanceSide = string

var (
	SideDebit  BalanceSide = "debit"
	SideCredit BalanceSide = "credit"
)

type SourceType = string

var (
	SourcePurchase     SourceType = "purchase"
	SourceSale         SourceType = "sale"
	SourceCancellation SourceType = "cancellation"
	SourceManual       SourceType = "manual"
)

type MovementKind = string

var (
	MovementPurchase       MovementKind = "purchase"
	MovementSale           MovementKind = "sale"
	MovementPurchaseCancel MovementKind = "purchase_cancel"
	MovementSaleCancel     MovementKind = "sale_cancel"
)
