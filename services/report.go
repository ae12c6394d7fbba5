package services

import (
	"time"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Nephast0/web-de-administracion-de-suministros/models"
	"github.com/Nephast0/web-de-administracion-de-suministros/types"
)

// ReportService computes read-only projections over the stored entries. It
// holds no state of its own; every report is derived from the ledger at call
// time. Sums are folded in Go with decimals so no projection can drift from
// the stored amounts.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

type JournalFilters struct {
	SourceType  types.SourceType
	AccountCode string
	Limit       int
	Page        int
}

type AccountBalance struct {
	Code    string            `json:"code"`
	Name    string            `json:"name"`
	Type    types.AccountType `json:"type"`
	Balance decimal.Decimal   `json:"balance"`
}

type BalanceSheet struct {
	AsOf     time.Time                             `json:"as_of"`
	Accounts []AccountBalance                      `json:"accounts"`
	Totals   map[types.AccountType]decimal.Decimal `json:"totals"`
}

// EquationGap is assets − (liabilities + equity + revenue − expenses).
// A consistent ledger yields zero at every cutoff.
func (b *BalanceSheet) EquationGap() decimal.Decimal {
	assets := b.Totals[types.AccountTypeAsset]
	others := b.Totals[types.AccountTypeLiability].
		Add(b.Totals[types.AccountTypeEquity]).
		Add(b.Totals[types.AccountTypeRevenue]).
		Sub(b.Totals[types.AccountTypeExpense])

	return assets.Sub(others)
}

type IncomeStatement struct {
	From         time.Time        `json:"from"`
	To           time.Time        `json:"to"`
	Revenues     []AccountBalance `json:"revenues"`
	Expenses     []AccountBalance `json:"expenses"`
	TotalRevenue decimal.Decimal  `json:"total_revenue"`
	TotalExpense decimal.Decimal  `json:"total_expense"`
	NetResult    decimal.Decimal  `json:"net_result"`
}

// Journal lists entries ordered by date then id, so entries sharing a date
// keep their creation order.
func (s *ReportService) Journal(from, to time.Time, filters JournalFilters) ([]models.JournalEntry, error) {
	tx := s.db.Model(&models.JournalEntry{}).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})

	if !from.IsZero() {
		tx = tx.Where("journal_entries.date >= ?", from)
	}
	if !to.IsZero() {
		tx = tx.Where("journal_entries.date <= ?", to)
	}
	if filters.SourceType != "" {
		tx = tx.Where("journal_entries.source_type = ?", filters.SourceType)
	}
	if filters.AccountCode != "" {
		tx = tx.Joins("JOIN entry_lines ON entry_lines.entry_id = journal_entries.id").
			Where("entry_lines.account_code = ?", filters.AccountCode).
			Distinct("journal_entries.*")
	}

	if filters.Limit > 0 {
		tx = tx.Limit(filters.Limit)
		if filters.Page > 1 {
			tx = tx.Offset((filters.Page - 1) * filters.Limit)
		}
	}

	var entries []models.JournalEntry
	if err := tx.Order("journal_entries.date, journal_entries.id").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

// BalanceSheet sums every line posted on or before the cutoff into per-account
// balances, ordered by account code.
func (s *ReportService) BalanceSheet(as_of time.Time) (*BalanceSheet, error) {
	accounts, err := s.accountIndex()
	if err != nil {
		return nil, err
	}

	rows, err := s.lineRows(time.Time{}, as_of)
	if err != nil {
		return nil, err
	}

	// Aggregate into a tree keyed by code, so iteration comes out in
	// chart order without a second sort.
	tree := redblacktree.NewWithStringComparator()
	for code := range accounts {
		tree.Put(code, &sideTotals{debit: decimal.Zero, credit: decimal.Zero})
	}

	for _, row := range rows {
		value, found := tree.Get(row.AccountCode)
		if !found {
			continue
		}

		totals := value.(*sideTotals)
		totals.debit = totals.debit.Add(row.Debit)
		totals.credit = totals.credit.Add(row.Credit)
	}

	sheet := &BalanceSheet{
		AsOf:   as_of,
		Totals: map[types.AccountType]decimal.Decimal{},
	}

	iterator := tree.Iterator()
	for iterator.Next() {
		code := iterator.Key().(string)
		totals := iterator.Value().(*sideTotals)
		account := accounts[code]

		balance := account.SignedBalance(totals.debit, totals.credit)
		sheet.Accounts = append(sheet.Accounts, AccountBalance{
			Code:    account.Code,
			Name:    account.Name,
			Type:    account.Type,
			Balance: balance,
		})

		running, ok := sheet.Totals[account.Type]
		if !ok {
			running = decimal.Zero
		}
		sheet.Totals[account.Type] = running.Add(balance)
	}

	return sheet, nil
}

// IncomeStatement sums revenue- and expense-account lines within [from, to].
func (s *ReportService) IncomeStatement(from, to time.Time) (*IncomeStatement, error) {
	accounts, err := s.accountIndex()
	if err != nil {
		return nil, err
	}

	rows, err := s.lineRows(from, to)
	if err != nil {
		return nil, err
	}

	tree := redblacktree.NewWithStringComparator()
	for _, row := range rows {
		account, known := accounts[row.AccountCode]
		if !known {
			continue
		}
		if account.Type != types.AccountTypeRevenue && account.Type != types.AccountTypeExpense {
			continue
		}

		value, found := tree.Get(row.AccountCode)
		if !found {
			value = &sideTotals{debit: decimal.Zero, credit: decimal.Zero}
			tree.Put(row.AccountCode, value)
		}

		totals := value.(*sideTotals)
		totals.debit = totals.debit.Add(row.Debit)
		totals.credit = totals.credit.Add(row.Credit)
	}

	statement := &IncomeStatement{
		From:         from,
		To:           to,
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	iterator := tree.Iterator()
	for iterator.Next() {
		code := iterator.Key().(string)
		totals := iterator.Value().(*sideTotals)
		account := accounts[code]

		balance := account.SignedBalance(totals.debit, totals.credit)
		entry := AccountBalance{
			Code:    account.Code,
			Name:    account.Name,
			Type:    account.Type,
			Balance: balance,
		}

		if account.Type == types.AccountTypeRevenue {
			statement.Revenues = append(statement.Revenues, entry)
			statement.TotalRevenue = statement.TotalRevenue.Add(balance)
		} else {
			statement.Expenses = append(statement.Expenses, entry)
			statement.TotalExpense = statement.TotalExpense.Add(balance)
		}
	}

	statement.NetResult = statement.TotalRevenue.Sub(statement.TotalExpense)

	return statement, nil
}

type sideTotals struct {
	debit  decimal.Decimal
	credit decimal.Decimal
}

type lineRow struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

func (s *ReportService) lineRows(from, to time.Time) ([]lineRow, error) {
	tx := s.db.Model(&models.EntryLine{}).
		Select("entry_lines.account_code, entry_lines.debit, entry_lines.credit").
		Joins("JOIN journal_entries ON journal_entries.id = entry_lines.entry_id")

	if !from.IsZero() {
		tx = tx.Where("journal_entries.date >= ?", from)
	}
	if !to.IsZero() {
		tx = tx.Where("journal_entries.date <= ?", to)
	}

	var rows []lineRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (s *ReportService) accountIndex() (map[string]*models.Account, error) {
	var accounts []models.Account

	if err := s.db.Find(&accounts).Error; err != nil {
		return nil, err
	}

	index := make(map[string]*models.Account, len(accounts))
	for i := range accounts {
		index[accounts[i].Code] = &accounts[i]
	}

	return index, nil
}
