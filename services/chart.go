package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Nephast0/web-de-administracion-de-suministros/config"
	"github.com/Nephast0/web-de-administracion-de-suministros/models"
	"github.com/Nephast0/web-de-administracion-de-suministros/types"
)

// seed chart, carried over from the retail operation's plan of accounts.
var chartSeed = []models.Account{
	{Code: models.CodeCash, Name: "Cash", Type: types.AccountTypeAsset},
	{Code: models.CodeBanks, Name: "Banks", Type: types.AccountTypeAsset},
	{Code: models.CodeInventory, Name: "Merchandise Inventory", Type: types.AccountTypeAsset},
	{Code: models.CodeReceivable, Name: "Accounts Receivable", Type: types.AccountTypeAsset},
	{Code: models.CodePayable, Name: "Suppliers", Type: types.AccountTypeLiability},
	{Code: models.CodeTaxes, Name: "Tax Authorities", Type: types.AccountTypeLiability},
	{Code: models.CodeEquity, Name: "Share Capital", Type: types.AccountTypeEquity},
	{Code: models.CodeSales, Name: "Sales Revenue", Type: types.AccountTypeRevenue},
	{Code: models.CodeCOGS, Name: "Cost of Goods Sold", Type: types.AccountTypeExpense},
	{Code: models.CodeUtilities, Name: "Utilities Expense", Type: types.AccountTypeExpense},
	{Code: models.CodeImpairment, Name: "Inventory Impairment", Type: types.AccountTypeExpense},
}

type ChartService struct {
	db *gorm.DB
}

func NewChartService(db *gorm.DB) *ChartService {
	return &ChartService{db: db}
}

// Bootstrap ensures the seed accounts exist. It is idempotent and safe to run
// on every process start; existing accounts are left untouched.
func (s *ChartService) Bootstrap() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, seed := range chartSeed {
			var account models.Account

			result := tx.Where("code = ?", seed.Code).First(&account)
			if result.Error == nil {
				continue
			}
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return result.Error
			}

			account = seed
			account.Active = true
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("bootstrap chart of accounts: %w", err)
	}

	config.Logger.Info("chart of accounts bootstrapped")
	return nil
}

func (s *ChartService) Lookup(code string) (*models.Account, error) {
	return s.lookup(s.db, code)
}

func (s *ChartService) lookup(tx *gorm.DB, code string) (*models.Account, error) {
	var account models.Account

	result := tx.Where("code = ?", code).First(&account)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", types.ErrAccountNotFound, code)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &account, nil
}

func (s *ChartService) All() ([]models.Account, error) {
	var accounts []models.Account

	if err := s.db.Order("code").Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}
