package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Nephast0/web-de-administracion-de-suministros/config"
	"github.com/Nephast0/web-de-administracion-de-suministros/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.NewLoggerService()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	return db
}

func setupLedger(t *testing.T) (*gorm.DB, *PostingService) {
	t.Helper()

	db := setupDB(t)

	chart := NewChartService(db)
	require.NoError(t, chart.Bootstrap())

	return db, NewPostingService(db, chart, NewCostEngine())
}

func seedProduct(t *testing.T, db *gorm.DB, model string) *models.Product {
	t.Helper()

	supplier := models.Supplier{
		Name:    "Suministros del Norte",
		Phone:   "600000000",
		Address: "Calle Mayor 1",
		Email:   "pedidos@norte.example",
		CIF:     "B" + models.ShortID(),
	}
	require.NoError(t, db.Create(&supplier).Error)

	product := models.Product{
		SupplierID:      supplier.ID,
		ProductType:     "filtro",
		Model:           model,
		Brand:           "ACME",
		ReferenceNumber: models.ShortID(),
		Price:           decimal.RequireFromString("20.00"),
	}
	require.NoError(t, db.Create(&product).Error)

	return &product
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()

	require.True(t, actual.Equal(dec(expected)), "expected %s, got %s", expected, actual)
}

func currentCost(t *testing.T, db *gorm.DB, product_id string) *models.ProductCost {
	t.Helper()

	var cost models.ProductCost
	require.NoError(t, db.Where("product_id = ?", product_id).First(&cost).Error)

	return &cost
}

func entryCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.JournalEntry{}).Count(&count).Error)

	return count
}
