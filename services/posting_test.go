package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nephast0/web-de-administracion-de-suministros/config"
	"github.com/Nephast0/web-de-administracion-de-suministros/models"
	"github.com/Nephast0/web-de-administracion-de-suministros/types"
)

func TestPostingService_PostPurchase(t *testing.T) {
	db, posting := setupLedger(t)
	product := seedProduct(t, db, "FX-100")

	entry, err := posting.PostPurchase(product.ID, 10, dec("5.00"), models.CodeCash)
	require.NoError(t, err)
	require.Equal(t, types.SourcePurchase, entry.SourceType)
	require.True(t, entry.Balanced())
	require.Len(t, entry.Lines, 2)

	require.Equal(t, models.CodeInventory, entry.Lines[0].AccountCode)
	requireDecimal(t, "50.00", entry.Lines[0].Debit)
	require.Equal(t, models.CodeCash, entry.Lines[1].AccountCode)
	requireDecimal(t, "50.00", entry.Lines[1].Credit)

	cost := currentCost(t, db, product.ID)
	require.EqualValues(t, 10, cost.QuantityOnHand)
	requireDecimal(t, "5.00", cost.WeightedAverageCost)

	// The catalog row mirrors the aggregate.
	var mirrored models.Product
	require.NoError(t, db.First(&mirrored, "id = ?", product.ID).Error)
	require.EqualValues(t, 10, mirrored.Quantity)
	requireDecimal(t, "5.00", mirrored.UnitCost)
}

func TestPostingService_PurchaseReaverages(t *testing.T) {
	db, posting := setupLedger(t)
	product := seedProduct(t, db, "FX-100")

	_, err := posting.PostPurchase(product.ID, 10, dec("5.00"), models.CodeCash)
	require.NoError(t, err)
	_, err = posting.PostPurchase(product.ID, 5, dec("8.00"), models.CodeBanks)
	require.NoError(t, err)

	cost := currentCost(t, db, product.ID)
	require.EqualValues(t, 15, cost.QuantityOnHand)
	requireDecimal(t, "6.00", cost.WeightedAverageCost)
}

func TestPostingService_PostSale(t *testing.T) {
	db, posting := setupLedger(t)
	product := seedProduct(t, db, "FX-100")

	_, err := posting.PostPurchase(product.ID, 10, dec("5.00"), models.CodeCash)
	require.NoError(t, err)
	_, err = posting.PostPurchase(product.ID, 5, dec("8.00"), models.CodeCash)
	require.NoError(t, err)

	entry, err := posting.PostSale(product.ID, 3, dec("20.00"), models.CodeCash)
	require.NoError(t, err)
	require.Equal(t, types.SourceSale, entry.SourceType)
	require.True(t, entry.Balanced())
	require.Len(t, entry.Lines, 4)

	requireDecimal(t, "60.00", entry.Lines[0].Debit)
	require.Equal(t, models.CodeSales, entry.Lines[1].AccountCode)
	requireDecimal(t, "60.00", entry.Lines[1].Credit)
	require.Equal(t, models.CodeCOGS, entry.Lines[2].AccountCode)
	requireDecimal(t, "18.00", entry.Lines[2].Debit)
	require.Equal(t, models.CodeInventory, entry.Lines[3].AccountCode)
	requireDecimal(t, "18.00", entry.Lines[3].Credit)

	cost := currentCost(t, db, product.ID)
	require.EqualValues(t, 12, cost.QuantityOnHand)
	requireDecimal(t, "6.00", cost.WeightedAverageCost)
}

func TestPostingService_SaleOverdraw(t *testing.T) {
	db, posting := setupLedger(t)
	product := seedProduct(t, db, "FX-100")

	_, err := posting.PostPurchase(product.ID, 10, dec("5.00"), models.CodeCash)
	require.NoError(t, err)

	before := entryCount(t, db)

	_, err = posting.PostSale(product.ID, 999, dec("20.00"), models.CodeCash)
	require.ErrorIs(t, err, types.ErrInsufficientStock)

	// Nothing was written: no entry, no movement, unchanged stock.
	require.Equal(t, before, entryCount(t, db))

	cost := currentCost(t, db, product.ID)
	require.EqualValues(t, 10, cost.QuantityOnHand)
}

func TestPostingService_CancelSale(t *testing.T) {
	db, posting := setupLedger(t)
	product := seedProduct(t, db, "FX-100")

	_, err := posting.PostPurchase(product.ID, 15, dec("6.00"), models.CodeCash)
	require.NoError(t, err)
	sale, err := posting.PostSale(product.ID, 3, dec("20.00"), models.CodeCash)
	require.NoError(t, err)

	cancellation, err := posting.PostCancellation(sale.ID)
	require.NoError(t, err)
	require.Equal(t, types.SourceCancellation, cancellation.SourceType)
	require.True(t, cancellation.Balanced())
	require.Len(t, cancellation.Lines, len(sale.Lines))

	for i, line := range cancellation.Lines {
		require.Equal(t, sale.Lines[i].AccountCode, line.AccountCode)
		require.True(t, line.Debit.Equal(sale.Lines[i].Credit))
		require.True(t, line.Credit.Equal(sale.Lines[i].Debit))
	}

	cost := currentCost(t, db, product.ID)
	require.EqualValues(t, 15, cost.QuantityOnHand)
	requireDecimal(t, "6.00", cost.WeightedAverageCost)

	// Cancelling twice is refused, as is cancelling the cancellation.
	_, err = posting.PostCancellation(sale.ID)
	require.ErrorIs(t, err, types.ErrAlreadyCancelled)
	_, err = posting.PostCancellation(cancellation.ID)
	require.ErrorIs(t, err, types.ErrAlreadyCancelled)
}

func TestPostingService_CancelPurchase(t *testing.T) {
	db, posting := setupLedger(t)
	product := seedProduct(t, db, "FX-100")

	first, err := posting.PostPurchase(product.ID, 10, dec("5.00"), models.CodeCash)
	require.NoError(t, err)
	_, err = posting.PostPurchase(product.ID, 5, dec("8.00"), models.CodeCash)
	require.NoError(t, err)

	_, err = posting.PostCancellation(first.ID)
	require.NoError(t, err)

	// Only the 5 @ 8.00 lot survives.
	cost := currentCost(t, db, product.ID)
	require.EqualValues(t, 5, cost.QuantityOnHand)
	requireDecimal(t, "8.00", cost.WeightedAverageCost)
}

func TestPostingService_CancelMissingEntry(t *testing.T) {
	_, posting := setupLedger(t)

	_, err := posting.PostCancellation(404)
	require.ErrorIs(t, err, types.ErrEntryNotFound)
}

func TestPostingService_ManualEntry(t *testing.T) {
	_, posting := setupLedger(t)

	entry, err := posting.PostManualEntry([]LineInput{
		{AccountCode: models.CodeUtilities, Side: types.SideDebit, Amount: dec("35.00")},
		{AccountCode: models.CodeBanks, Side: types.SideCredit, Amount: dec("35.00")},
	}, "Electricity bill")
	require.NoError(t, err)
	require.Equal(t, types.SourceManual, entry.SourceType)
	require.True(t, entry.Balanced())
}

func TestPostingService_ManualEntryRejections(t *testing.T) {
	db, posting := setupLedger(t)

	before := entryCount(t, db)

	_, err := posting.PostManualEntry(nil, "empty")
	require.ErrorIs(t, err, types.ErrEmptyEntry)

	_, err = posting.PostManualEntry([]LineInput{
		{AccountCode: models.CodeUtilities, Side: types.SideDebit, Amount: dec("35.00")},
		{AccountCode: models.CodeBanks, Side: types.SideCredit, Amount: dec("34.99")},
	}, "unbalanced")
	require.ErrorIs(t, err, types.ErrUnbalancedEntry)

	_, err = posting.PostManualEntry([]LineInput{
		{AccountCode: "999", Side: types.SideDebit, Amount: dec("35.00")},
		{AccountCode: models.CodeBanks, Side: types.SideCredit, Amount: dec("35.00")},
	}, "unknown account")
	require.ErrorIs(t, err, types.ErrInvalidAccount)

	_, err = posting.PostManualEntry([]LineInput{
		{AccountCode: models.CodeUtilities, Side: types.SideDebit, Amount: dec("-35.00")},
		{AccountCode: models.CodeBanks, Side: types.SideCredit, Amount: dec("-35.00")},
	}, "negative amount")
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = posting.PostManualEntry([]LineInput{
		{AccountCode: models.CodeUtilities, Side: types.SideDebit, Amount: dec("35.001")},
		{AccountCode: models.CodeBanks, Side: types.SideCredit, Amount: dec("35.001")},
	}, "too many fraction digits")
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = posting.PostManualEntry([]LineInput{
		{AccountCode: models.CodeUtilities, Side: "sideways", Amount: dec("35.00")},
		{AccountCode: models.CodeBanks, Side: types.SideCredit, Amount: dec("35.00")},
	}, "bad side")
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	require.Equal(t, before, entryCount(t, db))
}

func TestPostingService_ManualEntryDeactivatedAccount(t *testing.T) {
	db, posting := setupLedger(t)

	require.NoError(t, db.Model(&models.Account{}).Where("code = ?", models.CodeUtilities).Update("active", false).Error)

	_, err := posting.PostManualEntry([]LineInput{
		{AccountCode: models.CodeUtilities, Side: types.SideDebit, Amount: dec("35.00")},
		{AccountCode: models.CodeBanks, Side: types.SideCredit, Amount: dec("35.00")},
	}, "deactivated account")
	require.ErrorIs(t, err, types.ErrInvalidAccount)
}

func TestPostingService_PurchaseValidation(t *testing.T) {
	db, posting := setupLedger(t)
	product := seedProduct(t, db, "FX-100")

	_, err := posting.PostPurchase(product.ID, 0, dec("5.00"), models.CodeCash)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = posting.PostPurchase(product.ID, 10, dec("5.001"), models.CodeCash)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = posting.PostPurchase("missing", 10, dec("5.00"), models.CodeCash)
	require.ErrorIs(t, err, types.ErrProductNotFound)
}

func TestProductCost_SaveGuardedConflict(t *testing.T) {
	db := setupDB(t)

	cost := models.ProductCost{ProductID: "p1", QuantityOnHand: 10, WeightedAverageCost: dec("5.00")}
	require.NoError(t, db.Create(&cost).Error)

	// Two readers pick up the same version; only the first write lands.
	var winner, stale models.ProductCost
	require.NoError(t, db.First(&winner, "product_id = ?", "p1").Error)
	require.NoError(t, db.First(&stale, "product_id = ?", "p1").Error)

	winner.QuantityOnHand = 12
	require.NoError(t, winner.SaveGuarded(db))

	stale.QuantityOnHand = 7
	require.ErrorIs(t, stale.SaveGuarded(db), types.ErrConcurrencyConflict)

	after := currentCost(t, db, "p1")
	require.EqualValues(t, 12, after.QuantityOnHand)
}

func TestPostingService_ConflictRetriedFromFreshRead(t *testing.T) {
	db := setupDB(t)
	engine := NewCostEngine()

	_, err := engine.OnPurchase(db, "p1", 10, dec("5.00"), 1)
	require.NoError(t, err)

	posting := NewPostingService(db, NewChartService(db), engine)

	// A concurrent writer bumps the version inside the read-write window
	// once; the retry re-reads and lands on the fresh state.
	staled := false
	attempts := 0

	err = posting.withRetry(func() error {
		attempts++

		cost, err := engine.CurrentCost(db, "p1")
		if err != nil {
			return err
		}

		if !staled {
			staled = true
			require.NoError(t, db.Model(&models.ProductCost{}).
				Where("id = ?", cost.ID).
				Update("lock_version", cost.LockVersion+1).Error)
		}

		cost.QuantityOnHand += 5
		return cost.SaveGuarded(db)
	})
	require.NoError(t, err)
	require.Equal(t, 2, attempts)

	after := currentCost(t, db, "p1")
	require.EqualValues(t, 15, after.QuantityOnHand)
}

func TestPostingService_RetryBound(t *testing.T) {
	_, posting := setupLedger(t)

	saved := config.App.PostingRetries
	config.App.PostingRetries = 2
	defer func() { config.App.PostingRetries = saved }()

	attempts := 0
	err := posting.withRetry(func() error {
		attempts++
		return types.ErrConcurrencyConflict
	})
	require.ErrorIs(t, err, types.ErrConcurrencyConflict)
	require.Equal(t, 2, attempts)
}

func TestPostingService_ValidationFailureNotRetried(t *testing.T) {
	_, posting := setupLedger(t)

	attempts := 0
	err := posting.withRetry(func() error {
		attempts++
		return types.ErrUnbalancedEntry
	})
	require.ErrorIs(t, err, types.ErrUnbalancedEntry)
	require.Equal(t, 1, attempts)
}
