package services

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null"
	"gorm.io/gorm"

	"github.com/Nephast0/web-de-administracion-de-suministros/config"
	"github.com/Nephast0/web-de-administracion-de-suministros/models"
	"github.com/Nephast0/web-de-administracion-de-suministros/models/concerns"
	"github.com/Nephast0/web-de-administracion-de-suministros/types"
)

var precision_validator = &concerns.PrecisionValidator{}

// LineInput is one (account, side, amount) triple of a manual entry.
type LineInput struct {
	AccountCode string            `json:"account_code"`
	Side        types.BalanceSide `json:"side"`
	Amount      decimal.Decimal   `json:"amount"`
}

// PostingService builds and atomically commits journal entries. Each business
// event is one transaction: the ledger entry, the cost-engine update and the
// catalog mirror either all commit or none do. Events touching the same
// product are serialized through a per-product mutex plus row locks, and a
// lost optimistic update is retried from a fresh read.
type PostingService struct {
	db    *gorm.DB
	chart *ChartService
	costs *CostEngine
	locks sync.Map
}

func NewPostingService(db *gorm.DB, chart *ChartService, costs *CostEngine) *PostingService {
	return &PostingService{
		db:    db,
		chart: chart,
		costs: costs,
	}
}

// PostManualEntry validates and commits a caller-assembled entry.
func (s *PostingService) PostManualEntry(inputs []LineInput, description string) (*models.JournalEntry, error) {
	lines, err := s.buildLines(inputs)
	if err != nil {
		return nil, err
	}

	var entry *models.JournalEntry

	err = s.withRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			created, err := s.createEntry(tx, lines, description, types.SourceManual, null.String{})
			if err != nil {
				return err
			}

			entry = created
			return nil
		})
	})

	return entry, err
}

// PostPurchase replenishes stock: Debit Inventory, Credit the payment
// account, then re-averages the product cost.
func (s *PostingService) PostPurchase(product_id string, quantity int64, unit_cost decimal.Decimal, payment_account_code string) (*models.JournalEntry, error) {
	if err := validAmount(quantity, unit_cost); err != nil {
		return nil, err
	}

	var entry *models.JournalEntry

	err := s.withProduct(product_id, func(tx *gorm.DB, product *models.Product) error {
		total := unit_cost.Mul(decimal.NewFromInt(quantity))

		lines := []models.EntryLine{
			{AccountCode: models.CodeInventory, Debit: total, Position: 0},
			{AccountCode: payment_account_code, Credit: total, Position: 1},
		}

		description := fmt.Sprintf("Purchase of %s (x%d)", product.Model, quantity)
		created, err := s.createEntry(tx, lines, description, types.SourcePurchase, null.StringFrom(product_id))
		if err != nil {
			return err
		}

		cost, err := s.costs.OnPurchase(tx, product_id, quantity, unit_cost, created.ID)
		if err != nil {
			return err
		}

		if err := s.refreshMirror(tx, product, cost); err != nil {
			return err
		}

		entry = created
		return nil
	})

	return entry, err
}

// PostSale records revenue and the matching cost of goods sold, valued at the
// weighted-average cost current at posting time.
func (s *PostingService) PostSale(product_id string, quantity int64, unit_price decimal.Decimal, receipt_account_code string) (*models.JournalEntry, error) {
	if err := validAmount(quantity, unit_price); err != nil {
		return nil, err
	}

	var entry *models.JournalEntry

	err := s.withProduct(product_id, func(tx *gorm.DB, product *models.Product) error {
		cost, err := s.costs.CurrentCost(tx, product_id)
		if err != nil {
			return err
		}

		if quantity > cost.QuantityOnHand {
			return fmt.Errorf("%w: product %s has %d on hand, requested %d",
				types.ErrInsufficientStock, product_id, cost.QuantityOnHand, quantity)
		}

		total := unit_price.Mul(decimal.NewFromInt(quantity))
		cogs := cost.WeightedAverageCost.Mul(decimal.NewFromInt(quantity))

		lines := []models.EntryLine{
			{AccountCode: receipt_account_code, Debit: total, Position: 0},
			{AccountCode: models.CodeSales, Credit: total, Position: 1},
		}
		if cogs.IsPositive() {
			lines = append(lines,
				models.EntryLine{AccountCode: models.CodeCOGS, Debit: cogs, Position: 2},
				models.EntryLine{AccountCode: models.CodeInventory, Credit: cogs, Position: 3},
			)
		}

		description := fmt.Sprintf("Sale of %s (x%d)", product.Model, quantity)
		created, err := s.createEntry(tx, lines, description, types.SourceSale, null.StringFrom(product_id))
		if err != nil {
			return err
		}

		if _, err := s.costs.OnSale(tx, product_id, quantity, created.ID); err != nil {
			return err
		}

		refreshed, err := s.costs.CurrentCost(tx, product_id)
		if err != nil {
			return err
		}
		if err := s.refreshMirror(tx, product, refreshed); err != nil {
			return err
		}

		entry = created
		return nil
	})

	return entry, err
}

// PostCancellation posts a brand-new reversing entry for the target and
// undoes its inventory effect. The original entry is never touched.
func (s *PostingService) PostCancellation(entry_id uint64) (*models.JournalEntry, error) {
	original, err := s.findEntry(entry_id)
	if err != nil {
		return nil, err
	}

	if original.SourceType == types.SourceCancellation {
		return nil, fmt.Errorf("%w: entry %d is itself a cancellation", types.ErrAlreadyCancelled, entry_id)
	}

	var entry *models.JournalEntry

	if original.SourceType == types.SourceManual {
		err = s.withRetry(func() error {
			return s.db.Transaction(func(tx *gorm.DB) error {
				created, err := s.reverseEntry(tx, original)
				if err != nil {
					return err
				}

				entry = created
				return nil
			})
		})

		return entry, err
	}

	product_id := original.SourceReference.String

	err = s.withProduct(product_id, func(tx *gorm.DB, product *models.Product) error {
		created, err := s.reverseEntry(tx, original)
		if err != nil {
			return err
		}

		switch original.SourceType {
		case types.SourcePurchase:
			err = s.costs.OnPurchaseCancellation(tx, product_id, original.ID, created.ID)
		case types.SourceSale:
			err = s.costs.OnSaleCancellation(tx, product_id, original.ID, created.ID)
		}
		if err != nil {
			return err
		}

		cost, err := s.costs.CurrentCost(tx, product_id)
		if err != nil {
			return err
		}
		if err := s.refreshMirror(tx, product, cost); err != nil {
			return err
		}

		entry = created
		return nil
	})

	return entry, err
}

func (s *PostingService) findEntry(entry_id uint64) (*models.JournalEntry, error) {
	var entry models.JournalEntry

	result := s.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Where("id = ?", entry_id).First(&entry)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", types.ErrEntryNotFound, entry_id)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &entry, nil
}

func (s *PostingService) reverseEntry(tx *gorm.DB, original *models.JournalEntry) (*models.JournalEntry, error) {
	reference := strconv.FormatUint(original.ID, 10)

	var cancelled int64
	err := tx.Model(&models.JournalEntry{}).
		Where("source_type = ? AND source_reference = ?", types.SourceCancellation, reference).
		Count(&cancelled).Error
	if err != nil {
		return nil, err
	}
	if cancelled > 0 {
		return nil, fmt.Errorf("%w: entry %d", types.ErrAlreadyCancelled, original.ID)
	}

	description := fmt.Sprintf("Cancellation of entry #%d", original.ID)

	return s.createEntry(tx, original.ReversedLines(), description, types.SourceCancellation, null.StringFrom(reference))
}

// createEntry validates and persists the entry with its lines as one unit.
// Nothing is written when any check fails.
func (s *PostingService) createEntry(tx *gorm.DB, lines []models.EntryLine, description string, source_type types.SourceType, reference null.String) (*models.JournalEntry, error) {
	if len(lines) == 0 {
		return nil, types.ErrEmptyEntry
	}

	total_debit := decimal.Zero
	total_credit := decimal.Zero

	for _, line := range lines {
		if !line.OneSided() {
			return nil, fmt.Errorf("%w: line on account %s must have exactly one positive side",
				types.ErrInvalidAmount, line.AccountCode)
		}

		account, err := s.chart.lookup(tx, line.AccountCode)
		if err != nil {
			if errors.Is(err, types.ErrAccountNotFound) {
				return nil, fmt.Errorf("%w: %s", types.ErrInvalidAccount, line.AccountCode)
			}
			return nil, err
		}
		if !account.Active {
			return nil, fmt.Errorf("%w: account %s is deactivated", types.ErrInvalidAccount, account.Code)
		}

		total_debit = total_debit.Add(line.Debit)
		total_credit = total_credit.Add(line.Credit)
	}

	if !total_debit.Equal(total_credit) {
		return nil, fmt.Errorf("%w: debit %s, credit %s",
			types.ErrUnbalancedEntry, total_debit, total_credit)
	}

	entry := models.JournalEntry{
		Description:     description,
		SourceType:      source_type,
		SourceReference: reference,
		Lines:           lines,
	}

	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	return &entry, nil
}

func (s *PostingService) buildLines(inputs []LineInput) ([]models.EntryLine, error) {
	lines := make([]models.EntryLine, 0, len(inputs))

	for i, input := range inputs {
		if !input.Amount.IsPositive() || !precision_validator.LessThanOrEqTo(input.Amount, concerns.MoneyPrecision) {
			return nil, fmt.Errorf("%w: line %d amount %s", types.ErrInvalidAmount, i, input.Amount)
		}

		line := models.EntryLine{AccountCode: input.AccountCode, Position: i}

		switch input.Side {
		case types.SideDebit:
			line.Debit = input.Amount
		case types.SideCredit:
			line.Credit = input.Amount
		default:
			return nil, fmt.Errorf("%w: line %d side %q", types.ErrInvalidAmount, i, input.Side)
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// refreshMirror copies the costing aggregate onto the catalog row so list
// views never disagree with the ledger.
func (s *PostingService) refreshMirror(tx *gorm.DB, product *models.Product, cost *models.ProductCost) error {
	product.Quantity = cost.QuantityOnHand
	product.UnitCost = cost.WeightedAverageCost

	return tx.Save(product).Error
}

func (s *PostingService) withProduct(product_id string, fn func(tx *gorm.DB, product *models.Product) error) error {
	mutex := s.lockFor(product_id)
	mutex.Lock()
	defer mutex.Unlock()

	return s.withRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var product models.Product

			result := models.Lock(tx).Where("id = ?", product_id).First(&product)
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", types.ErrProductNotFound, product_id)
			}
			if result.Error != nil {
				return result.Error
			}

			return fn(tx, &product)
		})
	})
}

// withRetry re-runs the whole posting on a concurrency conflict only.
// Validation failures are never retried.
func (s *PostingService) withRetry(fn func() error) error {
	retries := config.App.PostingRetries
	if retries <= 0 {
		retries = 3
	}

	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		err = fn()
		if !errors.Is(err, types.ErrConcurrencyConflict) {
			return err
		}

		config.Logger.Warnf("posting conflict, retrying (%d/%d)", attempt, retries)
	}

	return err
}

// lockFor keeps one mutex per product id for the life of the process;
// entries are never evicted.
func (s *PostingService) lockFor(product_id string) *sync.Mutex {
	mutex, _ := s.locks.LoadOrStore(product_id, &sync.Mutex{})

	return mutex.(*sync.Mutex)
}

func validAmount(quantity int64, amount decimal.Decimal) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity %d", types.ErrInvalidAmount, quantity)
	}
	if !amount.IsPositive() || !precision_validator.LessThanOrEqTo(amount, concerns.MoneyPrecision) {
		return fmt.Errorf("%w: %s", types.ErrInvalidAmount, amount)
	}

	return nil
}
