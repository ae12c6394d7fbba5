package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Nephast0/web-de-administracion-de-suministros/controllers/entities"
	"github.com/Nephast0/web-de-administracion-de-suministros/controllers/helpers"
	"github.com/Nephast0/web-de-administracion-de-suministros/controllers/queries"
	"github.com/Nephast0/web-de-administracion-de-suministros/models"
	"github.com/Nephast0/web-de-administracion-de-suministros/services"
)

type AccountingController struct {
	Chart   *services.ChartService
	Posting *services.PostingService
	Reports *services.ReportService
}

func NewAccountingController(chart *services.ChartService, posting *services.PostingService, reports *services.ReportService) *AccountingController {
	return &AccountingController{
		Chart:   chart,
		Posting: posting,
		Reports: reports,
	}
}

type ManualEntryPayload struct {
	Description string               `json:"description" validate:"required"`
	Lines       []services.LineInput `json:"lines" validate:"required"`
}

type PurchasePayload struct {
	ProductID          string          `json:"product_id" validate:"required"`
	Quantity           int64           `json:"quantity" validate:"required"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	PaymentAccountCode string          `json:"payment_account_code"`
}

type SalePayload struct {
	ProductID          string          `json:"product_id" validate:"required"`
	Quantity           int64           `json:"quantity" validate:"required"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	ReceiptAccountCode string          `json:"receipt_account_code"`
}

func (ctl *AccountingController) BootstrapChart(c *fiber.Ctx) error {
	if err := ctl.Chart.Bootstrap(); err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	accounts, err := ctl.Chart.All()
	if err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(200).JSON(accounts)
}

func (ctl *AccountingController) GetChart(c *fiber.Ctx) error {
	accounts, err := ctl.Chart.All()
	if err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(200).JSON(accounts)
}

func (ctl *AccountingController) CreateManualEntry(c *fiber.Ctx) error {
	var payload ManualEntryPayload
	var errors helpers.Errors

	if err := c.BodyParser(&payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"accounting.entry.invalid_payload"}})
	}

	helpers.Validate(payload, &errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	entry, err := ctl.Posting.PostManualEntry(payload.Lines, payload.Description)
	if err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(201).JSON(entry.ToJSON())
}

func (ctl *AccountingController) CreatePurchase(c *fiber.Ctx) error {
	var payload PurchasePayload
	var errors helpers.Errors

	if err := c.BodyParser(&payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"accounting.purchase.invalid_payload"}})
	}

	helpers.Validate(payload, &errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	if payload.PaymentAccountCode == "" {
		payload.PaymentAccountCode = defaultPaymentAccount
	}

	entry, err := ctl.Posting.PostPurchase(payload.ProductID, payload.Quantity, payload.UnitCost, payload.PaymentAccountCode)
	if err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(201).JSON(entry.ToJSON())
}

func (ctl *AccountingController) CreateSale(c *fiber.Ctx) error {
	var payload SalePayload
	var errors helpers.Errors

	if err := c.BodyParser(&payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"accounting.sale.invalid_payload"}})
	}

	helpers.Validate(payload, &errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	if payload.ReceiptAccountCode == "" {
		payload.ReceiptAccountCode = defaultReceiptAccount
	}

	entry, err := ctl.Posting.PostSale(payload.ProductID, payload.Quantity, payload.UnitPrice, payload.ReceiptAccountCode)
	if err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(201).JSON(entry.ToJSON())
}

func (ctl *AccountingController) CreateCancellation(c *fiber.Ctx) error {
	entry_id, err := c.ParamsInt("id")
	if err != nil || entry_id <= 0 {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"accounting.cancellation.invalid_id"}})
	}

	entry, err := ctl.Posting.PostCancellation(uint64(entry_id))
	if err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(201).JSON(entry.ToJSON())
}

func (ctl *AccountingController) GetJournal(c *fiber.Ctx) error {
	var filters queries.JournalFilters
	var errors helpers.Errors

	if err := c.QueryParser(&filters); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"accounting.journal.invalid_filters"}})
	}

	helpers.Validate(filters, &errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	entries, err := ctl.Reports.Journal(
		unixOrZero(filters.TimeFrom),
		unixOrZero(filters.TimeTo),
		services.JournalFilters{
			SourceType:  filters.SourceType,
			AccountCode: filters.AccountCode,
			Limit:       filters.Limit,
			Page:        filters.Page,
		},
	)
	if err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	result := make([]entities.EntryEntities, 0, len(entries))
	for i := range entries {
		result = append(result, entries[i].ToJSON())
	}

	return c.Status(200).JSON(result)
}

func (ctl *AccountingController) GetBalanceSheet(c *fiber.Ctx) error {
	var filters queries.BalanceSheetFilters
	var errors helpers.Errors

	if err := c.QueryParser(&filters); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"accounting.balance_sheet.invalid_filters"}})
	}

	helpers.Validate(filters, &errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	as_of := time.Now().UTC()
	if filters.AsOf > 0 {
		as_of = time.Unix(filters.AsOf, 0).UTC()
	}

	sheet, err := ctl.Reports.BalanceSheet(as_of)
	if err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(200).JSON(sheet)
}

func (ctl *AccountingController) GetIncomeStatement(c *fiber.Ctx) error {
	var filters queries.IncomeStatementFilters
	var errors helpers.Errors

	if err := c.QueryParser(&filters); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"accounting.income_statement.invalid_filters"}})
	}

	helpers.Validate(filters, &errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	statement, err := ctl.Reports.IncomeStatement(unixOrZero(filters.TimeFrom), unixOrZero(filters.TimeTo))
	if err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(200).JSON(statement)
}

const (
	defaultPaymentAccount = models.CodeCash
	defaultReceiptAccount = models.CodeCash
)

func unixOrZero(ts int64) time.Time {
	if ts <= 0 {
		return time.Time{}
	}

	return time.Unix(ts, 0).UTC()
}
