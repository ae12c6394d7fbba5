package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Nephast0/web-de-administracion-de-suministros/controllers"
	"github.com/Nephast0/web-de-administracion-de-suministros/services"
)

func SetupRouter(db *gorm.DB) *fiber.App {
	app := fiber.New()

	chart := services.NewChartService(db)
	costs := services.NewCostEngine()
	posting := services.NewPostingService(db, chart, costs)
	reports := services.NewReportService(db)
	catalog := services.NewCatalogService(db)

	accounting := controllers.NewAccountingController(chart, posting, reports)
	products := controllers.NewCatalogController(catalog)

	app.Post("/api/v2/accounting/chart/bootstrap", accounting.BootstrapChart)
	app.Get("/api/v2/accounting/chart", accounting.GetChart)

	app.Post("/api/v2/accounting/entries", accounting.CreateManualEntry)
	app.Post("/api/v2/accounting/purchases", accounting.CreatePurchase)
	app.Post("/api/v2/accounting/sales", accounting.CreateSale)
	app.Post("/api/v2/accounting/entries/:id/cancellation", accounting.CreateCancellation)

	app.Get("/api/v2/accounting/journal", accounting.GetJournal)
	app.Get("/api/v2/accounting/balance_sheet", accounting.GetBalanceSheet)
	app.Get("/api/v2/accounting/income_statement", accounting.GetIncomeStatement)

	app.Get("/api/v2/catalog/products", products.GetProducts)
	app.Get("/api/v2/catalog/products/:id", products.GetProduct)
	app.Post("/api/v2/catalog/products", products.CreateProduct)
	app.Get("/api/v2/catalog/suppliers", products.GetSuppliers)
	app.Post("/api/v2/catalog/suppliers", products.CreateSupplier)

	return app
}
