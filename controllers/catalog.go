package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Nephast0/web-de-administracion-de-suministros/controllers/helpers"
	"github.com/Nephast0/web-de-administracion-de-suministros/controllers/queries"
	"github.com/Nephast0/web-de-administracion-de-suministros/models"
	"github.com/Nephast0/web-de-administracion-de-suministros/services"
)

type CatalogController struct {
	Catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{Catalog: catalog}
}

func (ctl *CatalogController) GetProducts(c *fiber.Ctx) error {
	var filters queries.ProductFilters
	var errors helpers.Errors

	if err := c.QueryParser(&filters); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"catalog.product.invalid_filters"}})
	}

	helpers.Validate(filters, &errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	products, err := ctl.Catalog.Products(services.ProductFilters{
		Query:      filters.Query,
		Type:       filters.Type,
		Brand:      filters.Brand,
		SupplierID: filters.SupplierID,
		LowStock:   filters.Stock == "low",
		Limit:      filters.Limit,
		Page:       filters.Page,
	})
	if err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(200).JSON(products)
}

func (ctl *CatalogController) GetProduct(c *fiber.Ctx) error {
	product, err := ctl.Catalog.Product(c.Params("id"))
	if err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(200).JSON(product)
}

func (ctl *CatalogController) CreateProduct(c *fiber.Ctx) error {
	var product models.Product
	var errors helpers.Errors

	if err := c.BodyParser(&product); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"catalog.product.invalid_payload"}})
	}

	helpers.Validate(product, &errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	if err := ctl.Catalog.CreateProduct(&product); err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(201).JSON(product)
}

func (ctl *CatalogController) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := ctl.Catalog.Suppliers()
	if err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(200).JSON(suppliers)
}

func (ctl *CatalogController) CreateSupplier(c *fiber.Ctx) error {
	var supplier models.Supplier
	var errors helpers.Errors

	if err := c.BodyParser(&supplier); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"catalog.supplier.invalid_payload"}})
	}

	helpers.Validate(supplier, &errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	if err := ctl.Catalog.CreateSupplier(&supplier); err != nil {
		return c.Status(helpers.StatusFor(err)).JSON(helpers.Errors{
			Errors: []string{err.Error()},
		})
	}

	return c.Status(201).JSON(supplier)
}
