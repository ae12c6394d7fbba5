package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Nephast0/web-de-administracion-de-suministros/models"
	"github.com/Nephast0/web-de-administracion-de-suministros/types"
)

// CatalogService manages products and suppliers. It never touches quantities
// or costs; those belong to the posting path.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type ProductFilters struct {
	Query      string
	Type       string
	Brand      string
	SupplierID string
	LowStock   bool
	Limit      int
	Page       int
}

func (s *CatalogService) CreateProduct(product *models.Product) error {
	var supplier models.Supplier

	result := s.db.Where("id = ?", product.SupplierID).First(&supplier)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("supplier %s not found", product.SupplierID)
	}
	if result.Error != nil {
		return result.Error
	}

	return s.db.Create(product).Error
}

func (s *CatalogService) Product(id string) (*models.Product, error) {
	var product models.Product

	result := s.db.Where("id = ?", id).First(&product)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", types.ErrProductNotFound, id)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &product, nil
}

func (s *CatalogService) Products(filters ProductFilters) ([]models.Product, error) {
	tx := s.db.Model(&models.Product{})

	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		tx = tx.Where("model LIKE ? OR reference_number LIKE ? OR description LIKE ?", like, like, like)
	}
	if filters.Type != "" {
		tx = tx.Where("product_type LIKE ?", "%"+filters.Type+"%")
	}
	if filters.Brand != "" {
		tx = tx.Where("brand LIKE ?", "%"+filters.Brand+"%")
	}
	if filters.SupplierID != "" {
		tx = tx.Where("supplier_id = ?", filters.SupplierID)
	}
	if filters.LowStock {
		tx = tx.Where("minimum_quantity > 0 AND quantity <= minimum_quantity")
	}

	if filters.Limit > 0 {
		tx = tx.Limit(filters.Limit)
		if filters.Page > 1 {
			tx = tx.Offset((filters.Page - 1) * filters.Limit)
		}
	}

	var products []models.Product
	if err := tx.Order("model").Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}

func (s *CatalogService) CreateSupplier(supplier *models.Supplier) error {
	return s.db.Create(supplier).Error
}

func (s *CatalogService) Suppliers() ([]models.Supplier, error) {
	var suppliers []models.Supplier

	if err := s.db.Order("name").Find(&suppliers).Error; err != nil {
		return nil, err
	}

	return suppliers, nil
}
