// internal/domain/catalog/service.go
package catalog

import (
	"fmt"
	"strings"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// Lookup is the read-only view of the catalog consumed by the register.
// The engine only ever resolves products by id; search is a UI concern
// served by the Service directly.
type Lookup interface {
	Find(productID uint) (*Product, error)
}

// Service handles catalog reads for the register
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// Find retrieves a single active product by id
func (s *Service) Find(productID uint) (*Product, error) {
	var prod Product
	result := s.db.Where("id = ? AND is_active = ?", productID, true).First(&prod)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found or inactive")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	prod.LowStock = prod.IsLowStock()
	return &prod, nil
}

// ListProducts retrieves all active products ordered by name. The
// register loads the catalog once and searches it in memory, the same
// way it searches while the cashier types.
func (s *Service) ListProducts() ([]Product, error) {
	var products []Product
	err := s.db.Where("is_active = ?", true).Order("name").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	for i := range products {
		products[i].LowStock = products[i].IsLowStock()
	}
	return products, nil
}

// SearchProducts retrieves active products matching the query, capped at
// the configured search limit
func (s *Service) SearchProducts(query string) ([]Product, error) {
	products, err := s.ListProducts()
	if err != nil {
		return nil, err
	}
	return Search(products, query, s.config.POS.CatalogSearchLimit), nil
}

// Search filters products by name, SKU, or barcode, case-insensitively.
// An empty query returns the first limit products rather than the full
// catalog, to keep the register responsive.
func Search(products []Product, query string, limit int) []Product {
	if query == "" {
		if len(products) > limit {
			return products[:limit]
		}
		return products
	}

	lower := strings.ToLower(query)
	var matched []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(strings.ToLower(p.SKU), lower) ||
			(p.Barcode != "" && strings.Contains(p.Barcode, query)) {
			matched = append(matched, p)
		}
	}
	return matched
}
