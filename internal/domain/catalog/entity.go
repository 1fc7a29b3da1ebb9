// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/your-org/pos-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Product represents a sellable product as seen by the register
type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SKU           string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Barcode       string         `gorm:"index;size:100" json:"barcode"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	Category      string         `gorm:"size:100" json:"category"`
	Description   string         `gorm:"type:text" json:"description"`
	Unit          string         `gorm:"size:20" json:"unit"` // box, bottle, strip
	CostPrice     money.Money    `gorm:"not null" json:"cost_price"`
	SellPrice     money.Money    `gorm:"not null" json:"sell_price"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	StockQuantity int            `gorm:"default:0" json:"stock_quantity"`
	MinQuantity   int            `gorm:"default:0" json:"min_quantity"`
	LowStock      bool           `gorm:"-" json:"is_low_stock"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether the product has fallen below its reorder point
func (p *Product) IsLowStock() bool {
	return p.StockQuantity < p.MinQuantity
}
