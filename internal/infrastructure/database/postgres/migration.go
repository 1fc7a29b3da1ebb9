// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/your-org/pos-backend/internal/domain/cashier"
	"github.com/your-org/pos-backend/internal/domain/catalog"
	"github.com/your-org/pos-backend/internal/domain/pos"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&cashier.Cashier{},
		&catalog.Product{},
		&pos.Session{},
		&pos.Order{},
		&pos.OrderLine{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_name_active ON products(name, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode)",
		"CREATE INDEX IF NOT EXISTS idx_pos_sessions_register_status ON pos_sessions(register_name, status)",
		"CREATE INDEX IF NOT EXISTS idx_pos_orders_session_created ON pos_orders(session_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_pos_orders_status ON pos_orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_cashiers_email_active ON cashiers(email, is_active)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// SeedInitialData seeds the database with initial development data
func (m *Migration) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	if err := m.seedCashiers(); err != nil {
		return fmt.Errorf("failed to seed cashiers: %w", err)
	}

	if err := m.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedCashiers creates a default manager account if none exists
func (m *Migration) seedCashiers() error {
	var count int64
	m.db.Model(&cashier.Cashier{}).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	seed := cashier.Cashier{
		ID:           uuid.New().String(),
		Email:        "manager@example.com",
		PasswordHash: string(hash),
		Name:         "Store Manager",
		IsActive:     true,
		IsManager:    true,
	}

	if err := m.db.Create(&seed).Error; err != nil {
		return fmt.Errorf("failed to create seed cashier: %w", err)
	}

	log.Println("Seeded default manager account: manager@example.com")
	return nil
}

// seedProducts creates a small demo catalog if the products table is empty
func (m *Migration) seedProducts() error {
	var count int64
	m.db.Model(&catalog.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	products := []catalog.Product{
		{SKU: "AMX-500", Barcode: "8901234560001", Name: "Amoxicillin 500mg", Category: "Antibiotics", Unit: "box", CostPrice: 850, SellPrice: 1299, IsActive: true, StockQuantity: 150, MinQuantity: 50},
		{SKU: "VTD-1000", Barcode: "8901234560002", Name: "Vitamin D3 1000IU", Category: "Vitamins", Unit: "bottle", CostPrice: 500, SellPrice: 949, IsActive: true, StockQuantity: 320, MinQuantity: 100},
		{SKU: "IBU-200", Barcode: "8901234560003", Name: "Ibuprofen 200mg", Category: "Pain Relief", Unit: "box", CostPrice: 420, SellPrice: 799, IsActive: true, StockQuantity: 25, MinQuantity: 40},
		{SKU: "LIS-10", Barcode: "8901234560005", Name: "Lisinopril 10mg", Category: "Blood Pressure", Unit: "box", CostPrice: 750, SellPrice: 1129, IsActive: true, StockQuantity: 85, MinQuantity: 60},
		{SKU: "CET-10", Barcode: "8901234560006", Name: "Cetirizine 10mg", Category: "Allergy", Unit: "strip", CostPrice: 350, SellPrice: 699, IsActive: true, StockQuantity: 200, MinQuantity: 80},
		{SKU: "OMP-20", Barcode: "8901234560007", Name: "Omeprazole 20mg", Category: "Digestive", Unit: "box", CostPrice: 900, SellPrice: 1379, IsActive: true, StockQuantity: 45, MinQuantity: 40},
	}

	for _, p := range products {
		if err := m.db.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to create seed product %s: %w", p.SKU, err)
		}
	}

	log.Printf("Seeded %d demo products", len(products))
	return nil
}

// GetTableInfo logs row counts for the main tables
func (m *Migration) GetTableInfo() error {
	tables := []string{"cashiers", "products", "pos_sessions", "pos_orders", "pos_order_lines"}

	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("Table %s: error counting rows: %v", table, err)
			continue
		}
		log.Printf("Table %s: %d rows", table, count)
	}

	return nil
}
