// internal/domain/cashier/entity.go
package cashier

import (
	"time"

	"gorm.io/gorm"
)

// Cashier represents a register operator account
type Cashier struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string         `gorm:"not null;size:255" json:"-"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	IsManager    bool           `gorm:"default:false" json:"is_manager"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Cashier) TableName() string {
	return "cashiers"
}
