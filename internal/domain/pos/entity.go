// internal/domain/pos/entity.go
package pos

import (
	"time"

	"github.com/your-org/pos-backend/internal/pkg/money"
)

// SessionStatus represents the register session status
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
)

// OrderStatus represents the settled order status
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusRefunded  OrderStatus = "refunded"
	OrderStatusVoided    OrderStatus = "voided"
)

// PaymentMethod represents the tender type used to settle an order
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodMixed PaymentMethod = "mixed"
)

// Valid reports whether the payment method is one the register accepts
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMixed:
		return true
	}
	return false
}

// CartLine represents one product entry in the in-progress cart
type CartLine struct {
	ID              string      `json:"id"`
	ProductID       uint        `json:"product_id"`
	Name            string      `json:"name"`
	SKU             string      `json:"sku"`
	Quantity        int         `json:"quantity"`
	UnitPrice       money.Money `json:"unit_price"`
	DiscountPercent float64     `json:"discount_percent"`
	TaxRatePercent  float64     `json:"tax_rate_percent"`
	LineTotal       money.Money `json:"line_total"` // quantity * unit price less discount; tax is aggregate-level
}

// CustomerRef identifies the customer attached to the cart, if any
type CustomerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Cart is the mutable collection of lines being rung up, with totals
type Cart struct {
	Lines    []CartLine   `json:"lines"`
	Customer *CustomerRef `json:"customer,omitempty"`
	Totals   CartTotals   `json:"totals"`
}

// CartTotals represents the derived cart totals
type CartTotals struct {
	Subtotal money.Money `json:"subtotal"`
	Discount money.Money `json:"discount"`
	Tax      money.Money `json:"tax"`
	Total    money.Money `json:"total"`
}

// Session represents a cashier register session
type Session struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	CashierID      string        `gorm:"not null;size:36;index" json:"cashier_id"`
	CashierName    string        `gorm:"not null;size:255" json:"cashier_name"`
	RegisterName   string        `gorm:"not null;size:100;index" json:"register_name"`
	OpeningBalance money.Money   `gorm:"not null" json:"opening_balance"`
	ClosingBalance *money.Money  `json:"closing_balance,omitempty"`
	Status         SessionStatus `gorm:"not null;default:'open'" json:"status"`
	StartedAt      time.Time     `json:"started_at"`
	ClosedAt       *time.Time    `json:"closed_at,omitempty"`
}

// TableName overrides the table name
func (Session) TableName() string {
	return "pos_sessions"
}

// IsOpen reports whether the session accepts cart mutations and settlements
func (s *Session) IsOpen() bool {
	return s != nil && s.Status == SessionStatusOpen
}

// Order represents a settled, immutable sale. Lines and totals are a
// snapshot taken at settlement; only Status may change afterwards.
type Order struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	SessionID     string        `gorm:"not null;size:36;index" json:"session_id"`
	OrderNumber   string        `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	CustomerID    string        `gorm:"size:36" json:"customer_id,omitempty"`
	CustomerName  string        `gorm:"size:255" json:"customer_name,omitempty"`
	Lines         []OrderLine   `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"lines"`
	Subtotal      money.Money   `gorm:"not null" json:"subtotal"`
	Tax           money.Money   `gorm:"not null" json:"tax"`
	Discount      money.Money   `gorm:"not null" json:"discount"`
	Total         money.Money   `gorm:"not null" json:"total"`
	PaymentMethod PaymentMethod `gorm:"not null;size:10" json:"payment_method"`
	AmountPaid    money.Money   `gorm:"not null" json:"amount_paid"`
	ChangeDue     money.Money   `gorm:"not null" json:"change_due"`
	Status        OrderStatus   `gorm:"not null;default:'completed'" json:"status"`
	Currency      string        `gorm:"size:3" json:"currency"`
	CreatedAt     time.Time     `json:"created_at"`
}

// TableName overrides the table name
func (Order) TableName() string {
	return "pos_orders"
}

// OrderLine is the persisted snapshot of a cart line at settlement time
type OrderLine struct {
	ID              uint        `gorm:"primaryKey" json:"-"`
	OrderID         string      `gorm:"not null;size:36;index" json:"-"`
	LineID          string      `gorm:"not null;size:64" json:"id"`
	ProductID       uint        `gorm:"not null;index" json:"product_id"`
	Name            string      `gorm:"not null;size:255" json:"name"`
	SKU             string      `gorm:"not null;size:100" json:"sku"`
	Quantity        int         `gorm:"not null" json:"quantity"`
	UnitPrice       money.Money `gorm:"not null" json:"unit_price"`
	DiscountPercent float64     `gorm:"not null;default:0" json:"discount_percent"`
	TaxRatePercent  float64     `gorm:"not null;default:0" json:"tax_rate_percent"`
	LineTotal       money.Money `gorm:"not null" json:"line_total"`
}

// TableName overrides the table name
func (OrderLine) TableName() string {
	return "pos_order_lines"
}

// CanBeRefunded reports whether the order may transition to refunded
func (o *Order) CanBeRefunded() bool {
	return o.Status == OrderStatusCompleted
}

// CanBeVoided reports whether the order may transition to voided
func (o *Order) CanBeVoided() bool {
	return o.Status == OrderStatusCompleted
}
