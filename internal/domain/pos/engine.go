// internal/domain/pos/engine.go
package pos

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/pos-backend/internal/domain/catalog"
	"github.com/your-org/pos-backend/internal/pkg/money"
)

// EngineConfig holds the business parameters of a register
type EngineConfig struct {
	TaxRatePercent    float64 // Flat sales tax applied to the cart subtotal
	ClampDiscount     bool    // Restrict line discounts to 0-100 percent
	OrderNumberPrefix string
	Currency          string
}

// Engine owns the in-memory state of a single register: the active
// session, the in-progress cart, and the session's order log. All
// mutation is routed through its methods under one mutex, so exactly
// one mutation completes before the next begins. The in-memory state
// is the source of truth; persistence is a best-effort mirror handled
// by the Service.
type Engine struct {
	mu       sync.Mutex
	config   EngineConfig
	session  *Session
	lines    []CartLine
	customer *CustomerRef
	orders   []Order
	settled  map[string]string // idempotency key -> order id
}

// NewEngine creates a register engine with no open session
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.OrderNumberPrefix == "" {
		cfg.OrderNumberPrefix = "POS"
	}
	return &Engine{
		config:  cfg,
		settled: make(map[string]string),
	}
}

// OpenSession opens a fresh register session. Any prior cart lines and
// order history are discarded: a new session is a fresh till.
func (e *Engine) OpenSession(cashierID, cashierName, registerName string, openingBalance money.Money) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	session := &Session{
		ID:             uuid.New().String(),
		CashierID:      cashierID,
		CashierName:    cashierName,
		RegisterName:   registerName,
		OpeningBalance: openingBalance,
		Status:         SessionStatusOpen,
		StartedAt:      time.Now().UTC(),
	}

	e.session = session
	e.lines = nil
	e.customer = nil
	e.orders = nil
	e.settled = make(map[string]string)

	copied := *session
	return &copied
}

// CloseSession closes the active session, recording the counted closing
// balance for drawer reconciliation. Further mutations fail until a new
// session is opened.
func (e *Engine) CloseSession(closingBalance money.Money) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.IsOpen() {
		return nil, ErrNoActiveSession
	}

	now := time.Now().UTC()
	e.session.ClosingBalance = &closingBalance
	e.session.Status = SessionStatusClosed
	e.session.ClosedAt = &now

	copied := *e.session
	return &copied, nil
}

// ActiveSession returns a copy of the current session, open or closed,
// or nil if none has been opened
func (e *Engine) ActiveSession() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil
	}
	copied := *e.session
	return &copied
}

// AddItem adds a product to the cart. A line already holding the
// product has its quantity incremented; otherwise a new line is created
// with no discount and the configured tax rate.
func (e *Engine) AddItem(product *catalog.Product, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.IsOpen() {
		return ErrNoActiveSession
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	for i := range e.lines {
		if e.lines[i].ProductID == product.ID {
			e.lines[i].Quantity += quantity
			e.lines[i].LineTotal = money.LineTotal(e.lines[i].UnitPrice, e.lines[i].Quantity, e.lines[i].DiscountPercent)
			return nil
		}
	}

	e.lines = append(e.lines, CartLine{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		Name:            product.Name,
		SKU:             product.SKU,
		Quantity:        quantity,
		UnitPrice:       product.SellPrice,
		DiscountPercent: 0,
		TaxRatePercent:  e.config.TaxRatePercent,
		LineTotal:       money.LineTotal(product.SellPrice, quantity, 0),
	})
	return nil
}

// SetQuantity updates a line's quantity, honoring its existing
// discount. A quantity of zero or less removes the line; the cart never
// holds a zero-quantity line. Unknown line ids are a no-op.
func (e *Engine) SetQuantity(lineID string, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.IsOpen() {
		return ErrNoActiveSession
	}

	if quantity <= 0 {
		e.removeLineLocked(lineID)
		return nil
	}

	for i := range e.lines {
		if e.lines[i].ID == lineID {
			e.lines[i].Quantity = quantity
			e.lines[i].LineTotal = money.LineTotal(e.lines[i].UnitPrice, quantity, e.lines[i].DiscountPercent)
			return nil
		}
	}
	return nil
}

// RemoveItem deletes a line from the cart; removing a line that does
// not exist is not an error
func (e *Engine) RemoveItem(lineID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.IsOpen() {
		return ErrNoActiveSession
	}

	e.removeLineLocked(lineID)
	return nil
}

func (e *Engine) removeLineLocked(lineID string) {
	for i := range e.lines {
		if e.lines[i].ID == lineID {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			return
		}
	}
}

// ApplyDiscount sets a line's discount percentage and recomputes its
// total. When discount clamping is on (the default) the value is
// restricted to 0-100; turning it off preserves the permissive behavior
// where a negative discount acts as a surcharge.
func (e *Engine) ApplyDiscount(lineID string, percent float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.IsOpen() {
		return ErrNoActiveSession
	}

	if e.config.ClampDiscount {
		if percent < 0 {
			percent = 0
		} else if percent > 100 {
			percent = 100
		}
	}

	for i := range e.lines {
		if e.lines[i].ID == lineID {
			e.lines[i].DiscountPercent = percent
			e.lines[i].LineTotal = money.LineTotal(e.lines[i].UnitPrice, e.lines[i].Quantity, percent)
			return nil
		}
	}
	return nil
}

// SetCustomer attaches a customer to the cart; nil detaches
func (e *Engine) SetCustomer(customer *CustomerRef) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.IsOpen() {
		return ErrNoActiveSession
	}

	if customer == nil {
		e.customer = nil
		return nil
	}
	copied := *customer
	e.customer = &copied
	return nil
}

// ClearCart empties the cart lines and detaches the customer
func (e *Engine) ClearCart() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.IsOpen() {
		return ErrNoActiveSession
	}

	e.lines = nil
	e.customer = nil
	return nil
}

// Cart returns a snapshot of the in-progress cart with derived totals
func (e *Engine) Cart() Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cartLocked()
}

// Totals computes the derived cart totals. Pure and idempotent: calling
// it any number of times without an intervening mutation yields
// identical results and mutates nothing.
func (e *Engine) Totals() CartTotals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalsLocked()
}

func (e *Engine) cartLocked() Cart {
	lines := make([]CartLine, len(e.lines))
	copy(lines, e.lines)

	var customer *CustomerRef
	if e.customer != nil {
		copied := *e.customer
		customer = &copied
	}

	return Cart{
		Lines:    lines,
		Customer: customer,
		Totals:   e.totalsLocked(),
	}
}

func (e *Engine) totalsLocked() CartTotals {
	var subtotal money.Money
	var discount float64
	for _, line := range e.lines {
		subtotal += line.LineTotal
		discount += money.DiscountAmount(line.UnitPrice, line.Quantity, line.DiscountPercent)
	}

	tax := money.PercentOf(subtotal, e.config.TaxRatePercent)
	return CartTotals{
		Subtotal: subtotal,
		Discount: money.Round(discount),
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// ProcessPayment settles the cart into an immutable order. Cash tenders
// below the total due fail without touching the cart; card and mixed
// tenders are treated as pre-authorized for the total. A repeated
// idempotency key returns the originally settled order instead of
// creating a duplicate. On success the order is appended to the
// session's log and the cart is cleared in the same step.
func (e *Engine) ProcessPayment(method PaymentMethod, amountPaid money.Money, idempotencyKey string) (*Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.IsOpen() {
		return nil, ErrNoActiveSession
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}

	if idempotencyKey != "" {
		if orderID, seen := e.settled[idempotencyKey]; seen {
			return e.orderByIDLocked(orderID)
		}
	}

	if len(e.lines) == 0 {
		return nil, ErrEmptyCart
	}

	totals := e.totalsLocked()
	changeDue := amountPaid - totals.Total
	if method == PaymentMethodCash && changeDue < 0 {
		return nil, fmt.Errorf("%w: tendered %s against total %s", ErrInsufficientPayment, amountPaid, totals.Total)
	}
	if changeDue < 0 {
		changeDue = 0
	}

	orderID := uuid.New().String()
	lines := make([]OrderLine, len(e.lines))
	for i, line := range e.lines {
		lines[i] = OrderLine{
			OrderID:         orderID,
			LineID:          line.ID,
			ProductID:       line.ProductID,
			Name:            line.Name,
			SKU:             line.SKU,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			DiscountPercent: line.DiscountPercent,
			TaxRatePercent:  line.TaxRatePercent,
			LineTotal:       line.LineTotal,
		}
	}

	now := time.Now().UTC()
	order := Order{
		ID:            orderID,
		SessionID:     e.session.ID,
		OrderNumber:   e.nextOrderNumberLocked(now),
		Lines:         lines,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Discount:      totals.Discount,
		Total:         totals.Total,
		PaymentMethod: method,
		AmountPaid:    amountPaid,
		ChangeDue:     changeDue,
		Status:        OrderStatusCompleted,
		Currency:      e.config.Currency,
		CreatedAt:     now,
	}
	if e.customer != nil {
		order.CustomerID = e.customer.ID
		order.CustomerName = e.customer.Name
	}

	// Commit: append to the log and clear the cart in the same step.
	// There is no partial-success state where payment is recorded but
	// the cart survives.
	e.orders = append(e.orders, order)
	e.lines = nil
	e.customer = nil
	if idempotencyKey != "" {
		e.settled[idempotencyKey] = order.ID
	}

	return cloneOrder(&order), nil
}

// nextOrderNumberLocked synthesizes a date-stamped order number scoped
// to this session's log, e.g. POS-20260830-0001
func (e *Engine) nextOrderNumberLocked(now time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", e.config.OrderNumberPrefix, now.Format("20060102"), len(e.orders)+1)
}

// Orders returns the session's order log in settlement order
func (e *Engine) Orders() []Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	orders := make([]Order, len(e.orders))
	for i := range e.orders {
		orders[i] = *cloneOrder(&e.orders[i])
	}
	return orders
}

// Order retrieves a settled order from the active session's log by id
func (e *Engine) Order(orderID string) (*Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orderByIDLocked(orderID)
}

func (e *Engine) orderByIDLocked(orderID string) (*Order, error) {
	for i := range e.orders {
		if e.orders[i].ID == orderID {
			return cloneOrder(&e.orders[i]), nil
		}
	}
	return nil, ErrOrderNotFound
}

// cloneOrder copies an order together with its lines, so writes through
// the returned value cannot reach the session's log
func cloneOrder(o *Order) *Order {
	copied := *o
	copied.Lines = make([]OrderLine, len(o.Lines))
	copy(copied.Lines, o.Lines)
	return &copied
}

// Refund transitions a completed order to refunded. The transition is
// one-way: refunding an already refunded or voided order fails. Refund
// does not reopen the cart, restock inventory, or reverse payment
// capture; those belong to external collaborators.
func (e *Engine) Refund(orderID string) (*Order, error) {
	return e.transition(orderID, OrderStatusRefunded)
}

// Void transitions a completed order to voided; one-way, like Refund
func (e *Engine) Void(orderID string) (*Order, error) {
	return e.transition(orderID, OrderStatusVoided)
}

func (e *Engine) transition(orderID string, to OrderStatus) (*Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.orders {
		if e.orders[i].ID == orderID {
			if e.orders[i].Status != OrderStatusCompleted {
				return nil, fmt.Errorf("%w: status is %s", ErrInvalidOrderState, e.orders[i].Status)
			}
			e.orders[i].Status = to
			return cloneOrder(&e.orders[i]), nil
		}
	}
	return nil, ErrOrderNotFound
}
