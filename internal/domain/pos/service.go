// internal/domain/pos/service.go
package pos

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/catalog"
	"github.com/your-org/pos-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Service routes register operations to per-register engines and
// mirrors committed state to postgres and redis. The in-memory engine
// is the source of truth for the duration of a session; mirroring is a
// best-effort side effect that runs after the transition has committed
// and never rolls it back.
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	catalog     catalog.Lookup
	log         *logrus.Logger

	mu      sync.Mutex
	engines map[string]*Engine
	mirrors map[string]*cartMirror
}

// NewService creates a new POS service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, lookup catalog.Lookup, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		catalog:     lookup,
		log:         log,
		engines:     make(map[string]*Engine),
		mirrors:     make(map[string]*cartMirror),
	}
}

// Engine returns the engine for a register, creating it on first use
func (s *Service) Engine(register string) *Engine {
	if register == "" {
		register = s.config.POS.DefaultRegister
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if engine, ok := s.engines[register]; ok {
		return engine
	}

	engine := NewEngine(EngineConfig{
		TaxRatePercent:    s.config.POS.TaxRatePercent,
		ClampDiscount:     s.config.POS.ClampDiscount,
		OrderNumberPrefix: s.config.POS.OrderNumberPrefix,
		Currency:          s.config.POS.CurrencyCode,
	})
	s.engines[register] = engine
	return engine
}

// Request types

// OpenSessionRequest represents a session open request
type OpenSessionRequest struct {
	OpeningBalance money.Money `json:"opening_balance"`
}

// CloseSessionRequest represents a session close request
type CloseSessionRequest struct {
	ClosingBalance money.Money `json:"closing_balance"`
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateLineRequest represents a line quantity update
type UpdateLineRequest struct {
	Quantity int `json:"quantity"`
}

// DiscountRequest represents a line discount update
type DiscountRequest struct {
	Percent float64 `json:"percent"`
}

// SetCustomerRequest represents attaching a customer to the cart;
// an empty id detaches
type SetCustomerRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PaymentRequest represents a settlement request
type PaymentRequest struct {
	Method         PaymentMethod `json:"method" binding:"required"`
	AmountPaid     money.Money   `json:"amount_paid"`
	IdempotencyKey string        `json:"idempotency_key"`
}

// Session operations

// OpenSession opens a fresh session on the register and mirrors it to storage
func (s *Service) OpenSession(register, cashierID, cashierName string, openingBalance money.Money) *Session {
	if register == "" {
		register = s.config.POS.DefaultRegister
	}
	session := s.Engine(register).OpenSession(cashierID, cashierName, register, openingBalance)
	s.persistSession(session)
	s.mirrorCart(register)
	return session
}

// CloseSession closes the register's session and mirrors the close
func (s *Service) CloseSession(register string, closingBalance money.Money) (*Session, error) {
	session, err := s.Engine(register).CloseSession(closingBalance)
	if err != nil {
		return nil, err
	}
	s.persistSession(session)
	return session, nil
}

// ActiveSession returns the register's current session, if any
func (s *Service) ActiveSession(register string) *Session {
	return s.Engine(register).ActiveSession()
}

// Cart operations

// AddItem resolves the product and adds it to the register's cart
func (s *Service) AddItem(register string, req *AddItemRequest) (Cart, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	product, err := s.catalog.Find(req.ProductID)
	if err != nil {
		return Cart{}, fmt.Errorf("failed to resolve product: %w", err)
	}

	engine := s.Engine(register)
	if err := engine.AddItem(product, quantity); err != nil {
		return Cart{}, err
	}
	s.mirrorCart(register)
	return engine.Cart(), nil
}

// SetQuantity updates a cart line's quantity
func (s *Service) SetQuantity(register, lineID string, quantity int) (Cart, error) {
	engine := s.Engine(register)
	if err := engine.SetQuantity(lineID, quantity); err != nil {
		return Cart{}, err
	}
	s.mirrorCart(register)
	return engine.Cart(), nil
}

// RemoveItem removes a cart line
func (s *Service) RemoveItem(register, lineID string) (Cart, error) {
	engine := s.Engine(register)
	if err := engine.RemoveItem(lineID); err != nil {
		return Cart{}, err
	}
	s.mirrorCart(register)
	return engine.Cart(), nil
}

// ApplyDiscount sets a line discount
func (s *Service) ApplyDiscount(register, lineID string, percent float64) (Cart, error) {
	engine := s.Engine(register)
	if err := engine.ApplyDiscount(lineID, percent); err != nil {
		return Cart{}, err
	}
	s.mirrorCart(register)
	return engine.Cart(), nil
}

// SetCustomer attaches or detaches the cart customer
func (s *Service) SetCustomer(register string, req *SetCustomerRequest) (Cart, error) {
	engine := s.Engine(register)

	var ref *CustomerRef
	if req != nil && req.ID != "" {
		ref = &CustomerRef{ID: req.ID, Name: req.Name}
	}
	if err := engine.SetCustomer(ref); err != nil {
		return Cart{}, err
	}
	s.mirrorCart(register)
	return engine.Cart(), nil
}

// ClearCart empties the register's cart
func (s *Service) ClearCart(register string) (Cart, error) {
	engine := s.Engine(register)
	if err := engine.ClearCart(); err != nil {
		return Cart{}, err
	}
	s.mirrorCart(register)
	return engine.Cart(), nil
}

// Cart returns a snapshot of the register's cart
func (s *Service) Cart(register string) Cart {
	return s.Engine(register).Cart()
}

// Settlement and history

// ProcessPayment settles the register's cart into an order and mirrors it
func (s *Service) ProcessPayment(register string, req *PaymentRequest) (*Order, error) {
	order, err := s.Engine(register).ProcessPayment(req.Method, req.AmountPaid, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	s.persistOrder(order)
	s.mirrorCart(register)

	s.log.WithFields(logrus.Fields{
		"register":     register,
		"order_number": order.OrderNumber,
		"method":       order.PaymentMethod,
		"total":        order.Total.Float64(),
	}).Info("Order settled")

	return order, nil
}

// Orders returns the register session's order log
func (s *Service) Orders(register string) []Order {
	return s.Engine(register).Orders()
}

// Order retrieves an order from the register session's log
func (s *Service) Order(register, orderID string) (*Order, error) {
	return s.Engine(register).Order(orderID)
}

// Refund transitions an order to refunded and mirrors the new status
func (s *Service) Refund(register, orderID string) (*Order, error) {
	order, err := s.Engine(register).Refund(orderID)
	if err != nil {
		return nil, err
	}
	s.persistOrderStatus(order)
	return order, nil
}

// Void transitions an order to voided and mirrors the new status
func (s *Service) Void(register, orderID string) (*Order, error) {
	order, err := s.Engine(register).Void(orderID)
	if err != nil {
		return nil, err
	}
	s.persistOrderStatus(order)
	return order, nil
}

// Best-effort mirroring. Failures are logged and never propagated: the
// in-memory transition has already committed.

func (s *Service) persistSession(session *Session) {
	if s.db == nil {
		return
	}
	copied := *session
	go func() {
		if err := s.db.Save(&copied).Error; err != nil {
			s.log.WithError(err).WithField("session_id", copied.ID).Warn("Failed to persist POS session")
		}
	}()
}

func (s *Service) persistOrder(order *Order) {
	if s.db == nil {
		return
	}
	copied := *order
	go func() {
		if err := s.db.Create(&copied).Error; err != nil {
			s.log.WithError(err).WithField("order_id", copied.ID).Warn("Failed to persist POS order")
		}
	}()
}

func (s *Service) persistOrderStatus(order *Order) {
	if s.db == nil {
		return
	}
	copied := *order
	go func() {
		err := s.db.Model(&Order{}).Where("id = ?", copied.ID).Update("status", copied.Status).Error
		if err != nil {
			s.log.WithError(err).WithField("order_id", copied.ID).Warn("Failed to persist POS order status")
		}
	}()
}

// cartMirror orders the redis writes for one register. Snapshots carry
// a sequence number paired with their capture, and the writer drops any
// snapshot that a newer one has already superseded.
type cartMirror struct {
	snapMu sync.Mutex // pairs each snapshot with its sequence number
	seq    uint64

	writeMu sync.Mutex // serializes redis writes
	written uint64
}

// commit claims a snapshot sequence for writing and reports whether it
// is still the newest. Callers hold writeMu.
func (m *cartMirror) commit(seq uint64) bool {
	if seq <= m.written {
		return false
	}
	m.written = seq
	return true
}

func (s *Service) mirror(register string) *cartMirror {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mirrors[register]
	if !ok {
		m = &cartMirror{}
		s.mirrors[register] = m
	}
	return m
}

// mirrorCart caches the live cart snapshot in redis so a restarted
// terminal can show the last known state
func (s *Service) mirrorCart(register string) {
	if s.redisClient == nil {
		return
	}
	if register == "" {
		register = s.config.POS.DefaultRegister
	}
	mirror := s.mirror(register)

	mirror.snapMu.Lock()
	cart := s.Engine(register).Cart()
	mirror.seq++
	seq := mirror.seq
	mirror.snapMu.Unlock()

	key := fmt.Sprintf("pos:register:%s:cart", register)

	go func() {
		mirror.writeMu.Lock()
		defer mirror.writeMu.Unlock()
		if !mirror.commit(seq) {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		data, err := json.Marshal(cart)
		if err != nil {
			s.log.WithError(err).Warn("Failed to encode cart snapshot")
			return
		}
		if err := s.redisClient.Set(ctx, key, data, 24*time.Hour).Err(); err != nil {
			s.log.WithError(err).WithField("register", register).Warn("Failed to mirror cart to redis")
		}
	}()
}
