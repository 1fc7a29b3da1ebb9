package pos

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/catalog"
	"github.com/your-org/pos-backend/internal/pkg/money"
)

type fakeLookup struct {
	products map[uint]catalog.Product
}

func (f *fakeLookup) Find(productID uint) (*catalog.Product, error) {
	if p, ok := f.products[productID]; ok {
		copied := p
		return &copied, nil
	}
	return nil, fmt.Errorf("product not found or inactive")
}

func testService() *Service {
	cfg := &config.Config{}
	cfg.POS.TaxRatePercent = 13
	cfg.POS.ClampDiscount = true
	cfg.POS.OrderNumberPrefix = "POS"
	cfg.POS.CurrencyCode = "CAD"
	cfg.POS.DefaultRegister = "main"

	lookup := &fakeLookup{products: map[uint]catalog.Product{
		1: {ID: 1, SKU: "AMX-500", Name: "Amoxicillin 500mg", SellPrice: 1299},
		2: {ID: 2, SKU: "VTD-1000", Name: "Vitamin D3 1000IU", SellPrice: 949},
	}}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	// nil db and redis: mirroring is skipped, the engines stand alone
	return NewService(nil, nil, cfg, lookup, log)
}

func TestServiceDefaultsRegister(t *testing.T) {
	s := testService()

	session := s.OpenSession("", "c1", "Alice", money.FromFloat(100))
	assert.Equal(t, "main", session.RegisterName)
	assert.Same(t, s.Engine(""), s.Engine("main"))
}

func TestServiceAddItemResolvesProduct(t *testing.T) {
	s := testService()
	s.OpenSession("main", "c1", "Alice", 0)

	cart, err := s.AddItem("main", &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "AMX-500", cart.Lines[0].SKU)
	assert.Equal(t, money.Money(2598), cart.Lines[0].LineTotal)
}

func TestServiceAddItemDefaultsQuantityToOne(t *testing.T) {
	s := testService()
	s.OpenSession("main", "c1", "Alice", 0)

	cart, err := s.AddItem("main", &AddItemRequest{ProductID: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	s := testService()
	s.OpenSession("main", "c1", "Alice", 0)

	_, err := s.AddItem("main", &AddItemRequest{ProductID: 99})
	assert.Error(t, err)
	assert.Empty(t, s.Cart("main").Lines)
}

func TestServiceRegistersAreIsolated(t *testing.T) {
	s := testService()

	front := s.OpenSession("front", "c1", "Alice", money.FromFloat(100))
	back := s.OpenSession("back", "c2", "Bob", money.FromFloat(50))
	assert.NotEqual(t, front.ID, back.ID)

	_, err := s.AddItem("front", &AddItemRequest{ProductID: 1, Quantity: 3})
	require.NoError(t, err)

	assert.Len(t, s.Cart("front").Lines, 1)
	assert.Empty(t, s.Cart("back").Lines)

	// Settlement on one register leaves the other's log empty
	_, err = s.ProcessPayment("front", &PaymentRequest{Method: PaymentMethodCard})
	require.NoError(t, err)
	assert.Len(t, s.Orders("front"), 1)
	assert.Empty(t, s.Orders("back"))
}

func TestServiceSettlementAndRefund(t *testing.T) {
	s := testService()
	s.OpenSession("main", "c1", "Alice", 0)

	_, err := s.AddItem("main", &AddItemRequest{ProductID: 1})
	require.NoError(t, err)

	order, err := s.ProcessPayment("main", &PaymentRequest{
		Method:     PaymentMethodCash,
		AmountPaid: money.FromFloat(20),
	})
	require.NoError(t, err)
	assert.Empty(t, s.Cart("main").Lines)

	refunded, err := s.Refund("main", order.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusRefunded, refunded.Status)

	_, err = s.Refund("main", order.ID)
	assert.ErrorIs(t, err, ErrInvalidOrderState)
}

func TestServiceCustomerLifecycle(t *testing.T) {
	s := testService()
	s.OpenSession("main", "c1", "Alice", 0)

	cart, err := s.SetCustomer("main", &SetCustomerRequest{ID: "cust1", Name: "Dana"})
	require.NoError(t, err)
	require.NotNil(t, cart.Customer)
	assert.Equal(t, "Dana", cart.Customer.Name)

	// Empty id detaches
	cart, err = s.SetCustomer("main", &SetCustomerRequest{})
	require.NoError(t, err)
	assert.Nil(t, cart.Customer)
}

func TestCartMirrorDropsStaleSnapshots(t *testing.T) {
	m := &cartMirror{}

	// Writers racing out of order: the newer snapshot lands first and
	// the stale one is dropped instead of overwriting it
	assert.True(t, m.commit(2))
	assert.False(t, m.commit(1))

	// A genuinely newer snapshot still goes through
	assert.True(t, m.commit(3))
	assert.False(t, m.commit(3))
}
