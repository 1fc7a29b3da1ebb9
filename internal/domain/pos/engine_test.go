package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/domain/catalog"
	"github.com/your-org/pos-backend/internal/pkg/money"
)

func testEngine() *Engine {
	return NewEngine(EngineConfig{
		TaxRatePercent:    13,
		ClampDiscount:     true,
		OrderNumberPrefix: "POS",
		Currency:          "CAD",
	})
}

func openEngine(t *testing.T) *Engine {
	t.Helper()
	e := testEngine()
	e.OpenSession("c1", "Alice", "front", money.FromFloat(200))
	return e
}

var (
	amoxicillin = &catalog.Product{ID: 1, SKU: "AMX-500", Name: "Amoxicillin 500mg", SellPrice: 1299}
	vitaminD    = &catalog.Product{ID: 2, SKU: "VTD-1000", Name: "Vitamin D3 1000IU", SellPrice: 949}
	ibuprofen   = &catalog.Product{ID: 3, SKU: "IBU-200", Name: "Ibuprofen 200mg", SellPrice: 799}
)

func TestOpenSession(t *testing.T) {
	e := testEngine()
	session := e.OpenSession("c1", "Alice", "front", money.FromFloat(200))

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, SessionStatusOpen, session.Status)
	assert.Equal(t, "Alice", session.CashierName)
	assert.Equal(t, money.Money(20000), session.OpeningBalance)
	assert.Nil(t, session.ClosingBalance)
}

func TestCloseSession(t *testing.T) {
	e := openEngine(t)

	session, err := e.CloseSession(money.FromFloat(312.50))
	require.NoError(t, err)
	assert.Equal(t, SessionStatusClosed, session.Status)
	require.NotNil(t, session.ClosingBalance)
	assert.Equal(t, money.Money(31250), *session.ClosingBalance)
	assert.NotNil(t, session.ClosedAt)

	// Closed session rejects further mutations
	assert.ErrorIs(t, e.AddItem(amoxicillin, 1), ErrNoActiveSession)
	_, err = e.CloseSession(0)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestMutationsWithoutSession(t *testing.T) {
	e := testEngine()

	assert.ErrorIs(t, e.AddItem(amoxicillin, 1), ErrNoActiveSession)
	assert.ErrorIs(t, e.SetQuantity("x", 2), ErrNoActiveSession)
	assert.ErrorIs(t, e.RemoveItem("x"), ErrNoActiveSession)
	assert.ErrorIs(t, e.ApplyDiscount("x", 10), ErrNoActiveSession)
	assert.ErrorIs(t, e.ClearCart(), ErrNoActiveSession)

	_, err := e.ProcessPayment(PaymentMethodCash, 1000, "")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	e := openEngine(t)

	require.NoError(t, e.AddItem(amoxicillin, 1))
	require.NoError(t, e.AddItem(amoxicillin, 2))
	require.NoError(t, e.AddItem(vitaminD, 1))

	cart := e.Cart()
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, money.Money(3*1299), cart.Lines[0].LineTotal)
	assert.Equal(t, 1, cart.Lines[1].Quantity)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	e := openEngine(t)

	assert.ErrorIs(t, e.AddItem(amoxicillin, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, e.AddItem(amoxicillin, -3), ErrInvalidQuantity)
	assert.Empty(t, e.Cart().Lines)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 2))
	lineID := e.Cart().Lines[0].ID

	require.NoError(t, e.SetQuantity(lineID, 0))
	assert.Empty(t, e.Cart().Lines)

	// The cart never holds a line with quantity <= 0
	require.NoError(t, e.AddItem(amoxicillin, 1))
	lineID = e.Cart().Lines[0].ID
	require.NoError(t, e.SetQuantity(lineID, -4))
	assert.Empty(t, e.Cart().Lines)
}

func TestSetQuantityHonorsDiscount(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 1))
	lineID := e.Cart().Lines[0].ID

	require.NoError(t, e.ApplyDiscount(lineID, 10))
	require.NoError(t, e.SetQuantity(lineID, 4))

	line := e.Cart().Lines[0]
	assert.Equal(t, 4, line.Quantity)
	assert.Equal(t, float64(10), line.DiscountPercent)
	assert.Equal(t, money.LineTotal(1299, 4, 10), line.LineTotal)
}

func TestRemoveItemUnknownLineIsNoOp(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 1))

	require.NoError(t, e.RemoveItem("nonexistent"))
	assert.Len(t, e.Cart().Lines, 1)
}

func TestApplyDiscountClamped(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 1))
	lineID := e.Cart().Lines[0].ID

	require.NoError(t, e.ApplyDiscount(lineID, 150))
	assert.Equal(t, float64(100), e.Cart().Lines[0].DiscountPercent)
	assert.Equal(t, money.Money(0), e.Cart().Lines[0].LineTotal)

	require.NoError(t, e.ApplyDiscount(lineID, -20))
	assert.Equal(t, float64(0), e.Cart().Lines[0].DiscountPercent)
}

func TestApplyDiscountUnclamped(t *testing.T) {
	e := NewEngine(EngineConfig{TaxRatePercent: 13, ClampDiscount: false})
	e.OpenSession("c1", "Alice", "front", 0)
	require.NoError(t, e.AddItem(&catalog.Product{ID: 1, SKU: "X", Name: "X", SellPrice: 1000}, 1))
	lineID := e.Cart().Lines[0].ID

	// Negative discount acts as a surcharge when the clamp is off
	require.NoError(t, e.ApplyDiscount(lineID, -10))
	assert.Equal(t, money.Money(1100), e.Cart().Lines[0].LineTotal)
}

func TestLineTotalInvariantAfterEveryMutation(t *testing.T) {
	e := openEngine(t)

	check := func() {
		for _, line := range e.Cart().Lines {
			assert.Equal(t, money.LineTotal(line.UnitPrice, line.Quantity, line.DiscountPercent), line.LineTotal)
			assert.GreaterOrEqual(t, line.Quantity, 1)
		}
	}

	require.NoError(t, e.AddItem(amoxicillin, 2))
	check()
	require.NoError(t, e.AddItem(vitaminD, 1))
	check()
	lineID := e.Cart().Lines[0].ID
	require.NoError(t, e.ApplyDiscount(lineID, 15))
	check()
	require.NoError(t, e.SetQuantity(lineID, 5))
	check()
	require.NoError(t, e.AddItem(amoxicillin, 1))
	check()
}

func TestTotalsIdempotent(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 3))
	require.NoError(t, e.AddItem(ibuprofen, 2))
	require.NoError(t, e.ApplyDiscount(e.Cart().Lines[0].ID, 10))

	first := e.Totals()
	second := e.Totals()
	assert.Equal(t, first, second)
	assert.Len(t, e.Cart().Lines, 2)
}

func TestTotalsArithmetic(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 2)) // 25.98
	require.NoError(t, e.AddItem(vitaminD, 1))    // 9.49
	require.NoError(t, e.ApplyDiscount(e.Cart().Lines[1].ID, 50))

	totals := e.Totals()
	// Subtotal: 25.98 + round(9.49 * 0.5 = 4.745) = 25.98 + 4.75 = 30.73
	assert.Equal(t, money.Money(3073), totals.Subtotal)
	// Discount: 9.49 * 50% = 4.745, rounded once = 4.75
	assert.Equal(t, money.Money(475), totals.Discount)
	// Tax: 13% of 30.73 = 3.9949 -> 3.99
	assert.Equal(t, money.Money(399), totals.Tax)
	assert.Equal(t, totals.Subtotal+totals.Tax, totals.Total)
}

func TestClearCart(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 1))
	require.NoError(t, e.SetCustomer(&CustomerRef{ID: "cust1", Name: "Bob"}))

	require.NoError(t, e.ClearCart())
	cart := e.Cart()
	assert.Empty(t, cart.Lines)
	assert.Nil(t, cart.Customer)
}

func TestProcessPaymentConservation(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 2))
	require.NoError(t, e.SetCustomer(&CustomerRef{ID: "cust1", Name: "Bob"}))
	expected := e.Totals()

	order, err := e.ProcessPayment(PaymentMethodCash, expected.Total+1000, "")
	require.NoError(t, err)

	// Exactly one order whose total equals the pre-settlement total
	assert.Equal(t, expected.Total, order.Total)
	assert.Equal(t, "Bob", order.CustomerName)
	assert.Len(t, e.Orders(), 1)

	// The cart is cleared as part of the same settlement step
	cart := e.Cart()
	assert.Empty(t, cart.Lines)
	assert.Nil(t, cart.Customer)
}

func TestProcessPaymentInsufficientCash(t *testing.T) {
	e := openEngine(t)
	// $50.00 total: unit price chosen so subtotal+13% tax lands on 50.00
	require.NoError(t, e.AddItem(&catalog.Product{ID: 9, SKU: "T", Name: "T", SellPrice: 4425}, 1))
	require.Equal(t, money.Money(5000), e.Totals().Total)

	order, err := e.ProcessPayment(PaymentMethodCash, money.FromFloat(40), "")
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Nil(t, order)

	// No order was created and the cart is untouched
	assert.Empty(t, e.Orders())
	assert.Len(t, e.Cart().Lines, 1)
}

func TestProcessPaymentCardNotPrechecked(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 1))
	total := e.Totals().Total

	// Card tenders are treated as pre-authorized for the total
	order, err := e.ProcessPayment(PaymentMethodCard, 0, "")
	require.NoError(t, err)
	assert.Equal(t, total, order.Total)
	assert.Equal(t, money.Money(0), order.ChangeDue)
}

func TestProcessPaymentChangeCalculation(t *testing.T) {
	e := openEngine(t)
	// Cart total $23.40: subtotal 20.71 + 13% tax 2.69
	require.NoError(t, e.AddItem(&catalog.Product{ID: 9, SKU: "T", Name: "T", SellPrice: 2071}, 1))
	require.Equal(t, money.Money(2340), e.Totals().Total)

	order, err := e.ProcessPayment(PaymentMethodCash, money.FromFloat(30), "")
	require.NoError(t, err)
	assert.Equal(t, money.Money(960), order.ChangeDue)
	assert.Equal(t, "9.60", order.ChangeDue.String())
}

func TestProcessPaymentEmptyCart(t *testing.T) {
	e := openEngine(t)

	order, err := e.ProcessPayment(PaymentMethodCash, 1000, "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, order)
}

func TestProcessPaymentInvalidMethod(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 1))

	_, err := e.ProcessPayment(PaymentMethod("cheque"), 10000, "")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	assert.Len(t, e.Cart().Lines, 1)
}

func TestProcessPaymentIdempotencyKey(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 1))

	first, err := e.ProcessPayment(PaymentMethodCard, 0, "key-1")
	require.NoError(t, err)

	// A retry with the same key returns the cached order, even though
	// the cart is now empty, and settles nothing new
	replay, err := e.ProcessPayment(PaymentMethodCard, 0, "key-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, replay.ID)
	assert.Len(t, e.Orders(), 1)
}

func TestOrderNumberSequence(t *testing.T) {
	e := openEngine(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, e.AddItem(amoxicillin, 1))
		_, err := e.ProcessPayment(PaymentMethodCard, 0, "")
		require.NoError(t, err)
	}

	orders := e.Orders()
	require.Len(t, orders, 3)
	assert.Regexp(t, `^POS-\d{8}-0001$`, orders[0].OrderNumber)
	assert.Regexp(t, `^POS-\d{8}-0002$`, orders[1].OrderNumber)
	assert.Regexp(t, `^POS-\d{8}-0003$`, orders[2].OrderNumber)
}

func TestOrderSnapshotIsImmutable(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 2))

	order, err := e.ProcessPayment(PaymentMethodCard, 0, "")
	require.NoError(t, err)

	// Later cart activity does not alter the settled order
	require.NoError(t, e.AddItem(vitaminD, 5))
	stored, err := e.Order(order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, 2, stored.Lines[0].Quantity)
	assert.Equal(t, order.Total, stored.Total)
}

func TestOrderLogUnaffectedByWritesToSnapshots(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 2))

	settled, err := e.ProcessPayment(PaymentMethodCard, 0, "")
	require.NoError(t, err)

	// Writing through any returned snapshot must not reach the log
	settled.Lines[0].Quantity = 999

	fetched, err := e.Order(settled.ID)
	require.NoError(t, err)
	fetched.Lines[0].Quantity = 999

	listed := e.Orders()
	require.Len(t, listed, 1)
	listed[0].Lines[0].Quantity = 999

	refunded, err := e.Refund(settled.ID)
	require.NoError(t, err)
	refunded.Lines[0].Quantity = 999

	stored, err := e.Order(settled.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, 2, stored.Lines[0].Quantity)
}

func TestRefundIsOneWay(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 1))
	order, err := e.ProcessPayment(PaymentMethodCash, 10000, "")
	require.NoError(t, err)

	refunded, err := e.Refund(order.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusRefunded, refunded.Status)

	// A second refund fails rather than silently succeeding
	_, err = e.Refund(order.ID)
	assert.ErrorIs(t, err, ErrInvalidOrderState)
}

func TestRefundUnknownOrder(t *testing.T) {
	e := openEngine(t)

	_, err := e.Refund("missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestVoidIsOneWay(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 1))
	order, err := e.ProcessPayment(PaymentMethodCard, 0, "")
	require.NoError(t, err)

	voided, err := e.Void(order.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusVoided, voided.Status)

	_, err = e.Refund(order.ID)
	assert.ErrorIs(t, err, ErrInvalidOrderState)
}

func TestSessionResetIsolation(t *testing.T) {
	e := openEngine(t)
	first := e.ActiveSession()
	require.NoError(t, e.AddItem(amoxicillin, 2))
	_, err := e.ProcessPayment(PaymentMethodCard, 0, "")
	require.NoError(t, err)
	require.NoError(t, e.AddItem(vitaminD, 1))

	// Opening a new session is a fresh till
	second := e.OpenSession("c2", "Carol", "front", money.FromFloat(150))
	assert.NotEqual(t, first.ID, second.ID)
	assert.Empty(t, e.Cart().Lines)
	assert.Empty(t, e.Orders())

	// Numbering restarts with the session
	require.NoError(t, e.AddItem(ibuprofen, 1))
	order, err := e.ProcessPayment(PaymentMethodCard, 0, "")
	require.NoError(t, err)
	assert.Regexp(t, `-0001$`, order.OrderNumber)
}

func TestFailedCallsLeaveStateUntouched(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.AddItem(amoxicillin, 2))
	before := e.Cart()

	_ = e.AddItem(vitaminD, 0)
	_, _ = e.ProcessPayment(PaymentMethodCash, 1, "")
	_, _ = e.Refund("missing")

	assert.Equal(t, before, e.Cart())
	assert.Empty(t, e.Orders())
}
