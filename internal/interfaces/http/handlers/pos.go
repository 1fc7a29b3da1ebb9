// internal/interfaces/http/handlers/pos.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/pos"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"github.com/your-org/pos-backend/internal/pkg/pdf"
)

// POSHandler handles register endpoints
type POSHandler struct {
	posService *pos.Service
	pdfService *pdf.Service
	config     *config.Config
}

// NewPOSHandler creates a new POS handler
func NewPOSHandler(posService *pos.Service, cfg *config.Config) *POSHandler {
	return &POSHandler{
		posService: posService,
		pdfService: pdf.NewService(cfg),
		config:     cfg,
	}
}

// register resolves the register name from the X-Register header,
// falling back to the configured default
func (h *POSHandler) register(c *gin.Context) string {
	if register := c.GetHeader("X-Register"); register != "" {
		return register
	}
	return h.config.POS.DefaultRegister
}

// respondError maps register errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pos.ErrNoActiveSession):
		c.JSON(http.StatusConflict, gin.H{"error": "No active register session"})
	case errors.Is(err, pos.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
	case errors.Is(err, pos.ErrInsufficientPayment):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, pos.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, pos.ErrInvalidPaymentMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, pos.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, pos.ErrInvalidOrderState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// Session endpoints

// OpenSession handles POST /pos/sessions
func (h *POSHandler) OpenSession(c *gin.Context) {
	cashierID, _ := middleware.GetCashierIDFromContext(c)
	cashierName, _ := middleware.GetCashierNameFromContext(c)

	var req pos.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session := h.posService.OpenSession(h.register(c), cashierID, cashierName, req.OpeningBalance)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Session opened successfully",
		"data":    session,
	})
}

// CloseSession handles POST /pos/sessions/close
func (h *POSHandler) CloseSession(c *gin.Context) {
	var req pos.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session, err := h.posService.CloseSession(h.register(c), req.ClosingBalance)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session closed successfully",
		"data":    session,
	})
}

// GetSession handles GET /pos/session
func (h *POSHandler) GetSession(c *gin.Context) {
	session := h.posService.ActiveSession(h.register(c))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No session on this register",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session retrieved successfully",
		"data":    session,
	})
}

// Cart endpoints

// GetCart handles GET /pos/cart
func (h *POSHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.posService.Cart(h.register(c)),
	})
}

// AddItem handles POST /pos/cart/items
func (h *POSHandler) AddItem(c *gin.Context) {
	var req pos.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cart, err := h.posService.AddItem(h.register(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cart,
	})
}

// UpdateLine handles PUT /pos/cart/items/:id
func (h *POSHandler) UpdateLine(c *gin.Context) {
	var req pos.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cart, err := h.posService.SetQuantity(h.register(c), c.Param("id"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cart,
	})
}

// RemoveLine handles DELETE /pos/cart/items/:id
func (h *POSHandler) RemoveLine(c *gin.Context) {
	cart, err := h.posService.RemoveItem(h.register(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed successfully",
		"data":    cart,
	})
}

// ApplyDiscount handles PUT /pos/cart/items/:id/discount
func (h *POSHandler) ApplyDiscount(c *gin.Context) {
	var req pos.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cart, err := h.posService.ApplyDiscount(h.register(c), c.Param("id"), req.Percent)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Discount applied successfully",
		"data":    cart,
	})
}

// SetCustomer handles PUT /pos/cart/customer
func (h *POSHandler) SetCustomer(c *gin.Context) {
	var req pos.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cart, err := h.posService.SetCustomer(h.register(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customer updated successfully",
		"data":    cart,
	})
}

// ClearCart handles DELETE /pos/cart
func (h *POSHandler) ClearCart(c *gin.Context) {
	cart, err := h.posService.ClearCart(h.register(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    cart,
	})
}

// Settlement and history endpoints

// ProcessPayment handles POST /pos/payments
func (h *POSHandler) ProcessPayment(c *gin.Context) {
	var req pos.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := h.posService.ProcessPayment(h.register(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment processed successfully",
		"data":    order,
	})
}

// GetOrders handles GET /pos/orders
func (h *POSHandler) GetOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    h.posService.Orders(h.register(c)),
	})
}

// GetOrder handles GET /pos/orders/:id
func (h *POSHandler) GetOrder(c *gin.Context) {
	order, err := h.posService.Order(h.register(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    order,
	})
}

// RefundOrder handles POST /pos/orders/:id/refund
func (h *POSHandler) RefundOrder(c *gin.Context) {
	order, err := h.posService.Refund(h.register(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order refunded successfully",
		"data":    order,
	})
}

// VoidOrder handles POST /pos/orders/:id/void
func (h *POSHandler) VoidOrder(c *gin.Context) {
	order, err := h.posService.Void(h.register(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order voided successfully",
		"data":    order,
	})
}

// GetReceipt handles GET /pos/orders/:id/receipt
func (h *POSHandler) GetReceipt(c *gin.Context) {
	order, err := h.posService.Order(h.register(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	receipt, err := h.pdfService.GenerateReceipt(order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=receipt-"+order.OrderNumber+".pdf")
	c.Data(http.StatusOK, "application/pdf", receipt.Bytes())
}
