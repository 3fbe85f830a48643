package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ventabot/backend/internal/domain"
	"github.com/ventabot/backend/internal/infrastructure/history"
	"github.com/ventabot/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	chat      *usecase.ChatService
	carts     *usecase.CartService
	resolver  *usecase.Resolver
	extractor *usecase.Extractor
	orders    domain.OrderRepository
	history   *history.InteractionLog
}

// NewHandler creates a new HTTP handler. history may be nil to disable
// interaction logging.
func NewHandler(chat *usecase.ChatService, carts *usecase.CartService, resolver *usecase.Resolver, extractor *usecase.Extractor, orders domain.OrderRepository, interactions *history.InteractionLog) *Handler {
	return &Handler{
		chat:      chat,
		carts:     carts,
		resolver:  resolver,
		extractor: extractor,
		orders:    orders,
		history:   interactions,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ventabot-backend",
		"version": "1.0.0",
	})
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message" binding:"required"`
	Channel   string `json:"channel"`
}

// Chat answers one conversational turn. A missing session id starts a new
// anonymous session whose id is echoed back for the client to reuse.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := h.chat.Handle(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process message"})
		return
	}

	if h.history != nil {
		logErr := h.history.Append(history.Record{
			SessionID: req.SessionID,
			Channel:   req.Channel,
			Cliente:   req.Message,
			Agente:    reply.AgentResponse,
		})
		if logErr != nil {
			log.Printf("[HISTORY] failed to log interaction: %v", logErr)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": req.SessionID,
		"reply":     reply,
	})
}

type resolveRequest struct {
	Message string `json:"message" binding:"required"`
}

// ResolveProduct exposes the single-product resolver.
func (h *Handler) ResolveProduct(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	match, err := h.resolver.Resolve(req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, domain.ErrLowConfidence) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolution failed"})
		return
	}
	c.JSON(http.StatusOK, match)
}

// ExtractItems exposes the multi-product extractor.
func (h *Handler) ExtractItems(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	items := h.extractor.Extract(req.Message)
	if items == nil {
		items = []domain.ExtractedItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetCart returns the session cart.
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.Show(c.Request.Context(), c.Param("session"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart empties the session cart.
func (h *Handler) ClearCart(c *gin.Context) {
	cart, err := h.carts.Clear(c.Request.Context(), c.Param("session"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

type checkoutRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
}

// Checkout converts the session cart into a persisted order and empties
// the cart.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId and userId are required"})
		return
	}

	cart, err := h.carts.Show(c.Request.Context(), req.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}
	if len(cart.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	order := &domain.Order{UserID: req.UserID, Total: cart.Total()}
	for _, item := range cart.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductName: item.Name,
			Quantity:    item.Qty,
			UnitPrice:   item.UnitPrice - item.Discount,
		})
	}

	created, err := h.orders.Create(c.Request.Context(), order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create order"})
		return
	}

	// Order exists either way; a stale cart is recoverable
	h.carts.Clear(c.Request.Context(), req.SessionID) //nolint:errcheck
	c.JSON(http.StatusCreated, created)
}

// GetOrder returns one order by serial.
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetBySerial(c.Request.Context(), c.Param("serial"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListOrders returns a user's recent orders.
func (h *Handler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	orders, err := h.orders.ListByUser(c.Request.Context(), c.Param("user"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus transitions an order's lifecycle state.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	switch req.Status {
	case domain.OrderStatusPending, domain.OrderStatusConfirmed, domain.OrderStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), c.Param("serial"), req.Status); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"serial": c.Param("serial"), "status": req.Status})
}

// TopProducts returns the best-sellers report.
func (h *Handler) TopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	top, err := h.orders.TopProducts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build report"})
		return
	}
	if top == nil {
		top = []domain.TopProduct{}
	}
	c.JSON(http.StatusOK, gin.H{"topProducts": top})
}

// SalesByDay returns the daily sales report.
func (h *Handler) SalesByDay(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	sales, err := h.orders.SalesByDay(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build report"})
		return
	}
	if sales == nil {
		sales = []domain.DailySales{}
	}
	c.JSON(http.StatusOK, gin.H{"salesByDay": sales})
}
