package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ventabot/backend/config"
	"github.com/ventabot/backend/internal/domain"
	"github.com/ventabot/backend/internal/infrastructure/cache"
	"github.com/ventabot/backend/internal/usecase"
)

// fakeOrderRepo is an in-memory OrderRepository for handler tests.
type fakeOrderRepo struct {
	orders map[string]*domain.Order
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil || len(order.Items) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	f.nextID++
	created := *order
	created.ID = f.nextID
	created.Serial = fmt.Sprintf("VB-TEST-%04d", f.nextID)
	if created.Status == "" {
		created.Status = domain.OrderStatusPending
	}
	created.CreatedAt = time.Now()
	f.orders[created.Serial] = &created
	return &created, nil
}

func (f *fakeOrderRepo) GetBySerial(_ context.Context, serial string) (*domain.Order, error) {
	order, ok := f.orders[serial]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.Order, error) {
	var orders []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, serial, status string) error {
	order, ok := f.orders[serial]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (f *fakeOrderRepo) TopProducts(_ context.Context, limit int) ([]domain.TopProduct, error) {
	return []domain.TopProduct{{ProductName: "Leche Entera", TotalQty: 13, Orders: 2}}, nil
}

func (f *fakeOrderRepo) SalesByDay(_ context.Context, days int) ([]domain.DailySales, error) {
	return []domain.DailySales{{Day: "2026-08-29", Orders: 2, Total: 32500}}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeOrderRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := []domain.CatalogEntry{
		{Name: "Leche Entera", PriceList: "2000", Format: "Bolsa 1L", DiscountClause: "10% a partir de 10 unidades"},
		{Name: "Queso Campesino", PriceList: "8500", Format: "Bloque 500g"},
	}
	synonyms := domain.SynonymTable{
		{Canonical: "Leche Entera", Variants: []string{"leche", "lechita"}},
		{Canonical: "Queso Campesino", Variants: []string{"queso"}},
	}

	snap := usecase.NewSnapshot(catalog, synonyms)
	resolver := usecase.NewResolver(snap, usecase.ResolverConfig{})
	extractor := usecase.NewExtractor(snap, usecase.ExtractorConfig{})
	classifier := usecase.NewClassifier()
	carts := usecase.NewCartService(cache.NewMemoryCartStore(), usecase.CartServiceConfig{})
	chat := usecase.NewChatService(snap, resolver, extractor, classifier, carts, usecase.ChatServiceConfig{})

	repo := newFakeOrderRepo()
	handler := NewHandler(chat, carts, resolver, extractor, repo, nil)

	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Server.AllowedOrigins = []string{"http://localhost:*"}

	return SetupRouter(cfg, handler), repo
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body) //nolint:errcheck
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", resp["status"])
	}
	if resp["service"] != "ventabot-backend" {
		t.Errorf("service = %q, want ventabot-backend", resp["service"])
	}
}

func TestChatEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("answers and assigns a session id", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/chat", map[string]string{"message": "hola"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
		}

		var resp struct {
			SessionID string `json:"sessionId"`
			Reply     struct {
				AgentResponse string `json:"agentResponse"`
			} `json:"reply"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if resp.SessionID == "" {
			t.Error("sessionId is empty, want a generated id")
		}
		if resp.Reply.AgentResponse == "" {
			t.Error("agentResponse is empty")
		}
	})

	t.Run("echoes the provided session id", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/chat", map[string]string{"sessionId": "s-42", "message": "hola"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp map[string]any
		json.Unmarshal(w.Body.Bytes(), &resp) //nolint:errcheck
		if resp["sessionId"] != "s-42" {
			t.Errorf("sessionId = %v, want s-42", resp["sessionId"])
		}
	})

	t.Run("missing message", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/chat", map[string]string{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestResolveEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("resolves a synonym", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/catalog/resolve", map[string]string{"message": "tienen lechita?"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
		}

		var match domain.ProductMatch
		if err := json.Unmarshal(w.Body.Bytes(), &match); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if match.Name != "Leche Entera" {
			t.Errorf("name = %q, want Leche Entera", match.Name)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/catalog/resolve", map[string]string{"message": "xyzzy"})
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("missing message", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/catalog/resolve", map[string]string{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestExtractEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("returns the extracted items", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/catalog/extract", map[string]string{"message": "2 leches y 1 queso"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var resp struct {
			Items []domain.ExtractedItem `json:"items"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(resp.Items) != 2 {
			t.Fatalf("items = %v, want 2", resp.Items)
		}
		if resp.Items[0].Name != "Leche Entera" || resp.Items[0].Quantity != 2 {
			t.Errorf("items[0] = %+v, want Leche Entera x2", resp.Items[0])
		}
	})

	t.Run("unrecognized message yields an empty list", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/catalog/extract", map[string]string{"message": "tornillos"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp struct {
			Items []domain.ExtractedItem `json:"items"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp) //nolint:errcheck
		if resp.Items == nil || len(resp.Items) != 0 {
			t.Errorf("items = %v, want empty array", resp.Items)
		}
	})
}

func TestCartAndCheckoutFlow(t *testing.T) {
	router, repo := newTestRouter(t)

	// Build a cart through the conversational endpoint
	w := doJSON(router, "POST", "/api/v1/chat", map[string]string{
		"sessionId": "s1",
		"message":   "envíame 2 leches y 1 queso",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("chat status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	t.Run("cart shows the added items", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/carts/s1", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var cart domain.Cart
		if err := json.Unmarshal(w.Body.Bytes(), &cart); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(cart.Items) != 2 {
			t.Fatalf("items = %v, want 2 lines", cart.Items)
		}
	})

	t.Run("checkout converts the cart into an order", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/orders", map[string]string{"sessionId": "s1", "userId": "u1"})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
		}

		var order domain.Order
		if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if order.Serial == "" {
			t.Error("serial is empty")
		}
		if len(order.Items) != 2 {
			t.Errorf("items = %v, want 2", order.Items)
		}
		if _, err := repo.GetBySerial(context.Background(), order.Serial); err != nil {
			t.Errorf("order not persisted: %v", err)
		}

		// The cart is emptied after checkout
		cw := doJSON(router, "GET", "/api/v1/carts/s1", nil)
		var cart domain.Cart
		json.Unmarshal(cw.Body.Bytes(), &cart) //nolint:errcheck
		if len(cart.Items) != 0 {
			t.Errorf("cart items = %v, want empty after checkout", cart.Items)
		}
	})

	t.Run("checkout with an empty cart", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/orders", map[string]string{"sessionId": "s-empty", "userId": "u1"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("checkout without user id", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/orders", map[string]string{"sessionId": "s1"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("clear cart endpoint", func(t *testing.T) {
		w := doJSON(router, "DELETE", "/api/v1/carts/s1", nil)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

func TestOrderEndpoints(t *testing.T) {
	router, repo := newTestRouter(t)

	created, err := repo.Create(context.Background(), &domain.Order{
		UserID: "u1",
		Items:  []domain.OrderItem{{ProductName: "Leche Entera", Quantity: 3, UnitPrice: 2000}},
		Total:  6000,
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("get by serial", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/orders/"+created.Serial, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var order domain.Order
		if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if order.UserID != "u1" {
			t.Errorf("userId = %q, want u1", order.UserID)
		}
	})

	t.Run("unknown serial", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/orders/VB-19700101-9999", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("list by user", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/users/u1/orders", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp struct {
			Orders []domain.Order `json:"orders"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(resp.Orders) != 1 {
			t.Errorf("orders = %v, want 1", resp.Orders)
		}
	})

	t.Run("update status", func(t *testing.T) {
		w := doJSON(router, "PATCH", "/api/v1/orders/"+created.Serial+"/status",
			map[string]string{"status": "confirmed"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
		}
		if got := repo.orders[created.Serial].Status; got != domain.OrderStatusConfirmed {
			t.Errorf("stored status = %q, want confirmed", got)
		}
	})

	t.Run("rejects unknown status value", func(t *testing.T) {
		w := doJSON(router, "PATCH", "/api/v1/orders/"+created.Serial+"/status",
			map[string]string{"status": "shipped"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestReportEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("top products", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/reports/top-products?limit=5", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp struct {
			TopProducts []domain.TopProduct `json:"topProducts"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(resp.TopProducts) != 1 || resp.TopProducts[0].ProductName != "Leche Entera" {
			t.Errorf("topProducts = %v, want Leche Entera row", resp.TopProducts)
		}
	})

	t.Run("sales by day", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/reports/sales-by-day?days=7", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp struct {
			SalesByDay []domain.DailySales `json:"salesByDay"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(resp.SalesByDay) != 1 {
			t.Errorf("salesByDay = %v, want 1 row", resp.SalesByDay)
		}
	})
}
