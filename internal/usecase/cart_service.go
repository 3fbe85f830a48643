package usecase

import (
	"context"
	"log"
	"time"

	"github.com/ventabot/backend/internal/domain"
)

// CartServiceConfig holds configuration for the cart service
type CartServiceConfig struct {
	TTL      time.Duration
	Currency string
}

// CartService owns session cart mutations on top of a CartStore.
type CartService struct {
	store    domain.CartStore
	ttl      time.Duration
	currency string
}

// NewCartService creates a cart service with the given store and config.
func NewCartService(store domain.CartStore, config CartServiceConfig) *CartService {
	ttl := config.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	currency := config.Currency
	if currency == "" {
		currency = "COP"
	}
	return &CartService{store: store, ttl: ttl, currency: currency}
}

// sessionKey guards against empty session ids from anonymous channels.
func sessionKey(sessionID string) string {
	if sessionID == "" {
		return "anon-session"
	}
	return sessionID
}

// Add inserts an item, merging quantities when the SKU is already present.
func (s *CartService) Add(ctx context.Context, sessionID string, item domain.CartItem) (*domain.Cart, error) {
	sessionID = sessionKey(sessionID)
	cart, err := s.store.GetOrCreate(ctx, sessionID, s.currency)
	if err != nil {
		return nil, err
	}

	if existing, ok := cart.Items[item.SKU]; ok {
		existing.Qty += item.Qty
		existing.UnitPrice = item.UnitPrice
		existing.Discount = item.Discount
		existing.UpdatedAt = time.Now()
		cart.Items[item.SKU] = existing
	} else {
		item.UpdatedAt = time.Now()
		if item.Currency == "" {
			item.Currency = s.currency
		}
		cart.Items[item.SKU] = item
	}

	cart.LastAction = &domain.LastAction{
		Action:    "add",
		SKU:       item.SKU,
		Name:      item.Name,
		Qty:       item.Qty,
		Timestamp: time.Now(),
	}

	if err := s.store.Save(ctx, cart, s.ttl); err != nil {
		return nil, err
	}
	log.Printf("[CART] added %dx %s to session %s", item.Qty, item.SKU, sessionID)
	return cart, nil
}

// UpdateQty sets an item quantity; zero or negative removes the item.
func (s *CartService) UpdateQty(ctx context.Context, sessionID, sku string, qty int) (*domain.Cart, error) {
	sessionID = sessionKey(sessionID)
	cart, err := s.store.GetOrCreate(ctx, sessionID, s.currency)
	if err != nil {
		return nil, err
	}

	if qty <= 0 {
		delete(cart.Items, sku)
	} else if item, ok := cart.Items[sku]; ok {
		item.Qty = qty
		item.UpdatedAt = time.Now()
		cart.Items[sku] = item
	}

	if err := s.store.Save(ctx, cart, s.ttl); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove deletes qty units of an item; a nil/omitted quantity (qty <= 0)
// or a quantity at or above the stored count removes the whole line.
func (s *CartService) Remove(ctx context.Context, sessionID, sku string, qty int) (*domain.Cart, error) {
	sessionID = sessionKey(sessionID)
	cart, err := s.store.GetOrCreate(ctx, sessionID, s.currency)
	if err != nil {
		return nil, err
	}

	item, ok := cart.Items[sku]
	if !ok {
		cart.LastAction = &domain.LastAction{
			Action:    "remove_missing",
			SKU:       sku,
			Timestamp: time.Now(),
		}
		if err := s.store.Save(ctx, cart, s.ttl); err != nil {
			return nil, err
		}
		return cart, nil
	}

	removed := item.Qty
	if qty > 0 && qty < item.Qty {
		removed = qty
		item.Qty -= qty
		item.UpdatedAt = time.Now()
		cart.Items[sku] = item
	} else {
		delete(cart.Items, sku)
	}

	cart.LastAction = &domain.LastAction{
		Action:    "remove",
		SKU:       sku,
		Name:      item.Name,
		Qty:       removed,
		Timestamp: time.Now(),
	}

	if err := s.store.Save(ctx, cart, s.ttl); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear drops the session cart and starts a fresh one.
func (s *CartService) Clear(ctx context.Context, sessionID string) (*domain.Cart, error) {
	sessionID = sessionKey(sessionID)
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return nil, err
	}
	cart, err := s.store.GetOrCreate(ctx, sessionID, s.currency)
	if err != nil {
		return nil, err
	}
	cart.LastAction = &domain.LastAction{Action: "clear", Timestamp: time.Now()}
	if err := s.store.Save(ctx, cart, s.ttl); err != nil {
		return nil, err
	}
	return cart, nil
}

// Show returns the current cart for a session.
func (s *CartService) Show(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.store.GetOrCreate(ctx, sessionKey(sessionID), s.currency)
}
