package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ventabot/backend/internal/domain"
)

// storedCart is one cart with its expiration
type storedCart struct {
	cart       domain.Cart
	expiration time.Time
}

// MemoryCartStore is a thread-safe in-memory cart store with TTL support.
// Carts are copied on the way in and out so callers never share state with
// the store.
type MemoryCartStore struct {
	data  map[string]storedCart
	mutex sync.RWMutex
}

// NewMemoryCartStore creates a new in-memory cart store and starts the
// expiry sweeper.
func NewMemoryCartStore() *MemoryCartStore {
	store := &MemoryCartStore{
		data: make(map[string]storedCart),
	}

	// Remove expired carts every 10 minutes
	go store.cleanupExpired()

	return store
}

// GetOrCreate returns the session cart, creating an empty one when the
// session has no cart or the stored one expired.
func (s *MemoryCartStore) GetOrCreate(ctx context.Context, sessionID, currency string) (*domain.Cart, error) {
	s.mutex.RLock()
	item, exists := s.data[sessionID]
	s.mutex.RUnlock()

	if exists && time.Now().Before(item.expiration) {
		cart := copyCart(item.cart)
		return &cart, nil
	}

	now := time.Now()
	return &domain.Cart{
		SessionID: sessionID,
		Items:     make(map[string]domain.CartItem),
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}, nil
}

// Save stores a cart copy with the given TTL and bumps its version.
func (s *MemoryCartStore) Save(ctx context.Context, cart *domain.Cart, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cart.UpdatedAt = time.Now()
	cart.Version++
	s.data[cart.SessionID] = storedCart{
		cart:       copyCart(*cart),
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// Clear removes the session cart.
func (s *MemoryCartStore) Clear(ctx context.Context, sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, sessionID)
	return nil
}

// Size returns the number of stored carts (for debugging/monitoring).
func (s *MemoryCartStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// cleanupExpired removes expired carts periodically.
func (s *MemoryCartStore) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		for key, item := range s.data {
			if now.After(item.expiration) {
				delete(s.data, key)
			}
		}
		s.mutex.Unlock()
	}
}

// copyCart deep-copies a cart so stored state is isolated from callers.
func copyCart(c domain.Cart) domain.Cart {
	items := make(map[string]domain.CartItem, len(c.Items))
	for k, v := range c.Items {
		items[k] = v
	}
	c.Items = items
	if c.LastAction != nil {
		action := *c.LastAction
		c.LastAction = &action
	}
	return c
}
