package domain

import (
	"context"
	"time"
)

// CartStore defines session cart persistence. Implementations own their
// locking; carts returned are copies safe to mutate before Save.
type CartStore interface {
	GetOrCreate(ctx context.Context, sessionID, currency string) (*Cart, error)
	Save(ctx context.Context, cart *Cart, ttl time.Duration) error
	Clear(ctx context.Context, sessionID string) error
}

// OrderRepository defines relational order persistence and reporting.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) (*Order, error)
	GetBySerial(ctx context.Context, serial string) (*Order, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Order, error)
	UpdateStatus(ctx context.Context, serial, status string) error

	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	SalesByDay(ctx context.Context, days int) ([]DailySales, error)
}
