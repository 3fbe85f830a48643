package domain

import "time"

// Order is a confirmed purchase persisted to relational storage.
type Order struct {
	ID        int64       `json:"id"`
	UserID    string      `json:"userId"`
	Serial    string      `json:"serial"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// OrderItem is one product line of a confirmed order.
type OrderItem struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Order lifecycle states.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

// TopProduct is one row of the best-sellers report.
type TopProduct struct {
	ProductName string `json:"productName"`
	TotalQty    int    `json:"totalQty"`
	Orders      int    `json:"orders"`
}

// DailySales is one row of the sales-by-day report.
type DailySales struct {
	Day    string  `json:"day"`
	Orders int     `json:"orders"`
	Total  float64 `json:"total"`
}
