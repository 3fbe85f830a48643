package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ventabot/backend/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     TEXT NOT NULL,
	serial      TEXT NOT NULL UNIQUE,
	items_json  TEXT NOT NULL,
	total       REAL NOT NULL,
	status      TEXT NOT NULL DEFAULT 'pending',
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_serial ON orders(serial);

CREATE TABLE IF NOT EXISTS order_items (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id     INTEGER NOT NULL REFERENCES orders(id),
	product_name TEXT NOT NULL,
	quantity     INTEGER NOT NULL,
	unit_price   REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
`

// OrderDB persists orders in SQLite and serves the reporting queries.
type OrderDB struct {
	db *sql.DB
}

// NewOrderDB opens (or creates) the SQLite database and applies the schema.
func NewOrderDB(path string) (*OrderDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening order db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying order schema: %w", err)
	}
	return &OrderDB{db: db}, nil
}

// Close releases the underlying database handle.
func (o *OrderDB) Close() error {
	return o.db.Close()
}

// Create inserts an order, assigning it the next daily serial
// (VB-YYYYMMDD-NNNN). Serial assignment and insert share one transaction so
// concurrent checkouts cannot collide.
func (o *OrderDB) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil || len(order.Items) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var todayCount int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE DATE(created_at) = DATE('now')`,
	).Scan(&todayCount); err != nil {
		return nil, err
	}
	serial := fmt.Sprintf("VB-%s-%04d", time.Now().UTC().Format("20060102"), todayCount+1)

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, err
	}

	status := order.Status
	if status == "" {
		status = domain.OrderStatusPending
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (user_id, serial, items_json, total, status) VALUES (?, ?, ?, ?, ?)`,
		order.UserID, serial, string(itemsJSON), order.Total, status,
	)
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_name, quantity, unit_price) VALUES (?, ?, ?, ?)`,
			orderID, item.ProductName, item.Quantity, item.UnitPrice,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := *order
	created.ID = orderID
	created.Serial = serial
	created.Status = status
	created.CreatedAt = time.Now().UTC()
	return &created, nil
}

// GetBySerial returns the order with the given serial.
func (o *OrderDB) GetBySerial(ctx context.Context, serial string) (*domain.Order, error) {
	row := o.db.QueryRowContext(ctx,
		`SELECT id, user_id, serial, items_json, total, status, created_at FROM orders WHERE serial = ?`,
		serial,
	)
	return scanOrder(row)
}

// ListByUser returns the most recent orders of a user.
func (o *OrderDB) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := o.db.QueryContext(ctx,
		`SELECT id, user_id, serial, items_json, total, status, created_at
		 FROM orders WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// UpdateStatus transitions an order's lifecycle state.
func (o *OrderDB) UpdateStatus(ctx context.Context, serial, status string) error {
	res, err := o.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE serial = ?`, status, serial)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// TopProducts returns the best-selling products by total quantity.
func (o *OrderDB) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := o.db.QueryContext(ctx,
		`SELECT product_name, SUM(quantity) AS total_qty, COUNT(DISTINCT order_id) AS orders
		 FROM order_items GROUP BY product_name ORDER BY total_qty DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TopProduct
	for rows.Next() {
		var tp domain.TopProduct
		if err := rows.Scan(&tp.ProductName, &tp.TotalQty, &tp.Orders); err != nil {
			return nil, err
		}
		result = append(result, tp)
	}
	return result, rows.Err()
}

// SalesByDay returns order counts and totals per day over the trailing window.
func (o *OrderDB) SalesByDay(ctx context.Context, days int) ([]domain.DailySales, error) {
	if days <= 0 {
		days = 30
	}
	rows, err := o.db.QueryContext(ctx,
		`SELECT DATE(created_at) AS day, COUNT(*) AS orders, SUM(total) AS total
		 FROM orders WHERE created_at >= DATE('now', ?)
		 GROUP BY day ORDER BY day DESC`,
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DailySales
	for rows.Next() {
		var ds domain.DailySales
		if err := rows.Scan(&ds.Day, &ds.Orders, &ds.Total); err != nil {
			return nil, err
		}
		result = append(result, ds)
	}
	return result, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON string
	err := row.Scan(&order.ID, &order.UserID, &order.Serial, &itemsJSON, &order.Total, &order.Status, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
		return nil, fmt.Errorf("decoding items of order %s: %w", order.Serial, err)
	}
	return &order, nil
}
