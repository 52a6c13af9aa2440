package orders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore reads orders from the customer_orders table.
type PostgresStore struct {
	db pgxQuerier
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore initializes a store backed by a pgx pool (or anything
// with the same Query/Exec surface).
func NewPostgresStore(db pgxQuerier) *PostgresStore {
	if db == nil {
		panic("orders: pgx pool required")
	}
	return &PostgresStore{db: db}
}

// LookupOrders returns the customer's orders oldest first.
func (s *PostgresStore) LookupOrders(ctx context.Context, firstName, lastName string) ([]Record, error) {
	if err := validateName(firstName, lastName); err != nil {
		return nil, err
	}

	query := `
		SELECT order_id, first_name, last_name, product, quantity,
		       to_char(order_date, 'YYYY-MM-DD'), total_price::float8
		FROM customer_orders
		WHERE first_name = $1 AND last_name = $2
		ORDER BY order_date ASC, order_id ASC
	`
	rows, err := s.db.Query(ctx, query, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("orders: query failed: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.OrderID,
			&rec.FirstName,
			&rec.LastName,
			&rec.Product,
			&rec.Quantity,
			&rec.OrderDate,
			&rec.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("orders: scan failed: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders: rows: %w", err)
	}
	return records, nil
}

// Insert stores a new order. Existing order ids are left untouched.
func (s *PostgresStore) Insert(ctx context.Context, rec Record) error {
	if err := validateName(rec.FirstName, rec.LastName); err != nil {
		return err
	}
	if rec.Quantity <= 0 {
		return fmt.Errorf("orders: quantity must be positive")
	}
	if rec.TotalPrice < 0 {
		return fmt.Errorf("orders: total price cannot be negative")
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO customer_orders (order_id, first_name, last_name, product, quantity, order_date, total_price)
		VALUES ($1, $2, $3, $4, $5, to_date($6, 'YYYY-MM-DD'), $7)
		ON CONFLICT (order_id) DO NOTHING
	`, rec.OrderID, rec.FirstName, rec.LastName, rec.Product, rec.Quantity, rec.OrderDate, rec.TotalPrice)
	if err != nil {
		return fmt.Errorf("orders: insert failed: %w", err)
	}
	return nil
}
