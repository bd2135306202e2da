package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tome-treasures/order-service/internal/models"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresOrderRepository implements OrderRepository on PostgreSQL.
// Insert-if-absent relies on the unique index on orders.order_number via
// ON CONFLICT DO NOTHING, so concurrent inserts of the same number cannot
// both succeed.
type PostgresOrderRepository struct {
	db *sql.DB
}

// NewPostgresOrderRepository creates a Postgres-backed order repository.
func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

var _ OrderRepository = (*PostgresOrderRepository)(nil)

// ConnectDB opens a Postgres connection and waits for it to become
// reachable, retrying with a fixed delay. Startup ordering with the
// database container is not guaranteed in deployment.
func ConnectDB(ctx context.Context, dsn string) (*sql.DB, error) {
	const (
		maxRetries = 10
		retryDelay = 2 * time.Second
		pingTTL    = 5 * time.Second
	)

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		pctx, cancel := context.WithTimeout(ctx, pingTTL)
		err = db.PingContext(pctx)
		cancel()
		if err == nil {
			return db, nil
		}
		lastErr = err
		_ = db.Close()

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("database connect canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, lastErr)
}

// Insert stores the order and its lines in one transaction.
func (r *PostgresOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders
		    (order_number, first_name, last_name, email, address, city, postcode, phone, created_at)
		VALUES
		    ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (order_number) DO NOTHING
		RETURNING id
	`,
		order.OrderNumber,
		order.FirstName,
		order.LastName,
		order.Email,
		order.Address,
		order.City,
		order.Postcode,
		order.Phone,
	).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		// The conflict target matched: the number is already taken.
		err = ErrDuplicateOrderNumber
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range order.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, item_code, product_name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`, orderID, line.ItemCode, line.ProductName, line.UnitPrice, line.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert order line %s: %w", line.ItemCode, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ExistsByNumber reports whether an order exists under the given number.
func (r *PostgresOrderRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check order number: %w", err)
	}
	return exists, nil
}

// GetByNumber returns the order stored under the given number.
func (r *PostgresOrderRepository) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, order_number, first_name, last_name, email, address, city, postcode, phone
		FROM orders
		WHERE order_number = $1
	`, number)

	var id int64
	var order models.Order
	err := row.Scan(&id, &order.OrderNumber, &order.FirstName, &order.LastName,
		&order.Email, &order.Address, &order.City, &order.Postcode, &order.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	order.Lines, err = r.linesForOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByEmail returns all orders placed with the given customer email.
func (r *PostgresOrderRepository) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	return r.list(ctx, `
		SELECT id, order_number, first_name, last_name, email, address, city, postcode, phone
		FROM orders
		WHERE email = $1
		ORDER BY id
	`, email)
}

// ListAll returns every stored order.
func (r *PostgresOrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, `
		SELECT id, order_number, first_name, last_name, email, address, city, postcode, phone
		FROM orders
		ORDER BY id
	`)
}

func (r *PostgresOrderRepository) list(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	type orderWithID struct {
		id    int64
		order models.Order
	}

	found := make([]orderWithID, 0)
	for rows.Next() {
		var o orderWithID
		if err := rows.Scan(&o.id, &o.order.OrderNumber, &o.order.FirstName, &o.order.LastName,
			&o.order.Email, &o.order.Address, &o.order.City, &o.order.Postcode, &o.order.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		found = append(found, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	orders := make([]models.Order, 0, len(found))
	for _, o := range found {
		lines, err := r.linesForOrder(ctx, o.id)
		if err != nil {
			return nil, err
		}
		o.order.Lines = lines
		orders = append(orders, o.order)
	}
	return orders, nil
}

func (r *PostgresOrderRepository) linesForOrder(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_code, product_name, unit_price, quantity
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]models.OrderLine, 0)
	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(&line.ItemCode, &line.ProductName, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order lines: %w", err)
	}
	return lines, nil
}
