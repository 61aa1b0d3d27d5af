package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storecraft/sales-order-service/internal/order/domain"
	"github.com/storecraft/sales-order-service/pkg/tracing"
)

type OrderRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewOrderRepository(log *slog.Logger, pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{log: log, pool: pool}
}

// Create persists the assembled order and its OrderCreated outbox row in
// one transaction. Id and timestamp are assigned here.
func (r *OrderRepository) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()

	_, err = tx.Exec(ctx, `INSERT INTO orders (id, customer_id, total, created_at) VALUES ($1,$2,$3,$4)`,
		o.ID, o.CustomerID, o.Total, o.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for i, ln := range o.Lines {
		batch.Queue(`INSERT INTO order_items (order_id, position, product_id, quantity, unit_price) VALUES ($1,$2,$3,$4,$5)`,
			o.ID, i, ln.ProductID, ln.Quantity, ln.UnitPrice)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return domain.Order{}, fmt.Errorf("insert order items: %w", err)
	}

	payload, err := json.Marshal(domain.NewOrderCreated(o))
	if err != nil {
		return domain.Order{}, fmt.Errorf("marshal order created event: %w", err)
	}
	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status) VALUES ($1,$2,$3,$4,$5,'pending')`,
		"order", o.ID, domain.EventOrderCreated, payload, tracing.Traceparent(ctx))
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert outbox row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `SELECT id, customer_id, total, created_at FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.CustomerID, &o.Total, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	rows, err := r.pool.Query(ctx, `SELECT product_id, quantity, unit_price FROM order_items WHERE order_id=$1 ORDER BY position`, id)
	if err != nil {
		return domain.Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var ln domain.OrderLine
		if err := rows.Scan(&ln.ProductID, &ln.Quantity, &ln.UnitPrice); err != nil {
			return domain.Order{}, err
		}
		o.Lines = append(o.Lines, ln)
	}
	return o, rows.Err()
}
