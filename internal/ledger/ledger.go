// Package ledger keeps a local record of orders created from the CLI.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/garrettladley/revhook/internal/migrations"
)

var ErrNotFound = errors.New("order not found")

type Order struct {
	ID          string
	Token       string
	State       string
	Amount      int64
	Currency    string
	Description string
	CheckoutURL string
	CreatedAt   time.Time
}

type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at path and applies
// pending migrations.
func Open(ctx context.Context, path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate ledger: %w", err)
	}

	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Insert records an order. Re-inserting the same ID updates its state.
func (l *Ledger) Insert(ctx context.Context, o Order) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO orders (id, token, state, amount, currency, description, checkout_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET state = excluded.state`,
		o.ID, o.Token, o.State, o.Amount, o.Currency, o.Description, o.CheckoutURL, o.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", o.ID, err)
	}
	return nil
}

func (l *Ledger) Get(ctx context.Context, id string) (Order, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, token, state, amount, currency, description, checkout_url, created_at
		FROM orders WHERE id = ?`, id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return o, nil
}

// List returns the most recent orders first.
func (l *Ledger) List(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, token, state, amount, currency, description, checkout_url, created_at
		FROM orders ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (Order, error) {
	var o Order
	err := s.Scan(&o.ID, &o.Token, &o.State, &o.Amount, &o.Currency, &o.Description, &o.CheckoutURL, &o.CreatedAt)
	return o, err
}
