// Package sqlite implements store.Store on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ecowallet/internal/core"
	"ecowallet/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection serialises writers; SQLite allows only one anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const transactionColumns = `id, title, category, amount, date, type, icon, created_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t            core.Transaction
		amount, date string
		txType, icon string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Category, &amount, &date, &txType, &icon, &t.CreatedBy); err != nil {
		return core.Transaction{}, err
	}
	var err error
	if t.Amount, err = parseAmount(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s amount: %w", t.ID, err)
	}
	if t.Date, err = parseTime(date); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s date: %w", t.ID, err)
	}
	t.Type = core.TransactionType(txType)
	t.Icon = core.Icon(icon)
	return t, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Category, t.Amount.String(), formatTime(t.Date), string(t.Type), string(t.Icon), t.CreatedBy)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite", "id", t.ID, "type", t.Type, "amount", t.Amount.String())
	return t, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, id string, p core.TransactionPatch) (core.Transaction, error) {
	var updated core.Transaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := scanTransaction(tx.QueryRowContext(ctx,
			`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("load transaction: %w", err)
		}

		updated = p.Apply(current)
		_, err = tx.ExecContext(ctx,
			`UPDATE transactions SET title = ?, category = ?, amount = ?, date = ?, type = ?, icon = ? WHERE id = ?`,
			updated.Title, updated.Category, updated.Amount.String(), formatTime(updated.Date),
			string(updated.Type), string(updated.Icon), id)
		if err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		return nil
	})
	return updated, err
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "transactions", "transaction", id)
}

const shoppingColumns = `id, name, quantity, category, is_purchased, added_by, bought_by, created_at`

func scanShoppingItem(row rowScanner) (core.ShoppingItem, error) {
	var (
		i         core.ShoppingItem
		createdAt string
	)
	if err := row.Scan(&i.ID, &i.Name, &i.Quantity, &i.Category, &i.IsPurchased, &i.AddedBy, &i.BoughtBy, &createdAt); err != nil {
		return core.ShoppingItem{}, err
	}
	var err error
	if i.CreatedAt, err = parseTime(createdAt); err != nil {
		return core.ShoppingItem{}, fmt.Errorf("shopping item %s created_at: %w", i.ID, err)
	}
	return i, nil
}

func (s *Store) ListShoppingItems(ctx context.Context) ([]core.ShoppingItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+shoppingColumns+` FROM shopping_items ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query shopping items: %w", err)
	}
	defer rows.Close()

	out := []core.ShoppingItem{}
	for rows.Next() {
		i, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *Store) AddShoppingItem(ctx context.Context, i core.ShoppingItem) (core.ShoppingItem, error) {
	i.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shopping_items (`+shoppingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.Name, i.Quantity, i.Category, i.IsPurchased, i.AddedBy, i.BoughtBy, formatTime(i.CreatedAt))
	if err != nil {
		return core.ShoppingItem{}, fmt.Errorf("insert shopping item: %w", err)
	}
	return i, nil
}

func (s *Store) UpdateShoppingItem(ctx context.Context, id string, p core.ShoppingPatch) (core.ShoppingItem, error) {
	var updated core.ShoppingItem
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := scanShoppingItem(tx.QueryRowContext(ctx,
			`SELECT `+shoppingColumns+` FROM shopping_items WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("shopping item %s: %w", id, store.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("load shopping item: %w", err)
		}

		updated = p.Apply(current)
		_, err = tx.ExecContext(ctx,
			`UPDATE shopping_items SET name = ?, quantity = ?, category = ?, is_purchased = ?, bought_by = ? WHERE id = ?`,
			updated.Name, updated.Quantity, updated.Category, updated.IsPurchased, updated.BoughtBy, id)
		if err != nil {
			return fmt.Errorf("update shopping item: %w", err)
		}
		return nil
	})
	return updated, err
}

func (s *Store) DeleteShoppingItem(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "shopping_items", "shopping item", id)
}

// ClearPurchased deletes purchased rows in one statement, which SQLite runs
// as a single implicit transaction.
func (s *Store) ClearPurchased(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shopping_items WHERE is_purchased = 1`)
	if err != nil {
		return 0, fmt.Errorf("clear purchased items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func (s *Store) ListPurchasedIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM shopping_items WHERE is_purchased = 1`)
	if err != nil {
		return nil, fmt.Errorf("query purchased items: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan purchased id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) DeleteShoppingItems(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	var removed int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM shopping_items WHERE id IN (`+placeholders+`)`, args...)
		if err != nil {
			return fmt.Errorf("batch delete shopping items: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		removed = int(n)
		return nil
	})
	return removed, err
}

func (s *Store) GetIncome(ctx context.Context, month core.MonthID) (core.MonthlyIncome, error) {
	var (
		amount    string
		updatedAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT amount, updated_at FROM monthly_incomes WHERE id = ?`, string(month)).Scan(&amount, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MonthlyIncome{}, fmt.Errorf("income %s: %w", month, store.ErrNotFound)
	}
	if err != nil {
		return core.MonthlyIncome{}, fmt.Errorf("query income: %w", err)
	}

	in := core.MonthlyIncome{ID: month}
	if in.Amount, err = parseAmount(amount); err != nil {
		return core.MonthlyIncome{}, fmt.Errorf("income %s amount: %w", month, err)
	}
	if updatedAt.Valid && updatedAt.String != "" {
		t, err := parseTime(updatedAt.String)
		if err != nil {
			return core.MonthlyIncome{}, fmt.Errorf("income %s updated_at: %w", month, err)
		}
		in.UpdatedAt = &t
	}
	return in, nil
}

// SetIncome upserts the amount; updated_at keeps its previous value when the
// caller does not supply one.
func (s *Store) SetIncome(ctx context.Context, in core.MonthlyIncome) (core.MonthlyIncome, error) {
	var updatedAt sql.NullString
	if in.UpdatedAt != nil {
		updatedAt = sql.NullString{String: formatTime(*in.UpdatedAt), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monthly_incomes (id, amount, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount = excluded.amount,
			updated_at = COALESCE(excluded.updated_at, monthly_incomes.updated_at)`,
		string(in.ID), in.Amount.String(), updatedAt)
	if err != nil {
		return core.MonthlyIncome{}, fmt.Errorf("upsert income: %w", err)
	}
	return s.GetIncome(ctx, in.ID)
}

func (s *Store) deleteByID(ctx context.Context, table, kind, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func parseAmount(s string) (core.Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return core.Amount{}, err
	}
	return core.AmountFromDecimal(d), nil
}
