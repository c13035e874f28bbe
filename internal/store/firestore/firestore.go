// Package firestore implements store.Store on Cloud Firestore, the document
// database the hosted deployment uses.
package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecowallet/internal/core"
	"ecowallet/internal/store"
)

const (
	transactionsCollection = "transactions"
	shoppingCollection     = "shopping"
	incomeCollection       = "income"

	// Firestore caps a write batch at 500 operations.
	maxBatchWrites = 500
)

var _ store.Store = (*Store)(nil)

type Store struct {
	client *firestore.Client
}

// Config selects the project and the service account to authenticate with.
// CredentialsJSON wins over CredentialsFile; with neither, application
// default credentials are used.
type Config struct {
	ProjectID       string
	CredentialsJSON []byte
	CredentialsFile string
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("missing Firestore project id")
	}

	var opts []option.ClientOption
	switch {
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	case cfg.CredentialsFile != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(b))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	slog.InfoContext(ctx, "Firestore client created", "project_id", cfg.ProjectID)
	return &Store{client: client}, nil
}

// ServiceAccountJSON assembles service account credentials from the discrete
// values hosting platforms expose as environment variables. Escaped newlines
// in the private key are restored.
func ServiceAccountJSON(projectID, clientEmail, privateKey string) ([]byte, error) {
	if projectID == "" || clientEmail == "" || privateKey == "" {
		return nil, errors.New("project id, client email and private key are all required")
	}
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   projectID,
		"client_email": clientEmail,
		"private_key":  strings.ReplaceAll(privateKey, `\n`, "\n"),
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	docs, err := s.client.Collection(transactionsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(docs))
	for _, snap := range docs {
		var d transactionDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode transaction %s: %w", snap.Ref.ID, err)
		}
		out = append(out, d.toCore(snap.Ref.ID))
	}
	return out, nil
}

func (s *Store) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	ref, _, err := s.client.Collection(transactionsCollection).Add(ctx, toTransactionDoc(t))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	t.ID = ref.ID
	return t, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, id string, p core.TransactionPatch) (core.Transaction, error) {
	ref := s.client.Collection(transactionsCollection).Doc(id)
	if ups := transactionUpdates(p); len(ups) > 0 {
		if _, err := ref.Update(ctx, ups); err != nil {
			return core.Transaction{}, wrapNotFound(err, "transaction", id)
		}
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return core.Transaction{}, wrapNotFound(err, "transaction", id)
	}
	var d transactionDoc
	if err := snap.DataTo(&d); err != nil {
		return core.Transaction{}, fmt.Errorf("decode transaction %s: %w", id, err)
	}
	return d.toCore(id), nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	_, err := s.client.Collection(transactionsCollection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		return wrapNotFound(err, "transaction", id)
	}
	return nil
}

func (s *Store) ListShoppingItems(ctx context.Context) ([]core.ShoppingItem, error) {
	docs, err := s.client.Collection(shoppingCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	out := make([]core.ShoppingItem, 0, len(docs))
	for _, snap := range docs {
		var d shoppingDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode shopping item %s: %w", snap.Ref.ID, err)
		}
		out = append(out, d.toCore(snap.Ref.ID))
	}
	return out, nil
}

func (s *Store) AddShoppingItem(ctx context.Context, i core.ShoppingItem) (core.ShoppingItem, error) {
	ref, _, err := s.client.Collection(shoppingCollection).Add(ctx, toShoppingDoc(i))
	if err != nil {
		return core.ShoppingItem{}, fmt.Errorf("add shopping item: %w", err)
	}
	i.ID = ref.ID
	return i, nil
}

func (s *Store) UpdateShoppingItem(ctx context.Context, id string, p core.ShoppingPatch) (core.ShoppingItem, error) {
	ref := s.client.Collection(shoppingCollection).Doc(id)
	if ups := shoppingUpdates(p); len(ups) > 0 {
		if _, err := ref.Update(ctx, ups); err != nil {
			return core.ShoppingItem{}, wrapNotFound(err, "shopping item", id)
		}
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return core.ShoppingItem{}, wrapNotFound(err, "shopping item", id)
	}
	var d shoppingDoc
	if err := snap.DataTo(&d); err != nil {
		return core.ShoppingItem{}, fmt.Errorf("decode shopping item %s: %w", id, err)
	}
	return d.toCore(id), nil
}

func (s *Store) DeleteShoppingItem(ctx context.Context, id string) error {
	_, err := s.client.Collection(shoppingCollection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		return wrapNotFound(err, "shopping item", id)
	}
	return nil
}

// ClearPurchased reads and deletes purchased items inside one Firestore
// transaction, so either every purchased item goes or none does.
func (s *Store) ClearPurchased(ctx context.Context) (int, error) {
	query := s.client.Collection(shoppingCollection).Where("isPurchased", "==", true)
	var count int
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(query).GetAll()
		if err != nil {
			return err
		}
		for _, snap := range docs {
			if err := tx.Delete(snap.Ref); err != nil {
				return err
			}
		}
		count = len(docs)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("clear purchased items: %w", err)
	}
	return count, nil
}

func (s *Store) ListPurchasedIDs(ctx context.Context) ([]string, error) {
	docs, err := s.client.Collection(shoppingCollection).Where("isPurchased", "==", true).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query purchased items: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, snap := range docs {
		ids = append(ids, snap.Ref.ID)
	}
	return ids, nil
}

// DeleteShoppingItems deletes ids in write batches of at most maxBatchWrites,
// each committed atomically. A list within that limit is removed all or
// nothing; on a failed commit the count covers earlier batches only.
func (s *Store) DeleteShoppingItems(ctx context.Context, ids []string) (int, error) {
	col := s.client.Collection(shoppingCollection)
	var removed int
	for _, chunk := range chunkIDs(ids, maxBatchWrites) {
		batch := s.client.Batch()
		for _, id := range chunk {
			batch.Delete(col.Doc(id))
		}
		if _, err := batch.Commit(ctx); err != nil {
			return removed, fmt.Errorf("delete %d shopping items: %w", len(chunk), err)
		}
		removed += len(chunk)
	}
	return removed, nil
}

// chunkIDs splits ids into consecutive slices of at most size entries.
func chunkIDs(ids []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	var chunks [][]string
	for len(ids) > size {
		chunks = append(chunks, ids[:size:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

func (s *Store) GetIncome(ctx context.Context, month core.MonthID) (core.MonthlyIncome, error) {
	snap, err := s.client.Collection(incomeCollection).Doc(string(month)).Get(ctx)
	if err != nil {
		return core.MonthlyIncome{}, wrapNotFound(err, "income", string(month))
	}
	var d incomeDoc
	if err := snap.DataTo(&d); err != nil {
		return core.MonthlyIncome{}, fmt.Errorf("decode income %s: %w", month, err)
	}
	return d.toCore(month), nil
}

// SetIncome merges the amount (and updatedAt, when given) into the month's document.
func (s *Store) SetIncome(ctx context.Context, in core.MonthlyIncome) (core.MonthlyIncome, error) {
	data := map[string]interface{}{"amount": in.Amount.InexactFloat64()}
	if in.UpdatedAt != nil {
		data["updatedAt"] = formatTime(*in.UpdatedAt)
	}
	if _, err := s.client.Collection(incomeCollection).Doc(string(in.ID)).Set(ctx, data, firestore.MergeAll); err != nil {
		return core.MonthlyIncome{}, fmt.Errorf("set income %s: %w", in.ID, err)
	}
	return s.GetIncome(ctx, in.ID)
}

func wrapNotFound(err error, kind, id string) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", kind, id, err)
}
