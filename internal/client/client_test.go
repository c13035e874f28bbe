package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecowallet/internal/cache"
	"ecowallet/internal/core"
	apihttp "ecowallet/internal/http"
	"ecowallet/internal/metrics"
	"ecowallet/internal/store/memory"
)

type staticUser string

func (u staticUser) UserName() string { return string(u) }

func newBackend(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	st := memory.New()
	srv := apihttp.NewServer(":0", st, apihttp.Options{})
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts, st
}

func seed(t *testing.T, st *memory.Store) {
	t.Helper()
	ctx := context.Background()
	_, err := st.AddTransaction(ctx, core.Transaction{
		Title: "Coffee", Category: "food", Amount: core.MustParseAmount("3.50"),
		Date: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), Type: core.Expense, Icon: core.IconCoffee,
	})
	require.NoError(t, err)
	_, err = st.AddShoppingItem(ctx, core.ShoppingItem{Name: "Milk", Quantity: 2, Category: "Dairy"})
	require.NoError(t, err)
}

func TestReadFallsBackToCachedBody(t *testing.T) {
	ts, st := newBackend(t)
	seed(t, st)
	m := metrics.NewClient()
	c := New(ts.URL+"/api", WithMetrics(m))
	ctx := context.Background()

	online := c.Transactions(ctx)
	require.Len(t, online, 1)
	onlineItems := c.ShoppingItems(ctx)
	require.Len(t, onlineItems, 1)

	ts.Close()

	offline := c.Transactions(ctx)
	want, _ := json.Marshal(online)
	got, _ := json.Marshal(offline)
	assert.Equal(t, string(want), string(got))

	offlineItems := c.ShoppingItems(ctx)
	assert.Equal(t, onlineItems, offlineItems)
	assert.Equal(t, float64(2), m.CacheFallbacks())
}

func TestIncomeFallsBackToCachedBody(t *testing.T) {
	ts, _ := newBackend(t)
	c := New(ts.URL + "/api")
	ctx := context.Background()

	_, err := c.SetIncome(ctx, "2026-03", core.NewAmount(1234))
	require.NoError(t, err)

	online := c.Income(ctx, "2026-03")
	require.Equal(t, "1234", online.Amount.String())

	resp, err := http.Get(ts.URL + "/api/income/2026-03")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	cached, ok := c.Cache().Get(IncomeKey("2026-03"))
	require.True(t, ok)
	assert.Equal(t, string(bytes.TrimSpace(body)), string(bytes.TrimSpace(cached)))

	ts.Close()

	offline := c.Income(ctx, "2026-03")
	assert.Equal(t, online, offline)

	after, ok := c.Cache().Get(IncomeKey("2026-03"))
	require.True(t, ok)
	assert.Equal(t, string(cached), string(after))

	other := c.Income(ctx, "2026-04")
	assert.Equal(t, core.MonthID("2026-04"), other.ID)
	assert.True(t, other.Amount.IsZero())
}

func TestReadWithoutCacheReturnsEmptyDefaults(t *testing.T) {
	ts, _ := newBackend(t)
	ts.Close()

	c := New(ts.URL + "/api")
	ctx := context.Background()

	txs := c.Transactions(ctx)
	assert.NotNil(t, txs)
	assert.Empty(t, txs)

	items := c.ShoppingItems(ctx)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	in := c.Income(ctx, "2026-03")
	assert.Equal(t, core.MonthID("2026-03"), in.ID)
	assert.True(t, in.Amount.IsZero())
}

func TestNonSuccessStatusIsAFailure(t *testing.T) {
	var fail atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"firestore down"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"1","name":"Bread","quantity":1,"category":"Groceries","isPurchased":false,"createdAt":"2026-03-01T00:00:00Z"}]`))
	}))
	defer ts.Close()

	mem := cache.NewMemory[[]byte]()
	c := New(ts.URL, WithCache(mem))
	ctx := context.Background()

	first := c.ShoppingItems(ctx)
	require.Len(t, first, 1)

	fail.Store(true)
	assert.Equal(t, first, c.ShoppingItems(ctx))

	_, err := c.AddShoppingItem(ctx, core.ShoppingItem{Name: "Eggs"})
	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "firestore down", se.Message)
}

func TestUndecodableBodyFallsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>captive portal</html>`))
	}))
	defer ts.Close()

	mem := cache.NewMemory[[]byte]()
	mem.Set(KeyTransactions, []byte(`[{"id":"cached","title":"Rent","amount":900,"type":"expense","date":"2026-03-01T00:00:00Z"}]`))
	c := New(ts.URL, WithCache(mem))

	txs := c.Transactions(context.Background())
	require.Len(t, txs, 1)
	assert.Equal(t, "cached", txs[0].ID)

	cached, _ := mem.Get(KeyTransactions)
	assert.Contains(t, string(cached), "cached", "a bad body must not overwrite the cache")
}

func TestWritesPropagateWhenOffline(t *testing.T) {
	ts, _ := newBackend(t)
	ts.Close()
	c := New(ts.URL + "/api")
	ctx := context.Background()

	_, err := c.AddTransaction(ctx, core.Transaction{Title: "Lunch", Amount: core.NewAmount(12), Type: core.Expense})
	assert.Error(t, err)
	_, err = c.SetIncome(ctx, "2026-03", core.NewAmount(100))
	assert.Error(t, err)
	assert.Error(t, c.DeleteTransaction(ctx, "x"))
	assert.Error(t, c.Ping(ctx))
}

func TestAddTransactionAttributesUser(t *testing.T) {
	ts, _ := newBackend(t)
	c := New(ts.URL+"/api", WithUserSource(staticUser("Mom")))
	ctx := context.Background()

	created, err := c.AddTransaction(ctx, core.Transaction{Title: "Bus", Category: "transport", Amount: core.NewAmount(2.5)})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Mom", created.CreatedBy)
	assert.Equal(t, core.IconCar, created.Icon)
	assert.Equal(t, core.Expense, created.Type)

	_, err = c.AddTransaction(ctx, core.Transaction{Title: "Free", Amount: core.NewAmount(0)})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	item, err := c.AddShoppingItem(ctx, core.ShoppingItem{Name: " Apples "})
	require.NoError(t, err)
	assert.Equal(t, "Apples", item.Name)
	assert.Equal(t, "Mom", item.AddedBy)
	assert.Equal(t, core.DefaultShoppingCategory, item.Category)
}

func TestUpdateAndIncomeRoundTrip(t *testing.T) {
	ts, st := newBackend(t)
	seed(t, st)
	c := New(ts.URL + "/api")
	ctx := context.Background()

	tx := c.Transactions(ctx)[0]
	title := "Cappuccino"
	updated, err := c.UpdateTransaction(ctx, tx.ID, core.TransactionPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Cappuccino", updated.Title)

	_, err = c.UpdateTransaction(ctx, "missing", core.TransactionPatch{Title: &title})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)

	saved, err := c.SetIncome(ctx, "2026-03", core.NewAmount(4200))
	require.NoError(t, err)
	assert.Equal(t, core.MonthID("2026-03"), saved.ID)
	assert.True(t, c.Income(ctx, "2026-03").Amount.Equal(core.NewAmount(4200)))
	assert.True(t, c.Income(ctx, "2026-04").Amount.IsZero())
}

type flakyCleaner struct {
	*memory.Store
	failures int
	calls    int
}

func (f *flakyCleaner) ListPurchasedIDs(ctx context.Context) ([]string, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("permission denied")
	}
	return f.Store.ListPurchasedIDs(ctx)
}

func purchasedStore(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	_, err := st.AddShoppingItem(ctx, core.ShoppingItem{Name: "Bread", Quantity: 1, IsPurchased: true})
	require.NoError(t, err)
	_, err = st.AddShoppingItem(ctx, core.ShoppingItem{Name: "Eggs", Quantity: 1})
	require.NoError(t, err)
	return st
}

func TestClearPurchasedDirectFallback(t *testing.T) {
	ts, _ := newBackend(t)
	ts.Close()
	ctx := context.Background()

	t.Run("no cleaner", func(t *testing.T) {
		_, err := New(ts.URL + "/api").ClearPurchased(ctx)
		assert.Error(t, err)
	})

	t.Run("retried once", func(t *testing.T) {
		cleaner := &flakyCleaner{Store: purchasedStore(t), failures: 1}
		n, err := New(ts.URL+"/api", WithPurchasedCleaner(cleaner)).ClearPurchased(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 2, cleaner.calls)

		items, _ := cleaner.ListShoppingItems(ctx)
		require.Len(t, items, 1)
		assert.Equal(t, "Eggs", items[0].Name)
	})

	t.Run("gives up after retry", func(t *testing.T) {
		cleaner := &flakyCleaner{Store: purchasedStore(t), failures: 5}
		_, err := New(ts.URL+"/api", WithPurchasedCleaner(cleaner)).ClearPurchased(ctx)
		assert.Error(t, err)
		assert.Equal(t, 2, cleaner.calls)
	})
}

func TestClearPurchasedViaAPI(t *testing.T) {
	ts, st := newBackend(t)
	ctx := context.Background()
	_, err := st.AddShoppingItem(ctx, core.ShoppingItem{Name: "Bread", Quantity: 1, IsPurchased: true})
	require.NoError(t, err)

	n, err := New(ts.URL + "/api").ClearPurchased(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDashboard(t *testing.T) {
	ts, st := newBackend(t)
	seed(t, st)
	_, err := st.SetIncome(context.Background(), core.MonthlyIncome{ID: "2026-03", Amount: core.NewAmount(3000)})
	require.NoError(t, err)

	d := New(ts.URL+"/api").Dashboard(context.Background(), "2026-03")
	assert.Len(t, d.Transactions, 1)
	assert.Len(t, d.Shopping, 1)
	assert.True(t, d.Income.Amount.Equal(core.NewAmount(3000)))
}
