package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecowallet/internal/cache"
	"ecowallet/internal/client"
	"ecowallet/internal/core"
	apihttp "ecowallet/internal/http"
	"ecowallet/internal/session"
	"ecowallet/internal/store/memory"
)

var fixedNow = time.Date(2026, time.March, 18, 12, 0, 0, 0, time.UTC)

type harness struct {
	app   *App
	store *memory.Store
	cache *cache.LRUCache[[]byte]
	srv   *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := memory.New()
	srv := httptest.NewServer(apihttp.NewServer(":0", st, apihttp.Options{}).Handler)
	t.Cleanup(srv.Close)

	mem := cache.NewMemory[[]byte]()
	sess, err := session.Load(filepath.Join(t.TempDir(), "session.yaml"), mem)
	require.NoError(t, err)

	c := client.New(srv.URL+"/api", client.WithCache(mem), client.WithUserSource(sess))
	return &harness{
		app:   &App{Client: c, Session: sess, Now: func() time.Time { return fixedNow }},
		store: st,
		cache: mem,
		srv:   srv,
	}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(h.app)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Family (not logged in)")

	out, err = h.run(t, "login", "Mom")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Mom")

	h.cache.Set(client.IncomeKey("2026-03"), []byte(`{"amount":5}`))
	_, err = h.run(t, "logout")
	require.NoError(t, err)
	_, ok := h.cache.Get(client.IncomeKey("2026-03"))
	assert.False(t, ok)

	_, err = h.run(t, "logout")
	assert.Error(t, err)
}

func TestTxAddListEditRemove(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "login", "Dad")
	require.NoError(t, err)

	out, err := h.run(t, "tx", "add", "--amount", "12,50", "--category", "food", "--date", "2026-03-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Food -$12.50")

	txs, err := h.store.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Dad", txs[0].CreatedBy)
	assert.Equal(t, core.IconUtensils, txs[0].Icon)
	assert.Equal(t, "Food", txs[0].Category)
	id := txs[0].ID

	out, err = h.run(t, "tx", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)

	out, err = h.run(t, "tx", "list", "--month", "2026-02")
	require.NoError(t, err)
	assert.Contains(t, out, "No transactions.")

	out, err = h.run(t, "tx", "edit", id, "--amount", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "-$20.00")

	_, err = h.run(t, "tx", "edit", id)
	assert.Error(t, err)

	_, err = h.run(t, "tx", "rm", id)
	require.NoError(t, err)
	txs, _ = h.store.ListTransactions(context.Background())
	assert.Empty(t, txs)

	_, err = h.run(t, "tx", "add", "--amount", "-3")
	assert.Error(t, err)
}

func TestShopFlow(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "login", "Mom")
	require.NoError(t, err)

	_, err = h.run(t, "shop", "add", "Milk", "--qty", "2")
	require.NoError(t, err)
	_, err = h.run(t, "shop", "add", "Bread")
	require.NoError(t, err)

	out, err := h.run(t, "shop", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Milk")
	assert.Contains(t, out, "2 to buy, 0 in the cart")

	out, err = h.run(t, "shop", "toggle", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "bought by Mom")

	_, err = h.run(t, "shop", "qty", "2", "0")
	assert.ErrorIs(t, err, core.ErrInvalidQuantity)

	out, err = h.run(t, "shop", "checkout", "--total", "7.80")
	require.NoError(t, err)
	assert.Contains(t, out, "Shopping trip:")

	items, err := h.store.ListShoppingItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	txs, err := h.store.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, core.DefaultShoppingCategory, txs[0].Category)
	assert.True(t, txs[0].Amount.Equal(core.MustParseAmount("7.80")))

	_, err = h.run(t, "shop", "rm", items[0].ID[:6])
	require.NoError(t, err)
	items, _ = h.store.ListShoppingItems(context.Background())
	assert.Empty(t, items)
}

func TestShopToggleOfflineWarns(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.AddShoppingItem(context.Background(), core.ShoppingItem{Name: "Eggs", Quantity: 1})
	require.NoError(t, err)

	_, err = h.run(t, "shop", "list")
	require.NoError(t, err)
	h.srv.Close()

	out, err := h.run(t, "shop", "toggle", "1")
	assert.Error(t, err)
	assert.Contains(t, out, "warning: change not saved on the server")
}

func TestIncomeAndDashboard(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.run(t, "income", "set", "3000")
	require.NoError(t, err)

	out, err := h.run(t, "income", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-03: $3000.00")

	_, err = h.run(t, "income", "get", "March")
	assert.Error(t, err)

	_, err = h.store.AddTransaction(ctx, core.Transaction{
		Title: "Rent", Category: "Bills", Amount: core.NewAmount(750), Date: fixedNow, Type: core.Expense,
	})
	require.NoError(t, err)

	out, err = h.run(t, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "$3000.00")
	assert.Contains(t, out, "$750.00")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "Rent")
}

func TestChart(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.AddTransaction(context.Background(), core.Transaction{
		Title: "Salary", Amount: core.NewAmount(200), Date: fixedNow, Type: core.Income,
	})
	require.NoError(t, err)

	out, err := h.run(t, "chart")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2*7)
	assert.True(t, strings.HasPrefix(lines[12], "MAR"))
	assert.Contains(t, lines[12], strings.Repeat("+", barWidth))

	out, err = h.run(t, "chart", "--weekly")
	require.NoError(t, err)
	assert.Contains(t, out, "WED")
}

func TestResolveItem(t *testing.T) {
	items := []core.ShoppingItem{{ID: "abc123"}, {ID: "abd456"}}
	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{ref: "1", want: "abc123"},
		{ref: "abd456", want: "abd456"},
		{ref: "abc", want: "abc123"},
		{ref: "ab", wantErr: true},
		{ref: "zzz", wantErr: true},
		{ref: "3", wantErr: true},
	}
	for _, tt := range tests {
		got, err := resolveItem(items, tt.ref)
		if tt.wantErr {
			assert.Error(t, err, tt.ref)
			continue
		}
		require.NoError(t, err, tt.ref)
		assert.Equal(t, tt.want, got)
	}
}
