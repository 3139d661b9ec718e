package localstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/domain"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	items := []domain.MenuItem{{ID: "1", Name: "Espresso", Price: domain.MoneyFromFloat(5)}}
	require.NoError(t, store.Save(KeyMenuItems, items))

	var loaded []domain.MenuItem
	ok, err := store.Load(KeyMenuItems, &loaded)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Espresso", loaded[0].Name)
	assert.Equal(t, "5.00 TND", loaded[0].Price.String())
}

func TestStoreMissingKey(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	var out []domain.MenuItem
	ok, err := store.Load(KeyMenuItems, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreRejectsNewerSchema(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	blob := []byte(`{"schema_version": 99, "data": []}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyOrders+".json"), blob, 0o644))

	var out []domain.Order
	_, err = store.Load(KeyOrders, &out)
	assert.Error(t, err)
}

func TestCounterResetPersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := New(dir)
	require.NoError(t, err)

	counter := NewCounter(store, logger.Nop())
	require.NoError(t, counter.Load(ctx))

	for i := 1; i <= 3; i++ {
		n, err := counter.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	require.NoError(t, counter.Reset(ctx))

	// A fresh counter over the same directory sees the reset value.
	reloaded := NewCounter(store, logger.Nop())
	require.NoError(t, reloaded.Load(ctx))
	n, err := reloaded.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOrderMirrorDeletePaid(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	mirror := NewOrderMirror(store)
	_, err = mirror.LoadOrders(ctx)
	require.NoError(t, err)

	paid := domain.Order{ID: "a", Status: domain.StatusPaid}
	pending := domain.Order{ID: "b", Status: domain.StatusPending}
	require.NoError(t, mirror.InsertOrder(ctx, &paid))
	require.NoError(t, mirror.InsertOrder(ctx, &pending))

	require.NoError(t, mirror.DeletePaid(ctx))

	// A fresh mirror over the same directory sees only the pending order.
	orders, err := NewOrderMirror(store).LoadOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "b", orders[0].ID)
}
