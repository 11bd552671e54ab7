package kv_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/platform/kv"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func openAll(t *testing.T) map[string]kv.Store {
	t.Helper()
	dir := t.TempDir()
	stores := map[string]kv.Store{}
	for driver, name := range map[string]string{
		kv.DriverBolt:   "tasktrack.db",
		kv.DriverSQLite: "tasktrack.sqlite",
		kv.DriverFile:   "storage.json",
	} {
		store, err := kv.Open(driver, filepath.Join(dir, driver, name))
		require.NoError(t, err, "open %s", driver)
		t.Cleanup(func() { _ = store.Close() })
		stores[driver] = store
	}
	return stores
}

func TestStoreGetSetDelete(t *testing.T) {
	t.Parallel()
	for driver, store := range openAll(t) {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()

			var missing record
			found, err := store.Get(ctx, "absent", &missing)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Set(ctx, "rec", record{Name: "a", Count: 1}))
			require.NoError(t, store.Set(ctx, "rec", record{Name: "b", Count: 2}))

			var got record
			found, err = store.Get(ctx, "rec", &got)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, record{Name: "b", Count: 2}, got)

			require.NoError(t, store.Delete(ctx, "rec"))
			require.NoError(t, store.Delete(ctx, "rec"), "deleting twice is not an error")
			found, err = store.Get(ctx, "rec", &got)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestStoreWithinCommitsAndRollsBack(t *testing.T) {
	t.Parallel()
	for driver, store := range openAll(t) {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "keep", []string{"x"}))

			err := store.Within(ctx, func(ctx context.Context) error {
				if err := store.Set(ctx, "a", 1); err != nil {
					return err
				}
				var a int
				found, err := store.Get(ctx, "a", &a)
				require.NoError(t, err)
				require.True(t, found, "writes are visible inside the transaction")
				return store.Delete(ctx, "keep")
			})
			require.NoError(t, err)

			var keep []string
			found, err := store.Get(ctx, "keep", &keep)
			require.NoError(t, err)
			assert.False(t, found)

			boom := errors.New("boom")
			err = store.Within(ctx, func(ctx context.Context) error {
				if err := store.Set(ctx, "b", 2); err != nil {
					return err
				}
				return boom
			})
			require.ErrorIs(t, err, boom)

			var b int
			found, err = store.Get(ctx, "b", &b)
			require.NoError(t, err)
			assert.False(t, found, "failed transaction must not persist")
		})
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, driver := range []string{kv.DriverBolt, kv.DriverSQLite, kv.DriverFile} {
		path := filepath.Join(dir, driver+".store")
		first, err := kv.Open(driver, path)
		require.NoError(t, err)
		require.NoError(t, first.Set(context.Background(), "projects", []string{"A", "B"}))
		require.NoError(t, first.Close())

		second, err := kv.Open(driver, path)
		require.NoError(t, err)
		var projects []string
		found, err := second.Get(context.Background(), "projects", &projects)
		require.NoError(t, err)
		require.True(t, found, driver)
		assert.Equal(t, []string{"A", "B"}, projects)
		require.NoError(t, second.Close())
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()
	_, err := kv.Open("redis", filepath.Join(t.TempDir(), "x"))
	require.Error(t, err)
}

func TestGetReportsDecodeErrors(t *testing.T) {
	t.Parallel()
	store, err := kv.NewFile(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "tasks", "not-a-list"))

	var tasks []string
	_, err = store.Get(ctx, "tasks", &tasks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode tasks")
}
