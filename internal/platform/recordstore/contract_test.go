package recordstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-admin/internal/pkg/query"
)

// runStoreContract exercises the behaviour every backend must share. It
// expects an empty "color" table with a generated id and a "product_tag"
// table keyed by (product_id, tag_id).
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("insert returns generated ids", func(t *testing.T) {
		rows, err := store.Insert(ctx, "color",
			Row{"name": "Red", "hex": "#ff0000"},
			Row{"name": "Blue", "hex": "#0000ff"},
		)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.NotZero(t, rows[0].Int64("id"))
		assert.NotEqual(t, rows[0].Int64("id"), rows[1].Int64("id"))
		assert.Equal(t, "Blue", rows[1].String("name"))
	})

	t.Run("select with equality and id set", func(t *testing.T) {
		all, err := store.Select(ctx, "color")
		require.NoError(t, err)
		require.Len(t, all, 2)

		ids := []int64{all[0].Int64("id")}
		got, err := store.Select(ctx, "color", query.In("id", ids), query.Eq("hex", all[0].String("hex")))
		require.NoError(t, err)
		require.Len(t, got, 1)

		none, err := store.Select(ctx, "color", query.In("id", []int64{}))
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("update patches matching rows only", func(t *testing.T) {
		err := store.Update(ctx, "color", Row{"name": "Crimson"}, query.Eq("hex", "#ff0000"))
		require.NoError(t, err)

		red, err := SelectOne(ctx, store, "color", query.Eq("hex", "#ff0000"))
		require.NoError(t, err)
		assert.Equal(t, "Crimson", red.String("name"))

		blue, err := SelectOne(ctx, store, "color", query.Eq("hex", "#0000ff"))
		require.NoError(t, err)
		assert.Equal(t, "Blue", blue.String("name"))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "color", query.Eq("hex", "#ff0000")))
		require.NoError(t, store.Delete(ctx, "color", query.Eq("hex", "#ff0000")))
		require.NoError(t, store.Delete(ctx, "color", query.In("id", []int64{})))

		rest, err := store.Select(ctx, "color")
		require.NoError(t, err)
		assert.Len(t, rest, 1)

		_, err = SelectOne(ctx, store, "color", query.Eq("hex", "#ff0000"))
		assert.ErrorIs(t, err, ErrNoRows)
	})

	t.Run("pair keyed rows", func(t *testing.T) {
		_, err := store.Insert(ctx, "product_tag",
			Row{"product_id": int64(1), "tag_id": int64(10)},
			Row{"product_id": int64(1), "tag_id": int64(11)},
			Row{"product_id": int64(2), "tag_id": int64(10)},
		)
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, "product_tag", query.Eq("tag_id", int64(10))))
		rest, err := store.Select(ctx, "product_tag", query.In("product_id", []int64{1, 2}))
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, int64(11), rest[0].Int64("tag_id"))
	})

	if tx, ok := store.(Transactor); ok {
		t.Run("transaction rolls back on error", func(t *testing.T) {
			boom := errors.New("boom")
			err := tx.RunInTransaction(ctx, func(ctx context.Context, s Store) error {
				if err := s.Delete(ctx, "color"); err != nil {
					return err
				}
				return boom
			})
			require.ErrorIs(t, err, boom)

			rest, err := store.Select(ctx, "color")
			require.NoError(t, err)
			assert.Len(t, rest, 1)
		})
	}
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemoryStore(WithAutoIncrement("color")))
}

// TestSpannerStore_Contract runs against the emulator when
// SPANNER_EMULATOR_HOST and PROCAT_TEST_SPANNER_DATABASE point at a freshly
// migrated database.
func TestSpannerStore_Contract(t *testing.T) {
	db := os.Getenv("PROCAT_TEST_SPANNER_DATABASE")
	if os.Getenv("SPANNER_EMULATOR_HOST") == "" || db == "" {
		t.Skip("Spanner emulator not configured")
	}

	client, err := spanner.NewClient(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	store := NewSpannerStore(client)
	require.NoError(t, store.Delete(context.Background(), "color"))
	require.NoError(t, store.Delete(context.Background(), "product_tag"))

	runStoreContract(t, store)
}

// TestPostgresStore_Contract runs when PROCAT_TEST_POSTGRES_DSN points at a
// migrated database.
func TestPostgresStore_Contract(t *testing.T) {
	dsn := os.Getenv("PROCAT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("Postgres not configured")
	}

	store, err := OpenPostgres(context.Background(), dsn, PoolConfig{MaxOpenConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Delete(context.Background(), "color"))
	require.NoError(t, store.Delete(context.Background(), "product_tag"))

	runStoreContract(t, store)
}
