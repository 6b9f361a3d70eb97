package recordstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-admin/internal/pkg/query"
)

func TestMemoryStore_FaultInjection(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithAutoIncrement("product"))
	boom := errors.New("connection reset")

	store.FailOn(OpDelete, "product", boom)

	_, err := store.Insert(ctx, "product", Row{"name": "Shirt"})
	require.NoError(t, err)

	err = store.Delete(ctx, "product")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var storeErr *Error
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, OpDelete, storeErr.Op)
	assert.Equal(t, "product", storeErr.Table)

	store.ClearFaults()
	require.NoError(t, store.Delete(ctx, "product"))
	assert.Empty(t, store.Rows("product"))
}

func TestMemoryStore_WildcardFault(t *testing.T) {
	store := NewMemoryStore()
	store.FailOn(OpSelect, "", errors.New("down"))

	_, err := store.Select(context.Background(), "anything")
	assert.Error(t, err)
}

func TestMemoryStore_CallLog(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, _ = store.Select(ctx, "product_variant")
	_ = store.Delete(ctx, "product_variant")
	_ = store.Delete(ctx, "color")

	assert.Equal(t, []Call{
		{Op: OpSelect, Table: "product_variant"},
		{Op: OpDelete, Table: "product_variant"},
		{Op: OpDelete, Table: "color"},
	}, store.Calls())

	store.ResetCalls()
	assert.Empty(t, store.Calls())
}

func TestMemoryStore_NormalizesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithAutoIncrement("product_variant"))
	colorID := int64(3)
	var sizeID *int64

	_, err := store.Insert(ctx, "product_variant", Row{
		"product_id": 1,
		"color_id":   &colorID,
		"size_id":    sizeID,
	})
	require.NoError(t, err)

	rows, err := store.Select(ctx, "product_variant", query.Eq("color_id", int64(3)), query.IsNull("size_id"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["product_id"])
}

func TestMemoryStore_ExplicitIDAdvancesSequence(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithAutoIncrement("tag"))

	_, err := store.Insert(ctx, "tag", Row{"id": int64(10), "name": "summer"})
	require.NoError(t, err)

	rows, err := store.Insert(ctx, "tag", Row{"name": "sale"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), rows[0].Int64("id"))
}

func TestRow_Getters(t *testing.T) {
	row := Row{
		"id":     int64(4),
		"price":  19.5,
		"name":   []byte("Linen"),
		"nil":    nil,
		"as_str": "12",
	}

	assert.Equal(t, int64(4), row.Int64("id"))
	assert.Equal(t, int64(0), row.Int64("nil"))
	assert.Equal(t, int64(12), row.Int64("as_str"))
	assert.Equal(t, 19.5, row.Float64("price"))
	assert.Equal(t, "Linen", row.String("name"))
	assert.Nil(t, row.StringPtr("nil"))
	assert.True(t, row.Time("nil").IsZero())

	ptr, err := row.Int64Ptr("nil")
	require.NoError(t, err)
	assert.Nil(t, ptr)

	_, err = Row{"bad": "x"}.Int64Ptr("bad")
	assert.Error(t, err)
}
