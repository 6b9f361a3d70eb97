package recordstore

import (
	"math/big"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGeneric_Numeric(t *testing.T) {
	t.Run("exact value", func(t *testing.T) {
		gcv, err := spanner.NewGenericColumnValue(*big.NewRat(5, 4))
		require.NoError(t, err)

		v, err := decodeGeneric(*gcv)
		require.NoError(t, err)
		assert.Equal(t, 1.25, v)
	})

	t.Run("inexact value is an error", func(t *testing.T) {
		gcv, err := spanner.NewGenericColumnValue(*big.NewRat(1, 10))
		require.NoError(t, err)

		_, err = decodeGeneric(*gcv)
		assert.ErrorContains(t, err, "not representable")
	})

	t.Run("null", func(t *testing.T) {
		gcv, err := spanner.NewGenericColumnValue(spanner.NullNumeric{})
		require.NoError(t, err)

		v, err := decodeGeneric(*gcv)
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}
