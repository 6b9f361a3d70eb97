package plan_variants

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-admin/internal/app/catalog/catalogtest"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

func TestPlanVariants(t *testing.T) {
	ctx := context.Background()
	env := catalogtest.NewEnv(t)
	red := env.Color(t, "Red", "#ff0000")
	blue := env.Color(t, "Blue", "#0000ff")
	s40 := env.Size(t, "40", domain.DisciplineNumeric)
	s42 := env.Size(t, "42", domain.DisciplineNumeric)
	m := env.Size(t, "M", domain.DisciplineAlpha)
	interactor := NewInteractor(env.Repos.Attributes)

	t.Run("numeric sizes only", func(t *testing.T) {
		size := func(id int64) *int64 { return &id }
		plan, err := interactor.Execute(ctx, &Request{Matrix: domain.MatrixInput{
			SelectedColors: []int64{red, blue},
			Discipline:     domain.DisciplineNumeric,
			ImagesByColor: map[int64][]domain.ImageRef{
				red:  {catalogtest.PNG("red")},
				blue: {catalogtest.PNG("blue")},
			},
			QuantityByKey: map[string]string{
				domain.QuantityKey(red, size(s40)):  "1",
				domain.QuantityKey(red, size(s42)):  "2",
				domain.QuantityKey(blue, size(s42)): "3",
				domain.QuantityKey(blue, size(m)):   "4",
			},
		}})
		require.NoError(t, err)
		assert.Len(t, plan.Variants, 3)
		for _, v := range plan.Variants {
			assert.NotEqual(t, m, *v.SizeID)
		}
	})

	t.Run("unsized plans skip the size catalog", func(t *testing.T) {
		env.Store.ResetCalls()
		_, err := interactor.Execute(ctx, &Request{Matrix: domain.MatrixInput{
			SelectedColors: []int64{red},
			Discipline:     domain.DisciplineNone,
			ImagesByColor:  map[int64][]domain.ImageRef{red: {catalogtest.PNG("red")}},
			QuantityByKey:  map[string]string{domain.QuantityKey(red, nil): "5"},
		}})
		require.NoError(t, err)
		assert.Empty(t, env.Store.Calls())
	})

	t.Run("size catalog failure", func(t *testing.T) {
		env.Store.FailOn(recordstore.OpSelect, "size", errors.New("down"))
		defer env.Store.ClearFaults()

		_, err := interactor.Execute(ctx, &Request{Matrix: domain.MatrixInput{
			SelectedColors: []int64{red},
			Discipline:     domain.DisciplineAlpha,
		}})
		var storeErr *domain.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "load_sizes", storeErr.Step)
	})
}
