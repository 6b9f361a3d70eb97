package delete_attribute

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/app/catalog/catalogtest"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

func newInteractor(env *catalogtest.Env, opts Options) *Interactor {
	return NewInteractor(env.Factory, env.Committer(), env.Events(), env.Clock, zap.NewNop(), opts)
}

func TestDeleteTag_ScenarioA(t *testing.T) {
	ctx := context.Background()
	env := catalogtest.NewEnv(t)
	refs := env.Refs(t)
	red := env.Color(t, "Red", "#ff0000")
	m := env.Size(t, "M", domain.DisciplineAlpha)
	l := env.Size(t, "L", domain.DisciplineAlpha)
	summer := env.Tag(t, "summer")
	p := env.Product(t, "Tee", refs, []int64{summer},
		catalogtest.VariantSeed{Color: red, Size: m, Quantity: 1},
		catalogtest.VariantSeed{Color: red, Size: l, Quantity: 2},
	)
	env.Store.ResetCalls()

	resp, err := newInteractor(env, Options{}).Execute(ctx, &Request{Kind: domain.KindTag, ID: summer})
	require.NoError(t, err)

	assert.Equal(t, []int64{p}, resp.AffectedProducts)
	assert.Equal(t, []int64{p}, resp.DeletedProducts)
	assert.False(t, env.ProductExists(t, p))
	assert.Empty(t, env.Variants(t, p))
	assert.Empty(t, env.Tags(t, p))
	assert.False(t, env.AttributeExists(t, domain.KindTag, summer))
	assert.Equal(t, []string{
		"delete product_tag",
		"delete product_variant",
		"delete product",
		"delete tag",
		"insert outbox_events",
	}, env.Writes())
	assert.Equal(t, []string{"attribute.deleted"}, env.EventTypes())
}

func TestDeleteColor_ScenarioB(t *testing.T) {
	ctx := context.Background()
	env := catalogtest.NewEnv(t)
	refs := env.Refs(t)
	red := env.Color(t, "Red", "#ff0000")
	blue := env.Color(t, "Blue", "#0000ff")
	m := env.Size(t, "M", domain.DisciplineAlpha)
	summer := env.Tag(t, "summer")
	sale := env.Tag(t, "sale")
	p := env.Product(t, "Tee", refs, []int64{summer, sale},
		catalogtest.VariantSeed{Color: red, Size: m, Quantity: 1},
		catalogtest.VariantSeed{Color: blue, Size: m, Quantity: 1},
	)
	env.Store.ResetCalls()

	resp, err := newInteractor(env, Options{}).Execute(ctx, &Request{Kind: domain.KindColor, ID: red})
	require.NoError(t, err)

	assert.Equal(t, []int64{p}, resp.AffectedProducts)
	assert.Empty(t, resp.DeletedProducts)
	assert.True(t, env.ProductExists(t, p))
	variants := env.Variants(t, p)
	require.Len(t, variants, 1)
	assert.Equal(t, blue, *variants[0].ColorID)
	assert.Empty(t, env.Tags(t, p))
	assert.False(t, env.AttributeExists(t, domain.KindColor, red))
	assert.Equal(t, []string{
		"delete product_variant",
		"delete product_tag",
		"delete color",
		"insert outbox_events",
	}, env.Writes())
}

func TestDeleteColor_PreserveSurvivingTags(t *testing.T) {
	ctx := context.Background()
	env := catalogtest.NewEnv(t)
	refs := env.Refs(t)
	red := env.Color(t, "Red", "#ff0000")
	blue := env.Color(t, "Blue", "#0000ff")
	summer := env.Tag(t, "summer")
	survivor := env.Product(t, "Tee", refs, []int64{summer},
		catalogtest.VariantSeed{Color: red},
		catalogtest.VariantSeed{Color: blue},
	)
	orphan := env.Product(t, "Cap", refs, []int64{summer},
		catalogtest.VariantSeed{Color: red},
	)

	resp, err := newInteractor(env, Options{PreserveSurvivingTags: true}).Execute(ctx, &Request{Kind: domain.KindColor, ID: red})
	require.NoError(t, err)

	assert.Equal(t, []int64{orphan}, resp.DeletedProducts)
	assert.True(t, env.ProductExists(t, survivor))
	assert.Equal(t, []int64{summer}, env.Tags(t, survivor))
	assert.False(t, env.ProductExists(t, orphan))
	assert.Empty(t, env.Tags(t, orphan))
}

func TestDeleteColor_LastReference(t *testing.T) {
	ctx := context.Background()
	env := catalogtest.NewEnv(t)
	refs := env.Refs(t)
	red := env.Color(t, "Red", "#ff0000")
	summer := env.Tag(t, "summer")
	p := env.Product(t, "Tee", refs, []int64{summer}, catalogtest.VariantSeed{Color: red, Quantity: 4})

	_, err := newInteractor(env, Options{Transactional: true}).Execute(ctx, &Request{Kind: domain.KindColor, ID: red})
	require.NoError(t, err)

	assert.False(t, env.ProductExists(t, p))
	assert.Empty(t, env.Tags(t, p))
	assert.True(t, env.AttributeExists(t, domain.KindTag, summer))
}

func TestDeleteColor_Unused(t *testing.T) {
	ctx := context.Background()
	env := catalogtest.NewEnv(t)
	refs := env.Refs(t)
	red := env.Color(t, "Red", "#ff0000")
	blue := env.Color(t, "Blue", "#0000ff")
	summer := env.Tag(t, "summer")
	p := env.Product(t, "Tee", refs, []int64{summer}, catalogtest.VariantSeed{Color: blue})

	resp, err := newInteractor(env, Options{}).Execute(ctx, &Request{Kind: domain.KindColor, ID: red})
	require.NoError(t, err)

	assert.Empty(t, resp.AffectedProducts)
	assert.False(t, env.AttributeExists(t, domain.KindColor, red))
	assert.True(t, env.ProductExists(t, p))
	assert.Len(t, env.Variants(t, p), 1)
	assert.Equal(t, []int64{summer}, env.Tags(t, p))
}

func TestDeleteSize(t *testing.T) {
	ctx := context.Background()
	env := catalogtest.NewEnv(t)
	refs := env.Refs(t)
	red := env.Color(t, "Red", "#ff0000")
	m := env.Size(t, "M", domain.DisciplineAlpha)
	l := env.Size(t, "L", domain.DisciplineAlpha)
	summer := env.Tag(t, "summer")
	keeps := env.Product(t, "Tee", refs, []int64{summer},
		catalogtest.VariantSeed{Color: red, Size: m},
		catalogtest.VariantSeed{Color: red, Size: l},
	)
	loses := env.Product(t, "Polo", refs, []int64{summer}, catalogtest.VariantSeed{Color: red, Size: m})

	resp, err := newInteractor(env, Options{}).Execute(ctx, &Request{Kind: domain.KindSize, ID: m})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{keeps, loses}, resp.AffectedProducts)
	assert.Equal(t, []int64{loses}, resp.DeletedProducts)
	assert.True(t, env.ProductExists(t, keeps))
	assert.Len(t, env.Variants(t, keeps), 1)
	assert.False(t, env.ProductExists(t, loses))
}

func TestDeleteTag_OneOfSeveral(t *testing.T) {
	ctx := context.Background()
	env := catalogtest.NewEnv(t)
	refs := env.Refs(t)
	red := env.Color(t, "Red", "#ff0000")
	summer := env.Tag(t, "summer")
	sale := env.Tag(t, "sale")
	p := env.Product(t, "Tee", refs, []int64{summer, sale}, catalogtest.VariantSeed{Color: red})

	resp, err := newInteractor(env, Options{}).Execute(ctx, &Request{Kind: domain.KindTag, ID: summer})
	require.NoError(t, err)

	assert.Empty(t, resp.DeletedProducts)
	assert.True(t, env.ProductExists(t, p))
	assert.Len(t, env.Variants(t, p), 1)
	assert.Equal(t, []int64{sale}, env.Tags(t, p))
}

func TestDelete_Idempotent(t *testing.T) {
	ctx := context.Background()

	for _, kind := range domain.AttributeKinds {
		t.Run(string(kind), func(t *testing.T) {
			env := catalogtest.NewEnv(t)
			refs := env.Refs(t)
			red := env.Color(t, "Red", "#ff0000")
			m := env.Size(t, "M", domain.DisciplineAlpha)
			summer := env.Tag(t, "summer")
			env.Product(t, "Tee", refs, []int64{summer}, catalogtest.VariantSeed{Color: red, Size: m})

			ids := map[domain.AttributeKind]int64{
				domain.KindColor:       red,
				domain.KindSize:        m,
				domain.KindTag:         summer,
				domain.KindBrand:       refs.Brand,
				domain.KindCategory:    refs.Category,
				domain.KindSubcategory: refs.Subcategory,
				domain.KindMaterial:    refs.Material,
			}
			interactor := newInteractor(env, Options{})
			req := &Request{Kind: kind, ID: ids[kind]}

			_, err := interactor.Execute(ctx, req)
			require.NoError(t, err)
			assert.False(t, env.AttributeExists(t, kind, ids[kind]))

			resp, err := interactor.Execute(ctx, req)
			require.NoError(t, err)
			assert.Empty(t, resp.AffectedProducts)
			assert.Empty(t, resp.DeletedProducts)

			_, err = interactor.Execute(ctx, &Request{Kind: kind, ID: 9999})
			assert.NoError(t, err)
		})
	}
}

func TestDeleteReferencedAttribute(t *testing.T) {
	ctx := context.Background()

	t.Run("brand orphans its products", func(t *testing.T) {
		env := catalogtest.NewEnv(t)
		refs := env.Refs(t)
		red := env.Color(t, "Red", "#ff0000")
		summer := env.Tag(t, "summer")
		p := env.Product(t, "Tee", refs, []int64{summer}, catalogtest.VariantSeed{Color: red})

		resp, err := newInteractor(env, Options{Transactional: true}).Execute(ctx, &Request{Kind: domain.KindBrand, ID: refs.Brand})
		require.NoError(t, err)
		assert.Equal(t, []int64{p}, resp.DeletedProducts)
		assert.False(t, env.ProductExists(t, p))
		assert.Empty(t, env.Variants(t, p))
		assert.Empty(t, env.Tags(t, p))
		assert.True(t, env.AttributeExists(t, domain.KindColor, red))
	})

	t.Run("category removes its subcategories", func(t *testing.T) {
		env := catalogtest.NewEnv(t)
		refs := env.Refs(t)
		red := env.Color(t, "Red", "#ff0000")
		summer := env.Tag(t, "summer")
		p := env.Product(t, "Tee", refs, []int64{summer}, catalogtest.VariantSeed{Color: red})
		other := env.Refs(t)
		untouched := env.Product(t, "Cap", other, []int64{summer}, catalogtest.VariantSeed{Color: red})

		resp, err := newInteractor(env, Options{}).Execute(ctx, &Request{Kind: domain.KindCategory, ID: refs.Category})
		require.NoError(t, err)
		assert.Equal(t, []int64{p}, resp.DeletedProducts)
		assert.False(t, env.AttributeExists(t, domain.KindSubcategory, refs.Subcategory))
		assert.True(t, env.AttributeExists(t, domain.KindSubcategory, other.Subcategory))
		assert.True(t, env.ProductExists(t, untouched))
	})
}

func TestDelete_Failures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("store unavailable")

	seed := func(t *testing.T) (*catalogtest.Env, int64, int64) {
		env := catalogtest.NewEnv(t)
		refs := env.Refs(t)
		red := env.Color(t, "Red", "#ff0000")
		summer := env.Tag(t, "summer")
		p := env.Product(t, "Tee", refs, []int64{summer}, catalogtest.VariantSeed{Color: red})
		return env, red, p
	}

	t.Run("partial cascade after committed writes", func(t *testing.T) {
		env, red, p := seed(t)
		env.Store.FailOn(recordstore.OpDelete, "product", boom)

		_, err := newInteractor(env, Options{}).Execute(ctx, &Request{Kind: domain.KindColor, ID: red})
		var partial *domain.PartialCascadeError
		require.ErrorAs(t, err, &partial)
		assert.Equal(t, StepDeleteOrphans, partial.Step)
		assert.Equal(t, []string{StepCollectProducts, StepDeleteVariants, StepDeleteProductTags, StepFindOrphans}, partial.Completed)
		assert.ErrorIs(t, err, boom)
		var storeErr *domain.StoreError
		assert.ErrorAs(t, err, &storeErr)

		// the attribute stays visible and the writes already made stay made
		assert.True(t, env.AttributeExists(t, domain.KindColor, red))
		assert.True(t, env.ProductExists(t, p))
		assert.Empty(t, env.Variants(t, p))
		assert.Empty(t, env.EventTypes())

		env.Store.ClearFaults()
		_, err = newInteractor(env, Options{}).Execute(ctx, &Request{Kind: domain.KindColor, ID: red})
		require.NoError(t, err)
		assert.False(t, env.AttributeExists(t, domain.KindColor, red))
	})

	t.Run("failure before any write is a store error", func(t *testing.T) {
		env, red, _ := seed(t)
		env.Store.FailOn(recordstore.OpSelect, "product_variant", boom)

		_, err := newInteractor(env, Options{}).Execute(ctx, &Request{Kind: domain.KindColor, ID: red})
		var partial *domain.PartialCascadeError
		assert.False(t, errors.As(err, &partial))
		var storeErr *domain.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, StepCollectProducts, storeErr.Step)
	})

	t.Run("transactional cascade rolls back", func(t *testing.T) {
		env, red, p := seed(t)
		env.Store.FailOn(recordstore.OpDelete, "color", boom)

		_, err := newInteractor(env, Options{Transactional: true}).Execute(ctx, &Request{Kind: domain.KindColor, ID: red})
		var storeErr *domain.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, StepDeleteAttribute, storeErr.Step)
		var partial *domain.PartialCascadeError
		assert.False(t, errors.As(err, &partial))

		assert.True(t, env.ProductExists(t, p))
		assert.Len(t, env.Variants(t, p), 1)
		assert.Len(t, env.Tags(t, p), 1)
	})

	t.Run("invalid requests touch nothing", func(t *testing.T) {
		env, _, _ := seed(t)
		env.Store.ResetCalls()
		interactor := newInteractor(env, Options{})

		_, err := interactor.Execute(ctx, &Request{Kind: "fabric", ID: 1})
		assert.ErrorIs(t, err, domain.ErrUnknownAttributeKind)
		_, err = interactor.Execute(ctx, &Request{Kind: domain.KindColor, ID: 0})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, env.Store.Calls())
	})
}
