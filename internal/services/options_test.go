package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/app/catalog/queries/get_product"
	"github.com/light-bringer/procat-admin/internal/app/catalog/queries/list_events"
	"github.com/light-bringer/procat-admin/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/create_product"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/delete_attribute"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/save_attribute"
	"github.com/light-bringer/procat-admin/internal/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Store:   config.Store{Backend: config.BackendMemory},
		Objects: config.Objects{Backend: config.BackendMemory},
		Cascade: config.Cascade{Transactional: true},
	}
}

func TestNewServiceOptions_Memory(t *testing.T) {
	opts, err := NewServiceOptions(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, opts.Close()) })

	assert.NotNil(t, opts.Records)
	assert.NotNil(t, opts.Objects)
	require.NotNil(t, opts.Catalog)
	assert.NotNil(t, opts.Catalog.CreateProduct)
	assert.NotNil(t, opts.Catalog.ListEvents)
}

func TestNewServiceOptions_UnknownBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.Objects.Backend = "s3"
	_, err := NewServiceOptions(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "s3")
}

// TestCatalogLifecycle drives the wired catalog through attribute setup,
// product creation and attribute deletion.
func TestCatalogLifecycle(t *testing.T) {
	ctx := context.Background()
	opts, err := NewServiceOptions(ctx, memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	c := opts.Catalog

	save := func(kind domain.AttributeKind, fields domain.AttributeFields) int64 {
		t.Helper()
		resp, err := c.SaveAttribute.Execute(ctx, &save_attribute.Request{Kind: kind, Fields: fields})
		require.NoError(t, err)
		return resp.ID
	}
	brand := save(domain.KindBrand, domain.AttributeFields{Name: "Northwind"})
	category := save(domain.KindCategory, domain.AttributeFields{Name: "Bottoms"})
	subcategory := save(domain.KindSubcategory, domain.AttributeFields{Name: "Chinos", CategoryID: category})
	material := save(domain.KindMaterial, domain.AttributeFields{Name: "Cotton"})
	tag := save(domain.KindTag, domain.AttributeFields{Name: "summer"})
	red := save(domain.KindColor, domain.AttributeFields{Name: "Red", Hex: "#f00"})
	blue := save(domain.KindColor, domain.AttributeFields{Name: "Blue", Hex: "#00f"})
	s40 := save(domain.KindSize, domain.AttributeFields{Name: "40", Discipline: "numeric"})
	s42 := save(domain.KindSize, domain.AttributeFields{Name: "42", Discipline: "numeric"})

	size := func(id int64) *int64 { return &id }
	image := domain.NewUpload([]byte("\x89PNG\r\n\x1a\nchino"), "image/png", "chino.png")
	productID, err := c.CreateProduct.Execute(ctx, &create_product.Request{Form: domain.ProductForm{
		Draft: domain.ProductDraft{
			Name:          "Chino",
			Price:         59,
			Type:          domain.TypeClothing,
			Status:        domain.StatusListed,
			BrandID:       brand,
			CategoryID:    category,
			SubcategoryID: subcategory,
			MaterialID:    material,
		},
		TagIDs: []int64{tag},
		Matrix: domain.MatrixInput{
			SelectedColors: []int64{red, blue},
			Discipline:     domain.DisciplineNumeric,
			ImagesByColor:  map[int64][]domain.ImageRef{red: {image}, blue: {image}},
			QuantityByKey: map[string]string{
				domain.QuantityKey(red, size(s40)):  "1",
				domain.QuantityKey(red, size(s42)):  "2",
				domain.QuantityKey(blue, size(s40)): "3",
				domain.QuantityKey(blue, size(s42)): "4",
			},
		},
	}})
	require.NoError(t, err)

	product, err := c.GetProduct.Execute(ctx, &get_product.Request{ProductID: productID})
	require.NoError(t, err)
	assert.Len(t, product.Variants, 4)

	// Deleting one size keeps the product with the other size's variants.
	resp, err := c.DeleteAttribute.Execute(ctx, &delete_attribute.Request{Kind: domain.KindSize, ID: s40})
	require.NoError(t, err)
	assert.Equal(t, []int64{productID}, resp.AffectedProducts)
	product, err = c.GetProduct.Execute(ctx, &get_product.Request{ProductID: productID})
	require.NoError(t, err)
	assert.Len(t, product.Variants, 2)

	// Deleting the brand removes the product.
	_, err = c.DeleteAttribute.Execute(ctx, &delete_attribute.Request{Kind: domain.KindBrand, ID: brand})
	require.NoError(t, err)
	list, err := c.ListProducts.Execute(ctx, &list_products.Request{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)

	events, err := c.ListEvents.Execute(ctx, &list_events.Request{EventType: "attribute.deleted"})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
