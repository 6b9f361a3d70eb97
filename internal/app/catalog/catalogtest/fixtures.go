// Package catalogtest seeds in-memory catalogs for tests.
package catalogtest

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/app/catalog/media"
	"github.com/light-bringer/procat-admin/internal/app/catalog/repo"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/shared"
	"github.com/light-bringer/procat-admin/internal/models/m_product_tag"
	"github.com/light-bringer/procat-admin/internal/pkg/clock"
	"github.com/light-bringer/procat-admin/internal/pkg/committer"
	"github.com/light-bringer/procat-admin/internal/platform/objectstore"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// Epoch is the mock clock's starting time.
var Epoch = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

// Env is an in-memory catalog.
type Env struct {
	Store   *recordstore.MemoryStore
	Objects *objectstore.MemoryStore
	Clock   *clock.MockClock
	Repos   *contracts.Repositories
	Factory contracts.RepositoryFactory
}

// NewEnv creates an empty catalog.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	store := recordstore.NewMemoryStore(recordstore.WithAutoIncrement(repo.IdentityTables()...))
	clk := clock.NewMockClock(Epoch)
	return &Env{
		Store:   store,
		Objects: objectstore.NewMemoryStore(),
		Clock:   clk,
		Repos:   repo.NewRepositories(store, clk),
		Factory: repo.NewFactory(clk),
	}
}

// Committer runs plans against the memory store.
func (e *Env) Committer() *committer.Committer {
	return committer.NewCommitter(e.Store, zap.NewNop())
}

// Events records outbox events into the memory store.
func (e *Env) Events() *shared.EventRecorder {
	return shared.NewEventRecorder(e.Repos.Outbox, zap.NewNop())
}

// Uploader stores images in the memory object store.
func (e *Env) Uploader() *media.Uploader {
	return media.NewUploader(e.Objects, zap.NewNop())
}

// Refs are the required product references.
type Refs struct {
	Brand       int64
	Category    int64
	Subcategory int64
	Material    int64
}

func (e *Env) insert(t *testing.T, attr domain.Attribute) int64 {
	t.Helper()
	id, err := e.Repos.Attributes.Insert(context.Background(), attr)
	require.NoError(t, err, "failed to seed %s", attr.Kind())
	return id
}

func (e *Env) Color(t *testing.T, name, hex string) int64 {
	t.Helper()
	return e.insert(t, &domain.Color{Name: name, Hex: hex})
}

func (e *Env) Size(t *testing.T, name string, discipline domain.SizeDiscipline) int64 {
	t.Helper()
	return e.insert(t, &domain.Size{Name: name, Discipline: discipline})
}

func (e *Env) Tag(t *testing.T, name string) int64 {
	t.Helper()
	return e.insert(t, &domain.Tag{Name: name})
}

// Refs seeds one brand, category, subcategory and material.
func (e *Env) Refs(t *testing.T) Refs {
	t.Helper()
	category := e.insert(t, &domain.Category{Name: "Tops"})
	return Refs{
		Brand:       e.insert(t, &domain.Brand{Name: "Northwind"}),
		Category:    category,
		Subcategory: e.insert(t, &domain.Subcategory{Name: "Shirts", CategoryID: category}),
		Material:    e.insert(t, &domain.Material{Name: "Linen"}),
	}
}

// Draft returns a valid product draft using refs.
func Draft(name string, productType domain.ProductType, refs Refs) domain.ProductDraft {
	return domain.ProductDraft{
		Name:          name,
		Description:   name + " description",
		Price:         39.9,
		Type:          productType,
		Status:        domain.StatusListed,
		BrandID:       refs.Brand,
		CategoryID:    refs.Category,
		SubcategoryID: refs.Subcategory,
		MaterialID:    refs.Material,
	}
}

// VariantSeed describes a stored variant.
type VariantSeed struct {
	Color    int64
	Size     int64 // 0 for none
	Images   []string
	Quantity int64
}

// Product stores a product with its tags and variants directly.
func (e *Env) Product(t *testing.T, name string, refs Refs, tags []int64, variants ...VariantSeed) int64 {
	t.Helper()
	ctx := context.Background()

	p, err := domain.NewProduct(Draft(name, domain.TypeClothing, refs), e.Clock.Now())
	require.NoError(t, err)
	id, err := e.Repos.Products.Insert(ctx, p)
	require.NoError(t, err)
	require.NoError(t, e.Repos.ProductTags.Insert(ctx, id, tags))

	for _, seed := range variants {
		color := seed.Color
		v := &domain.Variant{ProductID: id, ColorID: &color, Images: seed.Images, Quantity: seed.Quantity}
		if seed.Size != 0 {
			size := seed.Size
			v.SizeID = &size
		}
		if len(v.Images) == 0 {
			v.Images = []string{objectstore.MemoryScheme + "catalog/seed.png"}
		}
		_, err := e.Repos.Variants.Insert(ctx, v)
		require.NoError(t, err)
	}
	return id
}

// ProductExists reports whether the product row is present.
func (e *Env) ProductExists(t *testing.T, id int64) bool {
	t.Helper()
	_, err := e.Repos.Products.GetByID(context.Background(), id)
	if err == domain.ErrProductNotFound {
		return false
	}
	require.NoError(t, err)
	return true
}

// Variants returns the stored variants of a product.
func (e *Env) Variants(t *testing.T, productID int64) []*domain.Variant {
	t.Helper()
	variants, err := e.Repos.Variants.ByProducts(context.Background(), []int64{productID})
	require.NoError(t, err)
	return variants
}

// Tags returns the sorted tag ids linked to a product.
func (e *Env) Tags(t *testing.T, productID int64) []int64 {
	t.Helper()
	var tags []int64
	for _, row := range e.Store.Rows(m_product_tag.TableName) {
		link := m_product_tag.FromRow(row)
		if link.ProductID == productID {
			tags = append(tags, link.TagID)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// AttributeExists reports whether the attribute row is present.
func (e *Env) AttributeExists(t *testing.T, kind domain.AttributeKind, id int64) bool {
	t.Helper()
	table, err := repo.TableFor(kind)
	require.NoError(t, err)
	for _, row := range e.Store.Rows(table) {
		if row.Int64("id") == id {
			return true
		}
	}
	return false
}

// EventTypes lists the types of recorded outbox events in order.
func (e *Env) EventTypes() []string {
	var types []string
	for _, row := range e.Store.Rows("outbox_events") {
		types = append(types, row.String("event_type"))
	}
	return types
}

// Writes returns the tables of successful write calls in order.
func (e *Env) Writes() []string {
	var out []string
	for _, c := range e.Store.Calls() {
		if c.Op != recordstore.OpSelect && !c.Failed {
			out = append(out, string(c.Op)+" "+c.Table)
		}
	}
	return out
}

func PNG(name string) domain.ImageRef {
	return domain.NewUpload([]byte("\x89PNG\r\n\x1a\n"+name), "image/png", name+".png")
}
