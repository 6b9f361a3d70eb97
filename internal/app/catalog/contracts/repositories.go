package contracts

import (
	"context"

	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// ProductRepository persists the product aggregate.
// Every method is a single store call.
type ProductRepository interface {
	// Insert stores a new product and returns its assigned id.
	Insert(ctx context.Context, product *domain.Product) (int64, error)

	// Update writes the product's dirty fields. No-op without changes.
	Update(ctx context.Context, product *domain.Product) error

	// GetByID returns domain.ErrProductNotFound when the product is missing.
	GetByID(ctx context.Context, productID int64) (*domain.Product, error)

	// IDsReferencing returns ids of products whose column holds one of ids.
	IDsReferencing(ctx context.Context, column string, ids []int64) ([]int64, error)

	// Delete removes the given products. Missing ids are ignored.
	Delete(ctx context.Context, productIDs []int64) error
}

// VariantRepository persists product variants.
type VariantRepository interface {
	// Insert stores a variant and returns it with its assigned id.
	Insert(ctx context.Context, variant *domain.Variant) (*domain.Variant, error)

	// ByProducts returns every variant of the given products.
	ByProducts(ctx context.Context, productIDs []int64) ([]*domain.Variant, error)

	// ProductIDsUsing returns the distinct products with a variant that uses
	// the color or size attrID.
	ProductIDsUsing(ctx context.Context, kind domain.AttributeKind, attrID int64) ([]int64, error)

	// DeleteUsing removes every variant using the color or size attrID.
	DeleteUsing(ctx context.Context, kind domain.AttributeKind, attrID int64) error

	DeleteByProducts(ctx context.Context, productIDs []int64) error
	DeleteByIDs(ctx context.Context, variantIDs []int64) error
}

// ProductTagRepository persists product/tag associations.
type ProductTagRepository interface {
	Insert(ctx context.Context, productID int64, tagIDs []int64) error

	// ProductIDsForTag returns the distinct products linked to tagID.
	ProductIDsForTag(ctx context.Context, tagID int64) ([]int64, error)

	// TagIDsByProduct groups the tag ids of the given products.
	TagIDsByProduct(ctx context.Context, productIDs []int64) (map[int64][]int64, error)

	// Delete unlinks the given tags from one product.
	Delete(ctx context.Context, productID int64, tagIDs []int64) error
	DeleteByTag(ctx context.Context, tagID int64) error
	DeleteByProducts(ctx context.Context, productIDs []int64) error
}

// AttributeRepository persists shared attributes of every kind.
type AttributeRepository interface {
	// Get returns domain.ErrAttributeNotFound when the attribute is missing.
	Get(ctx context.Context, kind domain.AttributeKind, id int64) (domain.Attribute, error)

	List(ctx context.Context, kind domain.AttributeKind) ([]domain.Attribute, error)

	// Sizes returns the size catalog, optionally restricted to one discipline.
	Sizes(ctx context.Context, discipline domain.SizeDiscipline) ([]domain.Size, error)

	// SubcategoryIDs returns the subcategories owned by a category.
	SubcategoryIDs(ctx context.Context, categoryID int64) ([]int64, error)

	Insert(ctx context.Context, attr domain.Attribute) (int64, error)
	Update(ctx context.Context, attr domain.Attribute) error
	Delete(ctx context.Context, kind domain.AttributeKind, ids []int64) error
}

// Repositories bundles the repositories bound to one store handle.
type Repositories struct {
	Products    ProductRepository
	Variants    VariantRepository
	ProductTags ProductTagRepository
	Attributes  AttributeRepository
	Outbox      OutboxRepository
}

// RepositoryFactory binds repositories to a store, which is either the
// shared store or a transaction handed to a plan step.
type RepositoryFactory func(store recordstore.Store) *Repositories
