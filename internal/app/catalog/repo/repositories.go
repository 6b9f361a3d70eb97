package repo

import (
	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/models/m_brand"
	"github.com/light-bringer/procat-admin/internal/models/m_category"
	"github.com/light-bringer/procat-admin/internal/models/m_color"
	"github.com/light-bringer/procat-admin/internal/models/m_material"
	"github.com/light-bringer/procat-admin/internal/models/m_product"
	"github.com/light-bringer/procat-admin/internal/models/m_product_variant"
	"github.com/light-bringer/procat-admin/internal/models/m_size"
	"github.com/light-bringer/procat-admin/internal/models/m_subcategory"
	"github.com/light-bringer/procat-admin/internal/models/m_tag"
	"github.com/light-bringer/procat-admin/internal/pkg/clock"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// NewRepositories binds every repository to store.
func NewRepositories(store recordstore.Store, clk clock.Clock) *contracts.Repositories {
	return &contracts.Repositories{
		Products:    NewProductRepo(store, clk),
		Variants:    NewVariantRepo(store),
		ProductTags: NewProductTagRepo(store),
		Attributes:  NewAttributeRepo(store),
		Outbox:      NewOutboxRepo(store, clk),
	}
}

// NewFactory returns a RepositoryFactory using clk.
func NewFactory(clk clock.Clock) contracts.RepositoryFactory {
	return func(store recordstore.Store) *contracts.Repositories {
		return NewRepositories(store, clk)
	}
}

// IdentityTables lists the tables whose id the store assigns on insert.
func IdentityTables() []string {
	return []string{
		m_product.TableName,
		m_product_variant.TableName,
		m_color.TableName,
		m_size.TableName,
		m_tag.TableName,
		m_brand.TableName,
		m_category.TableName,
		m_subcategory.TableName,
		m_material.TableName,
	}
}
