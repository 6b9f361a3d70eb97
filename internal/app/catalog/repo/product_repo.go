package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/models/m_product"
	"github.com/light-bringer/procat-admin/internal/pkg/clock"
	"github.com/light-bringer/procat-admin/internal/pkg/query"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// ProductRepo implements ProductRepository over a record store.
type ProductRepo struct {
	store recordstore.Store
	clock clock.Clock
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(store recordstore.Store, clk clock.Clock) contracts.ProductRepository {
	return &ProductRepo{store: store, clock: clk}
}

// Insert stores a new product and returns its assigned id.
func (r *ProductRepo) Insert(ctx context.Context, product *domain.Product) (int64, error) {
	rows, err := r.store.Insert(ctx, m_product.TableName, r.domainToData(product).ToRow())
	if err != nil {
		return 0, err
	}
	if len(rows) != 1 {
		return 0, fmt.Errorf("insert into %s returned %d rows", m_product.TableName, len(rows))
	}
	id := rows[0].Int64(m_product.ID)
	if id == 0 {
		return 0, fmt.Errorf("insert into %s returned no id", m_product.TableName)
	}
	return id, nil
}

// Update writes only the dirty fields of product.
func (r *ProductRepo) Update(ctx context.Context, product *domain.Product) error {
	changes := product.Changes()
	if !changes.HasChanges() {
		return nil
	}

	draft := product.Draft()
	updates := make(recordstore.Row)
	for _, field := range changes.DirtyFields() {
		switch field {
		case domain.FieldName:
			updates[m_product.Name] = draft.Name
		case domain.FieldDescription:
			updates[m_product.Description] = draft.Description
		case domain.FieldPrice:
			updates[m_product.Price] = draft.Price
		case domain.FieldType:
			updates[m_product.Type] = string(draft.Type)
		case domain.FieldStatus:
			updates[m_product.Status] = string(draft.Status)
		case domain.FieldBrand:
			updates[m_product.BrandID] = draft.BrandID
		case domain.FieldCategory:
			updates[m_product.CategoryID] = draft.CategoryID
		case domain.FieldSubcategory:
			updates[m_product.SubcategoryID] = draft.SubcategoryID
		case domain.FieldMaterial:
			updates[m_product.MaterialID] = draft.MaterialID
		}
	}

	// Always update the updated_at timestamp when any field changes
	updates[m_product.UpdatedAt] = r.clock.Now()

	return r.store.Update(ctx, m_product.TableName, updates, query.Eq(m_product.ID, product.ID()))
}

// GetByID retrieves a product by ID, reconstructing the domain aggregate.
func (r *ProductRepo) GetByID(ctx context.Context, productID int64) (*domain.Product, error) {
	row, err := recordstore.SelectOne(ctx, r.store, m_product.TableName, query.Eq(m_product.ID, productID))
	if errors.Is(err, recordstore.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.dataToDomain(m_product.FromRow(row)), nil
}

// IDsReferencing returns the distinct ids of products whose column matches ids.
func (r *ProductRepo) IDsReferencing(ctx context.Context, column string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.store.Select(ctx, m_product.TableName, query.In(column, ids))
	if err != nil {
		return nil, err
	}
	return distinct(rows, m_product.ID), nil
}

// Delete removes the given products.
func (r *ProductRepo) Delete(ctx context.Context, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.store.Delete(ctx, m_product.TableName, query.In(m_product.ID, productIDs))
}

func (r *ProductRepo) domainToData(p *domain.Product) *m_product.Data {
	d := p.Draft()
	return &m_product.Data{
		ID:            p.ID(),
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		Type:          string(d.Type),
		BrandID:       d.BrandID,
		CategoryID:    d.CategoryID,
		SubcategoryID: d.SubcategoryID,
		MaterialID:    d.MaterialID,
		Status:        string(d.Status),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func (r *ProductRepo) dataToDomain(data *m_product.Data) *domain.Product {
	return domain.ReconstructProduct(data.ID, domain.ProductDraft{
		Name:          data.Name,
		Description:   data.Description,
		Price:         data.Price,
		Type:          domain.ProductType(data.Type),
		Status:        domain.ProductStatus(data.Status),
		BrandID:       data.BrandID,
		CategoryID:    data.CategoryID,
		SubcategoryID: data.SubcategoryID,
		MaterialID:    data.MaterialID,
	}, data.CreatedAt, data.UpdatedAt)
}
