package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/models/m_brand"
	"github.com/light-bringer/procat-admin/internal/models/m_category"
	"github.com/light-bringer/procat-admin/internal/models/m_color"
	"github.com/light-bringer/procat-admin/internal/models/m_material"
	"github.com/light-bringer/procat-admin/internal/models/m_size"
	"github.com/light-bringer/procat-admin/internal/models/m_subcategory"
	"github.com/light-bringer/procat-admin/internal/models/m_tag"
	"github.com/light-bringer/procat-admin/internal/pkg/query"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// AttributeRepo implements AttributeRepository for every attribute kind.
type AttributeRepo struct {
	store recordstore.Store
}

// NewAttributeRepo creates a new AttributeRepo.
func NewAttributeRepo(store recordstore.Store) contracts.AttributeRepository {
	return &AttributeRepo{store: store}
}

// attributeTables maps each kind to its table.
var attributeTables = map[domain.AttributeKind]string{
	domain.KindColor:       m_color.TableName,
	domain.KindSize:        m_size.TableName,
	domain.KindTag:         m_tag.TableName,
	domain.KindBrand:       m_brand.TableName,
	domain.KindCategory:    m_category.TableName,
	domain.KindSubcategory: m_subcategory.TableName,
	domain.KindMaterial:    m_material.TableName,
}

// TableFor returns the table holding attributes of kind.
func TableFor(kind domain.AttributeKind) (string, error) {
	table, ok := attributeTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownAttributeKind, kind)
	}
	return table, nil
}

func (r *AttributeRepo) Get(ctx context.Context, kind domain.AttributeKind, id int64) (domain.Attribute, error) {
	table, err := TableFor(kind)
	if err != nil {
		return nil, err
	}
	row, err := recordstore.SelectOne(ctx, r.store, table, query.Eq("id", id))
	if errors.Is(err, recordstore.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %d", domain.ErrAttributeNotFound, kind, id)
	}
	if err != nil {
		return nil, err
	}
	return attributeFromRow(kind, row)
}

func (r *AttributeRepo) List(ctx context.Context, kind domain.AttributeKind) ([]domain.Attribute, error) {
	table, err := TableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Select(ctx, table)
	if err != nil {
		return nil, err
	}
	attrs := make([]domain.Attribute, 0, len(rows))
	for _, row := range rows {
		attr, err := attributeFromRow(kind, row)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Identity() < attrs[j].Identity() })
	return attrs, nil
}

func (r *AttributeRepo) Sizes(ctx context.Context, discipline domain.SizeDiscipline) ([]domain.Size, error) {
	var conds []query.Condition
	if discipline != "" {
		conds = append(conds, query.Eq(m_size.Discipline, string(discipline)))
	}
	rows, err := r.store.Select(ctx, m_size.TableName, conds...)
	if err != nil {
		return nil, err
	}
	sizes := make([]domain.Size, 0, len(rows))
	for _, row := range rows {
		d := m_size.FromRow(row)
		sizes = append(sizes, domain.Size{ID: d.ID, Name: d.Name, Discipline: domain.SizeDiscipline(d.Discipline)})
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i].ID < sizes[j].ID })
	return sizes, nil
}

func (r *AttributeRepo) SubcategoryIDs(ctx context.Context, categoryID int64) ([]int64, error) {
	rows, err := r.store.Select(ctx, m_subcategory.TableName, query.Eq(m_subcategory.CategoryID, categoryID))
	if err != nil {
		return nil, err
	}
	return distinct(rows, m_subcategory.ID), nil
}

func (r *AttributeRepo) Insert(ctx context.Context, attr domain.Attribute) (int64, error) {
	table, row, err := attributeToRow(attr)
	if err != nil {
		return 0, err
	}
	rows, err := r.store.Insert(ctx, table, row)
	if err != nil {
		return 0, err
	}
	if len(rows) != 1 || rows[0].Int64("id") == 0 {
		return 0, fmt.Errorf("insert into %s returned no id", table)
	}
	return rows[0].Int64("id"), nil
}

func (r *AttributeRepo) Update(ctx context.Context, attr domain.Attribute) error {
	table, row, err := attributeToRow(attr)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, table, row, query.Eq("id", attr.Identity()))
}

func (r *AttributeRepo) Delete(ctx context.Context, kind domain.AttributeKind, ids []int64) error {
	table, err := TableFor(kind)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if len(ids) == 1 {
		return r.store.Delete(ctx, table, query.Eq("id", ids[0]))
	}
	return r.store.Delete(ctx, table, query.In("id", ids))
}

func attributeToRow(attr domain.Attribute) (string, recordstore.Row, error) {
	switch a := attr.(type) {
	case *domain.Color:
		return m_color.TableName, (&m_color.Data{Name: a.Name, Hex: a.Hex}).ToRow(), nil
	case *domain.Size:
		return m_size.TableName, (&m_size.Data{Name: a.Name, Discipline: string(a.Discipline)}).ToRow(), nil
	case *domain.Tag:
		return m_tag.TableName, (&m_tag.Data{Name: a.Name, Media: a.Media}).ToRow(), nil
	case *domain.Brand:
		return m_brand.TableName, (&m_brand.Data{Name: a.Name, Logo: a.Logo}).ToRow(), nil
	case *domain.Category:
		return m_category.TableName, (&m_category.Data{Name: a.Name}).ToRow(), nil
	case *domain.Subcategory:
		return m_subcategory.TableName, (&m_subcategory.Data{Name: a.Name, CategoryID: a.CategoryID}).ToRow(), nil
	case *domain.Material:
		return m_material.TableName, (&m_material.Data{Name: a.Name}).ToRow(), nil
	default:
		return "", nil, fmt.Errorf("%w: %T", domain.ErrUnknownAttributeKind, attr)
	}
}

func attributeFromRow(kind domain.AttributeKind, row recordstore.Row) (domain.Attribute, error) {
	switch kind {
	case domain.KindColor:
		d := m_color.FromRow(row)
		return &domain.Color{ID: d.ID, Name: d.Name, Hex: d.Hex}, nil
	case domain.KindSize:
		d := m_size.FromRow(row)
		return &domain.Size{ID: d.ID, Name: d.Name, Discipline: domain.SizeDiscipline(d.Discipline)}, nil
	case domain.KindTag:
		d := m_tag.FromRow(row)
		return &domain.Tag{ID: d.ID, Name: d.Name, Media: d.Media}, nil
	case domain.KindBrand:
		d := m_brand.FromRow(row)
		return &domain.Brand{ID: d.ID, Name: d.Name, Logo: d.Logo}, nil
	case domain.KindCategory:
		d := m_category.FromRow(row)
		return &domain.Category{ID: d.ID, Name: d.Name}, nil
	case domain.KindSubcategory:
		d := m_subcategory.FromRow(row)
		return &domain.Subcategory{ID: d.ID, Name: d.Name, CategoryID: d.CategoryID}, nil
	case domain.KindMaterial:
		d := m_material.FromRow(row)
		return &domain.Material{ID: d.ID, Name: d.Name}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAttributeKind, kind)
	}
}
