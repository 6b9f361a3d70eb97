package list_attributes

import (
	"context"
	"fmt"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
)

// Request selects the attribute kind to list. Discipline narrows sizes.
type Request struct {
	Kind       domain.AttributeKind
	Discipline domain.SizeDiscipline
}

// Query handles the list attributes query use case.
type Query struct {
	attributes contracts.AttributeRepository
}

// NewQuery creates a new list attributes query.
func NewQuery(attributes contracts.AttributeRepository) *Query {
	return &Query{
		attributes: attributes,
	}
}

// Execute returns the attributes of a kind ordered by id.
func (q *Query) Execute(ctx context.Context, req *Request) ([]domain.Attribute, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAttributeKind, req.Kind)
	}
	if req.Kind != domain.KindSize || req.Discipline == "" {
		return q.attributes.List(ctx, req.Kind)
	}

	sizes, err := q.attributes.Sizes(ctx, req.Discipline)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Attribute, 0, len(sizes))
	for i := range sizes {
		out = append(out, &sizes[i])
	}
	return out, nil
}
