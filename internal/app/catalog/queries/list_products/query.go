package list_products

import (
	"context"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Request contains filtering and pagination parameters.
type Request struct {
	Status     string
	BrandID    int64
	CategoryID int64
	Limit      int64
	Offset     int64
}

// Query handles the list products query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new list products query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves a page of products, newest first.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ListResult, error) {
	filter := &contracts.ListFilter{
		Status:     req.Status,
		BrandID:    req.BrandID,
		CategoryID: req.CategoryID,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return q.readModel.ListProducts(ctx, filter)
}
