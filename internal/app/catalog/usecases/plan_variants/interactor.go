package plan_variants

import (
	"context"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/shared"
)

// Request carries the variant section of a product form.
type Request struct {
	Matrix domain.MatrixInput
}

// Interactor validates a variant matrix and returns the variant tuples it
// would persist, without writing anything.
type Interactor struct {
	attributes contracts.AttributeRepository
}

// NewInteractor creates a new plan variants interactor.
func NewInteractor(attributes contracts.AttributeRepository) *Interactor {
	return &Interactor{attributes: attributes}
}

// Execute returns the plan or a *domain.ValidationError listing every problem.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.VariantPlan, error) {
	sizes, err := shared.LoadSizes(ctx, i.attributes, req.Matrix.Discipline)
	if err != nil {
		return nil, err
	}
	return domain.BuildVariantPlan(req.Matrix, sizes)
}
