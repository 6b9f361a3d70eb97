package create_product

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/shared"
	"github.com/light-bringer/procat-admin/internal/pkg/clock"
	"github.com/light-bringer/procat-admin/internal/pkg/committer"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

const (
	StepInsertProduct = "insert_product"
	StepInsertTags    = "insert_product_tags"
)

// Request contains the data needed to create a product.
type Request struct {
	Form domain.ProductForm
}

// Interactor handles the create product use case.
type Interactor struct {
	repos     contracts.RepositoryFactory
	variants  *shared.VariantWriter
	committer *committer.Committer
	events    *shared.EventRecorder
	clock     clock.Clock
	logger    *zap.Logger
}

// NewInteractor creates a new create product interactor.
func NewInteractor(
	repos contracts.RepositoryFactory,
	variants *shared.VariantWriter,
	committer *committer.Committer,
	events *shared.EventRecorder,
	clock clock.Clock,
	logger *zap.Logger,
) *Interactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{
		repos:     repos,
		variants:  variants,
		committer: committer,
		events:    events,
		clock:     clock,
		logger:    logger,
	}
}

// Execute validates the form and stores the product, its tags and its
// variants. Steps commit one by one; a failure leaves earlier steps in place
// and is returned as *domain.StoreError or *domain.UploadError.
func (i *Interactor) Execute(ctx context.Context, req *Request) (int64, error) {
	// 1. Validate the whole form before any write
	attributes := i.repos(i.committer.Store()).Attributes
	variantPlan, err := shared.ValidateForm(ctx, attributes, &req.Form)
	if err != nil {
		return 0, err
	}

	// 2. Create domain aggregate
	product, err := domain.NewProduct(req.Form.Draft, i.clock.Now())
	if err != nil {
		return 0, err
	}

	// 3. Build the plan
	var productID int64
	written := make([]*domain.Variant, 0, len(variantPlan.Variants))
	tags := req.Form.Tags()

	plan := committer.NewPlan()
	plan.Write(StepInsertProduct, func(ctx context.Context, s recordstore.Store) error {
		id, err := i.repos(s).Products.Insert(ctx, product)
		if err != nil {
			return err
		}
		productID = id
		product.MarkPersisted(id)
		return nil
	})
	plan.Write(StepInsertTags, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).ProductTags.Insert(ctx, productID, tags)
	})
	i.variants.AddSteps(plan, &productID, variantPlan.Variants, &written)

	// 4. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		i.logger.Error("product create failed", zap.Int64("product_id", productID), zap.Error(err))
		return 0, shared.StepFailure(err, "commit")
	}

	i.logger.Info("product created",
		zap.Int64("product_id", productID),
		zap.Int("variants", len(written)),
		zap.Int("uploads", variantPlan.Uploads()),
	)

	// 5. Record event
	product.MarkCreated(len(written))
	i.events.Record(ctx, product.DomainEvents()...)
	product.ClearEvents()

	return productID, nil
}
