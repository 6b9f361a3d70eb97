package delete_product

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/shared"
	"github.com/light-bringer/procat-admin/internal/pkg/clock"
	"github.com/light-bringer/procat-admin/internal/pkg/committer"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// Request contains the product ID to delete.
type Request struct {
	ProductID int64
}

// Interactor handles the delete product use case.
type Interactor struct {
	repos         contracts.RepositoryFactory
	committer     *committer.Committer
	events        *shared.EventRecorder
	clock         clock.Clock
	logger        *zap.Logger
	transactional bool
}

// NewInteractor creates a new delete product interactor.
func NewInteractor(
	repos contracts.RepositoryFactory,
	committer *committer.Committer,
	events *shared.EventRecorder,
	clock clock.Clock,
	logger *zap.Logger,
	transactional bool,
) *Interactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{
		repos:         repos,
		committer:     committer,
		events:        events,
		clock:         clock,
		logger:        logger,
		transactional: transactional,
	}
}

// Execute deletes the product's variants, then its tag links, then the
// product itself.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	// 1. Load the product
	product, err := i.repos(i.committer.Store()).Products.GetByID(ctx, req.ProductID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return err
	}
	if err != nil {
		return &domain.StoreError{Step: "load_product", Err: err}
	}
	ids := []int64{product.ID()}

	// 2. Build the plan
	plan := committer.NewPlan()
	plan.Write("delete_variants", func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).Variants.DeleteByProducts(ctx, ids)
	})
	plan.Write("delete_product_tags", func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).ProductTags.DeleteByProducts(ctx, ids)
	})
	plan.Write("delete_product", func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).Products.Delete(ctx, ids)
	})

	// 3. Apply plan
	if i.transactional {
		err = i.committer.ApplyAtomic(ctx, plan)
	} else {
		err = i.committer.Apply(ctx, plan)
	}
	if err != nil {
		i.logger.Error("product delete failed", zap.Int64("product_id", product.ID()), zap.Error(err))
		return shared.StepFailure(err, "commit")
	}
	i.logger.Info("product deleted", zap.Int64("product_id", product.ID()))

	// 4. Record event
	product.MarkDeleted(i.clock.Now())
	i.events.Record(ctx, product.DomainEvents()...)
	return nil
}
