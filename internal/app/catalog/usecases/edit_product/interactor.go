package edit_product

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/app/catalog/media"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/shared"
	"github.com/light-bringer/procat-admin/internal/pkg/clock"
	"github.com/light-bringer/procat-admin/internal/pkg/committer"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

const (
	StepUpdateProduct     = "update_product"
	StepLoadVariants      = "load_variants"
	StepLoadTags          = "load_tags"
	StepInsertTags        = "insert_product_tags"
	StepDeleteTags        = "delete_product_tags"
	StepDeleteOldVariants = "delete_old_variants"
)

// Request contains the product to edit and its complete new state.
type Request struct {
	ProductID int64
	Form      domain.ProductForm
}

// Interactor handles the edit product use case.
type Interactor struct {
	repos     contracts.RepositoryFactory
	variants  *shared.VariantWriter
	uploader  *media.Uploader
	committer *committer.Committer
	events    *shared.EventRecorder
	clock     clock.Clock
	logger    *zap.Logger
}

// NewInteractor creates a new edit product interactor.
func NewInteractor(
	repos contracts.RepositoryFactory,
	variants *shared.VariantWriter,
	uploader *media.Uploader,
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
		uploader:  uploader,
		committer: committer,
		events:    events,
		clock:     clock,
		logger:    logger,
	}
}

// Execute rewrites the product to match the form. The variant set is
// replaced wholesale: the previous variants are deleted first and the new
// set written afterwards, so a product never carries both. Images the
// user removed are deleted from the object store only after every write
// succeeded.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	base := i.repos(i.committer.Store())

	// 1. Load the product
	product, err := base.Products.GetByID(ctx, req.ProductID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return err
	}
	if err != nil {
		return &domain.StoreError{Step: "load_product", Err: err}
	}

	// 2. Validate the whole form before any write
	variantPlan, err := shared.ValidateForm(ctx, base.Attributes, &req.Form)
	if err != nil {
		return err
	}
	now := i.clock.Now()
	if err := product.Apply(req.Form.Draft, now); err != nil {
		return err
	}

	// 3. Build the plan
	productID := product.ID()
	newTags := req.Form.Tags()
	var oldVariants []*domain.Variant
	var oldTags []int64
	written := make([]*domain.Variant, 0, len(variantPlan.Variants))

	plan := committer.NewPlan()
	plan.Write(StepUpdateProduct, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).Products.Update(ctx, product)
	})
	plan.Read(StepLoadVariants, func(ctx context.Context, s recordstore.Store) error {
		variants, err := i.repos(s).Variants.ByProducts(ctx, []int64{productID})
		oldVariants = variants
		return err
	})
	plan.Read(StepLoadTags, func(ctx context.Context, s recordstore.Store) error {
		tags, err := i.repos(s).ProductTags.TagIDsByProduct(ctx, []int64{productID})
		if err != nil {
			return err
		}
		oldTags = tags[productID]
		return nil
	})
	plan.Write(StepInsertTags, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).ProductTags.Insert(ctx, productID, difference(newTags, oldTags))
	})
	plan.Write(StepDeleteTags, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).ProductTags.Delete(ctx, productID, difference(oldTags, newTags))
	})
	plan.Write(StepDeleteOldVariants, func(ctx context.Context, s recordstore.Store) error {
		ids := make([]int64, 0, len(oldVariants))
		for _, v := range oldVariants {
			ids = append(ids, v.ID)
		}
		return i.repos(s).Variants.DeleteByIDs(ctx, ids)
	})
	i.variants.AddSteps(plan, &productID, variantPlan.Variants, &written)

	// 4. Apply plan
	log := i.logger.With(zap.Int64("product_id", productID))
	if err := i.committer.Apply(ctx, plan); err != nil {
		log.Error("product edit failed", zap.Error(err))
		return shared.StepFailure(err, "commit")
	}
	log.Info("product edited",
		zap.Bool("type_changed", product.TypeChanged()),
		zap.Int("old_variants", len(oldVariants)),
		zap.Int("new_variants", len(written)),
	)

	// 5. Record event
	product.MarkUpdated(len(written), now)
	i.events.Record(ctx, product.DomainEvents()...)
	product.ClearEvents()

	// 6. Delete removed images now that nothing written references them
	removed := removableImages(req.Form.RemovedImages, oldVariants, written)
	if err := i.uploader.DeleteAll(ctx, removed); err != nil {
		return err
	}
	return nil
}

// removableImages keeps the requested URLs that belonged to the previous
// variants and are not used by the new ones.
func removableImages(requested []string, before, after []*domain.Variant) []string {
	owned := make(map[string]bool)
	for _, v := range before {
		for _, url := range v.Images {
			owned[url] = true
		}
	}
	for _, v := range after {
		for _, url := range v.Images {
			delete(owned, url)
		}
	}
	out := make([]string, 0, len(requested))
	seen := make(map[string]bool, len(requested))
	for _, url := range requested {
		if owned[url] && !seen[url] {
			seen[url] = true
			out = append(out, url)
		}
	}
	return out
}

// difference returns the ids of a missing from b, in a's order.
func difference(a, b []int64) []int64 {
	in := make(map[int64]bool, len(b))
	for _, id := range b {
		in[id] = true
	}
	out := make([]int64, 0, len(a))
	for _, id := range a {
		if !in[id] {
			out = append(out, id)
		}
	}
	return out
}
