package delete_attribute

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/shared"
	"github.com/light-bringer/procat-admin/internal/models/m_product"
	"github.com/light-bringer/procat-admin/internal/pkg/clock"
	"github.com/light-bringer/procat-admin/internal/pkg/committer"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// Step names, in the order they run.
const (
	StepCollectSubcategories = "collect_subcategories"
	StepCollectProducts      = "collect_products"
	StepDeleteVariants       = "delete_variants"
	StepDeleteProductTags    = "delete_product_tags"
	StepFindOrphans          = "find_orphans"
	StepDeleteOrphanTags     = "delete_orphan_tags"
	StepDeleteOrphanVariants = "delete_orphan_variants"
	StepDeleteOrphans        = "delete_orphans"
	StepDeleteSubcategories  = "delete_subcategories"
	StepDeleteAttribute      = "delete_attribute"
)

// Options tune the cascade.
type Options struct {
	// Transactional runs the cascade in one transaction when the store can.
	Transactional bool
	// PreserveSurvivingTags removes tag links only from confirmed orphans
	// when a color or size is deleted.
	PreserveSurvivingTags bool
}

// Request identifies the attribute to delete.
type Request struct {
	Kind domain.AttributeKind
	ID   int64
}

// Response describes what the cascade touched.
type Response struct {
	AffectedProducts []int64
	DeletedProducts  []int64
}

// Interactor handles the delete attribute use case.
type Interactor struct {
	repos     contracts.RepositoryFactory
	committer *committer.Committer
	events    *shared.EventRecorder
	clock     clock.Clock
	logger    *zap.Logger
	opts      Options
}

// NewInteractor creates a new delete attribute interactor.
func NewInteractor(
	repos contracts.RepositoryFactory,
	committer *committer.Committer,
	events *shared.EventRecorder,
	clock clock.Clock,
	logger *zap.Logger,
	opts Options,
) *Interactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{
		repos:     repos,
		committer: committer,
		events:    events,
		clock:     clock,
		logger:    logger,
		opts:      opts,
	}
}

// cascade carries the ids discovered by earlier steps to later ones.
type cascade struct {
	subcategories []int64
	affected      []int64
	orphans       []int64
}

// Execute deletes the attribute and every row that can no longer exist
// without it. Deleting an attribute that is already gone succeeds.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Validate request
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAttributeKind, req.Kind)
	}
	if req.ID <= 0 {
		ve := domain.NewValidationError()
		ve.Add("id", "id must be positive")
		return nil, ve
	}

	// 2. Build the cascade plan for the attribute's shape
	state := &cascade{}
	var plan *committer.Plan
	switch req.Kind.Shape() {
	case domain.VariantOwned:
		plan = i.variantOwnedPlan(req, state)
	case domain.ProductOwned:
		plan = i.productOwnedPlan(req, state)
	default:
		plan = i.productReferencedPlan(req, state)
	}

	// 3. Apply it
	log := i.logger.With(zap.String("kind", string(req.Kind)), zap.Int64("id", req.ID))
	var err error
	if i.opts.Transactional {
		err = i.committer.ApplyAtomic(ctx, plan)
	} else {
		err = i.committer.Apply(ctx, plan)
	}
	if err != nil {
		log.Error("attribute cascade failed", zap.Error(err))
		return nil, shared.CascadeFailure(err, req.Kind, req.ID)
	}

	log.Info("attribute deleted",
		zap.Int64s("affected_products", state.affected),
		zap.Int64s("deleted_products", state.orphans),
	)

	// 4. Record the outcome
	i.events.Record(ctx, &domain.AttributeDeletedEvent{
		Kind:             req.Kind,
		AttributeID:      req.ID,
		AffectedProducts: state.affected,
		DeletedProducts:  state.orphans,
		DeletedAt:        i.clock.Now(),
	})

	return &Response{AffectedProducts: state.affected, DeletedProducts: state.orphans}, nil
}

// variantOwnedPlan deletes a color or size: variants first, then products
// left without variants, then the attribute.
func (i *Interactor) variantOwnedPlan(req *Request, state *cascade) *committer.Plan {
	plan := committer.NewPlan()
	plan.Read(StepCollectProducts, func(ctx context.Context, s recordstore.Store) error {
		ids, err := i.repos(s).Variants.ProductIDsUsing(ctx, req.Kind, req.ID)
		state.affected = ids
		return err
	})
	plan.Write(StepDeleteVariants, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).Variants.DeleteUsing(ctx, req.Kind, req.ID)
	})
	if !i.opts.PreserveSurvivingTags {
		plan.Write(StepDeleteProductTags, func(ctx context.Context, s recordstore.Store) error {
			return i.repos(s).ProductTags.DeleteByProducts(ctx, state.affected)
		})
	}
	plan.Read(StepFindOrphans, func(ctx context.Context, s recordstore.Store) error {
		remaining, err := i.repos(s).Variants.ByProducts(ctx, state.affected)
		if err != nil {
			return err
		}
		alive := make(map[int64]bool, len(remaining))
		for _, v := range remaining {
			alive[v.ProductID] = true
		}
		state.orphans = without(state.affected, alive)
		return nil
	})
	if i.opts.PreserveSurvivingTags {
		plan.Write(StepDeleteOrphanTags, func(ctx context.Context, s recordstore.Store) error {
			return i.repos(s).ProductTags.DeleteByProducts(ctx, state.orphans)
		})
	}
	plan.Write(StepDeleteOrphans, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).Products.Delete(ctx, state.orphans)
	})
	i.addDeleteAttribute(plan, req)
	return plan
}

// productOwnedPlan deletes a tag: its links first, then products left
// without tags together with their variants, then the tag.
func (i *Interactor) productOwnedPlan(req *Request, state *cascade) *committer.Plan {
	plan := committer.NewPlan()
	plan.Read(StepCollectProducts, func(ctx context.Context, s recordstore.Store) error {
		ids, err := i.repos(s).ProductTags.ProductIDsForTag(ctx, req.ID)
		state.affected = ids
		return err
	})
	plan.Write(StepDeleteProductTags, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).ProductTags.DeleteByTag(ctx, req.ID)
	})
	plan.Read(StepFindOrphans, func(ctx context.Context, s recordstore.Store) error {
		remaining, err := i.repos(s).ProductTags.TagIDsByProduct(ctx, state.affected)
		if err != nil {
			return err
		}
		alive := make(map[int64]bool, len(remaining))
		for productID, tags := range remaining {
			alive[productID] = len(tags) > 0
		}
		state.orphans = without(state.affected, alive)
		return nil
	})
	plan.Write(StepDeleteOrphanVariants, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).Variants.DeleteByProducts(ctx, state.orphans)
	})
	plan.Write(StepDeleteOrphans, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).Products.Delete(ctx, state.orphans)
	})
	i.addDeleteAttribute(plan, req)
	return plan
}

// productReferencedPlan deletes a brand, category, subcategory or material.
// Every product referencing it is an orphan.
func (i *Interactor) productReferencedPlan(req *Request, state *cascade) *committer.Plan {
	plan := committer.NewPlan()
	column := productColumn(req.Kind)

	if req.Kind == domain.KindCategory {
		plan.Read(StepCollectSubcategories, func(ctx context.Context, s recordstore.Store) error {
			ids, err := i.repos(s).Attributes.SubcategoryIDs(ctx, req.ID)
			state.subcategories = ids
			return err
		})
	}
	plan.Read(StepCollectProducts, func(ctx context.Context, s recordstore.Store) error {
		products := i.repos(s).Products
		ids, err := products.IDsReferencing(ctx, column, []int64{req.ID})
		if err != nil {
			return err
		}
		if len(state.subcategories) > 0 {
			more, err := products.IDsReferencing(ctx, m_product.SubcategoryID, state.subcategories)
			if err != nil {
				return err
			}
			ids = union(ids, more)
		}
		state.affected = ids
		state.orphans = ids
		return nil
	})
	plan.Write(StepDeleteOrphanVariants, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).Variants.DeleteByProducts(ctx, state.orphans)
	})
	plan.Write(StepDeleteOrphanTags, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).ProductTags.DeleteByProducts(ctx, state.orphans)
	})
	plan.Write(StepDeleteOrphans, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).Products.Delete(ctx, state.orphans)
	})
	if req.Kind == domain.KindCategory {
		plan.Write(StepDeleteSubcategories, func(ctx context.Context, s recordstore.Store) error {
			return i.repos(s).Attributes.Delete(ctx, domain.KindSubcategory, state.subcategories)
		})
	}
	i.addDeleteAttribute(plan, req)
	return plan
}

func (i *Interactor) addDeleteAttribute(plan *committer.Plan, req *Request) {
	plan.Write(StepDeleteAttribute, func(ctx context.Context, s recordstore.Store) error {
		return i.repos(s).Attributes.Delete(ctx, req.Kind, []int64{req.ID})
	})
}

func productColumn(kind domain.AttributeKind) string {
	switch kind {
	case domain.KindBrand:
		return m_product.BrandID
	case domain.KindCategory:
		return m_product.CategoryID
	case domain.KindSubcategory:
		return m_product.SubcategoryID
	default:
		return m_product.MaterialID
	}
}

// without keeps the ids not marked alive, preserving order.
func without(ids []int64, alive map[int64]bool) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !alive[id] {
			out = append(out, id)
		}
	}
	return out
}

func union(a, b []int64) []int64 {
	seen := make(map[int64]bool, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, id := range append(append([]int64{}, a...), b...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
