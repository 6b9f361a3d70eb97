package save_attribute

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/app/catalog/media"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/shared"
	"github.com/light-bringer/procat-admin/internal/models/m_product"
	"github.com/light-bringer/procat-admin/internal/pkg/clock"
	"github.com/light-bringer/procat-admin/internal/platform/objectstore"
)

// Request creates an attribute when ID is 0 and edits it otherwise.
type Request struct {
	Kind   domain.AttributeKind
	ID     int64
	Fields domain.AttributeFields
	// Media replaces the image of tags and brands.
	Media       *domain.Upload
	RemoveMedia bool
}

// Response contains the stored attribute.
type Response struct {
	ID      int64
	Created bool
}

// Interactor handles attribute create and edit.
type Interactor struct {
	repos    *contracts.Repositories
	uploader *media.Uploader
	events   *shared.EventRecorder
	clock    clock.Clock
	logger   *zap.Logger
}

// NewInteractor creates a new save attribute interactor.
func NewInteractor(
	repos *contracts.Repositories,
	uploader *media.Uploader,
	events *shared.EventRecorder,
	clock clock.Clock,
	logger *zap.Logger,
) *Interactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{
		repos:    repos,
		uploader: uploader,
		events:   events,
		clock:    clock,
		logger:   logger,
	}
}

// Execute validates and stores the attribute. A new image is uploaded
// before the row is written and the image it replaces is deleted only after
// the write succeeded.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Validate request
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAttributeKind, req.Kind)
	}
	if (req.Media != nil || req.RemoveMedia) && !req.Kind.HoldsMedia() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoMediaCapability, req.Kind)
	}
	attr, err := domain.NewAttribute(req.Kind, req.ID, req.Fields)
	if err != nil {
		return nil, err
	}
	ve := domain.NewValidationError()
	attr.Validate(ve)
	if err := i.checkParent(ctx, attr, ve); err != nil {
		return nil, err
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	// 2. Carry over the stored media on edit
	var previous *string
	holder, holdsMedia := attr.(domain.MediaHolder)
	if req.ID != 0 {
		existing, err := i.repos.Attributes.Get(ctx, req.Kind, req.ID)
		if errors.Is(err, domain.ErrAttributeNotFound) {
			return nil, err
		}
		if err != nil {
			return nil, &domain.StoreError{Step: "load_attribute", Err: err}
		}
		if err := i.checkInUse(ctx, existing, attr); err != nil {
			return nil, err
		}
		if stored, ok := existing.(domain.MediaHolder); ok && holdsMedia {
			previous = stored.MediaURL()
			holder.SetMediaURL(previous)
		}
	}

	// 3. Upload the new image
	var uploaded string
	if req.Media != nil {
		folder, err := objectstore.BuildFolder(mediaPurpose(req.Kind), objectstore.FolderParams{})
		if err != nil {
			return nil, err
		}
		uploaded, err = i.uploader.Put(ctx, folder, req.Media)
		if err != nil {
			return nil, err
		}
		holder.SetMediaURL(&uploaded)
	} else if req.RemoveMedia {
		holder.SetMediaURL(nil)
	}

	// 4. Write the row
	resp := &Response{ID: req.ID, Created: req.ID == 0}
	if resp.Created {
		resp.ID, err = i.repos.Attributes.Insert(ctx, attr)
		err = wrapStore("insert_attribute", err)
	} else {
		err = wrapStore("update_attribute", i.repos.Attributes.Update(ctx, attr))
	}
	if err != nil {
		if uploaded != "" {
			if cleanupErr := i.uploader.DeleteAll(ctx, []string{uploaded}); cleanupErr != nil {
				i.logger.Warn("failed to remove orphaned upload", zap.String("url", uploaded), zap.Error(cleanupErr))
			}
		}
		return nil, err
	}

	log := i.logger.With(zap.String("kind", string(req.Kind)), zap.Int64("attribute_id", resp.ID))
	log.Info("attribute saved", zap.Bool("created", resp.Created))

	// 5. Record event
	i.events.Record(ctx, &domain.AttributeSavedEvent{
		Kind:        req.Kind,
		AttributeID: resp.ID,
		Created:     resp.Created,
		SavedAt:     i.clock.Now(),
	})

	// 6. Delete the replaced image
	if previous != nil && (req.Media != nil || req.RemoveMedia) {
		if err := i.uploader.DeleteAll(ctx, []string{*previous}); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// checkParent verifies that a subcategory points at an existing category.
func (i *Interactor) checkParent(ctx context.Context, attr domain.Attribute, ve *domain.ValidationError) error {
	sub, ok := attr.(*domain.Subcategory)
	if !ok || sub.CategoryID <= 0 {
		return nil
	}
	_, err := i.repos.Attributes.Get(ctx, domain.KindCategory, sub.CategoryID)
	if errors.Is(err, domain.ErrAttributeNotFound) {
		ve.Add("category_id", "unknown category")
		return nil
	}
	if err != nil {
		return &domain.StoreError{Step: "load_category", Err: err}
	}
	return nil
}

// checkInUse rejects edits that would break products already using the
// attribute: a size changing discipline under existing variants, or a
// subcategory moving to another category under existing products.
func (i *Interactor) checkInUse(ctx context.Context, existing, updated domain.Attribute) error {
	ve := domain.NewValidationError()
	switch next := updated.(type) {
	case *domain.Size:
		prev, ok := existing.(*domain.Size)
		if !ok || prev.Discipline == next.Discipline {
			return nil
		}
		ids, err := i.repos.Variants.ProductIDsUsing(ctx, domain.KindSize, next.ID)
		if err != nil {
			return &domain.StoreError{Step: "load_size_usage", Err: err}
		}
		if len(ids) > 0 {
			ve.Add("discipline", fmt.Sprintf("size is used by %d product(s)", len(ids)))
		}
	case *domain.Subcategory:
		prev, ok := existing.(*domain.Subcategory)
		if !ok || prev.CategoryID == next.CategoryID {
			return nil
		}
		ids, err := i.repos.Products.IDsReferencing(ctx, m_product.SubcategoryID, []int64{next.ID})
		if err != nil {
			return &domain.StoreError{Step: "load_subcategory_usage", Err: err}
		}
		if len(ids) > 0 {
			ve.Add("category_id", fmt.Sprintf("subcategory is used by %d product(s)", len(ids)))
		}
	}
	return ve.Err()
}

func mediaPurpose(kind domain.AttributeKind) objectstore.Purpose {
	if kind == domain.KindBrand {
		return objectstore.PurposeBrandLogo
	}
	return objectstore.PurposeTagMedia
}

func wrapStore(step string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.StoreError{Step: step, Err: err}
}
