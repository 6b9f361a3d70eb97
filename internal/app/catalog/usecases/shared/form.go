package shared

import (
	"context"
	"errors"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
)

// LoadSizes reads the sizes of a sized discipline. Other disciplines need
// no catalog and cause no store call.
func LoadSizes(ctx context.Context, attributes contracts.AttributeRepository, discipline domain.SizeDiscipline) ([]domain.Size, error) {
	if !discipline.IsSized() {
		return nil, nil
	}
	sizes, err := attributes.Sizes(ctx, discipline)
	if err != nil {
		return nil, &domain.StoreError{Step: "load_sizes", Err: err}
	}
	return sizes, nil
}

// ValidateForm checks a product form completely and returns its variant
// plan. All field problems come back together in one *domain.ValidationError.
func ValidateForm(ctx context.Context, attributes contracts.AttributeRepository, form *domain.ProductForm) (*domain.VariantPlan, error) {
	sizes, err := LoadSizes(ctx, attributes, form.Matrix.Discipline)
	if err != nil {
		return nil, err
	}

	ve := domain.NewValidationError()
	if err := checkSubcategory(ctx, attributes, form.Draft, ve); err != nil {
		return nil, err
	}

	plan, err := form.Validate(sizes)
	if err != nil {
		var formErr *domain.ValidationError
		if !errors.As(err, &formErr) {
			return nil, err
		}
		ve.Merge(formErr)
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	return plan, nil
}

// checkSubcategory adds a field error when the subcategory is unknown or
// owned by another category.
func checkSubcategory(ctx context.Context, attributes contracts.AttributeRepository, draft domain.ProductDraft, ve *domain.ValidationError) error {
	if draft.SubcategoryID <= 0 || draft.CategoryID <= 0 {
		return nil
	}
	attr, err := attributes.Get(ctx, domain.KindSubcategory, draft.SubcategoryID)
	if errors.Is(err, domain.ErrAttributeNotFound) {
		ve.Add("subcategory_id", "unknown subcategory")
		return nil
	}
	if err != nil {
		return &domain.StoreError{Step: "load_subcategory", Err: err}
	}
	if sub, ok := attr.(*domain.Subcategory); ok && sub.CategoryID != draft.CategoryID {
		ve.Add("subcategory_id", "subcategory does not belong to the selected category")
	}
	return nil
}
