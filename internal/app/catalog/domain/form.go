package domain

// ProductForm is the request-scoped state of a product create or edit.
type ProductForm struct {
	Draft  ProductDraft
	TagIDs []int64
	Matrix MatrixInput
	// RemovedImages are stored image URLs the user removed while editing.
	RemovedImages []string
}

// Tags returns the selected tag ids without duplicates.
func (f *ProductForm) Tags() []int64 {
	return uniqueIDs(f.TagIDs)
}

// Validate checks the product fields and the variant matrix together and
// returns the plan only when both are valid.
func (f *ProductForm) Validate(sizes []Size) (*VariantPlan, error) {
	ve := NewValidationError()
	f.Draft.Validate(ve)
	if len(f.Tags()) == 0 {
		ve.Add("tags", "select at least one tag")
	}

	plan, err := BuildVariantPlan(f.Matrix, sizes)
	if err != nil {
		matrixErr, ok := err.(*ValidationError)
		if !ok {
			return nil, err
		}
		ve.Merge(matrixErr)
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	return plan, nil
}
