package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttributeKind(t *testing.T) {
	kind, err := ParseAttributeKind(" Color ")
	require.NoError(t, err)
	assert.Equal(t, KindColor, kind)

	_, err = ParseAttributeKind("fabric")
	assert.ErrorIs(t, err, ErrUnknownAttributeKind)
}

func TestAttributeKind_Shape(t *testing.T) {
	tests := []struct {
		kind  AttributeKind
		shape CascadeShape
		media bool
	}{
		{KindColor, VariantOwned, false},
		{KindSize, VariantOwned, false},
		{KindTag, ProductOwned, true},
		{KindBrand, ProductReferenced, true},
		{KindCategory, ProductReferenced, false},
		{KindSubcategory, ProductReferenced, false},
		{KindMaterial, ProductReferenced, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.shape, tt.kind.Shape())
			assert.Equal(t, tt.media, tt.kind.HoldsMedia())

			attr, err := NewAttribute(tt.kind, 1, AttributeFields{Name: "x"})
			require.NoError(t, err)
			_, isHolder := attr.(MediaHolder)
			assert.Equal(t, tt.media, isHolder)
		})
	}
}

func TestAttribute_Validate(t *testing.T) {
	tests := []struct {
		name   string
		kind   AttributeKind
		fields AttributeFields
		errs   []string
	}{
		{"color ok", KindColor, AttributeFields{Name: "Red", Hex: "#ff0000"}, nil},
		{"color short hex", KindColor, AttributeFields{Name: "Red", Hex: "#f00"}, nil},
		{"color bad hex", KindColor, AttributeFields{Name: "Red", Hex: "red"}, []string{"hex"}},
		{"size ok", KindSize, AttributeFields{Name: "M", Discipline: "Alpha"}, nil},
		{"size none discipline", KindSize, AttributeFields{Name: "M", Discipline: "none"}, []string{"discipline"}},
		{"subcategory without category", KindSubcategory, AttributeFields{Name: "Tees"}, []string{"category_id"}},
		{"blank name", KindMaterial, AttributeFields{Name: "  "}, []string{"name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, err := NewAttribute(tt.kind, 0, tt.fields)
			require.NoError(t, err)
			ve := NewValidationError()
			attr.Validate(ve)
			assert.Len(t, ve.Fields, len(tt.errs))
			for _, key := range tt.errs {
				assert.Contains(t, ve.Fields, key)
			}
		})
	}

	_, err := NewAttribute("fabric", 0, AttributeFields{})
	assert.ErrorIs(t, err, ErrUnknownAttributeKind)
}

func TestMediaHolder(t *testing.T) {
	url := "memory://catalog/brands/logo.png"
	var holder MediaHolder = &Brand{ID: 1, Name: "Acme"}
	holder.SetMediaURL(&url)
	assert.Equal(t, &url, holder.MediaURL())
}
