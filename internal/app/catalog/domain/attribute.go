package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// AttributeKind enumerates the shared catalog attributes.
type AttributeKind string

const (
	KindColor       AttributeKind = "color"
	KindSize        AttributeKind = "size"
	KindTag         AttributeKind = "tag"
	KindBrand       AttributeKind = "brand"
	KindCategory    AttributeKind = "category"
	KindSubcategory AttributeKind = "subcategory"
	KindMaterial    AttributeKind = "material"
)

// AttributeKinds lists every kind in a stable order.
var AttributeKinds = []AttributeKind{
	KindColor, KindSize, KindTag, KindBrand, KindCategory, KindSubcategory, KindMaterial,
}

// ParseAttributeKind resolves a kind name.
func ParseAttributeKind(s string) (AttributeKind, error) {
	kind := AttributeKind(strings.ToLower(strings.TrimSpace(s)))
	if kind.Valid() {
		return kind, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAttributeKind, s)
}

// Valid reports whether k is one of AttributeKinds.
func (k AttributeKind) Valid() bool {
	for _, known := range AttributeKinds {
		if k == known {
			return true
		}
	}
	return false
}

// CascadeShape says how products depend on an attribute kind, which decides
// the deletion cascade.
type CascadeShape int

const (
	// VariantOwned attributes are referenced by product variants (color, size).
	VariantOwned CascadeShape = iota + 1
	// ProductOwned attributes are linked to products through product_tag (tag).
	ProductOwned
	// ProductReferenced attributes are required columns of product
	// (brand, category, subcategory, material).
	ProductReferenced
)

// Shape returns the cascade shape of the kind.
func (k AttributeKind) Shape() CascadeShape {
	switch k {
	case KindColor, KindSize:
		return VariantOwned
	case KindTag:
		return ProductOwned
	default:
		return ProductReferenced
	}
}

// HoldsMedia reports whether attributes of this kind carry an image.
func (k AttributeKind) HoldsMedia() bool {
	return k == KindTag || k == KindBrand
}

// Attribute is implemented by every shared catalog attribute.
type Attribute interface {
	Kind() AttributeKind
	Identity() int64
	Label() string
	// Validate adds field errors for invalid values.
	Validate(ve *ValidationError)
}

// MediaHolder is the capability shared by attributes with an optional image.
type MediaHolder interface {
	Attribute
	MediaURL() *string
	SetMediaURL(url *string)
}

// SizeDiscipline partitions sizes into mutually exclusive systems.
type SizeDiscipline string

const (
	DisciplineNone    SizeDiscipline = "none"
	DisciplineAlpha   SizeDiscipline = "alpha"
	DisciplineNumeric SizeDiscipline = "numeric"
)

// IsSized reports whether the discipline selects sizes.
func (d SizeDiscipline) IsSized() bool {
	return d == DisciplineAlpha || d == DisciplineNumeric
}

func (d SizeDiscipline) valid() bool {
	return d == DisciplineNone || d.IsSized()
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func validateName(ve *ValidationError, name string) {
	if strings.TrimSpace(name) == "" {
		ve.Add("name", "name is required")
	}
}

type Color struct {
	ID   int64
	Name string
	Hex  string
}

func (c *Color) Kind() AttributeKind { return KindColor }
func (c *Color) Identity() int64     { return c.ID }
func (c *Color) Label() string       { return c.Name }

func (c *Color) Validate(ve *ValidationError) {
	validateName(ve, c.Name)
	if !hexColor.MatchString(c.Hex) {
		ve.Add("hex", "hex must look like #RRGGBB or #RGB")
	}
}

type Size struct {
	ID         int64
	Name       string
	Discipline SizeDiscipline
}

func (s *Size) Kind() AttributeKind { return KindSize }
func (s *Size) Identity() int64     { return s.ID }
func (s *Size) Label() string       { return s.Name }

func (s *Size) Validate(ve *ValidationError) {
	validateName(ve, s.Name)
	if !s.Discipline.IsSized() {
		ve.Add("discipline", "discipline must be alpha or numeric")
	}
}

type Tag struct {
	ID    int64
	Name  string
	Media *string
}

func (t *Tag) Kind() AttributeKind          { return KindTag }
func (t *Tag) Identity() int64              { return t.ID }
func (t *Tag) Label() string                { return t.Name }
func (t *Tag) Validate(ve *ValidationError) { validateName(ve, t.Name) }
func (t *Tag) MediaURL() *string            { return t.Media }
func (t *Tag) SetMediaURL(url *string)      { t.Media = url }

type Brand struct {
	ID   int64
	Name string
	Logo *string
}

func (b *Brand) Kind() AttributeKind          { return KindBrand }
func (b *Brand) Identity() int64              { return b.ID }
func (b *Brand) Label() string                { return b.Name }
func (b *Brand) Validate(ve *ValidationError) { validateName(ve, b.Name) }
func (b *Brand) MediaURL() *string            { return b.Logo }
func (b *Brand) SetMediaURL(url *string)      { b.Logo = url }

type Category struct {
	ID   int64
	Name string
}

func (c *Category) Kind() AttributeKind          { return KindCategory }
func (c *Category) Identity() int64              { return c.ID }
func (c *Category) Label() string                { return c.Name }
func (c *Category) Validate(ve *ValidationError) { validateName(ve, c.Name) }

type Subcategory struct {
	ID         int64
	Name       string
	CategoryID int64
}

func (s *Subcategory) Kind() AttributeKind { return KindSubcategory }
func (s *Subcategory) Identity() int64     { return s.ID }
func (s *Subcategory) Label() string       { return s.Name }

func (s *Subcategory) Validate(ve *ValidationError) {
	validateName(ve, s.Name)
	if s.CategoryID <= 0 {
		ve.Add("category_id", "category is required")
	}
}

type Material struct {
	ID   int64
	Name string
}

func (m *Material) Kind() AttributeKind          { return KindMaterial }
func (m *Material) Identity() int64              { return m.ID }
func (m *Material) Label() string                { return m.Name }
func (m *Material) Validate(ve *ValidationError) { validateName(ve, m.Name) }

// AttributeFields is the loosely typed input of attribute create/edit forms.
type AttributeFields struct {
	Name       string
	Hex        string
	Discipline string
	CategoryID int64
}

// NewAttribute builds the attribute of kind from form fields. The id is 0
// for attributes not yet stored.
func NewAttribute(kind AttributeKind, id int64, f AttributeFields) (Attribute, error) {
	name := strings.TrimSpace(f.Name)
	switch kind {
	case KindColor:
		return &Color{ID: id, Name: name, Hex: strings.TrimSpace(f.Hex)}, nil
	case KindSize:
		return &Size{ID: id, Name: name, Discipline: SizeDiscipline(strings.ToLower(strings.TrimSpace(f.Discipline)))}, nil
	case KindTag:
		return &Tag{ID: id, Name: name}, nil
	case KindBrand:
		return &Brand{ID: id, Name: name}, nil
	case KindCategory:
		return &Category{ID: id, Name: name}, nil
	case KindSubcategory:
		return &Subcategory{ID: id, Name: name, CategoryID: f.CategoryID}, nil
	case KindMaterial:
		return &Material{ID: id, Name: name}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAttributeKind, kind)
	}
}
