package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MatrixInput is the variant section of a product form.
type MatrixInput struct {
	// SelectedColors in display order. Duplicates are ignored.
	SelectedColors []int64
	// Discipline is empty when the user made no choice.
	Discipline    SizeDiscipline
	ImagesByColor map[int64][]ImageRef
	// QuantityByKey holds raw form values keyed by QuantityKey.
	QuantityByKey map[string]string
}

// VariantSpec is one validated variant tuple ready to persist.
type VariantSpec struct {
	ColorID  int64
	SizeID   *int64
	Quantity int64
	Images   []ImageRef
}

// Key returns the quantity key of the tuple.
func (s VariantSpec) Key() string {
	return QuantityKey(s.ColorID, s.SizeID)
}

// VariantPlan is the validated variant set of a product.
type VariantPlan struct {
	Discipline SizeDiscipline
	Variants   []VariantSpec
}

// Uploads counts the images that still need uploading.
func (p *VariantPlan) Uploads() int {
	n := 0
	for _, v := range p.Variants {
		for _, img := range v.Images {
			if img.IsUpload() {
				n++
			}
		}
	}
	return n
}

// StoredURLs returns every pass-through image URL of the plan.
func (p *VariantPlan) StoredURLs() []string {
	urls := make([]string, 0)
	for _, v := range p.Variants {
		for _, img := range v.Images {
			if !img.IsUpload() {
				urls = append(urls, img.URL)
			}
		}
	}
	return urls
}

// QuantityKey is "<color>" for unsized variants and "<color>_<size>" otherwise.
func QuantityKey(colorID int64, sizeID *int64) string {
	if sizeID == nil {
		return strconv.FormatInt(colorID, 10)
	}
	return fmt.Sprintf("%d_%d", colorID, *sizeID)
}

// Field keys used by BuildVariantPlan.
const (
	FieldColors         = "colors"
	FieldSizeDiscipline = "size_discipline"
)

// ImagesField is the error key of a color's image list.
func ImagesField(colorID int64) string {
	return "images." + strconv.FormatInt(colorID, 10)
}

// QuantityField is the error key of a quantity input.
func QuantityField(key string) string {
	return "quantity." + key
}

// BuildVariantPlan validates in against the size catalog and returns the
// variant tuples to persist. Every problem is collected into one
// *ValidationError; nothing is returned on failure.
func BuildVariantPlan(in MatrixInput, sizes []Size) (*VariantPlan, error) {
	ve := NewValidationError()
	colors := uniqueIDs(in.SelectedColors)

	if len(colors) == 0 {
		ve.Add(FieldColors, "select at least one color")
	}
	switch {
	case in.Discipline == "":
		ve.Add(FieldSizeDiscipline, "choose a size discipline")
	case !in.Discipline.valid():
		ve.Add(FieldSizeDiscipline, fmt.Sprintf("unknown size discipline %q", in.Discipline))
	}

	for _, c := range colors {
		if !hasUsableImage(in.ImagesByColor[c]) {
			ve.Add(ImagesField(c), "add at least one image")
		}
	}

	var specs []VariantSpec
	switch {
	case in.Discipline == DisciplineNone:
		specs = buildUnsized(colors, in, ve)
	case in.Discipline.IsSized():
		specs = buildSized(colors, sizesOf(sizes, in.Discipline), in, ve)
	}

	if err := ve.Err(); err != nil {
		return nil, err
	}
	return &VariantPlan{Discipline: in.Discipline, Variants: specs}, nil
}

func buildUnsized(colors []int64, in MatrixInput, ve *ValidationError) []VariantSpec {
	specs := make([]VariantSpec, 0, len(colors))
	for _, c := range colors {
		key := QuantityKey(c, nil)
		raw, ok := lookupQuantity(in.QuantityByKey, key)
		if !ok {
			ve.Add(QuantityField(key), "quantity is required")
			continue
		}
		qty, err := parseQuantity(raw)
		if err != nil {
			ve.Add(QuantityField(key), "invalid quantity value")
			continue
		}
		specs = append(specs, VariantSpec{
			ColorID:  c,
			Quantity: qty,
			Images:   imagesOf(in.ImagesByColor[c]),
		})
	}
	return specs
}

func buildSized(colors []int64, sizes []Size, in MatrixInput, ve *ValidationError) []VariantSpec {
	specs := make([]VariantSpec, 0)
	for _, c := range colors {
		provided := 0
		for _, s := range sizes {
			sizeID := s.ID
			key := QuantityKey(c, &sizeID)
			raw, ok := lookupQuantity(in.QuantityByKey, key)
			if !ok {
				continue
			}
			provided++
			qty, err := parseQuantity(raw)
			if err != nil {
				ve.Add(QuantityField(key), "invalid quantity value")
				continue
			}
			specs = append(specs, VariantSpec{
				ColorID:  c,
				SizeID:   &sizeID,
				Quantity: qty,
				Images:   imagesOf(in.ImagesByColor[c]),
			})
		}
		if provided == 0 {
			ve.Add(QuantityField(QuantityKey(c, nil)), "no size selected")
		}
	}
	return specs
}

// sizesOf keeps the sizes of discipline d in catalog order, once each.
func sizesOf(sizes []Size, d SizeDiscipline) []Size {
	out := make([]Size, 0, len(sizes))
	seen := make(map[int64]bool, len(sizes))
	for _, s := range sizes {
		if s.Discipline != d || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}

func lookupQuantity(values map[string]string, key string) (string, bool) {
	raw, ok := values[key]
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func parseQuantity(raw string) (int64, error) {
	qty, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if qty < 0 {
		return 0, fmt.Errorf("negative quantity %d", qty)
	}
	return qty, nil
}

func hasUsableImage(images []ImageRef) bool {
	for _, img := range images {
		if img.usable() {
			return true
		}
	}
	return false
}

// imagesOf drops empty references and keeps the caller's order.
func imagesOf(images []ImageRef) []ImageRef {
	out := make([]ImageRef, 0, len(images))
	for _, img := range images {
		if img.usable() {
			out = append(out, img)
		}
	}
	return out
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
