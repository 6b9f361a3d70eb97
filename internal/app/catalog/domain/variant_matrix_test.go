package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSizes = []Size{
	{ID: 10, Name: "S", Discipline: DisciplineAlpha},
	{ID: 11, Name: "M", Discipline: DisciplineAlpha},
	{ID: 12, Name: "L", Discipline: DisciplineAlpha},
	{ID: 40, Name: "40", Discipline: DisciplineNumeric},
	{ID: 42, Name: "42", Discipline: DisciplineNumeric},
}

func png(name string) ImageRef {
	return NewUpload([]byte("img:"+name), "image/png", name+".png")
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
	return ve.Fields
}

func TestBuildVariantPlan_Unsized(t *testing.T) {
	t.Run("one tuple per color", func(t *testing.T) {
		in := MatrixInput{
			SelectedColors: []int64{1, 2, 3},
			Discipline:     DisciplineNone,
			ImagesByColor: map[int64][]ImageRef{
				1: {png("a")},
				2: {StoredURL("memory://catalog/b.png"), png("c")},
				3: {png("d")},
			},
			QuantityByKey: map[string]string{"1": "5", "2": "0", "3": " 12 "},
		}

		plan, err := BuildVariantPlan(in, testSizes)
		require.NoError(t, err)
		require.Len(t, plan.Variants, 3)

		for i, color := range []int64{1, 2, 3} {
			v := plan.Variants[i]
			assert.Equal(t, color, v.ColorID)
			assert.Nil(t, v.SizeID)
			assert.Equal(t, in.ImagesByColor[color], v.Images)
		}
		assert.Equal(t, []int64{5, 0, 12}, []int64{plan.Variants[0].Quantity, plan.Variants[1].Quantity, plan.Variants[2].Quantity})
		assert.Equal(t, 3, plan.Uploads())
		assert.Equal(t, []string{"memory://catalog/b.png"}, plan.StoredURLs())
	})

	t.Run("duplicate colors collapse", func(t *testing.T) {
		in := MatrixInput{
			SelectedColors: []int64{1, 1},
			Discipline:     DisciplineNone,
			ImagesByColor:  map[int64][]ImageRef{1: {png("a")}},
			QuantityByKey:  map[string]string{"1": "1"},
		}
		plan, err := BuildVariantPlan(in, nil)
		require.NoError(t, err)
		assert.Len(t, plan.Variants, 1)
	})

	t.Run("missing and invalid quantities", func(t *testing.T) {
		in := MatrixInput{
			SelectedColors: []int64{1, 2, 3},
			Discipline:     DisciplineNone,
			ImagesByColor: map[int64][]ImageRef{
				1: {png("a")}, 2: {png("b")}, 3: {png("c")},
			},
			QuantityByKey: map[string]string{"2": "-1", "3": "many"},
		}
		_, err := BuildVariantPlan(in, nil)
		fields := fieldErrors(t, err)
		assert.Equal(t, map[string]string{
			"quantity.1": "quantity is required",
			"quantity.2": "invalid quantity value",
			"quantity.3": "invalid quantity value",
		}, fields)
	})
}

func TestBuildVariantPlan_Sized(t *testing.T) {
	t.Run("tuples only for provided sizes of the discipline", func(t *testing.T) {
		in := MatrixInput{
			SelectedColors: []int64{1, 2},
			Discipline:     DisciplineAlpha,
			ImagesByColor:  map[int64][]ImageRef{1: {png("a")}, 2: {png("b")}},
			QuantityByKey: map[string]string{
				"1_10": "3",
				"1_12": "4",
				"1_40": "9", // numeric size, never included
				"2_11": "0",
			},
		}

		plan, err := BuildVariantPlan(in, testSizes)
		require.NoError(t, err)
		require.Len(t, plan.Variants, 3)

		keys := make([]string, 0)
		for _, v := range plan.Variants {
			keys = append(keys, v.Key())
		}
		assert.Equal(t, []string{"1_10", "1_12", "2_11"}, keys)
		assert.Equal(t, int64(4), plan.Variants[1].Quantity)
		assert.Equal(t, DisciplineAlpha, plan.Discipline)
	})

	t.Run("color without any size", func(t *testing.T) {
		in := MatrixInput{
			SelectedColors: []int64{1, 2},
			Discipline:     DisciplineNumeric,
			ImagesByColor:  map[int64][]ImageRef{1: {png("a")}, 2: {png("b")}},
			QuantityByKey:  map[string]string{"1_40": "2", "2_10": "5", "2_42": "  "},
		}
		_, err := BuildVariantPlan(in, testSizes)
		assert.Equal(t, map[string]string{"quantity.2": "no size selected"}, fieldErrors(t, err))
	})

	t.Run("invalid value is reported per key", func(t *testing.T) {
		in := MatrixInput{
			SelectedColors: []int64{1},
			Discipline:     DisciplineNumeric,
			ImagesByColor:  map[int64][]ImageRef{1: {png("a")}},
			QuantityByKey:  map[string]string{"1_40": "x", "1_42": "3"},
		}
		_, err := BuildVariantPlan(in, testSizes)
		assert.Equal(t, map[string]string{"quantity.1_40": "invalid quantity value"}, fieldErrors(t, err))
	})

	t.Run("empty size catalog", func(t *testing.T) {
		in := MatrixInput{
			SelectedColors: []int64{1},
			Discipline:     DisciplineAlpha,
			ImagesByColor:  map[int64][]ImageRef{1: {png("a")}},
			QuantityByKey:  map[string]string{"1_10": "3"},
		}
		_, err := BuildVariantPlan(in, nil)
		assert.Contains(t, fieldErrors(t, err), "quantity.1")
	})
}

func TestBuildVariantPlan_CollectsEveryError(t *testing.T) {
	t.Run("nothing selected", func(t *testing.T) {
		_, err := BuildVariantPlan(MatrixInput{}, testSizes)
		fields := fieldErrors(t, err)
		assert.Contains(t, fields, FieldColors)
		assert.Contains(t, fields, FieldSizeDiscipline)
	})

	t.Run("unknown discipline", func(t *testing.T) {
		in := MatrixInput{
			SelectedColors: []int64{1},
			Discipline:     SizeDiscipline("metric"),
			ImagesByColor:  map[int64][]ImageRef{1: {png("a")}},
		}
		_, err := BuildVariantPlan(in, testSizes)
		assert.Equal(t, map[string]string{FieldSizeDiscipline: `unknown size discipline "metric"`}, fieldErrors(t, err))
	})

	t.Run("image errors alongside quantity errors", func(t *testing.T) {
		in := MatrixInput{
			SelectedColors: []int64{1, 2, 3},
			Discipline:     DisciplineNone,
			ImagesByColor: map[int64][]ImageRef{
				1: {},
				2: {StoredURL(" "), NewUpload(nil, "image/png", "empty.png")},
				3: {png("c")},
			},
			QuantityByKey: map[string]string{"1": "bad", "2": "1", "3": "1"},
		}
		_, err := BuildVariantPlan(in, testSizes)
		fields := fieldErrors(t, err)
		assert.Equal(t, "add at least one image", fields["images.1"])
		assert.Equal(t, "add at least one image", fields["images.2"])
		assert.NotContains(t, fields, "images.3")
		assert.Equal(t, "invalid quantity value", fields["quantity.1"])
	})

	t.Run("no image errors when every color has an image", func(t *testing.T) {
		in := MatrixInput{
			SelectedColors: []int64{1, 2},
			Discipline:     DisciplineAlpha,
			ImagesByColor:  map[int64][]ImageRef{1: {png("a")}, 2: {png("b")}},
			QuantityByKey:  map[string]string{"1_10": "-4"},
		}
		_, err := BuildVariantPlan(in, testSizes)
		fields := fieldErrors(t, err)
		for key := range fields {
			assert.NotContains(t, key, "images.")
		}
		assert.Len(t, fields, 2)
	})
}

func TestQuantityKey(t *testing.T) {
	size := int64(7)
	assert.Equal(t, "4", QuantityKey(4, nil))
	assert.Equal(t, "4_7", QuantityKey(4, &size))
	assert.Equal(t, "quantity.4_7", QuantityField(QuantityKey(4, &size)))
	assert.Equal(t, "images.4", ImagesField(4))
}
