package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BasicSelect(t *testing.T) {
	stmt := From("product").
		Select("id", "name", "status").
		Build()

	assert.Equal(t, "SELECT id, name, status FROM product", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SelectAllColumns(t *testing.T) {
	stmt := From("color").Build()

	assert.Equal(t, "SELECT * FROM color", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_MultipleWhereConditions(t *testing.T) {
	stmt := From("product_variant").
		Select("id", "product_id").
		Where(Eq("color_id", int64(3))).
		Where(Eq("size_id", int64(7))).
		Build()

	assert.Equal(t, "SELECT id, product_id FROM product_variant WHERE color_id = @p0 AND size_id = @p1", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": int64(3),
		"p1": int64(7),
	}, stmt.Params)
}

func TestBuilder_InCondition(t *testing.T) {
	t.Run("spanner unnests the array parameter", func(t *testing.T) {
		stmt := From("product_variant").
			Select("id").
			Where(Eq("color_id", 1), In("product_id", []int64{4, 5})).
			Build()

		assert.Equal(t, "SELECT id FROM product_variant WHERE color_id = @p0 AND product_id IN UNNEST(@p1)", stmt.SQL)
		assert.Equal(t, []int64{4, 5}, stmt.Params["p1"])
	})

	t.Run("postgres uses a named list parameter", func(t *testing.T) {
		stmt := From("product_variant").
			Dialect(Postgres).
			Select("id").
			Where(In("product_id", []int64{4, 5})).
			Build()

		assert.Equal(t, "SELECT id FROM product_variant WHERE product_id IN (:p0)", stmt.SQL)
	})

	t.Run("empty set renders a false predicate without parameters", func(t *testing.T) {
		stmt := From("product_tag").
			Where(In("product_id", []int64{}), Eq("tag_id", 2)).
			Build()

		assert.Equal(t, "SELECT * FROM product_tag WHERE 1 = 0 AND tag_id = @p0", stmt.SQL)
		assert.Equal(t, map[string]interface{}{"p0": int64(2)}, stmt.Params)
	})
}

func TestBuilder_CompleteQuery(t *testing.T) {
	stmt := From("product").
		Select("id", "name", "status").
		Where(Eq("brand_id", int64(2))).
		Where(Eq("status", "Listed")).
		OrderBy("created_at", Desc).
		Limit(50).
		Offset(100).
		Build()

	expectedSQL := "SELECT id, name, status FROM product WHERE brand_id = @p0 AND status = @p1 ORDER BY created_at DESC LIMIT @limit OFFSET @offset"
	assert.Equal(t, expectedSQL, stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0":     int64(2),
		"p1":     "Listed",
		"limit":  int64(50),
		"offset": int64(100),
	}, stmt.Params)
}

func TestBuilder_PostgresPagination(t *testing.T) {
	stmt := From("product").
		Dialect(Postgres).
		Where(Eq("status", "Listed")).
		OrderBy("id", Asc).
		Limit(10).
		Build()

	assert.Equal(t, "SELECT * FROM product WHERE status = :p0 ORDER BY id ASC LIMIT :limit", stmt.SQL)
}

func TestBuilder_Count(t *testing.T) {
	builder := From("product").
		Select("id", "name").
		Where(Eq("category_id", int64(1))).
		OrderBy("created_at", Desc).
		Limit(50)

	countStmt := builder.Count().Build()
	assert.Equal(t, "SELECT COUNT(*) FROM product WHERE category_id = @p0", countStmt.SQL)

	// Original builder is unchanged
	assert.Contains(t, builder.Build().SQL, "LIMIT @limit")
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("product").Select("id")

	stmt1 := base.Where(Eq("status", "Listed")).Build()
	stmt2 := base.Where(Eq("brand_id", 1)).Build()

	assert.Contains(t, stmt1.SQL, "status = @p0")
	assert.NotContains(t, stmt1.SQL, "brand_id")

	assert.Contains(t, stmt2.SQL, "brand_id = @p0")
	assert.NotContains(t, stmt2.SQL, "status")
}

func TestBuilder_String(t *testing.T) {
	str := From("tag").Where(Eq("name", "summer")).String()
	require.NotEmpty(t, str)
	assert.Contains(t, str, "SQL:")
	assert.Contains(t, str, "Params:")
}
