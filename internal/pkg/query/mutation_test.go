package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeleteBuilder(t *testing.T) {
	t.Run("with conditions", func(t *testing.T) {
		stmt := DeleteFrom("product_variant").
			Where(Eq("color_id", int64(2))).
			Build()

		assert.Equal(t, "DELETE FROM product_variant WHERE color_id = @p0", stmt.SQL)
		assert.Equal(t, map[string]interface{}{"p0": int64(2)}, stmt.Params)
	})

	t.Run("without conditions", func(t *testing.T) {
		stmt := DeleteFrom("outbox_events").Build()
		assert.Equal(t, "DELETE FROM outbox_events WHERE true", stmt.SQL)
	})

	t.Run("postgres id set", func(t *testing.T) {
		stmt := DeleteFrom("product").
			Dialect(Postgres).
			Where(In("id", []int64{1, 2})).
			Build()

		assert.Equal(t, "DELETE FROM product WHERE id IN (:p0)", stmt.SQL)
	})
}

func TestUpdateBuilder(t *testing.T) {
	base := Update("product").Set("status", "Unlisted")
	stmt := base.
		Set("name", "Linen shirt").
		Where(Eq("id", int64(9))).
		Build()

	assert.Equal(t, "UPDATE product SET name = @s0, status = @s1 WHERE id = @p0", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"s0": "Linen shirt",
		"s1": "Unlisted",
		"p0": int64(9),
	}, stmt.Params)

	// base keeps only its own assignment
	assert.Equal(t, "UPDATE product SET status = @s0 WHERE true", base.Build().SQL)
}

func TestInsertBuilder(t *testing.T) {
	row := map[string]interface{}{"name": "Red", "hex": "#ff0000"}

	t.Run("spanner returning", func(t *testing.T) {
		stmt := InsertInto("color").Values(row).Returning().Build()

		assert.Equal(t, "INSERT INTO color (hex, name) VALUES (@v0, @v1) THEN RETURN *", stmt.SQL)
		assert.Equal(t, map[string]interface{}{"v0": "#ff0000", "v1": "Red"}, stmt.Params)
	})

	t.Run("postgres returning", func(t *testing.T) {
		stmt := InsertInto("color").Dialect(Postgres).Values(row).Returning().Build()
		assert.Equal(t, "INSERT INTO color (hex, name) VALUES (:v0, :v1) RETURNING *", stmt.SQL)
	})

	t.Run("plain insert", func(t *testing.T) {
		stmt := InsertInto("product_tag").Values(map[string]interface{}{"product_id": 1, "tag_id": 2}).Build()
		assert.Equal(t, "INSERT INTO product_tag (product_id, tag_id) VALUES (@v0, @v1)", stmt.SQL)
	})
}
