package recordstore

import (
	"fmt"
	"strconv"
	"time"

	"github.com/light-bringer/procat-admin/internal/pkg/query"
)

// Row is one record keyed by column name.
type Row map[string]interface{}

// Clone returns a shallow copy with normalized values.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = query.Normalize(v)
	}
	return out
}

// Int64 reads an integer column. NULL and missing columns read as zero.
func (r Row) Int64(col string) int64 {
	v, _ := r.Int64Ptr(col)
	if v == nil {
		return 0
	}
	return *v
}

// Int64Ptr reads a nullable integer column.
func (r Row) Int64Ptr(col string) (*int64, error) {
	switch v := query.Normalize(r[col]).(type) {
	case nil:
		return nil, nil
	case int64:
		return &v, nil
	case float64:
		n := int64(v)
		return &n, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("column %s: unexpected type %T", col, v)
	}
}

// String reads a text column. NULL reads as "".
func (r Row) String(col string) string {
	v := r.StringPtr(col)
	if v == nil {
		return ""
	}
	return *v
}

// StringPtr reads a nullable text column.
func (r Row) StringPtr(col string) *string {
	switch v := query.Normalize(r[col]).(type) {
	case nil:
		return nil
	case string:
		return &v
	default:
		s := fmt.Sprint(v)
		return &s
	}
}

// Float64 reads a floating point column. NULL reads as zero.
func (r Row) Float64(col string) float64 {
	switch v := query.Normalize(r[col]).(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

// Time reads a timestamp column. NULL reads as the zero time.
func (r Row) Time(col string) time.Time {
	if v, ok := query.Normalize(r[col]).(time.Time); ok {
		return v
	}
	return time.Time{}
}
