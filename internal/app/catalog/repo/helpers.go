package repo

import (
	"sort"

	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// distinct collects the unique non-zero values of an id column in first-seen order.
func distinct(rows []recordstore.Row, column string) []int64 {
	ids := make([]int64, 0, len(rows))
	seen := make(map[int64]bool, len(rows))
	for _, row := range rows {
		id := row.Int64(column)
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func sortVariants(variants []*domain.Variant) {
	sort.Slice(variants, func(i, j int) bool { return variants[i].ID < variants[j].ID })
}
