package cache

import (
	"fmt"
	"sort"
	"strings"
)

// ListingQueryPrefix groups every cached listing-query shape so one book
// write can invalidate them all with a single pattern.
const ListingQueryPrefix = "listing-query:"

// QueryKey derives a deterministic cache key from a query shape. Filter
// keys are sorted so equal shapes always map to the same key regardless
// of map iteration order.
func QueryKey(prefix string, filters map[string]string, sortOrder string, page, pageSize int) string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(prefix)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%s=%s", k, filters[k])
	}
	fmt.Fprintf(&b, "|sort=%s|page=%d|size=%d", sortOrder, page, pageSize)
	return b.String()
}
