package variantkey

import (
	"sort"
	"strings"
)

// Build derives the canonical key for a sku and its variant attributes.
// Attribute insertion order must not matter, so entries are sorted by
// attribute name before joining. A sku without attributes keys as the
// bare sku.
func Build(sku string, attributes map[string]string) string {
	if len(attributes) == 0 {
		return sku
	}

	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(sku)
	b.WriteByte(':')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(attributes[k])
	}
	return b.String()
}
