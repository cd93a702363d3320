package catalog

import "storefront/internal/models"

// Group is a category section of the storefront page.
type Group struct {
	Category string           `json:"category"`
	Products []models.Product `json:"products"`
}

// GroupByCategory splits products into per-category groups. Categories
// appear in first-seen order and products keep their relative order
// within each group, so the grouped view is a stable rearrangement of
// its input.
func GroupByCategory(products []models.Product) []Group {
	index := make(map[string]int, len(products))
	groups := make([]Group, 0)

	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, Group{Category: p.Category})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}
