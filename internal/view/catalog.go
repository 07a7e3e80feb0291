package view

import "cafe-storefront/internal/models"

// CategoryGroup is one category section of the menu
type CategoryGroup struct {
	Name     string
	Products []models.Product
}

// GroupByCategory groups products by category. Categories keep the order in
// which they first appear and products keep catalog order inside a category.
func GroupByCategory(products []models.Product) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup

	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, CategoryGroup{Name: p.Category})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}
