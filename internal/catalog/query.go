package catalog

import "strings"

// ProductByID returns the product with the exact id
func (c *Catalog) ProductByID(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// ProductsByBrandAndSystem returns the products of one brand/system pair in
// catalogue order. A pair that is not declared in the brand tree has no
// products, so rows pointing at an undeclared pair never surface here.
func (c *Catalog) ProductsByBrandAndSystem(brandID, systemID string) []Product {
	if _, ok := c.System(brandID, systemID); !ok {
		return []Product{}
	}

	result := make([]Product, 0)
	for _, p := range c.products {
		if p.BrandID == brandID && p.SystemID == systemID {
			result = append(result, p)
		}
	}
	return result
}

// Subcategories returns the distinct subcategories of a brand/system pair in
// first-occurrence order
func (c *Catalog) Subcategories(brandID, systemID string) []string {
	products := c.ProductsByBrandAndSystem(brandID, systemID)

	seen := make(map[string]struct{}, len(products))
	result := make([]string, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.Subcategory]; ok {
			continue
		}
		seen[p.Subcategory] = struct{}{}
		result = append(result, p.Subcategory)
	}
	return result
}

// RelatedProducts resolves the related ids of a product in listed order.
// Ids that do not resolve are dropped.
func (c *Catalog) RelatedProducts(productID string) []Product {
	product, ok := c.ProductByID(productID)
	if !ok {
		return []Product{}
	}

	result := make([]Product, 0, len(product.Related))
	for _, id := range product.Related {
		if related, ok := c.ProductByID(id); ok {
			result = append(result, related)
		}
	}
	return result
}

// Filter narrows a product list the way the product list screen does
type Filter struct {
	Query       string `form:"q" json:"q"`
	Subcategory string `form:"subcategory" json:"subcategory"`
}

// Matches reports whether p satisfies both predicates
func (f Filter) Matches(p Product) bool {
	if f.Subcategory != "" && p.Subcategory != f.Subcategory {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.SKU), q)
}

// Search keeps the products matching the filter, order preserved
func Search(products []Product, f Filter) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			result = append(result, p)
		}
	}
	return result
}

// Group is one subcategory section of a product list
type Group struct {
	Subcategory string    `json:"subcategory"`
	Products    []Product `json:"products"`
}

// GroupBySubcategory partitions products by subcategory. Groups appear in
// first-seen order and keep the input order inside each group.
func GroupBySubcategory(products []Product) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, p := range products {
		i, ok := index[p.Subcategory]
		if !ok {
			i = len(groups)
			index[p.Subcategory] = i
			groups = append(groups, Group{Subcategory: p.Subcategory})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}
