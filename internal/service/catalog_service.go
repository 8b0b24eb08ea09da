package service

import (
	"context"

	"catalogue-service/internal/annotate"
	"catalogue-service/internal/catalog"
	"catalogue-service/internal/util"

	"go.uber.org/zap"
)

// SystemView is a system with its resolved icon
type SystemView struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Icon catalog.Icon `json:"icon"`
}

// BrandView is a brand with resolved theme tokens
type BrandView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Logo        string        `json:"logo"`
	Color       catalog.Color `json:"color"`
	Systems     []SystemView  `json:"systems"`
}

// ProductListing is the product list screen of one brand/system pair
type ProductListing struct {
	Brand         BrandView       `json:"brand"`
	System        SystemView      `json:"system"`
	Filter        catalog.Filter  `json:"filter"`
	Subcategories []string        `json:"subcategories"`
	Groups        []catalog.Group `json:"groups"`
	Total         int             `json:"total"`
}

// ProductDetail is the product detail screen
type ProductDetail struct {
	Product     catalog.Product   `json:"product"`
	Description []annotate.Span   `json:"description"`
	Features    [][]annotate.Span `json:"features"`
	Related     []catalog.Product `json:"related"`
}

// CatalogService resolves catalogue queries into screen view models
type CatalogService struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewCatalogService creates a new catalogue service
func NewCatalogService(cat *catalog.Catalog) *CatalogService {
	return &CatalogService{
		catalog: cat,
		logger:  util.GetLogger(),
	}
}

// Brands lists every brand in catalogue order
func (s *CatalogService) Brands(ctx context.Context) []BrandView {
	_, span := util.StartSpan(ctx, "CatalogService.Brands")
	defer span.End()

	brands := s.catalog.ListBrands()
	views := make([]BrandView, 0, len(brands))
	for _, b := range brands {
		views = append(views, brandView(b))
	}
	util.CatalogueQueriesTotal.WithLabelValues("brands", "hit").Inc()
	return views
}

// Brand resolves one brand
func (s *CatalogService) Brand(ctx context.Context, brandID string) (BrandView, bool) {
	_, span := util.StartSpan(ctx, "CatalogService.Brand")
	defer span.End()

	b, ok := s.catalog.Brand(brandID)
	countQuery("brand", ok)
	if !ok {
		return BrandView{}, false
	}
	return brandView(b), true
}

// Products lists the products of a brand/system pair, filtered and grouped.
// It reports false when the pair is not declared in the brand tree.
func (s *CatalogService) Products(ctx context.Context, brandID, systemID string, filter catalog.Filter) (*ProductListing, bool) {
	_, span := util.StartSpan(ctx, "CatalogService.Products")
	defer span.End()

	brand, ok := s.catalog.Brand(brandID)
	if !ok {
		countQuery("products", false)
		return nil, false
	}
	system, ok := s.catalog.System(brandID, systemID)
	if !ok {
		countQuery("products", false)
		return nil, false
	}

	products := catalog.Search(s.catalog.ProductsByBrandAndSystem(brandID, systemID), filter)
	countQuery("products", true)

	s.logger.Debug("Products listed",
		zap.String("brand_id", brandID),
		zap.String("system_id", systemID),
		zap.Int("count", len(products)))

	return &ProductListing{
		Brand:         brandView(brand),
		System:        systemView(system),
		Filter:        filter,
		Subcategories: s.catalog.Subcategories(brandID, systemID),
		Groups:        catalog.GroupBySubcategory(products),
		Total:         len(products),
	}, true
}

// Product resolves the detail screen of one product
func (s *CatalogService) Product(ctx context.Context, productID string) (*ProductDetail, bool) {
	_, span := util.StartSpan(ctx, "CatalogService.Product")
	defer span.End()

	p, ok := s.catalog.ProductByID(productID)
	countQuery("product", ok)
	if !ok {
		return nil, false
	}

	features := make([][]annotate.Span, 0, len(p.Features))
	for _, f := range p.Features {
		features = append(features, annotate.Annotate(f))
	}

	return &ProductDetail{
		Product:     p,
		Description: annotate.Annotate(p.Description),
		Features:    features,
		Related:     s.catalog.RelatedProducts(productID),
	}, true
}

// Annotate splits free text into highlighted spans
func (s *CatalogService) Annotate(ctx context.Context, text string) []annotate.Span {
	_, span := util.StartSpan(ctx, "CatalogService.Annotate")
	defer span.End()

	return annotate.Annotate(text)
}

func brandView(b catalog.Brand) BrandView {
	systems := make([]SystemView, 0, len(b.Systems))
	for _, sys := range b.Systems {
		systems = append(systems, systemView(sys))
	}
	return BrandView{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Logo:        b.Logo,
		Color:       catalog.ColorFor(b.Color),
		Systems:     systems,
	}
}

func systemView(sys catalog.System) SystemView {
	return SystemView{ID: sys.ID, Name: sys.Name, Icon: catalog.IconFor(sys.Icon)}
}

func countQuery(query string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	util.CatalogueQueriesTotal.WithLabelValues(query, result).Inc()
}
