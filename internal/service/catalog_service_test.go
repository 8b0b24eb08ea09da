package service

import (
	"context"
	"testing"

	"catalogue-service/internal/annotate"
	"catalogue-service/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandsResolveTheme(t *testing.T) {
	svc := NewCatalogService(catalog.MustDefault())

	brands := svc.Brands(context.Background())
	require.Len(t, brands, 4)
	assert.Equal(t, "kidde-commercial", brands[0].ID)
	assert.Equal(t, catalog.ColorKidde, brands[0].Color)
	assert.Equal(t, catalog.IconCircuit, brands[0].Systems[0].Icon)
	assert.Equal(t, catalog.IconLayers, brands[0].Systems[1].Icon)
}

func TestBrandMiss(t *testing.T) {
	svc := NewCatalogService(catalog.MustDefault())

	_, ok := svc.Brand(context.Background(), "nope")
	assert.False(t, ok)
}

func TestProductsSearch(t *testing.T) {
	svc := NewCatalogService(catalog.MustDefault())

	listing, ok := svc.Products(context.Background(), "kidde-commercial", "addressable", catalog.Filter{Query: "fcp"})
	require.True(t, ok)
	assert.Equal(t, 1, listing.Total)
	require.Len(t, listing.Groups, 1)
	assert.Equal(t, "Control Panels", listing.Groups[0].Subcategory)
	assert.Equal(t, "kc-addr-001", listing.Groups[0].Products[0].ID)
}

func TestProductsUndeclaredPair(t *testing.T) {
	svc := NewCatalogService(catalog.MustDefault())

	_, ok := svc.Products(context.Background(), "kidde-commercial", "pava", catalog.Filter{})
	assert.False(t, ok)
	_, ok = svc.Products(context.Background(), "nope", "asd", catalog.Filter{})
	assert.False(t, ok)
}

func TestProductDetail(t *testing.T) {
	svc := NewCatalogService(catalog.MustDefault())

	detail, ok := svc.Product(context.Background(), "kc-addr-001")
	require.True(t, ok)
	assert.Equal(t, "FireControl Pro 5000", detail.Product.Name)
	assert.Equal(t, detail.Product.Description, annotate.Text(detail.Description))
	require.Len(t, detail.Features, len(detail.Product.Features))

	last := detail.Features[len(detail.Features)-1]
	require.Len(t, last, 2)
	assert.Equal(t, annotate.KindCertification, last[0].Kind)
	assert.Equal(t, "EN54", last[0].Text)

	related := make([]string, 0, len(detail.Related))
	for _, p := range detail.Related {
		related = append(related, p.ID)
	}
	assert.Equal(t, []string{"kc-addr-002", "kc-addr-003"}, related)
}

func TestProductMiss(t *testing.T) {
	svc := NewCatalogService(catalog.MustDefault())

	_, ok := svc.Product(context.Background(), "nope")
	assert.False(t, ok)
}
