package integration

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selet/storefront/internal/store"
)

func TestCatalogThroughTheServiceTier(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	client, products, categories, _ := newClientStores(t, baseURL)
	require.NoError(t, client.Login(ctx, "admin", "admin123"))

	// The service seeds its category defaults on first contact and the
	// client adopts them through the preferred tier.
	got := categories.List(ctx)
	require.Len(t, got, 5)
	assert.Equal(t, "perfumes-mulher", got[0].ID)

	created, err := products.Add(ctx, store.ProductInput{
		Name:       "Malbec Gold",
		Price:      decimal.NewFromFloat(48.90),
		CategoryID: "perfumes-homem",
		InStock:    true,
		IsActive:   true,
	})
	require.NoError(t, err)

	// A second client with a cold cache sees the product, so the write
	// reached the service and not just the local tiers.
	_, otherProducts, _, _ := newClientStores(t, baseURL)
	listed := otherProducts.List(ctx)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.True(t, listed[0].Price.Equal(created.Price))
}

func TestFeaturedSweepReachesTheService(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	client, products, _, _ := newClientStores(t, baseURL)
	require.NoError(t, client.Login(ctx, "admin", "admin123"))

	var ids []string
	for _, name := range []string{"Malbec", "Lily", "Egeo"} {
		created, err := products.Add(ctx, store.ProductInput{
			Name:     name,
			Price:    decimal.NewFromFloat(29.90),
			IsActive: true,
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	_, ok := products.SetFeatured(ctx, ids[1])
	require.True(t, ok)

	// The at-most-one rule holds on the service side as well.
	_, serverView, _, _ := newClientStores(t, baseURL)
	var featured []string
	for _, p := range serverView.List(ctx) {
		if p.IsFeatured {
			featured = append(featured, p.ID)
		}
	}
	require.Len(t, featured, 1)
	assert.Equal(t, ids[1], featured[0])
}

func TestCatalogSurvivesServiceOutage(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	cache, err := store.NewCache(t.TempDir())
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(io.Discard)

	client := store.NewAPIClient(baseURL)
	require.NoError(t, client.Login(ctx, "admin", "admin123"))

	products := store.NewProducts(cache, log, store.NewAPIProducts(client))
	created, err := products.Add(ctx, store.ProductInput{
		Name:     "Lily Creme",
		Price:    decimal.NewFromFloat(15),
		IsActive: true,
	})
	require.NoError(t, err)
	products.List(ctx)

	// Same cache, dead service: the catalog still serves.
	dead := store.NewAPIClient("http://127.0.0.1:1")
	offline := store.NewProducts(cache, log, store.NewAPIProducts(dead))
	listed := offline.List(ctx)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}
