package integration

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/selet/storefront/internal/api"
	"github.com/selet/storefront/internal/auth"
	"github.com/selet/storefront/internal/backup"
	"github.com/selet/storefront/internal/config"
	"github.com/selet/storefront/internal/models"
	"github.com/selet/storefront/internal/store"
)

// startServer brings the whole aggregation service up on a loopback port and
// returns its base URL. The service runs on its own cache directory with no
// remote tiers behind it.
func startServer(t *testing.T) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			AllowOrigins: "*",
		},
		Auth: config.AuthConfig{
			JWTSecret:         "integration-secret",
			AdminUsername:     "admin",
			AdminPasswordHash: string(hash),
			AdminName:         "Administrador",
			LoginAttempts:     100,
			LoginWindow:       time.Minute,
		},
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	cache, err := store.NewCache(t.TempDir())
	require.NoError(t, err)

	products := store.NewProducts(cache, log)
	categories := store.NewCategories(cache, log)
	orders := store.NewOrders(cache, log)

	manager := auth.NewManager(cfg.Auth.JWTSecret, models.AdminUser{
		ID:           "admin-1",
		Username:     cfg.Auth.AdminUsername,
		Name:         cfg.Auth.AdminName,
		PasswordHash: cfg.Auth.AdminPasswordHash,
	})

	srv := api.New(cfg, log, api.Deps{
		Auth:       manager,
		Products:   products,
		Categories: categories,
		Orders:     orders,
		Sales:      store.NewSales(cache),
		Backup:     backup.NewManager(cache, products, categories),
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go srv.App().Listener(ln) //nolint:errcheck

	t.Cleanup(func() {
		srv.Shutdown() //nolint:errcheck
	})

	baseURL := "http://" + ln.Addr().String()
	waitForServer(t, baseURL)
	return baseURL
}

func waitForServer(t *testing.T, baseURL string) {
	t.Helper()
	client := store.NewAPIClient(baseURL)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err := client.Health(context.Background()); err == nil {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatal("server did not come up in time")
}

// newClientStores builds the client-side tiered repositories, fronted by the
// given service and backed by their own cache directory.
func newClientStores(t *testing.T, baseURL string) (*store.APIClient, *store.Products, *store.Categories, *store.Orders) {
	t.Helper()

	cache, err := store.NewCache(t.TempDir())
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	client := store.NewAPIClient(baseURL)
	products := store.NewProducts(cache, log, store.NewAPIProducts(client))
	categories := store.NewCategories(cache, log, store.NewAPICategories(client))
	orders := store.NewOrders(cache, log, store.NewAPIOrders(client))
	return client, products, categories, orders
}
