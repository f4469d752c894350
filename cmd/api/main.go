package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/selet/storefront/internal/api"
	"github.com/selet/storefront/internal/auth"
	"github.com/selet/storefront/internal/backup"
	"github.com/selet/storefront/internal/config"
	"github.com/selet/storefront/internal/models"
	"github.com/selet/storefront/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	cache, err := store.NewCache(cfg.Cache.Dir)
	if err != nil {
		log.WithError(err).Fatal("open cache")
	}

	var (
		productSources  []store.Source[models.Product]
		categorySources []store.Source[models.Category]
		orderSources    []store.Source[models.Order]
	)

	supabase := store.NewSupabaseClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if supabase.Enabled() {
		productSources = append(productSources, store.NewSupabaseProducts(supabase))
		categorySources = append(categorySources, store.NewSupabaseCategories(supabase))
		orderSources = append(orderSources, store.NewSupabaseOrders(supabase))
	} else {
		log.Warn("supabase not configured, running on the local cache only")
	}

	products := store.NewProducts(cache, log, productSources...)
	categories := store.NewCategories(cache, log, categorySources...)
	orders := store.NewOrders(cache, log, orderSources...)
	sales := store.NewSales(cache)

	// Warm the working copies so the first request is served from memory.
	ctx := context.Background()
	log.WithFields(logrus.Fields{
		"categories": len(categories.List(ctx)),
		"products":   len(products.List(ctx)),
		"orders":     len(orders.List(ctx)),
	}).Info("collections initialized")

	authManager := auth.NewManager(cfg.Auth.JWTSecret, models.AdminUser{
		ID:           "admin-1",
		Username:     cfg.Auth.AdminUsername,
		Name:         cfg.Auth.AdminName,
		PasswordHash: cfg.Auth.AdminPasswordHash,
	})

	server := api.New(cfg, log, api.Deps{
		Auth:       authManager,
		Products:   products,
		Categories: categories,
		Orders:     orders,
		Sales:      sales,
		Backup:     backup.NewManager(cache, products, categories),
	})

	log.WithField("port", cfg.Server.Port).Info("server starting")
	if err := server.Listen(); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
