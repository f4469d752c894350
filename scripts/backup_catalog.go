package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/selet/storefront/internal/backup"
	"github.com/selet/storefront/internal/config"
	"github.com/selet/storefront/internal/models"
	"github.com/selet/storefront/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/backup_catalog.go [export|import <file>]")
	}

	direction := os.Args[1]
	if direction != "export" && direction != "import" {
		log.Fatal("Direction must be 'export' or 'import'")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	cache, err := store.NewCache(cfg.Cache.Dir)
	if err != nil {
		log.Fatalf("Open cache: %v", err)
	}

	logger := logrus.New()
	var (
		productSources  []store.Source[models.Product]
		categorySources []store.Source[models.Category]
	)
	if cfg.Backend.BaseURL != "" {
		client := store.NewAPIClient(cfg.Backend.BaseURL)
		productSources = append(productSources, store.NewAPIProducts(client))
		categorySources = append(categorySources, store.NewAPICategories(client))
	}
	supabase := store.NewSupabaseClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if supabase.Enabled() {
		productSources = append(productSources, store.NewSupabaseProducts(supabase))
		categorySources = append(categorySources, store.NewSupabaseCategories(supabase))
	}

	products := store.NewProducts(cache, logger, productSources...)
	categories := store.NewCategories(cache, logger, categorySources...)
	manager := backup.NewManager(cache, products, categories)

	ctx := context.Background()

	switch direction {
	case "export":
		path := fmt.Sprintf("Backup-Loja-%s.json", time.Now().Format("2006-01-02"))
		if err := manager.ExportToFile(ctx, path); err != nil {
			log.Fatalf("Export backup: %v", err)
		}
		log.Printf("Exported %d products and %d categories to %s",
			len(products.List(ctx)), len(categories.List(ctx)), path)

	case "import":
		if len(os.Args) < 3 {
			log.Fatal("Usage: go run scripts/backup_catalog.go import <file>")
		}
		data, err := os.ReadFile(os.Args[2])
		if err != nil {
			log.Fatalf("Read backup file: %v", err)
		}
		nProducts, nCategories, err := manager.Import(data)
		if err != nil {
			log.Fatalf("Import backup: %v", err)
		}
		log.Printf("Recovered %d products and %d categories", nProducts, nCategories)
	}
}
