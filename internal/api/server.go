package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"

	"github.com/selet/storefront/internal/auth"
	"github.com/selet/storefront/internal/backup"
	"github.com/selet/storefront/internal/config"
	"github.com/selet/storefront/internal/store"
)

// Server is the aggregation service: the preferred tier in front of the
// table store, where the business rules live.
type Server struct {
	app        *fiber.App
	cfg        *config.Config
	log        *logrus.Logger
	auth       *auth.Manager
	products   *store.Products
	categories *store.Categories
	orders     *store.Orders
	sales      *store.Sales
	backup     *backup.Manager
	limiter    *loginLimiter
}

type Deps struct {
	Auth       *auth.Manager
	Products   *store.Products
	Categories *store.Categories
	Orders     *store.Orders
	Sales      *store.Sales
	Backup     *backup.Manager
}

func New(cfg *config.Config, log *logrus.Logger, deps Deps) *Server {
	s := &Server{
		cfg:        cfg,
		log:        log,
		auth:       deps.Auth,
		products:   deps.Products,
		categories: deps.Categories,
		orders:     deps.Orders,
		sales:      deps.Sales,
		backup:     deps.Backup,
		limiter:    newLoginLimiter(cfg.Auth.LoginAttempts, cfg.Auth.LoginWindow),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	s.registerRoutes(app)
	s.app = app
	return s
}

func (s *Server) registerRoutes(app *fiber.App) {
	app.Get("/api/health", s.handleHealth)

	app.Get("/api/products", s.handleListActiveProducts)
	app.Get("/api/products/:id", s.handleGetProduct)
	app.Post("/api/orders", s.handleSubmitOrder)

	app.Post("/api/admin/login", s.handleLogin)

	admin := app.Group("/api/admin", s.requireAuth)
	admin.Get("/dashboard", s.handleDashboard)
	admin.Put("/sales", s.handleUpdateSales)

	admin.Get("/products", s.handleAdminListProducts)
	admin.Post("/products", s.handleCreateProduct)
	admin.Put("/products/:id", s.handleUpdateProduct)
	admin.Delete("/products/:id", s.handleDeleteProduct)

	admin.Get("/categories", s.handleListCategories)
	admin.Post("/categories", s.handleCreateCategory)
	admin.Put("/categories/:id", s.handleUpdateCategory)
	admin.Delete("/categories/:id", s.handleDeleteCategory)

	admin.Get("/orders", s.handleListOrders)
	admin.Get("/orders/:id", s.handleGetOrder)
	admin.Patch("/orders/:id", s.handleUpdateOrderStatus)

	admin.Get("/backup", s.handleExportBackup)
	admin.Post("/backup", s.handleImportBackup)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	return s.app.Listen(":" + s.cfg.Server.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "timestamp": time.Now().UTC()})
}
