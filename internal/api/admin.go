package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/selet/storefront/internal/models"
)

var portugueseMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

func currentMonth(now time.Time) (string, int) {
	return portugueseMonths[now.Month()-1], now.Year()
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	if !s.limiter.allow(c.IP()) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many login attempts, please try again later"})
	}

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and password required"})
	}

	token, user, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	return c.JSON(fiber.Map{"token": token, "user": user})
}

func (s *Server) handleDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	month, year := currentMonth(time.Now())

	stats := models.DashboardStats{
		MonthlySales:   s.sales.ForMonth(month, year),
		PendingOrders:  s.orders.CountByStatus(ctx, models.OrderStatusPending),
		TotalOrders:    len(s.orders.List(ctx)),
		TotalProducts:  len(s.products.List(ctx)),
		ActiveProducts: len(s.products.Active(ctx)),
	}
	return c.JSON(stats)
}

type updateSalesRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes"`
}

func (s *Server) handleUpdateSales(c *fiber.Ctx) error {
	var req updateSalesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	month, year := currentMonth(time.Now())
	return c.JSON(s.sales.Upsert(month, year, req.Amount, req.Notes))
}

func (s *Server) handleExportBackup(c *fiber.Ctx) error {
	data, err := s.backup.Export(c.UserContext())
	if err != nil {
		s.log.WithError(err).Error("export backup")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not export backup"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

func (s *Server) handleImportBackup(c *fiber.Ctx) error {
	nProducts, nCategories, err := s.backup.Import(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "not a valid store backup"})
	}
	return c.JSON(fiber.Map{"products": nProducts, "categories": nCategories})
}
