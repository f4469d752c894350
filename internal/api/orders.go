package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/selet/storefront/internal/checkout"
	"github.com/selet/storefront/internal/models"
	"github.com/selet/storefront/internal/store"
)

type submitOrderRequest struct {
	ID            string              `json:"id"`
	Items         []models.CartItem   `json:"items"`
	Customer      models.CustomerData `json:"customer"`
	PaymentMethod string              `json:"paymentMethod"`
}

func (s *Server) handleSubmitOrder(c *fiber.Ctx) error {
	var req submitOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if len(req.Items) == 0 || req.Customer.Phone == "" || req.PaymentMethod == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing required fields"})
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown payment method"})
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "item quantity must be positive"})
		}
	}

	// Accept the caller's ID when resubmitting a known order across tiers,
	// otherwise mint a fresh short code.
	id := req.ID
	if id == "" {
		id = checkout.NewOrderID()
	}

	order, err := s.orders.Create(c.UserContext(), store.CreateOrderRequest{
		ID:            id,
		Items:         req.Items,
		Customer:      req.Customer,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		s.log.WithError(err).Error("submit order")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save order"})
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (s *Server) handleListOrders(c *fiber.Ctx) error {
	return c.JSON(s.orders.List(c.UserContext()))
}

func (s *Server) handleGetOrder(c *fiber.Ctx) error {
	order, ok := s.orders.GetByID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": store.ErrOrderNotFound.Error()})
	}
	return c.JSON(order)
}

type updateOrderRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

func (s *Server) handleUpdateOrderStatus(c *fiber.Ctx) error {
	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Make sure the working copy is loaded before the lookup.
	s.orders.List(c.UserContext())

	order, err := s.orders.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": store.ErrOrderNotFound.Error()})
		case errors.Is(err, store.ErrInvalidTransition):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status transition"})
		default:
			s.log.WithError(err).Error("update order")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update order"})
		}
	}
	return c.JSON(order)
}
