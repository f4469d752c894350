package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/selet/storefront/internal/store"
)

func (s *Server) handleListActiveProducts(c *fiber.Ctx) error {
	return c.JSON(s.products.Active(c.UserContext()))
}

func (s *Server) handleGetProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	for _, p := range s.products.List(c.UserContext()) {
		if p.ID == id {
			return c.JSON(p)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": store.ErrProductNotFound.Error()})
}

func (s *Server) handleAdminListProducts(c *fiber.Ctx) error {
	return c.JSON(s.products.List(c.UserContext()))
}

func (s *Server) handleCreateProduct(c *fiber.Ctx) error {
	var in store.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	product, err := s.products.Add(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, store.ErrNameRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "product name is required"})
		}
		s.log.WithError(err).Error("create product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save product"})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

func (s *Server) handleUpdateProduct(c *fiber.Ctx) error {
	var patch store.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	id := c.Params("id")
	updated, ok := s.products.Update(c.UserContext(), id, patch)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": store.ErrProductNotFound.Error()})
	}

	// Setting the flag routes through the sweep so at most one active
	// product stays featured.
	if patch.IsFeatured != nil && *patch.IsFeatured {
		if swept, ok := s.products.SetFeatured(c.UserContext(), id); ok {
			updated = swept
		}
	}

	return c.JSON(updated)
}

func (s *Server) handleDeleteProduct(c *fiber.Ctx) error {
	if !s.products.Delete(c.UserContext(), c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": store.ErrProductNotFound.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
