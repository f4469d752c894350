package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/selet/storefront/internal/store"
)

func (s *Server) handleListCategories(c *fiber.Ctx) error {
	return c.JSON(s.categories.List(c.UserContext()))
}

func (s *Server) handleCreateCategory(c *fiber.Ctx) error {
	var in store.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	category, err := s.categories.Add(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, store.ErrNameRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category name is required"})
		}
		s.log.WithError(err).Error("create category")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save category"})
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

func (s *Server) handleUpdateCategory(c *fiber.Ctx) error {
	var patch store.CategoryPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	updated, ok := s.categories.Update(c.UserContext(), c.Params("id"), patch)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": store.ErrCategoryNotFound.Error()})
	}
	return c.JSON(updated)
}

// handleDeleteCategory refuses to delete a category that still has active
// products associated with it.
func (s *Server) handleDeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")

	if len(s.products.ByCategory(c.UserContext(), id)) > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": store.ErrCategoryInUse.Error()})
	}

	if !s.categories.Delete(c.UserContext(), id) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": store.ErrCategoryNotFound.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}
