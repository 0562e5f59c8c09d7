package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/internal/pkg/usercontext"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// HandleCreateCategory creates an event category in the caller's organization.
func HandleCreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return renderValidation(c, map[string]string{"_": "invalid request body"}, nil)
	}

	category := &models.EventCategory{
		OrganizationID: usercontext.OrganizationID(c),
		Name:           req.Name,
	}
	if err := category.Validate(); err != nil {
		return renderValidation(c, validationFields(err), fiber.Map{"name": req.Name})
	}

	if err := repos().Category.Create(category); err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleListCategories lists the organization's categories.
func HandleListCategories(c *fiber.Ctx) error {
	categories, err := repos().Category.ListByOrg(usercontext.OrganizationID(c))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// HandleDeleteCategory removes a category. Events that used it keep existing
// with their category reference cleared.
func HandleDeleteCategory(c *fiber.Ctx) error {
	if err := repos().Category.Delete(usercontext.OrganizationID(c), c.Params("uuid")); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
