package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/internal/pkg/usercontext"
)

type createOrganizationRequest struct {
	Name string `json:"name"`
}

// HandleCreateOrganization creates a tenant with the caller as its first
// member. The caller needs no prior membership for this one operation.
func HandleCreateOrganization(c *fiber.Ctx) error {
	var req createOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return renderValidation(c, map[string]string{"_": "invalid request body"}, nil)
	}

	uc := usercontext.GetUserContext(c)
	org := &models.Organization{Name: req.Name}
	if err := org.Validate(); err != nil {
		return renderValidation(c, validationFields(err), fiber.Map{"name": req.Name})
	}

	if err := repos().Organization.Create(org, uc.UserID); err != nil {
		return renderError(c, err)
	}

	log.Infof("[Organization] created %s by user %d", org.UUID, uc.UserID)
	return c.Status(fiber.StatusCreated).JSON(org)
}

// HandleGetOrganization returns the caller's organization.
func HandleGetOrganization(c *fiber.Ctx) error {
	org, err := repos().Organization.GetByID(usercontext.OrganizationID(c))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(org)
}

// HandleGetBilling returns the organization's mirrored billing state: the
// subscription status plus invoice and payment history.
func HandleGetBilling(c *fiber.Ctx) error {
	orgID := usercontext.OrganizationID(c)

	org, err := repos().Organization.GetByID(orgID)
	if err != nil {
		return renderError(c, err)
	}
	invoices, err := repos().Billing.ListInvoicesByOrg(orgID)
	if err != nil {
		return renderError(c, err)
	}
	payments, err := repos().Billing.ListPaymentsByOrg(orgID)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(fiber.Map{
		"subscription_status": org.SubscriptionStatus,
		"invoices":            invoices,
		"payments":            payments,
	})
}

// HandleListPlans returns the active plan catalog.
func HandleListPlans(c *fiber.Ctx) error {
	plans, err := repos().Billing.ListActivePlans()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"plans": plans})
}
