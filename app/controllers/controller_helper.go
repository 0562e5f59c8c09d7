package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/app/repository"
	"github.com/eventpix/eventpix/internal/pkg/apperr"
	"github.com/eventpix/eventpix/internal/pkg/billing"
	"github.com/eventpix/eventpix/internal/pkg/facematch"
	"github.com/eventpix/eventpix/internal/pkg/storage"
	"github.com/eventpix/eventpix/internal/pkg/usercontext"
)

// Ports the controllers orchestrate. Wired once at startup from main.
var (
	fileStorage    storage.Storage
	matchTrigger   facematch.Trigger
	billingService *billing.Service
)

// Setup injects the external capability ports into the controller layer.
func Setup(s storage.Storage, t facematch.Trigger, b *billing.Service) {
	fileStorage = s
	matchTrigger = t
	billingService = b
}

func repos() *repository.Repositories {
	return repository.GetGlobalRepositories()
}

// renderError translates an operation failure into the JSON error contract.
// Field-level failures carry a fields map; everything else is kind+message.
func renderError(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		body := fiber.Map{
			"error":   string(ae.Kind),
			"message": ae.Message,
		}
		if len(ae.Fields) > 0 {
			body["fields"] = ae.Fields
		}
		return c.Status(apperr.HTTPStatus(ae.Kind)).JSON(body)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   string(apperr.KindNotFound),
			"message": "not found",
		})
	}

	log.Errorf("[HTTP] unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal",
		"message": "internal server error",
	})
}

// renderValidation returns a 422 with per-field messages and echoes the
// submitted values back so the caller's input is not lost.
func renderValidation(c *fiber.Ctx, fields map[string]string, values interface{}) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error":   string(apperr.KindValidationFailed),
		"message": "validation failed",
		"fields":  fields,
		"values":  values,
	})
}

// validationFields flattens validator.ValidationErrors into a field map.
func validationFields(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		}
		return fields
	}
	fields["_"] = err.Error()
	return fields
}

// resolveEvent loads the event addressed by the :uuid route param under the
// caller's organization. A miss, including a cross-tenant hit, is NotFound.
func resolveEvent(c *fiber.Ctx) (*models.Event, error) {
	orgID := usercontext.OrganizationID(c)
	uuid := c.Params("uuid")
	event, err := repos().Event.GetByUUID(orgID, uuid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "event not found")
		}
		return nil, err
	}
	return event, nil
}

// parseDate accepts a plain date or a full RFC3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// requireConfirm gates irreversible deletions behind an explicit
// confirm=true query flag from the caller.
func requireConfirm(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return apperr.New(apperr.KindPreconditionFailed,
			"destructive operation requires confirm=true")
	}
	return nil
}
