package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/eventpix/eventpix/app/repository"
	"github.com/eventpix/eventpix/internal/pkg/apperr"
	"github.com/eventpix/eventpix/internal/pkg/tenancy"
	"github.com/eventpix/eventpix/internal/pkg/usercontext"
)

// RequireAuth ensures a logged-in session and returns JSON 401 otherwise.
func RequireAuth(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)
	if !user.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   string(apperr.KindUnauthorized),
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireOrganization resolves the caller's organization membership and puts
// the org id into locals. Runs after RequireAuth on every route that touches
// an event or anything reachable through one; no handler below it may access
// tenant rows without the resolved scope.
func RequireOrganization(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)
	resolver := tenancy.NewResolver(repository.GetGlobalRepositories().Organization)
	orgID, err := resolver.Resolve(user.UserID)
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return c.Status(apperr.HTTPStatus(ae.Kind)).JSON(fiber.Map{
				"error":   string(ae.Kind),
				"message": ae.Message,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not resolve organization",
		})
	}
	c.Locals(usercontext.KeyOrganizationID, orgID)
	return c.Next()
}
