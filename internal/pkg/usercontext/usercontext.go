package usercontext

import (
	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the middleware chain.
const (
	KeyUserContext    = "USER_CONTEXT"
	KeyOrganizationID = "ORGANIZATION_ID"
)

// UserContext carries the authenticated identity for one request.
type UserContext struct {
	UserID     uint
	Name       string
	Email      string
	IsLoggedIn bool
}

// GetUserContext returns the request's user context, or an anonymous one.
func GetUserContext(c *fiber.Ctx) UserContext {
	if v, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return v
	}
	return UserContext{}
}

// OrganizationID returns the caller's resolved organization, or 0 when the
// tenancy middleware has not run or found no membership.
func OrganizationID(c *fiber.Ctx) uint {
	if v, ok := c.Locals(KeyOrganizationID).(uint); ok {
		return v
	}
	return 0
}
