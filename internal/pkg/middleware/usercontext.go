package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventpix/eventpix/app/repository"
	"github.com/eventpix/eventpix/internal/pkg/session"
	"github.com/eventpix/eventpix/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session identity into a UserContext for
// every request. Anonymous requests pass through with an empty context;
// access control happens in RequireAuth / RequireOrganization.
func UserContextMiddleware(c *fiber.Ctx) error {
	userID := session.UserID(c)
	if userID == 0 {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{})
		return c.Next()
	}

	user, err := repository.GetGlobalRepositories().User.GetByID(userID)
	if err != nil {
		// Stale session pointing at a deleted account: treat as anonymous.
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{})
		return c.Next()
	}

	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		IsLoggedIn: true,
	})
	return c.Next()
}
