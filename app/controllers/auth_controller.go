package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/internal/pkg/apperr"
	"github.com/eventpix/eventpix/internal/pkg/auth"
	"github.com/eventpix/eventpix/internal/pkg/session"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account and opens a session for it.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return renderValidation(c, map[string]string{"_": "invalid request body"}, nil)
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return renderValidation(c, validationFields(err),
			fiber.Map{"name": req.Name, "email": req.Email})
	}

	if err := repos().User.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return renderError(c, apperr.DuplicateEmail("an account with this email already exists"))
		}
		return renderError(c, err)
	}

	if err := session.Login(c, user.ID); err != nil {
		log.Errorf("[Auth] failed to create session after register: %v", err)
		return renderError(c, err)
	}

	log.Infof("[Auth] user registered: %s", user.UUID)
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogin verifies credentials and opens a fresh session.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return renderValidation(c, map[string]string{"_": "invalid request body"}, nil)
	}

	verifier := auth.NewVerifier(repos().User)
	user, err := verifier.Verify(req.Email, req.Password)
	if err != nil {
		return renderError(c, err)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repos().User.Update(user); err != nil {
		log.Warnf("[Auth] failed to record last login for %s: %v", user.UUID, err)
	}

	if err := session.Login(c, user.ID); err != nil {
		return renderError(c, err)
	}

	return c.JSON(user)
}

// HandleLogout destroys the caller's session.
func HandleLogout(c *fiber.Ctx) error {
	if err := session.Logout(c); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
