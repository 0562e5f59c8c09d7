package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/internal/pkg/usercontext"
)

type consentRequest struct {
	ConsentType string `json:"consent_type"`
	Action      string `json:"action"`
	Detail      string `json:"detail"`
}

var validConsentTypes = map[string]bool{
	models.ConsentTypePhotoStorage:      true,
	models.ConsentTypeFacialRecognition: true,
	models.ConsentTypeDataSharing:       true,
}

// HandleRecordConsent appends a consent decision for the calling user. The
// log is append-only; decisions are never edited, only superseded by newer
// entries.
func HandleRecordConsent(c *fiber.Ctx) error {
	var req consentRequest
	if err := c.BodyParser(&req); err != nil {
		return renderValidation(c, map[string]string{"_": "invalid request body"}, nil)
	}

	fields := map[string]string{}
	if !validConsentTypes[req.ConsentType] {
		fields["consent_type"] = "unknown consent type"
	}
	if req.Action != models.ConsentActionGranted && req.Action != models.ConsentActionRevoked {
		fields["action"] = "must be granted or revoked"
	}
	if len(fields) > 0 {
		return renderValidation(c, fields, req)
	}

	uc := usercontext.GetUserContext(c)
	entry := &models.ConsentLog{
		UserID:      &uc.UserID,
		ConsentType: req.ConsentType,
		Action:      req.Action,
		Detail:      req.Detail,
	}
	if err := repos().Consent.Append(entry); err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleListConsents lists the calling user's consent history, newest first.
func HandleListConsents(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	entries, err := repos().Consent.ListByUser(uc.UserID)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"consents": entries})
}
