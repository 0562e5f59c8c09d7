package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/internal/pkg/apperr"
)

type participantRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	RegistrationStatus string `json:"registration_status"`
	ConsentStatus      *bool  `json:"consent_status"`
	ReferencePhotoURL  string `json:"reference_photo_url"`
}

// HandleCreateParticipant registers a participant on the event. Uniqueness of
// the (event, email) pair is enforced by the store, so two concurrent
// registrations with the same email cannot both succeed.
func HandleCreateParticipant(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	var req participantRequest
	if err := c.BodyParser(&req); err != nil {
		return renderValidation(c, map[string]string{"_": "invalid request body"}, nil)
	}

	participant := &models.Participant{
		EventID:            event.ID,
		Name:               req.Name,
		Email:              req.Email,
		RegistrationStatus: req.RegistrationStatus,
		ReferencePhotoURL:  req.ReferencePhotoURL,
	}
	if req.ConsentStatus != nil {
		participant.ConsentStatus = *req.ConsentStatus
	}
	if err := participant.Validate(); err != nil {
		return renderValidation(c, validationFields(err),
			fiber.Map{"name": req.Name, "email": req.Email})
	}

	if err := repos().Participant.Create(participant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return renderError(c, apperr.DuplicateEmail(
				"a participant with this email is already registered for this event"))
		}
		return renderError(c, err)
	}

	if participant.ConsentStatus {
		appendParticipantConsent(event, participant, models.ConsentActionGranted)
	}

	return c.Status(fiber.StatusCreated).JSON(participant)
}

// HandleListParticipants lists the event's participants.
func HandleListParticipants(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	participants, err := repos().Participant.ListByEvent(event.ID)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"participants": participants})
}

// HandleGetParticipant returns one participant by uuid.
func HandleGetParticipant(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	participant, err := repos().Participant.GetByUUID(event.ID, c.Params("participantUuid"))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(participant)
}

// HandleUpdateParticipant updates a participant's registration and consent
// state. A consent flip is additionally recorded in the audit log.
func HandleUpdateParticipant(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	participant, err := repos().Participant.GetByUUID(event.ID, c.Params("participantUuid"))
	if err != nil {
		return renderError(c, err)
	}

	var req participantRequest
	if err := c.BodyParser(&req); err != nil {
		return renderValidation(c, map[string]string{"_": "invalid request body"}, nil)
	}

	if req.Name != "" {
		participant.Name = req.Name
	}
	if req.RegistrationStatus != "" {
		participant.RegistrationStatus = req.RegistrationStatus
	}
	if req.ReferencePhotoURL != "" {
		participant.ReferencePhotoURL = req.ReferencePhotoURL
	}

	consentChanged := false
	if req.ConsentStatus != nil && *req.ConsentStatus != participant.ConsentStatus {
		participant.ConsentStatus = *req.ConsentStatus
		consentChanged = true
	}

	if err := participant.Validate(); err != nil {
		return renderValidation(c, validationFields(err), req)
	}
	if err := repos().Participant.Update(participant); err != nil {
		return renderError(c, err)
	}

	if consentChanged {
		action := models.ConsentActionRevoked
		if participant.ConsentStatus {
			action = models.ConsentActionGranted
		}
		appendParticipantConsent(event, participant, action)
	}

	return c.JSON(participant)
}

// HandleDeleteParticipant removes a participant and their matches. Consent
// log rows referencing them survive with the link cleared.
func HandleDeleteParticipant(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	if err := repos().Participant.Delete(event.ID, c.Params("participantUuid")); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// appendParticipantConsent records a consent transition. The audit trail is
// best effort relative to the participant write; a failed append is logged.
func appendParticipantConsent(event *models.Event, p *models.Participant, action string) {
	entry := &models.ConsentLog{
		UserID:        p.UserID,
		EventID:       &event.ID,
		ParticipantID: &p.ID,
		ConsentType:   models.ConsentTypeFacialRecognition,
		Action:        action,
	}
	if err := repos().Consent.Append(entry); err != nil {
		log.Errorf("[Consent] failed to record %s for participant %s: %v", action, p.UUID, err)
	}
}
