package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/internal/pkg/usercontext"
)

type eventRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Status       string `json:"status"`
	IsPublic     bool   `json:"is_public"`
	CategoryUUID string `json:"category_uuid"`
}

// applyEventRequest copies the request onto the event, resolving dates and
// the optional category under the caller's organization. A category from
// another organization is reported as unknown, not as forbidden.
func applyEventRequest(orgID uint, event *models.Event, req *eventRequest) map[string]string {
	fields := map[string]string{}

	event.Name = req.Name
	event.Description = req.Description
	event.Location = req.Location
	event.IsPublic = req.IsPublic

	if req.StartDate == "" {
		fields["start_date"] = "start date is required"
	} else if start, err := parseDate(req.StartDate); err != nil {
		fields["start_date"] = "invalid date format"
	} else {
		event.StartDate = start
	}

	event.EndDate = nil
	if req.EndDate != "" {
		if end, err := parseDate(req.EndDate); err != nil {
			fields["end_date"] = "invalid date format"
		} else {
			event.EndDate = &end
		}
	}
	if !event.DatesValid() {
		fields["end_date"] = "end date must not be before the start date"
	}

	event.EventCategoryID = nil
	if req.CategoryUUID != "" {
		category, err := repos().Category.GetByUUID(orgID, req.CategoryUUID)
		if err != nil {
			fields["category_uuid"] = "unknown category"
		} else {
			event.EventCategoryID = &category.ID
		}
	}

	return fields
}

// HandleCreateEvent creates an event in the caller's organization. New events
// always start as private drafts regardless of the submitted status.
func HandleCreateEvent(c *fiber.Ctx) error {
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return renderValidation(c, map[string]string{"_": "invalid request body"}, nil)
	}

	orgID := usercontext.OrganizationID(c)
	event := &models.Event{
		OrganizationID: orgID,
		Status:         models.EventStatusDraft,
	}
	fields := applyEventRequest(orgID, event, &req)
	event.IsPublic = false
	if len(fields) == 0 {
		if err := event.Validate(); err != nil {
			fields = validationFields(err)
		}
	}
	if len(fields) > 0 {
		return renderValidation(c, fields, req)
	}

	if err := repos().Event.Create(event); err != nil {
		return renderError(c, err)
	}

	log.Infof("[Event] created %s in org %d", event.UUID, orgID)
	return c.Status(fiber.StatusCreated).JSON(event)
}

// HandleListEvents lists the organization's events, paginated.
func HandleListEvents(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	events, err := repos().Event.ListByOrg(usercontext.OrganizationID(c), offset, limit)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"events": events, "offset": offset, "limit": limit})
}

// HandleGetEvent returns one event by uuid.
func HandleGetEvent(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(event)
}

// HandleUpdateEvent overwrites the event's mutable fields with the submitted
// values. The submitted state is authoritative: omitted optional fields are
// cleared, and the status may move to any legal value.
func HandleUpdateEvent(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return renderValidation(c, map[string]string{"_": "invalid request body"}, nil)
	}

	orgID := usercontext.OrganizationID(c)
	fields := applyEventRequest(orgID, event, &req)
	if req.Status != "" {
		event.Status = req.Status
	}
	if len(fields) == 0 {
		if err := event.Validate(); err != nil {
			fields = validationFields(err)
		}
	}
	if len(fields) > 0 {
		return renderValidation(c, fields, req)
	}

	if err := repos().Event.Update(event); err != nil {
		return renderError(c, err)
	}
	return c.JSON(event)
}

// HandleDeleteEvent irreversibly removes the event and its entire subtree.
// The caller must pass confirm=true.
func HandleDeleteEvent(c *fiber.Ctx) error {
	if err := requireConfirm(c); err != nil {
		return renderError(c, err)
	}

	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	if err := repos().Event.Delete(usercontext.OrganizationID(c), event.UUID); err != nil {
		return renderError(c, err)
	}

	log.Infof("[Event] deleted %s", event.UUID)
	return c.SendStatus(fiber.StatusNoContent)
}
