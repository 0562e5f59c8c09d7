package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/internal/pkg/apperr"
)

// HandleInitiateMatching starts an asynchronous face-matching run for the
// event. The run needs something to work on: at least one photo and one
// participant must exist, otherwise the request fails as a precondition
// violation naming what is missing.
func HandleInitiateMatching(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	photos, err := repos().Event.CountPhotos(event.ID)
	if err != nil {
		return renderError(c, err)
	}
	participants, err := repos().Event.CountParticipants(event.ID)
	if err != nil {
		return renderError(c, err)
	}
	switch {
	case photos == 0 && participants == 0:
		return renderError(c, apperr.New(apperr.KindPreconditionFailed,
			"the event has no photos and no participants to match"))
	case photos == 0:
		return renderError(c, apperr.New(apperr.KindPreconditionFailed,
			"the event has no photos to match"))
	case participants == 0:
		return renderError(c, apperr.New(apperr.KindPreconditionFailed,
			"the event has no participants to match"))
	}

	task := &models.FaceMatchingTask{EventID: event.ID}
	if err := repos().Matching.CreateTask(task); err != nil {
		return renderError(c, err)
	}

	if err := matchTrigger.Submit(c.UserContext(), event.UUID, task.UUID); err != nil {
		log.Errorf("[Matching] submission failed for task %s: %v", task.UUID, err)
		if merr := repos().Matching.MarkTaskFailed(task.ID, "submission to the matching service failed"); merr != nil {
			log.Errorf("[Matching] failed to mark task %s failed: %v", task.UUID, merr)
		}
		return renderError(c, apperr.Wrap(apperr.KindUpstreamFailure,
			"the matching service could not be reached", err))
	}

	log.Infof("[Matching] task %s submitted for event %s", task.UUID, event.UUID)
	return c.Status(fiber.StatusAccepted).JSON(task)
}

// HandleListMatchingTasks lists the event's matching runs, newest first.
func HandleListMatchingTasks(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	tasks, err := repos().Matching.ListTasksByEvent(event.ID)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"tasks": tasks})
}

// HandleGetMatchingTask returns one matching run by uuid.
func HandleGetMatchingTask(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	task, err := repos().Matching.GetTaskForEvent(event.ID, c.Params("taskUuid"))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(task)
}

// HandleListMatches lists the event's photo-participant matches.
func HandleListMatches(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	matches, err := repos().Matching.ListMatchesByEvent(event.ID)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"matches": matches})
}

// HandleListPhotoMatches lists the matches on one photo.
func HandleListPhotoMatches(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	photo, err := repos().Photo.GetByUUID(event.ID, c.Params("photoUuid"))
	if err != nil {
		return renderError(c, err)
	}

	matches, err := repos().Matching.ListMatchesByPhoto(photo.ID)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"matches": matches})
}
