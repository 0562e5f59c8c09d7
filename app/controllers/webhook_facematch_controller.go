package controllers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/internal/pkg/env"
	"github.com/eventpix/eventpix/internal/pkg/facematch"
)

type facematchFace struct {
	PhotoUUID  string `json:"photo_uuid"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Descriptor []byte `json:"descriptor"`
}

type facematchMatch struct {
	PhotoUUID       string  `json:"photo_uuid"`
	ParticipantUUID string  `json:"participant_uuid"`
	Confidence      float64 `json:"confidence"`
}

type facematchCallback struct {
	TaskUUID      string           `json:"task_uuid"`
	Status        string           `json:"status"`
	ExternalJobID string           `json:"external_job_id"`
	Error         string           `json:"error"`
	Faces         []facematchFace  `json:"faces"`
	Matches       []facematchMatch `json:"matches"`
}

// HandleFacematchWebhook receives result callbacks from the matching service.
// The request is authenticated by an HMAC signature over the raw body, not by
// a session; the task uuid in the payload selects the run being reported on.
func HandleFacematchWebhook(c *fiber.Ctx) error {
	body := c.Body()
	secret := env.GetEnv("FACEMATCH_WEBHOOK_SECRET", "")
	if !facematch.VerifySignature(body, c.Get(facematch.SignatureHeader), secret) {
		log.Warnf("[Facematch] rejected callback with bad signature from %s", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid signature",
		})
	}

	var cb facematchCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid payload",
		})
	}

	task, err := repos().Matching.GetTaskByUUID(cb.TaskUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "unknown task",
			})
		}
		return renderError(c, err)
	}

	// Redelivered and late callbacks are acknowledged without writing:
	// a finished task keeps its state and its stored results.
	if task.IsTerminal() {
		log.Infof("[Facematch] ignoring %s callback for finished task %s", cb.Status, task.UUID)
		return c.JSON(fiber.Map{"received": true})
	}

	switch cb.Status {
	case models.TaskStatusProcessing:
		if err := repos().Matching.MarkTaskProcessing(task.ID, cb.ExternalJobID); err != nil {
			return renderError(c, err)
		}
	case models.TaskStatusFailed:
		if err := repos().Matching.MarkTaskFailed(task.ID, cb.Error); err != nil {
			return renderError(c, err)
		}
		log.Warnf("[Facematch] task %s failed: %s", task.UUID, cb.Error)
	case models.TaskStatusCompleted:
		if err := storeFacematchResults(task, &cb); err != nil {
			return renderError(c, err)
		}
		if err := repos().Matching.MarkTaskCompleted(task.ID); err != nil {
			return renderError(c, err)
		}
		log.Infof("[Facematch] task %s completed with %d faces, %d matches",
			task.UUID, len(cb.Faces), len(cb.Matches))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown status",
		})
	}

	return c.JSON(fiber.Map{"received": true})
}

// storeFacematchResults inserts the reported faces and matches. Photos and
// participants are resolved under the task's event only, so a payload cannot
// attach results to another event's entities. Entities deleted since the run
// started are skipped, and replayed match pairs are ignored.
func storeFacematchResults(task *models.FaceMatchingTask, cb *facematchCallback) error {
	for _, f := range cb.Faces {
		photo, err := repos().Photo.GetByUUID(task.EventID, f.PhotoUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warnf("[Facematch] skipping face for unknown photo %s", f.PhotoUUID)
				continue
			}
			return err
		}
		face := &models.DetectedFace{
			EventPhotoID: photo.ID,
			X:            f.X,
			Y:            f.Y,
			Width:        f.Width,
			Height:       f.Height,
			Descriptor:   f.Descriptor,
		}
		if err := repos().Matching.CreateFace(face); err != nil {
			return err
		}
	}

	for _, m := range cb.Matches {
		photo, err := repos().Photo.GetByUUID(task.EventID, m.PhotoUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warnf("[Facematch] skipping match for unknown photo %s", m.PhotoUUID)
				continue
			}
			return err
		}
		participant, err := repos().Participant.GetByUUID(task.EventID, m.ParticipantUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warnf("[Facematch] skipping match for unknown participant %s", m.ParticipantUUID)
				continue
			}
			return err
		}
		match := &models.PhotoParticipantMatch{
			EventPhotoID:  photo.ID,
			ParticipantID: participant.ID,
			Confidence:    m.Confidence,
		}
		if err := repos().Matching.CreateMatch(match); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}

	return nil
}
