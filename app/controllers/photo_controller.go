package controllers

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/internal/pkg/apperr"
	"github.com/eventpix/eventpix/internal/pkg/imageprocessor"
	"github.com/eventpix/eventpix/internal/pkg/upload"
	"github.com/eventpix/eventpix/internal/pkg/usercontext"
)

const maxUploadBytes = 50 * 1024 * 1024

// HandleUploadPhoto accepts a multipart image, stores the original and a
// thumbnail, and records the photo. Storage is written before the database
// row; if the row insert fails the stored objects are deleted again so no
// orphaned files accumulate.
func HandleUploadPhoto(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return renderValidation(c, map[string]string{"file": "image file is required"}, nil)
	}
	if fileHeader.Size > maxUploadBytes {
		return renderValidation(c, map[string]string{"file": "file exceeds the maximum upload size"}, nil)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return renderError(c, err)
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return renderError(c, err)
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	contentType, err := upload.ValidateImageBySniff(fileHeader.Filename, head)
	if err != nil {
		return renderValidation(c, map[string]string{"file": err.Error()}, nil)
	}

	ctx := c.UserContext()
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	baseKey := fmt.Sprintf("events/%s/%s", event.UUID, uuid.New().String())

	fileURL, err := fileStorage.Upload(ctx, data, baseKey+ext, contentType)
	if err != nil {
		return renderError(c, apperr.Wrap(apperr.KindUpstreamFailure, "failed to store the image", err))
	}

	// Thumbnail and metadata are best effort; the original always wins.
	thumbnailURL := ""
	if thumb, err := imageprocessor.Thumbnail(data); err != nil {
		log.Warnf("[Photo] thumbnail generation failed for %s: %v", fileHeader.Filename, err)
	} else if url, err := fileStorage.Upload(ctx, thumb, baseKey+"_thumb.jpg", "image/jpeg"); err != nil {
		log.Warnf("[Photo] thumbnail upload failed for %s: %v", fileHeader.Filename, err)
	} else {
		thumbnailURL = url
	}

	var metadata *models.JSON
	if raw := imageprocessor.ExtractMetadata(data); raw != nil {
		m := models.JSON(raw)
		metadata = &m
	}

	uc := usercontext.GetUserContext(c)
	photo := &models.EventPhoto{
		EventID:      event.ID,
		UploaderID:   uc.UserID,
		FileURL:      fileURL,
		ThumbnailURL: thumbnailURL,
		FileName:     fileHeader.Filename,
		FileSize:     fileHeader.Size,
		ContentType:  contentType,
		Metadata:     metadata,
	}
	if err := repos().Photo.Create(photo); err != nil {
		// Compensate: the stored objects must not outlive a failed insert.
		if derr := fileStorage.Delete(ctx, fileURL); derr != nil {
			log.Errorf("[Photo] failed to clean up %s after insert failure: %v", fileURL, derr)
		}
		if thumbnailURL != "" {
			if derr := fileStorage.Delete(ctx, thumbnailURL); derr != nil {
				log.Errorf("[Photo] failed to clean up %s after insert failure: %v", thumbnailURL, derr)
			}
		}
		return renderError(c, err)
	}

	log.Infof("[Photo] uploaded %s to event %s", photo.UUID, event.UUID)
	return c.Status(fiber.StatusCreated).JSON(photo)
}

// HandleListPhotos lists the event's photos, paginated.
func HandleListPhotos(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	photos, err := repos().Photo.ListByEvent(event.ID, offset, limit)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"photos": photos, "offset": offset, "limit": limit})
}

type reviewRequest struct {
	ReviewStatus string `json:"review_status"`
}

// HandleReviewPhoto sets a photo's review status to approved or rejected.
func HandleReviewPhoto(c *fiber.Ctx) error {
	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return renderValidation(c, map[string]string{"_": "invalid request body"}, nil)
	}
	if req.ReviewStatus != models.ReviewStatusApproved && req.ReviewStatus != models.ReviewStatusRejected {
		return renderValidation(c, map[string]string{
			"review_status": "must be approved or rejected",
		}, req)
	}

	uuid := c.Params("photoUuid")
	if err := repos().Photo.UpdateReviewStatus(event.ID, uuid, req.ReviewStatus); err != nil {
		return renderError(c, err)
	}

	photo, err := repos().Photo.GetByUUID(event.ID, uuid)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(photo)
}

// HandleDeletePhoto removes a photo with confirm=true. The database row goes
// first so the photo is immediately gone for callers; the stored objects are
// cleaned up afterwards and a cleanup failure only leaks storage, never
// resurrects the photo.
func HandleDeletePhoto(c *fiber.Ctx) error {
	if err := requireConfirm(c); err != nil {
		return renderError(c, err)
	}

	event, err := resolveEvent(c)
	if err != nil {
		return renderError(c, err)
	}

	photo, err := repos().Photo.GetByUUID(event.ID, c.Params("photoUuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return renderError(c, apperr.New(apperr.KindNotFound, "photo not found"))
		}
		return renderError(c, err)
	}

	if err := repos().Photo.Delete(event.ID, photo.UUID); err != nil {
		return renderError(c, err)
	}

	ctx := c.UserContext()
	if err := fileStorage.Delete(ctx, photo.FileURL); err != nil {
		log.Errorf("[Photo] failed to delete stored object %s: %v", photo.FileURL, err)
	}
	if photo.ThumbnailURL != "" {
		if err := fileStorage.Delete(ctx, photo.ThumbnailURL); err != nil {
			log.Errorf("[Photo] failed to delete stored object %s: %v", photo.ThumbnailURL, err)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}
