package repository

import (
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

// photoRepository implements the PhotoRepository interface
type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new photo repository instance
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

// Create creates a new photo row in the database
func (r *photoRepository) Create(photo *models.EventPhoto) error {
	return r.db.Create(photo).Error
}

// GetByUUID retrieves a photo by UUID within the owning event
func (r *photoRepository) GetByUUID(eventID uint, uuid string) (*models.EventPhoto, error) {
	var photo models.EventPhoto
	err := r.db.Where("uuid = ? AND event_id = ?", uuid, eventID).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// ListByEvent retrieves the event's photos, newest first
func (r *photoRepository) ListByEvent(eventID uint, offset, limit int) ([]models.EventPhoto, error) {
	var photos []models.EventPhoto
	err := r.db.Where("event_id = ?", eventID).
		Order("uploaded_at DESC").Offset(offset).Limit(limit).Find(&photos).Error
	return photos, err
}

// UpdateReviewStatus moves a photo through the moderation states
func (r *photoRepository) UpdateReviewStatus(eventID uint, uuid string, status string) error {
	result := r.db.Model(&models.EventPhoto{}).
		Where("uuid = ? AND event_id = ?", uuid, eventID).
		Update("review_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the photo row with its detected faces and matches. Storage
// cleanup happens after this returns: the row goes first so a failed object
// delete leaks a file, never a record.
func (r *photoRepository) Delete(eventID uint, uuid string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var photo models.EventPhoto
		if err := tx.Where("uuid = ? AND event_id = ?", uuid, eventID).
			First(&photo).Error; err != nil {
			return err
		}
		if err := tx.Where("event_photo_id = ?", photo.ID).
			Delete(&models.DetectedFace{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_photo_id = ?", photo.ID).
			Delete(&models.PhotoParticipantMatch{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.EventPhoto{}, photo.ID).Error
	})
}
