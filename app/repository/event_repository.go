package repository

import (
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

// eventRepository implements the EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository instance
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create creates a new event in the database
func (r *eventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// GetByUUID retrieves an event by UUID within the owning organization. A
// UUID that exists under another organization is a not-found, deliberately
// indistinguishable from a missing row.
func (r *eventRepository) GetByUUID(orgID uint, uuid string) (*models.Event, error) {
	var event models.Event
	err := r.db.Where("uuid = ? AND organization_id = ?", uuid, orgID).
		Preload("EventCategory").First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListByOrg retrieves the organization's events, newest first
func (r *eventRepository) ListByOrg(orgID uint, offset, limit int) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("organization_id = ?", orgID).
		Order("start_date DESC").Offset(offset).Limit(limit).Find(&events).Error
	return events, err
}

// Update updates an existing event in the database
func (r *eventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// Delete removes the event and its whole subtree in one transaction.
func (r *eventRepository) Delete(orgID uint, uuid string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where("uuid = ? AND organization_id = ?", uuid, orgID).
			First(&event).Error; err != nil {
			return err
		}
		if err := deleteEventSubtree(tx, event.ID); err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, event.ID).Error
	})
}

// CountPhotos returns the number of photos uploaded for an event
func (r *eventRepository) CountPhotos(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.EventPhoto{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// CountParticipants returns the number of participants registered for an event
func (r *eventRepository) CountParticipants(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Participant{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// deleteEventSubtree removes everything owned by an event: detected faces,
// matches, photos, participants and matching tasks. Consent log rows that
// reference the event or its participants are audit history and keep
// existing with their references nulled.
func deleteEventSubtree(tx *gorm.DB, eventID uint) error {
	if err := tx.Model(&models.ConsentLog{}).Where("event_id = ?", eventID).
		Update("event_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.ConsentLog{}).
		Where("participant_id IN (?)",
			tx.Model(&models.Participant{}).Select("id").Where("event_id = ?", eventID)).
		Update("participant_id", nil).Error; err != nil {
		return err
	}

	photoIDs := tx.Model(&models.EventPhoto{}).Select("id").Where("event_id = ?", eventID)
	if err := tx.Where("event_photo_id IN (?)", photoIDs).Delete(&models.DetectedFace{}).Error; err != nil {
		return err
	}
	if err := tx.Where("event_photo_id IN (?)",
		tx.Model(&models.EventPhoto{}).Select("id").Where("event_id = ?", eventID)).
		Delete(&models.PhotoParticipantMatch{}).Error; err != nil {
		return err
	}

	for _, m := range []interface{}{
		&models.EventPhoto{},
		&models.Participant{},
		&models.FaceMatchingTask{},
	} {
		if err := tx.Where("event_id = ?", eventID).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}
