package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

// matchingRepository implements the MatchingRepository interface
type matchingRepository struct {
	db *gorm.DB
}

// NewMatchingRepository creates a new matching repository instance
func NewMatchingRepository(db *gorm.DB) MatchingRepository {
	return &matchingRepository{db: db}
}

// CreateTask creates a new face matching task row
func (r *matchingRepository) CreateTask(task *models.FaceMatchingTask) error {
	return r.db.Create(task).Error
}

// GetTaskByUUID retrieves a task by UUID without org scoping. Only the
// signature-verified matcher callback may use this path; everything
// user-facing goes through GetTaskForEvent.
func (r *matchingRepository) GetTaskByUUID(uuid string) (*models.FaceMatchingTask, error) {
	var task models.FaceMatchingTask
	if err := r.db.Where("uuid = ?", uuid).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTaskForEvent retrieves a task by UUID within the owning event
func (r *matchingRepository) GetTaskForEvent(eventID uint, uuid string) (*models.FaceMatchingTask, error) {
	var task models.FaceMatchingTask
	err := r.db.Where("uuid = ? AND event_id = ?", uuid, eventID).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasksByEvent retrieves the event's matching tasks, newest first
func (r *matchingRepository) ListTasksByEvent(eventID uint) ([]models.FaceMatchingTask, error) {
	var tasks []models.FaceMatchingTask
	err := r.db.Where("event_id = ?", eventID).
		Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// MarkTaskProcessing records the matcher picking the task up. Only a pending
// task can move to processing; a pickup report arriving after the task
// finished is a no-op.
func (r *matchingRepository) MarkTaskProcessing(taskID uint, externalJobID string) error {
	now := time.Now()
	return r.db.Model(&models.FaceMatchingTask{}).
		Where("id = ? AND status = ?", taskID, models.TaskStatusPending).
		Updates(map[string]interface{}{
			"status":          models.TaskStatusProcessing,
			"external_job_id": externalJobID,
			"started_at":      &now,
		}).Error
}

// MarkTaskCompleted records a successful matching run
func (r *matchingRepository) MarkTaskCompleted(taskID uint) error {
	now := time.Now()
	return r.db.Model(&models.FaceMatchingTask{}).Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":       models.TaskStatusCompleted,
			"completed_at": &now,
		}).Error
}

// MarkTaskFailed records a failed matching run with the reported error
func (r *matchingRepository) MarkTaskFailed(taskID uint, message string) error {
	now := time.Now()
	return r.db.Model(&models.FaceMatchingTask{}).Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":        models.TaskStatusFailed,
			"completed_at":  &now,
			"error_message": message,
		}).Error
}

// CreateFace stores one detected face for a photo
func (r *matchingRepository) CreateFace(face *models.DetectedFace) error {
	return r.db.Create(face).Error
}

// CreateMatch stores one photo/participant match. The composite unique index
// rejects a second row for the same pair.
func (r *matchingRepository) CreateMatch(match *models.PhotoParticipantMatch) error {
	return r.db.Create(match).Error
}

// ListMatchesByEvent retrieves all matches for an event's photos
func (r *matchingRepository) ListMatchesByEvent(eventID uint) ([]models.PhotoParticipantMatch, error) {
	var matches []models.PhotoParticipantMatch
	err := r.db.
		Joins("JOIN event_photos ON event_photos.id = photo_participant_matches.event_photo_id").
		Where("event_photos.event_id = ?", eventID).
		Find(&matches).Error
	return matches, err
}

// ListMatchesByPhoto retrieves all matches for one photo
func (r *matchingRepository) ListMatchesByPhoto(photoID uint) ([]models.PhotoParticipantMatch, error) {
	var matches []models.PhotoParticipantMatch
	err := r.db.Where("event_photo_id = ?", photoID).Find(&matches).Error
	return matches, err
}
