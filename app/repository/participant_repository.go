package repository

import (
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

// participantRepository implements the ParticipantRepository interface
type participantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository creates a new participant repository instance
func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

// Create inserts the participant. Uniqueness of (event, email) is enforced
// by the store's composite index, not a lookup, so concurrent identical
// submissions cannot both land; the loser gets gorm.ErrDuplicatedKey.
func (r *participantRepository) Create(p *models.Participant) error {
	return r.db.Create(p).Error
}

// GetByUUID retrieves a participant by UUID within the owning event
func (r *participantRepository) GetByUUID(eventID uint, uuid string) (*models.Participant, error) {
	var p models.Participant
	err := r.db.Where("uuid = ? AND event_id = ?", uuid, eventID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByEvent retrieves all participants of an event
func (r *participantRepository) ListByEvent(eventID uint) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.Where("event_id = ?", eventID).
		Order("created_at ASC").Find(&participants).Error
	return participants, err
}

// Update updates an existing participant in the database
func (r *participantRepository) Update(p *models.Participant) error {
	return r.db.Save(p).Error
}

// Delete removes the participant. Matches cascade; consent log references
// are nulled so the audit trail survives.
func (r *participantRepository) Delete(eventID uint, uuid string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var p models.Participant
		if err := tx.Where("uuid = ? AND event_id = ?", uuid, eventID).
			First(&p).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ConsentLog{}).Where("participant_id = ?", p.ID).
			Update("participant_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("participant_id = ?", p.ID).
			Delete(&models.PhotoParticipantMatch{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Participant{}, p.ID).Error
	})
}
