package repository

import (
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

// consentRepository implements the ConsentRepository interface. The consent
// log is append-only: no update or delete operation exists by design.
type consentRepository struct {
	db *gorm.DB
}

// NewConsentRepository creates a new consent repository instance
func NewConsentRepository(db *gorm.DB) ConsentRepository {
	return &consentRepository{db: db}
}

// Append writes one immutable consent entry
func (r *consentRepository) Append(entry *models.ConsentLog) error {
	return r.db.Create(entry).Error
}

// ListByUser retrieves a user's consent history, newest first
func (r *consentRepository) ListByUser(userID uint) ([]models.ConsentLog, error) {
	var entries []models.ConsentLog
	err := r.db.Where("user_id = ?", userID).
		Order("recorded_at DESC").Find(&entries).Error
	return entries, err
}
