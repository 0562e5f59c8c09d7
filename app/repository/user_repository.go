package repository

import (
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by its ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user. Memberships and uploaded photos cascade; participant
// links and consent log references are nulled by the schema.
func (r *userRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ConsentLog{}).Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Participant{}).Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		var photoIDs []uint
		if err := tx.Model(&models.EventPhoto{}).Where("uploader_id = ?", id).
			Pluck("id", &photoIDs).Error; err != nil {
			return err
		}
		if len(photoIDs) > 0 {
			if err := tx.Where("event_photo_id IN ?", photoIDs).Delete(&models.DetectedFace{}).Error; err != nil {
				return err
			}
			if err := tx.Where("event_photo_id IN ?", photoIDs).Delete(&models.PhotoParticipantMatch{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", photoIDs).Delete(&models.EventPhoto{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.OrganizationUser{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
