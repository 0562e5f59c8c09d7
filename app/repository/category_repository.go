package repository

import (
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

// categoryRepository implements the CategoryRepository interface
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create creates a new event category in the database
func (r *categoryRepository) Create(category *models.EventCategory) error {
	return r.db.Create(category).Error
}

// GetByUUID retrieves a category by UUID within the owning organization
func (r *categoryRepository) GetByUUID(orgID uint, uuid string) (*models.EventCategory, error) {
	var category models.EventCategory
	err := r.db.Where("uuid = ? AND organization_id = ?", uuid, orgID).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListByOrg retrieves all categories of an organization
func (r *categoryRepository) ListByOrg(orgID uint) ([]models.EventCategory, error) {
	var categories []models.EventCategory
	err := r.db.Where("organization_id = ?", orgID).
		Order("name ASC").Find(&categories).Error
	return categories, err
}

// Delete removes the category after clearing the reference on its events.
// Events keep existing without a category.
func (r *categoryRepository) Delete(orgID uint, uuid string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var category models.EventCategory
		if err := tx.Where("uuid = ? AND organization_id = ?", uuid, orgID).
			First(&category).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Event{}).Where("event_category_id = ?", category.ID).
			Update("event_category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.EventCategory{}, category.ID).Error
	})
}
