package repository

import (
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

// organizationRepository implements the OrganizationRepository interface
type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository instance
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

// Create creates the organization together with the owner's membership row.
func (r *organizationRepository) Create(org *models.Organization, ownerID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		membership := models.OrganizationUser{
			OrganizationID: org.ID,
			UserID:         ownerID,
		}
		return tx.Create(&membership).Error
	})
}

// GetByID retrieves an organization by its ID
func (r *organizationRepository) GetByID(id uint) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// GetByUUID retrieves an organization by its public identifier
func (r *organizationRepository) GetByUUID(uuid string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("uuid = ?", uuid).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// AddMember creates a membership row. The (organization, user) pair is
// unique; adding an existing member fails with gorm.ErrDuplicatedKey.
func (r *organizationRepository) AddMember(orgID, userID uint) error {
	membership := models.OrganizationUser{
		OrganizationID: orgID,
		UserID:         userID,
	}
	return r.db.Create(&membership).Error
}

// MembershipOrgID resolves the organization a user belongs to. The schema
// permits several memberships; scoping uses the oldest one.
func (r *organizationRepository) MembershipOrgID(userID uint) (uint, error) {
	var membership models.OrganizationUser
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").First(&membership).Error
	if err != nil {
		return 0, err
	}
	return membership.OrganizationID, nil
}

// UpdateBillingMirror stores the provider-side customer reference and
// subscription status on the organization row.
func (r *organizationRepository) UpdateBillingMirror(orgID uint, customerRef, subscriptionStatus string) error {
	updates := map[string]interface{}{}
	if customerRef != "" {
		updates["billing_customer_ref"] = customerRef
	}
	if subscriptionStatus != "" {
		updates["subscription_status"] = subscriptionStatus
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Organization{}).Where("id = ?", orgID).Updates(updates).Error
}

// GetByBillingCustomerRef finds the organization mirroring a provider customer
func (r *organizationRepository) GetByBillingCustomerRef(customerRef string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("billing_customer_ref = ?", customerRef).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Delete removes the organization and everything it owns: memberships,
// categories, events with their subtrees, subscriptions, payments and
// invoices. Consent log rows survive with nulled references.
func (r *organizationRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var eventIDs []uint
		if err := tx.Model(&models.Event{}).Where("organization_id = ?", id).
			Pluck("id", &eventIDs).Error; err != nil {
			return err
		}
		for _, eventID := range eventIDs {
			if err := deleteEventSubtree(tx, eventID); err != nil {
				return err
			}
		}
		for _, m := range []interface{}{
			&models.Event{},
			&models.EventCategory{},
			&models.OrganizationUser{},
			&models.Subscription{},
			&models.Payment{},
			&models.Invoice{},
		} {
			if err := tx.Where("organization_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Organization{}, id).Error
	})
}
