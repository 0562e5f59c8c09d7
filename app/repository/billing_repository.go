package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

// billingRepository implements the BillingRepository interface. All writes
// are upserts keyed by the provider's external references: webhook deliveries
// may arrive more than once and out of order, so replays must converge.
type billingRepository struct {
	db *gorm.DB
}

// NewBillingRepository creates a new billing repository instance
func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

// UpsertPlan creates or updates a plan keyed by its external price reference
func (r *billingRepository) UpsertPlan(plan *models.SubscriptionPlan) error {
	var existing models.SubscriptionPlan
	err := r.db.Where("external_price_ref = ?", plan.ExternalPriceRef).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(plan).Error
	}
	if err != nil {
		return err
	}
	plan.ID = existing.ID
	plan.CreatedAt = existing.CreatedAt
	return r.db.Save(plan).Error
}

// GetPlanByExternalRef retrieves a plan by its external price reference
func (r *billingRepository) GetPlanByExternalRef(ref string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.Where("external_price_ref = ?", ref).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListActivePlans retrieves the active plan catalog
func (r *billingRepository) ListActivePlans() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.Where("is_active = ?", true).Order("price_cents ASC").Find(&plans).Error
	return plans, err
}

// UpsertSubscription creates or updates a subscription keyed by its external
// reference and refreshes the organization's mirrored status.
func (r *billingRepository) UpsertSubscription(sub *models.Subscription) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Subscription
		err := tx.Where("external_subscription_ref = ?", sub.ExternalSubscriptionRef).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(sub).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			sub.ID = existing.ID
			sub.UUID = existing.UUID
			sub.CreatedAt = existing.CreatedAt
			if err := tx.Save(sub).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Organization{}).Where("id = ?", sub.OrganizationID).
			Update("subscription_status", sub.Status).Error
	})
}

// GetSubscriptionByExternalRef retrieves a subscription by its external reference
func (r *billingRepository) GetSubscriptionByExternalRef(ref string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("external_subscription_ref = ?", ref).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpsertPayment creates or updates a payment keyed by its external charge reference
func (r *billingRepository) UpsertPayment(payment *models.Payment) error {
	var existing models.Payment
	err := r.db.Where("external_charge_ref = ?", payment.ExternalChargeRef).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(payment).Error
	}
	if err != nil {
		return err
	}
	payment.ID = existing.ID
	payment.CreatedAt = existing.CreatedAt
	return r.db.Save(payment).Error
}

// UpsertInvoice creates or updates an invoice keyed by its external reference
func (r *billingRepository) UpsertInvoice(invoice *models.Invoice) error {
	var existing models.Invoice
	err := r.db.Where("external_invoice_ref = ?", invoice.ExternalInvoiceRef).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(invoice).Error
	}
	if err != nil {
		return err
	}
	invoice.ID = existing.ID
	invoice.CreatedAt = existing.CreatedAt
	return r.db.Save(invoice).Error
}

// GetInvoiceByExternalRef retrieves an invoice by its external reference
func (r *billingRepository) GetInvoiceByExternalRef(ref string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.Where("external_invoice_ref = ?", ref).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListInvoicesByOrg retrieves the organization's invoices, newest first
func (r *billingRepository) ListInvoicesByOrg(orgID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Where("organization_id = ?", orgID).
		Order("created_at DESC").Find(&invoices).Error
	return invoices, err
}

// ListPaymentsByOrg retrieves the organization's payments, newest first
func (r *billingRepository) ListPaymentsByOrg(orgID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("organization_id = ?", orgID).
		Order("created_at DESC").Find(&payments).Error
	return payments, err
}
