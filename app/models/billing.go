package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Billing enums mirror the payment provider's vocabulary. These rows are
// read-mostly projections updated by inbound webhook events; nothing in this
// codebase transitions them on its own.

const (
	SubscriptionStatusActive            = "active"
	SubscriptionStatusTrialing          = "trialing"
	SubscriptionStatusPastDue           = "past_due"
	SubscriptionStatusCanceled          = "canceled"
	SubscriptionStatusUnpaid            = "unpaid"
	SubscriptionStatusIncomplete        = "incomplete"
	SubscriptionStatusIncompleteExpired = "incomplete_expired"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

const (
	InvoiceStatusDraft         = "draft"
	InvoiceStatusOpen          = "open"
	InvoiceStatusPaid          = "paid"
	InvoiceStatusVoid          = "void"
	InvoiceStatusUncollectible = "uncollectible"
)

// SubscriptionPlan is a catalog entry mirrored from the provider's price
// objects. Plans are global, not tenant-scoped, and are referenced but never
// cascade-deleted by subscriptions.
type SubscriptionPlan struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ExternalPriceRef string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"external_price_ref"`
	Name             string    `gorm:"type:varchar(150)" json:"name"`
	Features         *JSON     `gorm:"type:json" json:"features"`
	PriceCents       int64     `gorm:"not null;default:0" json:"price_cents"`
	Currency         string    `gorm:"type:char(3);not null;default:'usd'" json:"currency"`
	BillingInterval  string    `gorm:"type:varchar(16);not null;default:'month'" json:"billing_interval"`
	IsActive         bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Subscription mirrors a provider subscription for one organization. The
// plan reference survives subscription deletion paths; the subscription row
// itself goes down with its organization.
type Subscription struct {
	ID                      uint             `gorm:"primaryKey" json:"id"`
	UUID                    string           `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	OrganizationID          uint             `gorm:"not null;index" json:"organization_id"`
	Organization            Organization     `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	SubscriptionPlanID      uint             `gorm:"not null;index" json:"subscription_plan_id"`
	SubscriptionPlan        SubscriptionPlan `gorm:"foreignKey:SubscriptionPlanID" json:"-"`
	ExternalSubscriptionRef string           `gorm:"type:varchar(191);uniqueIndex;not null" json:"external_subscription_ref"`
	Status                  string           `gorm:"type:varchar(32);not null;default:'incomplete'" json:"status" validate:"oneof=active trialing past_due canceled unpaid incomplete incomplete_expired"`
	CurrentPeriodStart      *time.Time       `gorm:"type:timestamp;default:null" json:"current_period_start"`
	CurrentPeriodEnd        *time.Time       `gorm:"type:timestamp;default:null" json:"current_period_end"`
	CreatedAt               time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == "" {
		s.UUID = uuid.New().String()
	}
	return nil
}

// Payment mirrors a provider charge. Subscription and invoice links are
// cleared when those rows disappear; the payment row itself survives as
// financial history within its organization.
type Payment struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	OrganizationID    uint          `gorm:"not null;index" json:"organization_id"`
	Organization      Organization  `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	SubscriptionID    *uint         `gorm:"index" json:"subscription_id"`
	Subscription      *Subscription `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:SET NULL" json:"-"`
	InvoiceID         *uint         `gorm:"index" json:"invoice_id"`
	Invoice           *Invoice      `gorm:"foreignKey:InvoiceID;constraint:OnDelete:SET NULL" json:"-"`
	ExternalChargeRef string        `gorm:"type:varchar(191);uniqueIndex;not null" json:"external_charge_ref"`
	AmountCents       int64         `gorm:"not null;default:0" json:"amount_cents"`
	Currency          string        `gorm:"type:char(3);not null;default:'usd'" json:"currency"`
	Status            string        `gorm:"type:varchar(20);not null;default:'pending'" json:"status" validate:"oneof=pending succeeded failed"`
	CreatedAt         time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// Invoice mirrors a provider invoice for one organization.
type Invoice struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	OrganizationID     uint         `gorm:"not null;index" json:"organization_id"`
	Organization       Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	ExternalInvoiceRef string       `gorm:"type:varchar(191);uniqueIndex;not null" json:"external_invoice_ref"`
	AmountDueCents     int64        `gorm:"not null;default:0" json:"amount_due_cents"`
	AmountPaidCents    int64        `gorm:"not null;default:0" json:"amount_paid_cents"`
	Status             string       `gorm:"type:varchar(20);not null;default:'draft'" json:"status" validate:"oneof=draft open paid void uncollectible"`
	DocumentURL        string       `gorm:"type:varchar(500)" json:"document_url"`
	CreatedAt          time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}
