package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the tenancy and billing boundary. Every event and all of
// its sub-resources belong to exactly one organization; deleting an
// organization takes its whole subtree with it.
type Organization struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	UUID string `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	Name string `gorm:"type:varchar(200);not null" json:"name" validate:"required,min=2,max=200"`

	// Billing mirror fields, authoritative state lives at the payment provider.
	BillingCustomerRef string `gorm:"type:varchar(191);default:null;index" json:"billing_customer_ref"`
	SubscriptionStatus string `gorm:"type:varchar(32);default:null" json:"subscription_status"`

	Members       []OrganizationUser `gorm:"foreignKey:OrganizationID" json:"-"`
	Events        []Event            `gorm:"foreignKey:OrganizationID" json:"-"`
	Categories    []EventCategory    `gorm:"foreignKey:OrganizationID" json:"-"`
	Subscriptions []Subscription     `gorm:"foreignKey:OrganizationID" json:"-"`
	Payments      []Payment          `gorm:"foreignKey:OrganizationID" json:"-"`
	Invoices      []Invoice          `gorm:"foreignKey:OrganizationID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *Organization) Validate() error {
	v := validator.New()

	return v.Struct(o)
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == "" {
		o.UUID = uuid.New().String()
	}
	return nil
}

// OrganizationUser is the membership junction and the sole tenancy-resolution
// path: a user's organization is whichever organization holds a membership
// row for them. The (user, organization) pair is unique; deleting either side
// removes the row.
type OrganizationUser struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	OrganizationID uint         `gorm:"not null;uniqueIndex:ux_org_users_org_user,priority:1" json:"organization_id"`
	Organization   Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	UserID         uint         `gorm:"not null;uniqueIndex:ux_org_users_org_user,priority:2;index" json:"user_id"`
	User           User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}
