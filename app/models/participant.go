package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const RegistrationStatusInvited = "Invited"

// Participant is a person tracked against an event for matching purposes.
// The optional user link is cleared, not cascaded, when the account goes
// away; name and email carry the identity when no account is linked.
//
// The (event, email) pair is unique at the store level so concurrent
// identical registrations cannot both land.
type Participant struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UUID               string    `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	EventID            uint      `gorm:"not null;uniqueIndex:ux_participants_event_email,priority:1;index" json:"event_id"`
	Event              Event     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	UserID             *uint     `gorm:"index" json:"user_id"`
	User               *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Name               string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	Email              string    `gorm:"type:varchar(200);not null;uniqueIndex:ux_participants_event_email,priority:2" json:"email" validate:"required,email"`
	RegistrationStatus string    `gorm:"type:varchar(50);not null;default:'Invited'" json:"registration_status"`
	ConsentStatus      bool      `gorm:"default:false" json:"consent_status"`
	ReferencePhotoURL  string    `gorm:"type:varchar(500)" json:"reference_photo_url"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Matches []PhotoParticipantMatch `gorm:"foreignKey:ParticipantID" json:"-"`
}

func (p *Participant) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	if p.RegistrationStatus == "" {
		p.RegistrationStatus = RegistrationStatusInvited
	}
	return nil
}
