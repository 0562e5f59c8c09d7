package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventStatusDraft     = "draft"
	EventStatusUpcoming  = "upcoming"
	EventStatusActive    = "active"
	EventStatusCompleted = "completed"
	EventStatusArchived  = "archived"
)

// EventCategory is an optional per-organization label for events. Deleting a
// category clears the reference on its events instead of deleting them.
type EventCategory struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UUID           string       `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	OrganizationID uint         `gorm:"not null;index" json:"organization_id"`
	Organization   Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	Name           string       `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *EventCategory) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

func (c *EventCategory) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

// Event is the unit photographers work against. It owns its participants,
// photos and matching tasks; deleting an event is irreversible and removes
// the entire subtree.
//
// Status carries no enforced transition order. Organizers may move an event
// to any status at any time (admin override), so the field is validated for
// legal values only.
type Event struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UUID            string         `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	OrganizationID  uint           `gorm:"not null;index" json:"organization_id"`
	Organization    Organization   `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	EventCategoryID *uint          `gorm:"index" json:"event_category_id"`
	EventCategory   *EventCategory `gorm:"foreignKey:EventCategoryID;constraint:OnDelete:SET NULL" json:"event_category,omitempty"`
	Name            string         `gorm:"type:varchar(255);not null" json:"name" validate:"required,min=1,max=255"`
	Description     string         `gorm:"type:text" json:"description"`
	Location        string         `gorm:"type:varchar(255)" json:"location"`
	StartDate       time.Time      `gorm:"not null" json:"start_date" validate:"required"`
	EndDate         *time.Time     `gorm:"default:null" json:"end_date"`
	Status          string         `gorm:"type:varchar(20);not null;default:'draft'" json:"status" validate:"oneof=draft upcoming active completed archived"`
	IsPublic        bool           `gorm:"default:false" json:"is_public"`

	Participants  []Participant      `gorm:"foreignKey:EventID" json:"-"`
	Photos        []EventPhoto       `gorm:"foreignKey:EventID" json:"-"`
	MatchingTasks []FaceMatchingTask `gorm:"foreignKey:EventID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Event) Validate() error {
	v := validator.New()

	if err := v.Struct(e); err != nil {
		return err
	}
	return nil
}

// DatesValid reports whether the end date, when set, is not before the start.
func (e *Event) DatesValid() bool {
	if e.EndDate == nil {
		return true
	}
	return !e.EndDate.Before(e.StartDate)
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = EventStatusDraft
	}
	return nil
}
