package models

import (
	"time"
)

const (
	ConsentTypePhotoStorage      = "photo_storage"
	ConsentTypeFacialRecognition = "facial_recognition"
	ConsentTypeDataSharing       = "data_sharing"
)

const (
	ConsentActionGranted = "granted"
	ConsentActionRevoked = "revoked"
)

// ConsentLog is an append-only audit trail of granted/revoked consent. The
// rows are immutable history and must outlive the entities they reference:
// every foreign key is nulled, never cascaded, when its target is deleted.
type ConsentLog struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	UserID        *uint        `gorm:"index" json:"user_id"`
	User          *User        `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	EventID       *uint        `gorm:"index" json:"event_id"`
	Event         *Event       `gorm:"foreignKey:EventID;constraint:OnDelete:SET NULL" json:"-"`
	ParticipantID *uint        `gorm:"index" json:"participant_id"`
	Participant   *Participant `gorm:"foreignKey:ParticipantID;constraint:OnDelete:SET NULL" json:"-"`
	ConsentType   string       `gorm:"type:varchar(32);not null" json:"consent_type" validate:"oneof=photo_storage facial_recognition data_sharing"`
	Action        string       `gorm:"type:varchar(16);not null" json:"action" validate:"oneof=granted revoked"`
	Detail        string       `gorm:"type:text" json:"detail"`
	RecordedAt    time.Time    `gorm:"autoCreateTime" json:"recorded_at"`
}
