package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// EventPhoto is an uploaded image belonging to one event and one uploader.
// The row is removed when either the event or the uploader is deleted, and
// takes its detected faces and participant matches with it.
type EventPhoto struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         string    `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	EventID      uint      `gorm:"not null;index" json:"event_id"`
	Event        Event     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	UploaderID   uint      `gorm:"not null;index" json:"uploader_id"`
	Uploader     User      `gorm:"foreignKey:UploaderID;constraint:OnDelete:CASCADE" json:"-"`
	FileURL      string    `gorm:"type:varchar(500);not null" json:"file_url"`
	ThumbnailURL string    `gorm:"type:varchar(500)" json:"thumbnail_url"`
	FileName     string    `gorm:"type:varchar(255)" json:"file_name"`
	FileSize     int64     `gorm:"type:bigint" json:"file_size"`
	ContentType  string    `gorm:"type:varchar(50)" json:"content_type"`
	ReviewStatus string    `gorm:"type:varchar(20);not null;default:'pending'" json:"review_status" validate:"oneof=pending approved rejected"`
	IsPublic     bool      `gorm:"default:false" json:"is_public"`
	Metadata     *JSON     `gorm:"type:json" json:"metadata"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Faces   []DetectedFace          `gorm:"foreignKey:EventPhotoID" json:"-"`
	Matches []PhotoParticipantMatch `gorm:"foreignKey:EventPhotoID" json:"-"`
}

func (p *EventPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	if p.ReviewStatus == "" {
		p.ReviewStatus = ReviewStatusPending
	}
	return nil
}

// DetectedFace is one face found in a photo by the matching service, with its
// bounding box and an optional descriptor vector for later comparisons.
type DetectedFace struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	EventPhotoID uint       `gorm:"not null;index" json:"event_photo_id"`
	EventPhoto   EventPhoto `gorm:"foreignKey:EventPhotoID;constraint:OnDelete:CASCADE" json:"-"`
	X            int        `gorm:"not null" json:"x"`
	Y            int        `gorm:"not null" json:"y"`
	Width        int        `gorm:"not null" json:"width"`
	Height       int        `gorm:"not null" json:"height"`
	Descriptor   []byte     `gorm:"type:blob" json:"-"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// PhotoParticipantMatch joins a photo to a participant with a confidence
// score. At most one match row may exist per (photo, participant) pair; the
// row disappears when either side does.
type PhotoParticipantMatch struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	EventPhotoID  uint        `gorm:"not null;uniqueIndex:ux_matches_photo_participant,priority:1" json:"event_photo_id"`
	EventPhoto    EventPhoto  `gorm:"foreignKey:EventPhotoID;constraint:OnDelete:CASCADE" json:"-"`
	ParticipantID uint        `gorm:"not null;uniqueIndex:ux_matches_photo_participant,priority:2;index" json:"participant_id"`
	Participant   Participant `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE" json:"-"`
	Confidence    float64     `gorm:"not null" json:"confidence"`
	MatchedAt     time.Time   `gorm:"autoCreateTime" json:"matched_at"`
}
