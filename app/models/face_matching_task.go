package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusProcessing = "processing"
	TaskStatusCompleted  = "completed"
	TaskStatusFailed     = "failed"
)

// FaceMatchingTask tracks one asynchronous matching run for an event. Rows
// are created pending here; every later transition is driven by the matcher
// reporting back through the inbound webhook.
type FaceMatchingTask struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UUID          string     `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	EventID       uint       `gorm:"not null;index" json:"event_id"`
	Event         Event      `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status" validate:"oneof=pending processing completed failed"`
	ExternalJobID string     `gorm:"type:varchar(191);default:null" json:"external_job_id"`
	StartedAt     *time.Time `gorm:"type:timestamp;default:null" json:"started_at"`
	CompletedAt   *time.Time `gorm:"type:timestamp;default:null" json:"completed_at"`
	ErrorMessage  string     `gorm:"type:text" json:"error_message"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsTerminal reports whether the task reached a final state. Terminal tasks
// never transition again.
func (t *FaceMatchingTask) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

func (t *FaceMatchingTask) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == "" {
		t.UUID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = TaskStatusPending
	}
	return nil
}
