package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

func TestEventGetByUUID_ScopedToOrganization(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	orgA := seedOrg(t, db, "Org A", owner.ID)
	other := seedUser(t, db, "other@example.com")
	orgB := seedOrg(t, db, "Org B", other.ID)
	event := seedEvent(t, db, orgA.ID, "Wedding")

	repo := NewEventRepository(db)

	got, err := repo.GetByUUID(orgA.ID, event.UUID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)

	// Same uuid through the wrong tenant must look like a missing row.
	_, err = repo.GetByUUID(orgB.ID, event.UUID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEventDelete_RemovesSubtree(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	org := seedOrg(t, db, "Org", owner.ID)
	event := seedEvent(t, db, org.ID, "Conference")
	participant := seedParticipant(t, db, event.ID, "guest@example.com")
	photo := seedPhoto(t, db, event.ID, owner.ID)

	face := &models.DetectedFace{EventPhotoID: photo.ID, X: 1, Y: 2, Width: 30, Height: 40}
	require.NoError(t, db.Create(face).Error)
	match := &models.PhotoParticipantMatch{
		EventPhotoID:  photo.ID,
		ParticipantID: participant.ID,
		Confidence:    0.93,
	}
	require.NoError(t, db.Create(match).Error)
	task := &models.FaceMatchingTask{EventID: event.ID}
	require.NoError(t, db.Create(task).Error)
	consent := &models.ConsentLog{
		UserID:        &owner.ID,
		EventID:       &event.ID,
		ParticipantID: &participant.ID,
		ConsentType:   models.ConsentTypeFacialRecognition,
		Action:        models.ConsentActionGranted,
	}
	require.NoError(t, db.Create(consent).Error)

	repo := NewEventRepository(db)
	require.NoError(t, repo.Delete(org.ID, event.UUID))

	_, err := repo.GetByUUID(org.ID, event.UUID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.Zero(t, countRows(t, db, &models.Participant{}, "event_id = ?", event.ID))
	assert.Zero(t, countRows(t, db, &models.EventPhoto{}, "event_id = ?", event.ID))
	assert.Zero(t, countRows(t, db, &models.DetectedFace{}, "event_photo_id = ?", photo.ID))
	assert.Zero(t, countRows(t, db, &models.PhotoParticipantMatch{}, "event_photo_id = ?", photo.ID))
	assert.Zero(t, countRows(t, db, &models.FaceMatchingTask{}, "event_id = ?", event.ID))

	// The consent entry is audit history: it survives with its links cleared.
	var kept models.ConsentLog
	require.NoError(t, db.First(&kept, consent.ID).Error)
	assert.Nil(t, kept.EventID)
	assert.Nil(t, kept.ParticipantID)
	assert.Equal(t, owner.ID, *kept.UserID)
}

func TestEventDelete_WrongOrganizationLeavesEventIntact(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	orgA := seedOrg(t, db, "Org A", owner.ID)
	other := seedUser(t, db, "other@example.com")
	orgB := seedOrg(t, db, "Org B", other.ID)
	event := seedEvent(t, db, orgA.ID, "Gala")

	repo := NewEventRepository(db)
	err := repo.Delete(orgB.ID, event.UUID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.GetByUUID(orgA.ID, event.UUID)
	assert.NoError(t, err)
}

func TestEventCounts(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	org := seedOrg(t, db, "Org", owner.ID)
	event := seedEvent(t, db, org.ID, "Party")
	seedParticipant(t, db, event.ID, "a@example.com")
	seedParticipant(t, db, event.ID, "b@example.com")
	seedPhoto(t, db, event.ID, owner.ID)

	repo := NewEventRepository(db)
	photos, err := repo.CountPhotos(event.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, photos)
	participants, err := repo.CountParticipants(event.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, participants)
}

func TestCategoryDelete_ClearsEventReference(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	org := seedOrg(t, db, "Org", owner.ID)

	categories := NewCategoryRepository(db)
	category := &models.EventCategory{OrganizationID: org.ID, Name: "Weddings"}
	require.NoError(t, categories.Create(category))

	event := seedEvent(t, db, org.ID, "Ceremony")
	require.NoError(t, db.Model(event).Update("event_category_id", category.ID).Error)

	require.NoError(t, categories.Delete(org.ID, category.UUID))

	var kept models.Event
	require.NoError(t, db.First(&kept, event.ID).Error)
	assert.Nil(t, kept.EventCategoryID)
}
