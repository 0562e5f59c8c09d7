package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

func TestOrganizationCreate_AddsOwnerMembership(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")

	repo := NewOrganizationRepository(db)
	org := &models.Organization{Name: "Studio"}
	require.NoError(t, repo.Create(org, owner.ID))

	orgID, err := repo.MembershipOrgID(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, org.ID, orgID)
}

func TestMembershipOrgID_NoMembership(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "loner@example.com")

	repo := NewOrganizationRepository(db)
	_, err := repo.MembershipOrgID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAddMember_DuplicatePairRejected(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	org := seedOrg(t, db, "Studio", owner.ID)
	member := seedUser(t, db, "member@example.com")

	repo := NewOrganizationRepository(db)
	require.NoError(t, repo.AddMember(org.ID, member.ID))
	err := repo.AddMember(org.ID, member.ID)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOrganizationDelete_RemovesOwnedRows(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	org := seedOrg(t, db, "Studio", owner.ID)
	event := seedEvent(t, db, org.ID, "Launch")
	seedParticipant(t, db, event.ID, "guest@example.com")
	seedPhoto(t, db, event.ID, owner.ID)

	repo := NewOrganizationRepository(db)
	require.NoError(t, repo.Delete(org.ID))

	_, err := repo.GetByID(org.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, countRows(t, db, &models.Event{}, "organization_id = ?", org.ID))
	assert.Zero(t, countRows(t, db, &models.OrganizationUser{}, "organization_id = ?", org.ID))
	assert.Zero(t, countRows(t, db, &models.Participant{}, "event_id = ?", event.ID))
	assert.Zero(t, countRows(t, db, &models.EventPhoto{}, "event_id = ?", event.ID))

	// The member account itself is not part of the tenant subtree.
	assert.EqualValues(t, 1, countRows(t, db, &models.User{}, "id = ?", owner.ID))
}
