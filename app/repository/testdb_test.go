package repository

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/internal/pkg/database"
)

var testDBSeq int64

// newTestDB opens a private in-memory database with foreign keys enforced
// and the full schema migrated. Each test gets its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A shared-cache memory database disappears with its last connection;
	// keep exactly one so the schema survives the whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedOrg(t *testing.T, db *gorm.DB, name string, ownerID uint) *models.Organization {
	t.Helper()
	org := &models.Organization{Name: name}
	require.NoError(t, NewOrganizationRepository(db).Create(org, ownerID))
	return org
}

func seedEvent(t *testing.T, db *gorm.DB, orgID uint, name string) *models.Event {
	t.Helper()
	event := &models.Event{
		OrganizationID: orgID,
		Name:           name,
		StartDate:      time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func seedParticipant(t *testing.T, db *gorm.DB, eventID uint, email string) *models.Participant {
	t.Helper()
	p := &models.Participant{
		EventID: eventID,
		Name:    "Guest",
		Email:   email,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedPhoto(t *testing.T, db *gorm.DB, eventID, uploaderID uint) *models.EventPhoto {
	t.Helper()
	photo := &models.EventPhoto{
		EventID:    eventID,
		UploaderID: uploaderID,
		FileURL:    "https://cdn.example.com/photo.jpg",
	}
	require.NoError(t, db.Create(photo).Error)
	return photo
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
