package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/app/repository"
	"github.com/eventpix/eventpix/internal/pkg/database"
	"github.com/eventpix/eventpix/internal/pkg/usercontext"
)

var apiDBSeq int64

type apiFixture struct {
	app   *fiber.App
	db    *gorm.DB
	owner *models.User
	event *models.Event
}

// newAPIFixture builds an app with the session middleware replaced by a
// locals shim, so handlers run against a real database under a fixed caller.
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		atomic.AddInt64(&apiDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	repository.InitializeFactory(db)

	owner := &models.User{Name: "Owner", Email: "owner@example.com", Password: "x"}
	require.NoError(t, db.Create(owner).Error)
	org := &models.Organization{Name: "Org"}
	require.NoError(t, repository.GetGlobalRepositories().Organization.Create(org, owner.ID))
	event := &models.Event{OrganizationID: org.ID, Name: "Gala", StartDate: time.Now()}
	require.NoError(t, db.Create(event).Error)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			UserID: owner.ID, Name: owner.Name, Email: owner.Email, IsLoggedIn: true,
		})
		c.Locals(usercontext.KeyOrganizationID, org.ID)
		return c.Next()
	})
	app.Post("/api/v1/events/:uuid/participants", HandleCreateParticipant)

	return &apiFixture{app: app, db: db, owner: owner, event: event}
}

func (f *apiFixture) postJSON(t *testing.T, target string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return doRequest(t, f.app, http.MethodPost, target, bytes.NewReader(body))
}

func TestCreateParticipant_RegistrationStatusFromRequest(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.postJSON(t, "/api/v1/events/"+f.event.UUID+"/participants", fiber.Map{
		"name":                "Guest",
		"email":               "guest@example.com",
		"registration_status": "Confirmed",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.Participant
	decodeBody(t, resp, &created)
	assert.Equal(t, "Confirmed", created.RegistrationStatus)

	var stored models.Participant
	require.NoError(t, f.db.Where("event_id = ? AND email = ?", f.event.ID, "guest@example.com").
		First(&stored).Error)
	assert.Equal(t, "Confirmed", stored.RegistrationStatus)
}

func TestCreateParticipant_DefaultsToInvited(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.postJSON(t, "/api/v1/events/"+f.event.UUID+"/participants", fiber.Map{
		"name":  "Guest",
		"email": "guest@example.com",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.Participant
	decodeBody(t, resp, &created)
	assert.Equal(t, models.RegistrationStatusInvited, created.RegistrationStatus)
}

func TestCreateParticipant_DuplicateEmailRejected(t *testing.T) {
	f := newAPIFixture(t)

	payload := fiber.Map{"name": "Guest", "email": "guest@example.com"}
	resp := f.postJSON(t, "/api/v1/events/"+f.event.UUID+"/participants", payload)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = f.postJSON(t, "/api/v1/events/"+f.event.UUID+"/participants", payload)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "duplicate_email", body["error"])
}
