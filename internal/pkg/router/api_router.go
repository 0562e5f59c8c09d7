package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/eventpix/eventpix/app/controllers"
	"github.com/eventpix/eventpix/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())

	// API v1 routes; everything here needs a logged-in session.
	v1 := api.Group("/v1", middleware.RequireAuth)

	// Organization bootstrap and per-user consent: no membership needed.
	v1.Post("/organizations", controllers.HandleCreateOrganization)
	v1.Post("/consents", controllers.HandleRecordConsent)
	v1.Get("/consents", controllers.HandleListConsents)
	v1.Get("/plans", controllers.HandleListPlans)

	// Tenant routes: the caller's organization is resolved once here and
	// every lookup below is scoped to it.
	org := v1.Group("", middleware.RequireOrganization)

	org.Get("/organization", controllers.HandleGetOrganization)
	org.Get("/organization/billing", controllers.HandleGetBilling)

	org.Post("/categories", controllers.HandleCreateCategory)
	org.Get("/categories", controllers.HandleListCategories)
	org.Delete("/categories/:uuid", controllers.HandleDeleteCategory)

	org.Post("/events", controllers.HandleCreateEvent)
	org.Get("/events", controllers.HandleListEvents)
	org.Get("/events/:uuid", controllers.HandleGetEvent)
	org.Put("/events/:uuid", controllers.HandleUpdateEvent)
	org.Delete("/events/:uuid", controllers.HandleDeleteEvent)

	org.Post("/events/:uuid/participants", controllers.HandleCreateParticipant)
	org.Get("/events/:uuid/participants", controllers.HandleListParticipants)
	org.Get("/events/:uuid/participants/:participantUuid", controllers.HandleGetParticipant)
	org.Patch("/events/:uuid/participants/:participantUuid", controllers.HandleUpdateParticipant)
	org.Delete("/events/:uuid/participants/:participantUuid", controllers.HandleDeleteParticipant)

	org.Post("/events/:uuid/photos", controllers.HandleUploadPhoto)
	org.Get("/events/:uuid/photos", controllers.HandleListPhotos)
	org.Patch("/events/:uuid/photos/:photoUuid/review", controllers.HandleReviewPhoto)
	org.Delete("/events/:uuid/photos/:photoUuid", controllers.HandleDeletePhoto)
	org.Get("/events/:uuid/photos/:photoUuid/matches", controllers.HandleListPhotoMatches)

	org.Post("/events/:uuid/matching", controllers.HandleInitiateMatching)
	org.Get("/events/:uuid/matching", controllers.HandleListMatchingTasks)
	org.Get("/events/:uuid/matching/:taskUuid", controllers.HandleGetMatchingTask)
	org.Get("/events/:uuid/matches", controllers.HandleListMatches)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
