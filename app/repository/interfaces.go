package repository

import (
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

// Every event-reachable lookup below takes the owning scope (organization or
// event id) as its first argument. A row that exists under a different scope
// is reported as gorm.ErrRecordNotFound, never as a distinct "forbidden", so
// cross-tenant probes cannot learn that an entity exists.

// UserRepository defines user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
}

// OrganizationRepository defines tenant and membership operations
type OrganizationRepository interface {
	Create(org *models.Organization, ownerID uint) error
	GetByID(id uint) (*models.Organization, error)
	GetByUUID(uuid string) (*models.Organization, error)
	AddMember(orgID, userID uint) error
	// MembershipOrgID resolves the caller's organization via the membership
	// junction. Returns gorm.ErrRecordNotFound when no membership exists.
	MembershipOrgID(userID uint) (uint, error)
	UpdateBillingMirror(orgID uint, customerRef, subscriptionStatus string) error
	GetByBillingCustomerRef(customerRef string) (*models.Organization, error)
	Delete(id uint) error
}

// CategoryRepository defines event category operations
type CategoryRepository interface {
	Create(category *models.EventCategory) error
	GetByUUID(orgID uint, uuid string) (*models.EventCategory, error)
	ListByOrg(orgID uint) ([]models.EventCategory, error)
	// Delete clears the category reference on dependent events, it never
	// deletes them.
	Delete(orgID uint, uuid string) error
}

// EventRepository defines org-scoped event lifecycle operations
type EventRepository interface {
	Create(event *models.Event) error
	GetByUUID(orgID uint, uuid string) (*models.Event, error)
	ListByOrg(orgID uint, offset, limit int) ([]models.Event, error)
	Update(event *models.Event) error
	// Delete removes the event and its entire subtree (participants, photos,
	// faces, matches, tasks) in one transaction. Consent log rows referencing
	// the event survive with their event link nulled.
	Delete(orgID uint, uuid string) error
	CountPhotos(eventID uint) (int64, error)
	CountParticipants(eventID uint) (int64, error)
}

// ParticipantRepository defines event-scoped participant operations
type ParticipantRepository interface {
	// Create inserts a participant; a duplicate (event, email) pair surfaces
	// as gorm.ErrDuplicatedKey from the store's unique index.
	Create(p *models.Participant) error
	GetByUUID(eventID uint, uuid string) (*models.Participant, error)
	ListByEvent(eventID uint) ([]models.Participant, error)
	Update(p *models.Participant) error
	Delete(eventID uint, uuid string) error
}

// PhotoRepository defines event-scoped photo operations
type PhotoRepository interface {
	Create(photo *models.EventPhoto) error
	GetByUUID(eventID uint, uuid string) (*models.EventPhoto, error)
	ListByEvent(eventID uint, offset, limit int) ([]models.EventPhoto, error)
	UpdateReviewStatus(eventID uint, uuid string, status string) error
	Delete(eventID uint, uuid string) error
}

// MatchingRepository defines face-matching task, face and match operations
type MatchingRepository interface {
	CreateTask(task *models.FaceMatchingTask) error
	GetTaskByUUID(uuid string) (*models.FaceMatchingTask, error)
	GetTaskForEvent(eventID uint, uuid string) (*models.FaceMatchingTask, error)
	ListTasksByEvent(eventID uint) ([]models.FaceMatchingTask, error)
	MarkTaskProcessing(taskID uint, externalJobID string) error
	MarkTaskCompleted(taskID uint) error
	MarkTaskFailed(taskID uint, message string) error
	CreateFace(face *models.DetectedFace) error
	// CreateMatch inserts a match row; a second row for the same
	// (photo, participant) pair fails with gorm.ErrDuplicatedKey.
	CreateMatch(match *models.PhotoParticipantMatch) error
	ListMatchesByEvent(eventID uint) ([]models.PhotoParticipantMatch, error)
	ListMatchesByPhoto(photoID uint) ([]models.PhotoParticipantMatch, error)
}

// BillingRepository defines upserts for provider-mirrored billing state,
// keyed by the provider's external references
type BillingRepository interface {
	UpsertPlan(plan *models.SubscriptionPlan) error
	GetPlanByExternalRef(ref string) (*models.SubscriptionPlan, error)
	ListActivePlans() ([]models.SubscriptionPlan, error)
	UpsertSubscription(sub *models.Subscription) error
	GetSubscriptionByExternalRef(ref string) (*models.Subscription, error)
	UpsertPayment(payment *models.Payment) error
	UpsertInvoice(invoice *models.Invoice) error
	GetInvoiceByExternalRef(ref string) (*models.Invoice, error)
	ListInvoicesByOrg(orgID uint) ([]models.Invoice, error)
	ListPaymentsByOrg(orgID uint) ([]models.Payment, error)
}

// ConsentRepository defines append-only consent audit operations
type ConsentRepository interface {
	Append(entry *models.ConsentLog) error
	ListByUser(userID uint) ([]models.ConsentLog, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Organization OrganizationRepository
	Category     CategoryRepository
	Event        EventRepository
	Participant  ParticipantRepository
	Photo        PhotoRepository
	Matching     MatchingRepository
	Billing      BillingRepository
	Consent      ConsentRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Organization: NewOrganizationRepository(db),
		Category:     NewCategoryRepository(db),
		Event:        NewEventRepository(db),
		Participant:  NewParticipantRepository(db),
		Photo:        NewPhotoRepository(db),
		Matching:     NewMatchingRepository(db),
		Billing:      NewBillingRepository(db),
		Consent:      NewConsentRepository(db),
	}
}
