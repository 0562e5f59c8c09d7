package billing

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/app/repository"
	"github.com/eventpix/eventpix/internal/pkg/database"
)

var billingDBSeq int64

func newServiceFixture(t *testing.T) (*Service, *gorm.DB, *models.Organization) {
	t.Helper()

	dsn := fmt.Sprintf("file:billingtest%d?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		atomic.AddInt64(&billingDBSeq, 1))
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

	owner := &models.User{Name: "Owner", Email: "owner@example.com", Password: "x"}
	require.NoError(t, db.Create(owner).Error)
	orgs := repository.NewOrganizationRepository(db)
	org := &models.Organization{Name: "Org"}
	require.NoError(t, orgs.Create(org, owner.ID))

	return NewService(repository.NewBillingRepository(db), orgs), db, org
}

func providerEvent(t *testing.T, eventType string, payload string) stripe.Event {
	t.Helper()
	return stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: json.RawMessage(payload)},
	}
}

func TestHandleEvent_CheckoutLinksCustomer(t *testing.T) {
	svc, db, org := newServiceFixture(t)

	payload := fmt.Sprintf(`{"id":"cs_1","client_reference_id":%q,"customer":{"id":"cus_9"}}`, org.UUID)
	require.NoError(t, svc.HandleEvent(providerEvent(t, "checkout.session.completed", payload)))

	var got models.Organization
	require.NoError(t, db.First(&got, org.ID).Error)
	assert.Equal(t, "cus_9", got.BillingCustomerRef)

	// The link makes later customer-keyed events resolvable.
	subPayload := `{"id":"sub_1","customer":{"id":"cus_9"},"status":"active",` +
		`"items":{"data":[{"price":{"id":"price_1"}}]}}`
	require.NoError(t, svc.HandleEvent(providerEvent(t, "customer.subscription.created", subPayload)))

	var sub models.Subscription
	require.NoError(t, db.Where("external_subscription_ref = ?", "sub_1").First(&sub).Error)
	assert.Equal(t, org.ID, sub.OrganizationID)

	require.NoError(t, db.First(&got, org.ID).Error)
	assert.Equal(t, "active", got.SubscriptionStatus)
}

func TestHandleEvent_CheckoutUnknownOrganizationSkipped(t *testing.T) {
	svc, db, org := newServiceFixture(t)

	payload := `{"id":"cs_1","client_reference_id":"00000000-0000-0000-0000-000000000000","customer":{"id":"cus_9"}}`
	require.NoError(t, svc.HandleEvent(providerEvent(t, "checkout.session.completed", payload)))

	var got models.Organization
	require.NoError(t, db.First(&got, org.ID).Error)
	assert.Empty(t, got.BillingCustomerRef)
}

func TestHandleEvent_CheckoutWithoutReferenceSkipped(t *testing.T) {
	svc, db, org := newServiceFixture(t)

	payload := `{"id":"cs_1","customer":{"id":"cus_9"}}`
	require.NoError(t, svc.HandleEvent(providerEvent(t, "checkout.session.completed", payload)))

	var got models.Organization
	require.NoError(t, db.First(&got, org.ID).Error)
	assert.Empty(t, got.BillingCustomerRef)
}
