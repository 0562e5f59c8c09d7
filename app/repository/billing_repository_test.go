package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
)

func seedPlan(t *testing.T, db *gorm.DB, priceRef string) *models.SubscriptionPlan {
	t.Helper()
	plan := &models.SubscriptionPlan{
		ExternalPriceRef: priceRef,
		Name:             "Pro",
		PriceCents:       2900,
		IsActive:         true,
	}
	require.NoError(t, NewBillingRepository(db).UpsertPlan(plan))
	return plan
}

func TestUpsertSubscription_ReplayConverges(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	org := seedOrg(t, db, "Org", owner.ID)
	plan := seedPlan(t, db, "price_123")

	repo := NewBillingRepository(db)
	first := &models.Subscription{
		OrganizationID:          org.ID,
		SubscriptionPlanID:      plan.ID,
		ExternalSubscriptionRef: "sub_123",
		Status:                  models.SubscriptionStatusTrialing,
	}
	require.NoError(t, repo.UpsertSubscription(first))

	// A redelivered, newer version of the same subscription updates in place.
	replay := &models.Subscription{
		OrganizationID:          org.ID,
		SubscriptionPlanID:      plan.ID,
		ExternalSubscriptionRef: "sub_123",
		Status:                  models.SubscriptionStatusActive,
	}
	require.NoError(t, repo.UpsertSubscription(replay))
	assert.Equal(t, first.ID, replay.ID)

	assert.EqualValues(t, 1, countRows(t, db, &models.Subscription{},
		"external_subscription_ref = ?", "sub_123"))

	// The organization mirrors the latest status.
	var kept models.Organization
	require.NoError(t, db.First(&kept, org.ID).Error)
	assert.Equal(t, models.SubscriptionStatusActive, kept.SubscriptionStatus)
}

func TestUpsertInvoice_ReplayKeepsIdentity(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	org := seedOrg(t, db, "Org", owner.ID)

	repo := NewBillingRepository(db)
	first := &models.Invoice{
		OrganizationID:     org.ID,
		ExternalInvoiceRef: "in_123",
		AmountDueCents:     5000,
		Status:             models.InvoiceStatusOpen,
	}
	require.NoError(t, repo.UpsertInvoice(first))

	paid := &models.Invoice{
		OrganizationID:     org.ID,
		ExternalInvoiceRef: "in_123",
		AmountDueCents:     5000,
		AmountPaidCents:    5000,
		Status:             models.InvoiceStatusPaid,
	}
	require.NoError(t, repo.UpsertInvoice(paid))
	assert.Equal(t, first.ID, paid.ID)

	got, err := repo.GetInvoiceByExternalRef("in_123")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, got.Status)
	assert.EqualValues(t, 5000, got.AmountPaidCents)
}

func TestUpsertPlan_StubFilledInLater(t *testing.T) {
	db := newTestDB(t)
	repo := NewBillingRepository(db)

	// Subscription events can arrive before the price event; the stub row
	// created for them is completed by the later price payload.
	stub := &models.SubscriptionPlan{ExternalPriceRef: "price_lag"}
	require.NoError(t, repo.UpsertPlan(stub))

	full := &models.SubscriptionPlan{
		ExternalPriceRef: "price_lag",
		Name:             "Starter",
		PriceCents:       900,
		IsActive:         true,
	}
	require.NoError(t, repo.UpsertPlan(full))
	assert.Equal(t, stub.ID, full.ID)

	got, err := repo.GetPlanByExternalRef("price_lag")
	require.NoError(t, err)
	assert.Equal(t, "Starter", got.Name)
}

func TestListActivePlans(t *testing.T) {
	db := newTestDB(t)
	repo := NewBillingRepository(db)

	require.NoError(t, repo.UpsertPlan(&models.SubscriptionPlan{
		ExternalPriceRef: "price_a", PriceCents: 900, IsActive: true,
	}))
	require.NoError(t, repo.UpsertPlan(&models.SubscriptionPlan{
		ExternalPriceRef: "price_b", PriceCents: 2900, IsActive: false,
	}))

	plans, err := repo.ListActivePlans()
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "price_a", plans[0].ExternalPriceRef)
}

func TestUpdateBillingMirror(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	org := seedOrg(t, db, "Org", owner.ID)

	orgs := NewOrganizationRepository(db)
	require.NoError(t, orgs.UpdateBillingMirror(org.ID, "cus_123", models.SubscriptionStatusActive))

	got, err := orgs.GetByBillingCustomerRef("cus_123")
	require.NoError(t, err)
	assert.Equal(t, org.ID, got.ID)
	assert.Equal(t, models.SubscriptionStatusActive, got.SubscriptionStatus)
}
