package billing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v76"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/app/repository"
)

// Service mirrors provider billing state into local tables. It never
// transitions billing state on its own: every write is a projection of an
// inbound webhook event, keyed by the provider's external references so
// replays and out-of-order deliveries converge.
type Service struct {
	billing repository.BillingRepository
	orgs    repository.OrganizationRepository
}

// NewService creates the billing mirror service
func NewService(billing repository.BillingRepository, orgs repository.OrganizationRepository) *Service {
	return &Service{billing: billing, orgs: orgs}
}

// HandleEvent dispatches one verified provider event into the mirror tables.
// Events for customers we do not know are logged and skipped so the provider
// does not keep retrying them.
func (s *Service) HandleEvent(event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to parse checkout event: %w", err)
		}
		return s.applyCheckout(&sess)
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription event: %w", err)
		}
		return s.applySubscription(&sub)
	case "invoice.finalized", "invoice.paid", "invoice.payment_failed", "invoice.voided", "invoice.marked_uncollectible":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return fmt.Errorf("failed to parse invoice event: %w", err)
		}
		return s.applyInvoice(&inv)
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return fmt.Errorf("failed to parse payment event: %w", err)
		}
		return s.applyPayment(&pi)
	case "price.created", "price.updated":
		var price stripe.Price
		if err := json.Unmarshal(event.Data.Raw, &price); err != nil {
			return fmt.Errorf("failed to parse price event: %w", err)
		}
		return s.applyPrice(&price)
	default:
		log.Debugf("[Billing] ignoring event type %s", event.Type)
		return nil
	}
}

// applyCheckout links the provider customer to the organization that started
// the checkout. The organization uuid travels as the session's client
// reference, set when the checkout is created; later subscription, invoice
// and payment events resolve the organization through this link.
func (s *Service) applyCheckout(sess *stripe.CheckoutSession) error {
	if sess.Customer == nil || sess.ClientReferenceID == "" {
		log.Warnf("[Billing] checkout %s without customer or client reference, skipping", sess.ID)
		return nil
	}
	org, err := s.orgs.GetByUUID(sess.ClientReferenceID)
	if err != nil {
		log.Warnf("[Billing] checkout %s for unknown organization %s, skipping", sess.ID, sess.ClientReferenceID)
		return nil
	}
	return s.orgs.UpdateBillingMirror(org.ID, sess.Customer.ID, "")
}

func (s *Service) applySubscription(sub *stripe.Subscription) error {
	if sub.Customer == nil {
		return fmt.Errorf("subscription %s carries no customer", sub.ID)
	}
	org, err := s.orgs.GetByBillingCustomerRef(sub.Customer.ID)
	if err != nil {
		log.Warnf("[Billing] subscription %s for unknown customer %s, skipping", sub.ID, sub.Customer.ID)
		return nil
	}

	priceRef := ""
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		priceRef = sub.Items.Data[0].Price.ID
	}
	plan, err := s.billing.GetPlanByExternalRef(priceRef)
	if err != nil {
		// Price events can lag behind subscription events; create a stub
		// plan row that the price event fills in later.
		plan = &models.SubscriptionPlan{ExternalPriceRef: priceRef}
		if err := s.billing.UpsertPlan(plan); err != nil {
			return err
		}
	}

	record := &models.Subscription{
		OrganizationID:          org.ID,
		SubscriptionPlanID:      plan.ID,
		ExternalSubscriptionRef: sub.ID,
		Status:                  SubscriptionStatus(string(sub.Status)),
		CurrentPeriodStart:      unixTime(sub.CurrentPeriodStart),
		CurrentPeriodEnd:        unixTime(sub.CurrentPeriodEnd),
	}
	return s.billing.UpsertSubscription(record)
}

func (s *Service) applyInvoice(inv *stripe.Invoice) error {
	if inv.Customer == nil {
		return fmt.Errorf("invoice %s carries no customer", inv.ID)
	}
	org, err := s.orgs.GetByBillingCustomerRef(inv.Customer.ID)
	if err != nil {
		log.Warnf("[Billing] invoice %s for unknown customer %s, skipping", inv.ID, inv.Customer.ID)
		return nil
	}

	documentURL := inv.HostedInvoiceURL
	if documentURL == "" {
		documentURL = inv.InvoicePDF
	}
	record := &models.Invoice{
		OrganizationID:     org.ID,
		ExternalInvoiceRef: inv.ID,
		AmountDueCents:     inv.AmountDue,
		AmountPaidCents:    inv.AmountPaid,
		Status:             InvoiceStatus(string(inv.Status)),
		DocumentURL:        documentURL,
	}
	return s.billing.UpsertInvoice(record)
}

func (s *Service) applyPayment(pi *stripe.PaymentIntent) error {
	if pi.Customer == nil {
		return fmt.Errorf("payment %s carries no customer", pi.ID)
	}
	org, err := s.orgs.GetByBillingCustomerRef(pi.Customer.ID)
	if err != nil {
		log.Warnf("[Billing] payment %s for unknown customer %s, skipping", pi.ID, pi.Customer.ID)
		return nil
	}

	record := &models.Payment{
		OrganizationID:    org.ID,
		ExternalChargeRef: pi.ID,
		AmountCents:       pi.Amount,
		Currency:          string(pi.Currency),
		Status:            PaymentStatus(string(pi.Status)),
	}
	if pi.Invoice != nil {
		if invoice, err := s.billing.GetInvoiceByExternalRef(pi.Invoice.ID); err == nil {
			record.InvoiceID = &invoice.ID
		}
	}
	return s.billing.UpsertPayment(record)
}

func (s *Service) applyPrice(price *stripe.Price) error {
	interval := "month"
	if price.Recurring != nil {
		interval = string(price.Recurring.Interval)
	}
	record := &models.SubscriptionPlan{
		ExternalPriceRef: price.ID,
		Name:             price.Nickname,
		PriceCents:       price.UnitAmount,
		Currency:         string(price.Currency),
		BillingInterval:  interval,
		IsActive:         price.Active,
	}
	return s.billing.UpsertPlan(record)
}

func unixTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0)
	return &t
}
