package billing

import "github.com/eventpix/eventpix/app/models"

// The provider's status vocabularies are mapped onto the local enums here.
// Values outside the known set fall back to a safe default instead of
// polluting the mirror with unknown states.

// SubscriptionStatus maps a provider subscription status to the local enum.
func SubscriptionStatus(provider string) string {
	switch provider {
	case models.SubscriptionStatusActive,
		models.SubscriptionStatusTrialing,
		models.SubscriptionStatusPastDue,
		models.SubscriptionStatusCanceled,
		models.SubscriptionStatusUnpaid,
		models.SubscriptionStatusIncomplete,
		models.SubscriptionStatusIncompleteExpired:
		return provider
	default:
		return models.SubscriptionStatusIncomplete
	}
}

// InvoiceStatus maps a provider invoice status to the local enum.
func InvoiceStatus(provider string) string {
	switch provider {
	case models.InvoiceStatusDraft,
		models.InvoiceStatusOpen,
		models.InvoiceStatusPaid,
		models.InvoiceStatusVoid,
		models.InvoiceStatusUncollectible:
		return provider
	default:
		return models.InvoiceStatusDraft
	}
}

// PaymentStatus maps a provider payment-intent status to the local enum.
func PaymentStatus(provider string) string {
	switch provider {
	case "succeeded":
		return models.PaymentStatusSucceeded
	case "canceled", "requires_payment_method":
		return models.PaymentStatusFailed
	default:
		return models.PaymentStatusPending
	}
}
