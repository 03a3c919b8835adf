package billing

import (
	"strings"

	"github.com/saidulislam/nucamp-soloai-sub002/app/models"
)

// StripeStatusToSubscriptionStatus maps Stripe's subscription status
// vocabulary onto the canonical enum. "paused" keeps access. Unrecognized
// values default to active instead of erroring; provider vocabularies grow
// over time and a webhook must not fail on a new one.
func StripeStatusToSubscriptionStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "paused":
		return models.SubscriptionStatusActive
	case "trialing":
		return models.SubscriptionStatusTrialing
	case "past_due", "incomplete":
		return models.SubscriptionStatusPastDue
	case "canceled", "incomplete_expired":
		return models.SubscriptionStatusCancelled
	case "unpaid":
		return models.SubscriptionStatusSuspended
	default:
		return models.SubscriptionStatusActive
	}
}

// LemonSqueezyStatusToSubscriptionStatus maps Lemon Squeezy's subscription
// status vocabulary onto the canonical enum.
func LemonSqueezyStatusToSubscriptionStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active":
		return models.SubscriptionStatusActive
	case "on_trial":
		return models.SubscriptionStatusTrialing
	case "past_due":
		return models.SubscriptionStatusPastDue
	case "cancelled", "expired":
		return models.SubscriptionStatusCancelled
	case "paused", "unpaid":
		return models.SubscriptionStatusSuspended
	default:
		return models.SubscriptionStatusActive
	}
}

// MapProviderStatus selects the mapper for a normalized event's provider.
func MapProviderStatus(provider, status string) string {
	switch provider {
	case models.BillingProviderStripe:
		return StripeStatusToSubscriptionStatus(status)
	case models.BillingProviderLemonSqueezy:
		return LemonSqueezyStatusToSubscriptionStatus(status)
	default:
		return models.SubscriptionStatusActive
	}
}
