package billing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/saidulislam/nucamp-soloai-sub002/app/models"
)

var lemonSqueezyValidate = validator.New()

// lemonSqueezyPayload is the boundary schema for Lemon Squeezy webhook
// bodies: {meta:{event_name, custom_data, test_mode}, data:{id, type,
// attributes}}.
type lemonSqueezyPayload struct {
	Meta struct {
		EventName  string            `json:"event_name" validate:"required"`
		CustomData map[string]string `json:"custom_data"`
		TestMode   bool              `json:"test_mode"`
		WebhookID  string            `json:"webhook_id"`
	} `json:"meta" validate:"required"`
	Data struct {
		ID         string `json:"id" validate:"required"`
		Type       string `json:"type"`
		Attributes struct {
			Status     string     `json:"status"`
			CustomerID int64      `json:"customer_id"`
			VariantID  int64      `json:"variant_id"`
			UserEmail  string     `json:"user_email"`
			Cancelled  bool       `json:"cancelled"`
			RenewsAt   *time.Time `json:"renews_at"`
			EndsAt     *time.Time `json:"ends_at"`
		} `json:"attributes"`
	} `json:"data" validate:"required"`
}

// ParseLemonSqueezyEvent verifies the X-Signature header over the raw body
// and translates the payload into the normalized internal shape.
func ParseLemonSqueezyEvent(payload []byte, signatureHeader, webhookSecret string) (*NormalizedBillingEvent, error) {
	if !VerifyLemonSqueezySignature(payload, signatureHeader, webhookSecret) {
		return nil, ErrInvalidSignature
	}

	var raw lemonSqueezyPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := lemonSqueezyValidate.Struct(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	out := &NormalizedBillingEvent{
		Provider:   models.BillingProviderLemonSqueezy,
		EventID:    strings.TrimSpace(raw.Meta.WebhookID),
		Kind:       lemonSqueezyEventKind(raw.Meta.EventName),
		RawType:    strings.TrimSpace(raw.Meta.EventName),
		MetaUserID: strings.TrimSpace(raw.Meta.CustomData["user_id"]),
		Tier:       strings.TrimSpace(raw.Meta.CustomData["tier"]),
		RawStatus:  strings.TrimSpace(raw.Data.Attributes.Status),
		TestMode:   raw.Meta.TestMode,
	}
	if raw.Data.Attributes.CustomerID > 0 {
		out.CustomerID = strconv.FormatInt(raw.Data.Attributes.CustomerID, 10)
	}
	if raw.Data.Attributes.VariantID > 0 {
		out.PlanRef = strconv.FormatInt(raw.Data.Attributes.VariantID, 10)
	}

	// Orders carry the purchase itself; subscription objects carry the
	// recurring state. Either way data.id is the provider-side identity the
	// resolver falls back to.
	switch raw.Data.Type {
	case "subscriptions":
		out.SubscriptionID = strings.TrimSpace(raw.Data.ID)
	}

	out.CancelAtPeriodEnd = raw.Data.Attributes.Cancelled
	if raw.Data.Attributes.RenewsAt != nil {
		t := raw.Data.Attributes.RenewsAt.UTC()
		out.PeriodEnd = &t
	} else if raw.Data.Attributes.EndsAt != nil {
		t := raw.Data.Attributes.EndsAt.UTC()
		out.PeriodEnd = &t
	}

	return out, nil
}

func lemonSqueezyEventKind(eventName string) EventKind {
	switch strings.ToLower(strings.TrimSpace(eventName)) {
	case "order_created":
		return EventCheckoutCompleted
	case "order_refunded":
		return EventOrderRefunded
	case "subscription_created":
		return EventSubscriptionCreated
	case "subscription_updated":
		return EventSubscriptionUpdated
	case "subscription_cancelled":
		return EventSubscriptionCancelled
	case "subscription_expired":
		return EventSubscriptionExpired
	case "subscription_payment_success":
		return EventPaymentSucceeded
	case "subscription_payment_failed":
		return EventPaymentFailed
	default:
		return EventUnknown
	}
}
