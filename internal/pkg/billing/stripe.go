package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/saidulislam/nucamp-soloai-sub002/app/models"
)

// ParseStripeEvent verifies a raw Stripe webhook body against the
// Stripe-Signature header and translates the SDK event into the normalized
// internal shape. Verification happens on the exact received bytes, never on
// re-serialized JSON.
func ParseStripeEvent(payload []byte, signatureHeader, webhookSecret string) (*NormalizedBillingEvent, error) {
	if strings.TrimSpace(webhookSecret) == "" || strings.TrimSpace(signatureHeader) == "" || len(payload) == 0 {
		return nil, ErrInvalidSignature
	}

	// Stripe keeps sending events pinned to the API version the webhook
	// endpoint was created with, which rarely matches the SDK's pin.
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if errors.Is(err, webhook.ErrNoValidSignature) || errors.Is(err, webhook.ErrNotSigned) || errors.Is(err, webhook.ErrInvalidHeader) || errors.Is(err, webhook.ErrTooOld) {
			log.Printf("[Billing] stripe signature verification failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	out := &NormalizedBillingEvent{
		Provider: models.BillingProviderStripe,
		EventID:  event.ID,
		Kind:     stripeEventKind(event.Type),
		RawType:  string(event.Type),
	}
	if out.Kind == EventUnknown {
		return out, nil
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %v", ErrMalformedPayload, err)
		}
		out.MetaUserID = stripeMetadataUserID(sess.Metadata)
		if out.MetaUserID == "" {
			out.MetaUserID = strings.TrimSpace(sess.ClientReferenceID)
		}
		out.Tier = strings.TrimSpace(sess.Metadata["tier"])
		if sess.Customer != nil {
			out.CustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			out.SubscriptionID = sess.Subscription.ID
		}
		out.RawStatus = "active"

	case stripe.EventTypeCustomerSubscriptionCreated, stripe.EventTypeCustomerSubscriptionUpdated, stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("%w: subscription: %v", ErrMalformedPayload, err)
		}
		out.SubscriptionID = sub.ID
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
		}
		out.MetaUserID = stripeMetadataUserID(sub.Metadata)
		out.Tier = strings.TrimSpace(sub.Metadata["tier"])
		out.RawStatus = string(sub.Status)
		out.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
		if sub.CurrentPeriodEnd > 0 {
			t := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
			out.PeriodEnd = &t
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			out.PlanRef = sub.Items.Data[0].Price.ID
		}

	case stripe.EventTypeInvoicePaymentSucceeded, stripe.EventTypeInvoicePaymentFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("%w: invoice: %v", ErrMalformedPayload, err)
		}
		if inv.Customer != nil {
			out.CustomerID = inv.Customer.ID
		}
		if inv.Subscription != nil {
			out.SubscriptionID = inv.Subscription.ID
		}
		if inv.Lines != nil && len(inv.Lines.Data) > 0 && inv.Lines.Data[0].Period != nil && inv.Lines.Data[0].Period.End > 0 {
			t := time.Unix(inv.Lines.Data[0].Period.End, 0).UTC()
			out.PeriodEnd = &t
		}

	case stripe.EventTypeChargeRefunded:
		var ch stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			return nil, fmt.Errorf("%w: charge: %v", ErrMalformedPayload, err)
		}
		if ch.Customer != nil {
			out.CustomerID = ch.Customer.ID
		}
	}

	return out, nil
}

func stripeEventKind(t stripe.EventType) EventKind {
	switch t {
	case stripe.EventTypeCheckoutSessionCompleted:
		return EventCheckoutCompleted
	case stripe.EventTypeCustomerSubscriptionCreated:
		return EventSubscriptionCreated
	case stripe.EventTypeCustomerSubscriptionUpdated:
		return EventSubscriptionUpdated
	case stripe.EventTypeCustomerSubscriptionDeleted:
		return EventSubscriptionExpired
	case stripe.EventTypeInvoicePaymentSucceeded:
		return EventPaymentSucceeded
	case stripe.EventTypeInvoicePaymentFailed:
		return EventPaymentFailed
	case stripe.EventTypeChargeRefunded:
		return EventOrderRefunded
	default:
		return EventUnknown
	}
}

func stripeMetadataUserID(metadata map[string]string) string {
	if v := strings.TrimSpace(metadata["user_id"]); v != "" {
		return v
	}
	// Older checkout sessions were created with the camelCase key.
	return strings.TrimSpace(metadata["userId"])
}
