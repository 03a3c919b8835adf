package billing

import (
	"errors"
	"testing"
)

const lemonSubscriptionPayload = `{
	"meta": {
		"event_name": "subscription_updated",
		"custom_data": { "user_id": "7", "tier": "pro" },
		"test_mode": true
	},
	"data": {
		"id": "sub_ls_1",
		"type": "subscriptions",
		"attributes": {
			"status": "on_trial",
			"customer_id": 4242,
			"variant_id": 99,
			"renews_at": "2026-09-30T12:00:00Z"
		}
	}
}`

func TestParseLemonSqueezyEvent(t *testing.T) {
	payload := []byte(lemonSubscriptionPayload)
	secret := "ls-secret"

	ev, err := ParseLemonSqueezyEvent(payload, signLemonSqueezy(payload, secret), secret)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Kind != EventSubscriptionUpdated {
		t.Fatalf("expected subscription_updated kind, got %q", ev.Kind)
	}
	if ev.MetaUserID != "7" || ev.Tier != "pro" {
		t.Fatalf("unexpected custom data: user=%q tier=%q", ev.MetaUserID, ev.Tier)
	}
	if ev.SubscriptionID != "sub_ls_1" || ev.CustomerID != "4242" || ev.PlanRef != "99" {
		t.Fatalf("unexpected ids: sub=%q cus=%q plan=%q", ev.SubscriptionID, ev.CustomerID, ev.PlanRef)
	}
	if ev.RawStatus != "on_trial" || !ev.TestMode {
		t.Fatalf("unexpected attributes: status=%q test=%v", ev.RawStatus, ev.TestMode)
	}
	if ev.PeriodEnd == nil || ev.PeriodEnd.Year() != 2026 {
		t.Fatalf("expected renews_at to populate period end, got %v", ev.PeriodEnd)
	}
}

func TestParseLemonSqueezyEventRejectsBadSignature(t *testing.T) {
	payload := []byte(lemonSubscriptionPayload)

	_, err := ParseLemonSqueezyEvent(payload, signLemonSqueezy(payload, "other-secret"), "ls-secret")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestParseLemonSqueezyEventRejectsMalformedBody(t *testing.T) {
	secret := "ls-secret"

	payload := []byte(`{"meta":`)
	_, err := ParseLemonSqueezyEvent(payload, signLemonSqueezy(payload, secret), secret)
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload for broken JSON, got %v", err)
	}

	// Valid JSON but missing required fields.
	payload = []byte(`{"meta":{"custom_data":{}},"data":{"type":"orders"}}`)
	_, err = ParseLemonSqueezyEvent(payload, signLemonSqueezy(payload, secret), secret)
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload for missing fields, got %v", err)
	}
}

func TestParseLemonSqueezyEventUnknownType(t *testing.T) {
	secret := "ls-secret"
	payload := []byte(`{
		"meta": { "event_name": "license_key_created" },
		"data": { "id": "lk_1", "type": "license-keys", "attributes": {} }
	}`)

	ev, err := ParseLemonSqueezyEvent(payload, signLemonSqueezy(payload, secret), secret)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Kind != EventUnknown {
		t.Fatalf("expected unknown kind for new event name, got %q", ev.Kind)
	}
}

func TestLemonSqueezyEventKind(t *testing.T) {
	tests := []struct {
		in   string
		want EventKind
	}{
		{in: "order_created", want: EventCheckoutCompleted},
		{in: "order_refunded", want: EventOrderRefunded},
		{in: "subscription_created", want: EventSubscriptionCreated},
		{in: "subscription_updated", want: EventSubscriptionUpdated},
		{in: "subscription_cancelled", want: EventSubscriptionCancelled},
		{in: "subscription_expired", want: EventSubscriptionExpired},
		{in: "subscription_payment_success", want: EventPaymentSucceeded},
		{in: "subscription_payment_failed", want: EventPaymentFailed},
		{in: "subscription_plan_changed", want: EventUnknown},
	}
	for _, tt := range tests {
		if got := lemonSqueezyEventKind(tt.in); got != tt.want {
			t.Fatalf("lemonSqueezyEventKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
