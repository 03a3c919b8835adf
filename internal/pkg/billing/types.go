package billing

import (
	"errors"
	"time"
)

// EventKind is the closed, provider-neutral event vocabulary the dispatcher
// routes on. Provider event types that do not map onto one of these are
// EventUnknown and handled as an explicit no-op.
type EventKind string

const (
	EventCheckoutCompleted     EventKind = "checkout_completed"
	EventSubscriptionCreated   EventKind = "subscription_created"
	EventSubscriptionUpdated   EventKind = "subscription_updated"
	EventSubscriptionCancelled EventKind = "subscription_cancelled"
	EventSubscriptionExpired   EventKind = "subscription_expired"
	EventPaymentSucceeded      EventKind = "payment_succeeded"
	EventPaymentFailed         EventKind = "payment_failed"
	EventOrderRefunded         EventKind = "order_refunded"
	EventUnknown               EventKind = "unknown"
)

// NormalizedBillingEvent is the provider-agnostic shape every verified
// webhook payload is translated into before it reaches the dispatcher,
// resolver or status mapper. Internal logic never touches provider-shaped
// data.
type NormalizedBillingEvent struct {
	Provider          string
	EventID           string
	Kind              EventKind
	RawType           string
	MetaUserID        string // internal user ID carried in checkout metadata
	CustomerID        string
	SubscriptionID    string
	RawStatus         string
	Tier              string
	PlanRef           string
	PeriodEnd         *time.Time
	CancelAtPeriodEnd bool
	TestMode          bool
}

// Error classes the reconciliation engine maps onto HTTP responses.
var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)
