package billing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/saidulislam/nucamp-soloai-sub002/app/models"
	"github.com/saidulislam/nucamp-soloai-sub002/app/repository"
	"github.com/saidulislam/nucamp-soloai-sub002/internal/pkg/env"
)

// Outcome classifies one reconciliation run for the HTTP layer.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// Result carries the outcome, the provider event type for the
// acknowledgement body, and a machine-readable code for error responses.
type Result struct {
	Outcome   Outcome
	EventType string
	Code      string
	Err       error
}

// Service is the reconciliation engine: one inbound webhook request runs
// verify, dedup check-and-register, dispatch and ledger finalization in
// order, with rejection and failure exits. Everything is synchronous within
// the request; the ledger insert is the only concurrency control point.
type Service struct {
	events     repository.WebhookEventRepository
	dispatcher *Dispatcher

	stripeSecret       string
	lemonSqueezySecret string
}

// NewService creates a reconciliation engine from injected collaborators.
func NewService(events repository.WebhookEventRepository, dispatcher *Dispatcher, stripeSecret, lemonSqueezySecret string) *Service {
	return &Service{
		events:             events,
		dispatcher:         dispatcher,
		stripeSecret:       stripeSecret,
		lemonSqueezySecret: lemonSqueezySecret,
	}
}

// NewServiceFromDB wires the engine with GORM repositories, the Redis lookup
// cache and webhook secrets from the environment.
func NewServiceFromDB(db *gorm.DB) *Service {
	repos := repository.NewRepositories(db)
	resolver := NewAccountResolver(repos.BillingAccounts, NewRedisLookupCache())
	dispatcher := NewDispatcher(repos.BillingAccounts, repos.PlanMappings, resolver)
	return NewService(
		repos.WebhookEvents,
		dispatcher,
		env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		env.GetEnv("LEMONSQUEEZY_WEBHOOK_SECRET", ""),
	)
}

// ProcessStripeWebhook runs one reconciliation for a raw Stripe delivery.
func (s *Service) ProcessStripeWebhook(rawBody []byte, signatureHeader string) Result {
	ev, err := ParseStripeEvent(rawBody, signatureHeader, s.stripeSecret)
	return s.process(models.BillingProviderStripe, rawBody, ev, err)
}

// ProcessLemonSqueezyWebhook runs one reconciliation for a raw Lemon Squeezy
// delivery.
func (s *Service) ProcessLemonSqueezyWebhook(rawBody []byte, signatureHeader string) Result {
	ev, err := ParseLemonSqueezyEvent(rawBody, signatureHeader, s.lemonSqueezySecret)
	return s.process(models.BillingProviderLemonSqueezy, rawBody, ev, err)
}

func (s *Service) process(provider string, rawBody []byte, ev *NormalizedBillingEvent, parseErr error) Result {
	// Rejections happen before any ledger write: an unauthenticated or
	// unreadable request must leave no trace that could later short-circuit
	// a legitimate delivery of the same event.
	if parseErr != nil {
		code := "processing_error"
		switch {
		case errors.Is(parseErr, ErrInvalidSignature):
			code = "invalid_signature"
		case errors.Is(parseErr, ErrMalformedPayload):
			code = "invalid_payload"
		}
		log.Printf("[Billing] rejected %s webhook (%s): %v payload=%q", provider, code, parseErr, truncatePayload(rawBody, 200))
		return Result{Outcome: OutcomeRejected, Code: code, Err: parseErr}
	}

	eventID := ev.EventID
	if eventID == "" {
		// Lemon Squeezy deliveries carry no stable event ID; the payload
		// hash stands in so redeliveries of the same body still dedup.
		sum := sha256.Sum256(rawBody)
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	created, stored, err := s.events.CheckAndRegister(&models.WebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       ev.RawType,
		Payload:         string(rawBody),
	})
	if err != nil {
		log.Printf("[Billing] ledger registration failed for %s event %q: %v", provider, eventID, err)
		return Result{Outcome: OutcomeFailed, EventType: ev.RawType, Code: "ledger_error", Err: err}
	}
	if !created && stored.IsTerminalSuccess() {
		return Result{Outcome: OutcomeDuplicate, EventType: ev.RawType}
	}
	// A pending or failed row means an earlier attempt crashed or errored;
	// handlers re-derive full state from the payload, so retrying is safe.

	res, err := s.dispatcher.Dispatch(ev)
	if err != nil {
		if markErr := s.events.MarkComplete(provider, eventID, models.WebhookProcessingFailed, nil, err.Error()); markErr != nil {
			log.Printf("[Billing] failed to mark %s event %q failed: %v", provider, eventID, markErr)
		}
		return Result{Outcome: OutcomeFailed, EventType: ev.RawType, Code: "processing_error", Err: err}
	}

	if err := s.events.MarkComplete(provider, eventID, models.WebhookProcessingSuccess, res.ResolvedUserID, res.Note); err != nil {
		log.Printf("[Billing] failed to finalize ledger for %s event %q: %v", provider, eventID, err)
		return Result{Outcome: OutcomeFailed, EventType: ev.RawType, Code: "ledger_error", Err: err}
	}

	return Result{Outcome: OutcomeProcessed, EventType: ev.RawType}
}

func truncatePayload(payload []byte, max int) string {
	if len(payload) <= max {
		return string(payload)
	}
	return fmt.Sprintf("%s...(%d bytes)", payload[:max], len(payload))
}
