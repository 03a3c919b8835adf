package billing

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/saidulislam/nucamp-soloai-sub002/app/models"
	"github.com/saidulislam/nucamp-soloai-sub002/app/repository"
	"github.com/saidulislam/nucamp-soloai-sub002/internal/pkg/entitlements"
)

// DispatchResult is the bookkeeping a dispatch hands back to the
// reconciliation engine for the ledger row.
type DispatchResult struct {
	ResolvedUserID *uint
	Ignored        bool
	Note           string
}

type handlerFunc func(ev *NormalizedBillingEvent, account *models.BillingAccount) error

type route struct {
	// failOnUnresolved forces the ledger row to failed (and the provider to
	// retry) when no account resolves. Accounts only exist after checkout,
	// so retrying an orphaned event never helps; every current route
	// acknowledges instead. The switch exists per event type so that policy
	// stays explicit rather than inferred.
	failOnUnresolved bool
	apply            handlerFunc
}

// ErrUnresolvedAccount marks a failed dispatch whose route demands a
// resolved account.
var ErrUnresolvedAccount = errors.New("event requires an account that could not be resolved")

// Dispatcher routes normalized events to their state-change handler. Each
// handler re-derives the full account state from its own payload, so events
// delivered out of order still converge.
type Dispatcher struct {
	accounts repository.BillingAccountRepository
	mappings repository.BillingPlanMappingRepository
	resolver *AccountResolver
	routes   map[EventKind]route
}

// NewDispatcher wires the closed handler table.
func NewDispatcher(accounts repository.BillingAccountRepository, mappings repository.BillingPlanMappingRepository, resolver *AccountResolver) *Dispatcher {
	d := &Dispatcher{
		accounts: accounts,
		mappings: mappings,
		resolver: resolver,
	}
	d.routes = map[EventKind]route{
		EventCheckoutCompleted:     {apply: d.applyCheckoutCompleted},
		EventSubscriptionCreated:   {apply: d.applySubscriptionChange},
		EventSubscriptionUpdated:   {apply: d.applySubscriptionChange},
		EventSubscriptionCancelled: {apply: d.applySubscriptionCancelled},
		EventSubscriptionExpired:   {apply: d.applySubscriptionExpired},
		EventPaymentSucceeded:      {apply: d.applyPaymentSucceeded},
		EventPaymentFailed:         {apply: d.applyPaymentFailed},
		EventOrderRefunded:         {apply: d.applyOrderRefunded},
	}
	return d
}

// Dispatch resolves the account for a verified event and applies the
// matching handler. Unknown event types are a logged no-op success:
// providers add types over time and the pipeline must not fail on them.
func (d *Dispatcher) Dispatch(ev *NormalizedBillingEvent) (*DispatchResult, error) {
	rt, ok := d.routes[ev.Kind]
	if !ok {
		log.Printf("[Billing] ignoring unhandled %s event type %q", ev.Provider, ev.RawType)
		return &DispatchResult{Ignored: true, Note: "unhandled event type"}, nil
	}

	account, err := d.resolver.Resolve(ev)
	if err != nil {
		return nil, fmt.Errorf("account resolution: %w", err)
	}
	if account == nil {
		log.Printf("[Billing] no account resolved for %s event %q (type %s)", ev.Provider, ev.EventID, ev.RawType)
		if rt.failOnUnresolved {
			return nil, ErrUnresolvedAccount
		}
		return &DispatchResult{Ignored: true, Note: "no billing account resolved"}, nil
	}

	if err := rt.apply(ev, account); err != nil {
		return nil, err
	}
	if err := d.accounts.Update(account); err != nil {
		return nil, fmt.Errorf("account update: %w", err)
	}
	return &DispatchResult{ResolvedUserID: &account.UserID}, nil
}

// applyCheckoutCompleted is the first purchase signal: it assigns the
// provider and both external IDs and activates the tier from checkout
// metadata.
func (d *Dispatcher) applyCheckoutCompleted(ev *NormalizedBillingEvent, account *models.BillingAccount) error {
	account.Provider = ev.Provider
	if ev.CustomerID != "" {
		account.ExternalCustomerID = strPtr(ev.CustomerID)
	}
	if ev.SubscriptionID != "" {
		account.ExternalSubscriptionID = strPtr(ev.SubscriptionID)
	}
	if tier := d.resolveTier(ev); tier != "" {
		account.Tier = tier
	}
	account.Status = models.SubscriptionStatusActive
	account.CancelAtPeriodEnd = false
	if ev.PeriodEnd != nil {
		account.PeriodEnd = ev.PeriodEnd
	}
	return nil
}

// applySubscriptionChange handles created and updated events identically and
// tolerates being the first signal ever seen for a subscription: checkout
// and subscription events can arrive in either order, or only one may fire.
func (d *Dispatcher) applySubscriptionChange(ev *NormalizedBillingEvent, account *models.BillingAccount) error {
	account.Provider = ev.Provider
	if ev.CustomerID != "" {
		account.ExternalCustomerID = strPtr(ev.CustomerID)
	}
	if ev.SubscriptionID != "" {
		account.ExternalSubscriptionID = strPtr(ev.SubscriptionID)
	}
	if tier := d.resolveTier(ev); tier != "" {
		account.Tier = tier
	}
	account.Status = MapProviderStatus(ev.Provider, ev.RawStatus)
	account.PeriodEnd = ev.PeriodEnd
	account.CancelAtPeriodEnd = ev.CancelAtPeriodEnd || account.Status == models.SubscriptionStatusCancelled
	return nil
}

// applySubscriptionCancelled is the soft cancel: access runs until the paid
// period ends, so the tier stays.
func (d *Dispatcher) applySubscriptionCancelled(ev *NormalizedBillingEvent, account *models.BillingAccount) error {
	account.Status = models.SubscriptionStatusCancelled
	account.CancelAtPeriodEnd = true
	if ev.PeriodEnd != nil {
		account.PeriodEnd = ev.PeriodEnd
	}
	return nil
}

// applySubscriptionExpired is the hard deletion/expiry: tier reverts to free
// and the subscription ID is cleared. The customer ID stays so a later
// reactivation still resolves.
func (d *Dispatcher) applySubscriptionExpired(ev *NormalizedBillingEvent, account *models.BillingAccount) error {
	d.resolver.Invalidate(ev.Provider, ev.SubscriptionID, "")
	account.Status = models.SubscriptionStatusCancelled
	account.Tier = string(entitlements.PlanFree)
	account.ExternalSubscriptionID = nil
	account.PeriodEnd = nil
	account.CancelAtPeriodEnd = false
	return nil
}

// applyPaymentSucceeded promotes non-active accounts back to active. This
// covers recovery from past_due when the provider sends no separate
// subscription-updated event.
func (d *Dispatcher) applyPaymentSucceeded(ev *NormalizedBillingEvent, account *models.BillingAccount) error {
	if account.Status != models.SubscriptionStatusActive {
		account.Status = models.SubscriptionStatusActive
	}
	if ev.PeriodEnd != nil {
		account.PeriodEnd = ev.PeriodEnd
	}
	return nil
}

// applyPaymentFailed records dunning without revoking access: the tier stays
// through the grace period.
func (d *Dispatcher) applyPaymentFailed(ev *NormalizedBillingEvent, account *models.BillingAccount) error {
	account.Status = models.SubscriptionStatusPastDue
	return nil
}

// applyOrderRefunded reverts access immediately regardless of period end:
// the payment was reversed.
func (d *Dispatcher) applyOrderRefunded(ev *NormalizedBillingEvent, account *models.BillingAccount) error {
	account.Tier = string(entitlements.PlanFree)
	account.Status = models.SubscriptionStatusCancelled
	account.PeriodEnd = nil
	account.CancelAtPeriodEnd = false
	return nil
}

// resolveTier prefers the tier named in checkout metadata, then the plan
// mapping for the event's price/variant reference. Empty means the handler
// leaves the stored tier untouched.
func (d *Dispatcher) resolveTier(ev *NormalizedBillingEvent) string {
	if ev.Tier != "" {
		return string(entitlements.Normalize(ev.Tier))
	}
	if ev.PlanRef == "" || d.mappings == nil {
		return ""
	}
	m, err := d.mappings.FindActive(ev.Provider, ev.PlanRef)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Billing] plan mapping lookup failed for %s ref %q: %v", ev.Provider, ev.PlanRef, err)
		}
		return ""
	}
	return string(entitlements.Normalize(m.Tier))
}

func strPtr(s string) *string {
	return &s
}
