package billing

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/saidulislam/nucamp-soloai-sub002/app/models"
	"github.com/saidulislam/nucamp-soloai-sub002/app/repository"
	"github.com/saidulislam/nucamp-soloai-sub002/internal/pkg/cache"
)

const resolverCacheTTL = 10 * time.Minute

// LookupCache caches external-ID to user-ID resolutions so redelivery storms
// do not hammer the accounts table. A nil cache disables caching.
type LookupCache interface {
	Get(key string) (string, error)
	Set(key string, value interface{}, expiration time.Duration) error
	Delete(key string) error
}

type redisLookupCache struct{}

func (redisLookupCache) Get(key string) (string, error) { return cache.Get(key) }
func (redisLookupCache) Set(key string, value interface{}, expiration time.Duration) error {
	return cache.Set(key, value, expiration)
}
func (redisLookupCache) Delete(key string) error { return cache.Delete(key) }

// NewRedisLookupCache returns a LookupCache backed by the shared Redis client.
func NewRedisLookupCache() LookupCache {
	return redisLookupCache{}
}

// AccountResolver maps an inbound event to a BillingAccount using the
// prioritized fallback chain: explicit user ID from checkout metadata, then
// the stored external subscription ID, then the stored external customer ID.
// It never creates accounts; a webhook for an unknown identity resolves to
// nil.
type AccountResolver struct {
	accounts repository.BillingAccountRepository
	cache    LookupCache
}

// NewAccountResolver creates a resolver over the billing account repository.
func NewAccountResolver(accounts repository.BillingAccountRepository, lookupCache LookupCache) *AccountResolver {
	return &AccountResolver{accounts: accounts, cache: lookupCache}
}

// Resolve returns the matching account or nil when every step of the chain
// comes up empty. Only real lookup failures surface as errors.
func (r *AccountResolver) Resolve(ev *NormalizedBillingEvent) (*models.BillingAccount, error) {
	if ev.MetaUserID != "" {
		userID, err := strconv.ParseUint(ev.MetaUserID, 10, 64)
		if err != nil {
			log.Printf("[Billing] ignoring non-numeric user id in %s event metadata: %q", ev.Provider, ev.MetaUserID)
		} else {
			account, err := r.accounts.GetByUserID(uint(userID))
			if err == nil {
				return account, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
	}

	if ev.SubscriptionID != "" {
		account, err := r.lookupCached(
			resolverCacheKey(ev.Provider, "sub", ev.SubscriptionID),
			func() (*models.BillingAccount, error) {
				return r.accounts.GetByProviderSubscriptionID(ev.Provider, ev.SubscriptionID)
			},
		)
		if err != nil {
			return nil, err
		}
		if account != nil {
			return account, nil
		}
	}

	if ev.CustomerID != "" {
		account, err := r.lookupCached(
			resolverCacheKey(ev.Provider, "cus", ev.CustomerID),
			func() (*models.BillingAccount, error) {
				return r.accounts.GetByProviderCustomerID(ev.Provider, ev.CustomerID)
			},
		)
		if err != nil {
			return nil, err
		}
		if account != nil {
			return account, nil
		}
	}

	return nil, nil
}

// Invalidate drops cached resolutions after an account's external IDs change.
func (r *AccountResolver) Invalidate(provider, subscriptionID, customerID string) {
	if r.cache == nil {
		return
	}
	if subscriptionID != "" {
		_ = r.cache.Delete(resolverCacheKey(provider, "sub", subscriptionID))
	}
	if customerID != "" {
		_ = r.cache.Delete(resolverCacheKey(provider, "cus", customerID))
	}
}

func (r *AccountResolver) lookupCached(key string, lookup func() (*models.BillingAccount, error)) (*models.BillingAccount, error) {
	if r.cache != nil {
		if cached, err := r.cache.Get(key); err == nil {
			if userID, convErr := strconv.ParseUint(cached, 10, 64); convErr == nil {
				account, accErr := r.accounts.GetByUserID(uint(userID))
				if accErr == nil {
					return account, nil
				}
				// Stale mapping; fall through to the real lookup.
				_ = r.cache.Delete(key)
			}
		}
	}

	account, err := lookup()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if r.cache != nil {
		_ = r.cache.Set(key, strconv.FormatUint(uint64(account.UserID), 10), resolverCacheTTL)
	}
	return account, nil
}

func resolverCacheKey(provider, kind, id string) string {
	return fmt.Sprintf("billing:resolve:%s:%s:%s", provider, kind, id)
}
