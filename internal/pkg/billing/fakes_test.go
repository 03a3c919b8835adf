package billing

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/saidulislam/nucamp-soloai-sub002/app/models"
)

type memAccounts struct {
	byUser      map[uint]*models.BillingAccount
	updates     int
	failUpdates bool
}

func newMemAccounts(accounts ...*models.BillingAccount) *memAccounts {
	m := &memAccounts{byUser: map[uint]*models.BillingAccount{}}
	for _, a := range accounts {
		m.byUser[a.UserID] = a
	}
	return m
}

func (m *memAccounts) GetByUserID(userID uint) (*models.BillingAccount, error) {
	if a, ok := m.byUser[userID]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memAccounts) GetByProviderSubscriptionID(provider, subscriptionID string) (*models.BillingAccount, error) {
	for _, a := range m.byUser {
		if a.Provider == provider && a.ExternalSubscriptionID != nil && *a.ExternalSubscriptionID == subscriptionID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memAccounts) GetByProviderCustomerID(provider, customerID string) (*models.BillingAccount, error) {
	for _, a := range m.byUser {
		if a.Provider == provider && a.ExternalCustomerID != nil && *a.ExternalCustomerID == customerID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memAccounts) Update(account *models.BillingAccount) error {
	if m.failUpdates {
		return fmt.Errorf("simulated write failure")
	}
	account.Normalize()
	m.byUser[account.UserID] = account
	m.updates++
	return nil
}

type memEvents struct {
	rows map[string]*models.WebhookEvent
}

func newMemEvents() *memEvents {
	return &memEvents{rows: map[string]*models.WebhookEvent{}}
}

func eventKey(provider, eventID string) string {
	return fmt.Sprintf("%s|%s", provider, eventID)
}

func (m *memEvents) CheckAndRegister(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	key := eventKey(event.Provider, event.ProviderEventID)
	if stored, ok := m.rows[key]; ok {
		return false, stored, nil
	}
	event.ProcessingStatus = models.WebhookProcessingPending
	m.rows[key] = event
	return true, event, nil
}

func (m *memEvents) MarkComplete(provider, providerEventID, status string, resolvedUserID *uint, errorMessage string) error {
	stored, ok := m.rows[eventKey(provider, providerEventID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	stored.Processed = true
	stored.ProcessingStatus = status
	stored.ResolvedUserID = resolvedUserID
	stored.ErrorMessage = errorMessage
	stored.ProcessedAt = &now
	return nil
}

func (m *memEvents) GetByProviderEventID(provider, providerEventID string) (*models.WebhookEvent, error) {
	if stored, ok := m.rows[eventKey(provider, providerEventID)]; ok {
		return stored, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type memMappings struct {
	tiers map[string]string // provider|ref -> tier
}

func newMemMappings() *memMappings {
	return &memMappings{tiers: map[string]string{}}
}

func (m *memMappings) add(provider, ref, tier string) {
	m.tiers[provider+"|"+ref] = tier
}

func (m *memMappings) FindActive(provider, providerPlanRef string) (*models.BillingPlanMapping, error) {
	if tier, ok := m.tiers[provider+"|"+providerPlanRef]; ok {
		return &models.BillingPlanMapping{Provider: provider, ProviderPlanRef: providerPlanRef, Tier: tier, IsActive: true}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type memCache struct {
	values map[string]string
}

func newMemCache() *memCache {
	return &memCache{values: map[string]string{}}
}

func (m *memCache) Get(key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("cache miss: %s", key)
}

func (m *memCache) Set(key string, value interface{}, _ time.Duration) error {
	m.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (m *memCache) Delete(key string) error {
	delete(m.values, key)
	return nil
}

func newTestService(accounts *memAccounts, events *memEvents, mappings *memMappings, stripeSecret, lemonSecret string) *Service {
	resolver := NewAccountResolver(accounts, nil)
	dispatcher := NewDispatcher(accounts, mappings, resolver)
	return NewService(events, dispatcher, stripeSecret, lemonSecret)
}
