package repository

import (
	"github.com/saidulislam/nucamp-soloai-sub002/app/models"
	"gorm.io/gorm"
)

// BillingAccountRepository defines the interface for billing-account lookups
// and the single-row update the reconciliation engine performs.
type BillingAccountRepository interface {
	GetByUserID(userID uint) (*models.BillingAccount, error)
	GetByProviderSubscriptionID(provider, subscriptionID string) (*models.BillingAccount, error)
	GetByProviderCustomerID(provider, customerID string) (*models.BillingAccount, error)
	Update(account *models.BillingAccount) error
}

// WebhookEventRepository defines the interface for the idempotency ledger.
type WebhookEventRepository interface {
	// CheckAndRegister atomically inserts a pending ledger row for the
	// event's (provider, provider_event_id) pair. created is false when a
	// row already existed; stored is the row currently in the ledger either
	// way. Two concurrent redeliveries can both call this and exactly one
	// observes created=true.
	CheckAndRegister(event *models.WebhookEvent) (created bool, stored *models.WebhookEvent, err error)
	MarkComplete(provider, providerEventID, status string, resolvedUserID *uint, errorMessage string) error
	GetByProviderEventID(provider, providerEventID string) (*models.WebhookEvent, error)
}

// BillingPlanMappingRepository resolves provider plan references to tiers.
type BillingPlanMappingRepository interface {
	FindActive(provider, providerPlanRef string) (*models.BillingPlanMapping, error)
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// Repositories holds all repository instances.
type Repositories struct {
	BillingAccounts BillingAccountRepository
	WebhookEvents   WebhookEventRepository
	PlanMappings    BillingPlanMappingRepository
	Users           UserRepository
}

// NewRepositories creates all repositories with the given database connection.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		BillingAccounts: NewBillingAccountRepository(db),
		WebhookEvents:   NewWebhookEventRepository(db),
		PlanMappings:    NewBillingPlanMappingRepository(db),
		Users:           NewUserRepository(db),
	}
}
