package models

import "time"

// Billing provider constants used across billing-related models.
const (
	BillingProviderNone         = "none"
	BillingProviderStripe       = "stripe"
	BillingProviderLemonSqueezy = "lemonsqueezy"
)

// Canonical subscription status vocabulary, independent of any provider.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusTrialing  = "trialing"
	SubscriptionStatusPastDue   = "past_due"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusSuspended = "suspended"
)

// BillingAccount is the single billing state row per user. It is written
// exclusively by the webhook reconciliation engine; checkout flows may assign
// provider/customer IDs but never mutate tier or status directly.
type BillingAccount struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	UserID                 uint       `gorm:"not null;uniqueIndex:ux_billing_accounts_user" json:"user_id"`
	Tier                   string     `gorm:"type:varchar(50);not null;default:'free';index" json:"tier"`
	Status                 string     `gorm:"type:varchar(32);not null;default:'active';index" json:"status"`
	Provider               string     `gorm:"type:varchar(20);not null;default:'none';index:idx_billing_accounts_provider_customer,priority:1;index:idx_billing_accounts_provider_sub,priority:1" json:"provider"`
	ExternalCustomerID     *string    `gorm:"type:varchar(191);index:idx_billing_accounts_provider_customer,priority:2" json:"external_customer_id,omitempty"`
	ExternalSubscriptionID *string    `gorm:"type:varchar(191);index:idx_billing_accounts_provider_sub,priority:2" json:"external_subscription_id,omitempty"`
	PeriodEnd              *time.Time `gorm:"type:timestamp;default:null" json:"period_end,omitempty"`
	CancelAtPeriodEnd      bool       `gorm:"default:false" json:"cancel_at_period_end"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Normalize enforces the provider/tier invariant before a write: an account
// with no authoritative provider is always free with no external identity.
func (a *BillingAccount) Normalize() {
	if a.Provider == "" {
		a.Provider = BillingProviderNone
	}
	if a.Provider == BillingProviderNone {
		a.Tier = "free"
		a.ExternalCustomerID = nil
		a.ExternalSubscriptionID = nil
	}
}
