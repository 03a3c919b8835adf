package models

import "time"

// BillingPlanMapping maps provider-specific plan references (Stripe price IDs,
// Lemon Squeezy variant IDs) to internal tiers. Used by webhook handlers when
// an event carries a plan reference but no tier in its metadata.
type BillingPlanMapping struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Provider        string    `gorm:"type:varchar(20);not null;index:ux_billing_plan_mappings_ref,unique,priority:1;index" json:"provider"`
	ProviderPlanRef string    `gorm:"type:varchar(191);not null;index:ux_billing_plan_mappings_ref,unique,priority:2" json:"provider_plan_ref"`
	Tier            string    `gorm:"type:varchar(50);not null;default:'free';index" json:"tier"`
	IsActive        bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
