package models

import "time"

// Processing states for a webhook event ledger row.
const (
	WebhookProcessingPending = "pending"
	WebhookProcessingSuccess = "success"
	WebhookProcessingFailed  = "failed"
)

// WebhookEvent is the idempotency ledger: one row per unique
// (provider, provider_event_id), created in pending state on first sight and
// transitioned exactly once per attempt to success or failed. Rows are never
// deleted; they double as the audit trail for provider redeliveries.
type WebhookEvent struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Provider         string     `gorm:"type:varchar(20);not null;index:ux_webhook_events_provider_event,unique,priority:1;index" json:"provider"`
	ProviderEventID  string     `gorm:"type:varchar(191);not null;index:ux_webhook_events_provider_event,unique,priority:2" json:"provider_event_id"`
	EventType        string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	Payload          string     `gorm:"type:longtext;not null" json:"payload"`
	Processed        bool       `gorm:"default:false;index" json:"processed"`
	ProcessingStatus string     `gorm:"type:varchar(16);not null;default:'pending';index" json:"processing_status"`
	ResolvedUserID   *uint      `gorm:"index" json:"resolved_user_id,omitempty"`
	ErrorMessage     string     `gorm:"type:text" json:"error_message"`
	ProcessedAt      *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsTerminalSuccess reports whether a redelivery of this event can be
// acknowledged without reprocessing.
func (e *WebhookEvent) IsTerminalSuccess() bool {
	return e.Processed && e.ProcessingStatus == WebhookProcessingSuccess
}
