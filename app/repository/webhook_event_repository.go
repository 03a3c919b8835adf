package repository

import (
	"time"

	"github.com/saidulislam/nucamp-soloai-sub002/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type webhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates a GORM-backed idempotency ledger.
func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

// CheckAndRegister relies on the unique index over (provider,
// provider_event_id): the conditional insert and the existence check are one
// statement, so concurrent redeliveries of the same event cannot both win.
func (r *webhookEventRepository) CheckAndRegister(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	if event.ProcessingStatus == "" {
		event.ProcessingStatus = models.WebhookProcessingPending
	}
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	stored, err := r.GetByProviderEventID(event.Provider, event.ProviderEventID)
	if err != nil {
		return false, nil, err
	}
	return created, stored, nil
}

func (r *webhookEventRepository) MarkComplete(provider, providerEventID, status string, resolvedUserID *uint, errorMessage string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed":         true,
		"processing_status": status,
		"resolved_user_id":  resolvedUserID,
		"error_message":     errorMessage,
		"processed_at":      &now,
	}
	return r.db.Model(&models.WebhookEvent{}).
		Where("provider = ? AND provider_event_id = ?", provider, providerEventID).
		Updates(updates).Error
}

func (r *webhookEventRepository) GetByProviderEventID(provider, providerEventID string) (*models.WebhookEvent, error) {
	var stored models.WebhookEvent
	err := r.db.Where("provider = ? AND provider_event_id = ?", provider, providerEventID).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}
