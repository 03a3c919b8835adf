package repository

import (
	"github.com/saidulislam/nucamp-soloai-sub002/app/models"
	"gorm.io/gorm"
)

type billingPlanMappingRepository struct {
	db *gorm.DB
}

// NewBillingPlanMappingRepository creates a GORM-backed plan mapping repository.
func NewBillingPlanMappingRepository(db *gorm.DB) BillingPlanMappingRepository {
	return &billingPlanMappingRepository{db: db}
}

func (r *billingPlanMappingRepository) FindActive(provider, providerPlanRef string) (*models.BillingPlanMapping, error) {
	var m models.BillingPlanMapping
	err := r.db.Where("provider = ? AND provider_plan_ref = ? AND is_active = ?", provider, providerPlanRef, true).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
