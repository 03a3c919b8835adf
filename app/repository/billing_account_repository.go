package repository

import (
	"github.com/saidulislam/nucamp-soloai-sub002/app/models"
	"gorm.io/gorm"
)

type billingAccountRepository struct {
	db *gorm.DB
}

// NewBillingAccountRepository creates a GORM-backed billing account repository.
func NewBillingAccountRepository(db *gorm.DB) BillingAccountRepository {
	return &billingAccountRepository{db: db}
}

func (r *billingAccountRepository) GetByUserID(userID uint) (*models.BillingAccount, error) {
	var account models.BillingAccount
	if err := r.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *billingAccountRepository) GetByProviderSubscriptionID(provider, subscriptionID string) (*models.BillingAccount, error) {
	var account models.BillingAccount
	err := r.db.Where("provider = ? AND external_subscription_id = ?", provider, subscriptionID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *billingAccountRepository) GetByProviderCustomerID(provider, customerID string) (*models.BillingAccount, error) {
	var account models.BillingAccount
	err := r.db.Where("provider = ? AND external_customer_id = ?", provider, customerID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *billingAccountRepository) Update(account *models.BillingAccount) error {
	account.Normalize()
	return r.db.Save(account).Error
}
