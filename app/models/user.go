package models

import "time"

// User is the owning identity for a BillingAccount. Users are created by the
// signup/checkout flows outside this service; webhook processing only ever
// reads them.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`
	Name      string    `gorm:"type:varchar(100);default:''" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
