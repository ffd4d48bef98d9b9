package domain

import "time"

// UserProfile is the onboarding record: one row per owner, upserted.
type UserProfile struct {
	ID          string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID     string    `gorm:"uniqueIndex;size:32;not null" json:"ownerId"`
	CompanyName string    `gorm:"size:128" json:"companyName,omitempty"`
	Industry    string    `gorm:"size:64" json:"industry,omitempty"`
	TeamSize    string    `gorm:"size:16" json:"teamSize,omitempty"`
	Modules     Tags      `gorm:"serializer:json;type:text" json:"modules,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (UserProfile) TableName() string { return "user_profiles" }
