package domain

import "time"

// Contact lifecycle statuses.
const (
	ContactStatusLead   = "Lead"
	ContactStatusActive = "Active"
	ContactStatusPast   = "Past"
)

type Contact struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID   string    `gorm:"index;size:32;not null" json:"ownerId"`
	Name      string    `gorm:"size:128;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:255;not null" json:"email" binding:"required,email"`
	Phone     string    `gorm:"size:32" json:"phone,omitempty"`
	Company   string    `gorm:"size:128" json:"company,omitempty"`
	Position  string    `gorm:"size:128" json:"position,omitempty"`
	Tags      Tags      `gorm:"serializer:json;type:text" json:"tags,omitempty"`
	Status    string    `gorm:"size:16;not null;default:Lead" json:"status"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Contact) TableName() string { return "contacts" }
