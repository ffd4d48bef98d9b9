package domain

import "time"

// Document is a generated deliverable (business plan, pitch deck outline,
// legal/financial template) kept as plain text.
type Document struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID   string    `gorm:"index;size:32;not null" json:"ownerId"`
	Title     string    `gorm:"size:255;not null" json:"title" binding:"required"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	Content   string    `gorm:"type:text" json:"content,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Document) TableName() string { return "documents" }
