package domain

import "time"

const (
	ActivityTypeCall       = "call"
	ActivityTypeEmail      = "email"
	ActivityTypeMeeting    = "meeting"
	ActivityTypeNote       = "note"
	ActivityTypeTask       = "task"
	ActivityTypeDealUpdate = "deal_update"
)

type Activity struct {
	ID          string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID     string    `gorm:"index;size:32;not null" json:"ownerId"`
	Type        string    `gorm:"size:16;not null;default:note" json:"type"`
	Title       string    `gorm:"size:255;not null" json:"title" binding:"required"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ContactID   string    `gorm:"size:32;index" json:"contactId,omitempty"`
	DealID      string    `gorm:"size:32;index" json:"dealId,omitempty"`
	TaskID      string    `gorm:"size:32;index" json:"taskId,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Activity) TableName() string { return "activities" }
