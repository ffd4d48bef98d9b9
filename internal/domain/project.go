package domain

import "time"

const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on-hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

type Project struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID   string    `gorm:"index;size:32;not null" json:"ownerId"`
	Name      string    `gorm:"size:128;not null" json:"name" binding:"required"`
	Status    string    `gorm:"size:16;not null;default:planning" json:"status"`
	Priority  string    `gorm:"size:8;not null;default:medium" json:"priority"`
	Budget    float64   `json:"budget"`
	Spent     float64   `json:"spent"`
	Progress  int       `json:"progress"` // percentage 0-100
	ContactID string    `gorm:"size:32;index" json:"contactId,omitempty"`
	Tags      Tags      `gorm:"serializer:json;type:text" json:"tags,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Project) TableName() string { return "projects" }
