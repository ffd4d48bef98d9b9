package domain

import "time"

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent" // projects only
)

type Task struct {
	ID          string     `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID     string     `gorm:"index;size:32;not null" json:"ownerId"`
	Title       string     `gorm:"size:255;not null" json:"title" binding:"required"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      string     `gorm:"size:16;not null;default:todo" json:"status"`
	Priority    string     `gorm:"size:8;not null;default:medium" json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	// Weak references; nothing cascades.
	ContactID      string   `gorm:"size:32;index" json:"contactId,omitempty"`
	ProjectID      string   `gorm:"size:32;index" json:"projectId,omitempty"`
	EstimatedHours *float64 `json:"estimatedHours,omitempty"`
	ActualHours    *float64 `json:"actualHours,omitempty"`
	Tags           Tags     `gorm:"serializer:json;type:text" json:"tags,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }
