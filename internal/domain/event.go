package domain

import "time"

const (
	EventTypeMeeting  = "meeting"
	EventTypeCall     = "call"
	EventTypeDeadline = "deadline"
	EventTypeReminder = "reminder"
	EventTypeOther    = "other"
)

type CalendarEvent struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID   string    `gorm:"index;size:32;not null" json:"ownerId"`
	Title     string    `gorm:"size:255;not null" json:"title" binding:"required"`
	StartTime time.Time `gorm:"index;not null" json:"startTime"`
	EndTime   time.Time `gorm:"not null" json:"endTime"`
	AllDay    bool      `json:"allDay"`
	Location  string    `gorm:"size:255" json:"location,omitempty"`
	ContactID string    `gorm:"size:32;index" json:"contactId,omitempty"`
	EventType string    `gorm:"size:16;not null;default:other" json:"eventType"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CalendarEvent) TableName() string { return "calendar_events" }
