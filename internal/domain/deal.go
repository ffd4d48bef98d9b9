package domain

import "time"

// Deal pipeline stages.
const (
	DealStageProspect    = "prospect"
	DealStageQualified   = "qualified"
	DealStageProposal    = "proposal"
	DealStageNegotiation = "negotiation"
	DealStageClosedWon   = "closed-won"
	DealStageClosedLost  = "closed-lost"
)

type Deal struct {
	ID                string     `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID           string     `gorm:"index;size:32;not null" json:"ownerId"`
	Title             string     `gorm:"size:255;not null" json:"title" binding:"required"`
	Value             float64    `json:"value"`
	Stage             string     `gorm:"size:16;not null;default:prospect" json:"stage"`
	ContactID         string     `gorm:"size:32;index" json:"contactId,omitempty"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Deal) TableName() string { return "deals" }
