package model

import (
	"time"
)

// Campaign represents a brand's marketing campaign.
type Campaign struct {
	ID           string     `json:"id"`
	BrandID      string     `json:"brand_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category,omitempty"`
	CampaignType string     `json:"campaign_type,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	Requirements string     `json:"requirements,omitempty"`
	Deliverables string     `json:"deliverables,omitempty"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

// Open reports whether the campaign accepts applications as of the given
// time. A campaign with no end date never closes.
func (c *Campaign) Open(asOf time.Time) bool {
	return c.EndDate == nil || c.EndDate.After(asOf)
}

// ApplicationStatus is the review state of a creator's application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Application represents a creator's application to a campaign.
type Application struct {
	ID         string            `json:"id"`
	CampaignID string            `json:"campaign_id"`
	CreatorID  string            `json:"creator_id"`
	Status     ApplicationStatus `json:"status"`
	Message    string            `json:"message,omitempty"`
	AppliedAt  time.Time         `json:"applied_at"`
}

// SavedCampaign is a campaign bookmarked by a user.
type SavedCampaign struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CampaignID string    `json:"campaign_id"`
	SavedAt    time.Time `json:"saved_at"`
}
