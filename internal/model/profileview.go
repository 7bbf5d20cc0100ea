package model

import (
	"time"
)

// ProfileView records a brand viewing a creator's profile. Records are
// append-only; deduplication happens at insert time, not by mutation.
type ProfileView struct {
	ID            string    `json:"id"`
	ViewerID      string    `json:"viewer_id"`
	CreatorID     string    `json:"creator_id"`
	ViewedAt      time.Time `json:"viewed_at"`
	ApplicationID string    `json:"application_id,omitempty"`
}

// TrackViewRequest is the request to record a profile view.
type TrackViewRequest struct {
	CreatorID     string `json:"creator_id"`
	ApplicationID string `json:"application_id,omitempty"`
}

// TrackViewResult distinguishes a recorded view from one skipped by the
// deduplication window. A skip is a successful outcome, not an error.
type TrackViewResult struct {
	Recorded bool   `json:"recorded"`
	Skipped  bool   `json:"tracking_skipped"`
	ViewID   string `json:"view_id,omitempty"`
}

// ViewStats is the rolling week-over-week view summary for a creator.
type ViewStats struct {
	TotalViews        int64   `json:"totalViews"`
	LastWeekViews     int64   `json:"lastWeekViews"`
	PreviousWeekViews int64   `json:"previousWeekViews"`
	PercentChange     float64 `json:"percentChange"`
}
