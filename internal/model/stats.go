package model

// CampaignPerformance is one row of the brand dashboard's per-campaign
// breakdown. Views and engagement come from the configured estimator.
type CampaignPerformance struct {
	Name         string  `json:"name"`
	Views        int     `json:"views"`
	Applications int64   `json:"applications"`
	Engagement   float64 `json:"engagement"`
}

// BrandDashboard is the statistics bundle for a brand caller.
type BrandDashboard struct {
	TotalCampaigns       int                   `json:"totalCampaigns"`
	CampaignsChange      int                   `json:"campaignsChange"`
	ActiveCreators       int64                 `json:"activeCreators"`
	CreatorsChange       int64                 `json:"creatorsChange"`
	EngagementRate       float64               `json:"engagementRate"`
	EngagementChange     float64               `json:"engagementChange"`
	PendingApplications  int64                 `json:"pendingApplications"`
	CategoryDistribution map[string]int64      `json:"categoryDistribution"`
	CampaignPerformance  []CampaignPerformance `json:"campaignPerformance"`
}

// CreatorDashboard is the statistics bundle for a creator caller.
type CreatorDashboard struct {
	SavedCampaigns       int              `json:"savedCampaigns"`
	SavedChange          int              `json:"savedChange"`
	ApplicationsSent     int              `json:"applicationsSent"`
	PendingApplications  int64            `json:"pendingApplications"`
	ProfileViews         int64            `json:"profileViews"`
	ProfileViewsChange   int              `json:"profileViewsChange"`
	CategoryDistribution map[string]int64 `json:"categoryDistribution"`
}

// DashboardStats wraps the role-dependent dashboard bundle. Exactly one of
// Brand or Creator is set.
type DashboardStats struct {
	Role    Role              `json:"role"`
	Brand   *BrandDashboard   `json:"brand,omitempty"`
	Creator *CreatorDashboard `json:"creator,omitempty"`
}
