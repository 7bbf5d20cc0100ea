package service

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"github.com/brandconnect/marketplace-api/internal/apperr"
	"github.com/brandconnect/marketplace-api/internal/model"
	"github.com/brandconnect/marketplace-api/internal/store"
	"github.com/brandconnect/marketplace-api/pkg/logger"
	"github.com/brandconnect/marketplace-api/pkg/metrics"
)

const (
	// maxPerformanceRows caps the per-campaign breakdown on the brand
	// dashboard.
	maxPerformanceRows = 4

	// viewsPerCampaign is the estimated view count per owned campaign used
	// in the engagement rate. There is no real view counter for campaigns,
	// only for creator profiles.
	viewsPerCampaign = 100

	// baselineEngagement stands in for last month's engagement rate until
	// historical aggregates exist.
	baselineEngagement = 2.7
)

// CampaignEstimator supplies view and engagement estimates for campaigns
// that have no real counters. Implementations must be deterministic.
type CampaignEstimator interface {
	EstimateViews(c *model.Campaign) int
	EstimateEngagement(c *model.Campaign) float64
}

// HashEstimator derives stable pseudo-estimates from the campaign id. It
// replaces the random placeholders the original dashboard emitted.
type HashEstimator struct{}

func (HashEstimator) hash(id string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return h.Sum32()
}

// EstimateViews returns a stable value in [1000, 3000).
func (e HashEstimator) EstimateViews(c *model.Campaign) int {
	return 1000 + int(e.hash(c.ID)%2000)
}

// EstimateEngagement returns a stable value in [2.0, 5.0) with one decimal.
func (e HashEstimator) EstimateEngagement(c *model.Campaign) float64 {
	return 2.0 + float64(e.hash(c.ID)%30)/10
}

// DashboardService aggregates campaign, application, saved-campaign and
// profile-view data into role-dependent dashboard bundles.
type DashboardService struct {
	campaigns    store.CampaignStore
	applications store.ApplicationStore
	saved        store.SavedCampaignStore
	views        store.ProfileViewStore
	estimator    CampaignEstimator
	logger       *logger.Logger
}

// NewDashboardService creates a new dashboard service. A nil estimator
// falls back to HashEstimator.
func NewDashboardService(
	campaigns store.CampaignStore,
	applications store.ApplicationStore,
	saved store.SavedCampaignStore,
	views store.ProfileViewStore,
	estimator CampaignEstimator,
	log *logger.Logger,
) *DashboardService {
	if estimator == nil {
		estimator = HashEstimator{}
	}
	return &DashboardService{
		campaigns:    campaigns,
		applications: applications,
		saved:        saved,
		views:        views,
		estimator:    estimator,
		logger:       log,
	}
}

// Stats returns the dashboard bundle for the caller's role.
func (s *DashboardService) Stats(ctx context.Context, user *model.User) (*model.DashboardStats, error) {
	switch user.Role {
	case model.RoleBrand:
		brand, err := s.brandStats(ctx, user)
		if err != nil {
			return nil, err
		}
		metrics.DashboardRequests.WithLabelValues(string(model.RoleBrand)).Inc()
		return &model.DashboardStats{Role: model.RoleBrand, Brand: brand}, nil
	case model.RoleCreator:
		creator, err := s.creatorStats(ctx, user)
		if err != nil {
			return nil, err
		}
		metrics.DashboardRequests.WithLabelValues(string(model.RoleCreator)).Inc()
		return &model.DashboardStats{Role: model.RoleCreator, Creator: creator}, nil
	default:
		return nil, apperr.Authorization("unknown role %q", user.Role)
	}
}

func (s *DashboardService) brandStats(ctx context.Context, user *model.User) (*model.BrandDashboard, error) {
	now := time.Now()
	weekAgo := now.Add(-statsWindow)
	monthAgo := now.AddDate(0, -1, 0)

	myCampaigns, err := s.campaigns.ListCampaignsByBrand(ctx, user.ID)
	if err != nil {
		return nil, apperr.Unavailable(err, "campaign store")
	}

	campaignIDs := make([]string, len(myCampaigns))
	lastMonthCampaigns := 0
	for i := range myCampaigns {
		campaignIDs[i] = myCampaigns[i].ID
		if myCampaigns[i].StartDate.After(monthAgo) {
			lastMonthCampaigns++
		}
	}

	myApplications, err := s.applications.ListApplicationsByCampaigns(ctx, campaignIDs)
	if err != nil {
		return nil, apperr.Unavailable(err, "application store")
	}

	var pending int64
	creators := make(map[string]bool)
	lastWeekCreators := make(map[string]bool)
	appsByCampaign := make(map[string]int64)
	for i := range myApplications {
		a := &myApplications[i]
		appsByCampaign[a.CampaignID]++
		if a.Status == model.ApplicationPending {
			pending++
		}
		if a.CreatorID != "" {
			creators[a.CreatorID] = true
			if a.AppliedAt.After(weekAgo) {
				lastWeekCreators[a.CreatorID] = true
			}
		}
	}

	viewsEstimate := float64(len(myCampaigns) * viewsPerCampaign)
	engagementRate := 0.0
	if viewsEstimate > 0 {
		engagementRate = float64(len(myApplications)) / viewsEstimate * 100
	}
	engagementRate = roundTenth(engagementRate)

	distribution := make(map[string]int64)
	for i := range myCampaigns {
		if c := myCampaigns[i].Category; c != "" {
			distribution[c]++
		}
	}

	performance := make([]model.CampaignPerformance, 0, maxPerformanceRows)
	for i := range myCampaigns {
		if i == maxPerformanceRows {
			break
		}
		c := &myCampaigns[i]
		performance = append(performance, model.CampaignPerformance{
			Name:         c.Title,
			Views:        s.estimator.EstimateViews(c),
			Applications: appsByCampaign[c.ID],
			Engagement:   roundTenth(s.estimator.EstimateEngagement(c)),
		})
	}

	return &model.BrandDashboard{
		TotalCampaigns:       len(myCampaigns),
		CampaignsChange:      lastMonthCampaigns,
		ActiveCreators:       int64(len(creators)),
		CreatorsChange:       int64(len(lastWeekCreators)),
		EngagementRate:       engagementRate,
		EngagementChange:     roundTenth(engagementRate - baselineEngagement),
		PendingApplications:  pending,
		CategoryDistribution: distribution,
		CampaignPerformance:  performance,
	}, nil
}

func (s *DashboardService) creatorStats(ctx context.Context, user *model.User) (*model.CreatorDashboard, error) {
	now := time.Now()
	weekAgo := now.Add(-statsWindow)
	twoWeeksAgo := now.Add(-2 * statsWindow)

	savedCampaigns, err := s.saved.ListSavedByUser(ctx, user.ID)
	if err != nil {
		return nil, apperr.Unavailable(err, "saved campaign store")
	}
	lastWeekSaved := 0
	for i := range savedCampaigns {
		if savedCampaigns[i].SavedAt.After(weekAgo) {
			lastWeekSaved++
		}
	}

	myApplications, err := s.applications.ListApplicationsByCreator(ctx, user.ID)
	if err != nil {
		return nil, apperr.Unavailable(err, "application store")
	}
	var pending int64
	for i := range myApplications {
		if myApplications[i].Status == model.ApplicationPending {
			pending++
		}
	}

	totalViews, err := s.views.CountViewsByCreator(ctx, user.ID)
	if err != nil {
		return nil, apperr.Unavailable(err, "profile view store")
	}
	lastWeekViews, err := s.views.CountViewsByCreatorBetween(ctx, user.ID, weekAgo, now)
	if err != nil {
		return nil, apperr.Unavailable(err, "profile view store")
	}
	previousWeekViews, err := s.views.CountViewsByCreatorBetween(ctx, user.ID, twoWeeksAgo, weekAgo)
	if err != nil {
		return nil, apperr.Unavailable(err, "profile view store")
	}

	openCampaigns, err := s.campaigns.ListOpenCampaigns(ctx, now)
	if err != nil {
		return nil, apperr.Unavailable(err, "campaign store")
	}
	distribution := make(map[string]int64)
	for i := range openCampaigns {
		if c := openCampaigns[i].Category; c != "" {
			distribution[c]++
		}
	}

	return &model.CreatorDashboard{
		SavedCampaigns:       len(savedCampaigns),
		SavedChange:          lastWeekSaved,
		ApplicationsSent:     len(myApplications),
		PendingApplications:  pending,
		ProfileViews:         totalViews,
		ProfileViewsChange:   int(math.Round(percentChange(lastWeekViews, previousWeekViews))),
		CategoryDistribution: distribution,
	}, nil
}
