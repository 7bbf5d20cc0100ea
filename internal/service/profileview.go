package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/brandconnect/marketplace-api/internal/apperr"
	"github.com/brandconnect/marketplace-api/internal/model"
	"github.com/brandconnect/marketplace-api/internal/store"
	"github.com/brandconnect/marketplace-api/pkg/logger"
	"github.com/brandconnect/marketplace-api/pkg/metrics"
)

// statsWindow is the rolling window used for week-over-week comparisons.
const statsWindow = 7 * 24 * time.Hour

// ProfileViewService records brand→creator profile views with a
// deduplication window and derives rolling view statistics.
type ProfileViewService struct {
	users        store.UserStore
	views        store.ProfileViewStore
	applications store.ApplicationStore
	dedupWindow  time.Duration
	logger       *logger.Logger
}

// NewProfileViewService creates a new profile view service. dedupWindow
// controls how long repeat views of the same creator by the same brand are
// suppressed.
func NewProfileViewService(
	users store.UserStore,
	views store.ProfileViewStore,
	applications store.ApplicationStore,
	dedupWindow time.Duration,
	log *logger.Logger,
) *ProfileViewService {
	if dedupWindow <= 0 {
		dedupWindow = time.Hour
	}
	return &ProfileViewService{
		users:        users,
		views:        views,
		applications: applications,
		dedupWindow:  dedupWindow,
		logger:       log,
	}
}

// Track records a profile view of creatorID by viewer. A view of the same
// creator by the same brand inside the dedup window is skipped, which is a
// successful outcome distinct from a recorded one.
func (s *ProfileViewService) Track(ctx context.Context, viewer *model.User, creatorID, applicationID string) (*model.TrackViewResult, error) {
	if viewer.Role != model.RoleBrand {
		return nil, apperr.Authorization("only brands can view creator profiles")
	}

	creator, err := s.users.GetUserByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("creator %s not found", creatorID)
		}
		return nil, apperr.Unavailable(err, "user store")
	}
	if creator.Role != model.RoleCreator {
		return nil, apperr.Validation("user %s is not a creator", creatorID)
	}

	// A missing application is tolerated; the view is stored without one.
	if applicationID != "" {
		if _, err := s.applications.GetApplicationByID(ctx, applicationID); err != nil {
			applicationID = ""
		}
	}

	now := time.Now()
	view := &model.ProfileView{
		ViewerID:      viewer.ID,
		CreatorID:     creator.ID,
		ViewedAt:      now,
		ApplicationID: applicationID,
	}

	inserted, err := s.views.InsertViewIfNoneSince(ctx, view, now.Add(-s.dedupWindow))
	if err != nil {
		return nil, apperr.Unavailable(err, "profile view store")
	}

	if !inserted {
		s.logger.Debug("profile view skipped by dedup window",
			zap.String("viewer_id", viewer.ID),
			zap.String("creator_id", creator.ID),
		)
		metrics.ProfileViewsTracked.WithLabelValues("skipped").Inc()
		return &model.TrackViewResult{Skipped: true}, nil
	}

	metrics.ProfileViewsTracked.WithLabelValues("recorded").Inc()
	return &model.TrackViewResult{Recorded: true, ViewID: view.ID}, nil
}

// Stats returns total, trailing-week and preceding-week view counts for the
// creator, with the week-over-week percent change rounded to one decimal.
// An empty preceding week yields a change of zero, not an error.
func (s *ProfileViewService) Stats(ctx context.Context, creator *model.User) (*model.ViewStats, error) {
	if creator.Role != model.RoleCreator {
		return nil, apperr.Authorization("only creators can view their profile stats")
	}

	now := time.Now()
	weekAgo := now.Add(-statsWindow)
	twoWeeksAgo := now.Add(-2 * statsWindow)

	total, err := s.views.CountViewsByCreator(ctx, creator.ID)
	if err != nil {
		return nil, apperr.Unavailable(err, "profile view store")
	}
	lastWeek, err := s.views.CountViewsByCreatorBetween(ctx, creator.ID, weekAgo, now)
	if err != nil {
		return nil, apperr.Unavailable(err, "profile view store")
	}
	previousWeek, err := s.views.CountViewsByCreatorBetween(ctx, creator.ID, twoWeeksAgo, weekAgo)
	if err != nil {
		return nil, apperr.Unavailable(err, "profile view store")
	}

	return &model.ViewStats{
		TotalViews:        total,
		LastWeekViews:     lastWeek,
		PreviousWeekViews: previousWeek,
		PercentChange:     roundTenth(percentChange(lastWeek, previousWeek)),
	}, nil
}

// percentChange computes the week-over-week delta as a percentage. A zero
// base is defined as zero change.
func percentChange(current, previous int64) float64 {
	if previous <= 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// roundTenth rounds half away from zero to one decimal place.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
