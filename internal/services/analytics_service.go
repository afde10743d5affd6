// Package services – AnalyticsService
//
// This file implements the read-side analytics: form funnel conversion,
// per-user request-draft stats, feedback rating aggregates, active users, and
// the user segmentation. Everything is re-derived from the store on every
// call; there is no cache or incremental maintenance, so correctness depends
// only on a consistent read.
package services

import (
	"context"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/repo"
)

// FunnelStats summarizes one draft funnel over the lookback window. Drafts
// that reached neither terminal state (client vanished) are excluded from
// both the numerator and the denominator: the rate measures terminal
// outcomes only, a known undercount.
type FunnelStats struct {
	Completed      int `json:"completed"`
	Abandoned      int `json:"abandoned"`
	AvgDurationSec int `json:"avg_duration_sec"`
	ConversionRate int `json:"conversion_rate"` // percent, 0 when no terminal drafts
}

// UserRequestStats is the per-user completed-draft aggregate.
type UserRequestStats struct {
	UserID         string `json:"user_id"`
	Completed      int    `json:"completed"`
	AvgDurationSec int    `json:"avg_duration_sec"`
}

// RatingStats aggregates the ten feedback metrics over the window.
// OverallAverage is the equal-weighted mean of the ten per-metric means,
// not a flat mean over all (metric, response) pairs.
type RatingStats struct {
	Averages       map[string]float64 `json:"averages"`
	BestMetric     string             `json:"best_metric"`
	WorstMetric    string             `json:"worst_metric"`
	OverallAverage float64            `json:"overall_average"`
	Responses      int                `json:"responses"`
}

// Overview is the full analytics payload for one lookback window.
type Overview struct {
	WindowDays     int                `json:"window_days"`
	RequestFunnel  FunnelStats        `json:"request_funnel"`
	FeedbackFunnel FunnelStats        `json:"feedback_funnel"`
	PerUser        []UserRequestStats `json:"per_user"`
	Ratings        RatingStats        `json:"ratings"`
	ActiveUsers    int                `json:"active_users"`
}

// Segment is the user classification by request count and account age.
type Segment string

const (
	SegmentVIP      Segment = "VIP"      // heavy requesters
	SegmentActive   Segment = "AKTYVUS"  // has recent requests
	SegmentNew      Segment = "NAUJAS"   // young account, little history
	SegmentInactive Segment = "NEAKTYVUS"
)

// UserSegment pairs a user with their computed segment.
type UserSegment struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Segment      Segment `json:"segment"`
	RequestCount int64   `json:"request_count"`
}

// AnalyticsService derives metrics from draft and feedback records.
type AnalyticsService struct {
	// DB is the GORM handle used for reads.
	DB *gorm.DB

	// Now returns the current time; overridable in tests.
	Now func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db, Now: time.Now}
}

// draftOutcome is the common funnel shape of both draft kinds.
type draftOutcome struct {
	completed bool
	abandoned bool
	duration  *int
	userID    string
}

// funnel folds terminal outcomes into FunnelStats. Completed requires all
// three markers (completedAt set, not abandoned, duration recorded) so a
// half-written row cannot skew the mean.
func funnel(drafts []draftOutcome) FunnelStats {
	var out FunnelStats
	sum := 0
	for _, d := range drafts {
		switch {
		case d.abandoned:
			out.Abandoned++
		case d.completed && d.duration != nil:
			out.Completed++
			sum += *d.duration
		}
	}
	if out.Completed > 0 {
		out.AvgDurationSec = int(math.Round(float64(sum) / float64(out.Completed)))
	}
	if terminal := out.Completed + out.Abandoned; terminal > 0 {
		out.ConversionRate = int(math.Round(100 * float64(out.Completed) / float64(terminal)))
	}
	return out
}

// Compute derives the full analytics overview for a lookback window in days.
// windowDays values below 1 fall back to 30.
func (s *AnalyticsService) Compute(ctx context.Context, windowDays int) (*Overview, error) {
	if windowDays < 1 {
		windowDays = 30
	}
	since := s.Now().UTC().AddDate(0, 0, -windowDays)

	reqDrafts, err := repo.ListRequestDraftsSince(ctx, s.DB, since)
	if err != nil {
		return nil, err
	}
	fbDrafts, err := repo.ListFeedbackDraftsSince(ctx, s.DB, since)
	if err != nil {
		return nil, err
	}
	feedback, err := repo.ListFeedbackSince(ctx, s.DB, since)
	if err != nil {
		return nil, err
	}
	activeIDs, err := repo.ActiveUserIDsSince(ctx, s.DB, since)
	if err != nil {
		return nil, err
	}

	reqOutcomes := make([]draftOutcome, len(reqDrafts))
	for i, d := range reqDrafts {
		reqOutcomes[i] = draftOutcome{
			completed: d.CompletedAt != nil,
			abandoned: d.Abandoned,
			duration:  d.Duration,
			userID:    d.UserID,
		}
	}
	fbOutcomes := make([]draftOutcome, len(fbDrafts))
	for i, d := range fbDrafts {
		fbOutcomes[i] = draftOutcome{
			completed: d.CompletedAt != nil,
			abandoned: d.Abandoned,
			duration:  d.Duration,
		}
	}

	return &Overview{
		WindowDays:     windowDays,
		RequestFunnel:  funnel(reqOutcomes),
		FeedbackFunnel: funnel(fbOutcomes),
		PerUser:        perUserStats(reqOutcomes),
		Ratings:        ratingStats(feedback),
		ActiveUsers:    len(activeIDs),
	}, nil
}

// perUserStats groups completed request drafts by owner.
func perUserStats(drafts []draftOutcome) []UserRequestStats {
	type acc struct {
		n   int
		sum int
	}
	byUser := map[string]*acc{}
	for _, d := range drafts {
		if d.abandoned || !d.completed || d.duration == nil {
			continue
		}
		a := byUser[d.userID]
		if a == nil {
			a = &acc{}
			byUser[d.userID] = a
		}
		a.n++
		a.sum += *d.duration
	}

	out := make([]UserRequestStats, 0, len(byUser))
	for id, a := range byUser {
		out = append(out, UserRequestStats{
			UserID:         id,
			Completed:      a.n,
			AvgDurationSec: int(math.Round(float64(a.sum) / float64(a.n))),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// ratingStats computes per-metric means over the windowed feedback rows and
// picks the best and worst metric by a simple sort of the means.
func ratingStats(rows []domain.Feedback) RatingStats {
	out := RatingStats{
		Averages:  map[string]float64{},
		Responses: len(rows),
	}
	if len(rows) == 0 {
		return out
	}

	sums := map[string]int{}
	for _, f := range rows {
		for k, v := range f.Metrics() {
			sums[k] += v
		}
	}

	total := 0.0
	for _, k := range domain.FeedbackMetricKeys {
		mean := float64(sums[k]) / float64(len(rows))
		out.Averages[k] = mean
		total += mean
	}
	out.OverallAverage = total / float64(len(domain.FeedbackMetricKeys))

	keys := append([]string(nil), domain.FeedbackMetricKeys...)
	sort.Slice(keys, func(i, j int) bool {
		return out.Averages[keys[i]] > out.Averages[keys[j]]
	})
	out.BestMetric = keys[0]
	out.WorstMetric = keys[len(keys)-1]
	return out
}

// Segments classifies every user by request count and account age:
// 10+ requests is VIP; any request in the last 30 days is AKTYVUS; an account
// younger than 30 days is NAUJAS; everyone else is NEAKTYVUS.
func (s *AnalyticsService) Segments(ctx context.Context) ([]UserSegment, error) {
	users, err := repo.ListUsers(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	counts, err := repo.RequestCountsByUser(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	cutoff := now.AddDate(0, 0, -30)

	out := make([]UserSegment, 0, len(users))
	for _, u := range users {
		if u.Role != domain.RoleUser {
			continue
		}
		n := counts[u.ID]
		seg := SegmentInactive
		switch {
		case n >= 10:
			seg = SegmentVIP
		case n > 0 && s.hasRecentRequest(ctx, u.ID, cutoff):
			seg = SegmentActive
		case u.CreatedAt.After(cutoff):
			seg = SegmentNew
		}
		out = append(out, UserSegment{
			UserID:       u.ID,
			Name:         u.Name,
			Segment:      seg,
			RequestCount: n,
		})
	}
	return out, nil
}

// hasRecentRequest reports whether the user created a request after cutoff.
func (s *AnalyticsService) hasRecentRequest(ctx context.Context, userID string, cutoff time.Time) bool {
	var n int64
	s.DB.WithContext(ctx).
		Model(&domain.Request{}).
		Where("user_id = ? AND created_at >= ?", userID, cutoff).
		Count(&n)
	return n > 0
}
