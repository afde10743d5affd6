// Package services – FeedbackService
//
// This file implements submission and retrieval of the ten-metric
// satisfaction feedback. There is no hard one-per-user constraint; retrieval
// returns the most recent row, matching the informal historical behavior.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/repo"
)

// FeedbackService provides satisfaction feedback operations.
type FeedbackService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{DB: db}
}

// FeedbackInput carries the ten metric scores plus the optional comment.
type FeedbackInput struct {
	Usability      int
	Speed          int
	Reliability    int
	Design         int
	Navigation     int
	Functionality  int
	Support        int
	Communication  int
	Satisfaction   int
	Recommendation int
	Comment        string
}

// Submit stores a feedback row. Every metric must be 1..10.
func (s *FeedbackService) Submit(ctx context.Context, ident Identity, in FeedbackInput) (*domain.Feedback, error) {
	scores := []int{
		in.Usability, in.Speed, in.Reliability, in.Design, in.Navigation,
		in.Functionality, in.Support, in.Communication, in.Satisfaction, in.Recommendation,
	}
	for i, v := range scores {
		if v < 1 || v > 10 {
			return nil, validationf("metric %q must be between 1 and 10", domain.FeedbackMetricKeys[i])
		}
	}

	f := &domain.Feedback{
		UserID:         ident.UserID,
		Usability:      in.Usability,
		Speed:          in.Speed,
		Reliability:    in.Reliability,
		Design:         in.Design,
		Navigation:     in.Navigation,
		Functionality:  in.Functionality,
		Support:        in.Support,
		Communication:  in.Communication,
		Satisfaction:   in.Satisfaction,
		Recommendation: in.Recommendation,
	}
	if c := strings.TrimSpace(in.Comment); c != "" {
		f.Comment = &c
	}
	return repo.CreateFeedback(ctx, s.DB, f)
}

// Mine returns the caller's most recent feedback, or nil when none exists.
func (s *FeedbackService) Mine(ctx context.Context, ident Identity) (*domain.Feedback, error) {
	return repo.LatestFeedbackByUser(ctx, s.DB, ident.UserID)
}
