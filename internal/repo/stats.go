// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries consumed by the
// analytics aggregator. Each function is context-aware and safe to call from
// services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

// ActiveUserIDsSince returns the distinct user IDs that started at least one
// request or feedback draft at or after the cutoff.
func ActiveUserIDsSince(ctx context.Context, db *gorm.DB, since time.Time) ([]string, error) {
	seen := map[string]struct{}{}

	var ids []string
	if err := db.WithContext(ctx).
		Model(&domain.RequestDraft{}).
		Where("started_at >= ?", since).
		Distinct("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	ids = ids[:0]
	if err := db.WithContext(ctx).
		Model(&domain.FeedbackDraft{}).
		Where("started_at >= ?", since).
		Distinct("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out, nil
}

// RequestCountsByUser returns request totals grouped by owner. Used by user
// segmentation alongside account age.
func RequestCountsByUser(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		UserID string
		N      int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Request{}).
		Select("user_id, COUNT(*) AS n").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.UserID] = r.N
	}
	return out, nil
}
