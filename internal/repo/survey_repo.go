// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for surveys,
// questions, responses, and answers.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
)

// CreateSurvey inserts a survey together with its ordered questions in one
// transaction. Question IDs and positions are assigned here.
func CreateSurvey(ctx context.Context, db *gorm.DB, s *domain.Survey) (*domain.Survey, error) {
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questions := s.Questions
		s.Questions = nil
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ID = uuid.NewString()
			questions[i].SurveyID = s.ID
			questions[i].Order = i
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		s.Questions = questions
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSurvey fetches a survey with its questions in order, or ErrNotFound.
func GetSurvey(ctx context.Context, db *gorm.DB, id string) (*domain.Survey, error) {
	var s domain.Survey
	err := db.WithContext(ctx).
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position asc")
		}).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSurveys returns all surveys, newest first, without questions.
func ListSurveys(ctx context.Context, db *gorm.DB) ([]domain.Survey, error) {
	var out []domain.Survey
	err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// SetSurveyActive flips the survey's accepting-responses flag.
func SetSurveyActive(ctx context.Context, db *gorm.DB, id string, active bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Survey{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasResponse reports whether userID has already answered surveyID.
func HasResponse(ctx context.Context, db *gorm.DB, surveyID, userID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.SurveyResponse{}).
		Where("survey_id = ? AND user_id = ?", surveyID, userID).
		Count(&count).Error
	return count > 0, err
}

// CreateResponse inserts a response and its answers atomically. The answers'
// response ID and row IDs are assigned here.
func CreateResponse(ctx context.Context, db *gorm.DB, surveyID, userID string, answers []domain.SurveyAnswer) (*domain.SurveyResponse, error) {
	r := &domain.SurveyResponse{
		ID:        uuid.NewString(),
		SurveyID:  surveyID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].ID = uuid.NewString()
			answers[i].ResponseID = r.ID
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.Answers = answers
	return r, nil
}

// ListResponses returns all responses to a survey with answers and the
// responding user, oldest first.
func ListResponses(ctx context.Context, db *gorm.DB, surveyID string) ([]domain.SurveyResponse, error) {
	var out []domain.SurveyResponse
	err := db.WithContext(ctx).
		Preload("Answers").
		Preload("User").
		Where("survey_id = ?", surveyID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}
