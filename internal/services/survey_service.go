// Package services – SurveyService
//
// This file implements survey authoring, the one-response-per-user rule, and
// result aggregation. Aggregation branches on question type; notably,
// multiple-choice answers are stored comma-joined and split again here, so
// total selections may exceed total responses.
package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pharmetrika/workflow-backend/internal/domain"
	"github.com/pharmetrika/workflow-backend/internal/repo"
)

// SurveyService provides survey operations.
type SurveyService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewSurveyService constructs a SurveyService.
func NewSurveyService(db *gorm.DB) *SurveyService {
	return &SurveyService{DB: db}
}

// QuestionInput is one authored question.
type QuestionInput struct {
	Text    string
	Type    domain.QuestionType
	Options []string
}

// Create authors a survey with its ordered questions. Choice questions
// require at least two options; other types must carry none.
func (s *SurveyService) Create(ctx context.Context, title, description string, questions []QuestionInput) (*domain.Survey, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if len(questions) == 0 {
		return nil, validationf("at least one question is required")
	}

	qs := make([]domain.SurveyQuestion, 0, len(questions))
	for i, q := range questions {
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			return nil, validationf("question %d has no text", i+1)
		}
		if !domain.ValidQuestionType(q.Type) {
			return nil, validationf("question %d has unknown type %q", i+1, q.Type)
		}
		choice := q.Type == domain.QuestionSingleChoice || q.Type == domain.QuestionMultipleChoice
		if choice && len(q.Options) < 2 {
			return nil, validationf("question %d needs at least two options", i+1)
		}
		if !choice && len(q.Options) > 0 {
			return nil, validationf("question %d does not take options", i+1)
		}
		qs = append(qs, domain.SurveyQuestion{
			Text:    q.Text,
			Type:    q.Type,
			Options: q.Options,
		})
	}

	return repo.CreateSurvey(ctx, s.DB, &domain.Survey{
		Title:       title,
		Description: description,
		IsActive:    true,
		Questions:   qs,
	})
}

// List returns all surveys, newest first.
func (s *SurveyService) List(ctx context.Context) ([]domain.Survey, error) {
	return repo.ListSurveys(ctx, s.DB)
}

// Get fetches one survey with questions.
func (s *SurveyService) Get(ctx context.Context, id string) (*domain.Survey, error) {
	sv, err := repo.GetSurvey(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sv, nil
}

// SetActive opens or closes a survey for responses.
func (s *SurveyService) SetActive(ctx context.Context, id string, active bool) error {
	if err := repo.SetSurveyActive(ctx, s.DB, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// AnswerInput pairs a question with the answer string. Multiple-choice
// selections arrive comma-joined, matching the stored form.
type AnswerInput struct {
	QuestionID string
	Value      string
}

// SubmitResponse records one user's answers. Checks run in contract order:
// survey exists → survey active → no prior response → every answer maps to a
// question of this survey. The response and its answers insert atomically.
func (s *SurveyService) SubmitResponse(ctx context.Context, ident Identity, surveyID string, answers []AnswerInput) (*domain.SurveyResponse, error) {
	sv, err := repo.GetSurvey(ctx, s.DB, surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !sv.IsActive {
		return nil, ErrSurveyInactive
	}

	exists, err := repo.HasResponse(ctx, s.DB, surveyID, ident.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateResponse
	}

	known := make(map[string]struct{}, len(sv.Questions))
	for _, q := range sv.Questions {
		known[q.ID] = struct{}{}
	}
	rows := make([]domain.SurveyAnswer, 0, len(answers))
	for _, a := range answers {
		if _, ok := known[a.QuestionID]; !ok {
			return nil, validationf("answer references unknown question %s", a.QuestionID)
		}
		rows = append(rows, domain.SurveyAnswer{
			QuestionID: a.QuestionID,
			Value:      a.Value,
		})
	}

	return repo.CreateResponse(ctx, s.DB, surveyID, ident.UserID, rows)
}

// QuestionResult is the aggregated outcome for one question. Which fields are
// populated depends on the question type.
type QuestionResult struct {
	QuestionID string              `json:"question_id"`
	Text       string              `json:"text"`
	Type       domain.QuestionType `json:"type"`

	// RATING
	Average   float64        `json:"average,omitempty"`
	Histogram map[string]int `json:"histogram,omitempty"`

	// YES_NO
	YesPercentage float64 `json:"yes_percentage,omitempty"`

	// TEXT
	Texts []TextAnswer `json:"texts,omitempty"`

	TotalResponses int `json:"total_responses"`
}

// TextAnswer is one free-text answer with its author and time.
type TextAnswer struct {
	Value     string    `json:"value"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SurveyResults is the aggregate over all responses to one survey.
type SurveyResults struct {
	SurveyID       string           `json:"survey_id"`
	Title          string           `json:"title"`
	TotalResponses int              `json:"total_responses"`
	Questions      []QuestionResult `json:"questions"`
}

// ComputeResults aggregates per question, branching by type:
//
//   - RATING: numeric mean plus a histogram keyed "1".."10"; unparseable
//     answers are skipped.
//   - SINGLE_CHOICE: histogram keyed by the exact answer string.
//   - YES_NO: same histogram plus the percentage of "yes" (case-insensitive).
//   - MULTIPLE_CHOICE: each answer is comma-split before counting, so "A,B"
//     increments both buckets and selections can exceed responses.
//   - TEXT: the raw (value, respondent, time) tuples, no aggregation.
func (s *SurveyService) ComputeResults(ctx context.Context, surveyID string) (*SurveyResults, error) {
	sv, err := repo.GetSurvey(ctx, s.DB, surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	responses, err := repo.ListResponses(ctx, s.DB, surveyID)
	if err != nil {
		return nil, err
	}

	// answersByQuestion keeps response order so TEXT tuples stay chronological.
	type answerRow struct {
		value string
		name  string
		at    time.Time
	}
	byQuestion := map[string][]answerRow{}
	for _, r := range responses {
		for _, a := range r.Answers {
			byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], answerRow{
				value: a.Value,
				name:  r.User.Name,
				at:    r.CreatedAt,
			})
		}
	}

	out := &SurveyResults{
		SurveyID:       sv.ID,
		Title:          sv.Title,
		TotalResponses: len(responses),
	}

	for _, q := range sv.Questions {
		rows := byQuestion[q.ID]
		res := QuestionResult{
			QuestionID:     q.ID,
			Text:           q.Text,
			Type:           q.Type,
			TotalResponses: len(rows),
		}

		switch q.Type {
		case domain.QuestionRating:
			res.Histogram = map[string]int{}
			sum, n := 0, 0
			for _, r := range rows {
				v, err := strconv.Atoi(strings.TrimSpace(r.value))
				if err != nil || v < 1 || v > 10 {
					continue
				}
				res.Histogram[strconv.Itoa(v)]++
				sum += v
				n++
			}
			if n > 0 {
				res.Average = math.Round(float64(sum)/float64(n)*100) / 100
			}

		case domain.QuestionSingleChoice:
			res.Histogram = map[string]int{}
			for _, r := range rows {
				res.Histogram[r.value]++
			}

		case domain.QuestionYesNo:
			res.Histogram = map[string]int{}
			yes := 0
			for _, r := range rows {
				res.Histogram[r.value]++
				if strings.EqualFold(strings.TrimSpace(r.value), "yes") {
					yes++
				}
			}
			if len(rows) > 0 {
				res.YesPercentage = math.Round(100*float64(yes)/float64(len(rows))*100) / 100
			}

		case domain.QuestionMultipleChoice:
			res.Histogram = map[string]int{}
			for _, r := range rows {
				for _, part := range strings.Split(r.value, ",") {
					part = strings.TrimSpace(part)
					if part != "" {
						res.Histogram[part]++
					}
				}
			}

		case domain.QuestionText:
			for _, r := range rows {
				res.Texts = append(res.Texts, TextAnswer{
					Value:     r.value,
					Name:      r.name,
					CreatedAt: r.at,
				})
			}
		}

		out.Questions = append(out.Questions, res)
	}
	return out, nil
}
