package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// QuestionType is the closed set of survey question kinds. Result aggregation
// branches on exactly these five values.
type QuestionType string

const (
	QuestionText           QuestionType = "TEXT"
	QuestionSingleChoice   QuestionType = "SINGLE_CHOICE"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionRating         QuestionType = "RATING" // 1..10
	QuestionYesNo          QuestionType = "YES_NO"
)

// ValidQuestionType reports whether t is a known question type.
func ValidQuestionType(t QuestionType) bool {
	switch t {
	case QuestionText, QuestionSingleChoice, QuestionMultipleChoice,
		QuestionRating, QuestionYesNo:
		return true
	}
	return false
}

// QuestionOptions is the option list for choice questions, stored as JSON.
// Nil for types that carry no options.
type QuestionOptions []string

// Value serializes the options as JSON for storage.
func (o QuestionOptions) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

// Scan reads the stored JSON back.
func (o *QuestionOptions) Scan(src any) error {
	return scanJSON(src, o)
}

// Survey is an admin-authored questionnaire. Responses are accepted only
// while IsActive is true, at most one per user.
type Survey struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title"       gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	IsActive    bool      `json:"is_active"   gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`

	Questions []SurveyQuestion `json:"questions,omitempty" gorm:"foreignKey:SurveyID"`
}

// TableName returns the database table name for Survey.
func (Survey) TableName() string { return "surveys" }

// SurveyQuestion is one ordered question within a survey.
type SurveyQuestion struct {
	ID       string          `json:"id"       gorm:"type:char(36);primaryKey"`
	SurveyID string          `json:"survey_id" gorm:"type:char(36);not null;index:idx_survey_questions"`
	Text     string          `json:"text"     gorm:"type:text;not null"`
	Type     QuestionType    `json:"type"     gorm:"type:varchar(32);not null"`
	Options  QuestionOptions `json:"options"  gorm:"type:text"`
	Order    int             `json:"order"    gorm:"column:position;not null;default:0"`

	Survey Survey `json:"-" gorm:"foreignKey:SurveyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for SurveyQuestion.
func (SurveyQuestion) TableName() string { return "survey_questions" }

// SurveyResponse is one user's submission to one survey. The unique index
// backs the one-response-per-user rule checked in the service layer.
type SurveyResponse struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	SurveyID  string    `json:"survey_id" gorm:"type:char(36);not null;uniqueIndex:ux_response_survey_user,priority:1"`
	UserID    string    `json:"user_id"   gorm:"type:char(36);not null;uniqueIndex:ux_response_survey_user,priority:2"`
	CreatedAt time.Time `json:"created_at"`

	Answers []SurveyAnswer `json:"answers,omitempty" gorm:"foreignKey:ResponseID"`
	Survey  Survey         `json:"-" gorm:"foreignKey:SurveyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User    User           `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for SurveyResponse.
func (SurveyResponse) TableName() string { return "survey_responses" }

// SurveyAnswer holds one answer string. Multiple-choice selections are stored
// comma-joined ("A,B") and split again at aggregation time.
type SurveyAnswer struct {
	ID         string `json:"id"          gorm:"type:char(36);primaryKey"`
	ResponseID string `json:"response_id" gorm:"type:char(36);not null;index:idx_response_answers"`
	QuestionID string `json:"question_id" gorm:"type:char(36);not null;index"`
	Value      string `json:"value"       gorm:"type:text;not null"`

	Response SurveyResponse `json:"-" gorm:"foreignKey:ResponseID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for SurveyAnswer.
func (SurveyAnswer) TableName() string { return "survey_answers" }
