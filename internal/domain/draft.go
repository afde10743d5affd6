package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// DraftFormData is the auto-saved request form content. Stored as JSON so
// partially filled forms round-trip whatever subset of fields exists.
type DraftFormData map[string]string

// Value serializes the form data as JSON for storage.
func (d DraftFormData) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan reads the stored JSON back.
func (d *DraftFormData) Scan(src any) error {
	return scanJSON(src, d)
}

// RequestDraft records one pass through the request intake form for funnel
// analytics. A draft ends in exactly one of three ways: completed (the form
// was submitted), abandoned (the client reported navigation away), or neither
// (the client vanished). The last kind is excluded from conversion rates.
type RequestDraft struct {
	ID          string        `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID      string        `json:"user_id"      gorm:"type:char(36);not null;index:idx_user_request_drafts"`
	StartedAt   time.Time     `json:"started_at"   gorm:"not null;index"`
	CompletedAt *time.Time    `json:"completed_at"`
	Duration    *int          `json:"duration"` // seconds from start to completion
	Abandoned   bool          `json:"abandoned"    gorm:"not null;default:false"`
	FormData    DraftFormData `json:"form_data"    gorm:"type:text"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for RequestDraft.
func (RequestDraft) TableName() string { return "request_drafts" }

// FeedbackDraft is the funnel record for the satisfaction form. Same terminal
// semantics as RequestDraft, without saved form content.
type FeedbackDraft struct {
	ID          string     `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID      string     `json:"user_id"      gorm:"type:char(36);not null;index:idx_user_feedback_drafts"`
	StartedAt   time.Time  `json:"started_at"   gorm:"not null;index"`
	CompletedAt *time.Time `json:"completed_at"`
	Duration    *int       `json:"duration"`
	Abandoned   bool       `json:"abandoned"    gorm:"not null;default:false"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for FeedbackDraft.
func (FeedbackDraft) TableName() string { return "feedback_drafts" }

// ActivityLog is a best-effort audit record. Writes are fire-and-forget: a
// failed log write never rolls back the operation it describes.
type ActivityLog struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;index"`
	Action    string    `json:"action"     gorm:"type:varchar(64);not null"`
	Detail    string    `json:"detail"     gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for ActivityLog.
func (ActivityLog) TableName() string { return "activity_logs" }
