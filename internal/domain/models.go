// Package domain defines the persistence models for the pharmacoeconomic
// modeling workflow: users and roles, modeling requests, IT specialist tasks,
// the internal chat, attachments, feedback, form-fill drafts, and surveys.
// These types are mapped with GORM and form the core data layer of the
// application.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Role is the closed set of user roles. Authorization rules throughout the
// service layer branch on exactly these four values.
type Role string

const (
	RoleAdmin            Role = "ADMIN"
	RoleUser             Role = "USER"
	RoleITSpecialist     Role = "IT_SPECIALIST"
	RoleQualityEvaluator Role = "QUALITY_EVALUATOR"
)

// ValidRole reports whether r is one of the four known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleITSpecialist, RoleQualityEvaluator:
		return true
	}
	return false
}

// RequestStatus is the lifecycle state of a modeling request. Transitions are
// deliberately unrestricted: any status may be set from any other (the Kanban
// board moves cards freely).
type RequestStatus string

const (
	RequestPending    RequestStatus = "PENDING"
	RequestInProgress RequestStatus = "IN_PROGRESS"
	RequestCompleted  RequestStatus = "COMPLETED"
	RequestRejected   RequestStatus = "REJECTED"
)

// ValidRequestStatus reports whether s is one of the four request statuses.
func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestPending, RequestInProgress, RequestCompleted, RequestRejected:
		return true
	}
	return false
}

// Priority applies to both modeling requests and IT specialist tasks.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// User is an account holder. The role is assigned at registration and is
// immutable afterwards. ChatPin is the optional per-user 4-digit secret used
// for the admin-user chat rooms.
type User struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name"          gorm:"type:varchar(255);not null"`
	Email        string    `json:"email"         gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-"             gorm:"type:varchar(255);not null"`
	Role         Role      `json:"role"          gorm:"type:varchar(32);not null;check:role IN ('ADMIN','USER','IT_SPECIALIST','QUALITY_EVALUATOR')"`
	ChatPin      *string   `json:"-"             gorm:"type:char(4)"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// RequestFilters is the structured form of the request "filters" blob. The
// seven fields mirror the intake form; the column keeps the historical JSON
// shape so rows written by earlier versions still read back.
type RequestFilters struct {
	DiseaseArea  string `json:"diseaseArea,omitempty"`
	Intervention string `json:"intervention,omitempty"`
	Comparator   string `json:"comparator,omitempty"`
	Population   string `json:"population,omitempty"`
	TimeHorizon  string `json:"timeHorizon,omitempty"`
	Perspective  string `json:"perspective,omitempty"`
	ModelType    string `json:"modelType,omitempty"`
}

// Value serializes the filters as JSON for storage.
func (f RequestFilters) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan reads the stored JSON back. NULL and empty blobs scan as zero filters.
func (f *RequestFilters) Scan(src any) error {
	return scanJSON(src, f)
}

// Request is a user-submitted pharmacoeconomic modeling request tracked on
// the Kanban board.
type Request struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Title       string         `json:"title"       gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text;not null"`
	Status      RequestStatus  `json:"status"      gorm:"type:varchar(16);not null;default:'PENDING';index"`
	Priority    Priority       `json:"priority"    gorm:"type:varchar(16);not null;default:'MEDIUM'"`
	Filters     RequestFilters `json:"filters"     gorm:"type:text"`
	AdminNotes  *string        `json:"admin_notes" gorm:"type:text"`
	UserID      string         `json:"user_id"     gorm:"type:char(36);not null;index:idx_user_requests"`
	CreatedAt   time.Time      `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Request.
func (Request) TableName() string { return "requests" }

// scanJSON decodes a JSON column value (string, []byte, or NULL) into dst.
func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("domain: unsupported JSON column type")
	}
}
