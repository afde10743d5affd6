package domain

import "time"

// Feedback is a user satisfaction submission: ten 1-10 metric scores plus an
// optional free-text comment. Uniqueness per user is informal; reads take the
// most recent row.
type Feedback struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	UserID         string    `json:"user_id"         gorm:"type:char(36);not null;index:idx_user_feedback"`
	Usability      int       `json:"usability"       gorm:"not null"`
	Speed          int       `json:"speed"           gorm:"not null"`
	Reliability    int       `json:"reliability"     gorm:"not null"`
	Design         int       `json:"design"          gorm:"not null"`
	Navigation     int       `json:"navigation"      gorm:"not null"`
	Functionality  int       `json:"functionality"   gorm:"not null"`
	Support        int       `json:"support"         gorm:"not null"`
	Communication  int       `json:"communication"   gorm:"not null"`
	Satisfaction   int       `json:"satisfaction"    gorm:"not null"`
	Recommendation int       `json:"recommendation"  gorm:"not null"`
	Comment        *string   `json:"comment"         gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Feedback.
func (Feedback) TableName() string { return "feedback" }

// FeedbackMetricKeys lists the ten metric names in their canonical order.
// Analytics iterates this list so new metrics only need to be added here and
// in Metrics().
var FeedbackMetricKeys = []string{
	"usability", "speed", "reliability", "design", "navigation",
	"functionality", "support", "communication", "satisfaction", "recommendation",
}

// Metrics returns the ten scores keyed by metric name.
func (f Feedback) Metrics() map[string]int {
	return map[string]int{
		"usability":      f.Usability,
		"speed":          f.Speed,
		"reliability":    f.Reliability,
		"design":         f.Design,
		"navigation":     f.Navigation,
		"functionality":  f.Functionality,
		"support":        f.Support,
		"communication":  f.Communication,
		"satisfaction":   f.Satisfaction,
		"recommendation": f.Recommendation,
	}
}
