package domain

import "time"

// TaskStatus is the lifecycle state of an IT specialist task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

// ValidTaskStatus reports whether s is one of the three task statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// Task is an IT specialist work item. Progress is derived from subtask
// completion and never settable by callers; it is recomputed and persisted
// together with every subtask mutation.
type Task struct {
	ID          string     `json:"id"          gorm:"type:char(36);primaryKey"`
	Title       string     `json:"title"       gorm:"type:varchar(255);not null"`
	Description string     `json:"description" gorm:"type:text"`
	Status      TaskStatus `json:"status"      gorm:"type:varchar(16);not null;default:'TODO'"`
	Priority    Priority   `json:"priority"    gorm:"type:varchar(16);not null;default:'MEDIUM'"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	Progress    int        `json:"progress"    gorm:"not null;default:0"`
	Color       string     `json:"color"       gorm:"type:varchar(32)"`
	UserID      string     `json:"user_id"     gorm:"type:char(36);not null;index:idx_user_tasks"`
	CreatedAt   time.Time  `json:"created_at"`

	Subtasks []Subtask `json:"subtasks,omitempty" gorm:"foreignKey:TaskID"`
	User     User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Task.
func (Task) TableName() string { return "tasks" }

// Subtask is a checklist item under a task. CompletedAt is set exactly when
// Completed flips to true and cleared when it flips back. Order is the
// insertion position within the parent task.
type Subtask struct {
	ID          string     `json:"id"           gorm:"type:char(36);primaryKey"`
	Title       string     `json:"title"        gorm:"type:varchar(255);not null"`
	Completed   bool       `json:"completed"    gorm:"not null;default:false"`
	CompletedAt *time.Time `json:"completed_at"`
	Order       int        `json:"order"        gorm:"column:position;not null;default:0"`
	TaskID      string     `json:"task_id"      gorm:"type:char(36);not null;index:idx_task_subtasks"`
	CreatedAt   time.Time  `json:"created_at"`

	// Task is the parent work item. Subtasks are cascade-deleted with it.
	Task Task `json:"-" gorm:"foreignKey:TaskID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Subtask.
func (Subtask) TableName() string { return "subtasks" }
