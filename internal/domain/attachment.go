package domain

import "time"

// Attachment is a file attached to a subtask. FileURL is an opaque blob
// reference (typically a base64 data URL) stored as given; the server never
// inspects the content beyond the size cap. UploadedBy records the uploader's
// role, not their identity: deletion rights are keyed on role match.
type Attachment struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	SubtaskID  string    `json:"subtask_id"  gorm:"type:char(36);not null;index:idx_subtask_attachments"`
	FileName   string    `json:"file_name"   gorm:"type:varchar(255);not null"`
	FileURL    string    `json:"file_url"    gorm:"type:text;not null"`
	FileSize   int64     `json:"file_size"   gorm:"not null"`
	FileType   string    `json:"file_type"   gorm:"type:varchar(128)"`
	UploadedBy Role      `json:"uploaded_by" gorm:"type:varchar(32);not null"`
	CreatedAt  time.Time `json:"created_at"`

	Subtask Subtask `json:"-" gorm:"foreignKey:SubtaskID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Attachment.
func (Attachment) TableName() string { return "attachments" }

// AttachmentComment is a threaded comment on an attachment. Authorship is
// recorded as (role, display name); edit and delete require both to match
// the requester's session.
type AttachmentComment struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	AttachmentID string    `json:"attachment_id" gorm:"type:char(36);not null;index:idx_attachment_comments"`
	Comment      string    `json:"comment"       gorm:"type:text;not null"`
	AuthorRole   Role      `json:"author_role"   gorm:"type:varchar(32);not null"`
	AuthorName   string    `json:"author_name"   gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Attachment Attachment `json:"-" gorm:"foreignKey:AttachmentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for AttachmentComment.
func (AttachmentComment) TableName() string { return "attachment_comments" }
