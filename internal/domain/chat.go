package domain

import "time"

// RoomType distinguishes the single shared employee room from the per-user
// admin rooms.
type RoomType string

const (
	// RoomEmployee is the staff-wide room. Exactly one exists; it is seeded
	// at startup and visible to every role except USER.
	RoomEmployee RoomType = "EMPLOYEE"
	// RoomAdminUser is a private room pairing one USER with the admins.
	// Created lazily the first time that user lists their rooms.
	RoomAdminUser RoomType = "ADMIN_USER"
)

// ChatRoom is a PIN-gated message room. UserID is set only for ADMIN_USER
// rooms and identifies the paired user.
type ChatRoom struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null"`
	Type      RoomType  `json:"type"       gorm:"type:varchar(16);not null;check:type IN ('EMPLOYEE','ADMIN_USER')"`
	Pin       string    `json:"-"          gorm:"type:char(4);not null"`
	UserID    *string   `json:"user_id"    gorm:"type:char(36);uniqueIndex:ux_room_user"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for ChatRoom.
func (ChatRoom) TableName() string { return "chat_rooms" }

// ChatAccess is the persisted PIN lockout record for one (user, room) pair.
// It survives logins: reloading the client does not clear a block. Attempts
// counts consecutive failures since the last success or block; BlockedUntil,
// when set and in the future, rejects every attempt regardless of the PIN.
type ChatAccess struct {
	ID            string     `json:"id"              gorm:"type:char(36);primaryKey"`
	UserID        string     `json:"user_id"         gorm:"type:char(36);not null;uniqueIndex:ux_access_user_room,priority:1"`
	RoomID        string     `json:"room_id"         gorm:"type:char(36);not null;uniqueIndex:ux_access_user_room,priority:2"`
	Attempts      int        `json:"attempts"        gorm:"not null;default:0"`
	BlockedUntil  *time.Time `json:"blocked_until"`
	LastAttemptAt *time.Time `json:"last_attempt_at"`
}

// TableName returns the database table name for ChatAccess.
func (ChatAccess) TableName() string { return "chat_access" }

// ChatMessage is a single room message. Messages are immutable once written;
// retrieval returns at most the latest 100 per room in chronological order.
type ChatMessage struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null"`
	RoomID    string    `json:"room_id"    gorm:"type:char(36);not null;index:idx_room_msgs,priority:1"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_room_msgs,priority:2"`

	User User     `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Room ChatRoom `json:"-" gorm:"foreignKey:RoomID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }
