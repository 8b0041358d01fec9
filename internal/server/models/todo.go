package models

import "time"

// Todo is a single todo item. UserID is the owning account, set at creation
// time and never reassigned.
type Todo struct {
	ID            string
	Title         string
	Description   string
	Done          bool
	UserID        string
	AttachmentKey string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
