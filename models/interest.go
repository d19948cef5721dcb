package models

import "time"

// FeedItem is one entry of the interests feed.
type FeedItem struct {
	ThreadID int64 `json:"thread_id"`
	RoleID   int64 `json:"role_id"`
}

// Interest is a tracked thread, the role to notify about activity in it
// and when that role was last notified. A nil LastNotifiedAt means the
// role was never notified.
type Interest struct {
	ThreadID       int64
	RoleID         int64
	LastNotifiedAt *time.Time
}
