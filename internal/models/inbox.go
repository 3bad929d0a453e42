package models

// Inbox represents a disposable mailbox with a fixed time-to-live.
// The ID doubles as the read-access token: anyone holding it can list
// and fetch the inbox's messages.
type Inbox struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	Address   string `gorm:"uniqueIndex;not null;size:255" json:"address"`
	CreatedAt int64  `gorm:"not null" json:"createdAt"`
	ExpiresAt int64  `gorm:"not null;index" json:"expiresAt"`
}

// TableName returns the table name for Inbox
func (Inbox) TableName() string {
	return "inboxes"
}

// Live reports whether the inbox is still readable at the given unix time.
// Liveness is always derived from ExpiresAt, never stored.
func (i *Inbox) Live(now int64) bool {
	return i.ExpiresAt > now
}
