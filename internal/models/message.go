package models

// Message represents an email message stored in an inbox. Messages are
// append-only: they are created by the ingestion pipeline and removed only
// when their inbox expires.
type Message struct {
	ID       string `gorm:"primaryKey;size:64" json:"id"`
	InboxID  string `gorm:"index;not null;size:64" json:"inboxId"`
	// DedupKey collapses retried deliveries of the same message into one row.
	DedupKey   string `gorm:"uniqueIndex;not null;size:64" json:"-"`
	MailFrom   string `gorm:"size:255" json:"mailFrom"`
	RcptTo     string `gorm:"size:255" json:"rcptTo"`
	Subject    string `gorm:"size:500" json:"subject"`
	ReceivedAt int64  `gorm:"not null;index" json:"receivedAt"`
	TextBody   string `json:"textBody"`
	HTMLBody   string `json:"htmlBody"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// MessageListItem is a lightweight version for list views
type MessageListItem struct {
	ID         string `json:"id"`
	MailFrom   string `json:"mailFrom"`
	Subject    string `json:"subject"`
	ReceivedAt int64  `json:"receivedAt"`
}
