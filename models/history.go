package models

// PostRecord is one row of post_history. Rows are written once when a
// draft is created and never touched again; EngagementCount exists for a
// future sync that was never built upstream.
type PostRecord struct {
	ID              int    `json:"id"`
	PostID          string `json:"post_id"`
	Content         string `json:"content"`
	ImageURL        string `json:"image_url"`
	LinkedInURL     string `json:"linkedin_url"`
	CreatedAt       int64  `json:"created_at"`
	EngagementCount int    `json:"engagement_count"`
	SourceType      string `json:"source_type"`
}

// CommentRecord is one row of comment_history, written once per
// successfully sent automated reply.
type CommentRecord struct {
	ID            int    `json:"id"`
	PostID        string `json:"post_id"`
	CommenterName string `json:"commenter_name"`
	CommentText   string `json:"comment_text"`
	ReplySent     string `json:"reply_sent"`
	CreatedAt     int64  `json:"created_at"`
}

// MessageRecord is one row of message_history, written once per
// successfully sent automated message. Context is the trigger context:
// "post_like", "comment", or "connection".
type MessageRecord struct {
	ID               int    `json:"id"`
	RecipientProfile string `json:"recipient_profile"`
	MessageText      string `json:"message_text"`
	Context          string `json:"context"`
	SentAt           int64  `json:"sent_at"`
}
