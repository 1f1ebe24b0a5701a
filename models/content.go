package models

// GeneratedPost is the LLM's answer to a post-generation request, after
// JSON parsing (or the heuristic fallback when the model ignores the
// format instructions).
type GeneratedPost struct {
	Content          string   `json:"post_content"`
	Hashtags         []string `json:"hashtags"`
	ImageDescription string   `json:"image_description"`
}

// GeneratedImage points at both copies of a generated image: the hosted
// URL returned by the image API and the local file it was downloaded to.
type GeneratedImage struct {
	LocalPath string `json:"image_path"`
	RemoteURL string `json:"image_url"`
}

// Comment is a comment scraped off a post. The extraction path is a
// placeholder upstream, so these currently only arrive via request bodies.
type Comment struct {
	CommenterName string `json:"commenter_name"`
	Text          string `json:"text"`
}

// Liker identifies someone who reacted to a post.
type Liker struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
}

// CommentReply pairs an original comment with the reply to send.
type CommentReply struct {
	CommenterName string `json:"commenter_name"`
	CommentText   string `json:"comment_text"`
	ReplyText     string `json:"reply_text"`
}
