package domain

import "time"

// Post sources.
const (
	SourceFacebook  = "facebook"
	SourceInstagram = "instagram"
)

// RawPost is a social-media post as returned by the Graph API, before any
// listing extraction. It is never modified after fetching.
type RawPost struct {
	ID          string
	Source      string
	CreatedTime time.Time
	// Message is the post text. HasMessage is false when the API omitted it.
	Message     string
	HasMessage  bool
	Attachments []Attachment
	// FullPicture is the post-level picture Facebook returns next to attachments.
	FullPicture string
	// Permalink is set only by sources that return one (Instagram).
	Permalink string
}

// Attachment holds the image URLs of one post attachment, sub-attachments
// already flattened in order.
type Attachment struct {
	Images []string
}
