package graphimpl

import (
	"context"
	"encoding/json"

	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/orgball2608/vehicle-listing-feed/internal/social"
	"github.com/samber/lo"
)

const facebookPostFields = "id,created_time,message,full_picture,attachments{media,subattachments}"

type fbPostsPage struct {
	Data   []fbPost `json:"data"`
	Paging paging   `json:"paging"`
}

type fbPost struct {
	ID          string  `json:"id"`
	CreatedTime string  `json:"created_time"`
	Message     *string `json:"message"`
	FullPicture string  `json:"full_picture"`
	Attachments struct {
		Data []fbAttachment `json:"data"`
	} `json:"attachments"`
}

type fbAttachment struct {
	Media *struct {
		Image struct {
			Src string `json:"src"`
		} `json:"image"`
	} `json:"media"`
	Subattachments struct {
		Data []fbAttachment `json:"data"`
	} `json:"subattachments"`
}

// images returns the attachment's own image followed by its sub-attachments'.
func (a fbAttachment) images() []string {
	var out []string
	if a.Media != nil && a.Media.Image.Src != "" {
		out = append(out, a.Media.Image.Src)
	}
	for _, sub := range a.Subattachments.Data {
		out = append(out, sub.images()...)
	}
	return out
}

type FacebookSource struct {
	client *Client
	pageID string
}

var _ social.Source = (*FacebookSource)(nil)

func NewFacebookSource(client *Client, pageID string) *FacebookSource {
	return &FacebookSource{client: client, pageID: pageID}
}

func (s *FacebookSource) Name() string {
	return domain.SourceFacebook
}

// FetchPosts returns the page's latest posts, newest first, across at most
// the configured number of pages.
func (s *FacebookSource) FetchPosts(ctx context.Context) ([]domain.RawPost, error) {
	var posts []domain.RawPost

	first := s.client.endpoint(s.pageID, "posts", facebookPostFields)
	err := s.client.fetchPages(ctx, s.Name(), first, func(body []byte) (string, error) {
		var page fbPostsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return "", err
		}
		posts = append(posts, lo.Map(page.Data, func(p fbPost, _ int) domain.RawPost {
			return p.toRawPost()
		})...)
		return page.Paging.Next, nil
	})
	if err != nil {
		return nil, err
	}

	s.client.logger.Debug("Fetched posts", "source", s.Name(), "count", len(posts))
	return posts, nil
}

func (p fbPost) toRawPost() domain.RawPost {
	post := domain.RawPost{
		ID:          p.ID,
		Source:      domain.SourceFacebook,
		CreatedTime: parseTime(p.CreatedTime),
		FullPicture: p.FullPicture,
	}
	if p.Message != nil {
		post.Message = *p.Message
		post.HasMessage = true
	}
	post.Attachments = lo.Map(p.Attachments.Data, func(a fbAttachment, _ int) domain.Attachment {
		return domain.Attachment{Images: a.images()}
	})
	return post
}
