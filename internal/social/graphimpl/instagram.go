package graphimpl

import (
	"context"
	"encoding/json"

	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/orgball2608/vehicle-listing-feed/internal/social"
	"github.com/samber/lo"
)

const (
	instagramMediaFields = "id,caption,media_type,media_url,thumbnail_url,permalink,timestamp," +
		"children{media_type,media_url,thumbnail_url}"

	mediaTypeVideo = "VIDEO"
)

type igMediaPage struct {
	Data   []igMedia `json:"data"`
	Paging paging    `json:"paging"`
}

type igMedia struct {
	ID           string  `json:"id"`
	Caption      *string `json:"caption"`
	MediaType    string  `json:"media_type"`
	MediaURL     string  `json:"media_url"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Permalink    string  `json:"permalink"`
	Timestamp    string  `json:"timestamp"`
	Children     struct {
		Data []igMedia `json:"data"`
	} `json:"children"`
}

// image is the still picture for the media; videos use their thumbnail.
func (m igMedia) image() string {
	if m.MediaType == mediaTypeVideo {
		return m.ThumbnailURL
	}
	return m.MediaURL
}

type InstagramSource struct {
	client    *Client
	accountID string
}

var _ social.Source = (*InstagramSource)(nil)

func NewInstagramSource(client *Client, accountID string) *InstagramSource {
	return &InstagramSource{client: client, accountID: accountID}
}

func (s *InstagramSource) Name() string {
	return domain.SourceInstagram
}

func (s *InstagramSource) FetchPosts(ctx context.Context) ([]domain.RawPost, error) {
	var posts []domain.RawPost

	first := s.client.endpoint(s.accountID, "media", instagramMediaFields)
	err := s.client.fetchPages(ctx, s.Name(), first, func(body []byte) (string, error) {
		var page igMediaPage
		if err := json.Unmarshal(body, &page); err != nil {
			return "", err
		}
		posts = append(posts, lo.Map(page.Data, func(m igMedia, _ int) domain.RawPost {
			return m.toRawPost()
		})...)
		return page.Paging.Next, nil
	})
	if err != nil {
		return nil, err
	}

	s.client.logger.Debug("Fetched posts", "source", s.Name(), "count", len(posts))
	return posts, nil
}

func (m igMedia) toRawPost() domain.RawPost {
	post := domain.RawPost{
		ID:          m.ID,
		Source:      domain.SourceInstagram,
		CreatedTime: parseTime(m.Timestamp),
		Permalink:   m.Permalink,
	}
	if m.Caption != nil {
		post.Message = *m.Caption
		post.HasMessage = true
	}

	var images []string
	if len(m.Children.Data) > 0 {
		images = lo.FilterMap(m.Children.Data, func(c igMedia, _ int) (string, bool) {
			src := c.image()
			return src, src != ""
		})
	} else if src := m.image(); src != "" {
		images = []string{src}
	}
	if len(images) > 0 {
		post.Attachments = []domain.Attachment{{Images: images}}
	}
	return post
}
