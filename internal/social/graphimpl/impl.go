package graphimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/orgball2608/vehicle-listing-feed/internal/social"
	"github.com/orgball2608/vehicle-listing-feed/pkg/config"
	"github.com/orgball2608/vehicle-listing-feed/pkg/errors"
	"github.com/orgball2608/vehicle-listing-feed/pkg/logger"
	"github.com/orgball2608/vehicle-listing-feed/pkg/retry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

// Graph timestamps look like 2024-03-01T10:00:00+0000.
const graphTimeLayout = "2006-01-02T15:04:05-0700"

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// Client is a minimal Graph API client shared by the Facebook and Instagram
// sources. It paces requests, retries transient failures and follows paging.
type Client struct {
	http     *http.Client
	baseURL  string
	version  string
	token    string
	pageSize int
	maxPages int
	limiter  *rate.Limiter
	retry    retry.Config
	logger   logger.Logger
}

func New(opts Opts) *Client {
	cfg := opts.Config.Graph

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		version:  strings.Trim(cfg.Version, "/"),
		token:    cfg.AccessToken,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		limiter:  rate.NewLimiter(limit, 1),
		retry:    retry.DefaultConfig(),
		logger:   opts.Logger.WithComponent("GraphClient"),
	}
}

// NewSources returns a source for every account configured.
func NewSources(opts Opts) []social.Source {
	client := New(opts)

	var sources []social.Source
	if id := opts.Config.Graph.PageID; id != "" {
		sources = append(sources, NewFacebookSource(client, id))
	}
	if id := opts.Config.Graph.InstagramAccountID; id != "" {
		sources = append(sources, NewInstagramSource(client, id))
	}
	if len(sources) == 0 {
		opts.Logger.Warn("No social accounts configured, social listings will use the fallback set")
	}
	return sources
}

type paging struct {
	Next string `json:"next"`
}

type graphError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// StatusError is returned for non-2xx Graph responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("graph api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("graph api returned status %d: %s", e.StatusCode, e.Message)
}

func (c *Client) endpoint(node, edge string, fields string) string {
	parts := []string{c.baseURL}
	if c.version != "" {
		parts = append(parts, c.version)
	}
	parts = append(parts, url.PathEscape(node), edge)

	q := url.Values{}
	q.Set("fields", fields)
	if c.pageSize > 0 {
		q.Set("limit", fmt.Sprint(c.pageSize))
	}
	return strings.Join(parts, "/") + "?" + q.Encode()
}

// fetchPages walks the paging.next chain starting at first, calling decode
// for each page body. decode returns the next page URL.
func (c *Client) fetchPages(ctx context.Context, name, first string, decode func([]byte) (string, error)) error {
	next := first
	for page := 0; next != ""; page++ {
		if c.maxPages > 0 && page >= c.maxPages {
			c.logger.Debug("Stopping at page limit", "source", name, "pages", page)
			break
		}

		body, err := c.get(ctx, name, next)
		if err != nil {
			return errors.Upstream(err, fmt.Sprintf("failed to fetch %s posts", name))
		}

		next, err = decode(body)
		if err != nil {
			return errors.Upstream(fmt.Errorf("decode page %d: %w", page+1, err), fmt.Sprintf("failed to fetch %s posts", name))
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, name, rawURL string) ([]byte, error) {
	// paging.next links embed the access token; the bearer header already
	// carries it and request errors quote the URL.
	rawURL = stripToken(rawURL)

	var body []byte
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return retry.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			err = redactURLError(err)
			if ctx.Err() != nil {
				return retry.Permanent(err)
			}
			return err
		}
		defer safeClose(resp.Body, c.logger)

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := &StatusError{StatusCode: resp.StatusCode, Message: graphErrorMessage(data)}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return statusErr
			}
			return retry.Permanent(statusErr)
		}

		body = data
		return nil
	}

	if err := retry.Do(ctx, c.logger, name+" GET", operation, c.retry); err != nil {
		return nil, err
	}
	return body, nil
}

func stripToken(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if !q.Has("access_token") {
		return rawURL
	}
	q.Del("access_token")
	u.RawQuery = q.Encode()
	return u.String()
}

// redactURLError drops the query string from transport errors.
func redactURLError(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	if u, perr := url.Parse(ue.URL); perr == nil {
		u.RawQuery = ""
		return &url.Error{Op: ue.Op, URL: u.String(), Err: ue.Err}
	}
	return &url.Error{Op: ue.Op, URL: "<redacted>", Err: ue.Err}
}

func graphErrorMessage(body []byte) string {
	var ge graphError
	if err := json.Unmarshal(body, &ge); err != nil || ge.Error.Message == "" {
		return ""
	}
	if ge.Error.Type != "" {
		return fmt.Sprintf("%s (%s, code %d)", ge.Error.Message, ge.Error.Type, ge.Error.Code)
	}
	return ge.Error.Message
}

// parseTime returns the zero time for values the API did not send or that
// do not parse.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{graphTimeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func safeClose(closer io.ReadCloser, log logger.Logger) {
	if err := closer.Close(); err != nil {
		log.Error("Error closing response body", "error", err)
	}
}
