package github

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/matzehuels/rustprint/pkg/buildinfo"
	"github.com/matzehuels/rustprint/pkg/cache"
	"github.com/matzehuels/rustprint/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// MaxPerPage is the largest page size GitHub accepts for list endpoints.
const MaxPerPage = 100

// Client provides access to the GitHub REST API.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
// Responses are cached in backend for ttl; a nil backend disables caching.
func NewClient(backend cache.Cache, token string, ttl time.Duration) *Client {
	headers := map[string]string{
		"Accept":     "application/vnd.github+json",
		"User-Agent": buildinfo.UserAgent(),
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:  integrations.NewClient(backend, "github", ttl, headers),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at a different API host, such as a GitHub
// Enterprise instance or a test server.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// ListTags fetches one page of tags for owner/repo. Pages start at 1; an
// empty slice means the listing is exhausted. If refresh is true, cached
// pages are bypassed.
func (c *Client) ListTags(ctx context.Context, owner, repo string, page, perPage int, refresh bool) ([]Tag, error) {
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	key := "tags:" + owner + "/" + repo + ":" + strconv.Itoa(page)
	if perPage != MaxPerPage {
		key += ":" + strconv.Itoa(perPage)
	}

	var tags []Tag
	err := c.Cached(ctx, key, refresh, &tags, func() error {
		tags = nil
		url := fmt.Sprintf("%s/repos/%s/%s/tags?per_page=%d&page=%d", c.baseURL, owner, repo, perPage, page)
		return c.Get(ctx, url, &tags)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return nil, fmt.Errorf("list tags %s/%s page %d: %w", owner, repo, page, err)
	}
	if tags == nil {
		tags = []Tag{}
	}
	return tags, nil
}

// AllTags walks every tag page of owner/repo, starting at page 1 and stopping
// at the first empty page. Any failed page aborts the walk.
func (c *Client) AllTags(ctx context.Context, owner, repo string, refresh bool) ([]Tag, error) {
	var all []Tag
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tags, err := c.ListTags(ctx, owner, repo, page, MaxPerPage, refresh)
		if err != nil {
			return nil, err
		}
		if len(tags) == 0 {
			return all, nil
		}
		all = append(all, tags...)
	}
}
