// Package client is a typed Go client for the personal hub JSON API. It
// keeps the session cookie in a jar, so a Login is enough to authenticate
// every later call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"personalhub/internal/backup"
	"personalhub/internal/models"
)

// APIError is a non-2xx response. Message is the server's "error" field,
// or the status text when the body carried none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// SessionCookie is the name of the server's session cookie.
const SessionCookie = "personal-hub-auth"

// Client talks to one server.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is
// added when it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute http or https", baseURL)
	}

	c := &Client{base: u, http: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// do sends body (JSON-encoded when non-nil) and decodes a 2xx response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.base
	u.Path += path
	u.RawQuery = query.Encode()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := http.StatusText(resp.StatusCode)
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

type message struct {
	Message string `json:"message"`
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// Login exchanges the shared password for a session cookie.
func (c *Client) Login(ctx context.Context, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/login", nil, map[string]string{"password": password}, nil)
}

// CheckSession returns nil while the server still accepts the client's
// session, and an *APIError with status 401 once it does not.
func (c *Client) CheckSession(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/auth/session", nil, nil, nil)
}

// SessionToken returns the session cookie value held for the server, or ""
// before a Login.
func (c *Client) SessionToken() string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == SessionCookie {
			return ck.Value
		}
	}
	return ""
}

// SetSessionToken resumes a session issued to an earlier client.
func (c *Client) SetSessionToken(token string) {
	c.http.Jar.SetCookies(c.base, []*http.Cookie{{Name: SessionCookie, Value: token, Path: "/"}})
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

// Categories lists every category in display order.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &out)
	return out, err
}

// CreateCategory adds a category at the end of the list.
func (c *Client) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	var out models.Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", nil, map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenameCategory replaces a category's name.
func (c *Client) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	var out models.Category
	body := map[string]string{"id": id.String(), "name": name}
	if err := c.do(ctx, http.MethodPut, "/api/categories", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory removes a category with its tags and sites.
func (c *Client) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/categories", nil, map[string]string{"id": id.String()}, &message{})
}

// ReorderCategories assigns position i to ids[i].
func (c *Client) ReorderCategories(ctx context.Context, ids []uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/api/categories/reorder", nil, map[string][]uuid.UUID{"categoryIds": ids}, &message{})
}

// Tags lists the tags of one category.
func (c *Client) Tags(ctx context.Context, categoryID uuid.UUID) ([]models.Tag, error) {
	var out []models.Tag
	q := url.Values{"categoryId": {categoryID.String()}}
	err := c.do(ctx, http.MethodGet, "/api/tags", q, nil, &out)
	return out, err
}

// AllTags lists every tag.
func (c *Client) AllTags(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	err := c.do(ctx, http.MethodGet, "/api/tags/all", nil, nil, &out)
	return out, err
}

// CreateTag adds a tag to a category.
func (c *Client) CreateTag(ctx context.Context, categoryID uuid.UUID, name string) (*models.Tag, error) {
	var out models.Tag
	body := map[string]string{"name": name, "category_id": categoryID.String()}
	if err := c.do(ctx, http.MethodPost, "/api/tags", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenameTag replaces a tag's name.
func (c *Client) RenameTag(ctx context.Context, id uuid.UUID, name string) (*models.Tag, error) {
	var out models.Tag
	body := map[string]string{"id": id.String(), "name": name}
	if err := c.do(ctx, http.MethodPut, "/api/tags", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTag removes a tag. Its sites remain, untagged.
func (c *Client) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/tags", nil, map[string]string{"id": id.String()}, &message{})
}

// ReorderTags assigns position i to ids[i].
func (c *Client) ReorderTags(ctx context.Context, ids []uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/api/tags/reorder", nil, map[string][]uuid.UUID{"tagIds": ids}, &message{})
}

// SiteInput holds the editable fields of a site.
type SiteInput struct {
	CategoryID  uuid.UUID  `json:"category_id"`
	TagID       *uuid.UUID `json:"tag_id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description *string    `json:"description,omitempty"`
	Icon        *string    `json:"icon,omitempty"`
}

// Sites lists sites, optionally narrowed to a category and tag.
func (c *Client) Sites(ctx context.Context, f models.SiteFilter) ([]models.Site, error) {
	q := url.Values{}
	if f.CategoryID != nil {
		q.Set("categoryId", f.CategoryID.String())
	}
	if f.TagID != nil {
		q.Set("tagId", f.TagID.String())
	}
	var out []models.Site
	err := c.do(ctx, http.MethodGet, "/api/sites", q, nil, &out)
	return out, err
}

// CreateSite adds a site. A tag is required.
func (c *Client) CreateSite(ctx context.Context, in SiteInput) (*models.Site, error) {
	var out models.Site
	if err := c.do(ctx, http.MethodPost, "/api/sites", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSite replaces every editable field of a site.
func (c *Client) UpdateSite(ctx context.Context, id uuid.UUID, in SiteInput) (*models.Site, error) {
	body := struct {
		ID uuid.UUID `json:"id"`
		SiteInput
	}{id, in}
	var out models.Site
	if err := c.do(ctx, http.MethodPut, "/api/sites", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSite removes a site.
func (c *Client) DeleteSite(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/sites", nil, map[string]string{"id": id.String()}, &message{})
}

// ReorderSites assigns position i to ids[i].
func (c *Client) ReorderSites(ctx context.Context, ids []uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/api/sites/reorder", nil, map[string][]uuid.UUID{"siteIds": ids}, &message{})
}

// Export downloads a snapshot of all data.
func (c *Client) Export(ctx context.Context) (*backup.Snapshot, error) {
	var out backup.Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/export", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Backup asks the server to upload a snapshot to object storage and
// returns the object key.
func (c *Client) Backup(ctx context.Context) (string, error) {
	var out struct {
		Key string `json:"key"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/backup", nil, nil, &out); err != nil {
		return "", err
	}
	return out.Key, nil
}

// LoadAll fetches categories, every tag and every site, ready for
// board.Board.Load.
func (c *Client) LoadAll(ctx context.Context) ([]models.Category, []models.Tag, []models.Site, error) {
	cats, err := c.Categories(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	tags, err := c.AllTags(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	sites, err := c.Sites(ctx, models.SiteFilter{})
	if err != nil {
		return nil, nil, nil, err
	}
	return cats, tags, sites, nil
}
