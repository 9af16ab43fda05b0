// Package client is the HTTP client for the eventreel API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/eventreel/pkg/catalog"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
)

// DefaultTimeout bounds each request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Is lets errors.Is(err, catalog.ErrNotFound) hold for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == catalog.ErrNotFound && e.Status == http.StatusNotFound
}

// Client talks to one API base URL.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for baseURL, e.g. "http://127.0.0.1:5000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{base: u, http: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Events lists events, optionally filtered. Category All (or "") and an
// empty search are omitted from the query.
func (c *Client) Events(ctx context.Context, category gallery.Category, search string) ([]gallery.Event, error) {
	q := url.Values{}
	if category != "" && category != gallery.All {
		q.Set("category", string(category))
	}
	if s := strings.TrimSpace(search); s != "" {
		q.Set("search", s)
	}
	var out []gallery.Event
	err := c.get(ctx, "/api/events", q, &out)
	return out, err
}

// Featured lists featured events.
func (c *Client) Featured(ctx context.Context) ([]gallery.Event, error) {
	var out []gallery.Event
	err := c.get(ctx, "/api/events/featured", nil, &out)
	return out, err
}

// Event fetches one event without photos.
func (c *Client) Event(ctx context.Context, id int) (gallery.Event, error) {
	var out gallery.Event
	err := c.get(ctx, "/api/events/"+strconv.Itoa(id), nil, &out)
	return out, err
}

// Photos fetches the photos of one event.
func (c *Client) Photos(ctx context.Context, id int) ([]gallery.Photo, error) {
	var out []gallery.Photo
	err := c.get(ctx, "/api/events/"+strconv.Itoa(id)+"/photos", nil, &out)
	return out, err
}

// EventWithPhotos fetches an event and attaches its photos.
func (c *Client) EventWithPhotos(ctx context.Context, id int) (gallery.Event, error) {
	ev, err := c.Event(ctx, id)
	if err != nil {
		return gallery.Event{}, err
	}
	photos, err := c.Photos(ctx, id)
	if err != nil {
		return gallery.Event{}, err
	}
	ev.Photos = photos
	return ev, nil
}

// Categories lists category names, All first.
func (c *Client) Categories(ctx context.Context) ([]gallery.Category, error) {
	var out []gallery.Category
	err := c.get(ctx, "/api/categories", nil, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Message = eb.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return errors.Is(err, catalog.ErrNotFound)
}
