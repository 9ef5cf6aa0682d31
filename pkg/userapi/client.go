// Package userapi is a thin client for the users REST resource the profile
// form submits to.
package userapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// User is the wire shape of the users resource. ID is assigned by the
// backend on creation.
type User struct {
	ID               string   `json:"id,omitempty"`
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	BirthDate        string   `json:"birthDate"`
	Framework        string   `json:"framework"`
	FrameworkVersion string   `json:"frameworkVersion"`
	Email            string   `json:"email"`
	Hobbies          []string `json:"hobbies"`
}

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("userapi: unexpected status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("userapi: unexpected status %d", e.Code)
}

const (
	defaultUsersPath = "/users"
	defaultTimeout   = 10 * time.Second
)

// Client issues requests against a users backend.
type Client struct {
	base      *url.URL
	http      *http.Client
	usersPath string
}

// Option customises the client.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client (proxies, instrumentation).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout caps request durations when no custom client is supplied.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.http != nil {
			c.http.Timeout = timeout
		}
	}
}

// WithUsersPath overrides the users resource path.
func WithUsersPath(path string) Option {
	return func(c *Client) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		c.usersPath = path
	}
}

// New constructs a Client for the given base URL.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("userapi: base url is required")
	}
	base, err := url.Parse(strings.TrimRight(trimmed, "/"))
	if err != nil {
		return nil, fmt.Errorf("userapi: parse base url: %w", err)
	}

	c := &Client{
		base:      base,
		http:      &http.Client{Timeout: defaultTimeout},
		usersPath: defaultUsersPath,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// AddUser creates a user via POST and returns the backend's record. Transport
// and server errors propagate to the caller unmodified; no retry is
// attempted.
func (c *Client) AddUser(ctx context.Context, user User) (User, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return User{}, fmt.Errorf("userapi: encode user: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.usersURL(nil), bytes.NewReader(payload))
	if err != nil {
		return User{}, fmt.Errorf("userapi: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return User{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return User{}, &StatusError{Code: resp.StatusCode}
	}

	var created User
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return User{}, fmt.Errorf("userapi: decode created user: %w", err)
	}
	return created, nil
}

// EmailExists reports whether the backend already has a user with the given
// email. It reflects server state at check time only; a race with a later
// submission is possible and accepted.
func (c *Client) EmailExists(ctx context.Context, email string) (bool, error) {
	query := url.Values{"email": []string{email}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.usersURL(query), nil)
	if err != nil {
		return false, fmt.Errorf("userapi: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, &StatusError{Code: resp.StatusCode}
	}

	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return false, fmt.Errorf("userapi: decode users: %w", err)
	}
	return len(users) > 0, nil
}

func (c *Client) usersURL(query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + c.usersPath
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
