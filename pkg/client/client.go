// Package client is a small Go client for the SquadUp HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("squadup: %d %s", e.StatusCode, e.Message)
}

// Client talks to one SquadUp server. It is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithToken sends the bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetGroups lists groups matching f.
func (c *Client) GetGroups(ctx context.Context, f GroupFilters) ([]Group, error) {
	var out []Group
	if err := c.do(ctx, http.MethodGet, "/groups", f.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetGroup(ctx context.Context, id string) (*Group, error) {
	var out Group
	if err := c.do(ctx, http.MethodGet, "/groups/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateGroup requires a token.
func (c *Client) CreateGroup(ctx context.Context, in CreateGroupRequest) (*Group, error) {
	var out Group
	if err := c.do(ctx, http.MethodPost, "/groups", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinGroup returns the server's confirmation message.
func (c *Client) JoinGroup(ctx context.Context, id string) (string, error) {
	return c.message(ctx, http.MethodPost, "/groups/"+url.PathEscape(id)+"/join")
}

func (c *Client) LeaveGroup(ctx context.Context, id string) (string, error) {
	return c.message(ctx, http.MethodPost, "/groups/"+url.PathEscape(id)+"/leave")
}

func (c *Client) DeleteGroup(ctx context.Context, id string) (string, error) {
	return c.message(ctx, http.MethodDelete, "/groups/"+url.PathEscape(id))
}

func (c *Client) GetGames(ctx context.Context) ([]Game, error) {
	var out []Game
	if err := c.do(ctx, http.MethodGet, "/games", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetGame(ctx context.Context, id string) (*Game, error) {
	var out Game
	if err := c.do(ctx, http.MethodGet, "/games/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) message(ctx context.Context, method, path string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, method, path, nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// newAPIError reads the "error" field of the body, falling back to the status text.
func newAPIError(status int, body []byte) *APIError {
	msg := ""
	if gjson.ValidBytes(body) {
		msg = gjson.GetBytes(body, "error").String()
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}

func (f GroupFilters) values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("gameId", f.GameID)
	set("gameModeId", f.GameModeID)
	set("platform", f.Platform)
	set("region", f.Region)
	set("status", f.Status)
	set("search", f.Search)
	set("sortBy", f.SortBy)
	set("sortOrder", f.SortOrder)
	if f.IsPublic != nil {
		v.Set("isPublic", strconv.FormatBool(*f.IsPublic))
	}
	if f.PriorityOnly {
		v.Set("priorityOnly", "true")
	}
	if f.ScheduledAfter != nil {
		v.Set("scheduledAfter", f.ScheduledAfter.UTC().Format(time.RFC3339))
	}
	if f.ScheduledBefore != nil {
		v.Set("scheduledBefore", f.ScheduledBefore.UTC().Format(time.RFC3339))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		v.Set("offset", strconv.Itoa(f.Offset))
	}
	return v
}
