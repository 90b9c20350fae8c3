package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/belyf/users-contract-tests/logging"
	"github.com/belyf/users-contract-tests/servicedef"
)

const defaultTimeout = time.Second * 10

// Client talks to the users resource of either the live service or the mock. It sends the
// same headers the scenarios have always sent, so the two are interchangeable.
//
// The request methods return the raw Response for every status code, because the contract
// tests assert on failures as often as on successes. Only transport errors are returned as
// errors. The convenience methods CreateUser and CleanupAll treat unexpected statuses as
// errors.
type Client struct {
	baseURL      string
	apiKey       string
	resourcePath string
	httpClient   *http.Client
	logger       logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: timeout} }
}

// WithResourcePath changes the resource path, which defaults to /users.
func WithResourcePath(path string) Option {
	return func(c *Client) { c.resourcePath = path }
}

// WithLogger sets a logger that receives one line per request.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client. baseURL should not end with a slash.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		resourcePath: servicedef.DefaultResourcePath,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		logger:       logging.NullLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = logging.NullLogger()
	}
	return c
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// EqFilter builds an id filter selecting one record.
func EqFilter(id string) string { return "eq." + id }

// InFilter builds an id filter selecting several records.
func InFilter(ids []string) string { return "in.(" + strings.Join(ids, ",") + ")" }

// Ping requests the service root.
func (c *Client) Ping(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/", "", nil, servicedef.PreferRepresentation)
}

// List fetches users. An empty filter lists everything.
func (c *Client) List(ctx context.Context, filter string) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.resourcePath, filter, nil, servicedef.PreferRepresentation)
}

// Get fetches the user with the given id. The body is an empty array if there is none.
func (c *Client) Get(ctx context.Context, id string) (*Response, error) {
	return c.List(ctx, EqFilter(id))
}

// Create posts a new user.
func (c *Client) Create(ctx context.Context, params servicedef.UserParams) (*Response, error) {
	return c.CreateAt(ctx, c.resourcePath, params)
}

// CreateAt posts a new user to an arbitrary path, which lets tests target broken endpoints.
func (c *Client) CreateAt(ctx context.Context, path string, params servicedef.UserParams) (*Response, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, "", data, servicedef.PreferRepresentation)
}

// Update patches the user with the given id.
func (c *Client) Update(ctx context.Context, id string, params servicedef.UserParams) (*Response, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPatch, c.resourcePath, EqFilter(id), data, servicedef.PreferRepresentation)
}

// Delete removes the user with the given id.
func (c *Client) Delete(ctx context.Context, id string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, c.resourcePath, EqFilter(id), nil, servicedef.PreferRepresentation)
}

// DeleteIn removes every listed user, asking for a minimal response.
func (c *Client) DeleteIn(ctx context.Context, ids []string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, c.resourcePath, InFilter(ids), nil, servicedef.PreferMinimal)
}

// CreateUser creates a user and returns it as stored.
func (c *Client) CreateUser(ctx context.Context, params servicedef.UserParams) (servicedef.UserRecord, error) {
	resp, err := c.Create(ctx, params)
	if err != nil {
		return servicedef.UserRecord{}, err
	}
	if !resp.IsSuccess() {
		return servicedef.UserRecord{}, resp.StatusError()
	}
	return resp.FirstUser()
}

// CleanupAll deletes every user the service returns and reports the ids it removed.
func (c *Client) CleanupAll(ctx context.Context) ([]string, error) {
	resp, err := c.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, resp.StatusError()
	}
	users, err := resp.Users()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, u := range users {
		if strings.TrimSpace(u.ID) != "" {
			ids = append(ids, u.ID)
		}
	}
	if len(ids) == 0 {
		c.logger.Printf("No users found to delete during cleanup")
		return nil, nil
	}
	c.logger.Printf("Cleaning up users with IDs: %v", ids)
	resp, err = c.DeleteIn(ctx, ids)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusNoContent {
		return nil, fmt.Errorf("cleanup expected status 204: %w", resp.StatusError())
	}
	return ids, nil
}

func (c *Client) do(
	ctx context.Context,
	method, path, idFilter string,
	body []byte,
	prefer string,
) (*Response, error) {
	target := c.baseURL + path
	if idFilter != "" {
		target += "?" + url.Values{servicedef.IDParam: []string{idFilter}}.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set(servicedef.HeaderAPIKey, c.apiKey)
	req.Header.Set(servicedef.HeaderPrefer, prefer)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Printf("%s %s %s", method, target, string(body))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s %s: %w", method, target, err)
	}
	c.logger.Printf("Response %d: %s", resp.StatusCode, string(data))
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
