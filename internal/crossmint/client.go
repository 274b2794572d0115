// Package crossmint is a client for the Crossmint minting API.
package crossmint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pendergraft/framemint/internal/failure"
	"github.com/pendergraft/framemint/internal/mint"
)

// APIVersion is the dated Crossmint API version used in request paths.
const APIVersion = "2022-06-09"

// Client is a Crossmint API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithBaseURL overrides the API base URL derived from the environment.
func WithBaseURL(baseURL string) Option {
	return func(client *Client) {
		client.baseURL = baseURL
	}
}

// BaseURL returns the API root for a Crossmint environment ("staging" or
// "www").
func BaseURL(env string) string {
	return fmt.Sprintf("https://%s.crossmint.com/api/%s", env, APIVersion)
}

// New creates a client for the given Crossmint environment.
func New(env, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: BaseURL(env),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a non-2xx response that did not carry a mint failure.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("crossmint: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("crossmint: HTTP %d: %s", e.StatusCode, e.Message)
}

// mintResponse is the union of the success and failure bodies of the mint
// endpoint.
type mintResponse struct {
	Error    bool        `json:"error"`
	Message  string      `json:"message"`
	ActionID string      `json:"actionId"`
	Data     mint.TxData `json:"data"`
}

// Mint submits a mint request. A response flagged with "error": true is
// returned as a Minting-kind error carrying Crossmint's message.
func (c *Client) Mint(ctx context.Context, req mint.Request) (*mint.Receipt, error) {
	path := fmt.Sprintf("/collections/%s/nfts", url.PathEscape(req.CollectionID))

	var resp mintResponse
	status, err := c.post(ctx, path, req, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Error {
		return nil, failure.Mintingf("%s", resp.Message)
	}
	if status >= 400 {
		return nil, &APIError{StatusCode: status, Message: resp.Message}
	}

	return &mint.Receipt{ActionID: resp.ActionID, Data: resp.Data}, nil
}

// GetAction fetches the current state of a mint action.
func (c *Client) GetAction(ctx context.Context, actionID string) (*mint.Action, error) {
	path := "/actions/" + url.PathEscape(actionID)

	var resp struct {
		mint.Action
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	status, err := c.get(ctx, path, &resp)
	if err != nil {
		return nil, err
	}
	if status >= 400 || resp.Error {
		return nil, &APIError{StatusCode: status, Message: resp.Message}
	}

	action := resp.Action
	if action.ActionID == "" {
		action.ActionID = actionID
	}
	return &action, nil
}

func (c *Client) get(ctx context.Context, path string, result any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}

	return c.do(req, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) (int, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do sends req and decodes the JSON body into result whatever the status,
// since Crossmint reports failures in the body.
func (c *Client) do(req *http.Request, result any) (int, error) {
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if err := json.Unmarshal(body, result); err != nil {
		if resp.StatusCode >= 400 {
			return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		}
		return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}

	return resp.StatusCode, nil
}
