// Package neynar validates signed Farcaster frame actions through the
// Neynar API.
package neynar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the Neynar API root.
const DefaultBaseURL = "https://api.neynar.com"

// ErrInvalidMessage is returned when Neynar reports the message as not
// authentic.
var ErrInvalidMessage = errors.New("frame message failed validation")

// Client is a Neynar API client.
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

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(client *Client) {
		client.baseURL = baseURL
	}
}

// New creates a Neynar client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
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

// Action is the validated content of a frame interaction.
type Action struct {
	InteractorFID int64
	ButtonIndex   int
	InputText     string
}

type validateRequest struct {
	MessageBytesInHex string `json:"message_bytes_in_hex"`
}

type validateResponse struct {
	Valid  bool `json:"valid"`
	Action struct {
		Interactor struct {
			FID int64 `json:"fid"`
		} `json:"interactor"`
		TappedButton struct {
			Index int `json:"index"`
		} `json:"tapped_button"`
		Input struct {
			Text string `json:"text"`
		} `json:"input"`
	} `json:"action"`
}

// ValidateFrameAction checks the hex-encoded signed message of a frame
// action and returns its trusted content.
func (c *Client) ValidateFrameAction(ctx context.Context, messageBytesHex string) (*Action, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(validateRequest{MessageBytesInHex: messageBytesHex}); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/farcaster/frame/validate", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api_key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("neynar: HTTP %d", resp.StatusCode)
	}

	var out validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding neynar response: %w", err)
	}
	if !out.Valid {
		return nil, ErrInvalidMessage
	}

	return &Action{
		InteractorFID: out.Action.Interactor.FID,
		ButtonIndex:   out.Action.TappedButton.Index,
		InputText:     out.Action.Input.Text,
	}, nil
}
