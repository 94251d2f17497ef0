// Package soundtrack drives sound zones through the Soundtrack Your Brand GraphQL API.
package soundtrack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/scheduler"
)

const (
	DefaultAPIURL     = "https://api.soundtrackyourbrand.com/v2"
	DefaultRatePerSec = 5
)

// APIError is a non-2xx reply or a GraphQL errors list.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("soundtrack API error (%d): %s", e.StatusCode, strings.Join(e.Messages, "; "))
	}
	return "GraphQL error: " + strings.Join(e.Messages, "; ")
}

type Config struct {
	URL        string
	Token      string
	RatePerSec float64
	Timeout    time.Duration
}

type Client struct {
	url     string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

var _ scheduler.PlaybackControl = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultAPIURL
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = DefaultRatePerSec
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		url:     cfg.URL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
	}
}

// Execute runs one playback command against a sound zone.
func (c *Client) Execute(ctx context.Context, cmd model.PlaybackCommand) error {
	switch cmd.Kind {
	case model.CommandPause:
		return c.Pause(ctx, cmd.ZoneID)
	case model.CommandPlay:
		return c.Play(ctx, cmd.ZoneID)
	case model.CommandAssignSource:
		return c.AssignSource(ctx, cmd.ZoneID, cmd.SourceID)
	}
	return fmt.Errorf("unsupported playback command %q", cmd.Kind)
}

func (c *Client) Play(ctx context.Context, zoneID string) error {
	return c.Do(ctx, playMutation, map[string]any{"soundZone": zoneID}, nil)
}

func (c *Client) Pause(ctx context.Context, zoneID string) error {
	return c.Do(ctx, pauseMutation, map[string]any{"soundZone": zoneID}, nil)
}

func (c *Client) AssignSource(ctx context.Context, zoneID, sourceID string) error {
	if sourceID == "" {
		return errors.New("assign source: empty source id")
	}
	return c.Do(ctx, assignSourceMutation, map[string]any{"zoneId": zoneID, "sourceId": sourceID}, nil)
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Do posts a GraphQL operation and decodes data into out when out is non-nil.
func (c *Client) Do(ctx context.Context, query string, vars map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	b, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Messages: []string{strings.TrimSpace(string(body))}}
	}

	var gr gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return fmt.Errorf("decode soundtrack response: %w", err)
	}
	if len(gr.Errors) > 0 {
		msgs := make([]string, 0, len(gr.Errors))
		for _, e := range gr.Errors {
			msgs = append(msgs, e.Message)
		}
		return &APIError{Messages: msgs}
	}
	if out != nil && len(gr.Data) > 0 {
		if err := json.Unmarshal(gr.Data, out); err != nil {
			return fmt.Errorf("decode soundtrack data: %w", err)
		}
	}
	return nil
}
