package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	PathEntitlement   = "/entitlement"
	PathArticlesCount = "/usage/articles-count"
	PathImageUsage    = "/usage/images"

	maxBodyBytes = 1 << 20
)

// ErrUnsuccessful is returned when the backend answers with success=false.
var ErrUnsuccessful = errors.New("backend reported failure")

// Entitlement is the payload of GET /entitlement.
type Entitlement struct {
	Plan      string     `json:"plan" validate:"required"`
	ExpiresAt *time.Time `json:"expiresAt"`
	IsPro     bool       `json:"isPro"`
	IsExpired bool       `json:"isExpired"`
}

// ArticlesCount is the payload of GET /usage/articles-count.
type ArticlesCount struct {
	Total int `json:"total" validate:"gte=0"`
}

// ImageUsage is the payload of GET /usage/images.
type ImageUsage struct {
	MonthlyUsed int `json:"monthlyUsed" validate:"gte=0"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client talks to the PostFox account backend.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

var validate = validator.New()

// NewClient creates a client for baseURL. timeout bounds every request on top
// of any context deadline.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Token:   strings.TrimSpace(token),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetEntitlement fetches the current user's plan.
func (c *Client) GetEntitlement(ctx context.Context) (*Entitlement, error) {
	var out Entitlement
	if err := c.get(ctx, PathEntitlement, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetArticlesCount fetches the number of stored articles.
func (c *Client) GetArticlesCount(ctx context.Context) (int, error) {
	var out ArticlesCount
	if err := c.get(ctx, PathArticlesCount, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

// GetImageUsage fetches the number of images uploaded this billing period.
func (c *Client) GetImageUsage(ctx context.Context) (int, error) {
	var out ImageUsage
	if err := c.get(ctx, PathImageUsage, &out); err != nil {
		return 0, err
	}
	return out.MonthlyUsed, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("GET %s: read body: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s failed: status=%d body=%s", path, resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("GET %s: decode envelope: %w", path, err)
	}
	if !env.Success {
		if env.Message != "" {
			return fmt.Errorf("GET %s: %w: %s", path, ErrUnsuccessful, env.Message)
		}
		return fmt.Errorf("GET %s: %w", path, ErrUnsuccessful)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("GET %s: empty data", path)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("GET %s: decode data: %w", path, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("GET %s: invalid data: %w", path, err)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
