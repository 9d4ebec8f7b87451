package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DallanL/nms-like-n-subscribe/config"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/deps"
	"github.com/rs/zerolog"
)

// Client talks to the notification provider's subscription API.
// Renewal has no distinct verb: registering an existing subscription
// again with a fresh expiry replaces it.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

type createRequest struct {
	Model   string  `json:"model"`
	PostURL *string `json:"post_url,omitempty"`
	Domain  string  `json:"domain"`
	User    *string `json:"user,omitempty"`
	Expires string  `json:"subscription-expires-datetime"`
}

type createResponse struct {
	ID              string `json:"id"`
	SubscriptionID  string `json:"subscription_id"`
	ExpiresDatetime string `json:"subscription-expires-datetime"`
	Expires         string `json:"expires"`
}

func NewClient(cfg *config.ProviderConfig, logger zerolog.Logger) deps.ProviderClient {
	client := &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Msg("provider client initialized")

	return client
}

func (c *Client) CreateSubscription(ctx context.Context, req deps.ProviderCreateRequest) (*deps.ProviderSubscription, error) {
	payload := createRequest{
		Model:   req.Model,
		PostURL: req.PostURL,
		Domain:  req.Domain,
		User:    req.User,
		Expires: req.Expires.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal subscription payload: %w", err)
	}

	url := fmt.Sprintf("%s/ns-api/v2/subscriptions", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn().
			Int("status_code", resp.StatusCode).
			Str("domain", req.Domain).
			Str("model", req.Model).
			Msg("provider rejected subscription registration")
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, respBody)
	}

	var result createResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	subscriptionID := result.SubscriptionID
	if subscriptionID == "" {
		subscriptionID = result.ID
	}
	if subscriptionID == "" {
		return nil, fmt.Errorf("provider response carried no subscription identifier")
	}

	expires := req.Expires
	if parsed, ok := parseTimestamp(result.ExpiresDatetime, result.Expires); ok {
		expires = parsed
	}

	c.logger.Info().
		Str("subscription_id", subscriptionID).
		Str("domain", req.Domain).
		Time("expires", expires).
		Msg("subscription registered with provider")

	return &deps.ProviderSubscription{
		SubscriptionID: subscriptionID,
		Expires:        expires,
	}, nil
}

func (c *Client) DeleteSubscription(ctx context.Context, subscriptionID, domain string) error {
	url := fmt.Sprintf("%s/ns-api/v2/subscriptions/%s", c.baseURL, subscriptionID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	c.logger.Info().
		Str("subscription_id", subscriptionID).
		Str("domain", domain).
		Msg("subscription deleted at provider")

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// parseTimestamp accepts RFC 3339 or the provider's legacy
// "2006-01-02 15:04:05" format, first non-empty value wins.
func parseTimestamp(values ...string) (time.Time, bool) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t.UTC(), true
		}
		if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
