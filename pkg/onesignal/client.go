// Package onesignal is a minimal client for the OneSignal REST API, covering
// the single create-notification call the alert pipeline needs.
package onesignal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	appID   string
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(appID, apiKey, baseURL string) *Client {
	return &Client{
		appID:   appID,
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type NotificationRequest struct {
	AppID            string                 `json:"app_id"`
	IncludePlayerIDs []string               `json:"include_player_ids"`
	Headings         map[string]string      `json:"headings"`
	Contents         map[string]string      `json:"contents"`
	Subtitle         map[string]string      `json:"subtitle,omitempty"`
	Data             map[string]interface{} `json:"data,omitempty"`
	Priority         int                    `json:"priority,omitempty"`
}

type NotificationResponse struct {
	ID         string `json:"id"`
	Recipients int    `json:"recipients"`
}

// CreateNotification submits one push addressed to the full batch of player
// tokens. The caller decides how to handle a delivery failure.
func (c *Client) CreateNotification(ctx context.Context, req NotificationRequest) (*NotificationResponse, error) {
	req.AppID = c.appID

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal push request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("push provider returned %d: %s", resp.StatusCode, string(b))
	}

	var out NotificationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode push response: %w", err)
	}

	return &out, nil
}
