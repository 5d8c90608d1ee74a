package alert

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/stockroom/internal/config"
)

// Client exposes the webhook notification operation used by the application.
type Client interface {
	SendAlert(ctx context.Context, req SendAlertRequest) (*SendAlertResponse, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds an alert webhook client using the provided configuration values.
func NewClient(cfg config.AlertConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.WebhookURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.AuthToken != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AuthToken))
	}

	return &APIClient{httpClient: restyClient}
}

// SendAlertRequest represents a notification payload.
type SendAlertRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// SendAlertResponse mirrors the successful response from the webhook sink.
type SendAlertResponse struct {
	ID string `json:"id"`
}

// apiError represents a webhook sink error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendAlert posts the notification to the configured webhook.
func (c *APIClient) SendAlert(ctx context.Context, req SendAlertRequest) (*SendAlertResponse, error) {
	result := new(SendAlertResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(result).
		SetError(apiErr).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("send alert: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		code := resp.StatusCode()
		if apiErr != nil {
			message = apiErr.Error.Message
			if apiErr.Error.Code != 0 {
				code = apiErr.Error.Code
			}
		}
		return nil, fmt.Errorf("alert webhook error: code=%d, message=%s", code, message)
	}

	return result, nil
}
