package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/stockroom/internal/config"
	"github.com/mamadbah2/stockroom/internal/domain/models"
)

// Client delivers stock report notifications to an external endpoint.
type Client interface {
	SendReport(ctx context.Context, notification models.ReportNotification) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client using the provided configuration values.
func NewClient(cfg config.WebhookConfig) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if cfg.Token != "" {
		restyClient.SetAuthToken(cfg.Token)
	}

	return &APIClient{
		httpClient: restyClient,
		url:        cfg.URL,
	}
}

// apiError represents an error payload returned by the receiver.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *APIClient) SendReport(ctx context.Context, notification models.ReportNotification) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(notification).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send report webhook: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
		return fmt.Errorf("report webhook error: code=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
