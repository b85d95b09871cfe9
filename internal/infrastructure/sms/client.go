package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Client sends SMS messages through an HTTP gateway. It implements the
// billing SmsGateway interface.
type Client struct {
	baseURL    string
	apiKey     string
	senderName string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new SMS gateway client
func NewClient(cfg config.SMSConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		senderName: cfg.SenderName,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("sms"),
	}
}

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

type sendResponse struct {
	Status string `json:"status"`
}

// SendSMS delivers a message to a mobile number in international format
func (c *Client) SendSMS(ctx context.Context, mobile, message string) error {
	body, err := json.Marshal(sendRequest{To: mobile, Message: message, Sender: c.senderName})
	if err != nil {
		return shared.NewExternalServiceError("sms-gateway", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return shared.NewExternalServiceError("sms-gateway", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return shared.NewExternalServiceError("sms-gateway", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("sms gateway rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("mobile", mobile),
			zap.ByteString("body", payload),
		)
		return shared.NewExternalServiceError("sms-gateway",
			fmt.Errorf("gateway returned status %d", resp.StatusCode))
	}

	var parsed sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err == nil && parsed.Status != "" && parsed.Status != "sent" && parsed.Status != "queued" {
		return shared.NewExternalServiceError("sms-gateway",
			fmt.Errorf("gateway reported status %q", parsed.Status))
	}

	c.logger.Debug("sms sent", zap.String("mobile", mobile))
	return nil
}
