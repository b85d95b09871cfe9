package license

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/partner"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Client extends license expiry dates on clients' remote license backends.
// It implements the billing LicenseClient interface.
//
// Each client company runs its own backend, so the base URL and API
// credentials come from the client record, not from configuration.
type Client struct {
	deviceID   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new license backend client
func NewClient(cfg config.LicenseConfig, logger *zap.Logger) *Client {
	return &Client{
		deviceID:   cfg.DeviceID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("license"),
	}
}

type loginRequest struct {
	UserName       string `json:"userName"`
	Password       string `json:"password"`
	LoggedDeviceID string `json:"loggedDeviceId"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type companyResponse struct {
	Code string `json:"code"`
}

type updateRequest struct {
	LicenseExpiryDate string `json:"licenseExpiryDate"`
}

// ExtendLicense logs into the client's license backend, resolves the company
// code and patches the license expiry date. Any failed step fails the whole
// operation.
func (c *Client) ExtendLicense(ctx context.Context, creds partner.LicenseCredentials, expiry time.Time) error {
	token, err := c.login(ctx, creds)
	if err != nil {
		return err
	}

	code, err := c.companyCode(ctx, creds.BackendBaseURL, token)
	if err != nil {
		return err
	}

	return c.updateExpiry(ctx, creds.BackendBaseURL, token, code, expiry)
}

func (c *Client) login(ctx context.Context, creds partner.LicenseCredentials) (string, error) {
	body, err := json.Marshal(loginRequest{
		UserName:       creds.APIUserName,
		Password:       creds.APIPassword,
		LoggedDeviceID: c.deviceID,
	})
	if err != nil {
		return "", shared.NewExternalServiceError("license-backend", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.BackendBaseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", shared.NewExternalServiceError("license-backend", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", shared.NewExternalServiceError("license-backend", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", shared.NewExternalServiceError("license-backend",
			fmt.Errorf("login returned status %d", resp.StatusCode))
	}

	var parsed loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", shared.NewExternalServiceError("license-backend", err)
	}
	if parsed.AccessToken == "" {
		return "", shared.NewExternalServiceError("license-backend",
			fmt.Errorf("login response missing access token"))
	}
	return parsed.AccessToken, nil
}

func (c *Client) companyCode(ctx context.Context, baseURL, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/company", nil)
	if err != nil {
		return "", shared.NewExternalServiceError("license-backend", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", shared.NewExternalServiceError("license-backend", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", shared.NewExternalServiceError("license-backend",
			fmt.Errorf("company lookup returned status %d", resp.StatusCode))
	}

	var parsed companyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", shared.NewExternalServiceError("license-backend", err)
	}
	if parsed.Code == "" {
		return "", shared.NewExternalServiceError("license-backend",
			fmt.Errorf("company response missing code"))
	}
	return parsed.Code, nil
}

func (c *Client) updateExpiry(ctx context.Context, baseURL, token, code string, expiry time.Time) error {
	body, err := json.Marshal(updateRequest{LicenseExpiryDate: expiry.UTC().Format(time.RFC3339)})
	if err != nil {
		return shared.NewExternalServiceError("license-backend", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, baseURL+"/company/update/"+code, bytes.NewReader(body))
	if err != nil {
		return shared.NewExternalServiceError("license-backend", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return shared.NewExternalServiceError("license-backend", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return shared.NewExternalServiceError("license-backend",
			fmt.Errorf("license update returned status %d", resp.StatusCode))
	}

	c.logger.Info("license expiry updated",
		zap.String("company_code", code),
		zap.Time("expiry", expiry),
	)
	return nil
}
