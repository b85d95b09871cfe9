package partner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestClient(t *testing.T) *Client {
	c, err := NewClient("Acme Supplies Ltd", "Jane Wanjiku", "0712345678", "jane@acme.co.ke")
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	c := createTestClient(t)
	assert.Equal(t, ClientStatusActive, c.Status)
	assert.Equal(t, 1, c.GetVersion())
	assert.Len(t, c.GetDomainEvents(), 1)

	_, err := NewClient("", "x", "", "")
	assert.Error(t, err)

	_, err = NewClient("   ", "x", "", "")
	assert.Error(t, err)
}

func TestClient_LicenseCredentials(t *testing.T) {
	c := createTestClient(t)

	_, err := c.LicenseCredentials()
	assert.Error(t, err, "unconfigured client must not yield credentials")

	c.SetLicenseCredentials("https://acme.example.com/api", "esperanza", "secret")
	creds, err := c.LicenseCredentials()
	require.NoError(t, err)
	assert.Equal(t, "https://acme.example.com/api", creds.BackendBaseURL)

	// Partial credentials are treated the same as none
	c.SetLicenseCredentials("https://acme.example.com/api", "", "secret")
	_, err = c.LicenseCredentials()
	assert.Error(t, err)
}

func TestClient_DisplayName(t *testing.T) {
	c := createTestClient(t)
	assert.Equal(t, "Jane Wanjiku", c.DisplayName())

	c.ContactPerson = "  "
	assert.Equal(t, "Acme Supplies Ltd", c.DisplayName())
}

func TestClient_PreferredMobile(t *testing.T) {
	c := createTestClient(t)

	mobile, ok := c.PreferredMobile()
	require.True(t, ok)
	assert.Equal(t, "254712345678", mobile)

	// Falls back to the alternate phone when the primary is unusable
	c.Phone = "n/a"
	c.AlternatePhone = "722000111"
	mobile, ok = c.PreferredMobile()
	require.True(t, ok)
	assert.Equal(t, "254722000111", mobile)

	c.AlternatePhone = ""
	_, ok = c.PreferredMobile()
	assert.False(t, ok)
}

func TestClient_RecordLicenseExpiry(t *testing.T) {
	c := createTestClient(t)
	expiry := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	c.RecordLicenseExpiry(expiry)
	require.NotNil(t, c.LicenseExpiryDate)
	assert.Equal(t, expiry, *c.LicenseExpiryDate)
	assert.Equal(t, 2, c.GetVersion())
}

func TestClient_ActivateDeactivate(t *testing.T) {
	c := createTestClient(t)
	c.Deactivate()
	assert.False(t, c.IsActive())
	c.Activate()
	assert.True(t, c.IsActive())
}
