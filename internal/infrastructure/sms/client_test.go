package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClientFor(serverURL string) *Client {
	return NewClient(config.SMSConfig{
		BaseURL:    serverURL,
		APIKey:     "test-key",
		SenderName: "ESPERANZA",
		Timeout:    5 * time.Second,
	}, zap.NewNop())
}

func TestSendSMS(t *testing.T) {
	t.Run("posts message with api key header", func(t *testing.T) {
		var gotPath, gotKey string
		var gotBody map[string]string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("X-Api-Key")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "sent"})
		}))
		defer server.Close()

		err := newClientFor(server.URL).SendSMS(context.Background(), "254722111222", "Hello there")
		require.NoError(t, err)

		assert.Equal(t, "/messages", gotPath)
		assert.Equal(t, "test-key", gotKey)
		assert.Equal(t, "254722111222", gotBody["to"])
		assert.Equal(t, "Hello there", gotBody["message"])
		assert.Equal(t, "ESPERANZA", gotBody["sender"])
	})

	t.Run("non-2xx becomes external service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		err := newClientFor(server.URL).SendSMS(context.Background(), "254722111222", "Hello")
		require.Error(t, err)
		var extErr *shared.ExternalServiceError
		assert.ErrorAs(t, err, &extErr)
	})

	t.Run("gateway failure status becomes error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "failed"})
		}))
		defer server.Close()

		err := newClientFor(server.URL).SendSMS(context.Background(), "254722111222", "Hello")
		assert.Error(t, err)
	})

	t.Run("unreachable gateway becomes error", func(t *testing.T) {
		err := newClientFor("http://127.0.0.1:1").SendSMS(context.Background(), "254722111222", "Hello")
		assert.Error(t, err)
	})
}
