package firebase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TuanVuuuu/petcare-api/internal/gateway"
	"github.com/TuanVuuuu/petcare-api/pkg/httpclient"
)

func exchangeClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	return &Client{
		httpClient:       httpclient.New(httpclient.DefaultConfig()),
		apiKey:           "test-api-key",
		exchangeEndpoint: endpoint,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestExchangeCustomToken_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))

		var req exchangeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "custom-tok", req.Token)
		assert.True(t, req.ReturnSecureToken)

		_ = json.NewEncoder(w).Encode(gateway.ExchangeResult{
			IDToken:      "id-tok",
			RefreshToken: "refresh-tok",
			ExpiresIn:    "3600",
		})
	}))
	defer srv.Close()

	c := exchangeClient(t, srv.URL)
	result, err := c.ExchangeCustomToken(context.Background(), "custom-tok")
	require.NoError(t, err)

	assert.Equal(t, "id-tok", result.IDToken)
	assert.Equal(t, "refresh-tok", result.RefreshToken)
	assert.Equal(t, "3600", result.ExpiresIn)
}

func TestExchangeCustomToken_RejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"INVALID_CUSTOM_TOKEN"}}`))
	}))
	defer srv.Close()

	c := exchangeClient(t, srv.URL)
	_, err := c.ExchangeCustomToken(context.Background(), "garbage")
	require.Error(t, err)

	assert.ErrorIs(t, err, gateway.ErrTokenInvalid)
	assert.Contains(t, err.Error(), "INVALID_CUSTOM_TOKEN")
}

func TestExchangeCustomToken_MalformedErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := exchangeClient(t, srv.URL)
	_, err := c.ExchangeCustomToken(context.Background(), "garbage")
	require.Error(t, err)

	assert.ErrorIs(t, err, gateway.ErrTokenInvalid)
	assert.Contains(t, err.Error(), "token exchange failed")
}

func TestExchangeCustomToken_UpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection errors

	c := exchangeClient(t, srv.URL)
	_, err := c.ExchangeCustomToken(context.Background(), "custom-tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, gateway.ErrTokenInvalid)
}
