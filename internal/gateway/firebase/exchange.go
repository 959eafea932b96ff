package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/TuanVuuuu/petcare-api/internal/gateway"
)

type exchangeRequest struct {
	Token             string `json:"token"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type exchangeErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ExchangeCustomToken trades a custom exchange token for a session token via
// the Identity Toolkit REST endpoint. A non-2xx response means the custom
// token was rejected and is surfaced as ErrTokenInvalid with the upstream
// detail; the call is never retried.
func (c *Client) ExchangeCustomToken(ctx context.Context, customToken string) (*gateway.ExchangeResult, error) {
	body, err := json.Marshal(exchangeRequest{Token: customToken, ReturnSecureToken: true})
	if err != nil {
		return nil, fmt.Errorf("marshal exchange request: %w", err)
	}

	endpoint := c.exchangeEndpoint + "?key=" + url.QueryEscape(c.apiKey)
	resp, err := c.httpClient.Post(ctx, endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("call token exchange endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody exchangeErrorBody
		detail := "token exchange failed"
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Error.Message != "" {
			detail = errBody.Error.Message
		}

		c.logger.WarnContext(ctx, "custom token exchange rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("detail", detail),
		)

		return nil, fmt.Errorf("%w: %s", gateway.ErrTokenInvalid, detail)
	}

	var result gateway.ExchangeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode exchange response: %w", err)
	}

	return &result, nil
}
